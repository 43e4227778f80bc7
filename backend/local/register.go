package local

import (
	"github.com/gobeaver/pathkit"
	"github.com/mitchellh/mapstructure"
)

func init() {
	entry := pathkit.Entry{
		Flavour: pathkit.LocalFlavour(),
		Factory: func(opts pathkit.Options) (pathkit.Backend, error) {
			var cfg Config
			if err := mapstructure.Decode(map[string]string(opts), &cfg); err != nil {
				return nil, err
			}
			return New(cfg.BasePath)
		},
	}
	pathkit.RegisterOverride("file", entry)
	pathkit.RegisterOverride("local", entry)
}
