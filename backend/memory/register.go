package memory

import "github.com/gobeaver/pathkit"

func init() {
	pathkit.RegisterOverride("memory", pathkit.Entry{
		Flavour: pathkit.PosixFlavour,
		Factory: func(opts pathkit.Options) (pathkit.Backend, error) {
			return New(), nil
		},
	})
}
