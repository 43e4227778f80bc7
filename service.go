package pathkit

import (
	"sync"

	"github.com/gobeaver/beaver-kit/config"
)

// Process-wide engine settings. Reads vastly outnumber writes: every
// path construction consults them, Init is typically called once at
// startup if at all.
var (
	settingsMu sync.RWMutex
	settings   = Config{
		DefaultProtocol:  "file",
		MaxChainDepth:    8,
		WarnUnregistered: true,
	}
)

// Init applies cfg as the process-wide engine settings. Paths already
// constructed are unaffected.
func Init(cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	settingsMu.Lock()
	settings = *cfg
	settingsMu.Unlock()
	return nil
}

// InitFromEnv loads the engine settings from the environment.
func InitFromEnv() error {
	cfg, err := GetConfig()
	if err != nil {
		return err
	}
	return Init(cfg)
}

func defaultSettings() Config {
	settingsMu.RLock()
	defer settingsMu.RUnlock()
	return settings
}

// Builder loads engine settings with a custom environment prefix
type Builder struct {
	prefix string
}

// WithPrefix creates a new Builder with the specified prefix
func WithPrefix(prefix string) *Builder {
	return &Builder{prefix: prefix}
}

// Init initializes the engine settings using the builder's prefix
func (b *Builder) Init() error {
	cfg := &Config{}
	if err := config.Load(cfg, config.LoadOptions{Prefix: b.prefix}); err != nil {
		return err
	}
	return Init(cfg)
}
