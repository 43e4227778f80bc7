package pathkit

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gobeaver/beaver-kit/config"
)

// Config holds the engine-wide settings of the path core.
type Config struct {
	// Protocol assumed for addresses without a scheme
	DefaultProtocol string `env:"PATHKIT_DEFAULT_PROTOCOL,default:file"`

	// Maximum number of links in a chained address
	MaxChainDepth int `env:"PATHKIT_MAX_CHAIN_DEPTH,default:8" validate:"gte=1"`

	// Emit a warning when an unregistered protocol falls back to the
	// default flavour
	WarnUnregistered bool `env:"PATHKIT_WARN_UNREGISTERED,default:true"`
}

// validate is the singleton validator instance
var validate = validator.New()

// GetConfig returns config loaded from environment
func GetConfig() (*Config, error) {
	cfg := &Config{}
	if err := config.Load(cfg); err != nil {
		return nil, err
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration using struct tags plus rules that
// cannot be expressed in tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("invalid pathkit config: %w", err)
	}
	if !ValidProtocolName(cfg.DefaultProtocol) {
		return fmt.Errorf("default_protocol: %q is not a valid protocol name", cfg.DefaultProtocol)
	}
	return nil
}
