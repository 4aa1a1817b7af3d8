// Package di wires streamkeep's services together with samber/do.
package di

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/streamkeep/streamkeep/internal/config"
)

// ConfigPathKey is the named DI key for the configuration file path.
const ConfigPathKey = "config.path"

// ConfigService wraps the loaded configuration.
type ConfigService struct {
	Config *config.Config
	Path   string
}

// NewConfig loads and validates the configuration file registered under
// ConfigPathKey.
func NewConfig(i do.Injector) (*ConfigService, error) {
	path := do.MustInvokeNamed[string](i, ConfigPathKey)

	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &ConfigService{Config: cfg, Path: path}, nil
}
