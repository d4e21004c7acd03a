package engine

import (
	"github.com/spaghettifunk/xnagfx/engine/config"
)

type ApplicationConfig struct {
	// The application name used in logs and as the window title fallback.
	Name string
	// TOML configuration file. When empty Config is used, or config.Default()
	// if that is nil too.
	ConfigPath string
	Config     *config.Config
	// Watch reloads ConfigPath while the game runs.
	Watch bool
}

func (a *ApplicationConfig) load() (*config.Config, error) {
	if a.ConfigPath != "" {
		return config.Load(a.ConfigPath)
	}
	if a.Config != nil {
		cfg := *a.Config
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	return config.Default(), nil
}
