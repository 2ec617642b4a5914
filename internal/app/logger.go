package app

import "github.com/userhubio/userhub/pkg/logger"

// InitLogger configures the global logger from the loaded configuration.
func InitLogger(cfg *Config) error {
	return logger.Init(cfg.Server.LogLevel, cfg.Server.Debug)
}
