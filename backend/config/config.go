package config

import (
	"github.com/outdecked/outdecked/outdecked"
)

// WebAppConfig contains web-specific configuration.
type WebAppConfig struct {
	Config      *outdecked.Config
	Debug       bool
	Environment string
}

// NewWebAppConfig creates a new web app configuration.
func NewWebAppConfig(cfg *outdecked.Config) *WebAppConfig {
	environment := "production"
	if cfg.Web.Debug {
		environment = "development"
	}

	return &WebAppConfig{
		Config:      cfg,
		Debug:       cfg.Web.Debug,
		Environment: environment,
	}
}

// SessionSecret returns the key used to sign session cookies.
func (w *WebAppConfig) SessionSecret() string {
	return w.Config.Web.SessionSecret
}
