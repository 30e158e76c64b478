package config

import (
	"fmt"
	"time"
)

type ESIConfig struct {
	// BaseURL specifies the ESI endpoint without a trailing slash.
	BaseURL       string `mapstructure:"base-url" json:"base-url"`
	UserAgent     string `mapstructure:"user-agent" json:"user-agent"`
	Timeout       int    `mapstructure:"timeout" json:"timeout"`
	MaxRetryTimes uint   `mapstructure:"max-retry-times" json:"max-retry-times"`
	RetryInterval int    `mapstructure:"retry-interval" json:"retry-interval"`
}

func (cfg *ESIConfig) Validate() error {
	if cfg.BaseURL == "" {
		return fmt.Errorf("ESI base url is required")
	}
	if cfg.UserAgent == "" {
		return fmt.Errorf("ESI user agent is required, CCP asks for one")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("ESI timeout must be positive")
	}

	return nil
}

func (cfg *ESIConfig) RequestTimeout() time.Duration {
	return time.Duration(cfg.Timeout) * time.Second
}

func (cfg *ESIConfig) RetryDelay() time.Duration {
	return time.Duration(cfg.RetryInterval) * time.Second
}
