package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

type Config struct {
	Discord DiscordConfig `mapstructure:"discord" json:"discord"`
	ESI     ESIConfig     `mapstructure:"esi" json:"esi"`
	Db      DbConfig      `mapstructure:"db" json:"db"`
	Report  ReportConfig  `mapstructure:"report" json:"report"`
	Poller  PollerConfig  `mapstructure:"poller" json:"poller"`
	Metrics MetricsConfig `mapstructure:"metrics" json:"metrics"`
}

func (cfg *Config) Validate() error {
	if err := cfg.Discord.Validate(); err != nil {
		return err
	}
	if err := cfg.ESI.Validate(); err != nil {
		return err
	}
	if err := cfg.Db.Validate(); err != nil {
		return err
	}
	if err := cfg.Report.Validate(); err != nil {
		return err
	}
	if err := cfg.Poller.Validate(); err != nil {
		return err
	}
	if err := cfg.Metrics.Validate(); err != nil {
		return err
	}
	return nil
}

// New loads the settings file at cfgPath. The file is operator-edited JSON;
// when it is missing or unreadable the defaults are written back to disk and
// returned, so a broken edit never keeps the bot from starting.
func New(cfgPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(cfgPath)
	v.SetConfigType("json")

	if err := v.ReadInConfig(); err != nil {
		log.Warn().Err(err).Msgf("settings file %s unreadable, resetting to defaults", cfgPath)
		return resetToDefaults(cfgPath)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		log.Warn().Err(err).Msgf("settings file %s malformed, resetting to defaults", cfgPath)
		return resetToDefaults(cfgPath)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// DefaultConfig mirrors the defaults the bot shipped with: thresholds 300/500,
// 5 minute refresh, 20 day retention, weekly stats off, Tranquility downtime.
func DefaultConfig() *Config {
	return &Config{
		Discord: DiscordConfig{
			WorkingPresence:  "Looking for kills",
			DowntimePresence: "Eating grass during daily DT",
			CommandPrefix:    "!",
		},
		ESI: ESIConfig{
			BaseURL:       "https://esi.evetech.net",
			UserAgent:     "ratwatch",
			Timeout:       15,
			MaxRetryTimes: 3,
			RetryInterval: 30,
		},
		Db: DbConfig{
			Address: "mongodb://localhost:27017",
			DbName:  "ratwatch",
		},
		Report: ReportConfig{
			LowThreshold:  300,
			HighThreshold: 500,
			StatusWidth:   460,
			WeeklyWidth:   550,
		},
		Poller: PollerConfig{
			RefreshMinutes:   5,
			RetentionDays:    20,
			MaintenanceStart: "10:58",
			MaintenanceEnd:   "11:10",
			DrainStart:       "10:59",
			DrainEnd:         "11:15",
		},
		Metrics: MetricsConfig{
			Host: "0.0.0.0",
			Port: 2112,
		},
	}
}

func resetToDefaults(cfgPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal default settings: %w", err)
	}
	if err := os.WriteFile(cfgPath, data, 0o600); err != nil {
		// Recovery path only; a read-only disk should not stop the bot.
		log.Warn().Err(err).Msgf("failed to rewrite settings file %s", cfgPath)
	}

	return cfg, nil
}
