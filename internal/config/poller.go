package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/evetools/ratwatch/internal/utils/timewindow"
)

type PollerConfig struct {
	RefreshMinutes int `mapstructure:"refresh-minutes" json:"refresh-minutes"`
	RetentionDays  int `mapstructure:"retention-days" json:"retention-days"`
	// The maintenance window is when the bot stops calling ESI; the drain
	// window is slightly wider and is what the bot waits out, absorbing the
	// restart jitter of the daily Tranquility downtime. Times are UTC "HH:MM".
	MaintenanceStart string `mapstructure:"maintenance-start" json:"maintenance-start"`
	MaintenanceEnd   string `mapstructure:"maintenance-end" json:"maintenance-end"`
	DrainStart       string `mapstructure:"drain-start" json:"drain-start"`
	DrainEnd         string `mapstructure:"drain-end" json:"drain-end"`
}

func (cfg *PollerConfig) Validate() error {
	if cfg.RefreshMinutes <= 0 {
		return errors.New("refresh-minutes must be positive")
	}
	if cfg.RetentionDays <= 0 {
		return errors.New("retention-days must be positive")
	}
	if _, err := cfg.MaintenanceWindow(); err != nil {
		return fmt.Errorf("invalid maintenance window: %w", err)
	}
	if _, err := cfg.DrainWindow(); err != nil {
		return fmt.Errorf("invalid drain window: %w", err)
	}

	return nil
}

func (cfg *PollerConfig) RefreshInterval() time.Duration {
	return time.Duration(cfg.RefreshMinutes) * time.Minute
}

func (cfg *PollerConfig) Retention() time.Duration {
	return time.Duration(cfg.RetentionDays) * 24 * time.Hour
}

func (cfg *PollerConfig) MaintenanceWindow() (timewindow.Window, error) {
	return timewindow.Parse(cfg.MaintenanceStart, cfg.MaintenanceEnd)
}

func (cfg *PollerConfig) DrainWindow() (timewindow.Window, error) {
	return timewindow.Parse(cfg.DrainStart, cfg.DrainEnd)
}
