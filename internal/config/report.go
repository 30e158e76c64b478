package config

import (
	"fmt"
)

// TrackedSystem is one configured solar system of interest. The order of the
// configured list is the row order of every rendered report.
type TrackedSystem struct {
	SystemID int64  `mapstructure:"system-id" json:"system-id"`
	Name     string `mapstructure:"name" json:"name"`
}

type ReportConfig struct {
	Systems []TrackedSystem `mapstructure:"systems" json:"systems"`
	// LowThreshold and HighThreshold split 24h NPC kill totals into the three
	// status buckets, strict greater-than on each boundary.
	LowThreshold      int64 `mapstructure:"low-threshold" json:"low-threshold"`
	HighThreshold     int64 `mapstructure:"high-threshold" json:"high-threshold"`
	EnableWeeklyStats bool  `mapstructure:"enable-weekly-stats" json:"enable-weekly-stats"`
	StatusWidth       int   `mapstructure:"status-width" json:"status-width"`
	WeeklyWidth       int   `mapstructure:"weekly-width" json:"weekly-width"`
}

func (cfg *ReportConfig) Validate() error {
	if cfg.LowThreshold < 0 {
		return fmt.Errorf("low threshold must not be negative")
	}
	if cfg.LowThreshold >= cfg.HighThreshold {
		return fmt.Errorf("low threshold must be below high threshold")
	}
	if cfg.StatusWidth <= 0 || cfg.WeeklyWidth <= 0 {
		return fmt.Errorf("report widths must be positive")
	}
	for _, system := range cfg.Systems {
		if system.SystemID <= 0 {
			return fmt.Errorf("tracked system %q has invalid system id %d", system.Name, system.SystemID)
		}
		if system.Name == "" {
			return fmt.Errorf("tracked system %d has no display name", system.SystemID)
		}
	}

	return nil
}
