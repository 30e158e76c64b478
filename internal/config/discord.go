package config

import (
	"fmt"
)

type DiscordConfig struct {
	// Token is the bot token; usually supplied through the DISCORD_BOT_TOKEN
	// environment variable rather than the settings file.
	Token            string `mapstructure:"token" json:"token"`
	GuildID          string `mapstructure:"guild-id" json:"guild-id"`
	ChannelID        string `mapstructure:"channel-id" json:"channel-id"`
	WorkingPresence  string `mapstructure:"working-presence" json:"working-presence"`
	DowntimePresence string `mapstructure:"downtime-presence" json:"downtime-presence"`
	CommandPrefix    string `mapstructure:"command-prefix" json:"command-prefix"`
}

func (cfg *DiscordConfig) Validate() error {
	if cfg.Token == "" {
		return fmt.Errorf("discord bot token is required")
	}
	if cfg.GuildID == "" {
		return fmt.Errorf("discord guild id is required")
	}
	if cfg.ChannelID == "" {
		return fmt.Errorf("discord channel id is required")
	}
	if cfg.CommandPrefix == "" {
		cfg.CommandPrefix = "!"
	}

	return nil
}
