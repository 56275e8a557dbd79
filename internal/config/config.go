package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	BotToken    string `env:"BOT_TOKEN,required"`
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"5"`

	// Surfaces the bot publishes to and checks membership against.
	// Either @username or a numeric chat id.
	ChannelID string `env:"CHANNEL_ID,required"`
	GroupID   string `env:"GROUP_ID,required"`

	YoutubeLink string `env:"YOUTUBE_LINK" envDefault:"https://youtube.com/@swkombat"`

	// Admin
	AdminIDs []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Health probe server
	Port int `env:"PORT" envDefault:"10000"`

	// Membership checks per second across the whole process. The
	// maintenance sweep fans out O(participants x competitions) calls,
	// so this is the lever that keeps the platform from throttling us.
	MembershipRateLimit float64 `env:"MEMBERSHIP_RATE_LIMIT" envDefault:"20"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
