package config

import (
	"fmt"
	"log"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config is the process configuration, loaded from the environment
// (optionally seeded from a .env file).
type Config struct {
	DiscordToken      string   `env:"DISCORD_TOKEN,required"`
	StoragePath       string   `env:"STORAGE_PATH" envDefault:"datastore.json"`
	GuildBlacklist    []string `env:"GUILD_BLACKLIST" envSeparator:","`
	InitSlashCommands bool     `env:"INIT_SLASH_COMMANDS" envDefault:"true"`
}

// New loads configuration. A missing .env file is not an error; the system
// environment is always consulted.
func New() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("[INFO] No .env file found, using system environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	return &cfg, nil
}
