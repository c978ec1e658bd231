package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	internalconfig "github.com/voixlab/portier/internal/config"
	"gopkg.in/yaml.v3"
)

type envConfig struct {
	Env            string `env:"ENV" envDefault:"production"`
	DiscordToken   string `env:"DISCORD_TOKEN,required"`
	DiscordGuildID string `env:"DISCORD_GUILD_ID,required"`
	DatabaseURL    string `env:"DATABASE_URL,required"`
	ConfigPath     string `env:"CONFIG_PATH" envDefault:"config.yaml"`
}

type fileConfig struct {
	Generator struct {
		ChannelID  string `yaml:"channel_id"`
		CategoryID string `yaml:"category_id"`
	} `yaml:"generator"`
	AFK struct {
		ChannelID string `yaml:"channel_id"`
	} `yaml:"afk"`
	DropRates struct {
		Common    float64 `yaml:"common"`
		Rare      float64 `yaml:"rare"`
		Epic      float64 `yaml:"epic"`
		Legendary float64 `yaml:"legendary"`
	} `yaml:"drop_rates"`
	Channels struct {
		Common    []string `yaml:"common"`
		Rare      []string `yaml:"rare"`
		Epic      []string `yaml:"epic"`
		Legendary []string `yaml:"legendary"`
	} `yaml:"channels"`
	Stats struct {
		WeeklySchedule  string `yaml:"weekly_schedule"`
		MonthlySchedule string `yaml:"monthly_schedule"`
		ChannelID       string `yaml:"channel_id"`
	} `yaml:"stats"`
}

// Load reads the process environment (with an optional .env file for
// local development) and the YAML room configuration it points at, and
// returns the merged, validated configuration.
func Load() (*internalconfig.Config, error) {
	_ = godotenv.Load()

	var raw envConfig
	if err := env.Parse(&raw); err != nil {
		return nil, fmt.Errorf("environment variables are invalid or missing: %w", err)
	}

	body, err := os.ReadFile(raw.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", raw.ConfigPath, err)
	}
	var file fileConfig
	if err := yaml.Unmarshal(body, &file); err != nil {
		return nil, fmt.Errorf("config file %s is invalid: %w", raw.ConfigPath, err)
	}

	cfg := &internalconfig.Config{
		Env:                raw.Env,
		DiscordToken:       raw.DiscordToken,
		DiscordGuildID:     raw.DiscordGuildID,
		DatabaseURL:        raw.DatabaseURL,
		GeneratorChannelID: file.Generator.ChannelID,
		ManagedCategoryID:  file.Generator.CategoryID,
		AFKChannelID:       file.AFK.ChannelID,
		Common:             internalconfig.RarityTier{Weight: file.DropRates.Common, Names: file.Channels.Common},
		Rare:               internalconfig.RarityTier{Weight: file.DropRates.Rare, Names: file.Channels.Rare},
		Epic:               internalconfig.RarityTier{Weight: file.DropRates.Epic, Names: file.Channels.Epic},
		Legendary:          internalconfig.RarityTier{Weight: file.DropRates.Legendary, Names: file.Channels.Legendary},
		WeeklySchedule:     file.Stats.WeeklySchedule,
		MonthlySchedule:    file.Stats.MonthlySchedule,
		ReportChannelID:    file.Stats.ChannelID,
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
