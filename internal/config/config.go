package config

import "fmt"

// RarityTier is one band of the room-name lottery: a drop weight in
// percent and the pool of candidate names for that band.
type RarityTier struct {
	Weight float64
	Names  []string
}

type Config struct {
	Env            string
	DiscordToken   string
	DiscordGuildID string
	DatabaseURL    string

	GeneratorChannelID string
	AFKChannelID       string
	ManagedCategoryID  string

	Common    RarityTier
	Rare      RarityTier
	Epic      RarityTier
	Legendary RarityTier

	WeeklySchedule  string
	MonthlySchedule string
	ReportChannelID string
}

func (c *Config) Validate() error {
	for _, req := range c.requiredFieldChecks() {
		if req.value == "" {
			return fmt.Errorf("%s is required", req.name)
		}
	}
	for _, tier := range []struct {
		name   string
		weight float64
	}{
		{name: "common", weight: c.Common.Weight},
		{name: "rare", weight: c.Rare.Weight},
		{name: "epic", weight: c.Epic.Weight},
		{name: "legendary", weight: c.Legendary.Weight},
	} {
		if tier.weight < 0 {
			return fmt.Errorf("drop_rates.%s must not be negative, got %g", tier.name, tier.weight)
		}
	}
	if total := c.TotalDropWeight(); total > 100 {
		return fmt.Errorf("drop rate weights must sum to at most 100, got %g", total)
	}
	return nil
}

// TotalDropWeight is the cumulative lottery weight; any remainder up to
// 100 yields no name and the default room name is used instead.
func (c *Config) TotalDropWeight() float64 {
	return c.Common.Weight + c.Rare.Weight + c.Epic.Weight + c.Legendary.Weight
}

type requiredField struct {
	name  string
	value string
}

func (c *Config) requiredFieldChecks() []requiredField {
	return []requiredField{
		{name: "DISCORD_TOKEN", value: c.DiscordToken},
		{name: "DISCORD_GUILD_ID", value: c.DiscordGuildID},
		{name: "DATABASE_URL", value: c.DatabaseURL},
		{name: "generator.channel_id", value: c.GeneratorChannelID},
		{name: "generator.category_id", value: c.ManagedCategoryID},
		{name: "afk.channel_id", value: c.AFKChannelID},
		{name: "stats.weekly_schedule", value: c.WeeklySchedule},
		{name: "stats.monthly_schedule", value: c.MonthlySchedule},
		{name: "stats.channel_id", value: c.ReportChannelID},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
