// Package report publishes the periodic voice-time leaderboards.
package report

import (
	"context"
	"fmt"

	"github.com/voixlab/portier/internal/config"
	"github.com/voixlab/portier/internal/discord"
	"github.com/voixlab/portier/internal/repository"
)

const (
	reportUserLimit = 10
	embedColor      = 0x5865F2
	embedImageURL   = "https://cdn.ronalbathrooms.com/assets_thumbnails/Magazine/2021/19008/image-thumb__19008__magazine-details-hero-img/378_high.avif"

	weeklyTitle      = "Les puants de la semaine"
	monthlyTitle     = "Les puants du mois"
	emptyDescription = "Aucune statistique disponible"
)

type Reporter struct {
	cfg     *config.Config
	store   repository.Store
	discord discord.Client
}

func NewReporter(cfg *config.Config, store repository.Store, dc discord.Client) *Reporter {
	return &Reporter{
		cfg:     cfg,
		store:   store,
		discord: dc,
	}
}

// Publish reads the current calendar bucket's leaderboard and sends it
// to the configured channel. A failure skips this cycle; the next
// scheduled firing tries again from scratch.
func (r *Reporter) Publish(ctx context.Context, period repository.Period) error {
	users, err := r.store.TopUsers(ctx, period, reportUserLimit)
	if err != nil {
		return fmt.Errorf("fetch %s stats: %w", period, err)
	}
	embed := buildStatsEmbed(titleFor(period), users)
	if err := r.discord.SendEmbedMessage(r.cfg.ReportChannelID, embed); err != nil {
		return fmt.Errorf("send %s stats: %w", period, err)
	}
	return nil
}

func titleFor(period repository.Period) string {
	if period == repository.PeriodMonthly {
		return monthlyTitle
	}
	return weeklyTitle
}

func buildStatsEmbed(title string, users []repository.UserStats) discord.Embed {
	embed := discord.Embed{
		Title:    title,
		Color:    embedColor,
		ImageURL: embedImageURL,
	}
	for i, stat := range users {
		embed.Fields = append(embed.Fields, discord.EmbedField{
			Name: fmt.Sprintf("%d - %s", i+1, stat.Username),
			Value: fmt.Sprintf("%.1fh - %d sessions (%.1fh avg)",
				stat.TotalHours(), stat.TotalSessions, stat.AvgHoursPerSession()),
		})
	}
	if len(users) == 0 {
		embed.Description = emptyDescription
	}
	return embed
}
