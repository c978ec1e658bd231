package presence

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/voixlab/portier/internal/config"
	"github.com/voixlab/portier/internal/discord"
	"github.com/voixlab/portier/internal/rarity"
	"github.com/voixlab/portier/internal/repository"
)

// Name used when the lottery yields no selection.
const defaultRoomName = "channel"

const recordSessionTimeout = 10 * time.Second

// Manager is the single entry point for presence events. It classifies
// each event, performs the room lifecycle side effects, and drives the
// registry and the session store.
type Manager struct {
	cfg      *config.Config
	store    repository.Store
	discord  discord.Client
	namer    *rarity.Selector
	registry *Registry
}

func NewManager(cfg *config.Config, store repository.Store, dc discord.Client, namer *rarity.Selector) *Manager {
	return &Manager{
		cfg:      cfg,
		store:    store,
		discord:  dc,
		namer:    namer,
		registry: NewRegistry(),
	}
}

func (m *Manager) HandleVoiceStateUpdate(event discord.VoiceStateEvent) {
	if event.GuildID != m.cfg.DiscordGuildID {
		return
	}
	if event.UserIsBot {
		return
	}
	kind := Classify(event.BeforeChannelID, event.AfterChannelID, m.cfg.AFKChannelID)
	if kind == TransitionNoChange {
		return
	}
	slog.Debug("voice transition",
		"kind", kind.String(),
		"user_id", event.UserID,
		"before_channel_id", event.BeforeChannelID,
		"after_channel_id", event.AfterChannelID)
	if err := m.applyTransition(kind, event); err != nil {
		slog.Error("voice transition abandoned",
			"error", err,
			"kind", kind.String(),
			"user_id", event.UserID,
			"before_channel_id", event.BeforeChannelID,
			"after_channel_id", event.AfterChannelID)
	}
}

// applyTransition runs lifecycle side effects before registry updates,
// and aborts at the first failure; an error never leaves the registry
// or the store in a state that affects other users.
func (m *Manager) applyTransition(kind TransitionKind, event discord.VoiceStateEvent) error {
	switch kind {
	case TransitionJoined, TransitionLeftAfk:
		if err := m.provision(event); err != nil {
			return err
		}
		m.registry.MarkJoined(event.UserID)
	case TransitionLeft, TransitionJoinedAfk:
		if err := m.reap(event.GuildID, event.BeforeChannelID); err != nil {
			return err
		}
		return m.closeSession(event)
	case TransitionMoved:
		// The user stayed present throughout; only channel identity
		// changes matter here, the registry is untouched.
		if err := m.reap(event.GuildID, event.BeforeChannelID); err != nil {
			return err
		}
		return m.provision(event)
	}
	return nil
}

// provision creates a fresh ephemeral room when the user entered the
// generator channel, and moves them into it. Two users hitting the
// generator concurrently each get their own room; there is no shared
// open-room reuse.
func (m *Manager) provision(event discord.VoiceStateEvent) error {
	if event.AfterChannelID != m.cfg.GeneratorChannelID {
		return nil
	}
	generator, err := m.discord.FetchChannel(event.AfterChannelID)
	if err != nil {
		return fmt.Errorf("fetch generator channel: %w", err)
	}
	if generator.ParentID == "" {
		slog.Warn("generator channel has no parent category; skipping room creation",
			"channel_id", generator.ID)
		return nil
	}
	name, ok := m.namer.Pick()
	if !ok {
		name = defaultRoomName
	}
	room, err := m.discord.CreateVoiceChannel(event.GuildID, generator.ParentID, name)
	if err != nil {
		return fmt.Errorf("create room %q: %w", name, err)
	}
	slog.Info("ephemeral room created",
		"channel_id", room.ID,
		"name", name,
		"parent_id", generator.ParentID,
		"user_id", event.UserID)
	if err := m.discord.MoveMember(event.GuildID, event.UserID, room.ID); err != nil {
		return fmt.Errorf("move member into room %s: %w", room.ID, err)
	}
	return nil
}

// reap deletes the channel the user just left, if it is a managed room
// with nobody remaining. Membership is re-checked live at decision
// time; someone can still join between the check and the delete, in
// which case the failed delete is logged and never retried.
func (m *Manager) reap(guildID, channelID string) error {
	if channelID == "" || channelID == m.cfg.GeneratorChannelID || channelID == m.cfg.AFKChannelID {
		return nil
	}
	channel, err := m.discord.FetchChannel(channelID)
	if err != nil {
		return fmt.Errorf("fetch channel %s: %w", channelID, err)
	}
	if channel.ParentID != m.cfg.ManagedCategoryID {
		return nil
	}
	remaining, err := m.discord.CountVoiceChannelMembers(guildID, channelID)
	if err != nil {
		return fmt.Errorf("count members of %s: %w", channelID, err)
	}
	if remaining > 0 {
		return nil
	}
	if err := m.discord.DeleteChannel(channelID); err != nil {
		slog.Warn("failed to delete empty room", "channel_id", channelID, "error", err)
		return nil
	}
	slog.Info("ephemeral room reaped", "channel_id", channelID, "name", channel.Name)
	return nil
}

func (m *Manager) closeSession(event discord.VoiceStateEvent) error {
	duration, ok := m.registry.MarkLeft(event.UserID)
	if !ok {
		slog.Warn("leave without a tracked session; skipping accounting",
			"user_id", event.UserID,
			"username", event.Username)
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordSessionTimeout)
	defer cancel()
	input := repository.RecordSessionInput{
		UserID:          event.UserID,
		Username:        event.Username,
		DurationSeconds: int64(duration.Seconds()),
		OccurredAt:      time.Now(),
	}
	if err := m.store.RecordSession(ctx, input); err != nil {
		return fmt.Errorf("record session for %s: %w", event.UserID, err)
	}
	slog.Info("voice session recorded",
		"user_id", event.UserID,
		"username", event.Username,
		"duration_seconds", input.DurationSeconds)
	return nil
}
