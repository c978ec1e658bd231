package discord

import "context"

// VoiceStateEvent is a presence change translated out of the platform's
// gateway payload. Empty channel ids mean "not connected". Username is
// snapshotted at event time so a departing user can still be attributed.
type VoiceStateEvent struct {
	GuildID         string
	UserID          string
	Username        string
	UserIsBot       bool
	BeforeChannelID string
	AfterChannelID  string
}

type ChannelInfo struct {
	ID       string
	Name     string
	ParentID string
}

type EmbedField struct {
	Name  string
	Value string
}

type Embed struct {
	Title       string
	Description string
	Color       int
	ImageURL    string
	Fields      []EmbedField
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	RegisterVoiceStateUpdateHandler(handler func(VoiceStateEvent))
	FetchChannel(channelID string) (ChannelInfo, error)
	CreateVoiceChannel(guildID, parentID, name string) (ChannelInfo, error)
	DeleteChannel(channelID string) error
	MoveMember(guildID, userID, channelID string) error
	CountVoiceChannelMembers(guildID, channelID string) (int, error)
	SendEmbedMessage(channelID string, embed Embed) error
	Run() error
}
