package discord

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/voixlab/portier/internal/discord"
)

type Client struct {
	session *discordgo.Session
	token   string
}

func NewClient(token string) discordpkg.Client {
	return &Client{
		token: token,
	}
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuildMessages | discordgo.IntentsGuildVoiceStates)
	s.State.TrackVoice = true
	s.State.TrackChannels = true
	s.State.TrackMembers = true
	return s.Open()
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) RegisterVoiceStateUpdateHandler(handler func(discordpkg.VoiceStateEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, vs *discordgo.VoiceStateUpdate) {
		if vs == nil {
			return
		}
		beforeChannelID := ""
		if vs.BeforeUpdate != nil {
			beforeChannelID = vs.BeforeUpdate.ChannelID
		}
		afterChannelID := vs.ChannelID
		if vs.GuildID == "" || vs.UserID == "" {
			return
		}
		event := discordpkg.VoiceStateEvent{
			GuildID:         vs.GuildID,
			UserID:          vs.UserID,
			Username:        c.resolveUsername(vs.GuildID, vs.UserID, vs.VoiceState),
			UserIsBot:       c.resolveUserIsBot(vs.GuildID, vs.UserID, vs.VoiceState),
			BeforeChannelID: beforeChannelID,
			AfterChannelID:  afterChannelID,
		}
		// Events arrive one at a time from the gateway; handlers for
		// different users run concurrently.
		go handler(event)
	})
}

func (c *Client) FetchChannel(channelID string) (discordpkg.ChannelInfo, error) {
	channel := c.resolveChannel(channelID)
	if channel == nil {
		return discordpkg.ChannelInfo{}, fmt.Errorf("channel %s could not be resolved", channelID)
	}
	return discordpkg.ChannelInfo{
		ID:       channel.ID,
		Name:     channel.Name,
		ParentID: channel.ParentID,
	}, nil
}

func (c *Client) CreateVoiceChannel(guildID, parentID, name string) (discordpkg.ChannelInfo, error) {
	channel, err := c.session.GuildChannelCreateComplex(guildID, discordgo.GuildChannelCreateData{
		Name:     name,
		Type:     discordgo.ChannelTypeGuildVoice,
		ParentID: parentID,
	})
	if err != nil {
		return discordpkg.ChannelInfo{}, err
	}
	return discordpkg.ChannelInfo{
		ID:       channel.ID,
		Name:     channel.Name,
		ParentID: channel.ParentID,
	}, nil
}

func (c *Client) DeleteChannel(channelID string) error {
	_, err := c.session.ChannelDelete(channelID)
	if isRESTNotFound(err) {
		// Already gone; nothing left to reap.
		return nil
	}
	return err
}

func (c *Client) MoveMember(guildID, userID, channelID string) error {
	return c.session.GuildMemberMove(guildID, userID, &channelID)
}

func (c *Client) CountVoiceChannelMembers(guildID, channelID string) (int, error) {
	if c.session == nil || c.session.State == nil {
		return 0, fmt.Errorf("discord session is not initialized")
	}
	guild, err := c.session.State.Guild(guildID)
	if err != nil || guild == nil {
		return 0, fmt.Errorf("guild %s could not be resolved from state", guildID)
	}
	seen := make(map[string]struct{})
	for _, state := range guild.VoiceStates {
		if state == nil || state.ChannelID != channelID || state.UserID == "" {
			continue
		}
		seen[state.UserID] = struct{}{}
	}
	return len(seen), nil
}

func (c *Client) SendEmbedMessage(channelID string, embed discordpkg.Embed) error {
	fields := make([]*discordgo.MessageEmbedField, 0, len(embed.Fields))
	for _, f := range embed.Fields {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:  f.Name,
			Value: f.Value,
		})
	}
	payload := &discordgo.MessageEmbed{
		Title:       embed.Title,
		Description: embed.Description,
		Color:       embed.Color,
		Fields:      fields,
	}
	if embed.ImageURL != "" {
		payload.Image = &discordgo.MessageEmbedImage{URL: embed.ImageURL}
	}
	_, err := c.session.ChannelMessageSendEmbed(channelID, payload)
	return err
}

func (c *Client) resolveUsername(guildID, userID string, state *discordgo.VoiceState) string {
	if state != nil && state.Member != nil && state.Member.User != nil {
		if name := preferredDiscordName(state.Member.Nick, state.Member.User.GlobalName, state.Member.User.Username); name != "" {
			return name
		}
	}
	if c.session != nil && c.session.State != nil {
		member, err := c.session.State.Member(guildID, userID)
		if err == nil && member != nil && member.User != nil {
			if name := preferredDiscordName(member.Nick, member.User.GlobalName, member.User.Username); name != "" {
				return name
			}
		}
	}
	u, err := c.session.User(userID)
	if err == nil && u != nil {
		if name := preferredDiscordName("", u.GlobalName, u.Username); name != "" {
			return name
		}
	}
	return userID
}

func (c *Client) resolveUserIsBot(guildID, userID string, state *discordgo.VoiceState) bool {
	if state != nil && state.Member != nil && state.Member.User != nil {
		return state.Member.User.Bot
	}
	if c.session != nil && c.session.State != nil {
		if c.session.State.User != nil && c.session.State.User.ID == userID {
			return true
		}
		member, err := c.session.State.Member(guildID, userID)
		if err == nil && member != nil && member.User != nil {
			return member.User.Bot
		}
	}
	u, err := c.session.User(userID)
	if err != nil {
		return false
	}
	return u.Bot
}

func (c *Client) resolveChannel(channelID string) *discordgo.Channel {
	if c.session == nil {
		return nil
	}
	if c.session.State != nil {
		channel, err := c.session.State.Channel(channelID)
		if err == nil && channel != nil {
			return channel
		}
	}
	channel, err := c.session.Channel(channelID)
	if err != nil || channel == nil {
		return nil
	}
	return channel
}

func isRESTNotFound(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Response == nil {
		return false
	}
	return restErr.Response.StatusCode == http.StatusNotFound
}

func preferredDiscordName(nick, globalName, username string) string {
	if nick != "" {
		return nick
	}
	if globalName != "" {
		return globalName
	}
	return username
}

func (c *Client) Run() error {
	select {}
}
