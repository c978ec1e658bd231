package discord

import (
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestSession(t *testing.T, rt roundTripFunc) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if rt != nil {
		s.Client = &http.Client{Transport: rt}
	}
	return s
}

func TestFetchChannel_UsesStateCacheFirst(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		t.Fatalf("unexpected REST call: %s %s", req.Method, req.URL.String())
		return nil, nil
	})
	if err := s.State.GuildAdd(&discordgo.Guild{ID: "guild-1"}); err != nil {
		t.Fatalf("failed to add guild to state: %v", err)
	}
	if err := s.State.ChannelAdd(&discordgo.Channel{
		ID:       "room-1",
		GuildID:  "guild-1",
		Name:     "salon",
		ParentID: "category-1",
		Type:     discordgo.ChannelTypeGuildVoice,
	}); err != nil {
		t.Fatalf("failed to add channel to state: %v", err)
	}

	c := &Client{session: s}
	info, err := c.FetchChannel("room-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.ParentID != "category-1" {
		t.Fatalf("expected parent category-1, got %q", info.ParentID)
	}
	if info.Name != "salon" {
		t.Fatalf("expected name salon, got %q", info.Name)
	}
}

func TestFetchChannel_FallsBackToRESTWhenStateIsCold(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if !strings.HasSuffix(req.URL.Path, "/channels/room-rest") {
			t.Fatalf("unexpected request path: %s", req.URL.Path)
		}
		return &http.Response{
			StatusCode: http.StatusOK,
			Status:     "200 OK",
			Body: io.NopCloser(strings.NewReader(
				`{"id":"room-rest","guild_id":"guild-1","name":"grotte","parent_id":"category-1","type":2}`,
			)),
			Header: make(http.Header),
		}, nil
	})

	c := &Client{session: s}
	info, err := c.FetchChannel("room-rest")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Name != "grotte" || info.ParentID != "category-1" {
		t.Fatalf("unexpected channel info: %+v", info)
	}
}

func TestCountVoiceChannelMembers(t *testing.T) {
	s := newTestSession(t, nil)
	if err := s.State.GuildAdd(&discordgo.Guild{
		ID: "guild-1",
		VoiceStates: []*discordgo.VoiceState{
			{GuildID: "guild-1", ChannelID: "room-1", UserID: "user-1"},
			{GuildID: "guild-1", ChannelID: "room-1", UserID: "user-2"},
			{GuildID: "guild-1", ChannelID: "room-2", UserID: "user-3"},
		},
	}); err != nil {
		t.Fatalf("failed to add guild to state: %v", err)
	}

	c := &Client{session: s}
	n, err := c.CountVoiceChannelMembers("guild-1", "room-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 members, got %d", n)
	}
	n, err = c.CountVoiceChannelMembers("guild-1", "room-3")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 members, got %d", n)
	}
}

func TestDeleteChannel_TreatsNotFoundAsDeleted(t *testing.T) {
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Status:     "404 Not Found",
			Body:       io.NopCloser(strings.NewReader(`{"message":"Unknown Channel","code":10003}`)),
			Header:     make(http.Header),
		}, nil
	})

	c := &Client{session: s}
	if err := c.DeleteChannel("room-gone"); err != nil {
		t.Fatalf("expected nil for already-deleted channel, got %v", err)
	}
}

func TestPreferredDiscordName(t *testing.T) {
	if got := preferredDiscordName("nick", "global", "user"); got != "nick" {
		t.Fatalf("expected nick, got %q", got)
	}
	if got := preferredDiscordName("", "global", "user"); got != "global" {
		t.Fatalf("expected global, got %q", got)
	}
	if got := preferredDiscordName("", "", "user"); got != "user" {
		t.Fatalf("expected user, got %q", got)
	}
}
