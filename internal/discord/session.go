package discord

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"

	"github.com/bwmarrin/discordgo"

	"github.com/mcoot/apextrack/internal/model"
)

// Guild is one server a session has joined
type Guild struct {
	ID   string
	Name string
}

// Session is the narrow contract the updaters and runner need from a chat
// platform connection. Gateway mechanics, auth and reconnects stay behind it.
type Session interface {
	// Open connects and logs in
	Open() error

	// Close tears the connection down
	Close() error

	// WaitReady blocks until the gateway ready event fires or ctx is cancelled
	WaitReady(ctx context.Context) error

	// Username returns the bot account's username, for logging
	Username() string

	// UpdateStatus sets the presence/activity text
	UpdateStatus(text string) error

	// Guilds lists the servers the session has joined
	Guilds() []Guild

	// SelfNick returns the session's own nickname in the given guild
	SelfNick(guildID string) (string, error)

	// SetNick sets the session's own nickname in the given guild.
	// Returns model.ErrNicknameForbidden when the bot lacks permission there.
	SetNick(guildID, nick string) error

	// SetAvatar uploads PNG bytes as the bot's profile image
	SetAvatar(png []byte) error
}

// Bot implements Session over a discordgo gateway session
type Bot struct {
	session *discordgo.Session
	ready   chan struct{}
}

// Ensure Bot implements Session
var _ Session = (*Bot)(nil)

// NewBot creates a Discord session for the given bot token. The session
// shares the given HTTP client for all REST calls; pass nil to use
// discordgo's default. Open must be called before any other method.
func NewBot(token string, httpClient *http.Client) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}

	// Guild state is needed to enumerate servers for nickname updates
	session.Identify.Intents = discordgo.IntentsGuilds

	if httpClient != nil {
		session.Client = httpClient
	}

	b := &Bot{
		session: session,
		ready:   make(chan struct{}),
	}
	session.AddHandlerOnce(func(_ *discordgo.Session, _ *discordgo.Ready) {
		close(b.ready)
	})

	return b, nil
}

// Open connects to the gateway
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("opening discord session: %w", err)
	}
	return nil
}

// Close disconnects from the gateway
func (b *Bot) Close() error {
	return b.session.Close()
}

// WaitReady blocks until the ready event or context cancellation
func (b *Bot) WaitReady(ctx context.Context) error {
	select {
	case <-b.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", model.ErrNotReady, ctx.Err())
	}
}

// Username returns the logged-in bot account's username
func (b *Bot) Username() string {
	if b.session.State == nil || b.session.State.User == nil {
		return ""
	}
	return b.session.State.User.Username
}

// UpdateStatus sets the bot's "playing" activity text
func (b *Bot) UpdateStatus(text string) error {
	return b.session.UpdateGameStatus(0, text)
}

// Guilds lists the servers currently in gateway state
func (b *Bot) Guilds() []Guild {
	state := b.session.State.Guilds
	guilds := make([]Guild, 0, len(state))
	for _, g := range state {
		guilds = append(guilds, Guild{ID: g.ID, Name: g.Name})
	}
	return guilds
}

// SelfNick returns the bot's current nickname in the guild
func (b *Bot) SelfNick(guildID string) (string, error) {
	member, err := b.session.GuildMember(guildID, b.session.State.User.ID)
	if err != nil {
		return "", fmt.Errorf("fetching own member: %w", err)
	}
	return member.Nick, nil
}

// SetNick sets the bot's own nickname in the guild
func (b *Bot) SetNick(guildID, nick string) error {
	err := b.session.GuildMemberNickname(guildID, "@me", nick)
	if err == nil {
		return nil
	}

	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Response != nil &&
		restErr.Response.StatusCode == http.StatusForbidden {
		return fmt.Errorf("%w: %w", model.ErrNicknameForbidden, err)
	}
	return fmt.Errorf("setting nickname: %w", err)
}

// SetAvatar uploads the PNG bytes as the bot's profile image
func (b *Bot) SetAvatar(png []byte) error {
	uri := "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	if _, err := b.session.UserUpdate("", uri, ""); err != nil {
		return fmt.Errorf("uploading avatar: %w", err)
	}
	return nil
}
