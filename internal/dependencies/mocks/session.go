package mocks

import (
	"context"
	"sync"

	"github.com/mcoot/apextrack/internal/discord"
)

// NickChange records one nickname call made against a MockSession
type NickChange struct {
	GuildID string
	Nick    string
}

// MockSession is a mock implementation of discord.Session for testing.
// It records every mutating call and serves configured guild/nick state.
type MockSession struct {
	mu sync.Mutex

	// MockGuilds is returned from Guilds
	MockGuilds []discord.Guild
	// Nicks holds the current self-nickname per guild ID
	Nicks map[string]string
	// NickErrors returns the configured error for SetNick in that guild
	NickErrors map[string]error

	// OpenErr, StatusErr and AvatarErr are returned from the matching calls
	OpenErr   error
	StatusErr error
	AvatarErr error

	Opened        bool
	Closed        bool
	StatusUpdates []string
	NickChanges   []NickChange
	Avatars       [][]byte
}

// Ensure MockSession implements Session
var _ discord.Session = (*MockSession)(nil)

// NewMockSession creates an empty MockSession
func NewMockSession() *MockSession {
	return &MockSession{
		Nicks:      map[string]string{},
		NickErrors: map[string]error{},
	}
}

// Open records the call
func (s *MockSession) Open() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.OpenErr != nil {
		return s.OpenErr
	}
	s.Opened = true
	return nil
}

// Close records the call
func (s *MockSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Closed = true
	return nil
}

// WaitReady returns immediately
func (s *MockSession) WaitReady(ctx context.Context) error {
	return ctx.Err()
}

// Username returns a fixed test username
func (s *MockSession) Username() string {
	return "mock-bot"
}

// UpdateStatus records the status text
func (s *MockSession) UpdateStatus(text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.StatusErr != nil {
		return s.StatusErr
	}
	s.StatusUpdates = append(s.StatusUpdates, text)
	return nil
}

// Guilds returns the configured guilds
func (s *MockSession) Guilds() []discord.Guild {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.MockGuilds
}

// SelfNick returns the configured nickname for the guild
func (s *MockSession) SelfNick(guildID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Nicks[guildID], nil
}

// SetNick records the change, or returns the configured error for the guild
func (s *MockSession) SetNick(guildID, nick string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.NickErrors[guildID]; err != nil {
		return err
	}
	s.Nicks[guildID] = nick
	s.NickChanges = append(s.NickChanges, NickChange{GuildID: guildID, Nick: nick})
	return nil
}

// SetAvatar records the uploaded bytes
func (s *MockSession) SetAvatar(png []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.AvatarErr != nil {
		return s.AvatarErr
	}
	s.Avatars = append(s.Avatars, png)
	return nil
}
