package tracker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/mcoot/apextrack/internal/dependencies/clock"
	"github.com/mcoot/apextrack/internal/discord"
	"github.com/mcoot/apextrack/internal/model"
	"github.com/mcoot/apextrack/internal/services/avatar"
	"github.com/mcoot/apextrack/internal/services/presence"
)

// SessionFactory creates a chat session for a bot token
type SessionFactory func(token string) (discord.Session, error)

// Outcome is the result of one player's supervised run
type Outcome struct {
	Player string
	Err    error
}

// Config holds the supervisor's dependencies
type Config struct {
	Players      []model.PlayerConfig
	NewSession   SessionFactory
	Fetcher      Fetcher
	Presence     *presence.Service
	Avatar       *avatar.Service
	Registry     *Registry
	Clock        clock.Clock
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Supervisor runs every player's session concurrently. One session's fault
// is caught at its run boundary and never affects siblings.
type Supervisor struct {
	cfg    Config
	logger *slog.Logger
}

// NewSupervisor creates a Supervisor
func NewSupervisor(cfg Config) *Supervisor {
	return &Supervisor{
		cfg:    cfg,
		logger: cfg.Logger.With(slog.String("component", "supervisor")),
	}
}

// Run starts all sessions and blocks until every run wrapper has returned.
// It joins all outcomes without short-circuiting on the first failure.
func (s *Supervisor) Run(ctx context.Context) []Outcome {
	outcomes := make([]Outcome, len(s.cfg.Players))

	var wg sync.WaitGroup
	for i, player := range s.cfg.Players {
		s.cfg.Registry.Register(player)

		wg.Add(1)
		go func() {
			defer wg.Done()
			err := s.runOne(ctx, player)
			if err != nil {
				s.logger.Error("session stopped with error",
					slog.String("player", player.Name),
					slog.String("error", err.Error()),
				)
			}
			outcomes[i] = Outcome{Player: player.Name, Err: err}
		}()
	}
	wg.Wait()

	return outcomes
}

// runOne is the supervised run wrapper for a single player. Panics are
// converted into outcome errors so a fault cannot take down siblings.
func (s *Supervisor) runOne(ctx context.Context, player model.PlayerConfig) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("session panic: %v", rec)
		}
	}()

	session, err := s.cfg.NewSession(player.BotToken)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	runner := NewRunner(
		player,
		session,
		s.cfg.Fetcher,
		s.cfg.Presence,
		s.cfg.Avatar,
		s.cfg.Registry,
		s.cfg.Clock,
		s.cfg.PollInterval,
		s.cfg.Logger,
	)
	return runner.Run(ctx)
}
