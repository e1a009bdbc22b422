// Package tracker drives the per-player polling loops: one Discord session
// per tracked player, each fetching stats on a fixed interval and handing
// the snapshot to the presence and avatar updaters.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/mcoot/apextrack/internal/dependencies/clock"
	"github.com/mcoot/apextrack/internal/discord"
	"github.com/mcoot/apextrack/internal/model"
	"github.com/mcoot/apextrack/internal/services/avatar"
	"github.com/mcoot/apextrack/internal/services/presence"
)

// DefaultPollInterval balances freshness against API rate limits
const DefaultPollInterval = time.Hour

// Fetcher fetches one stats snapshot per cycle
type Fetcher interface {
	GetPlayerStats(ctx context.Context, uid model.PlayerUID) (*model.StatsSnapshot, error)
}

// Runner drives one player's session through its polling loop
type Runner struct {
	config   model.PlayerConfig
	session  discord.Session
	fetcher  Fetcher
	presence *presence.Service
	avatar   *avatar.Service
	registry *Registry
	clock    clock.Clock
	interval time.Duration
	logger   *slog.Logger
}

// NewRunner creates a Runner for one player's session
func NewRunner(
	cfg model.PlayerConfig,
	session discord.Session,
	fetcher Fetcher,
	presenceService *presence.Service,
	avatarService *avatar.Service,
	registry *Registry,
	clk clock.Clock,
	interval time.Duration,
	logger *slog.Logger,
) *Runner {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Runner{
		config:   cfg,
		session:  session,
		fetcher:  fetcher,
		presence: presenceService,
		avatar:   avatarService,
		registry: registry,
		clock:    clk,
		interval: interval,
		logger:   logger.With(slog.String("component", "runner")),
	}
}

// Run connects the session and polls until ctx is cancelled. The session is
// closed on every exit path, including when startup itself fails. A cycle's
// failures are logged and never stop the loop.
func (r *Runner) Run(ctx context.Context) error {
	defer func() {
		_ = r.session.Close()
	}()

	if err := r.session.Open(); err != nil {
		return fmt.Errorf("connecting session: %w", err)
	}

	if err := r.session.WaitReady(ctx); err != nil {
		if ctx.Err() != nil {
			return nil // shutting down before ready
		}
		return err
	}

	r.logger.Info("logged in",
		slog.String("player", r.config.Name),
		slog.String("user", r.session.Username()),
		slog.String("uid", string(r.config.UID)),
	)

	// Stagger the first poll across sessions to spread API calls
	if r.config.StartupDelay > 0 {
		r.logger.Info("waiting before first poll to avoid rate limits",
			slog.String("player", r.config.Name),
			slog.Duration("delay", r.config.StartupDelay),
		)
		select {
		case <-ctx.Done():
			return nil
		case <-r.clock.After(r.config.StartupDelay):
			if ctx.Err() != nil {
				return nil
			}
		}
	}

	var state model.PollState
	for {
		state = r.cycle(ctx, state)

		select {
		case <-ctx.Done():
			return nil
		case <-r.clock.After(r.interval):
			// Both cases can be ready at once when shutdown lands on a tick
			if ctx.Err() != nil {
				return nil
			}
		}
	}
}

// cycle performs one fetch and update pass, returning the new poll state
func (r *Runner) cycle(ctx context.Context, state model.PollState) model.PollState {
	snap, err := r.fetcher.GetPlayerStats(ctx, r.config.UID)
	if err != nil {
		if errors.Is(err, model.ErrRateLimited) {
			r.logger.Warn("rate limit hit, waiting for next tick",
				slog.String("player", r.config.Name),
			)
		} else {
			r.logger.Error("stats fetch failed",
				slog.String("player", r.config.Name),
				slog.String("error", err.Error()),
			)
		}
		r.registry.RecordError(r.config.Name, r.clock.Now(), err)
		return state
	}

	newState, scoreChanged := r.presence.Apply(r.session, r.config.Name, snap, state)

	// Badge uploads are gated on score change, not badge change. A score
	// change within the same division re-uploads the same badge.
	if scoreChanged && snap.BadgeURL != "" {
		r.logger.Info("score changed, updating avatar to current rank badge",
			slog.String("player", r.config.Name),
		)
		if err := r.avatar.Update(ctx, r.session, r.config.Name, snap.BadgeURL); err != nil {
			r.logger.Error("failed to update avatar",
				slog.String("player", r.config.Name),
				slog.String("error", err.Error()),
			)
		}
	}

	r.registry.RecordPoll(r.config.Name, snap, newState.LastStatusText, r.clock.Now())
	return newState
}
