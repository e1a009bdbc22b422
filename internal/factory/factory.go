package factory

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/mcoot/apextrack/internal/apex"
	"github.com/mcoot/apextrack/internal/config"
	"github.com/mcoot/apextrack/internal/dependencies/clock"
	"github.com/mcoot/apextrack/internal/discord"
	"github.com/mcoot/apextrack/internal/services/avatar"
	"github.com/mcoot/apextrack/internal/services/presence"
	"github.com/mcoot/apextrack/internal/services/tracker"
)

// Connection limits for the shared HTTP client. Every outbound call
// (stats API, badge downloads, Discord REST) goes through one client.
const (
	httpTimeout     = 30 * time.Second
	maxIdleConns    = 10
	maxConnsPerHost = 5
)

// App contains all wired application components
type App struct {
	// Shared HTTP client used by the stats client, the avatar service,
	// and every Discord session
	HTTPClient *http.Client

	// External dependencies
	Clock clock.Clock

	// Services
	StatsClient     *apex.Client
	PresenceService *presence.Service
	AvatarService   *avatar.Service
	Registry        *tracker.Registry
	Supervisor      *tracker.Supervisor
}

// Config holds configuration for the application factory
type Config struct {
	// AppConfig is the player and API key configuration loaded from the environment
	AppConfig *config.Config
	// StatsBaseURL overrides the stats API base URL (optional, used in tests)
	StatsBaseURL string
	// PollInterval is the delay between poll cycles (optional)
	// If zero, defaults to tracker.DefaultPollInterval
	PollInterval time.Duration
	// Logger is the application logger (optional)
	// If nil, a no-op logger is used
	Logger *slog.Logger
}

// New creates a new application with all dependencies wired
func New(cfg Config) *App {
	// Use no-op logger if not provided
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	httpClient := &http.Client{
		Timeout: httpTimeout,
		Transport: &http.Transport{
			MaxIdleConns:    maxIdleConns,
			MaxConnsPerHost: maxConnsPerHost,
		},
	}

	clk := clock.New()
	statsClient := apex.NewClient(httpClient, cfg.StatsBaseURL, cfg.AppConfig.APIKey)
	presenceService := presence.New(logger)
	avatarService := avatar.New(httpClient, logger)
	registry := tracker.NewRegistry()

	supervisor := tracker.NewSupervisor(tracker.Config{
		Players: cfg.AppConfig.Players,
		NewSession: func(token string) (discord.Session, error) {
			return discord.NewBot(token, httpClient)
		},
		Fetcher:      statsClient,
		Presence:     presenceService,
		Avatar:       avatarService,
		Registry:     registry,
		Clock:        clk,
		PollInterval: cfg.PollInterval,
		Logger:       logger,
	})

	return &App{
		HTTPClient:      httpClient,
		Clock:           clk,
		StatsClient:     statsClient,
		PresenceService: presenceService,
		AvatarService:   avatarService,
		Registry:        registry,
		Supervisor:      supervisor,
	}
}
