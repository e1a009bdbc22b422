// Package config discovers tracked players from the process environment.
//
// Each tracked player is a triple of environment variables sharing an
// uppercase suffix:
//
//	DISCORD_BOT_TOKEN_<NAME>  bot token for the player's Discord session
//	PLAYER_UID_<NAME>         stats API player identifier (required companion)
//	STARTUP_DELAY_<NAME>      optional seconds to stagger the first poll
//
// Token keys with no UID companion are logged and skipped. A run with zero
// complete triples is a configuration error.
package config

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mcoot/apextrack/internal/model"
)

// Environment variable names and prefixes
const (
	EnvAPIKey = "APEX_API_KEY"

	tokenPrefix = "DISCORD_BOT_TOKEN_"
	uidPrefix   = "PLAYER_UID_"
	delayPrefix = "STARTUP_DELAY_"

	// reservedTokenKey is an aggregate key that is not a player entry
	reservedTokenKey = "DISCORD_BOT_TOKEN_MAP"
)

// Config is the process configuration discovered at startup
type Config struct {
	// APIKey authenticates requests to the stats API
	APIKey string
	// Players holds one entry per complete env var triple, sorted by name
	Players []model.PlayerConfig
}

// Load builds the Config from environ, a list of "KEY=VALUE" pairs as
// returned by os.Environ. Incomplete player entries are skipped with a
// warning; zero complete entries or a missing API key is fatal.
func Load(environ []string, logger *slog.Logger) (*Config, error) {
	vars := make(map[string]string, len(environ))
	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	apiKey := vars[EnvAPIKey]
	if apiKey == "" {
		return nil, model.ErrNoAPIKey
	}

	var players []model.PlayerConfig
	for key, token := range vars {
		if !strings.HasPrefix(key, tokenPrefix) || key == reservedTokenKey {
			continue
		}
		name := strings.TrimPrefix(key, tokenPrefix)

		uid := vars[uidPrefix+name]
		if uid == "" {
			logger.Warn("missing player UID, skipping",
				slog.String("player", name),
				slog.String("expected_key", uidPrefix+name),
			)
			continue
		}

		delay := parseDelay(vars[delayPrefix+name], name, logger)

		players = append(players, model.PlayerConfig{
			Name:         name,
			BotToken:     token,
			UID:          model.PlayerUID(uid),
			StartupDelay: delay,
		})
	}

	if len(players) == 0 {
		return nil, fmt.Errorf("%w: set %s<NAME> and %s<NAME>",
			model.ErrNoPlayers, tokenPrefix, uidPrefix)
	}

	// Map iteration order is unstable; sort for a deterministic startup order
	sort.Slice(players, func(i, j int) bool {
		return players[i].Name < players[j].Name
	})

	for _, p := range players {
		logger.Info("loaded config for player",
			slog.String("player", p.Name),
			slog.String("uid", string(p.UID)),
			slog.Duration("startup_delay", p.StartupDelay),
		)
	}

	return &Config{APIKey: apiKey, Players: players}, nil
}

// parseDelay parses an optional startup delay in seconds, defaulting to 0
func parseDelay(raw, name string, logger *slog.Logger) time.Duration {
	if raw == "" {
		return 0
	}
	seconds, err := strconv.Atoi(raw)
	if err != nil || seconds < 0 {
		logger.Warn("invalid startup delay, using 0",
			slog.String("player", name),
			slog.String("value", raw),
		)
		return 0
	}
	return time.Duration(seconds) * time.Second
}
