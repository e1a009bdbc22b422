package cli

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/apextrack/internal/apex"
	"github.com/mcoot/apextrack/internal/config"
	"github.com/mcoot/apextrack/internal/model"
	"github.com/mcoot/apextrack/internal/services/presence"
)

func newFetchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fetch <player>",
		Short: "Fetch a single stats snapshot and print it",
		Long: `Fetch one ranked-standing snapshot from the stats API and print it
without touching any Discord session.

The argument is either the NAME of a configured player (matched against
the PLAYER_UID_<NAME> env vars) or a raw player UID.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := os.Getenv(config.EnvAPIKey)
			if apiKey == "" {
				return model.ErrNoAPIKey
			}

			uid := resolveUID(args[0])

			client := apex.NewClient(&http.Client{Timeout: 30 * time.Second}, "", apiKey)
			snap, err := client.GetPlayerStats(cmd.Context(), uid)
			if err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(FetchResult{
				UID:        uid,
				Snapshot:   snap,
				StatusText: presence.New(logger).StatusText(snap),
			})
			return nil
		},
	}
}

// resolveUID maps a configured player name onto its UID, or passes a raw
// UID through untouched
func resolveUID(arg string) model.PlayerUID {
	appCfg, err := config.Load(os.Environ(), logger)
	if err == nil {
		for _, player := range appCfg.Players {
			if player.Name == strings.ToUpper(arg) {
				return player.UID
			}
		}
	}
	return model.PlayerUID(arg)
}
