package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	logger *slog.Logger
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "apextrack",
		Short: "Mirror Apex Legends ranks into Discord bot identities",
		Long: `apextrack polls the Apex Legends stats API for each configured player
and mirrors their ranked standing into a dedicated Discord bot: the bot's
status shows the current rank and RP, its nickname follows the player's
in-game name, and its avatar tracks the rank badge.

Players are configured through DISCORD_BOT_TOKEN_<NAME>, PLAYER_UID_<NAME>
and STARTUP_DELAY_<NAME> environment variable triples, plus APEX_API_KEY.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.EnvFile != "" {
				if err := godotenv.Load(cfg.EnvFile); err != nil {
					return fmt.Errorf("loading env file: %w", err)
				}
			} else {
				// A missing .env is fine; the environment may be complete already
				_ = godotenv.Load()
			}

			level := slog.LevelInfo
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: level,
			}))
			slog.SetDefault(logger)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Env file to load before reading configuration (default: .env if present)")
	rootCmd.PersistentFlags().DurationVar(&cfg.Interval, "interval", cfg.Interval, "Delay between poll cycles (env: POLL_INTERVAL)")
	rootCmd.PersistentFlags().StringVar(&cfg.StatusAddr, "status-addr", cfg.StatusAddr, "Listen address for the status API; empty disables it (env: STATUS_ADDR)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newRunCmd())
	rootCmd.AddCommand(newFetchCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
