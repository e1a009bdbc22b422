// Package presence pushes rank changes to a session's status text and
// per-guild nicknames, diffing against the last values pushed.
package presence

import (
	"errors"
	"log/slog"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/mcoot/apextrack/internal/discord"
	"github.com/mcoot/apextrack/internal/model"
)

// Service is the presence updater
type Service struct {
	logger  *slog.Logger
	printer *message.Printer
}

// New creates a presence Service
func New(logger *slog.Logger) *Service {
	return &Service{
		logger:  logger.With(slog.String("component", "presence-updater")),
		printer: message.NewPrinter(language.English),
	}
}

// StatusText formats the presence text for a snapshot, e.g. "Master 1 - 15,000 RP"
func (s *Service) StatusText(snap *model.StatsSnapshot) string {
	return s.printer.Sprintf("%s %d - %d RP", snap.RankName, snap.RankDiv, snap.RankScore)
}

// Apply diffs the snapshot against the session's poll state and pushes
// whatever changed. It returns the new state and whether the rank score
// (i.e. the status text) changed this cycle, which gates the avatar update.
//
// The state is an owned value passed in and returned; a failed presence call
// leaves it untouched so the next cycle retries from the same baseline.
func (s *Service) Apply(session discord.Session, playerName string, snap *model.StatsSnapshot, state model.PollState) (model.PollState, bool) {
	statusText := s.StatusText(snap)

	scoreChanged := statusText != state.LastStatusText
	if scoreChanged {
		if err := session.UpdateStatus(statusText); err != nil {
			s.logger.Error("failed to update status",
				slog.String("player", playerName),
				slog.String("error", err.Error()),
			)
			return state, false
		}
		s.logger.Info("status updated",
			slog.String("player", playerName),
			slog.String("status", statusText),
		)
		state.LastStatusText = statusText
	}

	if snap.DisplayName != state.LastDisplayName {
		s.updateNicknames(session, playerName, snap.DisplayName)
		// Recorded regardless of per-guild outcomes; permission problems in a
		// guild will not be fixed by retrying every cycle
		state.LastDisplayName = snap.DisplayName
	}

	return state, scoreChanged
}

// updateNicknames sets the bot's nickname in every guild where it differs.
// Each guild fails independently.
func (s *Service) updateNicknames(session discord.Session, playerName, nick string) {
	s.logger.Info("updating nickname",
		slog.String("player", playerName),
		slog.String("nick", nick),
	)

	for _, guild := range session.Guilds() {
		current, err := session.SelfNick(guild.ID)
		if err != nil {
			s.logger.Error("failed to read own nickname",
				slog.String("player", playerName),
				slog.String("guild", guild.Name),
				slog.String("error", err.Error()),
			)
			continue
		}
		if current == nick {
			continue
		}

		err = session.SetNick(guild.ID, nick)
		switch {
		case err == nil:
		case errors.Is(err, model.ErrNicknameForbidden):
			s.logger.Warn("missing permission to change nickname",
				slog.String("player", playerName),
				slog.String("guild", guild.Name),
			)
		default:
			s.logger.Error("failed to change nickname",
				slog.String("player", playerName),
				slog.String("guild", guild.Name),
				slog.String("error", err.Error()),
			)
		}
	}
}
