package model

import "time"

// PlayerUID uniquely identifies a tracked player on the stats API
type PlayerUID string

// PlayerConfig is the immutable per-player configuration discovered at startup.
// One exists per tracked player for the lifetime of the process.
type PlayerConfig struct {
	// Name is the uppercase identifier shared by the player's env var triple
	Name string
	// BotToken is the Discord bot token for this player's session
	BotToken string
	// UID is the stats API player identifier
	UID PlayerUID
	// StartupDelay staggers the first poll to spread API calls across sessions
	StartupDelay time.Duration
}

// StatsSnapshot is one poll's view of a player's ranked standing.
// Constructed fresh each cycle and discarded after use.
type StatsSnapshot struct {
	DisplayName string `json:"display_name"`
	RankName    string `json:"rank_name"`
	RankDiv     int    `json:"rank_div"`
	RankScore   int    `json:"rank_score"`
	// BadgeURL points at the rank badge image; empty when the API omits it
	BadgeURL string `json:"badge_url,omitempty"`
}

// PollState holds the last values pushed to Discord for one session.
// In-memory only; an empty state forces one unconditional update after restart.
type PollState struct {
	LastDisplayName string
	LastStatusText  string
}

// PlayerStatus is the registry's view of a session's most recent cycle,
// served by the status API.
type PlayerStatus struct {
	Name       string         `json:"name"`
	UID        PlayerUID      `json:"uid"`
	Snapshot   *StatsSnapshot `json:"snapshot,omitempty"`
	StatusText string         `json:"status_text,omitempty"`
	LastPoll   time.Time      `json:"last_poll,omitzero"`
	LastError  string         `json:"last_error,omitempty"`
}
