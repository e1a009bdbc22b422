package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/mcoot/apextrack/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case FetchResult:
		o.printFetchResult(v)
	case []model.PlayerStatus:
		o.printPlayerStatuses(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// FetchResult is one stats lookup plus the presence text it would produce
type FetchResult struct {
	UID        model.PlayerUID      `json:"uid"`
	Snapshot   *model.StatsSnapshot `json:"snapshot"`
	StatusText string               `json:"status_text"`
}

func (o *Output) printFetchResult(r FetchResult) {
	fmt.Printf("Player: %s (%s)\n", r.Snapshot.DisplayName, r.UID)
	fmt.Printf("Rank: %s %d\n", r.Snapshot.RankName, r.Snapshot.RankDiv)
	fmt.Printf("Score: %d RP\n", r.Snapshot.RankScore)
	fmt.Printf("Status: %s\n", r.StatusText)
	if r.Snapshot.BadgeURL != "" {
		fmt.Printf("Badge: %s\n", r.Snapshot.BadgeURL)
	}
}

func (o *Output) printPlayerStatuses(statuses []model.PlayerStatus) {
	fmt.Printf("Players (%d):\n", len(statuses))
	for _, status := range statuses {
		line := fmt.Sprintf("  - %s (%s)", status.Name, status.UID)
		if status.StatusText != "" {
			line += " - " + status.StatusText
		}
		if status.LastError != "" {
			line += " [error: " + status.LastError + "]"
		}
		fmt.Println(line)
	}
}
