package testutil

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

// NopLogger returns a logger that discards all output.
// Use this in tests to avoid log noise.
func NopLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// Record is one captured log line
type Record struct {
	Level   slog.Level
	Message string
}

// CaptureHandler is a slog handler that retains records for assertions
type CaptureHandler struct {
	mu      sync.Mutex
	records []Record
}

// CaptureLogger returns a logger whose records can be inspected after the fact
func CaptureLogger() (*slog.Logger, *CaptureHandler) {
	h := &CaptureHandler{}
	return slog.New(h), h
}

// Enabled reports that every level is captured
func (h *CaptureHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle retains the record
func (h *CaptureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, Record{Level: r.Level, Message: r.Message})
	return nil
}

// WithAttrs returns the handler unchanged; attrs are not needed for assertions
func (h *CaptureHandler) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

// WithGroup returns the handler unchanged
func (h *CaptureHandler) WithGroup(string) slog.Handler {
	return h
}

// Records returns a copy of the captured records
func (h *CaptureHandler) Records() []Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Record, len(h.records))
	copy(out, h.records)
	return out
}

// CountLevel returns how many records were logged at the given level
func (h *CaptureHandler) CountLevel(level slog.Level) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	n := 0
	for _, r := range h.records {
		if r.Level == level {
			n++
		}
	}
	return n
}

// MessagesContaining returns captured messages containing the substring
func (h *CaptureHandler) MessagesContaining(sub string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, r := range h.records {
		if strings.Contains(r.Message, sub) {
			out = append(out, r.Message)
		}
	}
	return out
}
