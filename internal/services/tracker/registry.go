package tracker

import (
	"sync"
	"time"

	"github.com/mcoot/apextrack/internal/model"
)

// Registry holds the most recent poll outcome per tracked player, for the
// status API. In-memory only; it mirrors, never persists.
type Registry struct {
	mu       sync.RWMutex
	statuses map[string]*model.PlayerStatus
	order    []string
}

// NewRegistry creates an empty Registry
func NewRegistry() *Registry {
	return &Registry{
		statuses: make(map[string]*model.PlayerStatus),
	}
}

// Register seeds an entry for the player before its first poll
func (r *Registry) Register(cfg model.PlayerConfig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.statuses[cfg.Name]; ok {
		return
	}
	r.statuses[cfg.Name] = &model.PlayerStatus{Name: cfg.Name, UID: cfg.UID}
	r.order = append(r.order, cfg.Name)
}

// RecordPoll stores a successful cycle's snapshot and status text
func (r *Registry) RecordPoll(name string, snap *model.StatsSnapshot, statusText string, at time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status, ok := r.statuses[name]
	if !ok {
		return
	}
	status.Snapshot = snap
	status.StatusText = statusText
	status.LastPoll = at
	status.LastError = ""
}

// RecordError stores a failed cycle's error
func (r *Registry) RecordError(name string, at time.Time, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	status, ok := r.statuses[name]
	if !ok {
		return
	}
	status.LastPoll = at
	status.LastError = err.Error()
}

// Statuses returns a copy of every player's status, in registration order
func (r *Registry) Statuses() []model.PlayerStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]model.PlayerStatus, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, *r.statuses[name])
	}
	return out
}
