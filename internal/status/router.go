package status

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/apextrack/internal/services/tracker"
)

// RouterConfig holds configuration for the status router
type RouterConfig struct {
	Logger   *slog.Logger
	Registry *tracker.Registry
}

// NewRouter creates the status API router
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	handler := newHandler(cfg.Registry)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recovery(cfg.Logger))
	api.Use(requestLogging(cfg.Logger))

	api.HandleFunc("/health", handler.Health).Methods(http.MethodGet)
	api.HandleFunc("/players", handler.Players).Methods(http.MethodGet)

	return r
}

// handler serves the status endpoints from the tracker registry
type handler struct {
	registry *tracker.Registry
}

func newHandler(registry *tracker.Registry) *handler {
	return &handler{registry: registry}
}

// healthResponse is the health endpoint payload
type healthResponse struct {
	Status  string `json:"status"`
	Players int    `json:"players"`
}

// Health reports process liveness and the number of tracked players
func (h *handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Players: len(h.registry.Statuses()),
	})
}

// Players reports each tracked player's most recent poll outcome
func (h *handler) Players(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.Statuses())
}

// writeJSON writes a JSON response
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
