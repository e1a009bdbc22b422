package status_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/apextrack/internal/model"
	"github.com/mcoot/apextrack/internal/services/tracker"
	"github.com/mcoot/apextrack/internal/status"
	"github.com/mcoot/apextrack/internal/testutil"
)

type StatusSuite struct {
	suite.Suite
	registry *tracker.Registry
	handler  http.Handler
}

func TestStatusSuite(t *testing.T) {
	suite.Run(t, new(StatusSuite))
}

func (s *StatusSuite) SetupTest() {
	s.registry = tracker.NewRegistry()
	s.handler = status.NewRouter(status.RouterConfig{
		Logger:   testutil.NopLogger(),
		Registry: s.registry,
	})
}

func (s *StatusSuite) get(path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *StatusSuite) TestHealth() {
	s.registry.Register(model.PlayerConfig{Name: "DAAN", UID: "1"})
	s.registry.Register(model.PlayerConfig{Name: "ZOE", UID: "2"})

	rec := s.get("/api/v1/health")
	s.Equal(http.StatusOK, rec.Code)
	s.Equal("application/json", rec.Header().Get("Content-Type"))

	var body struct {
		Status  string `json:"status"`
		Players int    `json:"players"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Equal("ok", body.Status)
	s.Equal(2, body.Players)
}

func (s *StatusSuite) TestPlayers_Empty() {
	rec := s.get("/api/v1/players")
	s.Equal(http.StatusOK, rec.Code)

	var body []model.PlayerStatus
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Empty(body)
}

func (s *StatusSuite) TestPlayers_ReflectsRegistry() {
	s.registry.Register(model.PlayerConfig{Name: "DAAN", UID: "1000123"})

	at := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s.registry.RecordPoll("DAAN", &model.StatsSnapshot{
		DisplayName: "Shroud",
		RankName:    "Master",
		RankDiv:     1,
		RankScore:   15000,
	}, "Master 1 - 15,000 RP", at)

	rec := s.get("/api/v1/players")
	s.Equal(http.StatusOK, rec.Code)

	var body []model.PlayerStatus
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Len(body, 1)
	s.Equal("DAAN", body[0].Name)
	s.Equal("Master 1 - 15,000 RP", body[0].StatusText)
	s.Require().NotNil(body[0].Snapshot)
	s.Equal(15000, body[0].Snapshot.RankScore)
	s.True(body[0].LastPoll.Equal(at))
}

func (s *StatusSuite) TestPlayers_ReportsLastError() {
	s.registry.Register(model.PlayerConfig{Name: "DAAN", UID: "1"})
	s.registry.RecordError("DAAN", time.Now(), model.ErrRateLimited)

	rec := s.get("/api/v1/players")

	var body []model.PlayerStatus
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &body))
	s.Require().Len(body, 1)
	s.Contains(body[0].LastError, "rate limit")
}

func (s *StatusSuite) TestUnknownRouteIs404() {
	rec := s.get("/api/v1/nope")
	s.Equal(http.StatusNotFound, rec.Code)
}
