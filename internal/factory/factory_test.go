package factory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/apextrack/internal/config"
	"github.com/mcoot/apextrack/internal/model"
	"github.com/mcoot/apextrack/internal/testutil"
)

type FactorySuite struct {
	suite.Suite
}

func TestFactorySuite(t *testing.T) {
	suite.Run(t, new(FactorySuite))
}

func (s *FactorySuite) appConfig() *config.Config {
	return &config.Config{
		APIKey: "test-key",
		Players: []model.PlayerConfig{
			{Name: "DAAN", BotToken: "token-a", UID: "1000123"},
		},
	}
}

func (s *FactorySuite) TestWiresAllComponents() {
	app := New(Config{
		AppConfig: s.appConfig(),
		Logger:    testutil.NopLogger(),
	})

	s.NotNil(app.HTTPClient)
	s.NotNil(app.Clock)
	s.NotNil(app.StatsClient)
	s.NotNil(app.PresenceService)
	s.NotNil(app.AvatarService)
	s.NotNil(app.Registry)
	s.NotNil(app.Supervisor)
}

func (s *FactorySuite) TestDefaultsWithoutLogger() {
	s.NotPanics(func() {
		New(Config{AppConfig: s.appConfig()})
	})
}

func (s *FactorySuite) TestSharedClientConnectionLimits() {
	app := New(Config{
		AppConfig: s.appConfig(),
		Logger:    testutil.NopLogger(),
	})

	s.Equal(30*time.Second, app.HTTPClient.Timeout)

	transport, ok := app.HTTPClient.Transport.(*http.Transport)
	s.Require().True(ok)
	s.Equal(10, transport.MaxIdleConns)
	s.Equal(5, transport.MaxConnsPerHost)
}

func (s *FactorySuite) TestStatsClientUsesConfiguredKeyAndURL() {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.URL.Query().Get("auth")
		s.Require().NoError(json.NewEncoder(w).Encode(map[string]any{
			"global": map[string]any{"name": "Shroud"},
		}))
	}))
	defer server.Close()

	app := New(Config{
		AppConfig:    s.appConfig(),
		StatsBaseURL: server.URL,
		Logger:       testutil.NopLogger(),
	})

	snap, err := app.StatsClient.GetPlayerStats(context.Background(), "1000123")
	s.Require().NoError(err)
	s.Equal("test-key", gotAuth)
	s.Equal("Shroud", snap.DisplayName)
}
