package presence_test

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/apextrack/internal/dependencies/mocks"
	"github.com/mcoot/apextrack/internal/discord"
	"github.com/mcoot/apextrack/internal/model"
	"github.com/mcoot/apextrack/internal/services/presence"
	"github.com/mcoot/apextrack/internal/testutil"
)

type ServiceSuite struct {
	suite.Suite
	session *mocks.MockSession
	service *presence.Service
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) SetupTest() {
	s.session = mocks.NewMockSession()
	s.service = presence.New(testutil.NopLogger())
}

func snapshot() *model.StatsSnapshot {
	return &model.StatsSnapshot{
		DisplayName: "Shroud",
		RankName:    "Master",
		RankDiv:     1,
		RankScore:   15000,
		BadgeURL:    "http://x/badge.png",
	}
}

func (s *ServiceSuite) TestStatusText_ThousandsSeparators() {
	s.Equal("Master 1 - 15,000 RP", s.service.StatusText(snapshot()))

	s.Equal("Rookie 0 - 0 RP", s.service.StatusText(&model.StatsSnapshot{
		RankName: "Rookie",
	}))

	s.Equal("Predator 1 - 1,234,567 RP", s.service.StatusText(&model.StatsSnapshot{
		RankName:  "Predator",
		RankDiv:   1,
		RankScore: 1234567,
	}))
}

func (s *ServiceSuite) TestApply_FirstCycleUpdatesEverything() {
	s.session.MockGuilds = []discord.Guild{
		{ID: "g1", Name: "Guild One"},
		{ID: "g2", Name: "Guild Two"},
	}

	state, scoreChanged := s.service.Apply(s.session, "DAAN", snapshot(), model.PollState{})

	s.True(scoreChanged)
	s.Equal("Master 1 - 15,000 RP", state.LastStatusText)
	s.Equal("Shroud", state.LastDisplayName)

	s.Equal([]string{"Master 1 - 15,000 RP"}, s.session.StatusUpdates)
	s.Len(s.session.NickChanges, 2)
	s.Equal("Shroud", s.session.Nicks["g1"])
	s.Equal("Shroud", s.session.Nicks["g2"])
}

func (s *ServiceSuite) TestApply_NoChangeIsSilent() {
	s.session.MockGuilds = []discord.Guild{{ID: "g1", Name: "Guild One"}}
	s.session.Nicks["g1"] = "Shroud"

	state := model.PollState{
		LastDisplayName: "Shroud",
		LastStatusText:  "Master 1 - 15,000 RP",
	}

	newState, scoreChanged := s.service.Apply(s.session, "DAAN", snapshot(), state)

	s.False(scoreChanged)
	s.Equal(state, newState)
	s.Empty(s.session.StatusUpdates)
	s.Empty(s.session.NickChanges)
}

func (s *ServiceSuite) TestApply_ScoreOnlyChange() {
	s.session.MockGuilds = []discord.Guild{{ID: "g1", Name: "Guild One"}}
	s.session.Nicks["g1"] = "Shroud"

	state := model.PollState{
		LastDisplayName: "Shroud",
		LastStatusText:  "Master 1 - 15,000 RP",
	}

	snap := snapshot()
	snap.RankScore = 15500

	newState, scoreChanged := s.service.Apply(s.session, "DAAN", snap, state)

	s.True(scoreChanged)
	s.Equal("Master 1 - 15,500 RP", newState.LastStatusText)
	s.Equal([]string{"Master 1 - 15,500 RP"}, s.session.StatusUpdates)
	s.Empty(s.session.NickChanges)
}

func (s *ServiceSuite) TestApply_NameOnlyChange() {
	s.session.MockGuilds = []discord.Guild{{ID: "g1", Name: "Guild One"}}
	s.session.Nicks["g1"] = "OldName"

	state := model.PollState{
		LastDisplayName: "OldName",
		LastStatusText:  "Master 1 - 15,000 RP",
	}

	newState, scoreChanged := s.service.Apply(s.session, "DAAN", snapshot(), state)

	s.False(scoreChanged)
	s.Equal("Shroud", newState.LastDisplayName)
	s.Empty(s.session.StatusUpdates)
	s.Equal([]mocks.NickChange{{GuildID: "g1", Nick: "Shroud"}}, s.session.NickChanges)
}

func (s *ServiceSuite) TestApply_SkipsGuildsWithMatchingNick() {
	s.session.MockGuilds = []discord.Guild{
		{ID: "g1", Name: "Guild One"},
		{ID: "g2", Name: "Guild Two"},
	}
	s.session.Nicks["g1"] = "Shroud" // already correct

	_, _ = s.service.Apply(s.session, "DAAN", snapshot(), model.PollState{})

	s.Equal([]mocks.NickChange{{GuildID: "g2", Nick: "Shroud"}}, s.session.NickChanges)
}

func (s *ServiceSuite) TestApply_ForbiddenGuildDoesNotStopPass() {
	logger, captured := testutil.CaptureLogger()
	service := presence.New(logger)

	s.session.MockGuilds = []discord.Guild{
		{ID: "g1", Name: "Guild One"},
		{ID: "g2", Name: "Guild Two"},
		{ID: "g3", Name: "Guild Three"},
	}
	s.session.NickErrors["g2"] = model.ErrNicknameForbidden

	state, _ := service.Apply(s.session, "DAAN", snapshot(), model.PollState{})

	// g1 and g3 still updated; name recorded despite the denial
	s.Equal("Shroud", s.session.Nicks["g1"])
	s.Equal("Shroud", s.session.Nicks["g3"])
	s.Equal("Shroud", state.LastDisplayName)
	s.Equal(1, captured.CountLevel(slog.LevelWarn))
}

func (s *ServiceSuite) TestApply_StatusFailureLeavesStateUntouched() {
	logger, captured := testutil.CaptureLogger()
	service := presence.New(logger)

	s.session.StatusErr = errors.New("gateway down")
	state, scoreChanged := service.Apply(s.session, "DAAN", snapshot(), model.PollState{})

	s.False(scoreChanged)
	s.Equal(model.PollState{}, state)
	s.Equal(1, captured.CountLevel(slog.LevelError))
}
