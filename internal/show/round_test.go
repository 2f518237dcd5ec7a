// internal/show/round_test.go
package show

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizstage/gameshow/internal/catalog"
	"github.com/quizstage/gameshow/internal/models"
)

func TestRoundFlowTwoPlayersTwoQuestions(t *testing.T) {
	m, rb, clk := newTestManager(t, twoQuestions())
	code := openJoinWindow(m, clk)
	m.HandleJoin("c1", code, "alice", models.PlayerContext{})
	m.HandleJoin("c2", code, "bob", models.PlayerContext{})

	m.startShow("ev1", code)
	s, ok := m.Store().Get(code)
	require.True(t, ok)
	require.Len(t, s.ConnIDs, 2, "session is seeded from the registry")
	require.Equal(t, 0, s.Scores["alice"])
	require.Equal(t, 0, s.Scores["bob"])

	q1 := rb.lastOfTypeFor("c1", EventNewQuestion)
	require.NotNil(t, q1)
	payload := q1.Payload.(map[string]interface{})
	assert.Equal(t, "Capital of France?", payload["questionText"])

	m.HandleSubmit("c1", code, "Paris")
	m.HandleSubmit("c2", code, "Paris")
	assert.Equal(t, 1, s.Scores["alice"])
	assert.Equal(t, 1, s.Scores["bob"])

	// Deadline elapses: reveal, then pause, then the next question.
	step(m, func() { m.revealAnswer(s) })
	reveal := rb.lastOfTypeFor("c2", EventQuestionEnded)
	require.NotNil(t, reveal)
	assert.Equal(t, "Paris", reveal.Payload)

	step(m, func() { m.advanceRound(s) })
	require.Equal(t, 1, s.CurrentQuestionIndex)
	assert.Empty(t, s.Answered, "answered-set clears for the new question")

	q2 := rb.lastOfTypeFor("c1", EventNewQuestion)
	require.NotNil(t, q2)
	assert.Equal(t, "2 + 2?", q2.Payload.(map[string]interface{})["questionText"])

	// Scores stay monotonic: a wrong answer on question 2 changes nothing.
	m.HandleSubmit("c1", code, "5")
	assert.Equal(t, 1, s.Scores["alice"])
}

func TestGameOverDeliversScoresLeaderboardAndReports(t *testing.T) {
	m, rb, clk := newTestManager(t, twoQuestions()[:1])
	reporter := &recordingReporter{}
	m.reporter = reporter
	code := openJoinWindow(m, clk)
	m.HandleJoin("c1", code, "alice", models.PlayerContext{EventID: "ev1", GameID: "trivia", Credential: "tok-a"})
	m.HandleJoin("c2", code, "bob", models.PlayerContext{EventID: "ev1", GameID: "trivia", Credential: "tok-b"})

	m.startShow("ev1", code)
	s, _ := m.Store().Get(code)
	m.HandleSubmit("c1", code, "Paris")

	step(m, func() { m.revealAnswer(s) })
	step(m, func() { m.advanceRound(s) }) // past the last question -> game over

	over := rb.lastOfTypeFor("c1", EventGameOver)
	require.NotNil(t, over)
	payload := over.Payload.(map[string]interface{})
	assert.Equal(t, 1, payload["score"])
	board := payload["leaderboard"].([]LeaderboardEntry)
	require.Len(t, board, 2)
	assert.Equal(t, "alice", board[0].PlayerID)
	assert.Equal(t, 1, board[0].Score)
	assert.Equal(t, 0, board[1].Score)

	bobOver := rb.lastOfTypeFor("c2", EventGameOver)
	require.NotNil(t, bobOver)
	assert.Equal(t, 0, bobOver.Payload.(map[string]interface{})["score"])

	// One report per distinct player, asynchronously.
	require.Eventually(t, func() bool { return reporter.count() == 2 }, time.Second, 10*time.Millisecond)

	// Everything resets to idle.
	assert.Equal(t, 0, m.Store().Len())
	assert.Equal(t, "", m.CurrentRoomCode())
	assert.Equal(t, 0, m.PlayerCount())
	assert.Equal(t, 0, m.Registry().Len())
	assert.True(t, s.Ended)
}

func TestZeroQuestionsEndsImmediatelyWithError(t *testing.T) {
	m, rb, clk := newTestManager(t, nil) // question fetch came back empty
	code := openJoinWindow(m, clk)
	m.HandleJoin("c1", code, "alice", models.PlayerContext{})
	m.HandleJoin("c2", code, "bob", models.PlayerContext{})

	m.startShow("ev1", code)

	errEv := rb.lastOfTypeFor("c1", EventGameError)
	require.NotNil(t, errEv, "zero-question game must broadcast an error")

	over := rb.lastOfTypeFor("c1", EventGameOver)
	require.NotNil(t, over)
	board := over.Payload.(map[string]interface{})["leaderboard"].([]LeaderboardEntry)
	require.Len(t, board, 2)
	for _, entry := range board {
		assert.Equal(t, 0, entry.Score, "leaderboard of all zeros")
	}

	assert.Equal(t, 0, m.Store().Len())
	assert.Equal(t, "", m.CurrentRoomCode())
}

func TestMalformedQuestionEndsGame(t *testing.T) {
	questions := []models.Question{
		{Text: "", Answers: []string{"A", "B"}, CorrectAnswer: "A"}, // no text
	}
	m, rb, clk := newTestManager(t, questions)
	code := openJoinWindow(m, clk)
	m.HandleJoin("c1", code, "alice", models.PlayerContext{})

	m.startShow("ev1", code)

	require.NotNil(t, rb.lastOfTypeFor("c1", EventGameError))
	assert.Nil(t, rb.lastOfTypeFor("c1", EventNewQuestion), "malformed question must not be presented")
	assert.Equal(t, 0, m.Store().Len())
}

// TestPhaseTriggersDriveFullLifecycle exercises the scheduler's chained
// timers end to end on a fake clock: announce, open, start, deadline, pause,
// game over.
func TestPhaseTriggersDriveFullLifecycle(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	clk := clockwork.NewFakeClock()
	rb := newRecordingBroadcaster()
	cache := catalog.NewCache()
	m := NewManager(testConfig(), logger, clk, cache, stubFetcher{twoQuestions()[:1]}, nil, nil)
	m.BroadcastAllFn = rb.broadcastAll
	m.BroadcastConnFn = rb.sendTo

	startTime := clk.Now().Add(time.Minute)
	source := stubCatalogSource{events: []models.Event{
		{ID: "ev1", Name: "Friday Night Trivia", GameName: "Trivia", StartTime: startTime},
	}}
	require.NoError(t, m.RefreshCatalog(context.Background(), source))
	code := m.CurrentRoomCode()
	require.NotEmpty(t, code)

	// T: event announced as starting.
	clk.Advance(time.Minute)
	require.Eventually(t, func() bool {
		snap := cache.Snapshot()
		return len(snap) == 1 && snap[0].Status == models.EventStatusStarting
	}, time.Second, 10*time.Millisecond)

	// T+D: room opens.
	clk.Advance(10 * time.Second)
	require.Eventually(t, func() bool {
		return rb.audienceHas(EventGameStarting)
	}, time.Second, 10*time.Millisecond)

	// Join inside the window.
	clk.Advance(5 * time.Second)
	m.HandleJoin("c1", code, "alice", models.PlayerContext{})
	require.Equal(t, 1, m.PlayerCount())

	// T+2D: questions fetched, session constructed, first question pushed.
	clk.Advance(5 * time.Second)
	require.Eventually(t, func() bool {
		return rb.lastOfTypeFor("c1", EventNewQuestion) != nil
	}, time.Second, 10*time.Millisecond)
	require.Equal(t, 1, m.Store().Len())
	require.Equal(t, models.EventStatusHosting, cache.Snapshot()[0].Status)

	m.HandleSubmit("c1", code, "Paris")

	// Answer deadline: reveal.
	clk.Advance(10 * time.Second)
	require.Eventually(t, func() bool {
		return rb.lastOfTypeFor("c1", EventQuestionEnded) != nil
	}, time.Second, 10*time.Millisecond)

	// Pause: single-question game is over and state resets to idle.
	clk.Advance(3 * time.Second)
	require.Eventually(t, func() bool {
		return rb.lastOfTypeFor("c1", EventGameOver) != nil
	}, time.Second, 10*time.Millisecond)
	require.Eventually(t, func() bool {
		return m.Store().Len() == 0 && m.CurrentRoomCode() == ""
	}, time.Second, 10*time.Millisecond)
}
