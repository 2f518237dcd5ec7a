// internal/show/leaderboard_test.go
package show

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLeaderboardTopFiveDescending(t *testing.T) {
	order := []string{"a", "b", "c", "d", "e", "f", "g"}
	scores := map[string]int{"a": 3, "b": 9, "c": 1, "d": 7, "e": 5, "f": 0, "g": 4}

	board := Leaderboard(order, scores, LeaderboardSize)

	require.Len(t, board, 5)
	assert.Equal(t, []LeaderboardEntry{
		{PlayerID: "b", Score: 9},
		{PlayerID: "d", Score: 7},
		{PlayerID: "e", Score: 5},
		{PlayerID: "g", Score: 4},
		{PlayerID: "a", Score: 3},
	}, board)
}

func TestLeaderboardTiesKeepJoinOrder(t *testing.T) {
	order := []string{"first", "second", "third"}
	scores := map[string]int{"first": 2, "second": 2, "third": 2}

	board := Leaderboard(order, scores, LeaderboardSize)

	require.Len(t, board, 3)
	assert.Equal(t, "first", board[0].PlayerID)
	assert.Equal(t, "second", board[1].PlayerID)
	assert.Equal(t, "third", board[2].PlayerID)
}

func TestLeaderboardFewerPlayersThanLimit(t *testing.T) {
	board := Leaderboard([]string{"solo"}, map[string]int{"solo": 4}, LeaderboardSize)
	require.Len(t, board, 1)
	assert.Equal(t, LeaderboardEntry{PlayerID: "solo", Score: 4}, board[0])

	assert.Empty(t, Leaderboard(nil, nil, LeaderboardSize))
}

func TestLeaderboardSkipsPlayersWithoutScores(t *testing.T) {
	// A player whose score entry was deleted on disconnect may linger in the
	// order slice; they must not reappear in the standings.
	order := []string{"a", "b", "c"}
	scores := map[string]int{"a": 1, "c": 2}

	board := Leaderboard(order, scores, LeaderboardSize)
	require.Len(t, board, 2)
	assert.Equal(t, "c", board[0].PlayerID)
	assert.Equal(t, "a", board[1].PlayerID)
}
