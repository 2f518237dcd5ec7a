// internal/show/leaderboard.go
package show

import "sort"

// LeaderboardSize is how many entries a final leaderboard carries at most.
const LeaderboardSize = 5

// LeaderboardEntry is one ranked row of the final standings.
type LeaderboardEntry struct {
	PlayerID string `json:"playerId"`
	Score    int    `json:"score"`
}

// Leaderboard ranks players by descending score and keeps the top n. The
// sort is stable over insertion order, so ties appear in the order players
// first entered the score table.
func Leaderboard(order []string, scores map[string]int, n int) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(order))
	for _, pid := range order {
		score, ok := scores[pid]
		if !ok {
			continue
		}
		entries = append(entries, LeaderboardEntry{PlayerID: pid, Score: score})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}
