// internal/show/show.go
package show

import (
	"github.com/quizstage/gameshow/internal/models"
)

// Show holds the entire state for one live trivia session in memory: the
// question list, the per-player score table, and the answered-set for the
// question currently on screen. A Show is owned by the Manager and all access
// happens under the Manager's lock; it has no lock of its own.
type Show struct {
	RoomCode string
	EventID  string

	Questions            []models.Question
	CurrentQuestionIndex int

	// Scores maps player identifier -> correct-answer count. Entries persist
	// across transient disconnects because they are keyed by player, not by
	// connection; PlayerOrder remembers insertion order so leaderboard ties
	// stay stable.
	Scores      map[string]int
	PlayerOrder []string

	// Answered is the set of players who already submitted for the current
	// question. Cleared each time a new question is presented.
	Answered map[string]struct{}

	// ConnIDs is the session's live player list (connection identifiers).
	// When it empties, the session is destroyed: a show cannot outlive all
	// its players.
	ConnIDs []string

	// Ended flips once, when the show reaches game over or is destroyed
	// early. Pending round timers check it at entry and exit harmlessly.
	Ended bool

	actionIndex int
}

// NewShow builds a session for one event with its fetched question list.
func NewShow(roomCode, eventID string, questions []models.Question) *Show {
	return &Show{
		RoomCode:  roomCode,
		EventID:   eventID,
		Questions: questions,
		Scores:    make(map[string]int),
		Answered:  make(map[string]struct{}),
	}
}

// EnsureScore initializes a player's score entry at 0 if absent.
func (s *Show) EnsureScore(playerID string) {
	if _, ok := s.Scores[playerID]; ok {
		return
	}
	s.Scores[playerID] = 0
	s.PlayerOrder = append(s.PlayerOrder, playerID)
}

// RemovePlayer deletes a player's score entry.
func (s *Show) RemovePlayer(playerID string) {
	if _, ok := s.Scores[playerID]; !ok {
		return
	}
	delete(s.Scores, playerID)
	for i, pid := range s.PlayerOrder {
		if pid == playerID {
			s.PlayerOrder = append(s.PlayerOrder[:i], s.PlayerOrder[i+1:]...)
			break
		}
	}
}

// AddConn appends a connection to the session's player list.
func (s *Show) AddConn(connID string) {
	for _, id := range s.ConnIDs {
		if id == connID {
			return
		}
	}
	s.ConnIDs = append(s.ConnIDs, connID)
}

// RemoveConn drops a connection from the session's player list.
func (s *Show) RemoveConn(connID string) {
	for i, id := range s.ConnIDs {
		if id == connID {
			s.ConnIDs = append(s.ConnIDs[:i], s.ConnIDs[i+1:]...)
			return
		}
	}
}

// CurrentQuestion returns the question at the current index, if any.
func (s *Show) CurrentQuestion() (models.Question, bool) {
	if s.CurrentQuestionIndex < 0 || s.CurrentQuestionIndex >= len(s.Questions) {
		return models.Question{}, false
	}
	return s.Questions[s.CurrentQuestionIndex], true
}
