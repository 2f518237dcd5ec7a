// internal/show/round.go
package show

import (
	"context"
	"time"

	"github.com/quizstage/gameshow/internal/models"
	"github.com/quizstage/gameshow/internal/points"
)

// The round controller: presenting -> answer deadline -> reveal -> pause,
// then either the next question or game over. Progression is purely
// wall-clock driven; no step waits on players. Every timer callback carries
// the *Show it was armed against and re-checks liveness at entry, so a
// session destroyed mid-round (last player left) lets pending timers expire
// harmlessly.

// isLive reports whether s is still the stored, unfinished current session.
// Callers hold m.mu.
func (m *Manager) isLive(s *Show) bool {
	if s == nil || s.Ended {
		return false
	}
	stored, ok := m.store.Get(s.RoomCode)
	return ok && stored == s && s.RoomCode == m.currentRoomCode
}

// presentQuestion pushes the question at the current index and arms the
// answer deadline. A missing or malformed question ends the game with an
// error broadcast instead of hanging. Callers hold m.mu.
func (m *Manager) presentQuestion(s *Show) {
	if !m.isLive(s) {
		return
	}

	q, ok := s.CurrentQuestion()
	if !ok || !q.Valid() {
		if len(s.Questions) == 0 {
			m.logger.Warnf("room %s has no questions, ending game", s.RoomCode)
		} else {
			m.logger.Errorf("room %s question %d is malformed, ending game", s.RoomCode, s.CurrentQuestionIndex)
		}
		m.broadcastRoom(Event{Type: EventGameError, Payload: "Invalid question data"})
		m.finishShow(s)
		return
	}

	s.Answered = make(map[string]struct{})
	m.logger.Infof("room %s presenting question %d/%d", s.RoomCode, s.CurrentQuestionIndex+1, len(s.Questions))
	m.broadcastRoom(Event{Type: EventNewQuestion, Payload: map[string]interface{}{
		"questionText": q.Text,
		"answers":      q.Answers,
	}})
	m.logAction(s, "", "question_present", map[string]interface{}{"question": s.CurrentQuestionIndex})

	m.clock.AfterFunc(m.cfg.QuestionTime, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.revealAnswer(s)
	})
}

// revealAnswer fires when the answer window closes: broadcast the correct
// answer and arm the inter-question pause. Callers hold m.mu.
func (m *Manager) revealAnswer(s *Show) {
	if !m.isLive(s) {
		return
	}
	q, ok := s.CurrentQuestion()
	if !ok {
		return
	}

	m.broadcastRoom(Event{Type: EventQuestionEnded, Payload: q.CorrectAnswer})
	m.logAction(s, "", "question_reveal", map[string]interface{}{"question": s.CurrentQuestionIndex})

	m.clock.AfterFunc(m.cfg.QuestionPause, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.advanceRound(s)
	})
}

// advanceRound fires after the pause: move to the next question or finish.
// Callers hold m.mu.
func (m *Manager) advanceRound(s *Show) {
	if !m.isLive(s) {
		return
	}
	s.CurrentQuestionIndex++
	if s.CurrentQuestionIndex < len(s.Questions) {
		m.presentQuestion(s)
		return
	}
	m.finishShow(s)
}

// finishShow runs game over: leaderboard, per-connection final scores,
// catalog update, asynchronous points reporting, then a full reset of the
// process-wide session state back to idle. Callers hold m.mu.
func (m *Manager) finishShow(s *Show) {
	if s.Ended {
		return
	}
	s.Ended = true

	board := Leaderboard(s.PlayerOrder, s.Scores, LeaderboardSize)
	entries := m.registry.Entries()

	m.logger.Infof("game over in room %s, %d players on the board", s.RoomCode, len(board))

	for connID, playerID := range entries {
		m.sendConn(connID, Event{Type: EventGameOver, Payload: map[string]interface{}{
			"score":       s.Scores[playerID],
			"leaderboard": board,
		}})
	}

	if m.currentEventID != "" {
		m.catalog.SetStatus(m.currentEventID, models.EventStatusEnded)
	}
	m.broadcastAll(Event{Type: EventCatalogUpdate, Payload: m.catalog.Snapshot()})
	m.logAction(s, "", "show_end", map[string]interface{}{"players": len(s.Scores)})

	m.reportResults(s, entries)

	// Reset to idle: session, room code, current event, count, and registry.
	m.store.Delete(s.RoomCode)
	m.currentRoomCode = ""
	m.currentEventID = ""
	m.joinableFrom = time.Time{}
	m.joinableUntil = time.Time{}
	m.gameStartAt = time.Time{}
	m.playerCount = 0
	m.registry.Clear()
}

// reportResults posts one result per distinct player to the points sink,
// using the credential captured at join time. Reporting is fire-and-forget
// and per-player isolated: one failure is logged and never blocks the others
// or the reset sequence. Callers hold m.mu.
func (m *Manager) reportResults(s *Show, entries map[string]string) {
	if m.reporter == nil {
		return
	}
	reported := make(map[string]struct{}, len(entries))
	for connID, playerID := range entries {
		if _, done := reported[playerID]; done {
			continue
		}
		reported[playerID] = struct{}{}

		pctx, _ := m.registry.Context(connID)
		eventID := pctx.EventID
		if eventID == "" {
			eventID = s.EventID
		}
		result := points.Result{
			PlayerID: playerID,
			GameID:   pctx.GameID,
			EventID:  eventID,
			Score:    s.Scores[playerID],
			Point:    s.Scores[playerID],
		}
		go func(result points.Result, credential string) {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := m.reporter.Report(ctx, result, credential); err != nil {
				m.logger.Warnf("points report failed for player %s: %v", result.PlayerID, err)
			}
		}(result, pctx.Credential)
	}
}
