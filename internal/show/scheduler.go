// internal/show/scheduler.go
package show

import (
	"context"
	"time"

	"github.com/quizstage/gameshow/internal/models"
)

// ScheduleEvent arms the three phase triggers for one event with start time T:
//
//	T          -> event becomes "starting" and the current event
//	T + D      -> room opens for joining (joinFrom)
//	T + 2D     -> questions fetched, session constructed, rounds begin
//
// with joinUntil = gameStart, so the join window is [T+D, T+2D). The room
// code is generated and announced immediately so hosts can display it ahead
// of time. Triggers fire exactly once; refresh logic guarantees an event is
// scheduled at most once, so no dedup happens here.
func (m *Manager) ScheduleEvent(ev models.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	startTime := ev.StartTime
	joinFrom := startTime.Add(m.cfg.GameStartDelay)
	gameStart := joinFrom.Add(m.cfg.GameStartDelay)

	m.currentRoomCode = newShortID()
	m.joinableFrom = joinFrom
	m.joinableUntil = gameStart
	m.gameStartAt = gameStart

	code := m.currentRoomCode
	eventID := ev.ID

	m.logger.Infof("generated room code %s for event %s (join %s, start %s)",
		code, eventID, joinFrom.Format(time.RFC3339), gameStart.Format(time.RFC3339))

	m.broadcastAll(Event{Type: EventRoomCodeGenerated, Payload: map[string]interface{}{
		"roomCode": code,
	}})

	m.clock.AfterFunc(startTime.Sub(m.clock.Now()), func() {
		m.announceEvent(eventID, code)
	})
	m.clock.AfterFunc(joinFrom.Sub(m.clock.Now()), func() {
		m.openRoom(eventID, code, gameStart)
	})
	m.clock.AfterFunc(gameStart.Sub(m.clock.Now()), func() {
		m.startShow(eventID, code)
	})
}

// announceEvent fires at T: the event becomes the current one and its status
// advances to "starting".
func (m *Manager) announceEvent(eventID, code string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentRoomCode != code {
		return // rescheduled or torn down since this trigger was armed
	}
	m.currentEventID = eventID
	m.catalog.SetStatus(eventID, models.EventStatusStarting)
	m.logger.Infof("event %s reached its scheduled time, joining opens in %s", eventID, m.cfg.GameStartDelay)
	m.broadcastAll(Event{Type: EventCatalogUpdate, Payload: m.catalog.Snapshot()})
}

// openRoom fires at joinFrom: broadcast that joining is open, including the
// absolute start time so clients can count down without trusting their own
// clocks.
func (m *Manager) openRoom(eventID, code string, gameStart time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentRoomCode != code {
		return
	}
	m.logger.Infof("room %s open for event %s, game starts at %s", code, eventID, gameStart.Format(time.RFC3339))
	m.broadcastAll(Event{Type: EventGameStarting, Payload: map[string]interface{}{
		"roomCode":  code,
		"startTime": gameStart.UnixMilli(),
	}})
}

// startShow fires at gameStart: fetch the question bank, construct the
// session seeded from the registry, and hand control to the round controller.
// The fetch happens before taking the lock so a slow content service never
// stalls join/submit/disconnect traffic.
func (m *Manager) startShow(eventID, code string) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	questions := m.questions.FetchQuestions(ctx, eventID)
	cancel()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.currentRoomCode != code {
		m.logger.Warnf("room %s gone before game start for event %s, skipping", code, eventID)
		return
	}

	s := NewShow(code, eventID, questions)
	for connID, playerID := range m.registry.Entries() {
		s.EnsureScore(playerID)
		s.AddConn(connID)
	}
	m.store.Add(s)

	m.catalog.SetStatus(eventID, models.EventStatusHosting)
	m.logger.Infof("starting show in room %s with %d questions and %d players", code, len(questions), len(s.ConnIDs))
	m.broadcastAll(Event{Type: EventCatalogUpdate, Payload: m.catalog.Snapshot()})
	m.logAction(s, "", "show_start", map[string]interface{}{"questions": len(questions)})

	m.presentQuestion(s)
}
