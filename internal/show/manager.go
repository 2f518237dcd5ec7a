// internal/show/manager.go
package show

import (
	"context"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/quizstage/gameshow/internal/auth"
	"github.com/quizstage/gameshow/internal/catalog"
	"github.com/quizstage/gameshow/internal/config"
	"github.com/quizstage/gameshow/internal/feed"
	"github.com/quizstage/gameshow/internal/models"
	"github.com/quizstage/gameshow/internal/points"
)

// QuestionFetcher is the slice of the content client the manager needs for
// question banks. It fails open: empty slice, never an error.
type QuestionFetcher interface {
	FetchQuestions(ctx context.Context, eventID string) []models.Question
}

// PointsReporter posts one finishing player's result to the external sink.
type PointsReporter interface {
	Report(ctx context.Context, result points.Result, credential string) error
}

// Manager owns the single active session's lifecycle: the phase scheduler,
// the join window, the round controller, and the registry/score
// reconciliation. Every handler and timer callback runs under mu, which is
// the Go rendition of the original's run-to-completion handler model: a
// partially mutated session is never observable, and every callback re-checks
// that the session it was armed against is still live.
type Manager struct {
	mu sync.Mutex

	cfg      config.Config
	logger   *logrus.Logger
	clock    clockwork.Clock
	store    *Store
	registry *Registry
	catalog  *catalog.Cache

	questions QuestionFetcher
	reporter  PointsReporter
	verifier  auth.CredentialVerifier

	// BroadcastAllFn delivers an event to the whole audience. BroadcastConnFn
	// delivers to one connection. Room-scoped delivery fans out over the
	// registry. Both may be nil (tests, startup) and are then skipped.
	BroadcastAllFn  func(ev Event)
	BroadcastConnFn func(connID string, ev Event)

	// Process-wide current-event state, valid for the one scheduled event.
	currentRoomCode string
	currentEventID  string
	joinableFrom    time.Time
	joinableUntil   time.Time
	gameStartAt     time.Time
	playerCount     int
}

// NewManager wires the session manager. A nil verifier defaults to AllowAll.
func NewManager(cfg config.Config, logger *logrus.Logger, clk clockwork.Clock, cat *catalog.Cache, questions QuestionFetcher, reporter PointsReporter, verifier auth.CredentialVerifier) *Manager {
	if verifier == nil {
		verifier = auth.AllowAll{}
	}
	return &Manager{
		cfg:       cfg,
		logger:    logger,
		clock:     clk,
		store:     NewStore(),
		registry:  NewRegistry(),
		catalog:   cat,
		questions: questions,
		reporter:  reporter,
		verifier:  verifier,
	}
}

// Store exposes the session table, mainly for tests and diagnostics.
func (m *Manager) Store() *Store { return m.store }

// Registry exposes the connection->player relation.
func (m *Manager) Registry() *Registry { return m.registry }

// CurrentRoomCode returns the room code of the scheduled session, if any.
func (m *Manager) CurrentRoomCode() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentRoomCode
}

// PlayerCount returns the live player count.
func (m *Manager) PlayerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.playerCount
}

// RefreshCatalog re-fetches the event catalog, broadcasts the snapshot, and
// schedules the head event's phase triggers if the head changed. Duplicate
// scheduling of the same event is prevented here, not by the scheduler.
func (m *Manager) RefreshCatalog(ctx context.Context, fetcher catalog.Fetcher) error {
	head, changed, err := m.catalog.Refresh(ctx, fetcher, m.cfg.GameName)
	if err != nil {
		return err
	}
	m.broadcastAll(Event{Type: EventCatalogUpdate, Payload: m.catalog.Snapshot()})

	if head == nil {
		m.logger.Infof("no %s events found in catalog", m.cfg.GameName)
		return nil
	}
	if changed {
		m.ScheduleEvent(*head)
	}
	return nil
}

// HandleJoin processes one join request: code check, window check, then
// registration and the three-way broadcast (ack to the joiner, playerJoined
// to the room, count update to everyone).
func (m *Manager) HandleJoin(connID, roomCode, playerID string, pctx models.PlayerContext) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if roomCode == "" || roomCode != m.currentRoomCode {
		m.sendConn(connID, Event{Type: EventRoomCodeUpdated, Payload: map[string]interface{}{
			"roomCode": m.currentRoomCode,
		}})
		return
	}

	now := m.clock.Now()
	if m.joinableFrom.IsZero() || now.Before(m.joinableFrom) {
		m.sendConn(connID, Event{Type: EventRoomNotReady, Payload: "The room is not ready for joining yet. Please wait."})
		return
	}
	if !now.Before(m.joinableUntil) {
		m.sendConn(connID, Event{Type: EventRoomClosed, Payload: "The game has already started. You cannot join at this time."})
		return
	}

	if !m.verifier.Verify(pctx.Credential) {
		m.sendConn(connID, Event{Type: EventGameError, Payload: "Credential rejected."})
		return
	}

	resolved := playerID
	if resolved == "" {
		resolved = newShortID()
	}
	m.registry.Register(connID, resolved, pctx)

	// The session usually does not exist yet: the whole join window precedes
	// game start and the Show is constructed by the game-start trigger, which
	// seeds it from the registry. A session that does exist (late overlap)
	// gets the player immediately.
	if s, ok := m.store.Get(m.currentRoomCode); ok {
		s.EnsureScore(resolved)
		s.AddConn(connID)
		m.logAction(s, resolved, "player_join", nil)
	}

	m.playerCount++
	if m.currentEventID != "" {
		m.catalog.SetPlayerCount(m.currentEventID, m.playerCount)
	}

	m.logger.Infof("player %s joined room %s (%d live)", resolved, roomCode, m.playerCount)

	m.sendConn(connID, Event{Type: EventRoomJoined, Payload: map[string]interface{}{
		"roomCode": m.currentRoomCode,
		"playerId": resolved,
	}})
	m.broadcastRoom(Event{Type: EventPlayerJoined, Payload: map[string]interface{}{
		"count":    m.playerCount,
		"playerId": resolved,
	}})
	m.broadcastAll(Event{Type: EventPlayerCountUpdate, Payload: m.playerCount})
	m.broadcastAll(Event{Type: EventCatalogUpdate, Payload: m.catalog.Snapshot()})
}

// HandleSubmit records one answer for the current question. Submissions with
// a stale room code, no live session, or from a player already in the
// answered-set are silently dropped.
func (m *Manager) HandleSubmit(connID, roomCode, answer string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if roomCode == "" || roomCode != m.currentRoomCode {
		return
	}
	s, ok := m.store.Get(roomCode)
	if !ok || s.Ended {
		return
	}
	q, ok := s.CurrentQuestion()
	if !ok {
		return
	}
	playerID, ok := m.registry.Resolve(connID)
	if !ok {
		return
	}
	if _, answered := s.Answered[playerID]; answered {
		m.logger.Debugf("player %s already answered question %d in room %s", playerID, s.CurrentQuestionIndex, roomCode)
		return
	}

	correct := answer == q.CorrectAnswer
	if correct {
		s.EnsureScore(playerID)
		s.Scores[playerID]++
	}
	s.Answered[playerID] = struct{}{}

	m.logAction(s, playerID, "answer_submit", map[string]interface{}{
		"question": s.CurrentQuestionIndex,
		"correct":  correct,
	})
	m.sendConn(connID, Event{Type: EventScoreUpdate, Payload: s.Scores[playerID]})
}

// HandleDisconnect reconciles a dropped connection against the live session:
// the player's score entry is removed, counts are re-broadcast, and a session
// whose last player left is destroyed even mid-game.
func (m *Manager) HandleDisconnect(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	playerID, ok := m.registry.Remove(connID)
	if !ok {
		return
	}
	if m.playerCount > 0 {
		m.playerCount--
	}
	if m.currentEventID != "" {
		m.catalog.SetPlayerCount(m.currentEventID, m.playerCount)
	}

	s, exists := m.store.Get(m.currentRoomCode)
	if exists {
		s.RemovePlayer(playerID)
		s.RemoveConn(connID)
		m.logAction(s, playerID, "player_leave", nil)
	}

	m.logger.Infof("player %s disconnected (%d live)", playerID, m.playerCount)
	m.broadcastRoom(Event{Type: EventPlayerLeft, Payload: map[string]interface{}{
		"count":    m.playerCount,
		"playerId": playerID,
	}})
	m.broadcastAll(Event{Type: EventPlayerCountUpdate, Payload: m.playerCount})

	if exists && len(s.ConnIDs) == 0 {
		// A session cannot outlive all its players. Pending round timers
		// detect Ended and exit harmlessly.
		m.logger.Infof("last player left room %s, destroying session", s.RoomCode)
		s.Ended = true
		m.store.Delete(s.RoomCode)
		m.currentRoomCode = ""
		m.playerCount = 0
	}
}

// HandleGameStatus answers a status poll with the same discrimination the
// join path uses, without mutating anything.
func (m *Manager) HandleGameStatus(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	switch {
	case m.currentRoomCode != "" && !now.Before(m.joinableFrom) && now.Before(m.joinableUntil):
		m.sendConn(connID, Event{Type: EventGameStarting, Payload: map[string]interface{}{
			"roomCode":  m.currentRoomCode,
			"startTime": m.joinableUntil.UnixMilli(),
		}})
	case m.currentRoomCode != "" && now.Before(m.joinableFrom):
		m.sendConn(connID, Event{Type: EventRoomNotReady, Payload: "The room is not ready for joining yet. Please wait."})
	case m.currentEventID != "":
		m.sendConn(connID, Event{Type: EventRoomClosed, Payload: "The game has already started. You cannot join at this time."})
	default:
		m.sendConn(connID, Event{Type: EventNoActiveGame, Payload: "There is no active game at the moment."})
	}
}

// HandleCurrentRoomCode answers a room-code poll.
func (m *Manager) HandleCurrentRoomCode(connID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sendConn(connID, Event{Type: EventCurrentRoomCode, Payload: map[string]interface{}{
		"roomCode": m.currentRoomCode,
	}})
}

// HandleCatalogRequest sends the requester the current catalog snapshot.
func (m *Manager) HandleCatalogRequest(connID string) {
	m.sendConn(connID, Event{Type: EventCatalogUpdate, Payload: m.catalog.Snapshot()})
}

// HandleEventQuestions fetches an event's question bank and replies with a
// summary (text + option count, never the correct answer). The fetch is a
// network call, so it runs off the handler path and must not block other
// traffic.
func (m *Manager) HandleEventQuestions(connID, eventID string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		qs := m.questions.FetchQuestions(ctx, eventID)
		m.sendConn(connID, Event{Type: EventEventQuestions, Payload: map[string]interface{}{
			"eventId":   eventID,
			"questions": models.Summarize(qs),
		}})
	}()
}

// --- broadcast helpers ---

func (m *Manager) broadcastAll(ev Event) {
	if m.BroadcastAllFn != nil {
		m.BroadcastAllFn(ev)
	}
}

// broadcastRoom fans an event out to every joined connection. Room
// membership is the registry: only connections that joined the current room
// are registered.
func (m *Manager) broadcastRoom(ev Event) {
	if m.BroadcastConnFn == nil {
		return
	}
	for connID := range m.registry.Entries() {
		m.BroadcastConnFn(connID, ev)
	}
}

func (m *Manager) sendConn(connID string, ev Event) {
	if m.BroadcastConnFn != nil {
		m.BroadcastConnFn(connID, ev)
	}
}

// logAction publishes one record to the outbound action feed. Asynchronous
// and best-effort: a missing or failing feed never affects the show.
func (m *Manager) logAction(s *Show, playerID, actionType string, payload map[string]interface{}) {
	s.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	record := feed.ActionRecord{
		RoomCode:      s.RoomCode,
		ActionIndex:   s.actionIndex,
		PlayerID:      playerID,
		ActionType:    actionType,
		ActionPayload: payload,
		Timestamp:     m.clock.Now().UnixMilli(),
	}
	go func(rec feed.ActionRecord) {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := feed.PublishAction(ctx, rec); err != nil {
			log.Printf("Error publishing action %d for room %s: %v", rec.ActionIndex, rec.RoomCode, err)
		}
	}(record)
}

// newShortID returns a 6-character uppercase token, used for generated
// player identifiers and room codes.
func newShortID() string {
	id := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(id[:6])
}
