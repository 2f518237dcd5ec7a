// internal/handlers/ws.go
package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/quizstage/gameshow/internal/models"
	"github.com/quizstage/gameshow/internal/show"
)

// ClientMessage is the envelope for every client->server request on the
// realtime channel.
type ClientMessage struct {
	Type string `json:"type"`

	RoomCode   string `json:"roomCode,omitempty"`
	PlayerID   string `json:"playerId,omitempty"`
	EventID    string `json:"eventId,omitempty"`
	GameID     string `json:"gameId,omitempty"`
	Credential string `json:"credential,omitempty"`
	Answer     string `json:"answer,omitempty"`
}

// ShowWSHandler upgrades the HTTP connection to WebSocket, registers it with
// the hub, and routes client requests into the session manager until the
// connection closes. Players are not authenticated: whatever credential a
// join carries is passed through opaquely.
func ShowWSHandler(logger *logrus.Logger, hub *Hub, m *show.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"gameshow"},
			OriginPatterns: []string{"*"}, // Adjust in production.
		})
		if err != nil {
			logger.Warnf("websocket accept error: %v", err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler finished")

		if c.Subprotocol() != "gameshow" {
			c.Close(BadSubprotocolError, "client must speak the gameshow subprotocol")
			return
		}

		connID := uuid.NewString()
		ctx, cancel := context.WithCancel(r.Context())
		conn := &Conn{
			ID:      connID,
			OutChan: make(chan show.Event, 16),
			Cancel:  cancel,
		}
		hub.Add(conn)
		logger.Infof("connection %s established from %s", connID, r.RemoteAddr)

		go writePump(ctx, c, conn, logger)

		readPump(ctx, c, conn, m, logger)

		// Cleanup after the read pump exits: reconcile the registry/session
		// first, then drop the hub entry.
		logger.Infof("connection %s read pump exited, cleaning up", connID)
		m.HandleDisconnect(connID)
		hub.Remove(connID)
	}
}

// readPump handles incoming messages for one connection until error, closure,
// or context cancellation.
func readPump(ctx context.Context, c *websocket.Conn, conn *Conn, m *show.Manager, logger *logrus.Logger) {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("connection %s closed normally", conn.ID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("connection %s context canceled", conn.ID)
			} else {
				logger.Warnf("read error on connection %s: %v (status %d)", conn.ID, err, status)
			}
			return
		}

		if typ != websocket.MessageText {
			logger.Warnf("connection %s sent non-text message type %d, ignoring", conn.ID, typ)
			continue
		}

		var msg ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			logger.Warnf("invalid json from connection %s: %v", conn.ID, err)
			conn.Write(show.Event{Type: show.EventGameError, Payload: "Invalid JSON format"})
			continue
		}

		switch msg.Type {
		case "joinRoom":
			m.HandleJoin(conn.ID, msg.RoomCode, msg.PlayerID, models.PlayerContext{
				EventID:    msg.EventID,
				GameID:     msg.GameID,
				Credential: msg.Credential,
			})
		case "submitAnswer":
			m.HandleSubmit(conn.ID, msg.RoomCode, msg.Answer)
		case "requestEvents":
			m.HandleCatalogRequest(conn.ID)
		case "requestEventQuestions":
			m.HandleEventQuestions(conn.ID, msg.EventID)
		case "checkGameStatus":
			m.HandleGameStatus(conn.ID)
		case "requestCurrentRoomCode":
			m.HandleCurrentRoomCode(conn.ID)
		default:
			logger.Warnf("unknown request type %q from connection %s", msg.Type, conn.ID)
			conn.Write(show.Event{Type: show.EventGameError, Payload: fmt.Sprintf("Unknown request type: %s", msg.Type)})
		}
	}
}

// writePump drains the connection's OutChan onto the wire and sends periodic
// pings. Exits on context cancellation, channel close, or a failed write.
func writePump(ctx context.Context, c *websocket.Conn, conn *Conn, logger *logrus.Logger) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-conn.OutChan:
			if !ok {
				return
			}
			data, err := json.Marshal(ev)
			if err != nil {
				logger.Warnf("failed to marshal event %q for connection %s: %v", ev.Type, conn.ID, err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = c.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logger.Warnf("failed to write to connection %s: %v", conn.ID, err)
				return
			}
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
			err := c.Ping(pingCtx)
			cancel()
			if err != nil {
				logger.Warnf("ping failed for connection %s, assuming disconnect: %v", conn.ID, err)
				return
			}
		}
	}
}
