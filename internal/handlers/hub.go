// internal/handlers/hub.go
package handlers

import (
	"log"
	"sync"

	"github.com/quizstage/gameshow/internal/show"
)

// Conn is a single client's presence on the realtime channel.
type Conn struct {
	ID      string
	OutChan chan show.Event
	Cancel  func()
}

// Write pushes an event onto the connection's OutChan non-blockingly. A full
// or already-closed channel drops the event.
func (c *Conn) Write(ev show.Event) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("hub: OutChan for conn %s closed, dropped event %q", c.ID, ev.Type)
		}
	}()
	select {
	case c.OutChan <- ev:
	default:
		log.Printf("hub: OutChan for conn %s full, dropped event %q", c.ID, ev.Type)
	}
}

// Hub is the broadcast fan-out: it tracks every live connection and can
// deliver an event to the whole audience or to one connection. Room-scoped
// delivery is the manager's job (it knows membership); the hub only moves
// bytes.
type Hub struct {
	mu    sync.Mutex
	conns map[string]*Conn
}

// NewHub returns an empty connection hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]*Conn)}
}

// Add registers a connection.
func (h *Hub) Add(c *Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.conns[c.ID] = c
}

// Remove unregisters a connection and closes its outgoing channel.
func (h *Hub) Remove(connID string) {
	h.mu.Lock()
	c, ok := h.conns[connID]
	if ok {
		delete(h.conns, connID)
	}
	h.mu.Unlock()

	if !ok {
		return
	}
	// Close outside the lock; Write's select/default tolerates the race.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("hub: recovered closing OutChan for conn %s: %v", connID, r)
		}
	}()
	close(c.OutChan)
	if c.Cancel != nil {
		c.Cancel()
	}
}

// BroadcastAll sends an event to every live connection.
func (h *Hub) BroadcastAll(ev show.Event) {
	h.mu.Lock()
	conns := make([]*Conn, 0, len(h.conns))
	for _, c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()

	for _, c := range conns {
		c.Write(ev)
	}
}

// SendTo sends an event to one connection, if it is still live.
func (h *Hub) SendTo(connID string, ev show.Event) {
	h.mu.Lock()
	c, ok := h.conns[connID]
	h.mu.Unlock()
	if ok {
		c.Write(ev)
	}
}

// Len reports how many connections are live.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.conns)
}
