// internal/show/registry.go
package show

import (
	"sync"

	"github.com/quizstage/gameshow/internal/models"
)

// Registry is the single authority for the connection->player relation.
// Each live connection maps to exactly one player identifier plus the
// reporting context captured at join time. The relation is many-to-one over
// time (a rejoin with the same player id is a fresh connection) but
// one-to-one at any instant. Scores live in the Show keyed by player id, so
// they survive the connection churn the registry tracks.
type Registry struct {
	mu       sync.Mutex
	players  map[string]string               // connID -> playerID
	contexts map[string]models.PlayerContext // connID -> join context
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		players:  make(map[string]string),
		contexts: make(map[string]models.PlayerContext),
	}
}

// Register binds a connection to a resolved player identifier and its
// join-time context.
func (r *Registry) Register(connID, playerID string, pctx models.PlayerContext) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players[connID] = playerID
	r.contexts[connID] = pctx
}

// Resolve returns the player identifier for a connection, if registered.
func (r *Registry) Resolve(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pid, ok := r.players[connID]
	return pid, ok
}

// Context returns the join-time context for a connection.
func (r *Registry) Context(connID string) (models.PlayerContext, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pctx, ok := r.contexts[connID]
	return pctx, ok
}

// Remove unbinds a connection and returns the player it belonged to.
func (r *Registry) Remove(connID string) (string, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pid, ok := r.players[connID]
	if ok {
		delete(r.players, connID)
		delete(r.contexts, connID)
	}
	return pid, ok
}

// Entries returns a copy of the connection->player relation.
func (r *Registry) Entries() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.players))
	for connID, pid := range r.players {
		out[connID] = pid
	}
	return out
}

// Len reports how many connections are registered.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.players)
}

// Clear wipes the registry, used when the process-wide session state resets.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.players = make(map[string]string)
	r.contexts = make(map[string]models.PlayerContext)
}
