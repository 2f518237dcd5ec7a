// internal/show/store.go
package show

import "sync"

// Store manages live shows in memory, keyed by room code. The scheduler only
// ever populates one entry at a time today, but every handler looks sessions
// up here instead of closing over a process-wide singleton, so multi-room
// support is an additive change.
type Store struct {
	mu    sync.Mutex
	shows map[string]*Show
}

// NewStore returns an in-memory store for Shows.
func NewStore() *Store {
	return &Store{
		shows: make(map[string]*Show),
	}
}

// Add stores the show under its room code.
func (st *Store) Add(s *Show) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.shows[s.RoomCode] = s
}

// Delete removes the show for the given room code.
func (st *Store) Delete(roomCode string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.shows, roomCode)
}

// Get retrieves a show if it exists.
func (st *Store) Get(roomCode string) (*Show, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.shows[roomCode]
	return s, ok
}

// Len reports how many shows are live.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.shows)
}
