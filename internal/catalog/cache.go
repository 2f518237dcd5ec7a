// internal/catalog/cache.go
package catalog

import (
	"context"
	"sync"

	"github.com/quizstage/gameshow/internal/models"
)

// Fetcher is the slice of the content client the cache needs.
type Fetcher interface {
	FetchEvents(ctx context.Context) ([]models.Event, error)
}

// Cache holds the most recent event catalog in memory. It is stateless
// beyond a refresh: each Refresh replaces the whole list, filtered down to
// the configured game name, with local status/playerCount wrappers reset.
type Cache struct {
	mu     sync.Mutex
	events []*models.Event
}

// NewCache returns an empty event catalog cache.
func NewCache() *Cache {
	return &Cache{}
}

// Refresh replaces the cached catalog with freshly fetched events filtered to
// gameName. It returns the head event (the next one to schedule) and whether
// that head changed since the previous refresh, so callers only arm phase
// timers once per event.
func (c *Cache) Refresh(ctx context.Context, fetcher Fetcher, gameName string) (*models.Event, bool, error) {
	fetched, err := fetcher.FetchEvents(ctx)
	if err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var prevHeadID string
	if len(c.events) > 0 {
		prevHeadID = c.events[0].ID
	}

	c.events = c.events[:0]
	for i := range fetched {
		if fetched[i].GameName != gameName {
			continue
		}
		ev := fetched[i]
		ev.Status = models.EventStatusWaiting
		ev.PlayerCount = 0
		c.events = append(c.events, &ev)
	}

	if len(c.events) == 0 {
		return nil, prevHeadID != "", nil
	}
	head := c.events[0]
	return head, head.ID != prevHeadID, nil
}

// Snapshot returns a copy of the cached events for broadcasting.
func (c *Cache) Snapshot() []models.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]models.Event, 0, len(c.events))
	for _, ev := range c.events {
		out = append(out, *ev)
	}
	return out
}

// SetStatus advances the local status of one event.
func (c *Cache) SetStatus(eventID, status string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ev := range c.events {
		if ev.ID == eventID {
			ev.Status = status
			return
		}
	}
}

// SetPlayerCount updates the live player count snapshot of one event.
func (c *Cache) SetPlayerCount(eventID string, n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ev := range c.events {
		if ev.ID == eventID {
			ev.PlayerCount = n
			return
		}
	}
}
