// internal/catalog/cache_test.go
package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizstage/gameshow/internal/models"
)

type fakeFetcher struct {
	events []models.Event
	err    error
}

func (f fakeFetcher) FetchEvents(ctx context.Context) ([]models.Event, error) {
	return f.events, f.err
}

func TestRefreshFiltersByGameNameAndResetsWrappers(t *testing.T) {
	c := NewCache()
	fetcher := fakeFetcher{events: []models.Event{
		{ID: "ev1", Name: "Trivia Night", GameName: "Trivia", StartTime: time.Now(), Status: "hosting", PlayerCount: 12},
		{ID: "ev2", Name: "Bingo Hour", GameName: "Bingo", StartTime: time.Now()},
	}}

	head, changed, err := c.Refresh(context.Background(), fetcher, "Trivia")
	require.NoError(t, err)
	require.NotNil(t, head)
	assert.True(t, changed)
	assert.Equal(t, "ev1", head.ID)

	snap := c.Snapshot()
	require.Len(t, snap, 1, "other games are filtered out")
	assert.Equal(t, models.EventStatusWaiting, snap[0].Status, "remote status is not trusted")
	assert.Equal(t, 0, snap[0].PlayerCount)
}

func TestRefreshReportsHeadChangeOnlyOnce(t *testing.T) {
	c := NewCache()
	fetcher := fakeFetcher{events: []models.Event{
		{ID: "ev1", GameName: "Trivia"},
	}}

	_, changed, err := c.Refresh(context.Background(), fetcher, "Trivia")
	require.NoError(t, err)
	assert.True(t, changed)

	_, changed, err = c.Refresh(context.Background(), fetcher, "Trivia")
	require.NoError(t, err)
	assert.False(t, changed, "same head must not be scheduled twice")

	next := fakeFetcher{events: []models.Event{
		{ID: "ev9", GameName: "Trivia"},
	}}
	head, changed, err := c.Refresh(context.Background(), next, "Trivia")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "ev9", head.ID)
}

func TestRefreshErrorLeavesCacheIntact(t *testing.T) {
	c := NewCache()
	_, _, err := c.Refresh(context.Background(), fakeFetcher{events: []models.Event{{ID: "ev1", GameName: "Trivia"}}}, "Trivia")
	require.NoError(t, err)

	_, _, err = c.Refresh(context.Background(), fakeFetcher{err: errors.New("catalog down")}, "Trivia")
	require.Error(t, err)
	assert.Len(t, c.Snapshot(), 1, "failed refresh keeps the previous catalog")
}

func TestRefreshEmptyCatalog(t *testing.T) {
	c := NewCache()
	head, changed, err := c.Refresh(context.Background(), fakeFetcher{}, "Trivia")
	require.NoError(t, err)
	assert.Nil(t, head)
	assert.False(t, changed)
	assert.Empty(t, c.Snapshot())
}

func TestSetStatusAndPlayerCount(t *testing.T) {
	c := NewCache()
	_, _, err := c.Refresh(context.Background(), fakeFetcher{events: []models.Event{{ID: "ev1", GameName: "Trivia"}}}, "Trivia")
	require.NoError(t, err)

	c.SetStatus("ev1", models.EventStatusHosting)
	c.SetPlayerCount("ev1", 7)
	c.SetStatus("missing", models.EventStatusEnded) // no-op

	snap := c.Snapshot()
	require.Len(t, snap, 1)
	assert.Equal(t, models.EventStatusHosting, snap[0].Status)
	assert.Equal(t, 7, snap[0].PlayerCount)
}
