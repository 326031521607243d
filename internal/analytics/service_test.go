package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pulseview/activity-analytics/internal/event"
)

type fakeStore struct {
	events     []event.Event
	err        error
	pingErr    error
	lastFilter event.Filter
}

func (f *fakeStore) ListByRange(ctx context.Context, filter event.Filter) ([]event.Event, error) {
	f.lastFilter = filter
	return f.events, f.err
}

func (f *fakeStore) GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.events {
		if f.events[i].ID == id {
			return &f.events[i], nil
		}
	}
	return nil, event.ErrEventNotFound
}

func (f *fakeStore) GetByUserID(ctx context.Context, userID string, limit int) ([]event.Event, error) {
	return f.events, f.err
}

func (f *fakeStore) Ping(ctx context.Context) error {
	return f.pingErr
}

func TestGetStatsDegradesToEmptyOnStoreFailure(t *testing.T) {
	store := &fakeStore{err: errors.New("connection refused")}
	svc := NewService(store, zap.NewNop())

	stats := svc.GetStats(context.Background(), event.Filter{})

	// The dashboard always gets a well-formed zeroed snapshot.
	assert.Zero(t, stats.TotalPageViews)
	assert.Empty(t, stats.PageViews)
	assert.Empty(t, stats.ActivityByHour)
}

func TestGetStatsComputesOverFetchedEvents(t *testing.T) {
	store := &fakeStore{events: []event.Event{
		makeEvent("page_view", "u1", "/home", nil, localTime(9)),
		makeEvent("page_view", "u1", "/home", nil, localTime(9)),
		makeEvent("search", "u2", "", event.Meta{"code": "P0171"}, localTime(10)),
	}}
	svc := NewService(store, zap.NewNop())

	stats := svc.GetStats(context.Background(), event.Filter{EventType: ""})

	assert.Equal(t, 3, stats.TotalPageViews)
	require.Len(t, stats.PageViews, 1)
	assert.Equal(t, 2, stats.PageViews[0].Count)
	assert.Equal(t, 1, stats.TotalSearches)
}

func TestGetStatsPassesFilterThrough(t *testing.T) {
	store := &fakeStore{}
	svc := NewService(store, zap.NewNop())

	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 7)
	svc.GetStats(context.Background(), event.Filter{
		Start:     &start,
		End:       &end,
		EventType: "search",
	})

	require.NotNil(t, store.lastFilter.Start)
	assert.Equal(t, start, *store.lastFilter.Start)
	require.NotNil(t, store.lastFilter.End)
	assert.Equal(t, end, *store.lastFilter.End)
	assert.Equal(t, "search", store.lastFilter.EventType)
}

func TestGetEventByID(t *testing.T) {
	known := makeEvent("search", "u1", "", event.Meta{"code": "P0171"}, localTime(9))
	store := &fakeStore{events: []event.Event{known}}
	svc := NewService(store, zap.NewNop())

	got, err := svc.GetEvent(context.Background(), known.ID)
	require.NoError(t, err)
	assert.Equal(t, known.ID, got.ID)

	_, err = svc.GetEvent(context.Background(), uuid.New())
	require.Error(t, err)
	assert.ErrorIs(t, err, event.ErrEventNotFound)
}

func TestHealthCheckReflectsStoreReachability(t *testing.T) {
	healthy := NewService(&fakeStore{}, zap.NewNop())
	ok, deps := healthy.HealthCheck(context.Background())
	assert.True(t, ok)
	assert.Equal(t, "ok", deps["postgres"])

	unhealthy := NewService(&fakeStore{pingErr: errors.New("connection refused")}, zap.NewNop())
	ok, deps = unhealthy.HealthCheck(context.Background())
	assert.False(t, ok)
	assert.Equal(t, "unavailable", deps["postgres"])
}

func TestGetUserActivityPropagatesError(t *testing.T) {
	store := &fakeStore{err: errors.New("boom")}
	svc := NewService(store, zap.NewNop())

	_, err := svc.GetUserActivity(context.Background(), "u1", 10)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to get user activity")
}
