package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulseview/activity-analytics/internal/event"
)

type EventStore interface {
	ListByRange(ctx context.Context, filter event.Filter) ([]event.Event, error)
	GetByID(ctx context.Context, id uuid.UUID) (*event.Event, error)
	GetByUserID(ctx context.Context, userID string, limit int) ([]event.Event, error)
	Ping(ctx context.Context) error
}

type Service struct {
	store  EventStore
	logger *zap.Logger
}

func NewService(store EventStore, logger *zap.Logger) *Service {
	return &Service{
		store:  store,
		logger: logger,
	}
}

// GetStats fetches the matching events and aggregates them. A store failure
// degrades to an empty collection so the dashboard always gets a well-formed
// zeroed snapshot; the error is only logged for operators.
func (s *Service) GetStats(ctx context.Context, filter event.Filter) Stats {
	events, err := s.store.ListByRange(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to fetch events, serving empty stats",
			zap.Error(err),
			zap.String("event_type", filter.EventType),
		)
		events = nil
	}

	stats := Compute(events)

	s.logger.Info("Stats computed",
		zap.Int("events", len(events)),
		zap.Int("total_searches", stats.TotalSearches),
	)

	return stats
}

func (s *Service) GetEvent(ctx context.Context, id uuid.UUID) (*event.Event, error) {
	ev, err := s.store.GetByID(ctx, id)
	if err != nil {
		s.logger.Error("failed to get event by ID", zap.Error(err), zap.String("id", id.String()))
		return nil, fmt.Errorf("failed to get event by ID: %w", err)
	}

	return ev, nil
}

func (s *Service) GetUserActivity(ctx context.Context, userID string, limit int) ([]event.Event, error) {
	events, err := s.store.GetByUserID(ctx, userID, limit)
	if err != nil {
		s.logger.Error("Failed to get user activity",
			zap.Error(err),
			zap.String("user_id", userID),
		)
		return nil, fmt.Errorf("failed to get user activity: %w", err)
	}

	s.logger.Info("User activity retrieved",
		zap.String("user_id", userID),
		zap.Int("events_count", len(events)),
	)

	return events, nil
}

func (s *Service) HealthCheck(ctx context.Context) (bool, map[string]string) {
	status := make(map[string]string)

	if err := s.store.Ping(ctx); err != nil {
		status["postgres"] = "unavailable"
		return false, status
	}
	status["postgres"] = "ok"

	return true, status
}
