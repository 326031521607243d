package event

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type KafkaProducer interface {
	SendMessage(ctx context.Context, key string, value any) error
}

// Service is the ingest-side surface: it validates events and hands them to
// the emitter. Emission is fire-and-forget; a broker failure is logged and
// never reported back to the caller.
type Service struct {
	producer KafkaProducer
	logger   *zap.Logger
}

func NewService(producer KafkaProducer, logger *zap.Logger) *Service {
	return &Service{
		producer: producer,
		logger:   logger,
	}
}

func (s *Service) TrackEvent(ctx context.Context, event *Event) error {
	if err := event.Validate(); err != nil {
		s.logger.Warn("failed to validate event",
			zap.Error(err),
			zap.String("event_id", event.ID.String()))
		return fmt.Errorf("invalid event: %w", err)
	}

	if err := s.producer.SendMessage(ctx, event.PartitionKey(), event); err != nil {
		s.logger.Error("failed to emit event",
			zap.String("event_id", event.ID.String()),
			zap.Error(err))
		return nil
	}

	s.logger.Info("Event tracked",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.EventType),
	)
	return nil
}

func (s *Service) TrackEventBatch(ctx context.Context, events []*Event) (int, []string, error) {
	if len(events) == 0 {
		return 0, nil, fmt.Errorf("no events provided")
	}

	s.logger.Info("Tracking events", zap.Int("events", len(events)))

	failedIDs := make([]string, 0)

	for _, event := range events {
		if err := event.Validate(); err != nil {
			s.logger.Warn("Invalid event in batch",
				zap.String("event_id", event.ID.String()),
				zap.Error(err),
			)
			failedIDs = append(failedIDs, event.ID.String())
			continue
		}

		if err := s.producer.SendMessage(ctx, event.PartitionKey(), event); err != nil {
			s.logger.Error("Failed to emit event in batch",
				zap.Error(err),
				zap.String("event_id", event.ID.String()),
			)
			failedIDs = append(failedIDs, event.ID.String())
		}
	}

	successCount := len(events) - len(failedIDs)

	return successCount, failedIDs, nil
}

func (s *Service) HealthCheck(ctx context.Context) (bool, map[string]string) {
	status := make(map[string]string)

	status["kafka"] = "ok"

	return true, status
}
