package event

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"
)

// Ingestor drains the events topic into the store. Ingest is idempotent:
// replayed messages hit the unique id constraint and are dropped quietly.
type Ingestor struct {
	repo   Repository
	logger *zap.Logger
}

func NewIngestor(repo Repository, logger *zap.Logger) *Ingestor {
	return &Ingestor{
		repo:   repo,
		logger: logger,
	}
}

func (i *Ingestor) Ingest(ctx context.Context, event *Event) error {
	if err := i.repo.Create(ctx, event); err != nil {
		if errors.Is(err, ErrDuplicateEvent) {
			i.logger.Debug("event already ingested", zap.String("event_id", event.ID.String()))
			return nil
		}
		return err
	}

	i.logger.Debug("Event ingested",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.EventType),
	)
	return nil
}

// MessageHandler adapts Ingest to the Kafka consumer callback.
func (i *Ingestor) MessageHandler() func(ctx context.Context, key, value []byte) error {
	return func(ctx context.Context, key, value []byte) error {
		var event Event
		if err := json.Unmarshal(value, &event); err != nil {
			i.logger.Error("Failed to unmarshal event",
				zap.Error(err),
				zap.String("value", string(value)),
			)
			return err
		}

		return i.Ingest(ctx, &event)
	}
}
