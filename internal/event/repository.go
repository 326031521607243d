package event

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/pulseview/activity-analytics/pkg/postgres"
)

// Filter narrows a ListByRange fetch. Nil bounds and an empty event type
// mean "no constraint". Bounds are inclusive on both ends.
type Filter struct {
	Start     *time.Time
	End       *time.Time
	EventType string
}

type Repository interface {
	Create(ctx context.Context, event *Event) error
	CreateBatch(ctx context.Context, events []*Event) error
	GetByID(ctx context.Context, id uuid.UUID) (*Event, error)
	GetByUserID(ctx context.Context, userID string, limit int) ([]Event, error)
	ListByRange(ctx context.Context, filter Filter) ([]Event, error)
	Ping(ctx context.Context) error
}

type repository struct {
	db     *postgres.DB
	logger *zap.Logger
}

func NewRepository(db *postgres.DB, logger *zap.Logger) Repository {
	return &repository{
		db:     db,
		logger: logger,
	}
}

func (r *repository) Create(ctx context.Context, event *Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO events (id, event_type, user_id, device_id, path, meta, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.ExecContext(
		ctx,
		query,
		event.ID,
		event.EventType,
		event.UserID,
		event.DeviceID,
		event.Path,
		event.Meta,
		event.Timestamp,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" {
				r.logger.Warn("Duplicate event ignored",
					zap.String("event_id", event.ID.String()),
				)
				return ErrDuplicateEvent
			}
		}
		r.logger.Error("Failed to create event", zap.Error(err))
		return fmt.Errorf("failed to create event: %w", err)
	}

	r.logger.Debug("Event created",
		zap.String("event_id", event.ID.String()),
		zap.String("event_type", event.EventType),
	)

	return nil
}

func (r *repository) CreateBatch(ctx context.Context, events []*Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO events (id, event_type, user_id, device_id, path, meta, timestamp)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	successCount := 0
	for _, event := range events {
		if err := event.Validate(); err != nil {
			r.logger.Warn("Invalid event in batch",
				zap.String("event_id", event.ID.String()),
				zap.Error(err),
			)
			continue
		}

		_, err := stmt.ExecContext(
			ctx,
			event.ID,
			event.EventType,
			event.UserID,
			event.DeviceID,
			event.Path,
			event.Meta,
			event.Timestamp,
		)
		if err != nil {
			r.logger.Error("Failed to insert event in batch",
				zap.String("event_id", event.ID.String()),
				zap.Error(err),
			)
			continue
		}
		successCount++
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	r.logger.Info("Batch insert completed",
		zap.Int("total", len(events)),
		zap.Int("success", successCount),
	)

	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Event, error) {
	query := `
		SELECT id, event_type, user_id, device_id, path, meta, timestamp
		FROM events
		WHERE id = $1
	`

	var event Event
	err := r.db.GetContext(ctx, &event, query, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	return &event, nil
}

func (r *repository) GetByUserID(ctx context.Context, userID string, limit int) ([]Event, error) {
	query := `
		SELECT id, event_type, user_id, device_id, path, meta, timestamp
		FROM events
		WHERE user_id = $1
		ORDER BY timestamp DESC
		LIMIT $2
	`

	var events []Event
	err := r.db.SelectContext(ctx, &events, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get user events: %w", err)
	}

	return events, nil
}

// Ping reports whether the underlying store is reachable.
func (r *repository) Ping(ctx context.Context) error {
	return r.db.HealthCheck(ctx)
}

// ListByRange returns events newest-first. That delivery order is part of
// the contract with the aggregation layer: ties between equally frequent
// keys are broken by discovery order over this slice.
func (r *repository) ListByRange(ctx context.Context, filter Filter) ([]Event, error) {
	query := `
		SELECT id, event_type, user_id, device_id, path, meta, timestamp
		FROM events
	`

	var (
		clauses []string
		args    []any
	)

	if filter.Start != nil {
		args = append(args, *filter.Start)
		clauses = append(clauses, fmt.Sprintf("timestamp >= $%d", len(args)))
	}
	if filter.End != nil {
		args = append(args, *filter.End)
		clauses = append(clauses, fmt.Sprintf("timestamp <= $%d", len(args)))
	}
	if filter.EventType != "" {
		args = append(args, filter.EventType)
		clauses = append(clauses, fmt.Sprintf("event_type = $%d", len(args)))
	}

	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}

	query += " ORDER BY timestamp DESC"

	var events []Event
	err := r.db.SelectContext(ctx, &events, query, args...)
	if err != nil {
		r.logger.Error("Failed to list events",
			zap.Error(err),
			zap.String("event_type", filter.EventType),
		)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	return events, nil
}
