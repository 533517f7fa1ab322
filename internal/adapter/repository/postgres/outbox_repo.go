package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/finbook/finbook/internal/domain"
	"github.com/finbook/finbook/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository.
type OutboxRepository struct {
	pool *pgxpool.Pool
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(pool *pgxpool.Pool) *OutboxRepository {
	return &OutboxRepository{pool: pool}
}

// Create creates a new outbox event within a transaction.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event *domain.OutboxEvent) error {
	pgxTx := tx.(*Tx).PgxTx()

	if event.ID == "" {
		event.ID = uuid.New().String()
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return err
	}

	_, err = pgxTx.Exec(ctx, `
		INSERT INTO outbox_events (id, aggregate_id, aggregate_type, event_type, payload, created_at, published)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		event.ID,
		event.AggregateID,
		event.AggregateType,
		event.EventType,
		payload,
		timeToPgTimestamptz(event.CreatedAt),
		event.Published,
	)

	return err
}

// GetUnpublished retrieves unpublished events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]*domain.OutboxEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, aggregate_id, aggregate_type, event_type, payload, created_at, published_at, published
		FROM outbox_events
		WHERE NOT published
		ORDER BY created_at
		LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.OutboxEvent
	for rows.Next() {
		var (
			event       domain.OutboxEvent
			payload     []byte
			createdAt   pgtype.Timestamptz
			publishedAt pgtype.Timestamptz
		)

		err := rows.Scan(
			&event.ID,
			&event.AggregateID,
			&event.AggregateType,
			&event.EventType,
			&payload,
			&createdAt,
			&publishedAt,
			&event.Published,
		)
		if err != nil {
			return nil, err
		}

		if err := json.Unmarshal(payload, &event.Payload); err != nil {
			return nil, err
		}

		event.CreatedAt = createdAt.Time
		if publishedAt.Valid {
			t := publishedAt.Time
			event.PublishedAt = &t
		}

		events = append(events, &event)
	}

	return events, rows.Err()
}

// MarkPublished marks an event as published.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE outbox_events
		SET published = TRUE, published_at = $2
		WHERE id = $1`, id, timeToPgTimestamptz(publishedAt))

	return err
}

// DeletePublished removes published events older than the cutoff.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) error {
	_, err := r.pool.Exec(ctx, `
		DELETE FROM outbox_events
		WHERE published AND published_at < $1`, timeToPgTimestamptz(before))

	return err
}
