package database

import (
	"context"
	"fmt"

	apperrors "faq-agent/errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Event kinds accepted by RecordEvent.
const (
	EventUnanswered = "unanswered"
	EventFeedback   = "feedback"
)

// RecordEvent appends one event row. Append-only; idempotency is not
// guaranteed, duplicate events are possible if a caller retries.
func (s *PostgresStore) RecordEvent(ctx context.Context, kind string, fields []string) error {
	switch kind {
	case EventUnanswered, EventFeedback:
	default:
		return apperrors.WrapErrorf(apperrors.ErrInvalidInput, "unknown event kind %q", kind)
	}

	_, err := s.DB.ExecContext(ctx,
		`INSERT INTO events (id, kind, fields) VALUES ($1, $2, $3)`,
		uuid.New(), kind, pq.Array(fields))
	if err != nil {
		return fmt.Errorf("record %s event: %w", kind, err)
	}
	return nil
}
