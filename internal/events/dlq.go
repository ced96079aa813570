package events

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/faciam-dev/listdash/internal/logger"
)

// SQLDLQ stores failed events in the database.
type SQLDLQ struct {
	DB     *sql.DB
	Driver string
}

// Store inserts the failed event into events_failed.
func (q *SQLDLQ) Store(ctx context.Context, e Event, attempts int, lastErr string) error {
	if q == nil || q.DB == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	var stmt string
	if q.Driver == "postgres" {
		stmt = "INSERT INTO events_failed(action, payload, attempts, last_error) VALUES ($1, $2, $3, $4)"
	} else {
		stmt = "INSERT INTO events_failed(action, payload, attempts, last_error) VALUES (?, ?, ?, ?)"
	}
	_, err = q.DB.ExecContext(ctx, stmt, e.Action, string(data), attempts, lastErr)
	if err != nil {
		return fmt.Errorf("store failed event: %w", err)
	}
	return nil
}

// LogDLQ logs failed events. It backs stores without a SQL handle.
type LogDLQ struct{}

func (LogDLQ) Store(_ context.Context, e Event, attempts int, lastErr string) error {
	logger.L.Error("event delivery failed", "id", e.ID, "action", e.Action, "attempts", attempts, "err", lastErr)
	return nil
}
