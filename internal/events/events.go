// Package events fans record mutations out to external systems.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Actions carried by record events.
const (
	ActionCreated = "record.created"
	ActionUpdated = "record.updated"
	ActionDeleted = "record.deleted"
)

// Event describes one record mutation.
type Event struct {
	ID         string    `json:"id"`
	Action     string    `json:"action"`
	Collection string    `json:"collection"`
	RecordID   any       `json:"recordId,omitempty"`
	Payload    any       `json:"payload,omitempty"`
	Time       time.Time `json:"time"`
}

// NewRecordEvent builds an event for a mutation on collection.
func NewRecordEvent(action, collection string, recordID, payload any) Event {
	return Event{
		ID:         uuid.NewString(),
		Action:     action,
		Collection: collection,
		RecordID:   recordID,
		Payload:    payload,
		Time:       time.Now().UTC(),
	}
}

// Sink publishes events.
type Sink interface {
	Emit(ctx context.Context, e Event) error
}

// DLQ stores events that exhausted their delivery attempts.
type DLQ interface {
	Store(ctx context.Context, e Event, attempts int, lastErr string) error
}

// Dispatcher broadcasts events to its sinks, retrying with exponential
// backoff before handing the event to the DLQ.
type Dispatcher struct {
	sinks        []Sink
	maxAttempts  int
	initialDelay time.Duration
	dlq          DLQ
}

// NewDispatcher builds a dispatcher. Nil sinks are skipped.
func NewDispatcher(retry RetryConfig, dlq DLQ, sinks ...Sink) *Dispatcher {
	d := &Dispatcher{maxAttempts: 3, initialDelay: time.Second, dlq: dlq}
	if retry.MaxAttempts > 0 {
		d.maxAttempts = retry.MaxAttempts
	}
	if retry.InitialDelay > 0 {
		d.initialDelay = retry.InitialDelay
	}
	for _, s := range sinks {
		if s != nil {
			d.sinks = append(d.sinks, s)
		}
	}
	return d
}

// Dispatch sends the event to every sink asynchronously. Delivery detaches
// from the caller's cancellation so retries outlive the request that emitted
// the event. A nil dispatcher drops events, so emission sites need no guard.
func (d *Dispatcher) Dispatch(ctx context.Context, e Event) {
	if d == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	for _, s := range d.sinks {
		sink := s
		go d.retrySend(ctx, sink, e)
	}
}

func (d *Dispatcher) retrySend(ctx context.Context, s Sink, e Event) {
	delay := d.initialDelay
	var err error
	for i := 1; i <= d.maxAttempts; i++ {
		if err = s.Emit(ctx, e); err == nil {
			return
		}
		time.Sleep(delay)
		delay *= 2
	}
	if d.dlq != nil {
		_ = d.dlq.Store(ctx, e, d.maxAttempts, err.Error())
	}
}
