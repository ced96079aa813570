package events

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

func TestWebhookSinkSignsBody(t *testing.T) {
	var gotSig string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Dash-Signature")
		gotBody, _ = io.ReadAll(r.Body)
	}))
	t.Cleanup(srv.Close)

	s := NewWebhookSink(WebhookConfig{Enabled: true, Endpoint: srv.URL, Secret: "k"})
	if s == nil {
		t.Fatal("enabled sink must not be nil")
	}
	e := NewRecordEvent(ActionCreated, "tasks", 1, map[string]any{"Title": "x"})
	if err := s.Emit(context.Background(), e); err != nil {
		t.Fatalf("Emit: %v", err)
	}

	mac := hmac.New(sha256.New, []byte("k"))
	mac.Write(gotBody)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if gotSig != want {
		t.Fatalf("signature = %q, want %q", gotSig, want)
	}
}

func TestNewSinksDisabled(t *testing.T) {
	if s := NewWebhookSink(WebhookConfig{}); s != nil {
		t.Fatal("disabled webhook sink must be nil")
	}
	if s, err := NewRedisSink(RedisConfig{}); err != nil || s != nil {
		t.Fatalf("disabled redis sink: %v %v", s, err)
	}
	if s, err := NewKafkaSink(KafkaConfig{}); err != nil || s != nil {
		t.Fatalf("disabled kafka sink: %v %v", s, err)
	}
}

type flakySink struct {
	mu       sync.Mutex
	failures int
	calls    int
}

func (s *flakySink) Emit(context.Context, Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	if s.calls <= s.failures {
		return errors.New("transient")
	}
	return nil
}

type recordingDLQ struct {
	mu     sync.Mutex
	stored []Event
}

func (d *recordingDLQ) Store(_ context.Context, e Event, _ int, _ string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stored = append(d.stored, e)
	return nil
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not reached")
}

func TestDispatcherRetriesThenSucceeds(t *testing.T) {
	sink := &flakySink{failures: 1}
	dlq := &recordingDLQ{}
	d := NewDispatcher(RetryConfig{MaxAttempts: 3, InitialDelay: time.Millisecond}, dlq, sink)

	d.Dispatch(context.Background(), NewRecordEvent(ActionUpdated, "tasks", 1, nil))
	waitFor(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return sink.calls >= 2
	})
	dlq.mu.Lock()
	defer dlq.mu.Unlock()
	if len(dlq.stored) != 0 {
		t.Fatal("recovered delivery must not reach the DLQ")
	}
}

func TestDispatcherExhaustsToDLQ(t *testing.T) {
	sink := &flakySink{failures: 100}
	dlq := &recordingDLQ{}
	d := NewDispatcher(RetryConfig{MaxAttempts: 2, InitialDelay: time.Millisecond}, dlq, sink)

	e := NewRecordEvent(ActionDeleted, "tasks", 2, nil)
	d.Dispatch(context.Background(), e)
	waitFor(t, func() bool {
		dlq.mu.Lock()
		defer dlq.mu.Unlock()
		return len(dlq.stored) == 1
	})
	dlq.mu.Lock()
	defer dlq.mu.Unlock()
	if dlq.stored[0].ID != e.ID {
		t.Fatalf("stored event %s, want %s", dlq.stored[0].ID, e.ID)
	}
}

type ctxCheckSink struct {
	mu   sync.Mutex
	errs []error
}

func (s *ctxCheckSink) Emit(ctx context.Context, _ Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs = append(s.errs, ctx.Err())
	return nil
}

func TestDispatchDetachesFromCallerCancellation(t *testing.T) {
	sink := &ctxCheckSink{}
	d := NewDispatcher(RetryConfig{MaxAttempts: 1, InitialDelay: time.Millisecond}, nil, sink)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Dispatch(ctx, NewRecordEvent(ActionCreated, "tasks", 1, nil))
	waitFor(t, func() bool {
		sink.mu.Lock()
		defer sink.mu.Unlock()
		return len(sink.errs) == 1
	})
	if sink.errs[0] != nil {
		t.Fatalf("delivery saw cancelled context: %v", sink.errs[0])
	}
}

func TestNilDispatcherDropsEvents(t *testing.T) {
	var d *Dispatcher
	d.Dispatch(context.Background(), NewRecordEvent(ActionCreated, "tasks", nil, nil))
}
