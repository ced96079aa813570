// Package notify delivers operation outcomes to the user-facing channel.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/redis/go-redis/v9"

	"github.com/faciam-dev/listdash/internal/dashboard"
	"github.com/faciam-dev/listdash/internal/logger"
)

// Log writes outcomes to the application logger. It is the default sink
// when no broker is configured.
type Log struct{}

func (Log) Notify(_ context.Context, o dashboard.Outcome) {
	if o.Success {
		logger.L.Info("notify", "summary", o.Summary, "detail", o.Detail)
		return
	}
	logger.L.Warn("notify", "summary", o.Summary, "detail", o.Detail)
}

// RedisBroker publishes outcomes to a redis channel for UI clients to
// render as toasts.
type RedisBroker struct {
	Client  *redis.Client
	Channel string
}

func (b *RedisBroker) Notify(ctx context.Context, o dashboard.Outcome) {
	if b == nil || b.Client == nil {
		return
	}
	data, err := json.Marshal(o)
	if err != nil {
		logger.L.Error("marshal outcome", "err", err)
		return
	}
	if err := b.Client.Publish(ctx, b.Channel, data).Err(); err != nil {
		logger.L.Error("publish outcome", "channel", b.Channel, "err", err)
	}
}

// Webhook posts outcomes to an HTTP endpoint.
type Webhook struct {
	Endpoint string
	Secret   string
	Client   *http.Client
}

func (w *Webhook) Notify(ctx context.Context, o dashboard.Outcome) {
	if w == nil || w.Endpoint == "" {
		return
	}
	data, err := json.Marshal(o)
	if err != nil {
		logger.L.Error("marshal outcome", "err", err)
		return
	}
	if w.Client == nil {
		w.Client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.Endpoint, bytes.NewReader(data))
	if err != nil {
		logger.L.Error("webhook request", "err", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	if w.Secret != "" {
		req.Header.Set("X-Webhook-Secret", w.Secret)
	}
	resp, err := w.Client.Do(req)
	if err != nil {
		logger.L.Error("webhook post", "err", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		logger.L.Error("webhook post", "err", fmt.Errorf("webhook: %s", resp.Status))
	}
}

// Multi fans an outcome out to several notifiers.
type Multi []dashboard.Notifier

func (m Multi) Notify(ctx context.Context, o dashboard.Outcome) {
	for _, n := range m {
		n.Notify(ctx, o)
	}
}
