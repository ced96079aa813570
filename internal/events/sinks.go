package events

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/IBM/sarama"
	"github.com/redis/go-redis/v9"
)

// WebhookSink posts events to an HTTP endpoint, signing the body when a
// secret is configured.
type WebhookSink struct {
	Endpoint string
	Secret   string
	Client   *http.Client
}

// NewWebhookSink creates a sink from config; nil when disabled.
func NewWebhookSink(c WebhookConfig) *WebhookSink {
	if !c.Enabled || c.Endpoint == "" {
		return nil
	}
	cli := &http.Client{Timeout: c.Timeout}
	if c.Timeout == 0 {
		cli.Timeout = 5 * time.Second
	}
	return &WebhookSink{Endpoint: c.Endpoint, Secret: c.Secret, Client: cli}
}

func (s *WebhookSink) Emit(ctx context.Context, e Event) error {
	if s == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.Endpoint, bytes.NewReader(data))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Secret != "" {
		h := hmac.New(sha256.New, []byte(s.Secret))
		h.Write(data)
		req.Header.Set("X-Dash-Signature", "sha256="+hex.EncodeToString(h.Sum(nil)))
	}
	resp, err := s.Client.Do(req)
	if err != nil {
		return err
	}
	if err := resp.Body.Close(); err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook: %s", resp.Status)
	}
	return nil
}

// RedisSink publishes events via Redis Pub/Sub.
type RedisSink struct {
	Client  *redis.Client
	Channel string
}

// NewRedisSink creates a sink from config; nil when disabled.
func NewRedisSink(c RedisConfig) (*RedisSink, error) {
	if !c.Enabled || c.DSN == "" {
		return nil, nil
	}
	opt, err := redis.ParseURL(c.DSN)
	if err != nil {
		return nil, err
	}
	return &RedisSink{Client: redis.NewClient(opt), Channel: c.Channel}, nil
}

func (s *RedisSink) Emit(ctx context.Context, e Event) error {
	if s == nil || s.Client == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return s.Client.Publish(ctx, s.Channel, data).Err()
}

// KafkaSink publishes events to Kafka.
type KafkaSink struct {
	Producer sarama.AsyncProducer
	Topic    string
}

// NewKafkaSink creates a sink from config; nil when disabled.
func NewKafkaSink(c KafkaConfig) (*KafkaSink, error) {
	if !c.Enabled || len(c.Brokers) == 0 {
		return nil, nil
	}
	prod, err := sarama.NewAsyncProducer(c.Brokers, sarama.NewConfig())
	if err != nil {
		return nil, err
	}
	return &KafkaSink{Producer: prod, Topic: c.Topic}, nil
}

func (s *KafkaSink) Emit(ctx context.Context, e Event) error {
	if s == nil || s.Producer == nil {
		return nil
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{Topic: s.Topic, Value: sarama.ByteEncoder(data)}
	select {
	case s.Producer.Input() <- msg:
		return nil
	case err := <-s.Producer.Errors():
		return err.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}
