package events

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config selects and configures the event sinks.
type Config struct {
	Sinks struct {
		Webhook WebhookConfig `yaml:"webhook"`
		Redis   RedisConfig   `yaml:"redis"`
		Kafka   KafkaConfig   `yaml:"kafka"`
	} `yaml:"sinks"`
	Retry RetryConfig `yaml:"retry"`
}

type WebhookConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Endpoint string        `yaml:"endpoint"`
	Secret   string        `yaml:"secret"`
	Timeout  time.Duration `yaml:"timeout"`
}

type RedisConfig struct {
	Enabled bool   `yaml:"enabled"`
	DSN     string `yaml:"dsn"`
	Channel string `yaml:"channel"`
}

type KafkaConfig struct {
	Enabled bool     `yaml:"enabled"`
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
}

// LoadConfig reads YAML from path. An empty path yields the zero config.
func LoadConfig(path string) (Config, error) {
	var c Config
	if path == "" {
		return c, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	err = yaml.Unmarshal(data, &c)
	return c, err
}

// Build assembles a dispatcher from the configured sinks. With every sink
// disabled it returns nil, which drops events.
func Build(c Config, dlq DLQ) (*Dispatcher, error) {
	var sinks []Sink
	if s := NewWebhookSink(c.Sinks.Webhook); s != nil {
		sinks = append(sinks, s)
	}
	if s, err := NewRedisSink(c.Sinks.Redis); err != nil {
		return nil, err
	} else if s != nil {
		sinks = append(sinks, s)
	}
	if s, err := NewKafkaSink(c.Sinks.Kafka); err != nil {
		return nil, err
	} else if s != nil {
		sinks = append(sinks, s)
	}
	if len(sinks) == 0 {
		return nil, nil
	}
	return NewDispatcher(c.Retry, dlq, sinks...), nil
}
