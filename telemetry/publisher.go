package telemetry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.uber.org/atomic"

	"i4.energy/across/telemetrygw/ready"
)

//go:generate go tool mockgen -source=publisher.go -destination=mock_client_test.go -package=telemetry_test

// DefaultTopic is the ThingsBoard device telemetry topic.
const DefaultTopic = "v1/devices/me/telemetry"

// Client sends one message to the cloud.
type Client interface {
	Publish(ctx context.Context, topic, payload string) error
}

var ErrNoClient = errors.New("no cloud client configured")

type PublisherConfig struct {
	Logger *slog.Logger
	Store  *Store
	Client Client
	// Ready gates every publish. Nil publishes unconditionally.
	Ready *ready.Flag
	// Topic defaults to DefaultTopic.
	Topic string
	// Interval between periodic publishes. Defaults to one minute.
	Interval time.Duration
}

// Publisher sends the Store snapshot every Interval and whenever Trigger is
// called. Triggers arriving while a publish is in progress coalesce into one.
type Publisher struct {
	config  PublisherConfig
	logger  *slog.Logger
	trigger chan struct{}

	published   atomic.Int64
	failed      atomic.Int64
	consecutive atomic.Int64
}

func NewPublisher(config PublisherConfig) (*Publisher, error) {
	if config.Client == nil {
		return nil, ErrNoClient
	}
	if config.Store == nil {
		config.Store = NewStore()
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Topic == "" {
		config.Topic = DefaultTopic
	}
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	return &Publisher{
		config:  config,
		logger:  config.Logger.With("component", "publisher"),
		trigger: make(chan struct{}, 1),
	}, nil
}

// Trigger requests a publish as soon as possible. It never blocks.
func (p *Publisher) Trigger() {
	select {
	case p.trigger <- struct{}{}:
	default:
	}
}

// Run publishes until ctx is done. It first waits for the Ready flag.
func (p *Publisher) Run(ctx context.Context) error {
	if err := p.waitReady(ctx); err != nil {
		return err
	}
	p.logger.Info("publisher active", "topic", p.config.Topic, "interval", p.config.Interval)

	ticker := time.NewTicker(p.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		case <-p.trigger:
		}

		if err := p.PublishNow(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			p.logger.Warn("telemetry publish failed", "error", err, "consecutive", p.consecutive.Load())
		}
	}
}

// PublishNow sends the current snapshot once.
func (p *Publisher) PublishNow(ctx context.Context) error {
	payload, err := json.Marshal(p.config.Store.Snapshot())
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := p.waitReady(ctx); err != nil {
		return err
	}

	if err := p.config.Client.Publish(ctx, p.config.Topic, string(payload)); err != nil {
		p.failed.Inc()
		p.consecutive.Inc()
		return err
	}
	p.published.Inc()
	p.consecutive.Store(0)
	p.logger.Info("published telemetry", "bytes", len(payload))
	return nil
}

func (p *Publisher) waitReady(ctx context.Context) error {
	if p.config.Ready == nil {
		return nil
	}
	return p.config.Ready.Wait(ctx)
}

// PublisherStats counts publish outcomes.
type PublisherStats struct {
	Published int64 `json:"published"`
	Failed    int64 `json:"failed"`
	// Consecutive failures since the last success.
	Consecutive int64 `json:"consecutive"`
}

func (p *Publisher) Stats() PublisherStats {
	return PublisherStats{
		Published:   p.published.Load(),
		Failed:      p.failed.Load(),
		Consecutive: p.consecutive.Load(),
	}
}
