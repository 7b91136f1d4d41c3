package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"git.home.luguber.info/inful/gridsolver/internal/config"
	fnderrors "git.home.luguber.info/inful/gridsolver/internal/foundation/errors"
	"git.home.luguber.info/inful/gridsolver/internal/logfields"
	"git.home.luguber.info/inful/gridsolver/internal/retry"
)

// Publisher manages the NATS connection and JetStream operations for
// solver result events.
type Publisher struct {
	conn   *nats.Conn
	js     jetstream.JetStream
	kv     jetstream.KeyValue
	cfg    *config.EventsConfig
	policy retry.Policy
	logger *slog.Logger
}

// NewPublisher connects to NATS and prepares the result stream and,
// when configured, the KV cache bucket.
func NewPublisher(cfg *config.EventsConfig, logger *slog.Logger) (*Publisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("events config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	conn, err := nats.Connect(cfg.URL, nats.Name("gridsolver"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	initial, _ := time.ParseDuration(cfg.RetryInitialDelay)
	maxDelay, _ := time.ParseDuration(cfg.RetryMaxDelay)

	p := &Publisher{
		conn:   conn,
		js:     js,
		cfg:    cfg,
		policy: retry.NewPolicy(cfg.RetryBackoff, initial, maxDelay, cfg.MaxRetries),
		logger: logger,
	}

	if err := p.initStream(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to initialize stream: %w", err)
	}
	if cfg.CacheBucket != "" {
		if err := p.initKVBucket(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to initialize KV bucket: %w", err)
		}
	}

	logger.Info("events publisher initialized",
		logfields.URL(cfg.URL),
		slog.String("stream", cfg.Stream),
		slog.String("subject_prefix", cfg.SubjectPrefix))

	return p, nil
}

// initStream creates or updates the JetStream stream for solver results.
func (p *Publisher) initStream() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := p.js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     p.cfg.Stream,
		Subjects: []string{p.cfg.SubjectPrefix + ".>"},
	})
	return err
}

// initKVBucket creates or gets the KV bucket for the result cache.
func (p *Publisher) initKVBucket() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Try to get existing bucket
	kv, err := p.js.KeyValue(ctx, p.cfg.CacheBucket)
	if err == nil {
		p.kv = kv
		return nil
	}

	kv, err = p.js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
		Bucket:      p.cfg.CacheBucket,
		Description: "Solve result cache",
		MaxBytes:    100 * 1024 * 1024,
		History:     1, // Keep only latest value
	})
	if err != nil {
		return fmt.Errorf("failed to create KV bucket: %w", err)
	}

	p.kv = kv
	p.logger.Info("created result cache bucket", slog.String("bucket", p.cfg.CacheBucket))
	return nil
}

// PublishResult publishes a solver result event, retrying transient
// failures per the configured policy. A nil Publisher drops the event.
func (p *Publisher) PublishResult(ctx context.Context, event *Event) error {
	if p == nil {
		return nil
	}

	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	event.Timestamp = time.Now()

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	subject := event.Subject(p.cfg.SubjectPrefix)

	var lastErr error
	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			p.logger.Warn("retrying event publish",
				logfields.Subject(subject),
				slog.Int("attempt", attempt))
		}

		pubCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := p.js.Publish(pubCtx, subject, data)
		cancel()
		if err == nil {
			p.logger.Debug("published solver result",
				logfields.Subject(subject),
				logfields.Command(event.Command),
				slog.String("outcome", event.Outcome))
			return nil
		}
		lastErr = err

		if attempt == p.cfg.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.policy.Delay(attempt + 1)):
		}
	}

	return fnderrors.WrapError(lastErr, fnderrors.CategoryEvents, "publish failed after retries").
		Retryable().
		WithContext("subject", subject).
		Build()
}

// ResultCache returns the TTL cache backed by the KV bucket, or nil
// when no bucket is configured.
func (p *Publisher) ResultCache() *Cache {
	if p == nil || p.kv == nil {
		return nil
	}

	ttl, err := time.ParseDuration(p.cfg.CacheTTL)
	if err != nil {
		ttl = 0
	}
	return NewCache(natsKV{kv: p.kv}, ttl)
}

// natsKV adapts a JetStream KV bucket to the KVStore interface.
type natsKV struct {
	kv jetstream.KeyValue
}

func (n natsKV) Get(ctx context.Context, key string) ([]byte, error) {
	entry, err := n.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrKeyNotFound) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return entry.Value(), nil
}

func (n natsKV) Put(ctx context.Context, key string, value []byte) error {
	_, err := n.kv.Put(ctx, key, value)
	return err
}

// Close closes the NATS connection.
func (p *Publisher) Close() error {
	if p == nil || p.conn == nil {
		return nil
	}
	p.conn.Close()
	return nil
}
