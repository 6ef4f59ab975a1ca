package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sandeepkv93/codereview-portal/internal/config"
	"github.com/sandeepkv93/codereview-portal/internal/observability"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

var ErrHandleClosed = errors.New("mongo handle closed")

// Dialer opens and verifies a client. Tests replace it to count or fail attempts.
type Dialer func(ctx context.Context, uri string) (*mongo.Client, error)

// MongoHandle is the single shared connection for the process.
//
// The first Client call dials. Callers arriving while that attempt is in
// flight wait for it instead of dialing again. A successful client is reused
// by every later caller; a failed attempt is forgotten so the next call retries.
type MongoHandle struct {
	uri      string
	database string
	dial     Dialer
	logger   *slog.Logger

	mu      sync.Mutex
	client  *mongo.Client
	pending *dialAttempt
	closed  bool
}

type dialAttempt struct {
	done   chan struct{}
	client *mongo.Client
	err    error
}

func NewMongoHandle(cfg *config.Config, logger *slog.Logger) *MongoHandle {
	return NewMongoHandleWithDialer(cfg.MongoURI, cfg.MongoDatabase, DialMongo, logger)
}

func NewMongoHandleWithDialer(uri, database string, dial Dialer, logger *slog.Logger) *MongoHandle {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoHandle{uri: uri, database: database, dial: dial, logger: logger}
}

func DialMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().
		ApplyURI(uri).
		SetAppName("codereview-portal").
		SetServerSelectionTimeout(5 * time.Second))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

func (h *MongoHandle) Client(ctx context.Context) (*mongo.Client, error) {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil, ErrHandleClosed
	}
	if h.client != nil {
		c := h.client
		h.mu.Unlock()
		return c, nil
	}
	attempt := h.pending
	if attempt == nil {
		attempt = &dialAttempt{done: make(chan struct{})}
		h.pending = attempt
		go h.runAttempt(attempt)
	}
	h.mu.Unlock()

	select {
	case <-attempt.done:
		return attempt.client, attempt.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// runAttempt dials outside the caller's context so one impatient caller
// cannot fail the attempt for everyone else waiting on it.
func (h *MongoHandle) runAttempt(a *dialAttempt) {
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	start := time.Now()
	client, err := h.dial(ctx, h.uri)

	h.mu.Lock()
	h.pending = nil
	switch {
	case err != nil:
		observability.RecordStoreConnect(ctx, config.StoreDriverMongo, "error", time.Since(start))
		h.logger.Error("mongo connection failed", "error", err)
	case h.closed:
		_ = client.Disconnect(ctx)
		client, err = nil, ErrHandleClosed
	default:
		h.client = client
		observability.RecordStoreConnect(ctx, config.StoreDriverMongo, "success", time.Since(start))
		h.logger.Info("mongo connected", "database", h.database)
	}
	h.mu.Unlock()

	a.client, a.err = client, err
	close(a.done)
}

func (h *MongoHandle) Database(ctx context.Context) (*mongo.Database, error) {
	c, err := h.Client(ctx)
	if err != nil {
		return nil, err
	}
	return c.Database(h.database), nil
}

// Ping reports store readiness. It dials when no connection exists yet.
func (h *MongoHandle) Ping(ctx context.Context) error {
	c, err := h.Client(ctx)
	if err != nil {
		return err
	}
	return c.Ping(ctx, readpref.Primary())
}

func (h *MongoHandle) Close(ctx context.Context) error {
	h.mu.Lock()
	h.closed = true
	c := h.client
	h.client = nil
	h.mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Disconnect(ctx)
}
