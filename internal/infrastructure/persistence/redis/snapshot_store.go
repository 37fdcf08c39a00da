// Package redis stores the student snapshot as a single Redis string value.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/alem-hub/grade-tracker/internal/domain/shared"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
	"github.com/alem-hub/grade-tracker/internal/infrastructure/persistence/snapshot"
	"github.com/alem-hub/grade-tracker/pkg/logger"
	"github.com/alem-hub/grade-tracker/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// DefaultKey is the key the snapshot is stored under.
const DefaultKey = "grades:snapshot"

// Config holds Redis snapshot store settings.
type Config struct {
	// URL is a redis:// or rediss:// connection URL.
	URL string

	// Key holds the snapshot document.
	Key string

	// DialTimeout bounds each connection attempt.
	DialTimeout time.Duration

	// MaxAttempts is how many times the initial ping is tried.
	MaxAttempts int
}

// DefaultConfig returns a configuration for a local Redis.
func DefaultConfig() Config {
	return Config{
		URL:         "redis://localhost:6379/0",
		Key:         DefaultKey,
		DialTimeout: 5 * time.Second,
		MaxAttempts: 3,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT STORE
// ══════════════════════════════════════════════════════════════════════════════

// SnapshotStore implements student.SnapshotStore on one Redis key.
// The value never expires.
type SnapshotStore struct {
	client *redis.Client
	key    string
	log    *logger.Logger
}

var _ student.SnapshotStore = (*SnapshotStore)(nil)

// NewSnapshotStore connects to Redis and verifies the connection with retries.
func NewSnapshotStore(ctx context.Context, cfg Config, log *logger.Logger) (*SnapshotStore, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, shared.ErrBackendConnect.Wrap("parse redis url", err)
	}
	if cfg.DialTimeout > 0 {
		opts.DialTimeout = cfg.DialTimeout
	}

	client := redis.NewClient(opts)
	store := NewSnapshotStoreWithClient(client, cfg.Key, log)

	err = retry.ConnectRetrier(cfg.MaxAttempts, func(attempt int, err error, delay time.Duration) {
		store.log.Warn("redis ping failed, retrying",
			logger.Int("attempt", attempt), logger.Err(err), logger.Duration("delay", delay))
	}).Do(ctx, store.Ping)
	if err != nil {
		_ = client.Close()
		return nil, shared.ErrBackendConnect.Wrap("connect to redis", err)
	}

	return store, nil
}

// NewSnapshotStoreWithClient creates a store from an existing client.
func NewSnapshotStoreWithClient(client *redis.Client, key string, log *logger.Logger) *SnapshotStore {
	if key == "" {
		key = DefaultKey
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SnapshotStore{
		client: client,
		key:    key,
		log:    log.With(logger.Component("redis_store"), logger.Location(key)),
	}
}

// Location returns the key with the server address.
func (s *SnapshotStore) Location() string {
	return fmt.Sprintf("redis://%s/%s", s.client.Options().Addr, s.key)
}

// Load reads the snapshot key. A missing key yields an empty snapshot.
func (s *SnapshotStore) Load(ctx context.Context) (*student.Snapshot, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			s.log.Info("snapshot not found, starting with an empty collection")
			return &student.Snapshot{Students: []*student.Student{}, Missing: true}, nil
		}
		return nil, shared.ErrSnapshotRead.Wrap("get "+s.key, err)
	}

	students, err := snapshot.Decode(data)
	if err != nil {
		s.log.Error("snapshot is corrupt", logger.Err(err))
		return nil, err
	}

	s.log.Debug("snapshot loaded", logger.Count(len(students)))
	return &student.Snapshot{Students: students}, nil
}

// Save overwrites the snapshot key. SET replaces the value in one step.
func (s *SnapshotStore) Save(ctx context.Context, students []*student.Student) error {
	data, err := snapshot.Encode(students)
	if err != nil {
		return err
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		s.log.Error("snapshot save failed", logger.Err(err))
		return shared.ErrSnapshotWrite.Wrap("set "+s.key, err)
	}

	s.log.Info("snapshot saved", logger.Count(len(students)))
	return nil
}

// Ping checks if Redis is reachable.
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *SnapshotStore) Close() error {
	return s.client.Close()
}
