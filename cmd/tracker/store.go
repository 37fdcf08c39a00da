package main

import (
	"context"
	"fmt"

	"github.com/alem-hub/grade-tracker/config"
	"github.com/alem-hub/grade-tracker/internal/domain/student"
	"github.com/alem-hub/grade-tracker/internal/infrastructure/persistence/postgres"
	"github.com/alem-hub/grade-tracker/internal/infrastructure/persistence/redis"
	"github.com/alem-hub/grade-tracker/internal/infrastructure/persistence/snapshot"
	"github.com/alem-hub/grade-tracker/pkg/logger"
)

// openStore builds the configured snapshot store. The returned func releases
// its connections and is never nil.
func openStore(ctx context.Context, cfg *config.Config, log *logger.Logger) (student.SnapshotStore, func(), error) {
	log = log.With(logger.Backend(string(cfg.Storage.Backend)))

	switch cfg.Storage.Backend {
	case config.BackendFile:
		return snapshot.NewFileStore(cfg.Storage.File, log), func() {}, nil

	case config.BackendRedis:
		store, err := redis.NewSnapshotStore(ctx, redis.Config{
			URL:         cfg.Redis.URL,
			Key:         cfg.Redis.SnapshotKey,
			DialTimeout: cfg.Redis.DialTimeout,
			MaxAttempts: cfg.Storage.ConnectMaxAttempts,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {
			if err := store.Close(); err != nil {
				log.Warn("failed to close redis client", logger.Err(err))
			}
		}, nil

	case config.BackendPostgres:
		conn, err := postgres.NewConnection(ctx, postgres.Config{
			URL:            cfg.Database.URL,
			MaxConns:       int32(cfg.Database.MaxConns),
			ConnectTimeout: cfg.Storage.Timeout,
			MaxAttempts:    cfg.Storage.ConnectMaxAttempts,
		}, log)
		if err != nil {
			return nil, nil, err
		}
		if err := postgres.EnsureSchema(ctx, conn, cfg.Database.SnapshotTable); err != nil {
			conn.Close()
			return nil, nil, err
		}
		store := postgres.NewSnapshotStore(conn, cfg.Database.SnapshotTable, cfg.Database.SnapshotName, log)
		return store, conn.Close, nil
	}

	return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
}
