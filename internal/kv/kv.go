// Package kv provides the string key-value stores that event lists and
// preferences are persisted to.
package kv

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Store is a string-keyed persistent store. Get reports ok=false for keys
// that were never written.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Options selects and configures a backend.
type Options struct {
	Backend       string
	Path          string // file and sqlite backends
	DatabaseURL   string // postgres backend
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Open returns the Store selected by opts.Backend.
func Open(ctx context.Context, logger *slog.Logger, opts Options) (Store, error) {
	switch strings.ToLower(strings.TrimSpace(opts.Backend)) {
	case BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile, "":
		return OpenFileStore(logger, opts.Path)
	case BackendSQLite:
		return OpenSQLiteStore(ctx, opts.Path)
	case BackendPostgres:
		return OpenPostgresStore(ctx, opts.DatabaseURL)
	case BackendRedis:
		return OpenRedisStore(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
