// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package cache keeps fetched repository content in a SQLite database so
// repeated scans of the same ref do not refetch every file. Host wraps any
// codehost.Host; only tree listings and file contents are cached.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/analytics-scout/internal/codehost"
	"github.com/pdiddy/analytics-scout/pkg/types"
)

const (
	kindContent = "content"
	kindTree    = "tree"
)

// Store manages the cache database.
type Store struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

// Open opens or creates the cache database at cfg.Path. It creates the
// schema if it does not exist.
func Open(cfg types.CacheConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("cache path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = types.DefaultConfig().Cache.TTL
	}
	s := &Store{db: db, ttl: ttl, now: time.Now}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS entries (
		kind TEXT NOT NULL,
		key TEXT NOT NULL,
		value BLOB NOT NULL,
		fetched_at INTEGER NOT NULL,
		PRIMARY KEY (kind, key)
	)`)
	return err
}

// get returns the value stored under (kind, key) when it is younger than
// the TTL.
func (s *Store) get(ctx context.Context, kind, key string) ([]byte, bool, error) {
	var value []byte
	var fetchedAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT value, fetched_at FROM entries WHERE kind = ? AND key = ?`, kind, key,
	).Scan(&value, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	if s.now().Sub(time.Unix(0, fetchedAt)) > s.ttl {
		return nil, false, nil
	}
	return value, true, nil
}

func (s *Store) put(ctx context.Context, kind, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO entries (kind, key, value, fetched_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(kind, key) DO UPDATE SET value = excluded.value, fetched_at = excluded.fetched_at`,
		kind, key, value, s.now().UnixNano())
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	return nil
}

// Prune deletes entries older than the TTL and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-s.ttl).UnixNano()
	res, err := s.db.ExecContext(ctx, `DELETE FROM entries WHERE fetched_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning cache: %w", err)
	}
	return res.RowsAffected()
}

// Host serves tree listings and file contents from the store before
// asking the wrapped host. Cache failures are logged and bypassed.
type Host struct {
	codehost.Host
	store  *Store
	logger *slog.Logger
}

var _ codehost.Host = (*Host)(nil)

// Wrap returns a Host caching next through store. A nil logger uses
// slog.Default().
func Wrap(next codehost.Host, store *Store, logger *slog.Logger) *Host {
	if logger == nil {
		logger = slog.Default()
	}
	return &Host{Host: next, store: store, logger: logger}
}

// Tree returns the cached tree listing or fetches and stores it.
func (h *Host) Tree(ctx context.Context, owner, repo, ref string) ([]string, error) {
	key := owner + "/" + repo + "@" + ref
	if raw, ok := h.lookup(ctx, kindTree, key); ok {
		var paths []string
		if err := json.Unmarshal(raw, &paths); err == nil {
			return paths, nil
		}
	}
	paths, err := h.Host.Tree(ctx, owner, repo, ref)
	if err != nil {
		return nil, err
	}
	if raw, err := json.Marshal(paths); err == nil {
		h.store.putLogged(ctx, h.logger, kindTree, key, raw)
	}
	return paths, nil
}

// Content returns the cached file or fetches and stores it.
func (h *Host) Content(ctx context.Context, owner, repo, path, ref string) ([]byte, error) {
	key := owner + "/" + repo + "@" + ref + ":" + path
	if raw, ok := h.lookup(ctx, kindContent, key); ok {
		return raw, nil
	}
	content, err := h.Host.Content(ctx, owner, repo, path, ref)
	if err != nil {
		return nil, err
	}
	h.store.putLogged(ctx, h.logger, kindContent, key, content)
	return content, nil
}

func (h *Host) lookup(ctx context.Context, kind, key string) ([]byte, bool) {
	raw, ok, err := h.store.get(ctx, kind, key)
	if err != nil {
		h.logger.WarnContext(ctx, "cache read failed", "kind", kind, "key", key, "error", err)
		return nil, false
	}
	if ok {
		h.logger.DebugContext(ctx, "cache hit", "kind", kind, "key", key)
	}
	return raw, ok
}

func (s *Store) putLogged(ctx context.Context, logger *slog.Logger, kind, key string, value []byte) {
	if err := s.put(ctx, kind, key, value); err != nil {
		logger.WarnContext(ctx, "cache write failed", "kind", kind, "key", key, "error", err)
	}
}
