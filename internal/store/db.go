package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite"
)

type DB struct {
	Pool *sql.DB

	lock *flock.Flock
}

// Open opens (or creates) the sqlite database at path. A sidecar flock keeps
// a second engine process off the same file; sqlite's own busy_timeout only
// covers statement-level contention.
func Open(path string) (*DB, error) {
	lock := flock.New(path + ".lock")
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire db lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("database %s is in use by another process", path)
	}

	// modernc sqlite uses DSN like: file:foo.db?_pragma=busy_timeout(5000)
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)", path)

	pool, err := sql.Open("sqlite", dsn)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	pool.SetMaxOpenConns(1) // sqlite typically wants 1 writer
	pool.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := pool.PingContext(ctx); err != nil {
		_ = pool.Close()
		_ = lock.Unlock()
		return nil, err
	}

	return &DB{Pool: pool, lock: lock}, nil
}

func (d *DB) Close() error {
	if d == nil || d.Pool == nil {
		return nil
	}
	err := d.Pool.Close()
	if d.lock != nil {
		_ = d.lock.Unlock()
	}
	return err
}

const timeLayout = time.RFC3339

// Timestamps are stored as RFC3339 UTC text so string comparison in SQL
// matches chronological order.
func fmtTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func fmtTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return fmtTime(*t)
}

func parseTimePtr(s sql.NullString) *time.Time {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return nil
	}
	t = t.UTC()
	return &t
}
