package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const localSchema = `
CREATE TABLE IF NOT EXISTS entries (
	url        TEXT PRIMARY KEY,
	path       TEXT NOT NULL,
	size       INTEGER NOT NULL,
	fetched_at TIMESTAMP NOT NULL
);`

// LocalCache keeps content as files under a directory with a sqlite index,
// the default for a standalone device with no Redis nearby.
type LocalCache struct {
	dir string
	db  *sqlx.DB
}

type localEntry struct {
	URL       string    `db:"url"`
	Path      string    `db:"path"`
	Size      int64     `db:"size"`
	FetchedAt time.Time `db:"fetched_at"`
}

func NewLocalCache(dir string) (*LocalCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	db, err := sqlx.Connect("sqlite3", filepath.Join(dir, "index.db"))
	if err != nil {
		return nil, fmt.Errorf("open cache index: %w", err)
	}
	if _, err := db.Exec(localSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init cache index: %w", err)
	}
	return &LocalCache{dir: dir, db: db}, nil
}

func (c *LocalCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var entry localEntry
	err := c.db.GetContext(ctx, &entry, `SELECT url, path, size, fetched_at FROM entries WHERE url = ?`, key)
	if err != nil {
		// sql.ErrNoRows and a vanished index row are both just a miss
		return nil, false, nil
	}
	data, err := os.ReadFile(entry.Path)
	if err != nil {
		// file swept out from under the index; drop the row
		c.db.ExecContext(ctx, `DELETE FROM entries WHERE url = ?`, key)
		return nil, false, nil
	}
	return data, true, nil
}

func (c *LocalCache) Put(ctx context.Context, key string, data []byte) error {
	path := filepath.Join(c.dir, contentName(key))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO entries (url, path, size, fetched_at) VALUES (?, ?, ?, ?)`,
		key, path, int64(len(data)), time.Now())
	if err != nil {
		return fmt.Errorf("index cache file: %w", err)
	}
	return nil
}

// Purge removes every cached file and index row.
func (c *LocalCache) Purge(ctx context.Context) error {
	var entries []localEntry
	if err := c.db.SelectContext(ctx, &entries, `SELECT url, path, size, fetched_at FROM entries`); err != nil {
		return fmt.Errorf("list cache entries: %w", err)
	}
	for _, e := range entries {
		if err := os.Remove(e.Path); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("remove %s: %w", e.Path, err)
		}
	}
	if _, err := c.db.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return fmt.Errorf("clear cache index: %w", err)
	}
	return nil
}

func (c *LocalCache) Close() error { return c.db.Close() }

// contentName derives a stable filename from the source URL, keeping the
// extension so the renderer-side webview can sniff the type.
func contentName(url string) string {
	sum := sha1.Sum([]byte(url))
	return hex.EncodeToString(sum[:]) + filepath.Ext(url)
}
