package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/glabrego/alienfeed/internal/news"
)

// ErrNotFound is returned by UpdateFlags when the url is not stored.
var ErrNotFound = errors.New("item not found")

// Repository is the item store. A single pooled connection keeps writers
// serialized; WAL plus synchronous=FULL keeps committed rows across crashes.
type Repository struct {
	db *sqlx.DB
}

func NewRepository(path string) (*Repository, error) {
	db, err := sqlx.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	return &Repository{db: db}, nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "journal_mode(WAL)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "synchronous(FULL)")
	q.Add("_pragma", "foreign_keys(1)")
	return path + "?" + q.Encode()
}

func (r *Repository) Close() error {
	if r == nil || r.db == nil {
		return nil
	}
	return r.db.Close()
}

func (r *Repository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// CheckWritable performs a committed write so an unwritable database fails at startup.
func (r *Repository) CheckWritable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
INSERT INTO meta (key, value) VALUES ('last_open', ?)
ON CONFLICT(key) DO UPDATE SET value=excluded.value
`, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("write check: %w", err)
	}
	return nil
}

// InsertIfAbsent stores item as new, unread and unbookmarked. It reports false
// when the url is already stored or has been tombstoned; the first insert wins.
func (r *Repository) InsertIfAbsent(ctx context.Context, item news.Item) (bool, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var tombstoned bool
	if err := tx.GetContext(ctx, &tombstoned, `SELECT EXISTS(SELECT 1 FROM tombstones WHERE url = ?)`, item.URL); err != nil {
		return false, fmt.Errorf("check tombstone: %w", err)
	}
	if tombstoned {
		return false, nil
	}

	res, err := tx.ExecContext(ctx, `
INSERT OR IGNORE INTO items (`+itemColumns+`)
VALUES (?, ?, ?, ?, ?, ?, 0, 0, 1, ?, ?)
`, item.URL, item.Title, item.Category, item.Domain, item.DetailLink, item.CreatedAt, item.Score, item.ReplyCount)
	if err != nil {
		return false, fmt.Errorf("insert item %s: %w", item.URL, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert item %s: %w", item.URL, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit tx: %w", err)
	}
	return n > 0, nil
}

// Scan returns every stored item whose domain is not excluded, newest first.
func (r *Repository) Scan(ctx context.Context, excludedDomains []string) ([]news.Item, error) {
	excluded := make([]string, 0, len(excludedDomains))
	for _, d := range excludedDomains {
		if d = strings.ToLower(strings.TrimSpace(d)); d != "" {
			excluded = append(excluded, d)
		}
	}

	query := `SELECT ` + itemColumns + ` FROM items ORDER BY created_at DESC, url ASC`
	var args []any
	if len(excluded) > 0 {
		var err error
		query, args, err = sqlx.In(`SELECT `+itemColumns+` FROM items WHERE domain NOT IN (?) ORDER BY created_at DESC, url ASC`, excluded)
		if err != nil {
			return nil, fmt.Errorf("build scan query: %w", err)
		}
		query = r.db.Rebind(query)
	}

	items := []news.Item{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}
	return items, nil
}

// Bookmarks returns bookmarked items, newest first.
func (r *Repository) Bookmarks(ctx context.Context) ([]news.Item, error) {
	items := []news.Item{}
	err := r.db.SelectContext(ctx, &items, `SELECT `+itemColumns+` FROM items WHERE is_bookmarked = 1 ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query bookmarks: %w", err)
	}
	return items, nil
}

// UpdateFlags applies a partial flag update. is_new can only be cleared here.
func (r *Repository) UpdateFlags(ctx context.Context, itemURL string, update news.FlagUpdate) error {
	if update.Empty() {
		return nil
	}

	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)
	if update.IsRead != nil {
		sets = append(sets, "is_read = ?")
		args = append(args, *update.IsRead)
	}
	if update.IsBookmarked != nil {
		sets = append(sets, "is_bookmarked = ?")
		args = append(args, *update.IsBookmarked)
	}
	if update.IsNew != nil {
		sets = append(sets, "is_new = MIN(is_new, ?)")
		args = append(args, *update.IsNew)
	}
	args = append(args, itemURL)

	res, err := r.db.ExecContext(ctx, `UPDATE items SET `+strings.Join(sets, ", ")+` WHERE url = ?`, args...)
	if err != nil {
		return fmt.Errorf("update item %s: %w", itemURL, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item %s: %w", itemURL, err)
	}
	if n == 0 {
		return fmt.Errorf("update item %s: %w", itemURL, ErrNotFound)
	}
	return nil
}

// DeleteAndTombstone removes the item and records its url in one transaction.
func (r *Repository) DeleteAndTombstone(ctx context.Context, itemURL string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM items WHERE url = ?`, itemURL); err != nil {
		return fmt.Errorf("delete item %s: %w", itemURL, err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO tombstones (url, deleted_at) VALUES (?, ?)`,
		itemURL, time.Now().UTC().Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("tombstone item %s: %w", itemURL, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (r *Repository) Tombstones(ctx context.Context) (map[string]struct{}, error) {
	var urls []string
	if err := r.db.SelectContext(ctx, &urls, `SELECT url FROM tombstones`); err != nil {
		return nil, fmt.Errorf("query tombstones: %w", err)
	}
	out := make(map[string]struct{}, len(urls))
	for _, u := range urls {
		out[u] = struct{}{}
	}
	return out, nil
}

// Backup writes a consistent copy of the database to dest, which must not exist.
func (r *Repository) Backup(ctx context.Context, dest string) error {
	if _, err := r.db.ExecContext(ctx, `VACUUM INTO ?`, dest); err != nil {
		return fmt.Errorf("backup database to %s: %w", dest, err)
	}
	return nil
}

// Count is used by the headless commands to report what a database holds.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM items`); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}
