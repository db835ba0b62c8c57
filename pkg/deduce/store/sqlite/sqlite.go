package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/cognicore/deduce/pkg/deduce/internalerr"
	"github.com/cognicore/deduce/pkg/deduce/store"
)

// timeLayout is fixed width so stored timestamps compare as strings.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// OpenSQLite opens a SQLite database with WAL mode enabled and creates the
// schema when missing. Failures wrap ErrStoreUnavailable.
func OpenSQLite(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("open %s: %v: %w", path, err, internalerr.ErrStoreUnavailable)
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %v: %w", err, internalerr.ErrStoreUnavailable)
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS list_items (
	list TEXT NOT NULL,
	item TEXT NOT NULL,
	PRIMARY KEY(list, item)
);

CREATE TABLE IF NOT EXISTS runs (
	doc_id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	skipped TEXT
);

CREATE TABLE IF NOT EXISTS run_tags (
	doc_id TEXT NOT NULL,
	tag TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(doc_id, tag),
	FOREIGN KEY(doc_id) REFERENCES runs(doc_id) ON DELETE CASCADE
);
`
	_, err := db.ExecContext(ctx, schema)
	return err
}

// AddListItems inserts items in a single transaction and returns how many
// were new.
func (s *sqliteStore) AddListItems(ctx context.Context, list string, items []string) (int, error) {
	if list == "" {
		return 0, fmt.Errorf("empty list name: %w", internalerr.ErrInvalidInput)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	added, err := insertItems(ctx, tx, list, items)
	if err != nil {
		return 0, err
	}
	return added, tx.Commit()
}

func insertItems(ctx context.Context, tx *sql.Tx, list string, items []string) (int, error) {
	if len(items) == 0 {
		return 0, nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO list_items (list, item) VALUES (?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	added := 0
	for _, it := range items {
		if it == "" {
			continue
		}
		res, err := stmt.ExecContext(ctx, list, it)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		added += int(n)
	}
	return added, nil
}

// RemoveListItems deletes items and returns how many were present.
func (s *sqliteStore) RemoveListItems(ctx context.Context, list string, items []string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `DELETE FROM list_items WHERE list=? AND item=?`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	removed := 0
	for _, it := range items {
		res, err := stmt.ExecContext(ctx, list, it)
		if err != nil {
			return 0, err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return 0, err
		}
		removed += int(n)
	}
	return removed, tx.Commit()
}

// ReplaceList replaces the list contents in a single transaction.
func (s *sqliteStore) ReplaceList(ctx context.Context, list string, items []string) error {
	if list == "" {
		return fmt.Errorf("empty list name: %w", internalerr.ErrInvalidInput)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM list_items WHERE list=?`, list); err != nil {
		return err
	}
	if _, err := insertItems(ctx, tx, list, items); err != nil {
		return err
	}
	return tx.Commit()
}

// ListItems implements store.Store.
func (s *sqliteStore) ListItems(ctx context.Context, list string) ([]string, error) {
	items, err := s.loadStringColumn(ctx, `SELECT item FROM list_items WHERE list=? ORDER BY item`, list)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("list %q: %w", list, internalerr.ErrNotFound)
	}
	return items, nil
}

// Lists implements store.Store.
func (s *sqliteStore) Lists(ctx context.Context) ([]store.ListInfo, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT list, COUNT(*) FROM list_items GROUP BY list ORDER BY list`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []store.ListInfo
	for rows.Next() {
		var info store.ListInfo
		if err := rows.Scan(&info.Name, &info.Items); err != nil {
			return nil, err
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

// RecordRun stores r and its tag counts, replacing an earlier run with the
// same DocID.
func (s *sqliteStore) RecordRun(ctx context.Context, r store.Run) error {
	if r.DocID == "" {
		return fmt.Errorf("run without doc id: %w", internalerr.ErrInvalidInput)
	}
	skipped, err := json.Marshal(r.Skipped)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
INSERT INTO runs (doc_id, created_at, skipped) VALUES (?, ?, ?)
ON CONFLICT(doc_id) DO UPDATE SET created_at=excluded.created_at, skipped=excluded.skipped;
`, r.DocID, r.CreatedAt.UTC().Format(timeLayout), string(skipped))
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM run_tags WHERE doc_id=?`, r.DocID); err != nil {
		return err
	}
	if len(r.TagCounts) > 0 {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO run_tags (doc_id, tag, count) VALUES (?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for tag, n := range r.TagCounts {
			if _, err := stmt.ExecContext(ctx, r.DocID, tag, n); err != nil {
				return err
			}
		}
	}
	return tx.Commit()
}

// GetRun implements store.Store.
func (s *sqliteStore) GetRun(ctx context.Context, docID string) (store.Run, error) {
	var createdAt, skipped string
	err := s.db.QueryRowContext(ctx, `SELECT created_at, COALESCE(skipped, '') FROM runs WHERE doc_id=?`, docID).
		Scan(&createdAt, &skipped)
	if errors.Is(err, sql.ErrNoRows) {
		return store.Run{}, fmt.Errorf("run %s: %w", docID, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}

	r := store.Run{DocID: docID, TagCounts: make(map[string]int)}
	if r.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return store.Run{}, fmt.Errorf("run %s: created_at: %w", docID, err)
	}
	if skipped != "" {
		if err := json.Unmarshal([]byte(skipped), &r.Skipped); err != nil {
			return store.Run{}, fmt.Errorf("run %s: skipped: %w", docID, err)
		}
	}

	rows, err := s.db.QueryContext(ctx, `SELECT tag, count FROM run_tags WHERE doc_id=?`, docID)
	if err != nil {
		return store.Run{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var tag string
		var n int
		if err := rows.Scan(&tag, &n); err != nil {
			return store.Run{}, err
		}
		r.TagCounts[tag] = n
	}
	return r, rows.Err()
}

// RecentRuns returns up to limit runs, newest first. Doc ids are ULIDs,
// so ordering by id orders by creation time.
func (s *sqliteStore) RecentRuns(ctx context.Context, limit int) ([]store.Run, error) {
	if limit <= 0 {
		limit = -1
	}
	ids, err := s.loadStringColumn(ctx, `SELECT doc_id FROM runs ORDER BY doc_id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	out := make([]store.Run, 0, len(ids))
	for _, id := range ids {
		r, err := s.GetRun(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, nil
}

// PruneRuns deletes runs created before cutoff together with their tag
// counts.
func (s *sqliteStore) PruneRuns(ctx context.Context, cutoff time.Time) (int, error) {
	ts := cutoff.UTC().Format(timeLayout)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM run_tags WHERE doc_id IN (SELECT doc_id FROM runs WHERE created_at < ?)`, ts); err != nil {
		return 0, err
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, ts)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), tx.Commit()
}

func (s *sqliteStore) loadStringColumn(ctx context.Context, query string, args ...interface{}) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
