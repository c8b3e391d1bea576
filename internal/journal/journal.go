// Package journal persists completed actions and per-resource view
// preferences in SQLite.
package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/abelbrown/moderator/internal/model"
)

// Entry is one completed action.
type Entry struct {
	ID       string
	At       time.Time
	Resource string
	Kind     string
	IDs      []string
	Status   string
	OK       bool
	Message  string
}

// Filter narrows Recent. Zero fields match everything.
type Filter struct {
	Resource   string
	FailedOnly bool
	Since      time.Time
	Limit      int
}

// Prefs is the remembered view shape of one resource.
type Prefs struct {
	Resource  string
	PageSize  int
	SortField string
	SortOrder model.SortOrder
}

// Journal handles SQLite persistence. Concrete type, not an interface.
// Thread-safety: all methods are safe for concurrent use.
type Journal struct {
	db *sql.DB
	mu sync.RWMutex
	sb sq.StatementBuilderType
}

// Open creates a journal at dbPath, creating tables as needed.
// ":memory:" gives a private in-memory database.
func Open(dbPath string) (*Journal, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// One connection keeps every caller on the same in-memory database.
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	j := &Journal{db: db, sb: sq.StatementBuilder.PlaceholderFormat(sq.Question)}
	if err := j.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return j, nil
}

func (j *Journal) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS actions (
		id TEXT PRIMARY KEY,
		at DATETIME NOT NULL,
		resource TEXT NOT NULL,
		kind TEXT NOT NULL,
		ids TEXT NOT NULL,
		status TEXT,
		ok INTEGER NOT NULL,
		message TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_actions_at ON actions(at DESC);
	CREATE INDEX IF NOT EXISTS idx_actions_resource ON actions(resource);

	CREATE TABLE IF NOT EXISTS prefs (
		resource TEXT PRIMARY KEY,
		page_size INTEGER NOT NULL,
		sort_field TEXT,
		sort_order TEXT
	);
	`
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database. It waits for in-flight operations.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.db.Close()
}

// Record appends e, assigning an id and timestamp when missing.
func (j *Journal) Record(ctx context.Context, e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.At.IsZero() {
		e.At = time.Now()
	}
	e.At = e.At.UTC()

	query, args, err := j.sb.Insert("actions").
		Columns("id", "at", "resource", "kind", "ids", "status", "ok", "message").
		Values(e.ID, e.At, e.Resource, e.Kind, strings.Join(e.IDs, ","), e.Status, boolToInt(e.OK), e.Message).
		ToSql()
	if err != nil {
		return e, fmt.Errorf("build insert: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.db.ExecContext(ctx, query, args...); err != nil {
		return e, fmt.Errorf("insert action: %w", err)
	}
	return e, nil
}

// Recent returns matching entries, newest first.
func (j *Journal) Recent(ctx context.Context, f Filter) ([]Entry, error) {
	b := j.sb.Select("id", "at", "resource", "kind", "ids", "status", "ok", "message").
		From("actions").
		OrderBy("at DESC", "rowid DESC")
	if f.Resource != "" {
		b = b.Where(sq.Eq{"resource": f.Resource})
	}
	if f.FailedOnly {
		b = b.Where(sq.Eq{"ok": 0})
	}
	if !f.Since.IsZero() {
		b = b.Where(sq.GtOrEq{"at": f.Since.UTC()})
	}
	if f.Limit > 0 {
		b = b.Limit(uint64(f.Limit))
	}

	query, args, err := b.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	rows, err := j.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var ids string
		var status, message sql.NullString
		var ok int
		if err := rows.Scan(&e.ID, &e.At, &e.Resource, &e.Kind, &ids, &status, &ok, &message); err != nil {
			return nil, err
		}
		if ids != "" {
			e.IDs = strings.Split(ids, ",")
		}
		e.Status = status.String
		e.Message = message.String
		e.OK = ok != 0
		out = append(out, e)
	}
	return out, rows.Err()
}

// SavePrefs upserts the view preferences of p.Resource.
func (j *Journal) SavePrefs(ctx context.Context, p Prefs) error {
	query, args, err := j.sb.Insert("prefs").
		Columns("resource", "page_size", "sort_field", "sort_order").
		Values(p.Resource, p.PageSize, p.SortField, string(p.SortOrder)).
		Suffix("ON CONFLICT(resource) DO UPDATE SET page_size = excluded.page_size, sort_field = excluded.sort_field, sort_order = excluded.sort_order").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if _, err := j.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save prefs: %w", err)
	}
	return nil
}

// LoadPrefs returns the saved preferences for resource. ok is false when
// nothing was saved.
func (j *Journal) LoadPrefs(ctx context.Context, resource string) (p Prefs, ok bool, err error) {
	query, args, err := j.sb.Select("resource", "page_size", "sort_field", "sort_order").
		From("prefs").
		Where(sq.Eq{"resource": resource}).
		ToSql()
	if err != nil {
		return p, false, fmt.Errorf("build select: %w", err)
	}

	j.mu.RLock()
	defer j.mu.RUnlock()

	var field, order sql.NullString
	err = j.db.QueryRowContext(ctx, query, args...).Scan(&p.Resource, &p.PageSize, &field, &order)
	if errors.Is(err, sql.ErrNoRows) {
		return Prefs{}, false, nil
	}
	if err != nil {
		return Prefs{}, false, fmt.Errorf("load prefs: %w", err)
	}
	p.SortField = field.String
	p.SortOrder = model.SortOrder(order.String)
	return p, true, nil
}

// boolToInt converts a bool to an int for SQLite storage.
func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
