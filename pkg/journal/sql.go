package journal

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/stevehodgkiss/interaction/pkg/events"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Dialect selects placeholder style and DDL.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// ParseDialect maps a configured driver name to a Dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(driver) {
	case "", "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "postgresql", "pq":
		return Postgres, nil
	default:
		return "", fmt.Errorf("journal: unsupported driver %q", driver)
	}
}

// SQLStore is a Store backed by database/sql.
type SQLStore struct {
	db      *sql.DB
	dialect Dialect
}

// Open connects to dsn with the driver for d and migrates the schema.
func Open(ctx context.Context, d Dialect, dsn string) (*SQLStore, error) {
	db, err := sql.Open(string(d), dsn)
	if err != nil {
		return nil, fmt.Errorf("journal: open %s: %w", d, err)
	}
	if d == SQLite {
		// A shared in-memory database disappears with its last connection.
		db.SetMaxOpenConns(1)
	}
	s, err := NewSQLStore(ctx, db, d)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// NewSQLStore wraps an open database and migrates the schema.
func NewSQLStore(ctx context.Context, db *sql.DB, d Dialect) (*SQLStore, error) {
	s := &SQLStore{db: db, dialect: d}
	if err := s.migrate(ctx); err != nil {
		return nil, fmt.Errorf("journal: migrate: %w", err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *SQLStore) Close() error {
	return s.db.Close()
}

func (s *SQLStore) migrate(ctx context.Context) error {
	seq := "seq INTEGER PRIMARY KEY AUTOINCREMENT"
	if s.dialect == Postgres {
		seq = "seq BIGSERIAL PRIMARY KEY"
	}
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS outcome_events (
		` + seq + `,
		event_id TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		command_key TEXT NOT NULL,
		kind TEXT NOT NULL,
		command_id TEXT NOT NULL,
		payload TEXT NOT NULL,
		digest TEXT NOT NULL,
		occurred_at TEXT NOT NULL
	)`,
		`CREATE INDEX IF NOT EXISTS outcome_events_command_id ON outcome_events (command_id)`,
		`CREATE INDEX IF NOT EXISTS outcome_events_command_key ON outcome_events (command_key)`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// bind rewrites ? placeholders for the store's dialect.
func (s *SQLStore) bind(query string) string {
	if s.dialect != Postgres {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

const selectColumns = `SELECT seq, event_id, name, command_key, kind, command_id, payload, digest, occurred_at FROM outcome_events`

func (s *SQLStore) Append(ctx context.Context, e Entry) error {
	if err := e.validate(); err != nil {
		return err
	}
	payload := string(e.Payload)
	if payload == "" {
		payload = "null"
	}
	_, err := s.db.ExecContext(ctx, s.bind(`INSERT INTO outcome_events
		(event_id, name, command_key, kind, command_id, payload, digest, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`),
		e.EventID, e.Name, e.Key, string(e.Kind), e.CommandID, payload, e.Digest,
		e.OccurredAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("journal: insert %s: %w", e.EventID, err)
	}
	return nil
}

func (s *SQLStore) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		return s.query(ctx, selectColumns+` ORDER BY seq DESC`)
	}
	return s.query(ctx, selectColumns+` ORDER BY seq DESC LIMIT ?`, limit)
}

func (s *SQLStore) ByCommand(ctx context.Context, commandID string) ([]Entry, error) {
	return s.query(ctx, selectColumns+` WHERE command_id = ? ORDER BY seq`, commandID)
}

func (s *SQLStore) ByKey(ctx context.Context, key string, limit int) ([]Entry, error) {
	if limit <= 0 {
		return s.query(ctx, selectColumns+` WHERE command_key = ? ORDER BY seq`, key)
	}
	return s.query(ctx, selectColumns+` WHERE command_key = ? ORDER BY seq LIMIT ?`, key, limit)
}

func (s *SQLStore) query(ctx context.Context, query string, args ...any) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx, s.bind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("journal: query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []Entry
	for rows.Next() {
		var (
			e          Entry
			kind       string
			payload    string
			occurredAt string
		)
		if err := rows.Scan(&e.Seq, &e.EventID, &e.Name, &e.Key, &kind, &e.CommandID, &payload, &e.Digest, &occurredAt); err != nil {
			return nil, fmt.Errorf("journal: scan: %w", err)
		}
		e.Kind = events.Kind(kind)
		e.Payload = []byte(payload)
		e.OccurredAt, err = time.Parse(time.RFC3339Nano, occurredAt)
		if err != nil {
			return nil, fmt.Errorf("journal: entry %s: %w", e.EventID, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("journal: rows: %w", err)
	}
	return out, nil
}
