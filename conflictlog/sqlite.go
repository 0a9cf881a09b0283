package conflictlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/signadot/xmerge/conflict"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"
)

// SQLite stores conflicts in a table keyed by conflict ID.
type SQLite struct {
	db     *sql.DB
	mu     sync.RWMutex
	closed bool
	logger *slog.Logger
}

var _ Log = (*SQLite)(nil)

// OpenSQLite opens or creates the database at dsn. dsn is a go-sqlite3 data
// source name such as "file:conflicts.db" or ":memory:".
func OpenSQLite(dsn string, logger *slog.Logger) (*SQLite, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if dsn == "" {
		return nil, fmt.Errorf("conflict log: empty data source name")
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite conflict log: %w", err)
	}
	// A :memory: database is per connection.
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite conflict log: %w", err)
	}
	s := &SQLite{db: db, logger: logger}
	if err := s.setupSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setup conflict log schema: %w", err)
	}
	logger.Debug("opened conflict log", "dsn", dsn)
	return s, nil
}

func (s *SQLite) setupSchema() error {
	query := `
    CREATE TABLE IF NOT EXISTS conflicts (
        seq         INTEGER PRIMARY KEY AUTOINCREMENT,
        guid        TEXT NOT NULL UNIQUE,
        type_guid   TEXT NOT NULL,
        path        TEXT NOT NULL,
        context     TEXT NOT NULL,
        winner      TEXT NOT NULL,
        checked_in  TEXT NOT NULL,
        xml         TEXT NOT NULL,
        created_at  TIMESTAMP DEFAULT CURRENT_TIMESTAMP
    );
    CREATE INDEX IF NOT EXISTS idx_conflicts_path ON conflicts (path);
    `
	_, err := s.db.Exec(query)
	return err
}

func (s *SQLite) check() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return ErrClosed
	}
	return nil
}

func (s *SQLite) Append(ctx context.Context, c conflict.Conflict) error {
	if err := s.check(); err != nil {
		return err
	}
	query := `INSERT OR IGNORE INTO conflicts (guid, type_guid, path, context, winner, checked_in, xml) VALUES (?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, query,
		c.ID().String(), c.Kind().TypeGUID(), c.RelativeFilePath(), c.Context().Path,
		c.WinnerID(), c.RevisionWhereMergeWasCheckedIn(), conflict.String(c))
	if err != nil {
		return fmt.Errorf("append conflict %s: %w", c.ID(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		s.logger.Debug("conflict already logged", "guid", c.ID())
	}
	return nil
}

func (s *SQLite) Entries(ctx context.Context) ([]conflict.Conflict, error) {
	return s.query(ctx, `SELECT xml FROM conflicts ORDER BY seq`)
}

// ForPath returns the conflicts recorded for one repository file.
func (s *SQLite) ForPath(ctx context.Context, path string) ([]conflict.Conflict, error) {
	return s.query(ctx, `SELECT xml FROM conflicts WHERE path = ? ORDER BY seq`, path)
}

// MarkCheckedIn records rev as the revision in which the merge that
// produced the conflict with the given guid was committed.
func (s *SQLite) MarkCheckedIn(ctx context.Context, guid, rev string) error {
	if err := s.check(); err != nil {
		return err
	}
	var xml string
	err := s.db.QueryRowContext(ctx, `SELECT xml FROM conflicts WHERE guid = ?`, guid).Scan(&xml)
	if err != nil {
		return fmt.Errorf("load conflict %s: %w", guid, err)
	}
	c, err := conflict.ReadXMLString(xml)
	if err != nil {
		return err
	}
	c = conflict.CheckedIn(c, rev)
	_, err = s.db.ExecContext(ctx, `UPDATE conflicts SET checked_in = ?, xml = ? WHERE guid = ?`,
		rev, conflict.String(c), guid)
	if err != nil {
		return fmt.Errorf("update conflict %s: %w", guid, err)
	}
	return nil
}

func (s *SQLite) query(ctx context.Context, query string, args ...any) ([]conflict.Conflict, error) {
	if err := s.check(); err != nil {
		return nil, err
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query conflicts: %w", err)
	}
	defer rows.Close()
	var res []conflict.Conflict
	for rows.Next() {
		var xml string
		if err := rows.Scan(&xml); err != nil {
			return nil, fmt.Errorf("scan conflict: %w", err)
		}
		c, err := conflict.ReadXMLString(xml)
		if err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (s *SQLite) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.db.Close()
}
