package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for hierarchy snapshots.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS nodes (
  id              INTEGER PRIMARY KEY,
  parent_id       INTEGER REFERENCES nodes(id),
  root            TEXT NOT NULL DEFAULT '',
  name            TEXT NOT NULL,
  kind            TEXT NOT NULL DEFAULT '',
  precise_id      TEXT NOT NULL DEFAULT '',
  language        TEXT NOT NULL DEFAULT '',
  disfavored      BOOLEAN NOT NULL DEFAULT FALSE,
  findable        BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);
`

// InsertNodes writes rows in a single transaction. Rows must be ordered so
// that every parent precedes its children.
func (s *Store) InsertNodes(rows []*NodeRow) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("insert nodes: begin: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(
		`INSERT INTO nodes (id, parent_id, root, name, kind, precise_id, language, disfavored, findable)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("insert nodes: prepare: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		if _, err := stmt.Exec(r.ID, r.ParentID, r.Root, r.Name, r.Kind, r.PreciseID,
			r.Language, r.Disfavored, r.Findable); err != nil {
			return fmt.Errorf("insert nodes: node %q: %w", r.Name, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert nodes: commit: %w", err)
	}
	return nil
}

// Nodes returns every row ordered by id.
func (s *Store) Nodes() ([]*NodeRow, error) {
	rows, err := s.db.Query(
		`SELECT id, parent_id, root, name, kind, precise_id, language, disfavored, findable
		 FROM nodes ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("nodes: %w", err)
	}
	defer rows.Close()

	var out []*NodeRow
	for rows.Next() {
		r := &NodeRow{}
		var parentID sql.NullInt64
		if err := rows.Scan(&r.ID, &parentID, &r.Root, &r.Name, &r.Kind, &r.PreciseID,
			&r.Language, &r.Disfavored, &r.Findable); err != nil {
			return nil, fmt.Errorf("nodes: scan: %w", err)
		}
		if parentID.Valid {
			r.ParentID = &parentID.Int64
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// CountNodes returns the number of stored rows.
func (s *Store) CountNodes() (int, error) {
	var n int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM nodes").Scan(&n); err != nil {
		return 0, fmt.Errorf("count nodes: %w", err)
	}
	return n, nil
}

// SetMetadata stores a key/value pair, replacing any previous value.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set metadata %q: %w", key, err)
	}
	return nil
}

// GetMetadata returns the value for key, or "" if it isn't set.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get metadata %q: %w", key, err)
	}
	return value, nil
}
