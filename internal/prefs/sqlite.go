package prefs

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"bizadmin/internal/util/logx"
)

// SQLiteProvider stores records as JSON rows keyed by table.
type SQLiteProvider struct {
	db   *sql.DB
	path string
}

func OpenSQLite(path string) (*SQLiteProvider, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if err := migrate(db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &SQLiteProvider{db: db, path: path}, nil
}

func migrate(db *sql.DB) error {
	statements := []string{
		`PRAGMA journal_mode=WAL;`,
		`CREATE TABLE IF NOT EXISTS table_prefs (
			key TEXT PRIMARY KEY,
			record TEXT NOT NULL,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
	}
	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("prefs migration failed: %w", err)
		}
	}
	return nil
}

func (p *SQLiteProvider) Store(key string) Store { return &sqliteStore{db: p.db, key: key} }

func (p *SQLiteProvider) Close() error {
	if p == nil || p.db == nil {
		return nil
	}
	return p.db.Close()
}

type sqliteStore struct {
	db  *sql.DB
	key string
}

func (s *sqliteStore) Load() (Record, bool) {
	var raw string
	err := s.db.QueryRow(`SELECT record FROM table_prefs WHERE key = ?`, s.key).Scan(&raw)
	if err != nil {
		if err != sql.ErrNoRows {
			logx.Warnf("prefs: load %s failed: %v", s.key, err)
		}
		return Record{}, false
	}
	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		logx.Warnf("prefs: discarding corrupt record %s: %v", s.key, err)
		return Record{}, false
	}
	return r.sanitize(), true
}

func (s *sqliteStore) Save(r Record) {
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	_, err = s.db.Exec(`INSERT INTO table_prefs (key, record, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET record = excluded.record, updated_at = CURRENT_TIMESTAMP`, s.key, string(b))
	if err != nil {
		logx.Warnf("prefs: save %s failed: %v", s.key, err)
	}
}
