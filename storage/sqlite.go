package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	sqlbuilder "github.com/huandu/go-sqlbuilder"
	_ "modernc.org/sqlite"
)

// SQLite stores each key as a row in a kv table. A Put upserts the
// whole value in a single statement, so readers never observe a
// partial write.
type SQLite struct {
	db *sql.DB
}

func OpenSQLite(database string) (*SQLite, error) {
	// Enable foreign keys and WAL mode
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", database))
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1)            // SQLite only supports one writer at a time
	db.SetMaxIdleConns(1)            // Keep one connection in the pool
	db.SetConnMaxLifetime(time.Hour) // Recreate connections after an hour
	db.SetConnMaxIdleTime(time.Hour) // Close idle connections after an hour

	if _, err := db.Exec(`
		PRAGMA busy_timeout = 5000;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
	`); err != nil {
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	return &SQLite{db: db}, nil
}

func (s *SQLite) Get(key string) ([]byte, error) {
	sb := sqlbuilder.NewSelectBuilder()
	sb.Select("value").From("kv").Where(sb.Equal("key", key))
	query, args := sb.BuildWithFlavor(sqlbuilder.SQLite)

	var value []byte
	err := s.db.QueryRow(query, args...).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoValue
	}
	if err != nil {
		return nil, fmt.Errorf("query error: %w", err)
	}
	return value, nil
}

func (s *SQLite) Put(key string, value []byte) error {
	ib := sqlbuilder.NewInsertBuilder()
	ib.ReplaceInto("kv").Cols("key", "value").Values(key, value)
	query, args := ib.BuildWithFlavor(sqlbuilder.SQLite)

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("insert error: %w", err)
	}
	return nil
}

func (s *SQLite) Delete(key string) error {
	db := sqlbuilder.NewDeleteBuilder()
	db.DeleteFrom("kv").Where(db.Equal("key", key))
	query, args := db.BuildWithFlavor(sqlbuilder.SQLite)

	if _, err := s.db.Exec(query, args...); err != nil {
		return fmt.Errorf("delete error: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
