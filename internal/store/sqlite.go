package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

type sqliteStore struct {
	db *sqlx.DB
}

func NewSQLiteStore(dbName string) (*sqliteStore, error) {
	db, err := sqlx.Connect("sqlite3", "file:"+dbName+"?_journal_mode=WAL&_busy_timeout=5000&_sync=FULL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// sqlite has a single writer
	db.SetMaxOpenConns(1)

	s := &sqliteStore{db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

func (s *sqliteStore) init() error {
	_, err := s.db.Exec(`create table if not exists kv (
		key   blob not null primary key,
		value blob not null
	)`)
	if err != nil {
		return fmt.Errorf("creating kv table: %w", err)
	}
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func (s *sqliteStore) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.Get(&value, "SELECT value FROM kv WHERE key = ?", key)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrorKeyNotFound
		}
		return nil, fmt.Errorf("getting value: %w", err)
	}
	return value, nil
}

func (s *sqliteStore) Put(key []byte, value []byte) error {
	_, err := s.db.Exec(`INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("putting value: %w", err)
	}
	return nil
}

func (s *sqliteStore) Delete(key []byte) error {
	_, err := s.db.Exec("DELETE FROM kv WHERE key = ?", key)
	if err != nil {
		return fmt.Errorf("deleting value: %w", err)
	}
	return nil
}
