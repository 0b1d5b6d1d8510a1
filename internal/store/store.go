package store

import (
	"errors"
	"fmt"
	"os"
	"path"
)

const (
	BackendSQLite = "sqlite"
	BackendBolt   = "bolt"
)

var ErrorKeyNotFound = errors.New("key not found")

// Store is a durable single-key byte store. Implementations make no promise
// about atomicity across keys.
type Store interface {
	Get(key []byte) ([]byte, error)
	Put(key []byte, value []byte) error
	Delete(key []byte) error
	Close() error
}

type Config interface {
	DataDirectory() string
	StoreBackend() string
}

func Open(config Config) (Store, error) {
	dataDir := config.DataDirectory()
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	switch config.StoreBackend() {
	case BackendSQLite, "":
		s, err := NewSQLiteStore(path.Join(dataDir, "messages.db"))
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendBolt:
		s, err := NewBoltStore(path.Join(dataDir, "messages.bolt"))
		if err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown store backend: %s", config.StoreBackend())
	}
}
