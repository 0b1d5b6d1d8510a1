package store

import (
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

var bucketKV = []byte("kv")

type boltStore struct {
	db *bbolt.DB
}

func NewBoltStore(path string) (*boltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketKV)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket %s: %w", bucketKV, err)
	}

	return &boltStore{db}, nil
}

func (s *boltStore) Close() error {
	return s.db.Close()
}

func (s *boltStore) Get(key []byte) ([]byte, error) {
	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketKV).Get(key)
		if v == nil {
			return ErrorKeyNotFound
		}
		// v is only valid for the life of the transaction
		value = make([]byte, len(v))
		copy(value, v)
		return nil
	})
	return value, err
}

func (s *boltStore) Put(key []byte, value []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKV).Put(key, value)
	})
	if err != nil {
		return fmt.Errorf("putting value: %w", err)
	}
	return nil
}

func (s *boltStore) Delete(key []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketKV).Delete(key)
	})
	if err != nil {
		return fmt.Errorf("deleting value: %w", err)
	}
	return nil
}
