package infra

import (
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// collectionsBucket holds every whole-collection JSON blob, keyed by
// collection name. Collections are always replaced as a unit, never patched
// field by field, which keeps a single terminal free of lost updates.
var collectionsBucket = []byte("collections")

// LocalDB is the durable key-value store backing local-only mode. It wraps
// a single-file bbolt database so the terminal keeps its catalog, history,
// and stock logs across restarts with no external service.
type LocalDB struct {
	db *bolt.DB
}

// OpenLocalDB opens (or creates) the bbolt file and ensures the bucket exists.
func OpenLocalDB(path string) (*LocalDB, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("localdb: open %s: %w", path, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(collectionsBucket)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("localdb: create bucket: %w", err)
	}
	return &LocalDB{db: db}, nil
}

// Get returns the stored value for key. ok is false when the key is absent.
func (l *LocalDB) Get(key string) (value string, ok bool, err error) {
	err = l.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(collectionsBucket).Get([]byte(key))
		if v == nil {
			return nil
		}
		ok = true
		// bbolt memory is only valid inside the tx — copy out
		value = string(v)
		return nil
	})
	return value, ok, err
}

// Put stores value under key, replacing any previous value.
func (l *LocalDB) Put(key, value string) error {
	return l.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(collectionsBucket).Put([]byte(key), []byte(value))
	})
}

// Close releases the underlying bbolt file.
func (l *LocalDB) Close() error {
	return l.db.Close()
}
