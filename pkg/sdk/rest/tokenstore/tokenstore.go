// Package tokenstore persists the API bearer token in a local Badger
// database so a restarted client stays authenticated.
package tokenstore

import (
	"errors"
	"strings"

	badger "github.com/dgraph-io/badger/v4"
)

// DefaultKey is the key the bearer token is stored under.
const DefaultKey = "auth_token"

// Store is a single-key durable token store.
type Store struct {
	db  *badger.DB
	key []byte
}

// Options configures Open.
type Options struct {
	Path string
	Key  string // storage key, DefaultKey when empty
}

// Open opens (or creates) the store at opts.Path.
func Open(opts Options) (*Store, error) {
	if strings.TrimSpace(opts.Path) == "" {
		return nil, errors.New("tokenstore: path is required")
	}
	key := opts.Key
	if key == "" {
		key = DefaultKey
	}

	db, err := badger.Open(badger.DefaultOptions(opts.Path).WithLogger(nil))
	if err != nil {
		return nil, err
	}
	return &Store{db: db, key: []byte(key)}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Load returns the persisted token, empty when none was saved.
func (s *Store) Load() (string, error) {
	var token string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(s.key)
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return item.Value(func(val []byte) error {
			token = string(val)
			return nil
		})
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Save writes the token. An empty token clears the stored value.
func (s *Store) Save(token string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		if token == "" {
			err := txn.Delete(s.key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		return txn.Set(s.key, []byte(token))
	})
}
