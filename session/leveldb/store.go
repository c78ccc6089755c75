// SPDX-License-Identifier: Apache-2.0

// Package leveldb persists the session's wallet selection in a LevelDB
// database, so it survives process restarts.
package leveldb // import "github.com/ProvableHQ/aleo-dev-toolkit-sub001/session/leveldb"

import (
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/session"
)

// Store is a session.Store backed by LevelDB.
type Store struct {
	db *leveldb.DB
}

var _ session.Store = (*Store)(nil)

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "opening leveldb at %s", path)
	}
	return New(db), nil
}

// New wraps an open database. Closing the Store closes db.
func New(db *leveldb.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Get(key string) (string, bool, error) {
	v, err := s.db.Get([]byte(key), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return "", false, nil
	} else if err != nil {
		return "", false, errors.Wrapf(err, "getting %s", key)
	}
	return string(v), true, nil
}

func (s *Store) Set(key, value string) error {
	return errors.Wrapf(s.db.Put([]byte(key), []byte(value), nil), "setting %s", key)
}

func (s *Store) Delete(key string) error {
	return errors.Wrapf(s.db.Delete([]byte(key), nil), "deleting %s", key)
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
