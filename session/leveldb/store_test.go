// SPDX-License-Identifier: Apache-2.0

package leveldb_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goleveldb "github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"

	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/session"
	"github.com/ProvableHQ/aleo-dev-toolkit-sub001/session/leveldb"
)

func newMemStore(t *testing.T) *leveldb.Store {
	t.Helper()
	db, err := goleveldb.Open(storage.NewMemStorage(), nil)
	require.NoError(t, err)
	s := leveldb.New(db)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore(t *testing.T) {
	s := newMemStore(t)
	key := session.DefaultLocalStorageKey

	_, ok, err := s.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.Set(key, "Leo Wallet"))
	v, ok, err := s.Get(key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Leo Wallet", v)

	require.NoError(t, s.Delete(key))
	_, ok, err = s.Get(key)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, s.Delete(key), "deleting a missing key")
}

func TestStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session")

	s, err := leveldb.Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Set("wallet", "Galileo Wallet"))
	require.NoError(t, s.Close())

	s, err = leveldb.Open(path)
	require.NoError(t, err)
	defer s.Close()
	v, ok, err := s.Get("wallet")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Galileo Wallet", v)
}

func TestStore_Closed(t *testing.T) {
	s := newMemStore(t)
	require.NoError(t, s.Close())
	_, _, err := s.Get("wallet")
	assert.Error(t, err)
	assert.Error(t, s.Set("wallet", "x"))
}
