// SPDX-License-Identifier: Apache-2.0

package session

import "sync"

// DefaultLocalStorageKey is the key the selected wallet name is stored
// under.
const DefaultLocalStorageKey = "aleoWalletName"

// Store persists the name of the selected wallet between runs.
type Store interface {
	// Get returns the value of key and whether it was set.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

// MemoryStore is an in-memory Store.
type MemoryStore struct {
	mutex  sync.Mutex
	values map[string]string
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

func (m *MemoryStore) Get(key string) (string, bool, error) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStore) Set(key, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.values[key] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.values, key)
	return nil
}
