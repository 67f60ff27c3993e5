package datastore

import (
	"sync"

	"github.com/featuregate/go-client-sdk/subsystems"
)

// memoryPersistentStore is the default PersistentStore when no file path is
// configured. Data does not survive a process restart, so every session starts with
// an empty cache; it exists so that the rest of the SDK never has to special-case a
// missing store.
type memoryPersistentStore struct {
	lock sync.Mutex
	data map[string][]byte
}

// NewMemoryPersistentStore creates a non-durable PersistentStore.
func NewMemoryPersistentStore() subsystems.PersistentStore {
	return &memoryPersistentStore{data: make(map[string][]byte)}
}

func (s *memoryPersistentStore) Get(key string) ([]byte, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	data, ok := s.data[key]
	return data, ok
}

func (s *memoryPersistentStore) Set(key string, data []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	copied := make([]byte, len(data))
	copy(copied, data)
	s.data[key] = copied
}

func (s *memoryPersistentStore) Delete(key string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	delete(s.data, key)
}

func (s *memoryPersistentStore) DeleteAll() {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data = make(map[string][]byte)
}
