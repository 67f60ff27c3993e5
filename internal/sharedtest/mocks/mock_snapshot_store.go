package mocks

import (
	"sync"

	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

// SavedSnapshot is posted to MockSnapshotStore.SavesCh for every Save call.
type SavedSnapshot struct {
	CacheKey string
	Snapshot fgstoretypes.Snapshot
}

// MockSnapshotStore is a test implementation of the coordinator's SnapshotStore
// dependency. Saves are recorded on a channel so tests can wait for persistence to
// happen without polling.
type MockSnapshotStore struct {
	SavesCh chan SavedSnapshot
	lock    sync.Mutex
	data    map[string]fgstoretypes.Snapshot
}

// NewMockSnapshotStore creates an empty MockSnapshotStore.
func NewMockSnapshotStore() *MockSnapshotStore {
	return &MockSnapshotStore{
		SavesCh: make(chan SavedSnapshot, 100),
		data:    make(map[string]fgstoretypes.Snapshot),
	}
}

// Seed pre-populates the store, as if a snapshot had been cached by an earlier
// session.
func (s *MockSnapshotStore) Seed(cacheKey string, snapshot fgstoretypes.Snapshot) {
	s.lock.Lock()
	defer s.lock.Unlock()
	s.data[cacheKey] = snapshot
}

func (s *MockSnapshotStore) Load(cacheKey string) (fgstoretypes.Snapshot, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	snapshot, ok := s.data[cacheKey]
	return snapshot, ok
}

func (s *MockSnapshotStore) Save(cacheKey string, snapshot fgstoretypes.Snapshot) {
	s.lock.Lock()
	s.data[cacheKey] = snapshot
	s.lock.Unlock()
	s.SavesCh <- SavedSnapshot{CacheKey: cacheKey, Snapshot: snapshot}
}
