package fgcomponents

import (
	"github.com/featuregate/go-client-sdk/internal/datastore"
	"github.com/featuregate/go-client-sdk/subsystems"
)

// PersistentSnapshotStoreBuilder configures the file-backed local store that holds
// cached snapshots and the stable device ID.
//
//	config := fgclient.Config{
//	    DataStore: fgcomponents.PersistentSnapshotStore("/var/lib/myapp/featuregate.json"),
//	}
type PersistentSnapshotStoreBuilder struct {
	path string
}

// PersistentSnapshotStore returns a configurable factory for the file-backed local
// store. The file and its parent directory are created on first write.
func PersistentSnapshotStore(path string) *PersistentSnapshotStoreBuilder {
	return &PersistentSnapshotStoreBuilder{path: path}
}

// GetPath returns the configured file path, for testing.
func (b *PersistentSnapshotStoreBuilder) GetPath() string {
	return b.path
}

// Build is called internally by the SDK.
func (b *PersistentSnapshotStoreBuilder) Build(
	clientContext subsystems.ClientContext,
) (subsystems.PersistentStore, error) {
	loggers := clientContext.GetLogging().Loggers
	return datastore.NewFilePersistentStore(b.path, loggers), nil
}

// InMemorySnapshotStore returns a factory for a non-durable local store. Cached
// snapshots do not survive a restart, so every new process initializes from the
// network or defaults. This is the behavior when Config.DataStore is not set.
func InMemorySnapshotStore() subsystems.ComponentConfigurer[subsystems.PersistentStore] {
	return inMemorySnapshotStoreFactory{}
}

type inMemorySnapshotStoreFactory struct{}

func (f inMemorySnapshotStoreFactory) Build(
	clientContext subsystems.ClientContext,
) (subsystems.PersistentStore, error) {
	return datastore.NewMemoryPersistentStore(), nil
}
