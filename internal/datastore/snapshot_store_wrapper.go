package datastore

import (
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	cache "github.com/patrickmn/go-cache"

	"github.com/featuregate/go-client-sdk/subsystems"
	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

// DefaultCacheTTL is how long a snapshot loaded from the persistent store stays in
// the wrapper's in-memory cache before being re-read from disk.
const DefaultCacheTTL = 5 * time.Minute

const snapshotKeyPrefix = "snapshot:"

// SnapshotStoreWrapper layers the snapshot codec and an in-memory read cache on top
// of a raw PersistentStore. The coordinator serializes all calls for one cache key,
// so the wrapper needs no concurrency control of its own beyond what the cache
// library provides.
//
// Load is fail-soft: missing or corrupt entries behave as a miss, and corrupt
// entries are deleted so they are not re-parsed on every start.
type SnapshotStoreWrapper struct {
	core     subsystems.PersistentStore
	memCache *cache.Cache
	loggers  ldlog.Loggers
}

// NewSnapshotStoreWrapper creates a SnapshotStoreWrapper. A non-positive cacheTTL
// selects DefaultCacheTTL.
func NewSnapshotStoreWrapper(
	core subsystems.PersistentStore,
	cacheTTL time.Duration,
	loggers ldlog.Loggers,
) *SnapshotStoreWrapper {
	if cacheTTL <= 0 {
		cacheTTL = DefaultCacheTTL
	}
	return &SnapshotStoreWrapper{
		core:     core,
		memCache: cache.New(cacheTTL, cacheTTL*2),
		loggers:  loggers,
	}
}

// Load returns the persisted snapshot for cacheKey, or ok=false on a miss.
func (w *SnapshotStoreWrapper) Load(cacheKey string) (fgstoretypes.Snapshot, bool) {
	if cached, found := w.memCache.Get(cacheKey); found {
		return cached.(fgstoretypes.Snapshot), true
	}
	data, ok := w.core.Get(snapshotKeyPrefix + cacheKey)
	if !ok {
		return fgstoretypes.Snapshot{}, false
	}
	snapshot, err := fgstoretypes.ParseSnapshot(data)
	if err != nil {
		w.loggers.Warnf("Discarding corrupt cached snapshot: %s", err)
		w.core.Delete(snapshotKeyPrefix + cacheKey)
		return fgstoretypes.Snapshot{}, false
	}
	w.memCache.SetDefault(cacheKey, snapshot)
	return snapshot, true
}

// Save persists a snapshot for cacheKey, overwriting any prior entry. Persistence
// failures are logged by the underlying store and otherwise ignored.
func (w *SnapshotStoreWrapper) Save(cacheKey string, snapshot fgstoretypes.Snapshot) {
	w.memCache.SetDefault(cacheKey, snapshot)
	data, err := snapshot.Serialize()
	if err != nil {
		w.loggers.Warnf("Failed to serialize snapshot for caching: %s", err)
		return
	}
	w.core.Set(snapshotKeyPrefix+cacheKey, data)
}

// Clear removes the persisted snapshot for cacheKey.
func (w *SnapshotStoreWrapper) Clear(cacheKey string) {
	w.memCache.Delete(cacheKey)
	w.core.Delete(snapshotKeyPrefix + cacheKey)
}

// ClearAll removes every persisted entry, including non-snapshot data such as the
// stable device ID.
func (w *SnapshotStoreWrapper) ClearAll() {
	w.memCache.Flush()
	w.core.DeleteAll()
}
