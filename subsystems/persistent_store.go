package subsystems

// PersistentStore is the low-level local persistence used for cached snapshots and
// the stable device ID: a blob-by-key store backed by a file, app preferences, or
// any other durable medium.
//
// Implementations are best-effort. A failed read should behave like a miss and a
// failed write should be swallowed (optionally logged); the SDK never treats
// persistence failures as fatal. The SDK serializes all accesses for one key, but an
// implementation must remain usable across user switches, so it should be safe for
// sequential reuse after Delete or DeleteAll.
type PersistentStore interface {
	// Get retrieves the blob stored for key. ok is false if the key is missing or
	// the data could not be read.
	Get(key string) (data []byte, ok bool)

	// Set stores a blob for key, overwriting any prior value.
	Set(key string, data []byte)

	// Delete removes the entry for key, if any.
	Delete(key string)

	// DeleteAll removes every entry, including the persisted stable ID. It is only
	// called for an explicit clear-all (for example on logout).
	DeleteAll()
}
