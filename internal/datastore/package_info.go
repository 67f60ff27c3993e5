// Package datastore contains the SDK's local persistence implementations: the
// file-backed and in-memory blob stores, and the wrapper that layers snapshot
// serialization and read caching on top of them.
package datastore
