// Package fgcomponents provides the configuration builders for the SDK's standard
// components: logging, networking, local persistence, and the remote fetcher.
//
// Builders are created with the functions in this package (Logging,
// HTTPConfiguration, PersistentSnapshotStore, RemoteFetcher, etc.), configured with
// their chained setter methods, and stored in the corresponding fgclient.Config
// field.
package fgcomponents
