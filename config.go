package fgclient

import (
	"time"

	"github.com/featuregate/go-client-sdk/subsystems"
)

// Config exposes advanced configuration options for the FeatureGate client.
//
// All of these settings are optional, so an empty Config struct is always valid. See
// the description of each field for the default behavior if it is not set.
//
// Some of the Config fields are component configurers: builders for subcomponents of
// the SDK, normally created by the corresponding functions in the fgcomponents
// package. For instance, to keep cached snapshots in a file:
//
//	var config fgclient.Config
//	config.DataStore = fgcomponents.PersistentSnapshotStore("/var/lib/myapp/featuregate.json")
//
// The configurer interfaces are defined separately from the built-in implementations
// so that you can also substitute your own implementation, for custom integrations
// or testing.
type Config struct {
	// Bootstrap optionally supplies an initial snapshot from outside the network
	// and cache, such as a file shipped with the application; see the fgfiledata
	// package. If nil, sessions with no cached data start from empty defaults.
	Bootstrap subsystems.ComponentConfigurer[subsystems.BootstrapSource]

	// DataStore sets the implementation of the local persistent store that holds
	// cached snapshots and the stable device ID.
	//
	// If nil, the default is fgcomponents.InMemorySnapshotStore(), which does not
	// survive a process restart. Most applications should configure
	// fgcomponents.PersistentSnapshotStore with a writable file path.
	DataStore subsystems.ComponentConfigurer[subsystems.PersistentStore]

	// EnvironmentProvider replaces the SDK's source of device/application metadata.
	// If nil, the SDK collects metadata itself and persists a generated stable ID
	// in the data store.
	EnvironmentProvider subsystems.EnvironmentProvider

	// Fetcher sets the implementation of SnapshotFetcher for retrieving evaluated
	// results. If nil, the default is fgcomponents.RemoteFetcher(). Setting this is
	// mainly useful in tests.
	Fetcher subsystems.ComponentConfigurer[subsystems.SnapshotFetcher]

	// HTTP provides configuration of the SDK's network connection behavior.
	//
	// If nil, the default is fgcomponents.HTTPConfiguration(); see that method for
	// an explanation of how to further configure these options.
	//
	// If Offline is set to true, then HTTP is ignored.
	HTTP subsystems.ComponentConfigurer[subsystems.HTTPConfiguration]

	// Logging provides configuration of the SDK's logging behavior.
	//
	// If nil, the default is fgcomponents.Logging(); the other option is
	// fgcomponents.NoLogging().
	//
	//	config.Logging = fgcomponents.Logging().MinLevel(ldlog.Warn)
	Logging subsystems.ComponentConfigurer[subsystems.LoggingConfiguration]

	// Offline sets whether the client should run with no network connections at
	// all: evaluations are served from bootstrap data or defaults, and UpdateUser
	// performs no fetches.
	Offline bool

	// ServiceEndpoints directs the client at a non-default service instance. The
	// zero value means the standard production endpoints.
	ServiceEndpoints subsystems.ServiceEndpoints

	// SyncInterval is the background refresh cadence once a session is ready. Zero
	// selects the default of 10 seconds; values below 1 second are raised to 1
	// second.
	SyncInterval time.Duration

	// SnapshotCacheTTL is how long a snapshot loaded from the persistent store may
	// be served from memory before it is re-read. Zero selects the default of 5
	// minutes.
	SnapshotCacheTTL time.Duration

	// ApplicationVersion is reported to the service in request metadata. Optional.
	ApplicationVersion string

	// OverrideStableID replaces the persisted anonymous device identifier. Leave
	// empty to let the SDK manage it.
	OverrideStableID string
}
