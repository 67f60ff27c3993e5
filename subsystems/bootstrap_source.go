package subsystems

import (
	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

// BootstrapSource supplies an initial snapshot from somewhere other than the
// network or the persisted cache, such as a local file checked into an application
// bundle. A bootstrap snapshot is used as the fallback in place of the empty default
// snapshot; live data from cache or network always takes precedence.
type BootstrapSource interface {
	// Fetch reads the bootstrap data. It is called once at client creation and
	// again whenever the source reports a change.
	Fetch() (fgstoretypes.Snapshot, error)

	// Close releases any resources held by the source.
	Close() error
}

// BootstrapSourceWatcher is an optional interface for BootstrapSource
// implementations that can detect changes to their underlying data. onChange is
// called from an arbitrary goroutine; the SDK responds by calling Fetch again.
type BootstrapSourceWatcher interface {
	WatchChanges(onChange func())
}
