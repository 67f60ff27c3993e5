package fgclient

import (
	"errors"
	"sync"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/featuregate/go-client-sdk/fgcomponents"
	"github.com/featuregate/go-client-sdk/fguser"
	"github.com/featuregate/go-client-sdk/internal"
	"github.com/featuregate/go-client-sdk/internal/datasource"
	"github.com/featuregate/go-client-sdk/internal/datastore"
	"github.com/featuregate/go-client-sdk/internal/environment"
	"github.com/featuregate/go-client-sdk/subsystems"
	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

// Version is the SDK version string.
const Version = internal.SDKVersion

// ErrClientClosed is delivered on readiness channels when the client is closed
// while an operation is pending, and for operations begun after closing.
var ErrClientClosed = datasource.ErrClosed

// ErrUpdateSuperseded is delivered on a readiness channel whose UpdateUser call was
// overtaken by a newer UpdateUser before it completed.
var ErrUpdateSuperseded = datasource.ErrSuperseded

// FGClient is the FeatureGate client. An application normally creates one client
// per process at startup with MakeClient or MakeCustomClient, and switches users
// with UpdateUser rather than creating additional clients.
//
// Evaluation methods (CheckGate, GetConfig) are synchronous, never perform I/O, and
// are safe for concurrent use from any goroutine.
type FGClient struct {
	sdkKey      string
	loggers     ldlog.Loggers
	offline     bool
	store       *datastore.SnapshotStoreWrapper
	coordinator *datasource.SyncCoordinator
	bootstrap   subsystems.BootstrapSource
	closeOnce   sync.Once
}

// MakeClient creates a client with all default configuration and begins
// synchronizing data for the given user.
//
// MakeClient waits up to waitFor for the first network result. If the service does
// not respond in time, the client is returned with a nil error anyway, serving
// cached or default values, and silently upgrades to live values when the fetch
// eventually completes. A non-positive waitFor selects the default of 3 seconds.
//
// The returned client should be treated like a singleton and closed with Close when
// the application exits.
func MakeClient(sdkKey string, user fguser.User, waitFor time.Duration) (*FGClient, error) {
	return MakeCustomClient(sdkKey, user, Config{}, waitFor)
}

// MakeCustomClient creates a client with a custom configuration. The waitFor
// semantics are the same as for MakeClient.
//
// An error is returned together with a usable client when initialization could not
// get live data: the client then evaluates from cached, bootstrap, or default
// values. The only unconditionally fatal condition is an empty SDK key for a
// non-offline client.
func MakeCustomClient(
	sdkKey string,
	user fguser.User,
	config Config,
	waitFor time.Duration,
) (*FGClient, error) {
	if sdkKey == "" && !config.Offline {
		return nil, errors.New("an SDK key is required when the client is not in offline mode")
	}

	baseContext := subsystems.BasicClientContext{
		SDKKey:           sdkKey,
		Offline:          config.Offline,
		ServiceEndpoints: config.ServiceEndpoints,
	}

	loggingConfig, err := buildComponent[subsystems.LoggingConfiguration](
		config.Logging, fgcomponents.Logging(), baseContext)
	if err != nil {
		return nil, err
	}
	baseContext.Logging = loggingConfig
	loggers := loggingConfig.Loggers

	httpConfig, err := buildComponent[subsystems.HTTPConfiguration](
		config.HTTP, fgcomponents.HTTPConfiguration(), baseContext)
	if err != nil {
		return nil, err
	}
	baseContext.HTTP = httpConfig

	persistentStore, err := buildComponent[subsystems.PersistentStore](
		config.DataStore, fgcomponents.InMemorySnapshotStore(), baseContext)
	if err != nil {
		return nil, err
	}
	store := datastore.NewSnapshotStoreWrapper(persistentStore, config.SnapshotCacheTTL, loggers)

	environmentProvider := config.EnvironmentProvider
	if environmentProvider == nil {
		environmentProvider = environment.NewProvider(
			persistentStore, internal.SDKVersion, config.ApplicationVersion, loggers)
	}
	if config.OverrideStableID != "" {
		// persists the override so later requests pick it up with no argument
		_ = environmentProvider.GetMetadata(config.OverrideStableID)
	}
	baseContext.EnvironmentProvider = environmentProvider

	client := &FGClient{
		sdkKey:  sdkKey,
		loggers: loggers,
		offline: config.Offline,
		store:   store,
	}

	fallback := fgstoretypes.Snapshot{}
	if config.Bootstrap != nil {
		source, err := config.Bootstrap.Build(baseContext)
		if err != nil {
			return nil, err
		}
		client.bootstrap = source
		if snapshot, err := source.Fetch(); err == nil {
			fallback = snapshot
		} else {
			loggers.Errorf("Ignoring bootstrap data: %s", err)
		}
	}

	var fetcher subsystems.SnapshotFetcher
	if !config.Offline {
		fetcher, err = buildComponent[subsystems.SnapshotFetcher](
			config.Fetcher, fgcomponents.RemoteFetcher(), baseContext)
		if err != nil {
			return nil, err
		}
	}

	if waitFor <= 0 {
		waitFor = datasource.DefaultInitTimeout
	}
	client.coordinator = datasource.NewSyncCoordinator(baseContext, fetcher, store,
		datasource.CoordinatorConfig{
			InitTimeout:  waitFor,
			SyncInterval: config.SyncInterval,
			Fallback:     fallback,
		})

	if watcher, ok := client.bootstrap.(subsystems.BootstrapSourceWatcher); ok {
		source := client.bootstrap
		coordinator := client.coordinator
		watcher.WatchChanges(func() {
			if snapshot, err := source.Fetch(); err == nil {
				coordinator.SetFallback(snapshot)
			} else {
				loggers.Errorf("Ignoring reloaded bootstrap data: %s", err)
			}
		})
	}

	if config.Offline {
		loggers.Info("Starting the client in offline mode")
		return client, nil
	}

	return client, <-client.coordinator.Start(user)
}

// buildComponent applies a configurer, or the default one if the config field was
// left nil.
func buildComponent[T any](
	configured subsystems.ComponentConfigurer[T],
	defaultConfigurer subsystems.ComponentConfigurer[T],
	clientContext subsystems.ClientContext,
) (T, error) {
	if configured != nil {
		return configured.Build(clientContext)
	}
	return defaultConfigurer.Build(clientContext)
}

// CheckGate reports whether the named feature gate is on for the current user. An
// unknown gate, or a client with no data, reports false.
func (client *FGClient) CheckGate(name string) bool {
	result, _ := client.CheckGateDetail(name)
	return result.Value
}

// CheckGateDetail is like CheckGate but also returns the rule metadata and whether
// the gate was present in the current snapshot.
func (client *FGClient) CheckGateDetail(name string) (fgstoretypes.GateResult, bool) {
	snapshot := client.coordinator.Current()
	result, ok := snapshot.Gates[fgstoretypes.HashName(name)]
	return result, ok
}

// GetConfig returns the named dynamic config for the current user. An unknown
// config, or a client with no data, returns an empty ConfigValue whose typed
// getters all report the caller-supplied defaults.
func (client *FGClient) GetConfig(name string) ConfigValue {
	snapshot := client.coordinator.Current()
	if result, ok := snapshot.Configs[fgstoretypes.HashName(name)]; ok {
		return ConfigValue{name: name, value: result.Value, ruleID: result.RuleID, found: true}
	}
	return ConfigValue{name: name, value: ldvalue.Null()}
}

// UpdateUser switches the active user. It returns immediately; evaluations made
// before the returned channel delivers observe the new user's cached values or
// defaults, never the previous user's values. The channel receives exactly one
// value: nil for success or fallback-on-timeout, an error otherwise (including
// ErrUpdateSuperseded if a newer UpdateUser overtakes this one).
func (client *FGClient) UpdateUser(user fguser.User) <-chan error {
	if client.offline {
		ready := make(chan error, 1)
		ready <- nil
		return ready
	}
	return client.coordinator.UpdateUser(user)
}

// Initialized reports whether the client has received at least one confirmation
// from the evaluation service for the current user session.
func (client *FGClient) Initialized() bool {
	return client.coordinator.Initialized()
}

// SnapshotSource reports the provenance of the data currently being evaluated, for
// diagnostics.
func (client *FGClient) SnapshotSource() fgstoretypes.SnapshotSource {
	return client.coordinator.Current().Source
}

// ClearCachedData removes all locally persisted data, including cached snapshots
// for every user and the stable device ID. Call it when a user logs out of the
// application and their data should not remain on the device.
func (client *FGClient) ClearCachedData() {
	client.store.ClearAll()
}

// Close shuts down the client. Pending UpdateUser channels receive ErrClientClosed,
// background synchronization stops, and evaluations return default values from then
// on.
func (client *FGClient) Close() error {
	client.closeOnce.Do(func() {
		_ = client.coordinator.Close()
		if client.bootstrap != nil {
			_ = client.bootstrap.Close()
		}
	})
	return nil
}
