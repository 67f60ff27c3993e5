package datasource

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"golang.org/x/sync/singleflight"

	"github.com/featuregate/go-client-sdk/fguser"
	"github.com/featuregate/go-client-sdk/internal"
	"github.com/featuregate/go-client-sdk/subsystems"
	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

const (
	// DefaultInitTimeout is how long Start and UpdateUser wait for the network
	// before falling back to cached or default values.
	DefaultInitTimeout = 3 * time.Second
	// DefaultSyncInterval is the default background refresh cadence.
	DefaultSyncInterval = 10 * time.Second
	// MinSyncInterval is the lowest accepted refresh cadence.
	MinSyncInterval = time.Second
)

// ErrClosed is delivered to readiness channels when the client is closed while an
// operation is pending, and returned for operations begun after closing.
var ErrClosed = errors.New("the client has been closed")

// ErrSuperseded is delivered to a readiness channel whose Start or UpdateUser call
// was overtaken by a newer UpdateUser before it completed. The superseding call's
// channel reports the final outcome.
var ErrSuperseded = errors.New("the operation was superseded by a newer user update")

const (
	syncErrorContext     = "on background sync"
	syncWillRetryMessage = "will retry at next scheduled sync"
)

// SnapshotStore is the coordinator's view of local persistence.
type SnapshotStore interface {
	Load(cacheKey string) (fgstoretypes.Snapshot, bool)
	Save(cacheKey string, snapshot fgstoretypes.Snapshot)
}

// CoordinatorConfig describes the configuration for a SyncCoordinator. It is
// exported so that builder tests can verify it.
type CoordinatorConfig struct {
	InitTimeout  time.Duration
	SyncInterval time.Duration
	// Fallback is the snapshot used when neither cache nor network has supplied
	// data: empty by default, or a bootstrap snapshot if one was configured.
	Fallback fgstoretypes.Snapshot
}

// SyncCoordinator owns the current snapshot and runs the initialize/update state
// machine: it races a network fetch against the init timeout, falls back to the
// persisted cache, reconciles late-arriving results, and drives periodic background
// refresh.
//
// All state mutation goes through methods that hold the coordinator's lock and check
// the generation counter, so a result from a superseded Start/UpdateUser race can
// never overwrite a newer one. Snapshot reads are lock-free via an atomic reference
// and may run concurrently with any mutation.
type SyncCoordinator struct {
	fetcher      subsystems.SnapshotFetcher
	store        SnapshotStore
	loggers      ldlog.Loggers
	initTimeout  time.Duration
	syncInterval time.Duration

	current   atomic.Value // always holds a fgstoretypes.Snapshot
	closeCh   chan struct{}
	closeOnce sync.Once
	inflight  singleflight.Group

	initialized internal.AtomicBoolean

	lock           sync.Mutex
	closed         bool
	fallback       fgstoretypes.Snapshot
	user           fguser.User
	haveUser       bool
	generation     uint64
	racing         bool
	pendingUpgrade bool
	fetchInFlight  bool
	waiters        []chan<- error
	bgStop         chan struct{}
}

type fetchOutcome struct {
	snapshot  fgstoretypes.Snapshot
	noChanges bool
	err       error
}

// NewSyncCoordinator creates a SyncCoordinator. Zero config values select the
// defaults.
func NewSyncCoordinator(
	clientContext subsystems.ClientContext,
	fetcher subsystems.SnapshotFetcher,
	store SnapshotStore,
	cfg CoordinatorConfig,
) *SyncCoordinator {
	initTimeout := cfg.InitTimeout
	if initTimeout <= 0 {
		initTimeout = DefaultInitTimeout
	}
	syncInterval := cfg.SyncInterval
	if syncInterval <= 0 {
		syncInterval = DefaultSyncInterval
	}
	if syncInterval < MinSyncInterval {
		syncInterval = MinSyncInterval
	}
	c := &SyncCoordinator{
		fetcher:      fetcher,
		store:        store,
		loggers:      clientContext.GetLogging().Loggers,
		initTimeout:  initTimeout,
		syncInterval: syncInterval,
		fallback:     cfg.Fallback,
		closeCh:      make(chan struct{}),
	}
	c.current.Store(cfg.Fallback)
	return c
}

// Start begins synchronization for a user. It returns immediately; the returned
// channel receives exactly one value when initialization resolves, nil for success
// or fallback-on-timeout, non-nil if the resolving fetch failed.
//
// Calling Start again for the same user while a prior Start is still racing does
// not issue a second network request; the new channel is resolved together with the
// first. Calling Start with a different user behaves like UpdateUser.
func (c *SyncCoordinator) Start(user fguser.User) <-chan error {
	return c.beginSession(user, false)
}

// UpdateUser switches the active user. The current snapshot is immediately replaced
// by the new user's cached snapshot (or the fallback), so evaluations never observe
// the previous user's values, and a fresh fetch-versus-timeout race begins. Any
// still-pending Start/UpdateUser race is superseded: its channel receives
// ErrSuperseded and its eventual network result is discarded.
func (c *SyncCoordinator) UpdateUser(user fguser.User) <-chan error {
	return c.beginSession(user, true)
}

func (c *SyncCoordinator) beginSession(user fguser.User, forceRefresh bool) <-chan error {
	ready := make(chan error, 1)
	c.lock.Lock()
	if c.closed {
		c.lock.Unlock()
		ready <- ErrClosed
		return ready
	}

	if !forceRefresh && c.haveUser && user.Equal(c.user) {
		if c.racing {
			// collapse into the in-flight operation: one network round trip,
			// every channel resolved with the same outcome
			c.waiters = append(c.waiters, ready)
			c.lock.Unlock()
			return ready
		}
		if c.initialized.Get() {
			c.lock.Unlock()
			ready <- nil
			return ready
		}
	}

	if c.racing {
		for _, ch := range c.waiters {
			ch <- ErrSuperseded
		}
	}

	c.generation++
	gen := c.generation
	c.user = user
	c.haveUser = true
	c.racing = true
	c.pendingUpgrade = false
	c.initialized.Set(false)
	c.waiters = []chan<- error{ready}
	c.stopBackgroundLocked()

	// The provisional snapshot must be visible to evaluations before the race
	// begins: the new user sees cache-or-default values, never the old user's.
	provisional := c.fallback
	if cached, ok := c.store.Load(user.CacheKey()); ok {
		provisional = cached.WithSource(fgstoretypes.SourceCache)
	}
	c.current.Store(provisional)
	c.fetchInFlight = true
	c.lock.Unlock()

	c.loggers.Infof("Synchronizing evaluation data (provisional source: %s)", provisional.Source)
	go c.runRace(user, gen, provisional)
	return ready
}

// runRace resolves a session's initial race: whichever of the fetch and the timeout
// timer fires first resolves readiness, and a fetch that loses the race keeps
// running so its result can still be applied afterward.
func (c *SyncCoordinator) runRace(user fguser.User, gen uint64, prior fgstoretypes.Snapshot) {
	timer := time.NewTimer(c.initTimeout)
	defer timer.Stop()

	resultCh := make(chan fetchOutcome, 1)
	go func() {
		snapshot, noChanges, err := c.fetch(user, prior, prior.SyncTime)
		resultCh <- fetchOutcome{snapshot: snapshot, noChanges: noChanges, err: err}
	}()

	select {
	case res := <-resultCh:
		c.finishFetch(gen)
		c.applyRaceResult(user, gen, res, false)
	case <-timer.C:
		c.markPendingUpgrade(gen, prior.Source)
		c.resolveRace(gen, nil)
		c.startBackground(gen)
		// The losing fetch is not cancelled; salvage its eventual result.
		select {
		case res := <-resultCh:
			c.finishFetch(gen)
			c.applyRaceResult(user, gen, res, true)
		case <-c.closeCh:
		}
	case <-c.closeCh:
	}
}

func (c *SyncCoordinator) applyRaceResult(user fguser.User, gen uint64, res fetchOutcome, late bool) {
	if res.err != nil {
		if late {
			c.loggers.Warnf("Deferred fetch failed after timeout fallback: %s", res.err)
		} else {
			c.resolveRace(gen, res.err)
		}
		if IsErrorUnauthorized(res.err) {
			// a bad key will not get better; leave the session on defaults
			c.stopBackgroundIfCurrent(gen)
			return
		}
		if !late {
			c.startBackground(gen)
		}
		return
	}
	if res.noChanges {
		c.confirmCurrent(gen)
	} else {
		c.acceptSnapshot(user, gen, res.snapshot)
	}
	if !late {
		c.resolveRace(gen, nil)
		c.startBackground(gen)
	}
}

// fetch funnels all fetches through a singleflight group keyed by identity and
// watermark, enforcing at most one outstanding network request per identity.
func (c *SyncCoordinator) fetch(
	user fguser.User,
	prior fgstoretypes.Snapshot,
	since ldtime.UnixMillisecondTime,
) (fgstoretypes.Snapshot, bool, error) {
	key := user.CacheKey() + ":" + strconv.FormatUint(uint64(since), 10)
	v, err, _ := c.inflight.Do(key, func() (interface{}, error) {
		snapshot, noChanges, err := c.fetcher.Fetch(context.Background(), user, prior, since)
		if err != nil {
			return nil, err
		}
		return fetchOutcome{snapshot: snapshot, noChanges: noChanges}, nil
	})
	if err != nil {
		return fgstoretypes.Snapshot{}, false, err
	}
	res := v.(fetchOutcome)
	return res.snapshot, res.noChanges, nil
}

// acceptSnapshot installs a network-sourced snapshot and persists it, unless the
// race that produced it has been superseded.
func (c *SyncCoordinator) acceptSnapshot(user fguser.User, gen uint64, snapshot fgstoretypes.Snapshot) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if gen != c.generation || c.closed {
		return
	}
	snapshot = snapshot.WithSource(fgstoretypes.SourceNetwork)
	c.current.Store(snapshot)
	c.pendingUpgrade = false
	c.initialized.Set(true)
	c.store.Save(user.CacheKey(), snapshot)
	if c.loggers.IsDebugEnabled() {
		c.loggers.Debugf("Adopted network snapshot (syncTime: %d)", snapshot.SyncTime)
	}
}

// confirmCurrent records that the service reported no changes since the current
// watermark, which counts as successful initialization.
func (c *SyncCoordinator) confirmCurrent(gen uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if gen != c.generation || c.closed {
		return
	}
	c.pendingUpgrade = false
	c.initialized.Set(true)
}

func (c *SyncCoordinator) markPendingUpgrade(gen uint64, source fgstoretypes.SnapshotSource) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if gen != c.generation || c.closed {
		return
	}
	c.pendingUpgrade = true
	c.loggers.Warnf("Network did not respond within %s; continuing with %s values", c.initTimeout, source)
}

// resolveRace delivers the race outcome to every waiting channel, exactly once per
// race.
func (c *SyncCoordinator) resolveRace(gen uint64, err error) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if gen != c.generation || !c.racing {
		return
	}
	c.racing = false
	for _, ch := range c.waiters {
		ch <- err
	}
	c.waiters = nil
}

func (c *SyncCoordinator) finishFetch(gen uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if gen == c.generation {
		c.fetchInFlight = false
	}
}

func (c *SyncCoordinator) startBackground(gen uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if gen != c.generation || c.closed || c.bgStop != nil {
		return
	}
	stop := make(chan struct{})
	c.bgStop = stop
	go c.runBackgroundSync(gen, stop)
}

func (c *SyncCoordinator) stopBackgroundLocked() {
	if c.bgStop != nil {
		close(c.bgStop)
		c.bgStop = nil
	}
}

func (c *SyncCoordinator) stopBackgroundIfCurrent(gen uint64) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if gen == c.generation {
		c.stopBackgroundLocked()
	}
}

// runBackgroundSync refreshes the snapshot every syncInterval. A tick that fires
// while a previous fetch is still outstanding is skipped, so there is never more
// than one fetch in flight. Errors are logged and retried at the next tick, except
// for an invalid key, which stops synchronization for the session.
func (c *SyncCoordinator) runBackgroundSync(gen uint64, stop <-chan struct{}) {
	ticker := time.NewTicker(c.syncInterval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-c.closeCh:
			return
		case <-ticker.C:
			c.lock.Lock()
			if gen != c.generation || c.closed {
				c.lock.Unlock()
				return
			}
			if c.fetchInFlight {
				c.lock.Unlock()
				if c.loggers.IsDebugEnabled() {
					c.loggers.Debug("Skipping scheduled sync because the previous fetch is still in flight")
				}
				continue
			}
			c.fetchInFlight = true
			user := c.user
			c.lock.Unlock()
			prior := c.Current()

			snapshot, noChanges, err := c.fetch(user, prior, prior.SyncTime)
			c.finishFetch(gen)
			if err != nil {
				if hse, ok := err.(httpStatusError); ok {
					if !checkIfErrorIsRecoverableAndLog(
						c.loggers, httpErrorDescription(hse.Code), syncErrorContext, hse.Code, syncWillRetryMessage,
					) {
						return
					}
				} else {
					checkIfErrorIsRecoverableAndLog(c.loggers, err.Error(), syncErrorContext, 0, syncWillRetryMessage)
				}
				continue
			}
			if !noChanges {
				c.acceptSnapshot(user, gen, snapshot)
			}
		}
	}
}

// Current returns the current snapshot. It never blocks and is safe to call
// concurrently with any other coordinator operation.
func (c *SyncCoordinator) Current() fgstoretypes.Snapshot {
	return c.current.Load().(fgstoretypes.Snapshot)
}

// Initialized reports whether the active session has received at least one
// confirmation from the evaluation service.
func (c *SyncCoordinator) Initialized() bool {
	return c.initialized.Get()
}

// PendingUpgrade reports whether the session resolved from cache/default data with
// a network fetch still outstanding.
func (c *SyncCoordinator) PendingUpgrade() bool {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.pendingUpgrade
}

// SetFallback replaces the fallback snapshot (used when bootstrap data is loaded or
// reloaded). If evaluations are currently being served from fallback data, the new
// data becomes visible immediately; cache- or network-sourced data is never
// displaced by it.
func (c *SyncCoordinator) SetFallback(snapshot fgstoretypes.Snapshot) {
	c.lock.Lock()
	defer c.lock.Unlock()
	if c.closed {
		return
	}
	c.fallback = snapshot
	current := c.Current()
	if current.Source == fgstoretypes.SourceDefault || current.Source == fgstoretypes.SourceBootstrap {
		c.current.Store(snapshot)
	}
}

// GetInitTimeout returns the configured init timeout, for testing.
func (c *SyncCoordinator) GetInitTimeout() time.Duration {
	return c.initTimeout
}

// GetSyncInterval returns the configured sync interval, for testing.
func (c *SyncCoordinator) GetSyncInterval() time.Duration {
	return c.syncInterval
}

// Close shuts the coordinator down. Pending readiness channels receive ErrClosed,
// in-flight results are discarded, and evaluations return default values from then
// on.
func (c *SyncCoordinator) Close() error {
	c.closeOnce.Do(func() {
		c.lock.Lock()
		c.closed = true
		c.generation++ // invalidates any in-flight race or background result
		c.stopBackgroundLocked()
		waiters := c.waiters
		c.waiters = nil
		c.racing = false
		c.initialized.Set(false)
		c.current.Store(fgstoretypes.Snapshot{})
		c.lock.Unlock()
		close(c.closeCh)
		for _, ch := range waiters {
			ch <- ErrClosed
		}
	})
	return nil
}
