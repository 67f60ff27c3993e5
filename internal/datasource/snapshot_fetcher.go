package datasource

import (
	"context"
	"net/http"

	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"golang.org/x/exp/maps"

	"github.com/featuregate/go-client-sdk/fguser"
	"github.com/featuregate/go-client-sdk/subsystems"
	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

// SnapshotFetcherImpl is the standard SnapshotFetcher: it performs the HTTP request
// through its requestor and applies delta-merge semantics over the caller's prior
// snapshot.
//
// This type is exported from internal so that the RemoteFetcherBuilder tests can
// verify its configuration. All other code outside this package should interact
// with it only via the SnapshotFetcher interface.
type SnapshotFetcherImpl struct {
	requestor requestor
	baseURI   string
}

// NewSnapshotFetcher creates the standard SnapshotFetcher. If httpClient is nil,
// one is created from the context's HTTP configuration.
func NewSnapshotFetcher(
	clientContext subsystems.ClientContext,
	httpClient *http.Client,
	baseURI string,
) *SnapshotFetcherImpl {
	return &SnapshotFetcherImpl{
		requestor: newRequestorImpl(clientContext, httpClient, baseURI),
		baseURI:   baseURI,
	}
}

// Fetch implements subsystems.SnapshotFetcher.
func (f *SnapshotFetcherImpl) Fetch(
	ctx context.Context,
	user fguser.User,
	prior fgstoretypes.Snapshot,
	since ldtime.UnixMillisecondTime,
) (fgstoretypes.Snapshot, bool, error) {
	snapshot, fullUpdate, noChanges, err := f.requestor.requestSnapshot(ctx, user, since)
	if err != nil || noChanges {
		return fgstoretypes.Snapshot{}, noChanges, err
	}
	if since > 0 && !fullUpdate {
		snapshot = mergeDelta(prior, snapshot)
	}
	return snapshot, false, nil
}

// GetBaseURI returns the configured base URI, for testing.
func (f *SnapshotFetcherImpl) GetBaseURI() string {
	return f.baseURI
}

// mergeDelta overlays a delta response onto the prior full snapshot. New values
// overwrite old ones by key; keys absent from the delta are retained unchanged.
func mergeDelta(prior, delta fgstoretypes.Snapshot) fgstoretypes.Snapshot {
	gates := maps.Clone(prior.Gates)
	if gates == nil {
		gates = make(map[string]fgstoretypes.GateResult, len(delta.Gates))
	}
	for key, g := range delta.Gates {
		gates[key] = g
	}
	configs := maps.Clone(prior.Configs)
	if configs == nil {
		configs = make(map[string]fgstoretypes.ConfigResult, len(delta.Configs))
	}
	for key, c := range delta.Configs {
		configs[key] = c
	}
	return fgstoretypes.Snapshot{
		Gates:    gates,
		Configs:  configs,
		SyncTime: delta.SyncTime,
	}
}
