// Package mocks contains shared mock implementations of SDK component interfaces.
// They are channel-driven so that tests can control exactly when a simulated
// network operation completes.
package mocks

import (
	"context"

	"github.com/launchdarkly/go-sdk-common/v3/ldtime"

	"github.com/featuregate/go-client-sdk/fguser"
	"github.com/featuregate/go-client-sdk/subsystems"
	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

// FetchRequest describes one call to MockFetcher.Fetch. The call blocks until the
// test sends a FetchResult on ReplyCh (or the context is cancelled), so each request
// is paired deterministically with its reply.
type FetchRequest struct {
	User    fguser.User
	Prior   fgstoretypes.Snapshot
	Since   ldtime.UnixMillisecondTime
	ReplyCh chan<- FetchResult
}

// FetchResult is what the test tells a pending MockFetcher.Fetch call to return.
type FetchResult struct {
	Snapshot  fgstoretypes.Snapshot
	NoChanges bool
	Err       error
}

// MockFetcher is a test implementation of subsystems.SnapshotFetcher. Every Fetch
// call posts a FetchRequest to RequestsCh and then blocks until the test replies.
type MockFetcher struct {
	RequestsCh chan FetchRequest
}

// NewMockFetcher creates a MockFetcher with a generously buffered request channel.
func NewMockFetcher() *MockFetcher {
	return &MockFetcher{RequestsCh: make(chan FetchRequest, 100)}
}

// Fetch implements subsystems.SnapshotFetcher.
func (f *MockFetcher) Fetch(
	ctx context.Context,
	user fguser.User,
	prior fgstoretypes.Snapshot,
	since ldtime.UnixMillisecondTime,
) (fgstoretypes.Snapshot, bool, error) {
	replyCh := make(chan FetchResult, 1)
	f.RequestsCh <- FetchRequest{User: user, Prior: prior, Since: since, ReplyCh: replyCh}
	select {
	case res := <-replyCh:
		return res.Snapshot, res.NoChanges, res.Err
	case <-ctx.Done():
		return fgstoretypes.Snapshot{}, false, ctx.Err()
	}
}

// Reply completes the pending Fetch call with a successful snapshot.
func (r FetchRequest) Reply(snapshot fgstoretypes.Snapshot) {
	r.ReplyCh <- FetchResult{Snapshot: snapshot}
}

// ReplyNoChanges completes the pending Fetch call reporting no changes since the
// watermark.
func (r FetchRequest) ReplyNoChanges() {
	r.ReplyCh <- FetchResult{NoChanges: true}
}

// ReplyError completes the pending Fetch call with an error.
func (r FetchRequest) ReplyError(err error) {
	r.ReplyCh <- FetchResult{Err: err}
}

var _ subsystems.SnapshotFetcher = &MockFetcher{}
