package subsystems

import (
	"context"

	"github.com/launchdarkly/go-sdk-common/v3/ldtime"

	"github.com/featuregate/go-client-sdk/fguser"
	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

// SnapshotFetcher retrieves evaluated gate/config snapshots from the evaluation
// service.
//
// A since value of zero requests a full snapshot; a non-zero value requests only the
// deltas since that watermark, which the fetcher merges over prior before returning,
// so the result is always a complete snapshot. A key absent from a delta response
// means unchanged, never removed; removals are delivered through full responses.
//
// noChanges is true when the service indicated that nothing has changed since the
// watermark; in that case snapshot is the zero value and the caller keeps what it
// has.
//
// The SDK guarantees at most one outstanding Fetch per user identity. Fetch must
// honor ctx cancellation, but the SDK's initialization timeout deliberately does not
// cancel the context: a fetch that outlives the timeout keeps running and its result
// is still applied when it arrives.
type SnapshotFetcher interface {
	Fetch(
		ctx context.Context,
		user fguser.User,
		prior fgstoretypes.Snapshot,
		since ldtime.UnixMillisecondTime,
	) (snapshot fgstoretypes.Snapshot, noChanges bool, err error)
}
