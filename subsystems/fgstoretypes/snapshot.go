package fgstoretypes

import (
	"crypto/sha256"
	"encoding/base64"

	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"
)

// SnapshotSource indicates where a Snapshot's data came from. It is provenance
// information for diagnostics and logging; it never affects evaluation results.
type SnapshotSource int

const (
	// SourceDefault means no data has been received from anywhere; all evaluations
	// return default values.
	SourceDefault SnapshotSource = iota
	// SourceBootstrap means the data was loaded from a local bootstrap file.
	SourceBootstrap
	// SourceCache means the data was loaded from the persisted local cache.
	SourceCache
	// SourceNetwork means the data came from the evaluation service.
	SourceNetwork
)

// String returns a human-readable name for logging.
func (s SnapshotSource) String() string {
	switch s {
	case SourceBootstrap:
		return "bootstrap"
	case SourceCache:
		return "cache"
	case SourceNetwork:
		return "network"
	default:
		return "default"
	}
}

// GateResult is the server-evaluated result of a single boolean feature gate.
type GateResult struct {
	// Value is the gate state for this user.
	Value bool
	// RuleID identifies the server-side rule that produced the value.
	RuleID string
}

// ConfigResult is the server-evaluated result of a single dynamic config.
type ConfigResult struct {
	// Value is the structured config payload.
	Value ldvalue.Value
	// RuleID identifies the server-side rule that produced the value.
	RuleID string
}

// Snapshot is an immutable bundle of all evaluated gate and config results known for
// one user, plus the server sync watermark and provenance. Gates and Configs are
// keyed by HashName of the gate/config name.
//
// A Snapshot must never be modified after construction; updates replace the current
// snapshot reference wholesale. The maps may be shared between snapshots, so callers
// must treat them as read-only.
type Snapshot struct {
	Gates    map[string]GateResult
	Configs  map[string]ConfigResult
	SyncTime ldtime.UnixMillisecondTime
	Source   SnapshotSource
}

// WithSource returns a copy of the snapshot stamped with a different provenance.
// The underlying result maps are shared, not copied.
func (s Snapshot) WithSource(source SnapshotSource) Snapshot {
	s.Source = source
	return s
}

// HashName returns the hashed form of a gate or config name, which is how results
// are keyed both on the wire and in Snapshot maps.
func HashName(name string) string {
	sum := sha256.Sum256([]byte(name))
	return base64.StdEncoding.EncodeToString(sum[:])
}
