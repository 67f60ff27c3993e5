package sharedtest

import (
	"github.com/launchdarkly/go-sdk-common/v3/ldtime"
	"github.com/launchdarkly/go-sdk-common/v3/ldvalue"

	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

// MakeGateSnapshot returns a snapshot containing a single gate, keyed by the hash of
// name, with the given sync watermark.
func MakeGateSnapshot(name string, value bool, syncTime ldtime.UnixMillisecondTime) fgstoretypes.Snapshot {
	return fgstoretypes.Snapshot{
		Gates: map[string]fgstoretypes.GateResult{
			fgstoretypes.HashName(name): {Value: value, RuleID: "test-rule"},
		},
		SyncTime: syncTime,
	}
}

// MakeConfigSnapshot returns a snapshot containing a single config, keyed by the hash
// of name, with the given sync watermark.
func MakeConfigSnapshot(name string, value ldvalue.Value, syncTime ldtime.UnixMillisecondTime) fgstoretypes.Snapshot {
	return fgstoretypes.Snapshot{
		Configs: map[string]fgstoretypes.ConfigResult{
			fgstoretypes.HashName(name): {Value: value, RuleID: "test-rule"},
		},
		SyncTime: syncTime,
	}
}
