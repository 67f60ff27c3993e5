// Package sharedtest contains types and functions used by SDK unit tests in
// multiple packages.
//
// Since it is inside internal/, it can be used by all of the SDK's own packages but
// is not accessible from application code.
package sharedtest

import (
	"testing"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"github.com/launchdarkly/go-sdk-common/v3/ldlogtest"

	"github.com/featuregate/go-client-sdk/subsystems"
)

// TestSDKKey is the standard SDK key used in tests.
const TestSDKKey = "test-sdk-key"

// NewTestContext returns a BasicClientContext with a disabled logger, suitable for
// tests that do not inspect log output.
func NewTestContext() subsystems.BasicClientContext {
	return subsystems.BasicClientContext{
		SDKKey:  TestSDKKey,
		Logging: subsystems.LoggingConfiguration{Loggers: ldlog.NewDisabledLoggers()},
	}
}

// NewTestContextWithLogCapture returns a BasicClientContext whose log output is
// captured, and dumped to the test log if the test fails.
func NewTestContextWithLogCapture(t *testing.T) (subsystems.BasicClientContext, *ldlogtest.MockLog) {
	mockLog := ldlogtest.NewMockLog()
	t.Cleanup(func() { mockLog.DumpIfTestFailed(t) })
	context := NewTestContext()
	context.Logging = subsystems.LoggingConfiguration{Loggers: mockLog.Loggers}
	return context, mockLog
}
