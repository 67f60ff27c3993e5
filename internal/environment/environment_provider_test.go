package environment

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/featuregate/go-client-sdk/internal/datastore"
)

func TestMetadataContainsStandardFields(t *testing.T) {
	p := NewProvider(datastore.NewMemoryPersistentStore(), "1.2.3", "9.9.9", ldlog.NewDisabledLoggers())
	metadata := p.GetMetadata("")

	assert.Equal(t, runtime.GOOS, metadata["os"])
	assert.Equal(t, "go-client", metadata["sdkType"])
	assert.Equal(t, "1.2.3", metadata["sdkVersion"])
	assert.Equal(t, "9.9.9", metadata["appVersion"])
	assert.NotEmpty(t, metadata["stableID"])
	assert.NotEmpty(t, metadata["sessionID"])
}

func TestAppVersionOmittedWhenUnset(t *testing.T) {
	p := NewProvider(datastore.NewMemoryPersistentStore(), "1.2.3", "", ldlog.NewDisabledLoggers())
	_, ok := p.GetMetadata("")["appVersion"]
	assert.False(t, ok)
}

func TestStableIDIsGeneratedOnceAndPersisted(t *testing.T) {
	store := datastore.NewMemoryPersistentStore()
	p := NewProvider(store, "1.2.3", "", ldlog.NewDisabledLoggers())

	id1 := p.GetMetadata("")["stableID"]
	id2 := p.GetMetadata("")["stableID"]
	assert.Equal(t, id1, id2)

	// A later provider over the same store sees the same device identity.
	p2 := NewProvider(store, "1.2.3", "", ldlog.NewDisabledLoggers())
	assert.Equal(t, id1, p2.GetMetadata("")["stableID"])
}

func TestStableIDDiffersBetweenStores(t *testing.T) {
	p1 := NewProvider(datastore.NewMemoryPersistentStore(), "1.2.3", "", ldlog.NewDisabledLoggers())
	p2 := NewProvider(datastore.NewMemoryPersistentStore(), "1.2.3", "", ldlog.NewDisabledLoggers())
	assert.NotEqual(t, p1.GetMetadata("")["stableID"], p2.GetMetadata("")["stableID"])
}

func TestStableIDOverrideIsUsedAndPersisted(t *testing.T) {
	store := datastore.NewMemoryPersistentStore()
	p := NewProvider(store, "1.2.3", "", ldlog.NewDisabledLoggers())

	assert.Equal(t, "custom-device", p.GetMetadata("custom-device")["stableID"])
	// The override sticks for later calls without it.
	assert.Equal(t, "custom-device", p.GetMetadata("")["stableID"])

	data, ok := store.Get("stableID")
	require.True(t, ok)
	assert.Equal(t, "custom-device", string(data))
}

func TestSessionIDIsPerProviderLifetime(t *testing.T) {
	store := datastore.NewMemoryPersistentStore()
	p1 := NewProvider(store, "1.2.3", "", ldlog.NewDisabledLoggers())
	p2 := NewProvider(store, "1.2.3", "", ldlog.NewDisabledLoggers())

	assert.Equal(t, p1.GetMetadata("")["sessionID"], p1.GetMetadata("")["sessionID"])
	assert.NotEqual(t, p1.GetMetadata("")["sessionID"], p2.GetMetadata("")["sessionID"])
}
