package fgfiledata

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/featuregate/go-client-sdk/internal/sharedtest"
	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

func writeTempFile(t *testing.T, name, content string) string {
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func jsonFileContent() string {
	return fmt.Sprintf(
		`{"gates": {"%s": {"value": true, "ruleID": "bootstrap"}}, "configs": {}, "time": 0}`,
		fgstoretypes.HashName("my-gate"))
}

func yamlFileContent() string {
	return fmt.Sprintf(
		"gates:\n  \"%s\":\n    value: true\n    ruleID: bootstrap\nconfigs: {}\ntime: 0\n",
		fgstoretypes.HashName("my-gate"))
}

func TestBootstrapFileReadsJSON(t *testing.T) {
	path := writeTempFile(t, "data.json", jsonFileContent())
	source, err := BootstrapFile(path).Build(sharedtest.NewTestContext())
	require.NoError(t, err)
	defer source.Close()

	snapshot, err := source.Fetch()
	require.NoError(t, err)
	assert.Equal(t, fgstoretypes.SourceBootstrap, snapshot.Source)
	assert.True(t, snapshot.Gates[fgstoretypes.HashName("my-gate")].Value)
}

func TestBootstrapFileReadsYAML(t *testing.T) {
	path := writeTempFile(t, "data.yaml", yamlFileContent())
	source, err := BootstrapFile(path).Build(sharedtest.NewTestContext())
	require.NoError(t, err)
	defer source.Close()

	snapshot, err := source.Fetch()
	require.NoError(t, err)
	assert.True(t, snapshot.Gates[fgstoretypes.HashName("my-gate")].Value)
}

func TestBootstrapFileMissingFile(t *testing.T) {
	source, err := BootstrapFile(filepath.Join(t.TempDir(), "no-such-file.json")).
		Build(sharedtest.NewTestContext())
	require.NoError(t, err)
	defer source.Close()

	_, err = source.Fetch()
	assert.Error(t, err)
}

func TestBootstrapFileMalformedContent(t *testing.T) {
	path := writeTempFile(t, "data.json", `{"gates": [this is not valid]`)
	source, err := BootstrapFile(path).Build(sharedtest.NewTestContext())
	require.NoError(t, err)
	defer source.Close()

	_, err = source.Fetch()
	assert.Error(t, err)
}

func TestBootstrapFileReloaderIsWiredToClose(t *testing.T) {
	path := writeTempFile(t, "data.json", jsonFileContent())

	var gotPath string
	var gotCloseCh <-chan struct{}
	reloads := 0
	factory := func(p string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error {
		gotPath = p
		gotCloseCh = closeCh
		reload()
		reloads++
		return nil
	}

	source, err := BootstrapFile(path).UseReloader(factory).Build(sharedtest.NewTestContext())
	require.NoError(t, err)

	watcher, ok := source.(interface{ WatchChanges(func()) })
	require.True(t, ok)
	watcher.WatchChanges(func() {})

	assert.Equal(t, path, gotPath)
	assert.Equal(t, 1, reloads)
	require.NotNil(t, gotCloseCh)

	require.NoError(t, source.Close())
	select {
	case <-gotCloseCh:
	default:
		assert.Fail(t, "close channel was not closed")
	}
}

func TestBootstrapFileWithoutReloaderIgnoresWatchChanges(t *testing.T) {
	path := writeTempFile(t, "data.json", jsonFileContent())
	source, err := BootstrapFile(path).Build(sharedtest.NewTestContext())
	require.NoError(t, err)
	defer source.Close()

	watcher, ok := source.(interface{ WatchChanges(func()) })
	require.True(t, ok)
	watcher.WatchChanges(func() {}) // must not panic or block
}
