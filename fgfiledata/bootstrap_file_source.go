// Package fgfiledata allows the SDK to load an initial gate/config snapshot from a
// local JSON or YAML file instead of starting from empty defaults. This is intended
// for offline development, tests, and applications that ship known-good values in
// their bundle.
//
// Bootstrap data only ever serves as the fallback: snapshots from the persisted
// cache or the network always take precedence. To reload the file automatically
// when it changes, use it in conjunction with the fgfilewatch package:
//
//	config := fgclient.Config{
//	    Bootstrap: fgfiledata.BootstrapFile("./my-values.yaml").
//	        UseReloader(fgfilewatch.WatchFile),
//	}
package fgfiledata

import (
	"fmt"
	"os"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
	"gopkg.in/ghodss/yaml.v1"

	"github.com/featuregate/go-client-sdk/subsystems"
	"github.com/featuregate/go-client-sdk/subsystems/fgstoretypes"
)

// ReloaderFactory is the type of a function that can watch a file for changes, such
// as fgfilewatch.WatchFile. It calls reload whenever the file has been modified,
// until closeCh is closed.
type ReloaderFactory func(path string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error

// BootstrapFileBuilder configures a file bootstrap source. Create one with
// BootstrapFile and store it in Config.Bootstrap.
type BootstrapFileBuilder struct {
	path            string
	reloaderFactory ReloaderFactory
}

// BootstrapFile returns a configurable factory for a bootstrap source reading the
// given file. The file may contain JSON or YAML in the snapshot layout:
//
//	gates:
//	  <hash>: {value: true, ruleID: bootstrap}
//	configs:
//	  <hash>: {value: {color: blue}, ruleID: bootstrap}
//	time: 0
func BootstrapFile(path string) *BootstrapFileBuilder {
	return &BootstrapFileBuilder{path: path}
}

// UseReloader specifies a mechanism for reloading the file when it changes, such as
// fgfilewatch.WatchFile.
func (b *BootstrapFileBuilder) UseReloader(reloaderFactory ReloaderFactory) *BootstrapFileBuilder {
	b.reloaderFactory = reloaderFactory
	return b
}

// Build is called internally by the SDK.
func (b *BootstrapFileBuilder) Build(
	clientContext subsystems.ClientContext,
) (subsystems.BootstrapSource, error) {
	return &bootstrapFileSource{
		path:            b.path,
		reloaderFactory: b.reloaderFactory,
		loggers:         clientContext.GetLogging().Loggers,
		closeCh:         make(chan struct{}),
	}, nil
}

type bootstrapFileSource struct {
	path            string
	reloaderFactory ReloaderFactory
	loggers         ldlog.Loggers
	closeOnce       sync.Once
	closeCh         chan struct{}
}

// Fetch reads and parses the bootstrap file. YAML input is converted to JSON before
// parsing, so plain JSON files work unchanged.
func (s *bootstrapFileSource) Fetch() (fgstoretypes.Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fgstoretypes.Snapshot{}, fmt.Errorf("unable to read bootstrap file %s: %w", s.path, err)
	}
	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return fgstoretypes.Snapshot{}, fmt.Errorf("bootstrap file %s is not valid JSON or YAML: %w", s.path, err)
	}
	snapshot, err := fgstoretypes.ParseSnapshot(jsonData)
	if err != nil {
		return fgstoretypes.Snapshot{}, fmt.Errorf("bootstrap file %s has an invalid layout: %w", s.path, err)
	}
	return snapshot.WithSource(fgstoretypes.SourceBootstrap), nil
}

// WatchChanges implements subsystems.BootstrapSourceWatcher when a reloader was
// configured.
func (s *bootstrapFileSource) WatchChanges(onChange func()) {
	if s.reloaderFactory == nil {
		return
	}
	if err := s.reloaderFactory(s.path, s.loggers, onChange, s.closeCh); err != nil {
		s.loggers.Errorf("Unable to watch bootstrap file %s: %s", s.path, err)
	}
}

func (s *bootstrapFileSource) Close() error {
	s.closeOnce.Do(func() {
		close(s.closeCh)
	})
	return nil
}
