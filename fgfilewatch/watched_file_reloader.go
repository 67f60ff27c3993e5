// Package fgfilewatch lets the SDK reload a bootstrap data file automatically when
// it changes. It should be used in conjunction with the fgfiledata package. The two
// packages are separate so as to avoid bringing the file-watching dependency to
// users who do not need automatic reloading.
package fgfilewatch

import (
	"fmt"
	"path"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/launchdarkly/go-sdk-common/v3/ldlog"
)

const retryDuration = time.Second

type fileWatcher struct {
	watcher  *fsnotify.Watcher
	loggers  ldlog.Loggers
	reload   func()
	path     string
	realPath string
}

// WatchFile sets up a mechanism for a file bootstrap source to reload whenever its
// source file has been modified. Use it as follows:
//
//	config := fgclient.Config{
//	    Bootstrap: fgfiledata.BootstrapFile("./my-values.yaml").
//	        UseReloader(fgfilewatch.WatchFile),
//	}
func WatchFile(path string, loggers ldlog.Loggers, reload func(), closeCh <-chan struct{}) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("unable to create file watcher: %s", err)
	}
	fw := &fileWatcher{
		watcher: watcher,
		loggers: loggers,
		reload:  reload,
		path:    path,
	}
	go fw.run(closeCh)
	return nil
}

func (fw *fileWatcher) run(closeCh <-chan struct{}) {
	retryCh := make(chan struct{}, 1)
	scheduleRetry := func() {
		time.AfterFunc(retryDuration, func() {
			select {
			case retryCh <- struct{}{}: // don't need multiple retries so no need to block
			default:
			}
		})
	}
	for {
		if err := fw.setupWatch(); err != nil {
			fw.loggers.Error(err.Error())
			scheduleRetry()
		}

		// We do the reload here rather than after waitForEvents, even though that means there will be a
		// redundant load when we first start up, because otherwise there's a potential race condition where
		// file changes could happen before we had set up our file watcher.
		fw.reload()

		quit := fw.waitForEvents(closeCh, retryCh)
		if quit {
			return
		}
	}
}

// setupWatch watches both the file and its directory, so that an atomic
// write-then-rename replacement is seen even though it swaps the inode out from
// under the file watch.
func (fw *fileWatcher) setupWatch() error {
	dirPath := path.Dir(fw.path)
	realDirPath, err := filepath.EvalSymlinks(dirPath)
	if err != nil {
		return fmt.Errorf(`unable to evaluate symlinks for "%s": %s`, dirPath, err)
	}

	fw.realPath = path.Join(realDirPath, path.Base(fw.path))
	if err = fw.watcher.Add(fw.realPath); err != nil {
		return fmt.Errorf(`unable to watch path "%s": %s`, fw.realPath, err)
	}
	if err = fw.watcher.Add(realDirPath); err != nil {
		return fmt.Errorf(`unable to watch path "%s": %s`, realDirPath, err)
	}
	return nil
}

func (fw *fileWatcher) waitForEvents(closeCh <-chan struct{}, retryCh <-chan struct{}) bool {
	for {
		select {
		case <-closeCh:
			if err := fw.watcher.Close(); err != nil {
				fw.loggers.Errorf("Error closing file watcher: %s", err)
			}
			return true
		case event := <-fw.watcher.Events:
			if event.Name != fw.realPath {
				break
			}
			fw.consumeExtraEvents()
			return false
		case err := <-fw.watcher.Errors:
			fw.loggers.Errorf("File watcher error: %s", err)
		case <-retryCh:
			consumeExtraRetries(retryCh)
			return false
		}
	}
}

func (fw *fileWatcher) consumeExtraEvents() {
	for {
		select {
		case <-fw.watcher.Events:
		default:
			return
		}
	}
}

func consumeExtraRetries(retryCh <-chan struct{}) {
	for {
		select {
		case <-retryCh:
		default:
			return
		}
	}
}
