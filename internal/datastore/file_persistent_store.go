package datastore

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/launchdarkly/go-sdk-common/v3/ldlog"

	"github.com/featuregate/go-client-sdk/subsystems"
)

// filePersistentStore keeps all entries in a single JSON file. The whole file is
// rewritten on every Set via a temporary file and rename, so a crash mid-write can
// never leave a torn file behind; a reader sees either the old contents or the new.
//
// Unreadable or corrupt files are treated as empty. The SDK's contract for local
// persistence is best-effort, so every failure here degrades to a cache miss.
type filePersistentStore struct {
	path    string
	lock    sync.Mutex
	loggers ldlog.Loggers
}

// NewFilePersistentStore creates a PersistentStore backed by the JSON file at path.
// The parent directory is created on the first write if it does not exist.
func NewFilePersistentStore(path string, loggers ldlog.Loggers) subsystems.PersistentStore {
	return &filePersistentStore{path: path, loggers: loggers}
}

func (s *filePersistentStore) Get(key string) ([]byte, bool) {
	s.lock.Lock()
	defer s.lock.Unlock()
	entries := s.readAll()
	value, ok := entries[key]
	if !ok {
		return nil, false
	}
	return []byte(value), true
}

func (s *filePersistentStore) Set(key string, data []byte) {
	s.lock.Lock()
	defer s.lock.Unlock()
	entries := s.readAll()
	entries[key] = string(data)
	s.writeAll(entries)
}

func (s *filePersistentStore) Delete(key string) {
	s.lock.Lock()
	defer s.lock.Unlock()
	entries := s.readAll()
	if _, ok := entries[key]; !ok {
		return
	}
	delete(entries, key)
	s.writeAll(entries)
}

func (s *filePersistentStore) DeleteAll() {
	s.lock.Lock()
	defer s.lock.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		s.loggers.Warnf("Failed to remove cache file %s: %s", s.path, err)
	}
}

func (s *filePersistentStore) readAll() map[string]string {
	entries := make(map[string]string)
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.loggers.Warnf("Failed to read cache file %s: %s", s.path, err)
		}
		return entries
	}
	if err := json.Unmarshal(data, &entries); err != nil {
		s.loggers.Warnf("Ignoring corrupt cache file %s: %s", s.path, err)
		return make(map[string]string)
	}
	return entries
}

func (s *filePersistentStore) writeAll(entries map[string]string) {
	data, err := json.Marshal(entries)
	if err != nil {
		s.loggers.Warnf("Failed to serialize cache entries: %s", err)
		return
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		s.loggers.Warnf("Failed to create cache directory %s: %s", dir, err)
		return
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp*")
	if err != nil {
		s.loggers.Warnf("Failed to write cache file %s: %s", s.path, err)
		return
	}
	tmpName := tmp.Name()
	_, writeErr := tmp.Write(data)
	closeErr := tmp.Close()
	if writeErr != nil || closeErr != nil {
		s.loggers.Warnf("Failed to write cache file %s", s.path)
		_ = os.Remove(tmpName)
		return
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		s.loggers.Warnf("Failed to replace cache file %s: %s", s.path, err)
		_ = os.Remove(tmpName)
	}
}
