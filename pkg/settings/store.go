// Package settings holds the client's persisted key/value state: the session
// token and user id, the reel data saver and video quality preferences, and
// install prompt flags. Writes are last-write-wins and live until cleared.
package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/reelhouse/cli/pkg/logger"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// Store is a flat string key/value store. Keys are case-insensitive.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
	Clear() error
}

func normalizeKey(key string) string {
	return strings.ToLower(key)
}

// MemoryStore keeps values in process memory only
type MemoryStore struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewMemoryStore returns an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: map[string]string{}}
}

func (m *MemoryStore) Get(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[normalizeKey(key)]
	return v, ok
}

func (m *MemoryStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[normalizeKey(key)] = value
	return nil
}

func (m *MemoryStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, normalizeKey(key))
	return nil
}

func (m *MemoryStore) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values = map[string]string{}
	return nil
}

// FileStore persists values to a TOML file. Every write rewrites the file.
type FileStore struct {
	mu     sync.RWMutex
	path   string
	values map[string]string
}

// OpenFile loads the store at path. A missing file is an empty store.
func OpenFile(path string) (*FileStore, error) {
	fs := &FileStore{path: path, values: map[string]string{}}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return fs, nil
		}
		return nil, err
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}
	for key, value := range v.AllSettings() {
		fs.values[normalizeKey(key)] = cast.ToString(value)
	}

	logger.Debug("Loaded settings", "path", path, "keys", len(fs.values))
	return fs, nil
}

// Path returns the backing file path
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) Get(key string) (string, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	v, ok := f.values[normalizeKey(key)]
	return v, ok
}

func (f *FileStore) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[normalizeKey(key)] = value
	return f.flush()
}

func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.values, normalizeKey(key))
	return f.flush()
}

func (f *FileStore) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = map[string]string{}
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// flush writes the whole map; callers hold mu
func (f *FileStore) flush() error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}

	v := viper.New()
	v.SetConfigType("toml")
	for key, value := range f.values {
		v.Set(key, value)
	}
	if err := v.WriteConfigAs(f.path); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return os.Chmod(f.path, 0600)
}
