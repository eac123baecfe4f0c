package settings

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/pelletier/go-toml/v2"
)

// Backend persists raw values. Values handed to Save are already coerced to
// their declared types; values returned by Load may need coercion.
type Backend interface {
	Load() (map[string]interface{}, error)
	Save(values map[string]interface{}) error
}

// MemoryBackend keeps values in memory. It is the backend of test stores.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string]interface{}
	saves  int
	// FailSave makes Save return this error when set.
	FailSave error
}

// NewMemoryBackend returns a backend seeded with values.
func NewMemoryBackend(seed map[string]interface{}) *MemoryBackend {
	values := make(map[string]interface{}, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &MemoryBackend{values: values}
}

// Load returns a copy of the stored values.
func (m *MemoryBackend) Load() (map[string]interface{}, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]interface{}, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

// Save replaces the stored values.
func (m *MemoryBackend) Save(values map[string]interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailSave != nil {
		return m.FailSave
	}
	m.values = make(map[string]interface{}, len(values))
	for k, v := range values {
		m.values[k] = v
	}
	m.saves++
	return nil
}

// Put changes a raw value behind the store's back, as an external editor would.
func (m *MemoryBackend) Put(key string, value interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
}

// Saves returns how many times Save succeeded.
func (m *MemoryBackend) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// FileBackend persists values as a flat TOML table.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend for path. The file is created on first save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the backing file.
func (f *FileBackend) Path() string { return f.path }

// Load reads the file; a missing file yields no values.
func (f *FileBackend) Load() (map[string]interface{}, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]interface{}{}, nil
		}
		return nil, fmt.Errorf("read settings file: %w", err)
	}

	values := map[string]interface{}{}
	if err := toml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse settings file %s: %w", f.path, err)
	}
	return values, nil
}

// Save writes the file atomically: a temp file in the same directory is renamed over it.
func (f *FileBackend) Save(values map[string]interface{}) error {
	data, err := toml.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create settings directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(f.path)+".*")
	if err != nil {
		return fmt.Errorf("create temp settings file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("write settings file: %w", err)
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace settings file: %w", err)
	}
	return nil
}
