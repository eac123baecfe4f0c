package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/stretchr/testify/require"
)

// NewMemoryStore opens a store for s on a memory backend seeded with seed.
func NewMemoryStore(t *testing.T, s *schema.Schema, seed map[string]interface{}) (*settings.Store, *settings.MemoryBackend) {
	t.Helper()

	backend := settings.NewMemoryBackend(seed)
	store, err := settings.Open(s, backend)
	require.NoError(t, err)
	return store, backend
}

// NewFileStore opens a store for s backed by a settings file in a temp dir.
func NewFileStore(t *testing.T, s *schema.Schema) (*settings.Store, *settings.FileBackend) {
	t.Helper()

	backend := settings.NewFileBackend(filepath.Join(t.TempDir(), "settings.toml"))
	store, err := settings.Open(s, backend)
	require.NoError(t, err)
	return store, backend
}

// SeedAssets creates dir and writes one small file per name. It returns dir.
func SeedAssets(t *testing.T, dir string, names ...string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range names {
		content := "asset " + name + " " + RandomString(8)
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}
	return dir
}

// RandomString generates a random hex string of the specified length
func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}

// Recorder collects change notifications.
type Recorder struct {
	mu      sync.Mutex
	changes []settings.Change
}

// Record subscribes a recorder to every key of store. The subscription ends
// with the test.
func Record(t *testing.T, store *settings.Store) *Recorder {
	t.Helper()

	r := &Recorder{}
	cancel := store.SubscribeAll(func(c settings.Change) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.changes = append(r.changes, c)
	})
	t.Cleanup(cancel)
	return r
}

// Changes returns a copy of everything recorded so far.
func (r *Recorder) Changes() []settings.Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]settings.Change(nil), r.changes...)
}

// Keys returns the recorded keys in delivery order.
func (r *Recorder) Keys() []schema.Key {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]schema.Key, len(r.changes))
	for i, c := range r.changes {
		keys[i] = c.Key
	}
	return keys
}

// Reset forgets recorded changes.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = nil
}
