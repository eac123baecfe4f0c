package migrate

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofrs/flock"
	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/grovetools/wallprefs/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

var fiveImages = []string{"1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg"}

type fixture struct {
	store  *settings.Store
	oldDir string
	newDir string
	lock   string
}

func newFixture(t *testing.T, files ...string) *fixture {
	t.Helper()
	root := t.TempDir()
	f := &fixture{
		oldDir: filepath.Join(root, "old"),
		newDir: filepath.Join(root, "new"),
		lock:   filepath.Join(root, "state", "migrate.lock"),
	}
	require.NoError(t, os.MkdirAll(f.oldDir, 0755))
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(f.oldDir, name), []byte("data of "+name), 0644))
	}

	f.store, _ = testutil.NewMemoryStore(t, schema.Wallpaper(), map[string]interface{}{
		"download-folder": f.oldDir,
	})
	return f
}

func (f *fixture) manager(t *testing.T, opts ...Option) *Manager {
	t.Helper()
	m, err := NewManager(f.store, append([]Option{WithLockFile(f.lock)}, opts...)...)
	require.NoError(t, err)
	return m
}

func failOn(name string, cause error) func(string, string) error {
	return func(src, dst string) error {
		if filepath.Base(src) == name {
			return &os.LinkError{Op: "rename", Old: src, New: dst, Err: cause}
		}
		return os.Rename(src, dst)
	}
}

func TestRelocateMovesEverythingAndCommits(t *testing.T) {
	f := newFixture(t, append(fiveImages, "bing.json", "notes.txt")...)
	m := f.manager(t)

	report, err := m.Relocate(context.Background(), f.newDir)
	require.NoError(t, err)

	assert.True(t, report.Committed)
	assert.Equal(t, append(fiveImages, "bing.json"), report.Moved)
	assert.Empty(t, report.Failures)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, f.newDir, f.store.GetString(schema.DownloadFolder))

	for _, name := range report.Moved {
		assert.FileExists(t, filepath.Join(f.newDir, name))
		assert.NoFileExists(t, filepath.Join(f.oldDir, name))
	}
	assert.FileExists(t, filepath.Join(f.oldDir, "notes.txt"), "non-assets stay behind")
	assert.Contains(t, report.Summary(), "moved 6 file(s)")
}

func TestPartialFailureWithholdsCommit(t *testing.T) {
	f := newFixture(t, fiveImages...)
	m := f.manager(t)
	m.rename = failOn("3.jpg", fs.ErrPermission)

	report, err := m.Relocate(context.Background(), f.newDir)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeMigrationFailed))

	require.NotNil(t, report)
	assert.False(t, report.Committed)
	assert.Equal(t, f.oldDir, f.store.GetString(schema.DownloadFolder))

	require.Len(t, report.Failures, 1)
	assert.Equal(t, "3.jpg", report.Failures[0].File)
	assert.ErrorIs(t, report.Failures[0].Cause, fs.ErrPermission)

	for _, name := range []string{"1.jpg", "2.jpg", "4.jpg", "5.jpg"} {
		assert.FileExists(t, filepath.Join(f.newDir, name))
	}
	assert.FileExists(t, filepath.Join(f.oldDir, "3.jpg"))
	assert.NoFileExists(t, filepath.Join(f.newDir, "3.jpg"))
}

func TestDestinationCollisionIsAFailure(t *testing.T) {
	f := newFixture(t, fiveImages...)
	require.NoError(t, os.MkdirAll(f.newDir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(f.newDir, "3.jpg"), []byte("someone else's"), 0644))
	m := f.manager(t)

	report, err := m.Migrate(context.Background(), f.oldDir, f.newDir)
	require.NoError(t, err)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "3.jpg", report.Failures[0].File)
	assert.ErrorIs(t, report.Failures[0].Cause, errCollision)

	data, err := os.ReadFile(filepath.Join(f.newDir, "3.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "someone else's", string(data), "existing files are never overwritten")
}

func TestCommitAnyAcceptsPartialSuccess(t *testing.T) {
	f := newFixture(t, fiveImages...)
	m := f.manager(t, WithPolicy(CommitAny))
	m.rename = failOn("3.jpg", fs.ErrPermission)

	report, err := m.Relocate(context.Background(), f.newDir)
	require.NoError(t, err)
	assert.True(t, report.Committed)
	assert.Equal(t, f.newDir, f.store.GetString(schema.DownloadFolder))
}

func TestTotalFailureNeverCommits(t *testing.T) {
	f := newFixture(t, "only.png")
	m := f.manager(t, WithPolicy(CommitAny))
	m.rename = failOn("only.png", fs.ErrPermission)

	report, err := m.Relocate(context.Background(), f.newDir)
	require.Error(t, err)
	assert.False(t, report.Committed)
	assert.Equal(t, f.oldDir, f.store.GetString(schema.DownloadFolder))
}

func TestEmptySourceCommits(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.RemoveAll(f.oldDir))
	m := f.manager(t)

	report, err := m.Relocate(context.Background(), f.newDir)
	require.NoError(t, err)
	assert.True(t, report.Committed)
	assert.DirExists(t, f.newDir)
}

func TestCrossDeviceFallsBackToVerifiedCopy(t *testing.T) {
	f := newFixture(t, fiveImages...)
	m := f.manager(t)
	m.rename = func(src, dst string) error {
		return &os.LinkError{Op: "rename", Old: src, New: dst, Err: unix.EXDEV}
	}

	report, err := m.Relocate(context.Background(), f.newDir)
	require.NoError(t, err)
	assert.Len(t, report.Moved, 5)
	for _, name := range fiveImages {
		data, err := os.ReadFile(filepath.Join(f.newDir, name))
		require.NoError(t, err)
		assert.Equal(t, "data of "+name, string(data))
		assert.NoFileExists(t, filepath.Join(f.oldDir, name))
	}
	assert.Equal(t, int64(5*len("data of 1.jpg")), report.Bytes)
}

func TestSameDirectoryIsANoOp(t *testing.T) {
	f := newFixture(t, fiveImages...)
	m := f.manager(t)

	report, err := m.Relocate(context.Background(), f.oldDir+string(filepath.Separator))
	require.NoError(t, err)
	assert.Empty(t, report.Moved)
	assert.False(t, report.Committed)
	assert.FileExists(t, filepath.Join(f.oldDir, "1.jpg"))
}

func TestDestinationInsideSourceIsRejected(t *testing.T) {
	f := newFixture(t, fiveImages...)
	m := f.manager(t)

	nested := filepath.Join(f.oldDir, "archive")
	_, err := m.Relocate(context.Background(), nested)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
	assert.Equal(t, f.oldDir, f.store.GetString(schema.DownloadFolder))
	assert.FileExists(t, filepath.Join(f.oldDir, "1.jpg"))
	assert.NoDirExists(t, nested)
}

func TestDestinationThatCannotBeCreated(t *testing.T) {
	f := newFixture(t, fiveImages...)
	blocker := filepath.Join(filepath.Dir(f.newDir), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	m := f.manager(t)

	_, err := m.Relocate(context.Background(), filepath.Join(blocker, "sub"))
	assert.True(t, errors.Is(err, errors.ErrCodeMigrationFailed))
	assert.Equal(t, f.oldDir, f.store.GetString(schema.DownloadFolder))
}

func TestCancellationStopsBetweenFiles(t *testing.T) {
	f := newFixture(t, fiveImages...)
	ctx, cancel := context.WithCancel(context.Background())
	m := f.manager(t, WithProgress(func(p Progress) {
		if p.Done == 2 {
			cancel()
		}
	}))

	report, err := m.Relocate(ctx, f.newDir)
	require.Error(t, err)
	assert.Equal(t, []string{"1.jpg", "2.jpg"}, report.Moved)
	require.Len(t, report.Failures, 3)
	assert.ErrorIs(t, report.Failures[0].Cause, context.Canceled)
}

func TestSecondMigrationIsRejected(t *testing.T) {
	f := newFixture(t, fiveImages...)

	var nested error
	m := f.manager(t)
	m.progress = func(p Progress) {
		if p.Done == 1 {
			_, nested = m.Migrate(context.Background(), f.oldDir, filepath.Join(f.newDir, "other"))
		}
	}
	_, err := m.Migrate(context.Background(), f.oldDir, f.newDir)
	require.NoError(t, err)
	assert.True(t, errors.Is(nested, errors.ErrCodeMigrationInProgress))

	// Another process holding the lock file.
	require.NoError(t, os.MkdirAll(filepath.Dir(f.lock), 0755))
	held := flock.New(f.lock)
	ok, err := held.TryLock()
	require.NoError(t, err)
	require.True(t, ok)
	defer held.Unlock()

	other := f.manager(t)
	_, err = other.Migrate(context.Background(), f.newDir, f.oldDir)
	assert.True(t, errors.Is(err, errors.ErrCodeMigrationInProgress))
}

func TestRelocateAsync(t *testing.T) {
	f := newFixture(t, fiveImages...)
	var seen []Progress
	m := f.manager(t, WithProgress(func(p Progress) { seen = append(seen, p) }))

	res := <-m.RelocateAsync(context.Background(), f.newDir)
	require.NoError(t, res.Err)
	assert.True(t, res.Report.Committed)
	require.Len(t, seen, 5)
	assert.Equal(t, Progress{Done: 5, Total: 5, File: "5.jpg"}, seen[4])
}

func TestSummaryListsFailures(t *testing.T) {
	r := &Report{
		Source:      "/a",
		Destination: "/b",
		Moved:       []string{"1.jpg"},
		Bytes:       2048,
		Failures:    []Failure{{File: "3.jpg", Cause: fs.ErrPermission}},
	}
	s := r.Summary()
	assert.Contains(t, s, "2.0 kB")
	assert.Contains(t, s, "3.jpg: permission denied")
	assert.True(t, strings.HasSuffix(s, "folder unchanged"))
	assert.ErrorIs(t, r.Err(), fs.ErrPermission)
}

func TestInvalidPatterns(t *testing.T) {
	f := newFixture(t)
	_, err := NewManager(f.store, WithPatterns([]string{"[unclosed"}))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigInvalid))
}
