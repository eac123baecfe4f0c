// Package migrate moves downloaded wallpaper assets when the download folder
// changes. Files are moved first and download-folder is committed afterwards,
// and only when the commit policy accepts the outcome, so the setting never
// names a folder the assets did not reach.
package migrate

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/logging"
	"github.com/grovetools/wallprefs/pkg/paths"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/grovetools/wallprefs/util/pathutil"
	"github.com/moby/patternmatcher"
	"github.com/sirupsen/logrus"
)

// Policy decides whether a migration outcome commits the new folder.
type Policy string

const (
	// CommitAll commits only when every file moved.
	CommitAll Policy = "all"
	// CommitAny commits when at least one file moved or nothing needed moving.
	CommitAny Policy = "any"
)

// DefaultPatterns select the assets that belong to a download folder.
var DefaultPatterns = []string{
	"*.jpg",
	"*.jpeg",
	"*.png",
	"*.webp",
	"bing.json",
	"wallpaper-settings.json",
}

// Progress is reported after each file.
type Progress struct {
	Done  int
	Total int
	File  string
	Err   error
}

// Migration is one planned move: a snapshot of the files to move taken
// before any of them is touched.
type Migration struct {
	ID          uuid.UUID
	Source      string
	Destination string
	Files       []string
}

// Option configures a Manager.
type Option func(*Manager)

// WithPolicy sets the commit policy. Unknown values fall back to CommitAll.
func WithPolicy(p Policy) Option {
	return func(m *Manager) {
		if p == CommitAny {
			m.policy = CommitAny
		} else {
			m.policy = CommitAll
		}
	}
}

// WithLockFile sets the lock file shared by every process of the user.
func WithLockFile(path string) Option {
	return func(m *Manager) { m.lockFile = path }
}

// WithPatterns replaces the asset patterns.
func WithPatterns(patterns []string) Option {
	return func(m *Manager) {
		if len(patterns) > 0 {
			m.patterns = patterns
		}
	}
}

// WithProgress registers a per-file progress callback.
func WithProgress(fn func(Progress)) Option {
	return func(m *Manager) { m.progress = fn }
}

// Manager runs migrations for one settings store, one at a time.
type Manager struct {
	store    *settings.Store
	policy   Policy
	lockFile string
	patterns []string
	progress func(Progress)
	matcher  *patternmatcher.PatternMatcher
	logger   *logrus.Entry

	running atomic.Bool
	rename  func(src, dst string) error
}

// NewManager returns a manager for store.
func NewManager(store *settings.Store, opts ...Option) (*Manager, error) {
	m := &Manager{
		store:    store,
		policy:   CommitAll,
		lockFile: paths.MigrationLockFile(),
		patterns: DefaultPatterns,
		logger:   logging.NewLogger("migrate"),
		rename:   os.Rename,
	}
	for _, opt := range opts {
		opt(m)
	}

	matcher, err := patternmatcher.New(m.patterns)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "invalid migration patterns")
	}
	m.matcher = matcher
	return m, nil
}

// Policy returns the commit policy in effect.
func (m *Manager) Policy() Policy { return m.policy }

// Plan snapshots the assets in oldDir that would move to newDir. A missing
// source folder has nothing to move.
func (m *Manager) Plan(oldDir, newDir string) (*Migration, error) {
	entries, err := os.ReadDir(oldDir)
	if err != nil && !os.IsNotExist(err) {
		return nil, errors.MigrationFailed(newDir, err)
	}

	mig := &Migration{ID: uuid.New(), Source: oldDir, Destination: newDir}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		ok, err := m.matcher.MatchesOrParentMatches(entry.Name())
		if err != nil || !ok {
			continue
		}
		mig.Files = append(mig.Files, entry.Name())
	}
	sort.Strings(mig.Files)
	return mig, nil
}

// Migrate moves the assets of oldDir into newDir. Per-file failures are
// collected in the report and do not stop the batch; an error is returned
// only when the migration could not start. Cancelling ctx stops between
// files and reports the remaining ones as failed.
func (m *Manager) Migrate(ctx context.Context, oldDir, newDir string) (*Report, error) {
	src, err := pathutil.Expand(oldDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid source folder")
	}
	dst, err := pathutil.Expand(newDir)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInvalidInput, "invalid destination folder")
	}

	report := &Report{Source: src, Destination: dst}
	if same, _ := pathutil.ComparePaths(src, dst); same {
		m.logger.WithField("folder", dst).Debug("Source and destination are the same, nothing to migrate")
		return report, nil
	}
	if inside, _ := pathutil.IsWithin(src, dst); inside {
		return nil, errors.New(errors.ErrCodeInvalidInput, "destination folder is inside the current folder").
			WithDetail("source", src).
			WithDetail("destination", dst)
	}

	release, err := m.acquire(src, dst)
	if err != nil {
		return nil, err
	}
	defer release()

	if err := os.MkdirAll(dst, 0755); err != nil {
		return nil, errors.MigrationFailed(dst, err)
	}

	mig, err := m.Plan(src, dst)
	if err != nil {
		return nil, err
	}
	report.ID = mig.ID.String()

	logger := m.logger.WithFields(logrus.Fields{
		"migration": report.ID,
		"source":    src,
		"dest":      dst,
	})
	logger.WithField("files", len(mig.Files)).Info("Starting asset migration")

	for i, name := range mig.Files {
		if err := ctx.Err(); err != nil {
			for _, rest := range mig.Files[i:] {
				report.Failures = append(report.Failures, Failure{File: rest, Cause: err})
			}
			logger.WithError(err).Warn("Migration cancelled")
			break
		}

		n, err := m.moveFile(filepath.Join(src, name), filepath.Join(dst, name))
		if err != nil {
			report.Failures = append(report.Failures, Failure{File: name, Cause: err})
			logger.WithError(err).WithField("file", name).Warn("Failed to move asset")
		} else {
			report.Moved = append(report.Moved, name)
			report.Bytes += n
		}

		if m.progress != nil {
			m.progress(Progress{Done: i + 1, Total: len(mig.Files), File: name, Err: err})
		}
	}

	logger.WithFields(logrus.Fields{
		"moved":  len(report.Moved),
		"failed": len(report.Failures),
	}).Info("Asset migration finished")
	return report, nil
}

// Relocate migrates the assets of the current download folder into newDir
// and then commits newDir to download-folder if the commit policy accepts
// the outcome. A total failure never commits. When the commit is withheld
// the report is returned together with a MIGRATION_FAILED error and the
// previous folder stays authoritative.
func (m *Manager) Relocate(ctx context.Context, newDir string) (*Report, error) {
	current := settings.DownloadDir(m.store)
	report, err := m.Migrate(ctx, current, newDir)
	if err != nil {
		return nil, err
	}
	if same, _ := pathutil.ComparePaths(report.Source, report.Destination); same {
		return report, nil
	}

	if !m.shouldCommit(report) {
		m.logger.WithFields(logrus.Fields{
			"migration": report.ID,
			"policy":    m.policy,
			"kept":      current,
		}).Warn("Download folder not changed")
		return report, errors.MigrationFailed(report.Destination, report.Err())
	}

	if err := m.store.Set(schema.DownloadFolder, report.Destination, settings.OriginMigration); err != nil {
		return report, err
	}
	report.Committed = true
	return report, nil
}

// Result carries the outcome of RelocateAsync.
type Result struct {
	Report *Report
	Err    error
}

// RelocateAsync runs Relocate on its own goroutine. The channel receives
// exactly one result and is then closed.
func (m *Manager) RelocateAsync(ctx context.Context, newDir string) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		defer close(ch)
		report, err := m.Relocate(ctx, newDir)
		ch <- Result{Report: report, Err: err}
	}()
	return ch
}

func (m *Manager) shouldCommit(r *Report) bool {
	if len(r.Failures) == 0 {
		return true
	}
	if len(r.Moved) == 0 {
		return false
	}
	return m.policy == CommitAny
}

// acquire takes the in-process flag and the per-user file lock.
func (m *Manager) acquire(src, dst string) (func(), error) {
	if !m.running.CompareAndSwap(false, true) {
		return nil, errors.MigrationInProgress(src, dst)
	}

	if err := os.MkdirAll(filepath.Dir(m.lockFile), 0755); err != nil {
		m.running.Store(false)
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create lock directory")
	}
	lock := flock.New(m.lockFile)
	ok, err := lock.TryLock()
	if err != nil {
		m.running.Store(false)
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to acquire migration lock")
	}
	if !ok {
		m.running.Store(false)
		return nil, errors.MigrationInProgress(src, dst)
	}

	return func() {
		if err := lock.Unlock(); err != nil {
			m.logger.WithError(err).Warn("Failed to release migration lock")
		}
		m.running.Store(false)
	}, nil
}
