// Package prefs assembles a preferences session: it opens the settings
// stores, repairs them, starts change detection, binds the controls and
// attaches the handlers for actions that are not plain bindings.
package prefs

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/grovetools/wallprefs/binding"
	"github.com/grovetools/wallprefs/changelog"
	"github.com/grovetools/wallprefs/config"
	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/logging"
	"github.com/grovetools/wallprefs/migrate"
	"github.com/grovetools/wallprefs/pkg/paths"
	"github.com/grovetools/wallprefs/preset"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/grovetools/wallprefs/transfer"
	"github.com/grovetools/wallprefs/validate"
	"github.com/grovetools/wallprefs/version"
	"github.com/pkg/browser"
	"github.com/sirupsen/logrus"
)

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	main, desktop settings.Backend
	controls      *Controls
	progress      func(migrate.Progress)
	opener        func(dir string) error
}

// WithBackends replaces the file backends named by the configuration.
// File watching only applies to file backends.
func WithBackends(main, desktop settings.Backend) Option {
	return func(o *openOptions) {
		o.main = main
		o.desktop = desktop
	}
}

// WithControls binds the given controls instead of fresh ones.
func WithControls(c *Controls) Option {
	return func(o *openOptions) { o.controls = c }
}

// WithMigrationProgress reports per-file progress of folder migrations.
func WithMigrationProgress(fn func(migrate.Progress)) Option {
	return func(o *openOptions) { o.progress = fn }
}

// WithFolderOpener replaces the desktop file manager used by OpenFolder.
func WithFolderOpener(fn func(dir string) error) Option {
	return func(o *openOptions) { o.opener = fn }
}

// Session is one open preferences page.
type Session struct {
	cfg    *config.Config
	logger *logrus.Entry

	Store            *settings.Store
	Desktop          *settings.Store
	Validator        *validate.Validator
	DesktopValidator *validate.Validator
	Bindings         *binding.Registry
	DesktopBindings  *binding.Registry
	Migrations       *migrate.Manager
	Changelog        *changelog.Fetcher
	Controls         *Controls

	opener   func(dir string) error
	ctx      context.Context
	cancel   context.CancelFunc
	watchers []*settings.Watcher
	unsubs   []func()
	wg       sync.WaitGroup
	closed   sync.Once
}

// Open starts a session. Stores are loaded and validated before any control
// is bound, so controls start from repaired values. A binding setup failure
// is returned and the session is not usable.
func Open(ctx context.Context, cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		cfg = &config.Config{}
		cfg.SetDefaults()
	}
	o := &openOptions{}
	for _, opt := range opts {
		opt(o)
	}

	var dirs []string
	if o.main == nil {
		o.main = settings.NewFileBackend(cfg.SettingsPath())
		dirs = append(dirs, filepath.Dir(cfg.SettingsPath()))
	}
	if o.desktop == nil {
		o.desktop = settings.NewFileBackend(cfg.DesktopSettingsPath())
		dirs = append(dirs, filepath.Dir(cfg.DesktopSettingsPath()))
	}
	if len(dirs) > 0 {
		if err := paths.EnsureDirs(dirs...); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodePermissionDenied, "failed to create settings directories")
		}
	}
	if o.controls == nil {
		o.controls = NewControls()
	}
	if o.opener == nil {
		o.opener = browser.OpenFile
	}

	ctx, cancel := context.WithCancel(ctx)
	s := &Session{
		cfg:      cfg,
		logger:   logging.NewLogger("prefs"),
		Controls: o.controls,
		opener:   o.opener,
		ctx:      ctx,
		cancel:   cancel,
	}

	if err := s.open(o); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Session) open(o *openOptions) error {
	var err error

	// 1. Stores.
	if s.Store, err = settings.Open(schema.Wallpaper(), o.main); err != nil {
		return err
	}
	if s.Desktop, err = settings.Open(schema.Desktop(), o.desktop); err != nil {
		return err
	}

	// 2. Eager repair.
	s.Validator = validate.New(s.Store)
	s.DesktopValidator = validate.New(s.Desktop)
	s.Validator.ValidateAll()
	s.DesktopValidator.ValidateAll()

	// 3. Reactive repair.
	s.unsubs = append(s.unsubs, s.Validator.Watch(), s.DesktopValidator.Watch())

	// 4. Bindings.
	s.Bindings = binding.NewRegistry(s.Store)
	s.DesktopBindings = binding.NewRegistry(s.Desktop)
	if err := s.bind(); err != nil {
		return err
	}

	// 5. Handlers.
	s.Migrations, err = migrate.NewManager(s.Store,
		migrate.WithPolicy(migrate.Policy(s.cfg.Migration.CommitPolicy)),
		migrate.WithLockFile(s.cfg.LockFile()),
		migrate.WithPatterns(s.cfg.Migration.Patterns),
		migrate.WithProgress(o.progress),
	)
	if err != nil {
		return err
	}
	s.Changelog = changelog.NewFetcher(s.cfg.Changelog.BaseURL, s.cfg.Changelog.Repo, s.cfg.ChangelogTimeout()).
		WithUserAgent(version.GetInfo().UserAgent())
	s.attachHandlers()

	// 6. External edits.
	if s.cfg.Settings.WatchEnabled() {
		for _, pair := range []struct {
			store   *settings.Store
			backend settings.Backend
		}{{s.Store, o.main}, {s.Desktop, o.desktop}} {
			fb, ok := pair.backend.(*settings.FileBackend)
			if !ok {
				continue
			}
			w, err := settings.NewWatcher(pair.store, fb, s.cfg.Settings.DebounceMs)
			if err != nil {
				s.logger.WithError(err).WithField("file", fb.Path()).Warn("External edits will not be detected")
				continue
			}
			s.watchers = append(s.watchers, w)
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()
				w.Start(s.ctx)
			}()
		}
	}

	s.logger.WithField("debug", s.Store.GetBool(schema.DebugLogging)).Debug("Preferences session ready")
	return nil
}

func (s *Session) bind() error {
	c := s.Controls
	direct := []struct {
		key  schema.Key
		ctrl binding.Control
	}{
		{schema.HideIndicator, c.HideIndicator},
		{schema.ShowNotifications, c.ShowNotifications},
		{schema.SetBackground, c.SetBackground},
		{schema.DebugLogging, c.DebugLogging},
		{schema.RevertToCurrent, c.RevertToCurrent},
		{schema.OverrideUnsafeWayland, c.OverrideUnsafeWayland},
		{schema.AlwaysExportJSON, c.AlwaysExportJSON},
		{schema.RandomModeEnabled, c.RandomModeEnabled},
		{schema.OverrideLockscreenBlur, c.OverrideLockscreenBlur},
		{schema.IconName, c.Icon},
		{schema.Resolution, c.Resolution},
		{schema.RandomIntervalMode, c.ShuffleMode},
		{schema.RandomInterval, c.RandomInterval},
		{schema.LockscreenBlurStrength, c.BlurStrength},
		{schema.LockscreenBlurBrightness, c.BlurBrightness},
	}
	for _, d := range direct {
		if _, err := s.Bindings.Bind(d.key, d.ctrl, binding.Bidirectional); err != nil {
			return err
		}
	}

	if _, err := s.Bindings.BindIndexed(schema.Market, c.Market, schema.Markets); err != nil {
		return err
	}
	if _, err := s.Bindings.BindLabel(schema.IconName, c.IconPreview, s.iconPath); err != nil {
		return err
	}
	if _, err := s.Bindings.BindLabel(schema.SelectedImage, c.SelectedImage, nil); err != nil {
		return err
	}
	if _, err := s.Bindings.BindLabel(schema.DownloadFolder, c.Folder, func(interface{}) string {
		return settings.DownloadDir(s.Store)
	}); err != nil {
		return err
	}
	if _, err := s.DesktopBindings.Bind(schema.PictureOptions, c.BackgroundStyle, binding.Bidirectional); err != nil {
		return err
	}
	return nil
}

func (s *Session) attachHandlers() {
	s.Controls.Folder.OnConfirm(func(path string) {
		_, _ = s.ChangeFolder(s.ctx, path)
	})

	s.Controls.OpenFolder.OnClick(func() {
		_, _ = s.OpenFolder()
	})

	logging.SetDebug(s.Store.GetBool(schema.DebugLogging))
	if cancel, err := s.Store.Subscribe(schema.DebugLogging, func(c settings.Change) {
		enabled, _ := c.New.(bool)
		logging.SetDebug(enabled)
	}); err == nil {
		s.unsubs = append(s.unsubs, cancel)
	}

	s.unsubs = append(s.unsubs, s.Store.SubscribeAll(func(c settings.Change) {
		if !s.Store.GetBool(schema.AlwaysExportJSON) {
			return
		}
		if _, err := s.ExportToFolder(); err != nil {
			s.logger.WithError(err).Warn("Automatic settings export failed")
		}
	}))
}

// iconPath renders the preview of an icon name as the path of its image.
func (s *Session) iconPath(v interface{}) string {
	name, _ := v.(string)
	return filepath.Join(s.cfg.ExtensionDir, "icons", name+".svg")
}

// ChangeFolder moves the images into dir and commits it as the download
// folder when the migration succeeds. When the commit is withheld the folder
// control shows the previous folder again.
func (s *Session) ChangeFolder(ctx context.Context, dir string) (*migrate.Report, error) {
	report, err := s.Migrations.Relocate(ctx, dir)
	if err != nil {
		s.Controls.Folder.SetText(settings.DownloadDir(s.Store))
		entry := s.logger.WithError(err).WithField("folder", dir)
		if report != nil {
			entry = entry.WithField("summary", report.Summary())
		}
		entry.Warn("Download folder not changed")
		return report, err
	}
	s.logger.WithField("summary", report.Summary()).Info("Download folder changed")
	return report, nil
}

// OpenFolder shows the download folder in the desktop file manager,
// creating it first when nothing has been downloaded yet.
func (s *Session) OpenFolder() (string, error) {
	dir := settings.DownloadDir(s.Store)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return dir, errors.Wrap(err, errors.ErrCodePermissionDenied, "failed to create download folder").
			WithDetail("folder", dir)
	}
	if err := s.opener(dir); err != nil {
		s.logger.WithError(err).WithField("folder", dir).Warn("Could not open download folder")
		return dir, errors.Wrap(err, errors.ErrCodeInternal, "failed to open download folder").
			WithDetail("folder", dir)
	}
	return dir, nil
}

// ApplyPreset applies a named blur preset.
func (s *Session) ApplyPreset(name string) error {
	return preset.Apply(s.Store, name)
}

// Export renders the settings document.
func (s *Session) Export(format transfer.Format) ([]byte, error) {
	return transfer.Export(s.Store, format)
}

// Import applies a settings document.
func (s *Session) Import(data []byte) error {
	return transfer.Import(s.Store, s.Validator, data)
}

// ExportToFolder writes the settings document into the download folder.
func (s *Session) ExportToFolder() (string, error) {
	return transfer.ExportToDir(s.Store, settings.DownloadDir(s.Store))
}

// ImportFromFolder imports the settings document of the download folder.
func (s *Session) ImportFromFolder() error {
	return transfer.ImportFromDir(s.Store, s.Validator, settings.DownloadDir(s.Store))
}

// LoadChangeLog shows the release notes of version, or nothing.
func (s *Session) LoadChangeLog(ctx context.Context, version string) string {
	text := s.Changelog.Text(ctx, version)
	s.Controls.ChangeLog.SetText(text)
	return text
}

// Close stops change detection and detaches every binding and handler.
func (s *Session) Close() {
	s.closed.Do(func() {
		s.cancel()
		for _, w := range s.watchers {
			_ = w.Close()
		}
		s.wg.Wait()
		for _, unsub := range s.unsubs {
			unsub()
		}
		if s.Bindings != nil {
			s.Bindings.Close()
		}
		if s.DesktopBindings != nil {
			s.DesktopBindings.Close()
		}
	})
}
