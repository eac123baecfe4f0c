package prefs

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/grovetools/wallprefs/config"
	"github.com/grovetools/wallprefs/control"
	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/logging"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/grovetools/wallprefs/transfer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	t.Setenv("WALLPREFS_HOME", filepath.Join(root, "home"))
	cfg := &config.Config{}
	cfg.SetDefaults()
	cfg.ExtensionDir = "/usr/share/ext"
	cfg.Settings.Path = filepath.Join(root, "settings.toml")
	cfg.Settings.DesktopPath = filepath.Join(root, "desktop.toml")
	cfg.Settings.DebounceMs = 20
	cfg.Migration.LockFile = filepath.Join(root, "migrate.lock")
	return cfg
}

func openMemory(t *testing.T, seed, desktopSeed map[string]interface{}) (*Session, *settings.MemoryBackend) {
	t.Helper()
	main := settings.NewMemoryBackend(seed)
	s, err := Open(context.Background(), testConfig(t),
		WithBackends(main, settings.NewMemoryBackend(desktopSeed)))
	require.NoError(t, err)
	t.Cleanup(s.Close)
	return s, main
}

func seedImages(t *testing.T, dir string, names ...string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	for _, name := range names {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(name), 0644))
	}
}

func TestOpenBindsRepairedValues(t *testing.T) {
	dir := t.TempDir()
	s, _ := openMemory(t, map[string]interface{}{
		"resolution":               "8K",
		"market":                   "xx-XX",
		"icon-name":                "brick-symbolic",
		"selected-image":           "gone.jpg",
		"download-folder":          dir,
		"lockscreen-blur-strength": int64(7),
	}, map[string]interface{}{"picture-options": "tiled"})

	c := s.Controls
	assert.Equal(t, "auto", c.Resolution.ActiveID())
	assert.Equal(t, schema.Markets.IndexOf("auto"), c.Market.Selected())
	assert.Equal(t, "brick-symbolic", c.Icon.ActiveID())
	assert.Equal(t, "/usr/share/ext/icons/brick-symbolic.svg", c.IconPreview.Text())
	assert.Equal(t, "", c.SelectedImage.Text())
	assert.Equal(t, dir, c.Folder.Text())
	assert.Equal(t, 7, c.BlurStrength.Value())
	assert.Equal(t, 0.6, c.BlurBrightness.Value())
	assert.Equal(t, "zoom", c.BackgroundStyle.ActiveID())
	assert.Zero(t, s.Bindings.Writes())
}

func TestUserActionsWriteOnce(t *testing.T) {
	s, main := openMemory(t, map[string]interface{}{"download-folder": t.TempDir()}, nil)
	saves := main.Saves()

	s.Controls.RandomModeEnabled.SetActive(true)
	assert.True(t, s.Store.GetBool(schema.RandomModeEnabled))

	s.Controls.Market.Select(schema.Markets.IndexOf("de-DE"))
	assert.Equal(t, "de-DE", s.Store.GetString(schema.Market))

	s.Controls.BackgroundStyle.SetActiveID("spanned")
	assert.Equal(t, "spanned", s.Desktop.GetString(schema.PictureOptions))

	assert.Equal(t, int64(2), s.Bindings.Writes())
	assert.Equal(t, int64(1), s.DesktopBindings.Writes())
	assert.Equal(t, saves+2, main.Saves())
}

func TestExternalChangesAreRepairedAndShown(t *testing.T) {
	s, _ := openMemory(t, map[string]interface{}{"download-folder": t.TempDir()}, nil)

	require.NoError(t, s.Store.Set(schema.Resolution, "UHD", settings.OriginExternal))
	assert.Equal(t, "UHD", s.Controls.Resolution.ActiveID())

	require.NoError(t, s.Store.Set(schema.IconName, "missing", settings.OriginExternal))
	assert.Equal(t, "bing-symbolic", s.Store.GetString(schema.IconName))
	assert.Equal(t, "bing-symbolic", s.Controls.Icon.ActiveID())
	assert.Equal(t, "/usr/share/ext/icons/bing-symbolic.svg", s.Controls.IconPreview.Text())
}

func TestFolderConfirmCommitsAfterMove(t *testing.T) {
	root := t.TempDir()
	oldDir, newDir := filepath.Join(root, "old"), filepath.Join(root, "new")
	seedImages(t, oldDir, "1.jpg", "2.jpg")
	s, _ := openMemory(t, map[string]interface{}{"download-folder": oldDir, "selected-image": "2.jpg"}, nil)

	s.Controls.Folder.Navigate(filepath.Join(root, "elsewhere"))
	assert.Equal(t, oldDir, s.Store.GetString(schema.DownloadFolder), "navigation alone changes nothing")

	s.Controls.Folder.Confirm(newDir)
	assert.Equal(t, newDir, s.Store.GetString(schema.DownloadFolder))
	assert.Equal(t, newDir, s.Controls.Folder.Text())
	assert.Equal(t, "2.jpg", s.Store.GetString(schema.SelectedImage), "selection moved with the images")
	assert.FileExists(t, filepath.Join(newDir, "1.jpg"))
}

func TestFolderConfirmRevertsLabelWhenWithheld(t *testing.T) {
	root := t.TempDir()
	oldDir, newDir := filepath.Join(root, "old"), filepath.Join(root, "new")
	seedImages(t, oldDir, "1.jpg", "2.jpg", "3.jpg", "4.jpg", "5.jpg")
	seedImages(t, newDir, "3.jpg")
	s, _ := openMemory(t, map[string]interface{}{"download-folder": oldDir}, nil)

	s.Controls.Folder.Confirm(newDir)

	assert.Equal(t, oldDir, s.Store.GetString(schema.DownloadFolder))
	assert.Equal(t, oldDir, s.Controls.Folder.Text())
	assert.FileExists(t, filepath.Join(oldDir, "3.jpg"))
	for _, name := range []string{"1.jpg", "2.jpg", "4.jpg", "5.jpg"} {
		assert.FileExists(t, filepath.Join(newDir, name))
	}
}

func TestPresetUpdatesControls(t *testing.T) {
	s, _ := openMemory(t, map[string]interface{}{"download-folder": t.TempDir()}, nil)

	require.NoError(t, s.ApplyPreset("gnome-default"))
	assert.Equal(t, 60, s.Controls.BlurStrength.Value())
	assert.Equal(t, 0.55, s.Controls.BlurBrightness.Value())
	assert.Zero(t, s.Bindings.Writes())

	assert.Error(t, s.ApplyPreset("nope"))
}

func TestDebugLoggingFollowsSetting(t *testing.T) {
	s, _ := openMemory(t, map[string]interface{}{"download-folder": t.TempDir()}, nil)
	defer logging.SetDebug(false)

	s.Controls.DebugLogging.SetActive(true)
	assert.True(t, logging.DebugEnabled())
	s.Controls.DebugLogging.SetActive(false)
	assert.False(t, logging.DebugEnabled())
}

func TestAlwaysExportWritesIntoFolder(t *testing.T) {
	dir := t.TempDir()
	s, _ := openMemory(t, map[string]interface{}{"download-folder": dir}, nil)
	path := filepath.Join(dir, transfer.FileName)

	s.Controls.Market.Select(schema.Markets.IndexOf("en-GB"))
	assert.NoFileExists(t, path)

	s.Controls.AlwaysExportJSON.SetActive(true)
	require.FileExists(t, path)

	s.Controls.Market.Select(schema.Markets.IndexOf("fr-FR"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"market": "fr-FR"`)
}

func TestImportFromFolderRefreshesControls(t *testing.T) {
	dir := t.TempDir()
	doc := `{"resolution": "1366x768", "market": "it-IT", "lockscreen-blur-strength": 12}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, transfer.FileName), []byte(doc), 0644))
	s, _ := openMemory(t, map[string]interface{}{"download-folder": dir}, nil)

	require.NoError(t, s.ImportFromFolder())
	assert.Equal(t, "1366x768", s.Controls.Resolution.ActiveID())
	assert.Equal(t, schema.Markets.IndexOf("it-IT"), s.Controls.Market.Selected())
	assert.Equal(t, 12, s.Controls.BlurStrength.Value())

	before := s.Store.Snapshot()
	assert.Error(t, s.Import([]byte(`{"market": 5}`)))
	assert.Equal(t, before, s.Store.Snapshot())
}

func TestFileBackedSessionSeesExternalEdits(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Settings.Path, []byte("download-folder = \""+t.TempDir()+"\"\n"), 0644))

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()

	s.Controls.HideIndicator.SetActive(true)
	data, err := os.ReadFile(cfg.Settings.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hide-indicator = true")

	edited := replaceLine(string(data), "resolution", `resolution = "800x600"`)
	require.NoError(t, os.WriteFile(cfg.Settings.Path, []byte(edited), 0644))

	assert.Eventually(t, func() bool {
		return s.Controls.Resolution.ActiveID() == "800x600"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestFreshInstallSeesExternalEdits(t *testing.T) {
	cfg := testConfig(t)
	root := t.TempDir()
	cfg.Settings.Path = filepath.Join(root, "missing", "settings.toml")
	cfg.Settings.DesktopPath = filepath.Join(root, "missing", "desktop", "desktop.toml")

	s, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer s.Close()
	assert.DirExists(t, filepath.Dir(cfg.Settings.Path))
	assert.DirExists(t, filepath.Dir(cfg.Settings.DesktopPath))

	require.NoError(t, os.WriteFile(cfg.Settings.Path, []byte("market = \"de-DE\"\n"), 0644))
	assert.Eventually(t, func() bool {
		return s.Store.GetString(schema.Market) == "de-DE"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestOpenFolderShowsDownloadFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "not-yet")
	var opened []string
	s, err := Open(context.Background(), testConfig(t),
		WithBackends(settings.NewMemoryBackend(map[string]interface{}{"download-folder": dir}), nil),
		WithFolderOpener(func(d string) error {
			opened = append(opened, d)
			return nil
		}))
	require.NoError(t, err)
	defer s.Close()

	got, err := s.OpenFolder()
	require.NoError(t, err)
	assert.Equal(t, dir, got)
	assert.DirExists(t, dir)

	s.Controls.OpenFolder.Click()
	assert.Equal(t, []string{dir, dir}, opened)
}

func TestOpenFolderReportsOpenerFailure(t *testing.T) {
	s, err := Open(context.Background(), testConfig(t),
		WithBackends(settings.NewMemoryBackend(map[string]interface{}{"download-folder": t.TempDir()}), nil),
		WithFolderOpener(func(string) error { return fmt.Errorf("no file manager") }))
	require.NoError(t, err)
	defer s.Close()

	_, err = s.OpenFolder()
	assert.True(t, errors.Is(err, errors.ErrCodeInternal))
	assert.Contains(t, err.Error(), "no file manager")
}

func TestLoadChangeLog(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/repos/neffo/bing-wallpaper-gnome-extension/releases/tags/v47" {
			_, _ = w.Write([]byte(`{"body":"notes"}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfg := testConfig(t)
	cfg.Changelog.BaseURL = srv.URL
	s, err := Open(context.Background(), cfg,
		WithBackends(settings.NewMemoryBackend(nil), settings.NewMemoryBackend(nil)))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "notes", s.LoadChangeLog(context.Background(), "47"))
	assert.Equal(t, "notes", s.Controls.ChangeLog.Text())
	assert.Equal(t, "", s.LoadChangeLog(context.Background(), "1"))
}

func TestOpenFailsOnBrokenSettingsFile(t *testing.T) {
	cfg := testConfig(t)
	require.NoError(t, os.WriteFile(cfg.Settings.Path, []byte("= nope"), 0644))
	_, err := Open(context.Background(), cfg)
	assert.Error(t, err)
}

func TestWithControlsBindsGivenControls(t *testing.T) {
	c := NewControls()
	c.Market = control.NewDropDown("market")
	s, err := Open(context.Background(), testConfig(t),
		WithControls(c),
		WithBackends(settings.NewMemoryBackend(map[string]interface{}{"market": "sv-SE"}), nil))
	require.NoError(t, err)
	defer s.Close()
	assert.Equal(t, schema.Markets.Len(), c.Market.Len())
	assert.Equal(t, schema.Markets.IndexOf("sv-SE"), c.Market.Selected())
}

// replaceLine swaps the TOML line of key, or appends it.
func replaceLine(doc, key, line string) string {
	lines := strings.Split(strings.TrimRight(doc, "\n"), "\n")
	for i, l := range lines {
		if strings.HasPrefix(l, key+" ") || strings.HasPrefix(l, key+"=") {
			lines[i] = line
			return strings.Join(lines, "\n") + "\n"
		}
	}
	return strings.Join(append(lines, line), "\n") + "\n"
}
