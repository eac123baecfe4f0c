package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/pkg/paths"
	"github.com/grovetools/wallprefs/testutil"
	"github.com/pkg/browser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points every wallprefs path into a temp dir.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("WALLPREFS_HOME", home)
	t.Setenv("WALLPREFS_CONFIG", "")
	return home
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestSetAndGet(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "set", "market", "de-DE")
	require.NoError(t, err)
	assert.Equal(t, "market = de-DE\n", out)

	out, err = run(t, "", "get", "market")
	require.NoError(t, err)
	assert.Equal(t, "de-DE\n", out)

	data, err := os.ReadFile(paths.SettingsFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "de-DE")
}

func TestSetRepairsOutOfDomainValue(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "set", "resolution", "8K")
	require.NoError(t, err)
	assert.Equal(t, "resolution = auto\n", out)
}

func TestSetDesktopKey(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "set", "picture-options", "centered")
	require.NoError(t, err)

	data, err := os.ReadFile(paths.DesktopSettingsFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "centered")
}

func TestSetErrors(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "set", "no-such-key", "1")
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownKey))

	_, err = run(t, "", "set", "random-interval", "soon")
	assert.True(t, errors.Is(err, errors.ErrCodeTypeMismatch))
}

func TestReset(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "set", "hide-indicator", "true")
	require.NoError(t, err)
	_, err = run(t, "", "reset", "hide-indicator")
	require.NoError(t, err)

	out, err := run(t, "", "get", "hide-indicator")
	require.NoError(t, err)
	assert.Equal(t, "false\n", out)

	_, err = run(t, "", "reset")
	assert.Error(t, err)
}

func TestShowJSON(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "set", "random-interval", "7200")
	require.NoError(t, err)

	out, err := run(t, "", "show", "--changed", "--json")
	require.NoError(t, err)

	var rows []settingRow
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, "random-interval", rows[0].Key)
	assert.EqualValues(t, 7200, rows[0].Value)
}

func TestShowTable(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "lockscreen-blur-brightness")
	assert.Contains(t, out, "picture-options")
}

func TestValidateDryRunLeavesFile(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(paths.SettingsFile()), 0755))
	require.NoError(t, os.WriteFile(paths.SettingsFile(), []byte("market = \"xx-XX\"\n"), 0644))

	out, err := run(t, "", "validate", "--dry-run", "--json")
	require.NoError(t, err)
	var repairs []repair
	require.NoError(t, json.Unmarshal([]byte(out), &repairs))
	require.Len(t, repairs, 1)
	assert.Equal(t, "market", repairs[0].Key)
	assert.Equal(t, "auto", repairs[0].Corrected)

	data, err := os.ReadFile(paths.SettingsFile())
	require.NoError(t, err)
	assert.Contains(t, string(data), "xx-XX")

	_, err = run(t, "", "validate")
	require.NoError(t, err)
	data, err = os.ReadFile(paths.SettingsFile())
	require.NoError(t, err)
	assert.NotContains(t, string(data), "xx-XX")
}

func TestPreset(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "preset", "no-blur")
	require.NoError(t, err)
	assert.Contains(t, out, "No blur")

	out, err = run(t, "", "get", "lockscreen-blur-strength")
	require.NoError(t, err)
	assert.Equal(t, "0\n", out)

	_, err = run(t, "", "preset", "heavy")
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownPreset))

	out, err = run(t, "", "preset", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "gnome-default")
}

func TestExportImportRoundTrip(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "set", "icon-name", "brick-symbolic")
	require.NoError(t, err)

	exported := filepath.Join(t.TempDir(), "settings.yaml")
	_, err = run(t, "", "export", "--format", "yaml", "-o", exported)
	require.NoError(t, err)

	_, err = run(t, "", "reset", "--all")
	require.NoError(t, err)

	_, err = run(t, "", "import", exported)
	require.NoError(t, err)
	out, err := run(t, "", "get", "icon-name")
	require.NoError(t, err)
	assert.Equal(t, "brick-symbolic\n", out)
}

func TestImportFromStdinRejectsMalformed(t *testing.T) {
	isolate(t)

	_, err := run(t, `{"market": "de-DE", "bogus": 1}`, "import", "-")
	assert.True(t, errors.Is(err, errors.ErrCodeImportMalformed))

	out, err := run(t, "", "get", "market")
	require.NoError(t, err)
	assert.Equal(t, "auto\n", out)
}

func TestSetFolderMovesImages(t *testing.T) {
	home := isolate(t)
	oldDir := testutil.SeedAssets(t, paths.DefaultWallpaperDir(), "a.jpg", "b.png", "notes.txt")
	newDir := filepath.Join(home, "elsewhere")

	out, err := run(t, "", "set-folder", newDir)
	require.NoError(t, err)
	assert.Contains(t, out, "moved 2 file(s)")
	assert.Contains(t, out, "folder updated")

	assert.FileExists(t, filepath.Join(newDir, "a.jpg"))
	assert.FileExists(t, filepath.Join(oldDir, "notes.txt"))

	out, err = run(t, "", "get", "download-folder")
	require.NoError(t, err)
	assert.Equal(t, newDir+"\n", out)
}

func TestSetDownloadFolderMigrates(t *testing.T) {
	home := isolate(t)
	oldDir := testutil.SeedAssets(t, paths.DefaultWallpaperDir(), "a.jpg", "b.png")
	newDir := filepath.Join(home, "elsewhere")

	out, err := run(t, "", "set", "download-folder", newDir)
	require.NoError(t, err)
	assert.Contains(t, out, "moved 2 file(s)")
	assert.Contains(t, out, "download-folder = "+newDir)
	assert.FileExists(t, filepath.Join(newDir, "a.jpg"))
	assert.NoFileExists(t, filepath.Join(oldDir, "a.jpg"))

	_, err = run(t, "", "set", "download-folder", filepath.Join(newDir, "nested"))
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))

	out, err = run(t, "", "get", "download-folder")
	require.NoError(t, err)
	assert.Equal(t, newDir+"\n", out)
}

func TestOpenFolder(t *testing.T) {
	isolate(t)
	var opened []string
	openInFileManager = func(dir string) error {
		opened = append(opened, dir)
		return nil
	}
	t.Cleanup(func() { openInFileManager = browser.OpenFile })

	out, err := run(t, "", "open-folder")
	require.NoError(t, err)
	assert.Equal(t, []string{paths.DefaultWallpaperDir()}, opened)
	assert.Contains(t, out, "opened: "+paths.DefaultWallpaperDir())
	assert.DirExists(t, paths.DefaultWallpaperDir())
}

func TestExportAndImportThroughFolder(t *testing.T) {
	isolate(t)

	_, err := run(t, "", "set", "market", "ja-JP")
	require.NoError(t, err)
	out, err := run(t, "", "export", "--to-folder")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings exported")
	assert.Contains(t, out, paths.DefaultWallpaperDir())

	_, err = run(t, "", "reset", "market")
	require.NoError(t, err)
	out, err = run(t, "", "import", "--from-folder")
	require.NoError(t, err)
	assert.Contains(t, out, "Settings imported")

	out, err = run(t, "", "get", "market")
	require.NoError(t, err)
	assert.Equal(t, "ja-JP\n", out)
}

func TestChangelog(t *testing.T) {
	isolate(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/repos/me/ext/releases/tags/v48" {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, `{"body": "Fixed blur presets"}`)
	}))
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "wallprefs.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(fmt.Sprintf(
		"version: \"1.0\"\nchangelog:\n  base_url: %s\n  repo: me/ext\n", srv.URL)), 0644))

	out, err := run(t, "", "changelog", "48", "-c", cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "Fixed blur presets\n", out)

	out, err = run(t, "", "changelog", "47", "-c", cfgPath)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestConfigCommands(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "config", "schema", "--document")
	require.NoError(t, err)
	assert.Contains(t, out, "lockscreen-blur-brightness")

	out, err = run(t, "", "config", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "commit_policy")

	out, err = run(t, "", "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "commit_policy: all")

	_, err = run(t, "", "config", "show", "-c", filepath.Join(t.TempDir(), "missing.yml"))
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestPaths(t *testing.T) {
	isolate(t)

	out, err := run(t, "", "paths")
	require.NoError(t, err)
	var p PathsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, paths.SettingsFile(), p.SettingsFile)
	assert.Equal(t, paths.DefaultWallpaperDir(), p.DownloadFolder)
}
