package validate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, s *schema.Schema, seed map[string]interface{}) *settings.Store {
	t.Helper()
	store, err := settings.Open(s, settings.NewMemoryBackend(seed))
	require.NoError(t, err)
	return store
}

func writeImage(t *testing.T, dir, name string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("jpeg"), 0644))
}

func TestValidateAllRepairsEveryEnumKey(t *testing.T) {
	store := newStore(t, schema.Wallpaper(), map[string]interface{}{
		"resolution":           "8K",
		"icon-name":            "no-such-icon",
		"market":               "xx-XX",
		"random-interval-mode": "fortnightly",
	})

	var origins []settings.Origin
	store.SubscribeAll(func(c settings.Change) { origins = append(origins, c.Origin) })

	New(store).ValidateAll()

	s := store.Schema()
	for _, key := range s.Keys() {
		def, _ := s.Lookup(key)
		if def.Domain == nil {
			continue
		}
		assert.True(t, def.Domain.Contains(store.GetString(key)), key)
	}
	assert.Equal(t, "auto", store.GetString(schema.Resolution))
	assert.Equal(t, "bing-symbolic", store.GetString(schema.IconName))
	assert.Equal(t, "auto", store.GetString(schema.Market))
	assert.Equal(t, "daily", store.GetString(schema.RandomIntervalMode))

	require.Len(t, origins, 4)
	for _, o := range origins {
		assert.Equal(t, settings.OriginValidator, o)
	}
}

func TestValidateReportsResult(t *testing.T) {
	store := newStore(t, schema.Wallpaper(), map[string]interface{}{"resolution": "8K"})
	v := New(store)

	assert.Equal(t, Result{Key: schema.Resolution, Corrected: "auto"}, v.Validate(schema.Resolution))
	assert.Equal(t, Result{Key: schema.Resolution, Valid: true}, v.Validate(schema.Resolution))
	assert.Equal(t, Result{Key: schema.HideIndicator, Valid: true}, v.Validate(schema.HideIndicator))
}

func TestBoundsAreClamped(t *testing.T) {
	store := newStore(t, schema.Wallpaper(), map[string]interface{}{
		"random-interval":            int64(30),
		"lockscreen-blur-strength":   int64(500),
		"lockscreen-blur-brightness": -0.5,
	})
	New(store).ValidateAll()

	assert.Equal(t, 300, store.GetInt(schema.RandomInterval))
	assert.Equal(t, 100, store.GetInt(schema.LockscreenBlurStrength))
	assert.Equal(t, 0.0, store.GetDouble(schema.LockscreenBlurBrightness))
}

func TestDesktopPictureOptionsFallsBackToZoom(t *testing.T) {
	store := newStore(t, schema.Desktop(), map[string]interface{}{"picture-options": "tiled"})
	New(store).ValidateAll()
	assert.Equal(t, "zoom", store.GetString(schema.PictureOptions))
}

func TestSelectedImageClearsWhenFileIsDeleted(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "20240101-bing.jpg")

	store := newStore(t, schema.Wallpaper(), map[string]interface{}{
		"download-folder": dir,
		"selected-image":  "20240101-bing.jpg",
	})
	v := New(store)

	assert.True(t, v.Validate(schema.SelectedImage).Valid)
	assert.Equal(t, "20240101-bing.jpg", store.GetString(schema.SelectedImage))

	require.NoError(t, os.Remove(filepath.Join(dir, "20240101-bing.jpg")))
	res := v.Validate(schema.SelectedImage)
	assert.False(t, res.Valid)
	assert.Equal(t, "", store.GetString(schema.SelectedImage))
}

func TestSelectedImageRejectsPathsAndDirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0755))
	writeImage(t, filepath.Join(dir, "sub"), "a.jpg")

	for _, name := range []string{"sub", "sub/a.jpg", "..", ""} {
		store := newStore(t, schema.Wallpaper(), map[string]interface{}{
			"download-folder": dir,
			"selected-image":  name,
		})
		New(store).Validate(schema.SelectedImage)
		assert.Equal(t, "", store.GetString(schema.SelectedImage), name)
	}
}

func TestWatchRepairsExternalChanges(t *testing.T) {
	store := newStore(t, schema.Wallpaper(), nil)
	v := New(store)
	stop := v.Watch()
	defer stop()

	require.NoError(t, store.Set(schema.Resolution, "640x480", settings.OriginExternal))
	assert.Equal(t, "auto", store.GetString(schema.Resolution))

	require.NoError(t, store.Set(schema.IconName, "brick-symbolic", settings.OriginExternal))
	assert.Equal(t, "brick-symbolic", store.GetString(schema.IconName))
}

func TestWatchRevalidatesImageWhenFolderChanges(t *testing.T) {
	oldDir, newDir := t.TempDir(), t.TempDir()
	writeImage(t, oldDir, "a.jpg")

	store := newStore(t, schema.Wallpaper(), map[string]interface{}{
		"download-folder": oldDir,
		"selected-image":  "a.jpg",
	})
	v := New(store)
	v.Watch()
	defer v.Stop()

	require.NoError(t, store.Set(schema.DownloadFolder, newDir, settings.OriginSession))
	assert.Equal(t, "", store.GetString(schema.SelectedImage))
}

func TestStopEndsWatch(t *testing.T) {
	store := newStore(t, schema.Wallpaper(), nil)
	v := New(store)
	v.Watch()
	v.Stop()

	require.NoError(t, store.Set(schema.Resolution, "640x480", settings.OriginExternal))
	assert.Equal(t, "640x480", store.GetString(schema.Resolution))
}

func TestSanitizeLeavesStoreUntouched(t *testing.T) {
	dir := t.TempDir()
	writeImage(t, dir, "kept.jpg")
	store := newStore(t, schema.Wallpaper(), nil)
	v := New(store)

	out := v.Sanitize(map[schema.Key]interface{}{
		schema.Resolution:     "8K",
		schema.Market:         "de-DE",
		schema.DownloadFolder: dir,
		schema.SelectedImage:  "kept.jpg",
	})

	assert.Equal(t, "auto", out[schema.Resolution])
	assert.Equal(t, "de-DE", out[schema.Market])
	assert.Equal(t, "kept.jpg", out[schema.SelectedImage], "checked against the staged folder")
	assert.Equal(t, "auto", store.GetString(schema.Market))
	assert.Equal(t, "", store.GetString(schema.DownloadFolder))

	out = v.Sanitize(map[schema.Key]interface{}{schema.SelectedImage: "missing.jpg"})
	assert.Equal(t, "", out[schema.SelectedImage])
}

func TestWithRuleOverrides(t *testing.T) {
	store := newStore(t, schema.Wallpaper(), nil)
	v := New(store, WithRule(schema.HideIndicator, func(r settings.Reader) (bool, interface{}) {
		return settings.GetBool(r, schema.HideIndicator), true
	}))

	assert.Contains(t, v.Keys(), schema.HideIndicator)
	v.ValidateAll()
	assert.True(t, store.GetBool(schema.HideIndicator))
}
