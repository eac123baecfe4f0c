package transfer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/grovetools/wallprefs/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newStore(t *testing.T, seed map[string]interface{}) (*settings.Store, *validate.Validator, *settings.MemoryBackend) {
	t.Helper()
	backend := settings.NewMemoryBackend(seed)
	store, err := settings.Open(schema.Wallpaper(), backend)
	require.NoError(t, err)
	return store, validate.New(store), backend
}

func TestExportListsEveryKeySorted(t *testing.T) {
	store, _, _ := newStore(t, map[string]interface{}{"market": "de-DE"})

	data, err := Export(store, FormatJSON)
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Len(t, doc, len(store.Schema().Keys()))
	assert.Equal(t, "de-DE", doc["market"])
	assert.Contains(t, string(data), "\"always-export-json\": false,\n  \"debug-logging\"")

	data, err = Export(store, FormatYAML)
	require.NoError(t, err)
	var ydoc map[string]interface{}
	require.NoError(t, yaml.Unmarshal(data, &ydoc))
	assert.Equal(t, 3600, ydoc["random-interval"])
}

func TestRoundTripIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.jpg"), []byte("x"), 0644))

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			store, v, backend := newStore(t, map[string]interface{}{
				"market":                     "ja-JP",
				"random-interval":            int64(7200),
				"lockscreen-blur-brightness": 0.25,
				"download-folder":            dir,
				"selected-image":             "a.jpg",
				"hide-indicator":             true,
			})
			before := store.Snapshot()
			saves := backend.Saves()

			data, err := Export(store, format)
			require.NoError(t, err)
			require.NoError(t, Import(store, v, data))

			assert.Equal(t, before, store.Snapshot())
			assert.Equal(t, saves, backend.Saves(), "nothing changed, nothing written")
		})
	}
}

func TestImportAppliesAndRepairs(t *testing.T) {
	store, v, _ := newStore(t, nil)

	var origins []settings.Origin
	store.SubscribeAll(func(c settings.Change) { origins = append(origins, c.Origin) })

	doc := `{
  "resolution": "8K",
  "random-interval": 600.0,
  "lockscreen-blur-strength": 250,
  "market": "fr-FR",
  "selected-image": "missing.jpg"
}`
	require.NoError(t, Import(store, v, []byte(doc)))

	assert.Equal(t, "auto", store.GetString(schema.Resolution), "repaired before it reached the store")
	assert.Equal(t, 600, store.GetInt(schema.RandomInterval))
	assert.Equal(t, 100, store.GetInt(schema.LockscreenBlurStrength))
	assert.Equal(t, "fr-FR", store.GetString(schema.Market))
	assert.Equal(t, "", store.GetString(schema.SelectedImage))

	require.NotEmpty(t, origins)
	for _, o := range origins {
		assert.Equal(t, settings.OriginImport, o)
	}
}

func TestImportYAML(t *testing.T) {
	store, v, _ := newStore(t, nil)
	require.NoError(t, Import(store, v, []byte("icon-name: brick-symbolic\nlockscreen-blur-brightness: 1\n")))
	assert.Equal(t, "brick-symbolic", store.GetString(schema.IconName))
	assert.Equal(t, 1.0, store.GetDouble(schema.LockscreenBlurBrightness))
}

func TestDecodeDesktopDocument(t *testing.T) {
	values, err := Decode(schema.Desktop(), []byte(`{"picture-options": "centered"}`))
	require.NoError(t, err)
	assert.Equal(t, map[schema.Key]interface{}{schema.PictureOptions: "centered"}, values)

	_, err = Decode(schema.Desktop(), []byte(`{"market": "de-DE"}`))
	assert.True(t, errors.Is(err, errors.ErrCodeImportMalformed))
}

func TestImportIntoDesktopStore(t *testing.T) {
	store, err := settings.Open(schema.Desktop(), settings.NewMemoryBackend(nil))
	require.NoError(t, err)

	require.NoError(t, Import(store, validate.New(store), []byte("picture-options: spanned\n")))
	assert.Equal(t, "spanned", store.GetString(schema.PictureOptions))
}

func TestDecodeUnknownSchema(t *testing.T) {
	other := schema.New("org.example.other", schema.Bool("flag", false, "A flag"))
	_, err := Decode(other, []byte(`{"flag": true}`))
	assert.True(t, errors.Is(err, errors.ErrCodeInternal))
}

func TestMalformedImportLeavesStoreUntouched(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"broken json", `{"market": "de-DE",`},
		{"not an object", `[1, 2, 3]`},
		{"unknown key", `{"market": "de-DE", "colour": "blue"}`},
		{"wrong type", `{"market": "de-DE", "hide-indicator": "yes"}`},
		{"fractional int", `{"market": "de-DE", "random-interval": 1.5}`},
		{"trailing data", `{"market": "de-DE"} {}`},
		{"yaml wrong type", "market: de-DE\nrandom-interval: soon\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, v, backend := newStore(t, nil)
			before := store.Snapshot()

			err := Import(store, v, []byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrCodeImportMalformed), err.Error())
			assert.Equal(t, before, store.Snapshot())
			assert.Zero(t, backend.Saves())
		})
	}
}

func TestExportImportDir(t *testing.T) {
	dir := t.TempDir()
	src, _, _ := newStore(t, map[string]interface{}{"market": "en-GB", "random-mode-enabled": true})

	path, err := ExportToDir(src, dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, FileName), path)

	dst, v, _ := newStore(t, nil)
	require.NoError(t, ImportFromDir(dst, v, dir))
	assert.Equal(t, "en-GB", dst.GetString(schema.Market))
	assert.True(t, dst.GetBool(schema.RandomModeEnabled))

	err = ImportFromDir(dst, v, t.TempDir())
	assert.True(t, errors.Is(err, errors.ErrCodeConfigNotFound))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatJSON, "JSON": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseFormat("xml")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}
