package preset

import (
	"testing"

	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/settings"
	"github.com/grovetools/wallprefs/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyPresets(t *testing.T) {
	tests := []struct {
		name       string
		strength   int
		brightness float64
	}{
		{GnomeDefault, 60, 0.55},
		{NoBlur, 0, 1.0},
		{SlightBlur, 2, 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, _ := testutil.NewMemoryStore(t, schema.Wallpaper(), map[string]interface{}{
				string(schema.LockscreenBlurStrength):   33,
				string(schema.LockscreenBlurBrightness): 0.33,
			})
			rec := testutil.Record(t, store)

			require.NoError(t, Apply(store, tt.name))
			assert.ElementsMatch(t,
				[]schema.Key{schema.LockscreenBlurStrength, schema.LockscreenBlurBrightness}, rec.Keys())
			assert.Equal(t, tt.strength, store.GetInt(schema.LockscreenBlurStrength))
			assert.Equal(t, tt.brightness, store.GetDouble(schema.LockscreenBlurBrightness))
		})
	}
}

func TestNoBlurIsNeverObservedHalfApplied(t *testing.T) {
	store, err := settings.Open(schema.Wallpaper(), nil)
	require.NoError(t, err)
	oldBrightness := store.GetDouble(schema.LockscreenBlurBrightness)

	type pair struct {
		strength   int
		brightness float64
	}
	var observed []pair
	store.SubscribeAll(func(c settings.Change) {
		assert.Equal(t, settings.OriginPreset, c.Origin)
		observed = append(observed, pair{
			store.GetInt(schema.LockscreenBlurStrength),
			store.GetDouble(schema.LockscreenBlurBrightness),
		})
	})

	require.NoError(t, Apply(store, NoBlur))
	require.NotEmpty(t, observed)
	for _, p := range observed {
		assert.False(t, p.strength == 0 && p.brightness == oldBrightness, "half-applied preset observed")
		assert.Equal(t, pair{0, 1.0}, p)
	}
}

func TestUnknownPreset(t *testing.T) {
	store, err := settings.Open(schema.Wallpaper(), nil)
	require.NoError(t, err)

	err = Apply(store, "heavy-blur")
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownPreset))
	assert.Equal(t, 2, store.GetInt(schema.LockscreenBlurStrength))
}

func TestNamesAndLookup(t *testing.T) {
	assert.Equal(t, []string{GnomeDefault, NoBlur, SlightBlur}, Names())

	p, ok := Lookup(NoBlur)
	require.True(t, ok)
	p.Values[0].Value = 99
	again, _ := Lookup(NoBlur)
	assert.Equal(t, 0, again.Values[0].Value, "presets are immutable")
}
