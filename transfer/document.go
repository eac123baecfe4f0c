package transfer

import (
	"github.com/grovetools/wallprefs/errors"
	"github.com/grovetools/wallprefs/schema"
)

// target is the typed form a document of one schema decodes into.
type target interface {
	Values() map[schema.Key]interface{}
}

// newTarget returns an empty typed document for s.
func newTarget(s *schema.Schema) (target, error) {
	switch s.ID() {
	case schema.WallpaperSchemaID:
		return &Document{}, nil
	case schema.DesktopSchemaID:
		return &DesktopDocument{}, nil
	}
	return nil, errors.New(errors.ErrCodeInternal, "no document type for schema "+s.ID())
}

// Document is the typed form of an imported settings document. Absent keys
// stay nil and keep their current value.
type Document struct {
	HideIndicator          *bool `mapstructure:"hide-indicator"`
	ShowNotifications      *bool `mapstructure:"show-notifications"`
	SetBackground          *bool `mapstructure:"set-background"`
	DebugLogging           *bool `mapstructure:"debug-logging"`
	RevertToCurrent        *bool `mapstructure:"revert-to-current"`
	OverrideUnsafeWayland  *bool `mapstructure:"override-unsafe-wayland"`
	AlwaysExportJSON       *bool `mapstructure:"always-export-json"`
	RandomModeEnabled      *bool `mapstructure:"random-mode-enabled"`
	OverrideLockscreenBlur *bool `mapstructure:"override-lockscreen-blur"`

	IconName           *string `mapstructure:"icon-name"`
	Market             *string `mapstructure:"market"`
	Resolution         *string `mapstructure:"resolution"`
	RandomIntervalMode *string `mapstructure:"random-interval-mode"`
	SelectedImage      *string `mapstructure:"selected-image"`
	DownloadFolder     *string `mapstructure:"download-folder"`

	RandomInterval           *int     `mapstructure:"random-interval"`
	LockscreenBlurStrength   *int     `mapstructure:"lockscreen-blur-strength"`
	LockscreenBlurBrightness *float64 `mapstructure:"lockscreen-blur-brightness"`
}

// Values returns the keys present in the document.
func (d *Document) Values() map[schema.Key]interface{} {
	out := make(map[schema.Key]interface{})
	putBool(out, schema.HideIndicator, d.HideIndicator)
	putBool(out, schema.ShowNotifications, d.ShowNotifications)
	putBool(out, schema.SetBackground, d.SetBackground)
	putBool(out, schema.DebugLogging, d.DebugLogging)
	putBool(out, schema.RevertToCurrent, d.RevertToCurrent)
	putBool(out, schema.OverrideUnsafeWayland, d.OverrideUnsafeWayland)
	putBool(out, schema.AlwaysExportJSON, d.AlwaysExportJSON)
	putBool(out, schema.RandomModeEnabled, d.RandomModeEnabled)
	putBool(out, schema.OverrideLockscreenBlur, d.OverrideLockscreenBlur)

	putString(out, schema.IconName, d.IconName)
	putString(out, schema.Market, d.Market)
	putString(out, schema.Resolution, d.Resolution)
	putString(out, schema.RandomIntervalMode, d.RandomIntervalMode)
	putString(out, schema.SelectedImage, d.SelectedImage)
	putString(out, schema.DownloadFolder, d.DownloadFolder)

	if d.RandomInterval != nil {
		out[schema.RandomInterval] = *d.RandomInterval
	}
	if d.LockscreenBlurStrength != nil {
		out[schema.LockscreenBlurStrength] = *d.LockscreenBlurStrength
	}
	if d.LockscreenBlurBrightness != nil {
		out[schema.LockscreenBlurBrightness] = *d.LockscreenBlurBrightness
	}
	return out
}

// DesktopDocument is the typed form of a desktop background document.
type DesktopDocument struct {
	PictureOptions *string `mapstructure:"picture-options"`
}

// Values returns the keys present in the document.
func (d *DesktopDocument) Values() map[schema.Key]interface{} {
	out := make(map[schema.Key]interface{})
	putString(out, schema.PictureOptions, d.PictureOptions)
	return out
}

func putBool(out map[schema.Key]interface{}, key schema.Key, v *bool) {
	if v != nil {
		out[key] = *v
	}
}

func putString(out map[schema.Key]interface{}, key schema.Key, v *string) {
	if v != nil {
		out[key] = *v
	}
}
