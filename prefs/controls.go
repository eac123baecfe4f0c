package prefs

import (
	"github.com/grovetools/wallprefs/control"
	"github.com/grovetools/wallprefs/schema"
)

// Controls is the set of control models a preferences page binds. A toolkit
// adapter creates the matching widgets and mirrors these models.
type Controls struct {
	HideIndicator          *control.Toggle
	ShowNotifications      *control.Toggle
	SetBackground          *control.Toggle
	DebugLogging           *control.Toggle
	RevertToCurrent        *control.Toggle
	OverrideUnsafeWayland  *control.Toggle
	AlwaysExportJSON       *control.Toggle
	RandomModeEnabled      *control.Toggle
	OverrideLockscreenBlur *control.Toggle

	Icon            *control.ComboBox
	IconPreview     *control.Label
	Market          *control.DropDown
	Resolution      *control.ComboBox
	ShuffleMode     *control.ComboBox
	RandomInterval  *control.SpinButton
	SelectedImage   *control.Label
	Folder          *control.FolderButton
	OpenFolder      *control.Button
	BackgroundStyle *control.ComboBox
	BlurStrength    *control.SpinButton
	BlurBrightness  *control.SpinButton
	ChangeLog       *control.Label
}

// NewControls returns unbound controls with the ranges of the schema.
func NewControls() *Controls {
	s := schema.Wallpaper()
	spin := func(key schema.Key, digits int) *control.SpinButton {
		def, _ := s.Lookup(key)
		return control.NewSpinButton(string(key), def.Min, def.Max, digits)
	}

	return &Controls{
		HideIndicator:          control.NewToggle(string(schema.HideIndicator)),
		ShowNotifications:      control.NewToggle(string(schema.ShowNotifications)),
		SetBackground:          control.NewToggle(string(schema.SetBackground)),
		DebugLogging:           control.NewToggle(string(schema.DebugLogging)),
		RevertToCurrent:        control.NewToggle(string(schema.RevertToCurrent)),
		OverrideUnsafeWayland:  control.NewToggle(string(schema.OverrideUnsafeWayland)),
		AlwaysExportJSON:       control.NewToggle(string(schema.AlwaysExportJSON)),
		RandomModeEnabled:      control.NewToggle(string(schema.RandomModeEnabled)),
		OverrideLockscreenBlur: control.NewToggle(string(schema.OverrideLockscreenBlur)),

		Icon:            control.NewComboBox(string(schema.IconName)),
		IconPreview:     control.NewLabel("icon-preview"),
		Market:          control.NewDropDown(string(schema.Market)),
		Resolution:      control.NewComboBox(string(schema.Resolution)),
		ShuffleMode:     control.NewComboBox(string(schema.RandomIntervalMode)),
		RandomInterval:  spin(schema.RandomInterval, 0),
		SelectedImage:   control.NewLabel(string(schema.SelectedImage)),
		Folder:          control.NewFolderButton(string(schema.DownloadFolder), ""),
		OpenFolder:      control.NewButton("open-folder"),
		BackgroundStyle: control.NewComboBox(string(schema.PictureOptions)),
		BlurStrength:    spin(schema.LockscreenBlurStrength, 0),
		BlurBrightness:  spin(schema.LockscreenBlurBrightness, 2),
		ChangeLog:       control.NewLabel("change-log"),
	}
}
