package schema

// Keys of the wallpaper extension schema.
const (
	HideIndicator          Key = "hide-indicator"
	ShowNotifications      Key = "show-notifications"
	SetBackground          Key = "set-background"
	DebugLogging           Key = "debug-logging"
	RevertToCurrent        Key = "revert-to-current"
	OverrideUnsafeWayland  Key = "override-unsafe-wayland"
	AlwaysExportJSON       Key = "always-export-json"
	RandomModeEnabled      Key = "random-mode-enabled"
	OverrideLockscreenBlur Key = "override-lockscreen-blur"

	IconName           Key = "icon-name"
	Market             Key = "market"
	Resolution         Key = "resolution"
	RandomIntervalMode Key = "random-interval-mode"
	SelectedImage      Key = "selected-image"
	DownloadFolder     Key = "download-folder"

	RandomInterval           Key = "random-interval"
	LockscreenBlurStrength   Key = "lockscreen-blur-strength"
	LockscreenBlurBrightness Key = "lockscreen-blur-brightness"
)

// PictureOptions is the only key consulted on the desktop background schema.
const PictureOptions Key = "picture-options"

const (
	WallpaperSchemaID = "org.gnome.shell.extensions.bingwallpaper"
	DesktopSchemaID   = "org.gnome.desktop.background"
)

// Wallpaper returns the schema of the extension's own settings.
func Wallpaper() *Schema {
	return New(WallpaperSchemaID,
		Bool(HideIndicator, false, "Hide the panel indicator"),
		Bool(ShowNotifications, true, "Notify when a new image is downloaded"),
		Bool(SetBackground, true, "Set the desktop background to the new image"),
		Bool(DebugLogging, false, "Write debug messages to the journal"),
		Bool(RevertToCurrent, true, "Revert to the current image after a random image times out"),
		Bool(OverrideUnsafeWayland, true, "Allow features considered unsafe on Wayland"),
		Bool(AlwaysExportJSON, false, "Export settings into the image folder on every change"),
		Bool(RandomModeEnabled, false, "Shuffle between downloaded images"),
		Bool(OverrideLockscreenBlur, true, "Override the lock screen blur"),

		Enum(IconName, "bing-symbolic", Icons, "Indicator icon"),
		Enum(Market, "auto", Markets, "Image market"),
		Enum(Resolution, "auto", Resolutions, "Image resolution"),
		Enum(RandomIntervalMode, "daily", ShuffleModes, "When to shuffle images"),
		String(SelectedImage, "", "File name of the selected image in the download folder"),
		String(DownloadFolder, "", "Folder images are downloaded to; empty for the default"),

		Int(RandomInterval, 3600, 300, 604800, "Custom shuffle interval in seconds"),
		Int(LockscreenBlurStrength, 2, 0, 100, "Lock screen blur strength"),
		Double(LockscreenBlurBrightness, 0.6, 0.0, 1.0, "Lock screen blur brightness"),
	)
}

// Desktop returns the narrow view of the desktop background schema.
func Desktop() *Schema {
	return New(DesktopSchemaID,
		Enum(PictureOptions, "zoom", BackgroundStyles, "How the background image is rendered"),
	)
}

// ByID returns the schema registered under id.
func ByID(id string) (*Schema, bool) {
	switch id {
	case WallpaperSchemaID:
		return Wallpaper(), true
	case DesktopSchemaID:
		return Desktop(), true
	}
	return nil, false
}
