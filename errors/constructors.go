package errors

import (
	stderrors "errors"
	"fmt"
	"io/fs"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *PrefsError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *PrefsError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// UnknownKey creates an error for a settings key missing from the schema
func UnknownKey(schemaID, key string) *PrefsError {
	return New(ErrCodeUnknownKey, fmt.Sprintf("key '%s' is not part of schema '%s'", key, schemaID)).
		WithDetail("schema", schemaID).
		WithDetail("key", key)
}

// TypeMismatch creates an error for a value that does not fit the key's declared type
func TypeMismatch(key, want string, got interface{}) *PrefsError {
	return New(ErrCodeTypeMismatch,
		fmt.Sprintf("key '%s' expects a %s value, got %T", key, want, got)).
		WithDetail("key", key).
		WithDetail("expected", want)
}

// BindingConflict creates an error for a second writable binding of the same key/control pair
func BindingConflict(key string) *PrefsError {
	return New(ErrCodeBindingConflict,
		fmt.Sprintf("control is already bound with write authority to '%s'", key)).
		WithDetail("key", key)
}

// UnknownPreset creates an error for a preset name outside the closed preset set
func UnknownPreset(name string) *PrefsError {
	return New(ErrCodeUnknownPreset, fmt.Sprintf("preset '%s' does not exist", name)).
		WithDetail("preset", name)
}

// ImportMalformed wraps a failure to decode or validate an import document
func ImportMalformed(err error) *PrefsError {
	return Wrap(err, ErrCodeImportMalformed, "settings document could not be imported")
}

// MigrationInProgress creates an error for a migration request while another runs
func MigrationInProgress(source, destination string) *PrefsError {
	return New(ErrCodeMigrationInProgress, "another image folder migration is already running").
		WithDetail("source", source).
		WithDetail("destination", destination)
}

// MigrationFailed wraps a hard failure that prevented any asset from moving
func MigrationFailed(destination string, err error) *PrefsError {
	prefsErr := Wrap(err, ErrCodeMigrationFailed, fmt.Sprintf("could not move images to %s", destination)).
		WithDetail("destination", destination)

	if stderrors.Is(err, fs.ErrPermission) {
		prefsErr = prefsErr.WithDetail("permission", true)
	}

	return prefsErr
}
