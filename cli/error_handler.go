package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"

	"github.com/grovetools/wallprefs/errors"
)

// ErrorHandler provides user-friendly error messages
type ErrorHandler struct {
	Verbose bool
	Out     io.Writer
}

// NewErrorHandler creates a new error handler writing to stderr
func NewErrorHandler(verbose bool) *ErrorHandler {
	return &ErrorHandler{
		Verbose: verbose,
		Out:     os.Stderr,
	}
}

// Handle prints a message for err based on its code and returns err.
func (h *ErrorHandler) Handle(err error) error {
	if err == nil {
		return nil
	}
	w := h.Out
	if w == nil {
		w = os.Stderr
	}
	var prefsErr *errors.PrefsError
	details := map[string]interface{}{}
	if stderrors.As(err, &prefsErr) && prefsErr.Details != nil {
		details = prefsErr.Details
	}

	switch errors.GetCode(err) {
	case errors.ErrCodeConfigNotFound:
		fmt.Fprintf(w, "❌ Configuration not found at %v\n", details["path"])
		fmt.Fprintf(w, "Run 'wallprefs config schema' to see the accepted format.\n")

	case errors.ErrCodeConfigInvalid:
		fmt.Fprintf(w, "❌ Invalid configuration: %v\n", err)

	case errors.ErrCodeUnknownKey:
		fmt.Fprintf(w, "❌ Unknown setting '%v'\n", details["key"])
		fmt.Fprintf(w, "Run 'wallprefs show' to list the available settings.\n")

	case errors.ErrCodeTypeMismatch:
		fmt.Fprintf(w, "❌ Setting '%v' expects a %v value\n", details["key"], details["expected"])

	case errors.ErrCodeUnknownPreset:
		fmt.Fprintf(w, "❌ Unknown preset '%v'\n", details["preset"])
		fmt.Fprintf(w, "Run 'wallprefs preset --list' to see the available presets.\n")

	case errors.ErrCodeImportMalformed:
		fmt.Fprintf(w, "❌ The settings document was rejected and nothing was changed: %v\n", err)

	case errors.ErrCodeMigrationInProgress:
		fmt.Fprintf(w, "❌ Another folder change is running. Try again when it finishes.\n")

	case errors.ErrCodeMigrationFailed:
		fmt.Fprintf(w, "❌ The download folder was not changed: %v\n", err)

	case errors.ErrCodePermissionDenied:
		fmt.Fprintf(w, "❌ Permission denied: %v\n", err)

	default:
		fmt.Fprintf(w, "❌ Error: %v\n", err)
	}

	if h.Verbose {
		if prefsErr != nil {
			fmt.Fprintf(w, "\nError details:\n%s\n", prefsErr.ToJSON())
		}
	}
	return err
}
