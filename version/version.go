package version

import (
	"fmt"
	"runtime"
	"strings"
)

// These variables are populated by the Go linker during the build process.
var (
	Version   = "dev"     // Git tag, e.g. v48
	Commit    = "none"    // Git commit hash
	Branch    = "unknown" // Git branch name
	BuildDate = "unknown" // Build timestamp
)

// Info holds all the versioning information.
type Info struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Branch    string `json:"branch"`
	BuildDate string `json:"buildDate"`
	GoVersion string `json:"goVersion"`
	Platform  string `json:"platform"`
}

// GetInfo returns a struct populated with the version information.
func GetInfo() Info {
	return Info{
		Version:   Version,
		Commit:    Commit,
		Branch:    Branch,
		BuildDate: BuildDate,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

// Release returns the extension release number without the tag prefix,
// as used for release notes lookups. It is empty for development builds.
func (i Info) Release() string {
	v := strings.TrimPrefix(i.Version, "v")
	if v == "" || v == "dev" {
		return ""
	}
	return v
}

// UserAgent identifies wallprefs in outgoing requests.
func (i Info) UserAgent() string {
	return "wallprefs/" + i.Version
}

// String returns a formatted string of the version information.
func (i Info) String() string {
	return fmt.Sprintf(
		"Version:\t%s\nCommit:\t\t%s\nBranch:\t\t%s\nBuild Date:\t%s\nGo Version:\t%s\nPlatform:\t%s",
		i.Version, i.Commit, i.Branch, i.BuildDate, i.GoVersion, i.Platform,
	)
}
