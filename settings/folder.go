package settings

import (
	"github.com/grovetools/wallprefs/pkg/paths"
	"github.com/grovetools/wallprefs/schema"
	"github.com/grovetools/wallprefs/util/pathutil"
)

// DownloadDir resolves the download-folder value of r to an absolute path.
// An empty value means the default folder under the user's pictures.
func DownloadDir(r Reader) string {
	dir := GetString(r, schema.DownloadFolder)
	if dir == "" {
		return paths.DefaultWallpaperDir()
	}
	if abs, err := pathutil.Expand(dir); err == nil {
		return abs
	}
	return dir
}
