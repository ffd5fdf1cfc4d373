// Package paths locates sprite documents and other asset files by
// shortname, searching a small set of conventional directories.
package paths

import (
	"io"
	"os"
	"path/filepath"

	"github.com/golang/glog"
)

// searchDirs returns the directories Find probes, in order: the working
// directory, an assets/ subdirectory, and the binary's own directory.
func searchDirs() []string {
	dirs := []string{".", "assets", "sprites"}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// Find locates the passed asset shortname and returns an absolute or
// relative path to find the asset at, or "" when no candidate exists.
//
// For example, for "player.aseprite" it may return
// "assets/player.aseprite".
func Find(fileName string) string {
	for _, dir := range searchDirs() {
		path := filepath.Join(dir, fileName)
		if f, err := os.Open(path); err == nil {
			f.Close()
			glog.Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// Open locates the passed file in the same locations that Find would look,
// and opens it. If Find returns an empty string, the bare name is tried so
// the caller gets the underlying not-exist error.
func Open(fileName string) (interface {
	io.ReadCloser
	io.Seeker
}, error) {
	if path := Find(fileName); path != "" {
		fileName = path
	}
	return os.Open(fileName)
}
