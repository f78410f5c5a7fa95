// Package paths locates the Tibia datafiles.
package paths

import (
	"os"
	"path/filepath"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// EnvDataDir names the environment variable holding an extra directory to
// search first.
const EnvDataDir = "TIBIA_DATA_DIR"

// Dirs returns the directories searched by Find, in order: $TIBIA_DATA_DIR,
// the working directory, ./datafiles, and datafiles next to the binary.
func Dirs() []string {
	var dirs []string
	if d := os.Getenv(EnvDataDir); d != "" {
		dirs = append(dirs, d)
	}
	dirs = append(dirs, ".", "datafiles")
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Join(filepath.Dir(exe), "datafiles"))
	}
	return dirs
}

// Find locates the passed datafile shortname and returns a path to find the
// datafile at, or an empty string.
//
// For example, for "Tibia.spr" it may return "datafiles/Tibia.spr".
func Find(fileName string) string {
	for _, dir := range Dirs() {
		path := filepath.Join(dir, fileName)
		if st, err := os.Stat(path); err == nil && st.Mode().IsRegular() {
			glog.V(1).Infof("paths.Find(%q)=%s", fileName, path)
			return path
		}
	}
	return ""
}

// Open locates the passed file in the same locations that Find would look, and
// opens it. If Find returns an empty string, an error is returned.
func Open(fileName string) (*os.File, error) {
	path := Find(fileName)
	if path == "" {
		return nil, errors.Wrapf(os.ErrNotExist, "paths.Open(%q): not found in %v", fileName, Dirs())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "paths.Open(%q)", fileName)
	}
	return f, nil
}
