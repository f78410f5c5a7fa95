package full

import (
	"badc0de.net/pkg/sprdump/paths"
	"badc0de.net/pkg/sprdump/things"
)

var (
	tibiaDatPath string
	tibiaSprPath string
)

type PathFlag string

const (
	FlagTibiaDatPath = PathFlag("tibia_dat_path")
	FlagTibiaSprPath = PathFlag("tibia_spr_path")
)

// SetupFilePathFlags registers --tibia_dat_path and --tibia_spr_path.
//
// These paths will then be referred to in the FromFilePathFlags function.
func SetupFilePathFlags() {
	paths.SetupFilePathFlag("Tibia.dat", string(FlagTibiaDatPath), &tibiaDatPath)
	paths.SetupFilePathFlag("Tibia.spr", string(FlagTibiaSprPath), &tibiaSprPath)
}

// FromFilePathFlags initializes things.Things populated with files specified by
// the flags. The flags need to be registered and parsed by the time this
// function is invoked.
func FromFilePathFlags() (*things.Things, error) {
	return FromPaths(tibiaDatPath, tibiaSprPath)
}

// PathFlagValue returns the value for the passed flag path (such as the path
// to Tibia.dat). Before the flags are parsed, or if they were never
// registered, the path found by paths.Find is returned instead.
func PathFlagValue(key PathFlag) string {
	var v, name string
	switch key {
	case FlagTibiaDatPath:
		v, name = tibiaDatPath, "Tibia.dat"
	case FlagTibiaSprPath:
		v, name = tibiaSprPath, "Tibia.spr"
	default:
		return ""
	}
	if v == "" {
		v = paths.Find(name)
	}
	return v
}
