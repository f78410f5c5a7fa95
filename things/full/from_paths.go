// Package full populates things.Things from the datafiles on disk.
package full

import (
	"github.com/golang/glog"
	"github.com/pkg/errors"

	tdat "badc0de.net/pkg/sprdump/dat"
	"badc0de.net/pkg/sprdump/spr"
	"badc0de.net/pkg/sprdump/things"
)

// FromPaths loads Tibia.dat and Tibia.spr from the passed paths.
//
// A catalog that could only be partially decoded is accepted with a warning;
// the entries decoded before the failure remain usable. Failing to open or
// load either file is an error.
func FromPaths(tibiaDatPath, tibiaSprPath string) (*things.Things, error) {
	glog.Infof("full.FromPaths(): opening tibia dat: %q", tibiaDatPath)
	catalog, err := tdat.Load(tibiaDatPath)
	var partial *tdat.PartialError
	switch {
	case errors.As(err, &partial):
		glog.Warningf("full.FromPaths(): %v", partial)
	case err != nil:
		return nil, errors.Wrap(err, "parsing tibia dat for add")
	}

	glog.Infof("full.FromPaths(): opening tibia spr: %q", tibiaSprPath)
	atlas, err := spr.Open(tibiaSprPath)
	if err != nil {
		return nil, errors.Wrap(err, "parsing tibia spr for add")
	}

	return things.New(catalog, atlas), nil
}

// FromDefaultPaths is FromPaths with the files found by the paths package.
func FromDefaultPaths() (*things.Things, error) {
	return FromPaths(PathFlagValue(FlagTibiaDatPath), PathFlagValue(FlagTibiaSprPath))
}
