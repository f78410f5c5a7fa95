// Command sprprint prints a single sprite, or an entry composed from its
// sprites, on the terminal.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/sprdump/imageprint"
	"badc0de.net/pkg/sprdump/spr"
	"badc0de.net/pkg/sprdump/things"
	"badc0de.net/pkg/sprdump/things/full"
)

var (
	sprID   = flag.Int("spr", 0, "sprite to print")
	entryID = flag.Int("entry", 0, "id of the item or creature to print")
	layer   = flag.Int("layer", 0, "layer of the entry to print")
	patX    = flag.Int("x", 0, "pattern x of the entry to print")
	patY    = flag.Int("y", 0, "pattern y of the entry to print")
	patZ    = flag.Int("z", 0, "pattern z of the entry to print")
	frame   = flag.Int("fr", 0, "animation frame of the entry to print")

	mode     = flag.String("mode", "24bit", "how to print: 24bit, 256, nocolor, iterm or rasterm")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", false, "whether to fit the image to the terminal")
	asURL    = flag.Bool("dataurl", false, "print a data: URL of the PNG instead of the image")
)

func sprHandler(idx int) (image.Image, error) {
	f, err := os.Open(full.PathFlagValue(full.FlagTibiaSprPath))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return spr.DecodeOne(f, idx)
}

func entryHandler(id int) (image.Image, error) {
	th, err := full.FromFilePathFlags()
	if err != nil {
		return nil, err
	}
	e, err := th.Entry(uint16(id))
	if err != nil {
		return nil, err
	}
	img, err := e.Frame(things.Frame{Layer: *layer, PatternX: *patX, PatternY: *patY, PatternZ: *patZ, Anim: *frame})
	if err != nil {
		glog.Warningf("entry %d: %v", id, err)
	}
	return img, nil
}

func printDataURL(img image.Image) error {
	buf := &bytes.Buffer{}
	if err := png.Encode(buf, img); err != nil {
		return err
	}
	byt, err := dataurl.New(buf.Bytes(), "image/png").MarshalText()
	if err != nil {
		return err
	}
	fmt.Printf("%s\n", byt)
	return nil
}

func main() {
	full.SetupFilePathFlags()
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	m, err := imageprint.ParseMode(*mode)
	if err != nil {
		glog.Exitf("%v", err)
	}

	var img image.Image
	switch {
	case *sprID != 0:
		img, err = sprHandler(*sprID)
	case *entryID != 0:
		img, err = entryHandler(*entryID)
	default:
		fmt.Fprintln(os.Stderr, "one of -spr or -entry is required")
		os.Exit(2)
	}
	if err != nil {
		glog.Exitf("error decoding: %v", err)
	}

	if *asURL {
		err = printDataURL(img)
	} else {
		err = out(img, m)
	}
	if err != nil {
		glog.Exitf("%v", err)
	}
}
