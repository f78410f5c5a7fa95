// Command sprdump writes every sprite of Tibia.spr out as an image file,
// sorted by the Tibia.dat entry using it.
//
// Usage:
//
//	sprdump [flags] <output dir>
//
// Sprites are written as <output dir>/Items/<id>_s<n>.<ext> and
// <output dir>/Creatures/<id>_s<n>.<ext>. Ids of entries with sprites that
// could not be decoded are listed in the file named by -corrupt_ids.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/common-nighthawk/go-figure"
	"github.com/golang/glog"
	"golang.org/x/crypto/ssh/terminal"

	"badc0de.net/pkg/sprdump/dump"
	"badc0de.net/pkg/sprdump/things/full"
)

var (
	format     = flag.String("format", "png", "output image format: "+strings.Join(dump.Formats(), ", "))
	scale      = flag.Int("scale", 1, "integer factor to upscale sprites by")
	archive    = flag.Bool("archive", false, "write a single sprites.tar.zst into the output dir instead of one file per sprite")
	composite  = flag.Bool("composite", false, "also write frame 0 of every entry, composed from its tiles")
	corruptIDs = flag.String("corrupt_ids", "corrupt_ids.txt", "where to list ids of entries with corrupt sprites")
	banner     = flag.Bool("banner", true, "print a banner on start")
	noProgress = flag.Bool("no_progress", false, "do not print progress")
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [flags] <output dir>\n", filepath.Base(os.Args[0]))
	flag.PrintDefaults()
}

func main() {
	full.SetupFilePathFlags()
	flag.Usage = usage
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	dir := flag.Arg(0)
	if flag.NArg() != 1 || dir == "" {
		flag.Usage()
		os.Exit(2)
	}

	enc, err := dump.EncoderByName(*format)
	if err != nil {
		glog.Exitf("%v", err)
	}
	if *scale > 1 {
		enc = dump.Scaled{Encoder: enc, Factor: *scale}
	}

	if *banner {
		figure.NewFigure("sprdump", "", true).Print()
		fmt.Println()
	}

	th, err := full.FromFilePathFlags()
	if err != nil {
		glog.Exitf("Failed to load datafiles: %v", err)
	}
	cat, atlas := th.Catalog(), th.Atlas()
	fmt.Printf("Total sprites found in Tibia.spr: %d\n", atlas.SpriteCount)

	var sink dump.Sink
	if *archive {
		if err := (dump.OSDirMaker{}).MakeDir(dir); err != nil {
			glog.Exitf("%v", err)
		}
		sink, err = dump.CreateArchive(filepath.Join(dir, "sprites.tar.zst"))
	} else {
		sink, err = dump.NewDirSink(dir, dump.OSDirMaker{})
	}
	if err != nil {
		glog.Exitf("%v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := dump.Options{
		Sink:      sink,
		Encoder:   enc,
		Composite: *composite,
	}
	if !*noProgress {
		opts.Progress = os.Stdout
		opts.Color = terminal.IsTerminal(int(os.Stdout.Fd()))
	}

	fmt.Printf("Now dumping sprites into %s (This may take some time)...\n", dir)
	sum, err := dump.Run(ctx, cat, atlas, opts)
	if cerr := sink.Close(); err == nil {
		err = cerr
	}
	if sum != nil && *corruptIDs != "" {
		sum.SaveCorruptIDs(*corruptIDs)
	}
	if sum != nil {
		fmt.Println(sum)
	}
	if err != nil {
		glog.Exitf("Dump failed: %v", err)
	}
}
