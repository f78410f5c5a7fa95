// Package dump writes every sprite of a catalog out as individual image
// files, keeping track of entries whose sprites could not be decoded.
package dump

import (
	"context"
	"fmt"
	"image"
	"io"
	"path"
	"strconv"

	"github.com/golang/glog"
	"github.com/gookit/color"
	"github.com/pkg/errors"

	"badc0de.net/pkg/sprdump/dat"
	"badc0de.net/pkg/sprdump/spr"
	"badc0de.net/pkg/sprdump/things"
)

// Output subdirectories, one per entry kind.
const (
	ItemsDir     = "Items"
	CreaturesDir = "Creatures"
	// CompositeDir receives the composed frame 0 of each entry.
	CompositeDir = "Composite"
)

// Options configures Run. Sink and Encoder are required.
type Options struct {
	Sink    Sink
	Encoder Encoder

	// Composite additionally writes frame 0 of every entry, composed from
	// its tiles, as Composite/<id>.<ext>.
	Composite bool

	// Progress receives a "\r[ NN%]" line every other entry. May be nil.
	Progress io.Writer
	// Color highlights the progress line with terminal escapes.
	Color bool
}

// Summary describes a finished (or cancelled) run.
type Summary struct {
	// Entries is the number of catalog entries visited.
	Entries int
	// Saved is the number of sprite images written.
	Saved int
	// CorruptSprites is the number of sprites that had no usable data.
	CorruptSprites int
	// Corrupt lists, in catalog order, the ids of entries with at least one
	// corrupt sprite.
	Corrupt []uint16

	// Set by SaveCorruptIDs.
	CorruptPath string
	CorruptErr  error
}

// KindDir returns the output subdirectory for entries of kind k.
func KindDir(k dat.Kind) string {
	if k == dat.Creature {
		return CreaturesDir
	}
	return ItemsDir
}

// SpriteName returns the sink name of the n-th sprite of entry e.
func SpriteName(e *dat.Entry, n int, ext string) string {
	return path.Join(KindDir(e.Kind), strconv.Itoa(int(e.ID))+"_s"+strconv.Itoa(n)+"."+ext)
}

// Run decodes every sprite of every entry in cat and stores the encoded
// images in opts.Sink.
//
// A sprite without usable data is counted as corrupt and its entry id is
// recorded; the run continues with the next sprite. Failures to encode or
// store an image abort the run. Run checks ctx between entries and returns
// the summary so far together with ctx.Err() when cancelled.
//
// Run does not close the sink.
func Run(ctx context.Context, cat *dat.Catalog, atlas *spr.Atlas, opts Options) (*Summary, error) {
	if opts.Sink == nil || opts.Encoder == nil {
		return nil, errors.New("dump: Options.Sink and Options.Encoder are required")
	}
	if opts.Composite {
		if dm, ok := opts.Sink.(*DirSink); ok {
			if err := (OSDirMaker{}).MakeDir(path.Join(dm.root, CompositeDir)); err != nil {
				return nil, err
			}
		}
	}

	sum := &Summary{}
	total := cat.Expected
	if total < len(cat.Entries) {
		total = len(cat.Entries)
	}
	img := image.NewRGBA(image.Rect(0, 0, spr.SpriteSize, spr.SpriteSize))

	for i := range cat.Entries {
		if err := ctx.Err(); err != nil {
			glog.Warningf("dump: cancelled after %d entries", sum.Entries)
			return sum, err
		}
		e := &cat.Entries[i]

		corrupt := false
		for n, sid := range e.SpriteIDs {
			if err := atlas.DecodeInto(sid, img); err != nil {
				glog.V(2).Infof("dump: entry %d sprite %d: %v", e.ID, n, err)
				sum.CorruptSprites++
				if !corrupt {
					sum.Corrupt = append(sum.Corrupt, e.ID)
					corrupt = true
				}
				continue
			}
			if err := put(opts, SpriteName(e, n, opts.Encoder.Ext()), img); err != nil {
				return sum, err
			}
			sum.Saved++
		}

		if opts.Composite && len(e.SpriteIDs) > 0 {
			c, err := things.Compose(atlas, e, things.Frame{})
			if err != nil {
				glog.V(2).Infof("dump: composing entry %d: %v", e.ID, err)
			}
			name := path.Join(CompositeDir, strconv.Itoa(int(e.ID))+"."+opts.Encoder.Ext())
			if err := put(opts, name, c); err != nil {
				return sum, err
			}
		}

		sum.Entries++
		if sum.Entries%2 == 0 {
			progress(opts, 100*sum.Entries/total)
		}
	}
	if opts.Progress != nil {
		fmt.Fprintln(opts.Progress)
	}
	return sum, nil
}

func put(opts Options, name string, img image.Image) error {
	err := opts.Sink.Put(name, func(w io.Writer) error {
		return opts.Encoder.Encode(w, img)
	})
	return errors.Wrapf(err, "dump: saving %s", name)
}

func progress(opts Options, pct int) {
	if opts.Progress == nil {
		return
	}
	line := fmt.Sprintf("[%3d%%]", pct)
	if opts.Color {
		line = color.Cyan.Sprint(line)
	}
	fmt.Fprint(opts.Progress, "\r"+line)
}

// String renders the final report line, for example
// "120 sprites were saved and 2 were corrupt, successfully saved corrupt ids to corrupt_ids.txt".
func (s *Summary) String() string {
	out := fmt.Sprintf("%d sprites were saved", s.Saved)
	if s.CorruptSprites == 0 && len(s.Corrupt) == 0 {
		return out
	}
	out += fmt.Sprintf(" and %d were corrupt", s.CorruptSprites)
	switch {
	case s.CorruptPath == "":
	case s.CorruptErr != nil:
		out += ", failed to save corrupt ids to " + s.CorruptPath
	default:
		out += ", successfully saved corrupt ids to " + s.CorruptPath
	}
	return out
}
