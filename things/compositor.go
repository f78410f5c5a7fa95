package things

import (
	"image"
	"image/draw"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/sprdump/dat"
	"badc0de.net/pkg/sprdump/spr"
)

// Frame selects one picture out of an entry's grid.
type Frame struct {
	Layer                        int
	PatternX, PatternY, PatternZ int
	Anim                         int
}

// Compose draws the Width x Height tiles of one frame of e and crops the
// result to the entry's ExactSize.
//
// Tile (0, 0) is the bottom-right one; tiles extend up and to the left. Tiles
// with sprite id 0 are left transparent. If some tile has no sprite data the
// image is still composed, and returned along with an error matching
// spr.ErrMissingSpriteData.
func Compose(a *spr.Atlas, e *dat.Entry, f Frame) (*image.RGBA, error) {
	w, h := int(e.Width)*spr.SpriteSize, int(e.Height)*spr.SpriteSize
	canvas := image.NewRGBA(image.Rect(0, 0, w, h))
	if len(e.SpriteIDs) == 0 {
		return canvas, errors.Wrapf(spr.ErrMissingSpriteData, "entry %d has no sprites", e.ID)
	}

	var missing error
	tile := image.NewRGBA(image.Rect(0, 0, spr.SpriteSize, spr.SpriteSize))
	for y := 0; y < int(e.Height); y++ {
		for x := 0; x < int(e.Width); x++ {
			id := e.SpriteIDs[e.SpriteIndex(x, y, f.Layer, f.PatternX, f.PatternY, f.PatternZ, f.Anim)]
			if id == 0 {
				continue
			}
			if err := a.DecodeInto(id, tile); err != nil {
				glog.Warningf("things: entry %d tile (%d,%d): %v", e.ID, x, y, err)
				if missing == nil {
					missing = errors.Wrapf(err, "entry %d tile (%d,%d)", e.ID, x, y)
				}
				continue
			}
			r := image.Rect(
				(int(e.Width)-x-1)*spr.SpriteSize, (int(e.Height)-y-1)*spr.SpriteSize,
				(int(e.Width)-x)*spr.SpriteSize, (int(e.Height)-y)*spr.SpriteSize)
			draw.Draw(canvas, r, tile, image.Point{}, draw.Over)
		}
	}

	size := int(e.ExactSize)
	if size == 0 {
		size = max(w, h)
	}
	cw, ch := min(size, w), min(size, h)
	if cw == w && ch == h {
		return canvas, missing
	}
	out := image.NewRGBA(image.Rect(0, 0, cw, ch))
	draw.Draw(out, out.Rect, canvas, image.Pt(w-cw, h-ch), draw.Src)
	return out, missing
}
