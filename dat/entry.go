package dat

import (
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/sprdump/cursor"
)

// SpriteSize is the edge of a single sprite tile, in pixels.
const SpriteSize = 32

// MaxSpriteCount bounds the sprite id table of a single entry. Larger
// counts can only come from a corrupt grid and are refused rather than
// allocated.
const MaxSpriteCount = 1 << 20

// Kind tells items apart from creatures.
type Kind uint8

const (
	Item Kind = iota
	Creature
)

func (k Kind) String() string {
	switch k {
	case Item:
		return "item"
	case Creature:
		return "creature"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// Grid axes. The sprite id table is laid out with Width varying fastest,
// then Height, then each grid axis in this order.
const (
	GridLayers = iota
	GridPatternX
	GridPatternY
	GridPatternZ
	GridFrames
)

// Entry is the decoded metadata of a single item or creature.
type Entry struct {
	ID   uint16
	Kind Kind

	Width, Height uint8
	// ExactSize is the rendered edge in pixels; 32 unless the entry spans
	// more than one tile.
	ExactSize uint16
	// Grid holds the five layout bytes following the size. Only their
	// product is needed to size SpriteIDs.
	Grid [5]uint8

	SpriteIDs []uint16
}

// SpriteCount returns Width*Height times the product of the grid bytes.
func (e *Entry) SpriteCount() uint32 {
	return spriteCount(e.Width, e.Height, e.Grid)
}

func spriteCount(w, h uint8, grid [5]uint8) uint32 {
	n := uint64(w) * uint64(h)
	for _, g := range grid {
		n *= uint64(g)
	}
	if n > MaxSpriteCount {
		return MaxSpriteCount + 1
	}
	return uint32(n)
}

// decodeEntry reads one entry starting at the cursor position: the
// attribute stream up to TagEnd, the size and grid bytes, and the sprite id
// table.
//
// A sprite id table cut short by the end of the buffer is tolerated: the
// entry is returned with the missing ids left at zero, alongside an error
// matching ErrTruncated.
func decodeEntry(c *cursor.Cursor, id uint16) (*Entry, error) {
	e := &Entry{ID: id}

	for {
		offset := c.Tell()
		b, err := c.ReadU8()
		if err != nil {
			return nil, errors.Wrapf(err, "reading attribute of entry %d", id)
		}
		tag := Tag(b)
		if tag == TagEnd {
			break
		}
		width, ok := PayloadWidth(tag)
		if !ok {
			return nil, &UnknownTagError{ID: id, Tag: tag, Offset: offset}
		}
		if width > 0 {
			if err := c.Skip(width); err != nil {
				return nil, errors.Wrapf(err, "skipping %s payload of entry %d", tag, id)
			}
		}
	}

	var err error
	if e.Width, err = c.ReadU8(); err != nil {
		return nil, errors.Wrapf(err, "reading width of entry %d", id)
	}
	if e.Height, err = c.ReadU8(); err != nil {
		return nil, errors.Wrapf(err, "reading height of entry %d", id)
	}
	e.ExactSize = SpriteSize
	if e.Width > 1 || e.Height > 1 {
		exact, err := c.ReadU8()
		if err != nil {
			return nil, errors.Wrapf(err, "reading exact size of entry %d", id)
		}
		e.ExactSize = uint16(exact)
		if limit := uint16(max(e.Width, e.Height)) * SpriteSize; e.ExactSize > limit {
			e.ExactSize = limit
		}
	}
	for i := range e.Grid {
		if e.Grid[i], err = c.ReadU8(); err != nil {
			return nil, errors.Wrapf(err, "reading grid of entry %d", id)
		}
	}

	n := e.SpriteCount()
	if n > MaxSpriteCount {
		return nil, errors.Wrapf(ErrTooManySprites, "entry %d: %dx%d grid %v", id, e.Width, e.Height, e.Grid)
	}
	e.SpriteIDs = make([]uint16, n)
	for i := range e.SpriteIDs {
		sid, err := c.ReadU16()
		if err != nil {
			glog.Warningf("dat: entry %d: sprite id table cut short at %d of %d", id, i, n)
			return e, errors.Wrapf(ErrTruncated, "entry %d: read %d of %d sprite ids", id, i, n)
		}
		e.SpriteIDs[i] = sid
	}

	glog.V(3).Infof("dat: entry %d: %dx%d exact %d grid %v, %d sprites", id, e.Width, e.Height, e.ExactSize, e.Grid, n)
	return e, nil
}

// SpriteIndex returns the position in SpriteIDs of the tile (x, y) of the
// given layer, pattern and frame. Out-of-range axes wrap around.
func (e *Entry) SpriteIndex(x, y, layer, px, py, pz, frame int) int {
	g := func(axis, v int) int {
		n := int(e.Grid[axis])
		if n == 0 {
			return 0
		}
		return v % n
	}
	idx := g(GridFrames, frame)
	idx = idx*int(e.Grid[GridPatternZ]) + g(GridPatternZ, pz)
	idx = idx*int(e.Grid[GridPatternY]) + g(GridPatternY, py)
	idx = idx*int(e.Grid[GridPatternX]) + g(GridPatternX, px)
	idx = idx*int(e.Grid[GridLayers]) + g(GridLayers, layer)
	idx = idx*int(e.Height) + y
	idx = idx*int(e.Width) + x
	return idx
}
