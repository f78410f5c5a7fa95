// Package dat reads the item and creature catalog stored in Tibia.dat.
//
// The file starts with a fixed header carrying the number of items and
// creatures, followed by one variable-length entry per thing. Each entry is
// an attribute stream terminated by 0xFF, the size of the thing in tiles,
// five layout bytes and the table of sprite ids making up its graphics.
package dat

import (
	"encoding/binary"
	"fmt"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/sprdump/cursor"
)

// FirstID is the id of the first entry in the catalog.
const FirstID = 100

var (
	// ErrUnknownTag is matched by *UnknownTagError.
	ErrUnknownTag = errors.New("dat: unknown attribute tag")
	// ErrTruncated is returned when the sprite id table of an entry runs
	// past the end of the file.
	ErrTruncated = errors.New("dat: sprite id table truncated")
	// ErrTooManySprites is returned for entries whose layout would need an
	// implausibly large sprite id table.
	ErrTooManySprites = errors.New("dat: too many sprites in entry")
)

// UnknownTagError reports an attribute tag with no known payload width.
// Decoding cannot continue past it.
type UnknownTagError struct {
	ID     uint16
	Tag    Tag
	Offset int
}

func (e *UnknownTagError) Error() string {
	return fmt.Sprintf("dat: failed to load entry %d: unknown attribute 0x%02X at offset %d", e.ID, uint8(e.Tag), e.Offset)
}

func (e *UnknownTagError) Is(target error) bool {
	return target == ErrUnknownTag
}

// PartialError is returned together with the entries decoded before an entry
// failed to decode.
type PartialError struct {
	Decoded  int
	Expected int
	ID       uint16 // the entry that failed
	Err      error
}

func (e *PartialError) Error() string {
	return fmt.Sprintf("dat: catalog incomplete: decoded %d of %d entries, entry %d failed: %v", e.Decoded, e.Expected, e.ID, e.Err)
}

func (e *PartialError) Unwrap() error {
	return e.Err
}

// Header is the fixed start of the file.
type Header struct {
	Signature     uint32
	ItemCount     uint16
	CreatureCount uint16
	EffectCount   uint16
	MissileCount  uint16
}

// Catalog holds the entries in file order. Entries[i] has the id
// FirstID+i.
type Catalog struct {
	Header  Header
	Entries []Entry
	// Expected is the number of entries the header announced.
	Expected int
}

// Load reads the catalog at path.
//
// If an entry cannot be decoded, Load returns the entries decoded so far
// together with a *PartialError.
func Load(path string) (*Catalog, error) {
	c, err := cursor.Load(path)
	if err != nil {
		return nil, errors.Wrapf(err, "dat: could not load %s", path)
	}
	return NewCatalog(c)
}

// NewCatalog decodes a catalog from a cursor positioned at the start of the
// file. See Load for the handling of undecodable entries.
func NewCatalog(c *cursor.Cursor) (*Catalog, error) {
	var h Header
	if err := binary.Read(c, binary.LittleEndian, &h); err != nil {
		return nil, errors.Wrapf(cursor.ErrOutOfRange, "dat: could not read header (%v)", err)
	}

	total := int(h.ItemCount) + int(h.CreatureCount)
	glog.Infof("Creatures: %d Items: %d Total: %d", h.CreatureCount, h.ItemCount, total)

	cat := &Catalog{
		Header:   h,
		Entries:  make([]Entry, 0, total),
		Expected: total,
	}
	for i := 1; i <= total; i++ {
		id := uint16(FirstID - 1 + i)
		e, err := decodeEntry(c, id)
		if e != nil {
			e.Kind = Item
			if i > int(h.ItemCount) {
				e.Kind = Creature
			}
			cat.Entries = append(cat.Entries, *e)
		}
		if err != nil {
			glog.Errorf("Failed to unserialize dat item %d: %v", id, err)
			return cat, &PartialError{Decoded: len(cat.Entries), Expected: total, ID: id, Err: err}
		}
	}
	if c.Remaining() > 0 {
		glog.Warningf("dat: %d trailing bytes after %d entries", c.Remaining(), total)
	}
	return cat, nil
}

// Entry returns the entry with the passed id, or nil.
func (cat *Catalog) Entry(id uint16) *Entry {
	if id < FirstID || int(id-FirstID) >= len(cat.Entries) {
		return nil
	}
	return &cat.Entries[id-FirstID]
}

// Items returns the item entries.
func (cat *Catalog) Items() []Entry {
	return cat.byKind(Item)
}

// Creatures returns the creature entries.
func (cat *Catalog) Creatures() []Entry {
	return cat.byKind(Creature)
}

func (cat *Catalog) byKind(k Kind) []Entry {
	var out []Entry
	for _, e := range cat.Entries {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// MaxItemID returns the id of the last item entry, or 0 if there is none.
func (cat *Catalog) MaxItemID() uint16 {
	items := cat.Items()
	if len(items) == 0 {
		return 0
	}
	return items[len(items)-1].ID
}
