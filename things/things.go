// Package things combines the catalog of Tibia.dat with the sprites of
// Tibia.spr, so that whole items and creatures can be rendered.
package things

import (
	"image"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/sprdump/dat"
	"badc0de.net/pkg/sprdump/spr"
)

// ErrNoSuchEntry is returned for ids outside the catalog.
var ErrNoSuchEntry = errors.New("things: no such entry")

// Things holds a catalog and the atlas its sprite ids refer to. Both are
// read-only, so Things is safe for concurrent use.
type Things struct {
	catalog *dat.Catalog
	atlas   *spr.Atlas
}

func New(catalog *dat.Catalog, atlas *spr.Atlas) *Things {
	return &Things{catalog: catalog, atlas: atlas}
}

func (t *Things) Catalog() *dat.Catalog {
	return t.catalog
}

func (t *Things) Atlas() *spr.Atlas {
	return t.atlas
}

// CatalogSignature returns the signature of the loaded Tibia.dat.
func (t *Things) CatalogSignature() uint32 {
	return t.catalog.Header.Signature
}

// AtlasSignature returns the signature of the loaded Tibia.spr.
func (t *Things) AtlasSignature() uint32 {
	return t.atlas.Signature
}

// Entry returns the entry with the passed id.
func (t *Things) Entry(id uint16) (*Entry, error) {
	e := t.catalog.Entry(id)
	if e == nil {
		return nil, errors.Wrapf(ErrNoSuchEntry, "entry %d", id)
	}
	return &Entry{Entry: e, parent: t}, nil
}

// Sprite decodes a single sprite from the atlas.
func (t *Things) Sprite(id uint16) (*image.RGBA, error) {
	return t.atlas.Decode(id)
}

// Entry is a catalog entry bound to the atlas.
type Entry struct {
	*dat.Entry

	parent *Things
}

// Sprite decodes the n-th sprite of the entry.
func (e *Entry) Sprite(n int) (*image.RGBA, error) {
	if n < 0 || n >= len(e.SpriteIDs) {
		return nil, errors.Errorf("things: entry %d has %d sprites, asked for %d", e.ID, len(e.SpriteIDs), n)
	}
	glog.V(2).Infof("things: entry %d sprite %d is %d", e.ID, n, e.SpriteIDs[n])
	return e.parent.atlas.Decode(e.SpriteIDs[n])
}

// Frame composes the entry as seen in the given frame; see Compose.
func (e *Entry) Frame(f Frame) (*image.RGBA, error) {
	return Compose(e.parent.atlas, e.Entry, f)
}
