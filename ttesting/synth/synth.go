// Package synth builds small Tibia.dat and Tibia.spr images in memory for
// tests.
package synth

import (
	"bytes"
	"encoding/binary"
	"image/color"

	"github.com/bradfitz/iter"
)

const (
	DatSignature = 0x4B28B89E
	SprSignature = 0x4868ECC9
)

// Entry describes one catalog entry. Attrs is the raw attribute stream
// without the terminating 0xFF.
type Entry struct {
	Attrs     []byte
	Width     uint8
	Height    uint8
	ExactSize uint8 // only written when Width or Height is over 1
	Grid      [5]uint8
	SpriteIDs []uint16
}

// Single returns a 1x1 entry with a unit grid showing sprite id.
func Single(id uint16) Entry {
	return Entry{Width: 1, Height: 1, Grid: [5]uint8{1, 1, 1, 1, 1}, SpriteIDs: []uint16{id}}
}

// Bytes encodes the entry.
func (e Entry) Bytes() []byte {
	b := &bytes.Buffer{}
	b.Write(e.Attrs)
	b.WriteByte(0xFF)
	b.WriteByte(e.Width)
	b.WriteByte(e.Height)
	if e.Width > 1 || e.Height > 1 {
		b.WriteByte(e.ExactSize)
	}
	for i := range iter.N(len(e.Grid)) {
		b.WriteByte(e.Grid[i])
	}
	binary.Write(b, binary.LittleEndian, e.SpriteIDs)
	return b.Bytes()
}

// Catalog encodes a dat file with the passed items followed by creatures.
func Catalog(items, creatures []Entry) []byte {
	b := &bytes.Buffer{}
	binary.Write(b, binary.LittleEndian, struct {
		Signature                                          uint32
		ItemCount, CreatureCount, EffectCount, MissileCount uint16
	}{DatSignature, uint16(len(items)), uint16(len(creatures)), 0, 0})
	for _, e := range items {
		b.Write(e.Bytes())
	}
	for _, e := range creatures {
		b.Write(e.Bytes())
	}
	return b.Bytes()
}

// Run is one transparent run followed by a colored run.
type Run struct {
	Transparent uint16
	Colors      []color.RGBA // alpha is ignored
}

// Sprite describes one sprite data block. A nil Sprite (or Missing) gets a
// zero address in the index table.
type Sprite struct {
	Missing bool
	Runs    []Run
	// Length overrides the pixel byte length written in the block header
	// when non-zero.
	Length uint16
}

func (s *Sprite) block() []byte {
	runs := &bytes.Buffer{}
	for _, r := range s.Runs {
		binary.Write(runs, binary.LittleEndian, r.Transparent)
		binary.Write(runs, binary.LittleEndian, uint16(len(r.Colors)))
		for _, c := range r.Colors {
			runs.Write([]byte{c.R, c.G, c.B})
		}
	}
	length := uint16(runs.Len())
	if s.Length != 0 {
		length = s.Length
	}

	b := &bytes.Buffer{}
	b.Write([]byte{0xFF, 0x00, 0xFF}) // color key
	binary.Write(b, binary.LittleEndian, length)
	b.Write(runs.Bytes())
	return b.Bytes()
}

// Atlas encodes a spr file. sprites[0] is sprite id 1.
func Atlas(sprites ...*Sprite) []byte {
	const headerSize = 6
	offset := headerSize + 4*len(sprites)

	index := &bytes.Buffer{}
	data := &bytes.Buffer{}
	for _, s := range sprites {
		if s == nil || s.Missing {
			binary.Write(index, binary.LittleEndian, uint32(0))
			continue
		}
		binary.Write(index, binary.LittleEndian, uint32(offset+data.Len()))
		data.Write(s.block())
	}

	b := &bytes.Buffer{}
	binary.Write(b, binary.LittleEndian, uint32(SprSignature))
	binary.Write(b, binary.LittleEndian, uint16(len(sprites)))
	b.Write(index.Bytes())
	b.Write(data.Bytes())
	return b.Bytes()
}

// Solid returns a sprite whose first n pixels are c.
func Solid(n int, c color.RGBA) *Sprite {
	cols := make([]color.RGBA, n)
	for i := range cols {
		cols[i] = c
	}
	return &Sprite{Runs: []Run{{Colors: cols}}}
}
