package spr

// This file contains code directly related to decoding the
// spr file format.

import (
	"encoding/binary"
	"fmt"
	"image"
	"io"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/sprdump/cursor"
)

const (
	// SpriteSize is the width and height of every sprite.
	SpriteSize = 32

	spritePixels = SpriteSize * SpriteSize
	headerSize   = 6
	colorKeySize = 3
)

var (
	// ErrMissingSpriteData is returned for sprites without pixel data: a
	// zero offset in the index, a zero pixel byte length, or an id outside
	// the index.
	ErrMissingSpriteData = errors.New("spr: missing sprite data")
	// ErrNoSprite is returned for sprite id 0, which never has data.
	ErrNoSprite = fmt.Errorf("spr: sprite id 0: %w", ErrMissingSpriteData)
)

// Header is the fixed start of the file.
type Header struct {
	Signature   uint32
	SpriteCount uint16
}

// Atlas is a sprite file loaded into memory. It is read-only once created
// and may be shared; every decode uses its own cursor.
type Atlas struct {
	Header
	// IndexOffset is where the sprite offset table starts, just past the
	// header.
	IndexOffset uint32

	data []byte
}

// Open loads the sprite file at path.
func Open(path string) (*Atlas, error) {
	b, err := cursor.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "spr: could not load %s", path)
	}
	return NewAtlas(b)
}

// NewAtlas reads the header of a sprite file held in b. b must not be
// modified afterwards.
func NewAtlas(b []byte) (*Atlas, error) {
	c := cursor.New(b)
	a := &Atlas{data: b}
	var err error
	if a.Signature, err = c.ReadU32(); err != nil {
		return nil, errors.Wrap(err, "spr: could not read signature")
	}
	if a.SpriteCount, err = c.ReadU16(); err != nil {
		return nil, errors.Wrap(err, "spr: could not read sprite count")
	}
	a.IndexOffset = uint32(c.Tell())
	glog.V(2).Infof("spr: signature %08x, %d sprites", a.Signature, a.SpriteCount)
	return a, nil
}

// Offset returns the absolute offset of the data block of sprite id.
func (a *Atlas) Offset(id uint16) (uint32, error) {
	if id == 0 {
		return 0, ErrNoSprite
	}
	if id > a.SpriteCount {
		return 0, errors.Wrapf(ErrMissingSpriteData, "sprite %d: index has %d entries", id, a.SpriteCount)
	}
	c := cursor.New(a.data)
	if err := c.Seek(int(a.IndexOffset) + (int(id)-1)*4); err != nil {
		return 0, errors.Wrapf(err, "sprite %d: seeking to index", id)
	}
	addr, err := c.ReadU32()
	if err != nil {
		return 0, errors.Wrapf(err, "sprite %d: reading index", id)
	}
	return addr, nil
}

// Decode returns a new 32x32 image holding sprite id.
func (a *Atlas) Decode(id uint16) (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, SpriteSize, SpriteSize))
	if err := a.DecodeInto(id, img); err != nil {
		return nil, err
	}
	return img, nil
}

// DecodeInto decodes sprite id into dst, which must have 32x32 bounds. On
// success every pixel of dst is overwritten; on failure dst is left as is.
func (a *Atlas) DecodeInto(id uint16, dst *image.RGBA) error {
	if dst.Rect.Dx() != SpriteSize || dst.Rect.Dy() != SpriteSize {
		return fmt.Errorf("spr: destination is %v, want %dx%d", dst.Rect.Size(), SpriteSize, SpriteSize)
	}
	addr, err := a.Offset(id)
	if err != nil {
		return err
	}
	if addr == 0 {
		return errors.Wrapf(ErrMissingSpriteData, "sprite %d: zero offset", id)
	}

	c := cursor.New(a.data)
	if err := c.Seek(int(addr) + colorKeySize); err != nil {
		return errors.Wrapf(err, "sprite %d: seeking to data", id)
	}
	size, err := c.ReadU16()
	if err != nil {
		return errors.Wrapf(err, "sprite %d: reading size", id)
	}
	if size == 0 {
		return errors.Wrapf(ErrMissingSpriteData, "sprite %d: empty", id)
	}

	var pix [spritePixels * 4]byte
	if err := decodeRuns(c, int(size), &pix); err != nil {
		return errors.Wrapf(err, "sprite %d", id)
	}
	for y := 0; y < SpriteSize; y++ {
		copy(dst.Pix[dst.PixOffset(dst.Rect.Min.X, dst.Rect.Min.Y+y):], pix[y*SpriteSize*4:(y+1)*SpriteSize*4])
	}
	return nil
}

// DecodeOne accepts an io.ReadSeeker positioned at the beginning of a spr-formatted
// file (a sprite set file), finds the image with passed index, and returns the
// requested image as an image.Image.
//
// Unlike Atlas, it only reads the parts of the file it needs.
func DecodeOne(r io.ReadSeeker, which int) (image.Image, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("could not read spr header: %s", err)
	}
	if which <= 0 || which > int(h.SpriteCount) {
		return nil, errors.Wrapf(ErrMissingSpriteData, "sprite %d: index has %d entries", which, h.SpriteCount)
	}
	if _, err := r.Seek(int64((which-1)*4), io.SeekCurrent); err != nil {
		return nil, fmt.Errorf("could not seek to spr ptr: %s", err)
	}

	var ptr uint32
	if err := binary.Read(r, binary.LittleEndian, &ptr); err != nil {
		return nil, fmt.Errorf("could not read spr ptr: %s", err)
	}
	if ptr == 0 {
		return nil, errors.Wrapf(ErrMissingSpriteData, "sprite %d: zero offset", which)
	}

	if _, err := r.Seek(int64(ptr), io.SeekStart); err != nil {
		return nil, fmt.Errorf("could not seek to spr data: %s", err)
	}
	return DecodeUpcoming(r)
}

// DecodeUpcoming decodes a single block of spr-format data: the color key,
// the pixel byte length and the runs.
func DecodeUpcoming(r io.Reader) (image.Image, error) {
	var colorKey struct{ ColorKeyR, ColorKeyG, ColorKeyB uint8 } // unused by the client
	if err := binary.Read(r, binary.LittleEndian, &colorKey); err != nil {
		return nil, fmt.Errorf("could not read spr color key: %s", err)
	}

	var size uint16
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return nil, fmt.Errorf("could not read spr size: %s", err)
	}
	if size == 0 {
		return nil, errors.Wrap(ErrMissingSpriteData, "empty spr block")
	}

	// The last run may reach past size; read what is there.
	buf := make([]byte, int(size)+3*spritePixels)
	n, err := io.ReadAtLeast(r, buf, int(size))
	if err != nil {
		return nil, fmt.Errorf("not all of the spr block could be read: read %d, want %d: %s", n, size, err)
	}

	var pix [spritePixels * 4]byte
	if err := decodeRuns(cursor.New(buf[:n]), int(size), &pix); err != nil {
		return nil, err
	}
	img := image.NewRGBA(image.Rect(0, 0, SpriteSize, SpriteSize))
	copy(img.Pix, pix[:])
	return img, nil
}

// decodeRuns reads runs from c until size bytes of runs have been consumed
// or all pixels have been written. pix starts out and stays transparent
// wherever no colored pixel lands, which covers both transparent runs and
// the padding after the last run.
func decodeRuns(c *cursor.Cursor, size int, pix *[spritePixels * 4]byte) error {
	read, px := 0, 0
	for read < size && px < spritePixels {
		transparent, err := c.ReadU16()
		if err != nil {
			return errors.Wrap(err, "reading transparent run")
		}
		colored, err := c.ReadU16()
		if err != nil {
			return errors.Wrap(err, "reading colored run")
		}

		px += int(transparent)
		if px > spritePixels {
			px = spritePixels
		}
		for i := 0; i < int(colored) && px < spritePixels; i++ {
			rgb, err := c.ReadBytes(3)
			if err != nil {
				return errors.Wrap(err, "reading pixel")
			}
			p := pix[px*4 : px*4+4]
			p[0], p[1], p[2], p[3] = rgb[0], rgb[1], rgb[2], 0xFF
			px++
		}

		read += 4 + 3*int(colored)
	}
	return nil
}
