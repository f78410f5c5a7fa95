package spr

// This file contains spr package's functions related to implementing
// image.Image and related interfaces (unless that is better handled
// in spr.go).

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"encoding/binary"
)

// Signature854 is the signature of the 8.54 sprite file.
const Signature854 = 0x4868ECC9

func init() {
	image.RegisterFormat("spr", string([]byte{0xC9, 0xEC, 0x68, 0x48}), Decode, DecodeConfig)
}

// DecodeConfig returns the image.Config (width, height, colormodel) of the
// first sprite in a spriteset file.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var h Header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return image.Config{}, fmt.Errorf("spr: could not read spr header: %s", err)
	}

	switch h.Signature {
	case Signature854:
		return image.Config{Width: SpriteSize, Height: SpriteSize, ColorModel: color.RGBAModel}, nil
	default:
		return image.Config{}, fmt.Errorf("spr: not implemented for signature %08x", h.Signature)
	}
}

// Decode returns the first sprite of a spriteset file.
//
// image.Decode does not hand over a seekable reader, so the whole file is
// read into memory.
func Decode(r io.Reader) (image.Image, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("spr: could not read spriteset: %s", err)
	}
	a, err := NewAtlas(b)
	if err != nil {
		return nil, err
	}
	if a.Signature != Signature854 {
		return nil, fmt.Errorf("spr: not implemented for signature %08x", a.Signature)
	}
	return a.Decode(1)
}
