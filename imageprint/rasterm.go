//go:build !windows

package imageprint

import (
	"fmt"
	"image"
	"io"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
	"github.com/pkg/errors"
)

// ErrNoGraphics is returned by PrintRasTerm when the terminal supports
// none of the graphics protocols.
var ErrNoGraphics = errors.New("imageprint: terminal has no graphics support")

// PrintRasTerm draws an image using the RasTerm library, picking the Kitty,
// iTerm or Sixel protocol depending on what the terminal supports.
func PrintRasTerm(w io.Writer, i image.Image) error {
	var err error
	switch {
	case rasterm.IsTermKitty():
		err = rasterm.Settings{}.KittyWriteImage(w, i)
	case rasterm.IsTermItermWez():
		err = rasterm.Settings{}.ItermWriteImage(w, i)
	default:
		capable, serr := rasterm.IsSixelCapable()
		if serr != nil || !capable {
			return ErrNoGraphics
		}
		err = rasterm.Settings{}.SixelWriteImage(w, Paletted(i, 64))
	}
	if err != nil {
		return errors.Wrap(err, "imageprint: rasterm")
	}
	fmt.Fprint(w, "\n")
	return nil
}

// Paletted reduces i to at most n colors with a median cut quantizer.
func Paletted(i image.Image, n int) *image.Paletted {
	p := image.NewPaletted(i.Bounds(), nil)
	quantizer := gogif.MedianCutQuantizer{NumColor: n}
	quantizer.Quantize(p, i.Bounds(), i, i.Bounds().Min)
	return p
}
