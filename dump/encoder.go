package dump

import (
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"io"
	"sort"
	"strings"

	"github.com/ericpauley/go-quantize/quantize"
	"github.com/pkg/errors"
	"golang.org/x/image/bmp"
	xdraw "golang.org/x/image/draw"
)

// Encoder writes one image in some file format.
type Encoder interface {
	Encode(w io.Writer, img image.Image) error
	// Ext is the file name extension, without the dot.
	Ext() string
}

type PNGEncoder struct{}

func (PNGEncoder) Encode(w io.Writer, img image.Image) error { return png.Encode(w, img) }
func (PNGEncoder) Ext() string                               { return "png" }

// BMPEncoder writes 32-bit BMPs, keeping the alpha channel.
type BMPEncoder struct{}

func (BMPEncoder) Encode(w io.Writer, img image.Image) error { return bmp.Encode(w, img) }
func (BMPEncoder) Ext() string                               { return "bmp" }

// GIFEncoder writes paletted GIFs. Palette index 0 is reserved for
// fully transparent pixels; the rest is picked by median cut.
type GIFEncoder struct{}

func (GIFEncoder) Encode(w io.Writer, img image.Image) error {
	q := quantize.MedianCutQuantizer{}
	palette := make(color.Palette, 1, 256)
	palette[0] = color.RGBA{}
	palette = q.Quantize(palette, img)

	b := img.Bounds()
	p := image.NewPaletted(b, palette)
	xdraw.Draw(p, b, img, b.Min, xdraw.Src)
	return gif.Encode(w, p, &gif.Options{NumColors: len(palette)})
}

func (GIFEncoder) Ext() string { return "gif" }

// Scaled upscales images by an integer factor with nearest-neighbour
// sampling before handing them to the wrapped encoder.
type Scaled struct {
	Encoder
	Factor int
}

func (s Scaled) Encode(w io.Writer, img image.Image) error {
	if s.Factor <= 1 {
		return s.Encoder.Encode(w, img)
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*s.Factor, b.Dy()*s.Factor))
	xdraw.NearestNeighbor.Scale(dst, dst.Rect, img, b, xdraw.Src, nil)
	return s.Encoder.Encode(w, dst)
}

var encoders = map[string]Encoder{
	"png": PNGEncoder{},
	"bmp": BMPEncoder{},
	"gif": GIFEncoder{},
}

// Formats lists the names accepted by EncoderByName.
func Formats() []string {
	var names []string
	for name := range encoders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EncoderByName returns the encoder for a format name such as "png".
func EncoderByName(name string) (Encoder, error) {
	enc, ok := encoders[strings.ToLower(name)]
	if !ok {
		return nil, errors.Errorf("dump: unknown format %q, want one of %v", name, Formats())
	}
	return enc, nil
}
