// Package imageprint prints images on terminal.
//
// Each pixel becomes two character cells so that sprites keep their aspect
// ratio. Transparent pixels are printed as blanks with attributes reset.
package imageprint

import (
	"bufio"
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/pkg/errors"
)

// Mode selects how pixels are rendered.
type Mode int

const (
	Mode24bit Mode = iota
	Mode256Color
	ModeNoColor
	ModeITerm
	ModeRasTerm
)

var modeNames = map[string]Mode{
	"24bit":   Mode24bit,
	"256":     Mode256Color,
	"nocolor": ModeNoColor,
	"iterm":   ModeITerm,
	"rasterm": ModeRasTerm,
}

// ParseMode maps a mode name ("24bit", "256", "nocolor", "iterm" or
// "rasterm") to a Mode.
func ParseMode(s string) (Mode, error) {
	m, ok := modeNames[strings.ToLower(s)]
	if !ok {
		return 0, errors.Errorf("imageprint: unknown mode %q", s)
	}
	return m, nil
}

// Printer writes images to W.
type Printer struct {
	W    io.Writer
	Mode Mode
	// Blanks prints colored blanks instead of ascii art shading.
	Blanks bool
	// Name is passed along to iTerm as the file name.
	Name string
}

// Print renders img according to p.Mode.
func (p *Printer) Print(img image.Image) error {
	switch p.Mode {
	case Mode256Color:
		return Print256Color(p.W, img, p.Blanks)
	case ModeNoColor:
		return PrintNoColor(p.W, img, p.Blanks)
	case ModeITerm:
		name := p.Name
		if name == "" {
			name = "image.png"
		}
		return PrintITerm(p.W, img, name)
	case ModeRasTerm:
		return PrintRasTerm(p.W, img)
	default:
		return Print24bit(p.W, img, p.Blanks)
	}
}

type shading int

const (
	trueColor shading = iota
	palette256
	noColor
)

func glyph(cR, cG, cB uint32, blanks bool) string {
	if blanks {
		return "  "
	}
	a := ((cR + cG + cB) / 3) >> 8
	switch {
	case a < 32:
		return ".."
	case a < 64:
		return "--"
	case a < 128:
		return "=="
	default:
		return "##"
	}
}

func shade(w io.Writer, col ic.Color, s shading, blanks bool) {
	cR, cG, cB, cA := col.RGBA()
	if cA == 0 {
		fmt.Fprint(w, "\x1b[0m  ")
		return
	}
	g := glyph(cR, cG, cB, blanks)
	switch s {
	case noColor:
		fmt.Fprint(w, g)
	case trueColor:
		fmt.Fprintf(w, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), g)
	default:
		fmt.Fprint(w, color.RGB(uint8(cR>>8), uint8(cG>>8), uint8(cB>>8), true).Sprint(g))
	}
}

func printRows(w io.Writer, i image.Image, s shading, blanks bool) error {
	bw := bufio.NewWriter(w)
	b := i.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			shade(bw, i.At(x, y), s, blanks)
		}
		if s != noColor {
			fmt.Fprint(bw, "\x1b[0m")
		}
		fmt.Fprint(bw, "\n")
	}
	return bw.Flush()
}

// Print256Color draws an image using 256color'd ascii art.
func Print256Color(w io.Writer, i image.Image, blanks bool) error {
	return printRows(w, i, palette256, blanks)
}

// Print24bit draws an image using 24bit color escape sequences by changing background.
func Print24bit(w io.Writer, i image.Image, blanks bool) error {
	return printRows(w, i, trueColor, blanks)
}

// PrintNoColor draws an image without color escape sequences. Only makes
// sense with blanks=false.
func PrintNoColor(w io.Writer, i image.Image, blanks bool) error {
	return printRows(w, i, noColor, blanks)
}

// PrintITerm draws an image using iTerm2's inline image escape sequence.
//
// https://www.iterm2.com/documentation-images.html
func PrintITerm(w io.Writer, i image.Image, fn string) error {
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, i); err != nil {
		return errors.Wrap(err, "imageprint: encoding png")
	}
	bEnc.Close()
	_, err := fmt.Fprintf(w, "\n\033]1337;File=name=%s;inline=1;size=%d;width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Dx(), i.Bounds().Dy(), b.String())
	return err
}
