package imageprint

import (
	"bytes"
	"image"
	"image/color"
	"strings"
	"testing"

	"badc0de.net/pkg/sprdump/ttesting"
)

func twoPixels() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 1))
	img.SetRGBA(0, 0, color.RGBA{R: 0xFF, G: 0x80, B: 0x01, A: 0xFF})
	return img
}

func TestPrint24bit(t *testing.T) {
	b := &bytes.Buffer{}
	if err := Print24bit(b, twoPixels(), true); err != nil {
		t.Fatalf("Print24bit: %v", err)
	}
	ttesting.AssertEqualString(t, "output", b.String(),
		"\x1b[48;2;255;128;1m  \x1b[0m"+"\x1b[0m  "+"\x1b[0m\n")
}

func TestPrintNoColor(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 4, 2))
	img.SetRGBA(0, 0, color.RGBA{R: 10, G: 10, B: 10, A: 0xFF})
	img.SetRGBA(1, 0, color.RGBA{R: 50, G: 50, B: 50, A: 0xFF})
	img.SetRGBA(2, 0, color.RGBA{R: 100, G: 100, B: 100, A: 0xFF})
	img.SetRGBA(3, 0, color.RGBA{R: 200, G: 200, B: 200, A: 0xFF})

	b := &bytes.Buffer{}
	if err := PrintNoColor(b, img, false); err != nil {
		t.Fatalf("PrintNoColor: %v", err)
	}
	lines := strings.Split(b.String(), "\n")
	ttesting.AssertEqualString(t, "shaded row", lines[0], "..--==##")
	ttesting.AssertEqualInt(t, "rows", len(lines), 3)
}

func TestPrint256ColorRows(t *testing.T) {
	b := &bytes.Buffer{}
	if err := Print256Color(b, twoPixels(), false); err != nil {
		t.Fatalf("Print256Color: %v", err)
	}
	if !strings.HasSuffix(b.String(), "\x1b[0m\n") || strings.Count(b.String(), "\n") != 1 {
		t.Errorf("got %q; want a single reset-terminated row", b.String())
	}
	if !strings.Contains(b.String(), "==") && !strings.Contains(b.String(), "##") {
		t.Errorf("got %q; want the opaque pixel shaded", b.String())
	}
}

func TestPrintITerm(t *testing.T) {
	b := &bytes.Buffer{}
	if err := PrintITerm(b, twoPixels(), "x.png"); err != nil {
		t.Fatalf("PrintITerm: %v", err)
	}
	if !strings.HasPrefix(b.String(), "\n\033]1337;File=name=eC5wbmc=;inline=1;") {
		t.Errorf("got %q", b.String())
	}
	if !strings.Contains(b.String(), "width=2px;height=1px:") {
		t.Errorf("got %q; want image size", b.String())
	}
}

func TestParseMode(t *testing.T) {
	for name, want := range map[string]Mode{"24bit": Mode24bit, "256": Mode256Color, "NoColor": ModeNoColor, "iterm": ModeITerm, "rasterm": ModeRasTerm} {
		got, err := ParseMode(name)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v; want %v", name, got, err, want)
		}
	}
	if _, err := ParseMode("vga"); err == nil {
		t.Errorf("ParseMode(vga) succeeded")
	}
}

func TestPrinterDefaultsTo24bit(t *testing.T) {
	b := &bytes.Buffer{}
	p := &Printer{W: b, Blanks: true}
	if err := p.Print(twoPixels()); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if !strings.HasPrefix(b.String(), "\x1b[48;2;255;128;1m") {
		t.Errorf("got %q", b.String())
	}
}
