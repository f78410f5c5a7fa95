package main

import (
	"image"
	"os"

	"github.com/nfnt/resize"

	"badc0de.net/pkg/sprdump/imageprint"
)

func out(img image.Image, m imageprint.Mode) error {
	if *downsize {
		termSize, err := GetTermSize()
		if err == nil {
			img = fit(img, termSize, m == imageprint.ModeRasTerm || m == imageprint.ModeITerm)
		}
	}

	p := &imageprint.Printer{W: os.Stdout, Mode: m, Blanks: *blanks, Name: "image.png"}
	return p.Print(img)
}

// fit shrinks img to the terminal. When the image will be printed natively
// and the terminal reports its size in pixels, the pixel size is used;
// otherwise each pixel takes two cells.
func fit(img image.Image, ts TermSize, native bool) image.Image {
	if native && ts.WSXPixel != 0 && ts.WSYPixel != 0 {
		return resize.Thumbnail(ts.WSXPixel/2, ts.WSYPixel/2, img, resize.Lanczos3)
	}
	return resize.Thumbnail(ts.WSCol/2, ts.WSRow, img, resize.NearestNeighbor)
}
