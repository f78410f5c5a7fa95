package spr

import (
	"bytes"
	"fmt"
	"image/color"

	"badc0de.net/pkg/sprdump/ttesting/synth"
)

// ExampleDecodeOne decodes a single sprite and prints out the image size.
func ExampleDecodeOne() {
	f := bytes.NewReader(synth.Atlas(synth.Solid(3, color.RGBA{R: 0xFF})))

	img, err := DecodeOne(f, 1)
	if err != nil {
		fmt.Printf("failed to decode spr: %s", err)
		return
	}

	fmt.Printf("image: %dx%d\n", img.Bounds().Size().X, img.Bounds().Size().Y)
	// Output: image: 32x32
}
