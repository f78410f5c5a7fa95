package imageprint

import (
	"image"
	"io"

	"github.com/pkg/errors"
)

var ErrNoGraphics = errors.New("imageprint: rasterm not supported on windows")

func PrintRasTerm(w io.Writer, i image.Image) error {
	return ErrNoGraphics
}
