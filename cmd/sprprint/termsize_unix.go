//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package main

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"strconv"

	"golang.org/x/crypto/ssh/terminal"
	"golang.org/x/sys/unix"
)

type TermSize struct {
	WSRow, WSCol       uint
	WSXPixel, WSYPixel uint
}

// kittyReply matches the answer to CSI 14 t: <ESC>[4;<height>;<width>t
var kittyReply = regexp.MustCompile(`\[4;(\d+);(\d+)t`)

func GetTermSize() (TermSize, error) {
	f, err := os.OpenFile("/dev/tty", unix.O_NOCTTY|unix.O_CLOEXEC|unix.O_NDELAY|unix.O_RDWR, 0666)
	if err == nil {
		defer f.Close()
		sz, err := unix.IoctlGetWinsize(int(f.Fd()), unix.TIOCGWINSZ)
		if err == nil {
			ts := TermSize{WSRow: uint(sz.Row), WSCol: uint(sz.Col), WSXPixel: uint(sz.Xpixel), WSYPixel: uint(sz.Ypixel)}
			if ts.WSXPixel == 0 && ts.WSYPixel == 0 && os.Getenv("TERM") == "xterm-kitty" {
				ts.WSXPixel, ts.WSYPixel = kittyPixels(f)
			}
			return ts, nil
		}
	}
	w, h, err := terminal.GetSize(int(os.Stdin.Fd()))
	if err != nil {
		return TermSize{}, err
	}
	return TermSize{WSRow: uint(h), WSCol: uint(w)}, nil
}

// kittyPixels asks the terminal for its size in pixels. Kitty does not
// always fill in the pixel fields of TIOCGWINSZ.
//
// TODO: the reply is read without a timeout; a terminal that never answers
// blocks here.
func kittyPixels(tty *os.File) (uint, uint) {
	state, err := terminal.MakeRaw(int(tty.Fd()))
	if err != nil {
		return 0, 0
	}
	defer terminal.Restore(int(tty.Fd()), state)

	fmt.Fprint(tty, "\033[14t")
	s, err := bufio.NewReader(tty).ReadString('t')
	if err != nil {
		return 0, 0
	}
	m := kittyReply.FindStringSubmatch(s)
	if len(m) != 3 {
		return 0, 0
	}
	height, errH := strconv.Atoi(m[1])
	width, errW := strconv.Atoi(m[2])
	if errH != nil || errW != nil {
		return 0, 0
	}
	return uint(width), uint(height)
}
