// Package cursor implements a random-access reader over a datafile that has
// been loaded into memory in its entirety.
//
// All multi-byte values are read as little-endian. Unlike the reference C
// loader, no operation silently clamps: a read, seek or skip that would step
// outside the buffer fails with an error matching ErrOutOfRange, and leaves
// the position untouched.
package cursor

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// MaxFileSize is the largest datafile Load is willing to keep in memory.
const MaxFileSize = 1 << 30

var (
	// ErrOutOfRange is matched by every error returned for an access outside the buffer.
	ErrOutOfRange = errors.New("cursor: out of range")
	// ErrTooLarge is returned by Load and ReadFile for files over MaxFileSize.
	ErrTooLarge = errors.New("cursor: file too large to load")
)

// RangeError describes an access that did not fit in the buffer.
type RangeError struct {
	Op  string // "read", "seek" or "skip"
	Pos int    // position at the time of the call
	N   int    // width of the read, target of the seek, or offset of the skip
	Len int    // buffer length
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("cursor: %s %d at %d: out of range (len %d)", e.Op, e.N, e.Pos, e.Len)
}

// Is makes errors.Is(err, ErrOutOfRange) hold for any *RangeError.
func (e *RangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

// Cursor reads from an immutable byte slice. The only mutable state is the
// position; a Cursor must not be shared between goroutines, but any number of
// cursors may be created over the same slice.
type Cursor struct {
	data []byte
	pos  int
}

// New returns a cursor positioned at the start of b. b is not copied and must
// not be modified while the cursor is in use.
func New(b []byte) *Cursor {
	return &Cursor{data: b}
}

// ReadFile loads the file at path into memory.
func ReadFile(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "cursor: could not open file")
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "cursor: could not stat %s", path)
	}
	if st.Size() > MaxFileSize {
		return nil, errors.Wrapf(ErrTooLarge, "%s is %d bytes", path, st.Size())
	}

	b := make([]byte, st.Size())
	if _, err := io.ReadFull(f, b); err != nil {
		return nil, errors.Wrapf(err, "cursor: could not cache file %s of size %d", path, st.Size())
	}
	glog.V(2).Infof("cursor: loaded %s (%d bytes)", path, len(b))
	return b, nil
}

// Load reads the file at path into memory and returns a cursor over it.
func Load(path string) (*Cursor, error) {
	b, err := ReadFile(path)
	if err != nil {
		return nil, err
	}
	return New(b), nil
}

// Bytes returns the underlying buffer. It must be treated as read-only.
func (c *Cursor) Bytes() []byte { return c.data }

// Len returns the total size of the buffer.
func (c *Cursor) Len() int { return len(c.data) }

// Tell returns the current position.
func (c *Cursor) Tell() int { return c.pos }

// Remaining returns the number of bytes between the position and the end.
func (c *Cursor) Remaining() int { return len(c.data) - c.pos }

// Seek moves to the absolute position pos. Seeking to exactly Len() is
// allowed; any further read will fail.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > len(c.data) {
		return &RangeError{Op: "seek", Pos: c.pos, N: pos, Len: len(c.data)}
	}
	c.pos = pos
	return nil
}

// Skip moves the position by n bytes; n may be negative.
func (c *Cursor) Skip(n int) error {
	to := c.pos + n
	if to < 0 || to > len(c.data) {
		return &RangeError{Op: "skip", Pos: c.pos, N: n, Len: len(c.data)}
	}
	c.pos = to
	return nil
}

// take returns the next n bytes and advances past them.
func (c *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > len(c.data)-c.pos {
		return nil, &RangeError{Op: "read", Pos: c.pos, N: n, Len: len(c.data)}
	}
	b := c.data[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

// ReadU8 reads one byte.
func (c *Cursor) ReadU8() (uint8, error) {
	b, err := c.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// ReadU16 reads a little-endian uint16.
func (c *Cursor) ReadU16() (uint16, error) {
	b, err := c.take(2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

// ReadU32 reads a little-endian uint32.
func (c *Cursor) ReadU32() (uint32, error) {
	b, err := c.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

// ReadBytes returns the next n bytes. The returned slice aliases the buffer.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	return c.take(n)
}

// Read implements io.Reader so that fixed headers can be decoded with
// encoding/binary. Unlike the other reads it may return fewer bytes than
// requested, and io.EOF at the end of the buffer.
func (c *Cursor) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	n := copy(p, c.data[c.pos:])
	c.pos += n
	return n, nil
}

// ReadByte implements io.ByteReader.
func (c *Cursor) ReadByte() (byte, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	return c.ReadU8()
}
