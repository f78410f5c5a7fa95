package dump

import (
	"archive/tar"
	"bytes"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
)

// Sink stores encoded images under slash-separated names such as
// "Items/100_s0.png".
type Sink interface {
	Put(name string, write func(io.Writer) error) error
	Close() error
}

// DirMaker creates output directories. MakeDir must succeed when the
// directory already exists.
type DirMaker interface {
	MakeDir(path string) error
}

// OSDirMaker creates directories on the local filesystem.
type OSDirMaker struct{}

func (OSDirMaker) MakeDir(path string) error {
	if st, err := os.Stat(path); err == nil && st.IsDir() {
		return nil
	}
	glog.Infof("Creating directory %s", path)
	if err := os.MkdirAll(path, 0777); err != nil {
		return errors.Wrapf(err, "creating directory %s", path)
	}
	return nil
}

// MakeOutputDirs creates root and its per-kind subdirectories.
func MakeOutputDirs(dm DirMaker, root string) error {
	for _, dir := range []string{root, filepath.Join(root, ItemsDir), filepath.Join(root, CreaturesDir)} {
		if err := dm.MakeDir(dir); err != nil {
			return err
		}
	}
	return nil
}

// DirSink writes each image to its own file below a root directory.
type DirSink struct {
	root string
}

// NewDirSink creates root, root/Items and root/Creatures with dm and returns
// a sink writing below root.
func NewDirSink(root string, dm DirMaker) (*DirSink, error) {
	if err := MakeOutputDirs(dm, root); err != nil {
		return nil, err
	}
	return &DirSink{root: root}, nil
}

func (s *DirSink) Put(name string, write func(io.Writer) error) error {
	path := filepath.Join(s.root, filepath.FromSlash(name))
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "dump: could not create output file")
	}
	if err := write(f); err != nil {
		f.Close()
		return errors.Wrapf(err, "dump: could not write %s", path)
	}
	return f.Close()
}

func (s *DirSink) Close() error { return nil }

// ArchiveSink writes all images into a single zstd-compressed tar stream.
type ArchiveSink struct {
	w       io.WriteCloser // underlying file, closed by Close; may be nil
	zw      *zstd.Encoder
	tw      *tar.Writer
	buf     bytes.Buffer
	modTime time.Time
}

// NewArchiveSink returns a sink writing a .tar.zst stream to w. Close flushes
// the archive and, if w is an io.Closer, closes w.
func NewArchiveSink(w io.Writer) (*ArchiveSink, error) {
	zw, err := zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, errors.Wrap(err, "dump: could not create zstd writer")
	}
	s := &ArchiveSink{zw: zw, tw: tar.NewWriter(zw), modTime: time.Now()}
	if c, ok := w.(io.WriteCloser); ok {
		s.w = c
	}
	return s, nil
}

// CreateArchive creates the file at path and returns a sink writing to it.
func CreateArchive(path string) (*ArchiveSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrap(err, "dump: could not create archive")
	}
	s, err := NewArchiveSink(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

func (s *ArchiveSink) Put(name string, write func(io.Writer) error) error {
	s.buf.Reset()
	if err := write(&s.buf); err != nil {
		return errors.Wrapf(err, "dump: could not encode %s", name)
	}
	hdr := &tar.Header{
		Name:    name,
		Mode:    0644,
		Size:    int64(s.buf.Len()),
		ModTime: s.modTime,
		Format:  tar.FormatPAX,
	}
	if err := s.tw.WriteHeader(hdr); err != nil {
		return errors.Wrapf(err, "dump: could not add %s to archive", name)
	}
	if _, err := s.tw.Write(s.buf.Bytes()); err != nil {
		return errors.Wrapf(err, "dump: could not add %s to archive", name)
	}
	return nil
}

func (s *ArchiveSink) Close() error {
	err := s.tw.Close()
	if zerr := s.zw.Close(); err == nil {
		err = zerr
	}
	if s.w != nil {
		if cerr := s.w.Close(); err == nil {
			err = cerr
		}
	}
	return errors.Wrap(err, "dump: could not finish archive")
}
