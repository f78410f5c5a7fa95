package dump

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// idsPerLine is the number of ids on each line of the corrupt id list.
const idsPerLine = 5

// WriteCorruptIDs writes the corrupt id list: a title line, a header naming
// five columns, then the ids, each followed by a tab, five per line.
func WriteCorruptIDs(w io.Writer, ids []uint16) error {
	bw := bufio.NewWriter(w)
	fmt.Fprint(bw, "Corrupt item ids:\n")
	fmt.Fprint(bw, "A\tB\tC\tD\tE\n")
	for i, id := range ids {
		fmt.Fprintf(bw, "%d\t", id)
		if (i+1)%idsPerLine == 0 {
			fmt.Fprint(bw, "\n")
		}
	}
	return bw.Flush()
}

// SaveCorruptIDs writes s.Corrupt to the file at path and records the
// outcome in s.CorruptPath and s.CorruptErr, for String. Nothing is written
// when there are no corrupt entries.
func (s *Summary) SaveCorruptIDs(path string) error {
	if len(s.Corrupt) == 0 {
		return nil
	}
	s.CorruptPath = path
	s.CorruptErr = saveCorruptIDs(path, s.Corrupt)
	if s.CorruptErr != nil {
		glog.Errorf("dump: %v", s.CorruptErr)
	}
	return s.CorruptErr
}

func saveCorruptIDs(path string, ids []uint16) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "could not create corrupt id list")
	}
	if err := WriteCorruptIDs(f, ids); err != nil {
		f.Close()
		return errors.Wrapf(err, "could not write %s", path)
	}
	return errors.Wrapf(f.Close(), "could not write %s", path)
}
