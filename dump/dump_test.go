package dump

import (
	"bytes"
	"context"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"badc0de.net/pkg/sprdump/cursor"
	"badc0de.net/pkg/sprdump/dat"
	"badc0de.net/pkg/sprdump/spr"
	"badc0de.net/pkg/sprdump/ttesting"
	"badc0de.net/pkg/sprdump/ttesting/synth"
)

type memSink struct {
	files map[string][]byte
	fail  error
}

func (s *memSink) Put(name string, write func(io.Writer) error) error {
	if s.fail != nil {
		return s.fail
	}
	b := &bytes.Buffer{}
	if err := write(b); err != nil {
		return err
	}
	if s.files == nil {
		s.files = map[string][]byte{}
	}
	s.files[name] = b.Bytes()
	return nil
}

func (s *memSink) Close() error { return nil }

func (s *memSink) names() []string {
	var out []string
	for name := range s.files {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func load(t *testing.T, items, creatures []synth.Entry, sprites ...*synth.Sprite) (*dat.Catalog, *spr.Atlas) {
	t.Helper()
	cat, err := dat.NewCatalog(cursor.New(synth.Catalog(items, creatures)))
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	atlas, err := spr.NewAtlas(synth.Atlas(sprites...))
	if err != nil {
		t.Fatalf("NewAtlas: %v", err)
	}
	return cat, atlas
}

var red = color.RGBA{R: 0xFF}

func TestRun(t *testing.T) {
	two := synth.Single(1)
	two.Grid = [5]uint8{1, 1, 1, 1, 2}
	two.SpriteIDs = []uint16{1, 2}
	cat, atlas := load(t,
		[]synth.Entry{synth.Single(1), two},
		[]synth.Entry{synth.Single(2)},
		synth.Solid(4, red), synth.Solid(1, red))

	sink := &memSink{}
	sum, err := Run(context.Background(), cat, atlas, Options{Sink: sink, Encoder: PNGEncoder{}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	ttesting.AssertEqualInt(t, "entries", sum.Entries, 3)
	ttesting.AssertEqualInt(t, "saved", sum.Saved, 4)
	ttesting.AssertEqualInt(t, "corrupt", len(sum.Corrupt), 0)
	ttesting.AssertEqualString(t, "names", strings.Join(sink.names(), " "),
		"Creatures/102_s0.png Items/100_s0.png Items/101_s0.png Items/101_s1.png")

	img, err := png.Decode(bytes.NewReader(sink.files["Items/100_s0.png"]))
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if _, _, _, a := img.At(3, 0).RGBA(); a == 0 {
		t.Errorf("pixel (3,0) transparent; want red")
	}
	if _, _, _, a := img.At(4, 0).RGBA(); a != 0 {
		t.Errorf("pixel (4,0) opaque; want transparent")
	}
}

func TestRunRecordsCorruptEntries(t *testing.T) {
	bad := synth.Single(1)
	bad.Grid = [5]uint8{3, 1, 1, 1, 1}
	bad.SpriteIDs = []uint16{2, 1, 3}
	cat, atlas := load(t,
		[]synth.Entry{synth.Single(1), bad, synth.Single(3)},
		nil,
		synth.Solid(1, red), nil, &synth.Sprite{})

	sink := &memSink{}
	sum, err := Run(context.Background(), cat, atlas, Options{Sink: sink, Encoder: PNGEncoder{}})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	ttesting.AssertEqualInt(t, "saved", sum.Saved, 2)
	ttesting.AssertEqualInt(t, "corrupt sprites", sum.CorruptSprites, 3)
	if len(sum.Corrupt) != 2 || sum.Corrupt[0] != 101 || sum.Corrupt[1] != 102 {
		t.Errorf("corrupt = %v; want [101 102]", sum.Corrupt)
	}
	// The good sprite of the corrupt entry is still written.
	if _, ok := sink.files["Items/101_s1.png"]; !ok {
		t.Errorf("Items/101_s1.png not written; have %v", sink.names())
	}
}

func TestRunSinkFailureIsFatal(t *testing.T) {
	cat, atlas := load(t, []synth.Entry{synth.Single(1), synth.Single(1)}, nil, synth.Solid(1, red))
	boom := errors.New("disk full")

	sum, err := Run(context.Background(), cat, atlas, Options{Sink: &memSink{fail: boom}, Encoder: PNGEncoder{}})
	ttesting.AssertErrorIs(t, "sink error", err, boom)
	ttesting.AssertEqualInt(t, "entries before failure", sum.Entries, 0)
}

func TestRunCancelled(t *testing.T) {
	cat, atlas := load(t, []synth.Entry{synth.Single(1)}, nil, synth.Solid(1, red))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := Run(ctx, cat, atlas, Options{Sink: &memSink{}, Encoder: PNGEncoder{}})
	ttesting.AssertErrorIs(t, "cancelled", err, context.Canceled)
	ttesting.AssertEqualInt(t, "saved", sum.Saved, 0)
}

func TestRunProgress(t *testing.T) {
	cat, atlas := load(t,
		[]synth.Entry{synth.Single(1), synth.Single(1), synth.Single(1), synth.Single(1)},
		nil, synth.Solid(1, red))

	out := &bytes.Buffer{}
	if _, err := Run(context.Background(), cat, atlas, Options{Sink: &memSink{}, Encoder: PNGEncoder{}, Progress: out}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	ttesting.AssertEqualString(t, "progress", out.String(), "\r[ 50%]\r[100%]\n")
}

func TestRunComposite(t *testing.T) {
	big := synth.Entry{Width: 2, Height: 1, ExactSize: 64, Grid: [5]uint8{1, 1, 1, 1, 1}, SpriteIDs: []uint16{1, 1}}
	cat, atlas := load(t, []synth.Entry{big}, nil, synth.Solid(1, red))

	sink := &memSink{}
	if _, err := Run(context.Background(), cat, atlas, Options{Sink: sink, Encoder: PNGEncoder{}, Composite: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	b, ok := sink.files["Composite/100.png"]
	if !ok {
		t.Fatalf("no composite written; have %v", sink.names())
	}
	cfg, err := png.DecodeConfig(bytes.NewReader(b))
	if err != nil {
		t.Fatalf("png.DecodeConfig: %v", err)
	}
	ttesting.AssertEqualInt(t, "width", cfg.Width, 64)
	ttesting.AssertEqualInt(t, "height", cfg.Height, 32)
}

func TestRunToDirSink(t *testing.T) {
	cat, atlas := load(t, []synth.Entry{synth.Single(1)}, []synth.Entry{synth.Single(1)}, synth.Solid(1, red))
	root := filepath.Join(t.TempDir(), "out")

	sink, err := NewDirSink(root, OSDirMaker{})
	if err != nil {
		t.Fatalf("NewDirSink: %v", err)
	}
	if _, err := Run(context.Background(), cat, atlas, Options{Sink: sink, Encoder: BMPEncoder{}, Composite: true}); err != nil {
		t.Fatalf("Run: %v", err)
	}
	for _, name := range []string{"Items/100_s0.bmp", "Creatures/101_s0.bmp", "Composite/100.bmp"} {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(name))); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestSummaryString(t *testing.T) {
	for _, tt := range []struct {
		name string
		sum  Summary
		want string
	}{
		{"clean", Summary{Saved: 10}, "10 sprites were saved"},
		{"corrupt, not written", Summary{Saved: 10, CorruptSprites: 2, Corrupt: []uint16{100}},
			"10 sprites were saved and 2 were corrupt"},
		{"corrupt, written", Summary{Saved: 10, CorruptSprites: 2, Corrupt: []uint16{100}, CorruptPath: "corrupt_ids.txt"},
			"10 sprites were saved and 2 were corrupt, successfully saved corrupt ids to corrupt_ids.txt"},
		{"corrupt, write failed", Summary{Saved: 10, CorruptSprites: 2, Corrupt: []uint16{100}, CorruptPath: "corrupt_ids.txt", CorruptErr: errors.New("nope")},
			"10 sprites were saved and 2 were corrupt, failed to save corrupt ids to corrupt_ids.txt"},
	} {
		ttesting.AssertEqualString(t, tt.name, tt.sum.String(), tt.want)
	}
}
