package paths

import (
	"flag"
	"os"
	"path/filepath"
	"testing"

	"badc0de.net/pkg/sprdump/ttesting"
)

func TestFind(t *testing.T) {
	dir := t.TempDir()
	want := filepath.Join(dir, "Tibia.spr")
	if err := os.WriteFile(want, []byte{1}, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDataDir, dir)

	ttesting.AssertEqualString(t, "found in data dir", Find("Tibia.spr"), want)
	ttesting.AssertEqualString(t, "not found", Find("no-such-file.dat"), "")

	f, err := Open("Tibia.spr")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	f.Close()

	_, err = Open("no-such-file.dat")
	ttesting.AssertErrorIs(t, "open missing", err, os.ErrNotExist)
}

func TestSetupFilePathFlagSet(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Tibia.dat"), []byte{1}, 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvDataDir, dir)

	var found, fallback string
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	SetupFilePathFlagSet(fs, "Tibia.dat", "tibia_dat_path", &found)
	SetupFilePathFlagSet(fs, "no-such-file.spr", "tibia_spr_path", &fallback)
	if err := fs.Parse(nil); err != nil {
		t.Fatal(err)
	}
	ttesting.AssertEqualString(t, "found default", found, filepath.Join(dir, "Tibia.dat"))
	ttesting.AssertEqualString(t, "fallback default", fallback, "no-such-file.spr")
}
