package web

import (
	"image/color"
	"image/gif"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"badc0de.net/pkg/sprdump/cursor"
	"badc0de.net/pkg/sprdump/dat"
	"badc0de.net/pkg/sprdump/spr"
	"badc0de.net/pkg/sprdump/things"
	"badc0de.net/pkg/sprdump/ttesting"
	"badc0de.net/pkg/sprdump/ttesting/synth"
)

func newRouter(t *testing.T) *mux.Router {
	t.Helper()
	anim := synth.Single(1)
	anim.Grid = [5]uint8{1, 1, 1, 1, 2}
	anim.SpriteIDs = []uint16{1, 2}
	big := synth.Entry{Width: 2, Height: 2, ExactSize: 64, Grid: [5]uint8{1, 1, 1, 1, 1}, SpriteIDs: []uint16{1, 2, 0, 1}}

	cat, err := dat.NewCatalog(cursor.New(synth.Catalog([]synth.Entry{synth.Single(1), anim, big}, []synth.Entry{synth.Single(3)})))
	if err != nil {
		t.Fatalf("NewCatalog: %v", err)
	}
	atlas, err := spr.NewAtlas(synth.Atlas(
		synth.Solid(32, color.RGBA{R: 0xFF}),
		synth.Solid(32, color.RGBA{G: 0xFF}),
		nil))
	if err != nil {
		t.Fatalf("NewAtlas: %v", err)
	}

	r := mux.NewRouter()
	NewHandler(things.New(cat, atlas), "").RegisterRoutes(r)
	return r
}

func get(r http.Handler, path string, hdr ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", path, nil)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestStatusCodes(t *testing.T) {
	r := newRouter(t)
	for _, tt := range []struct {
		path string
		want int
	}{
		{"/spr/1", http.StatusOK},
		{"/spr/0", http.StatusNotFound},
		{"/spr/3", http.StatusNotFound},
		{"/spr/99", http.StatusNotFound},
		{"/spr/70000", http.StatusBadRequest},
		{"/spr/abc", http.StatusNotFound},
		{"/entry/100", http.StatusOK},
		{"/entry/102", http.StatusOK},
		{"/entry/103", http.StatusOK},
		{"/entry/104", http.StatusNotFound},
		{"/entry/99", http.StatusNotFound},
		{"/entry/101/1", http.StatusOK},
		{"/entry/101/2", http.StatusNotFound},
		{"/entry/103/0", http.StatusNotFound},
		{"/entry/101.gif", http.StatusOK},
		{"/", http.StatusOK},
		{"/sitemap.xml", http.StatusOK},
	} {
		t.Run(tt.path, func(t *testing.T) {
			rec := get(r, tt.path)
			ttesting.AssertEqualInt(t, "status", rec.Code, tt.want)
		})
	}
}

func TestSpriteIsPNG(t *testing.T) {
	rec := get(newRouter(t), "/spr/2")
	ttesting.AssertEqualString(t, "content type", rec.Header().Get("Content-Type"), "image/png")
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	if r, g, _, a := img.At(0, 0).RGBA(); r != 0 || g != 0xFFFF || a != 0xFFFF {
		t.Errorf("pixel (0,0) = %v; want green", img.At(0, 0))
	}
}

func TestETag(t *testing.T) {
	r := newRouter(t)
	first := get(r, "/entry/100")
	etag := first.Header().Get("ETag")
	if !strings.HasPrefix(etag, `W/"`) {
		t.Fatalf("ETag = %q; want a weak validator", etag)
	}

	again := get(r, "/entry/100", "If-None-Match", etag)
	ttesting.AssertEqualInt(t, "status", again.Code, http.StatusNotModified)
	ttesting.AssertEqualInt(t, "body", again.Body.Len(), 0)

	other := get(r, "/entry/100?fr=1")
	if other.Header().Get("ETag") == etag {
		t.Errorf("frame 1 has the same ETag as frame 0")
	}
	if get(r, "/entry/101").Header().Get("ETag") == etag {
		t.Errorf("entry 101 has the same ETag as entry 100")
	}
}

func TestEntryComposite(t *testing.T) {
	rec := get(newRouter(t), "/entry/102")
	img, err := png.Decode(rec.Body)
	if err != nil {
		t.Fatalf("png.Decode: %v", err)
	}
	ttesting.AssertEqualInt(t, "width", img.Bounds().Dx(), 64)
	ttesting.AssertEqualInt(t, "height", img.Bounds().Dy(), 64)
	// Tile (0,0) is drawn bottom-right.
	if r, _, _, a := img.At(32, 32).RGBA(); r != 0xFFFF || a != 0xFFFF {
		t.Errorf("pixel (32,32) = %v; want red", img.At(32, 32))
	}
}

func TestEntryGIF(t *testing.T) {
	rec := get(newRouter(t), "/entry/101.gif")
	ttesting.AssertEqualString(t, "content type", rec.Header().Get("Content-Type"), "image/gif")
	g, err := gif.DecodeAll(rec.Body)
	if err != nil {
		t.Fatalf("gif.DecodeAll: %v", err)
	}
	ttesting.AssertEqualInt(t, "frames", len(g.Image), 2)
}

func TestTable(t *testing.T) {
	rec := get(newRouter(t), "/")
	body := rec.Body.String()
	for _, want := range []string{`<img src="/entry/100"`, `<img src="/entry/103"`, "creature", "2x2 (64px)"} {
		if !strings.Contains(body, want) {
			t.Errorf("table does not contain %q", want)
		}
	}
}

func TestSitemap(t *testing.T) {
	rec := get(newRouter(t), "/sitemap.xml")
	if !strings.Contains(rec.Body.String(), "http://example.com/entry/103") {
		t.Errorf("sitemap does not list entry 103:\n%s", rec.Body.String())
	}
}
