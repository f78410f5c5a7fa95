// Package web serves sprites and composed entries over HTTP.
package web

import (
	"bytes"
	"fmt"
	"html/template"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/png"
	"net/http"
	"os"
	"strconv"

	"github.com/andybons/gogif"
	"github.com/cespare/xxhash/v2"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/sprdump/datafiles"
	"badc0de.net/pkg/sprdump/dat"
	"badc0de.net/pkg/sprdump/spr"
	"badc0de.net/pkg/sprdump/things"
)

// generation is part of every ETag; bump it if the way images are generated
// changes.
const generation = 1

// pageSize is the number of entries per page of the entry table.
const pageSize = 100

type Handler struct {
	th *things.Things

	tibiaSprPath string
	table        *template.Template
}

// NewHandler constructs web handler for the passed things. tibiaSprPath is
// only used for Last-Modified and may be empty.
func NewHandler(th *things.Things, tibiaSprPath string) *Handler {
	return &Handler{
		th:           th,
		tibiaSprPath: tibiaSprPath,
		table:        template.Must(template.New("entrytable").Parse(datafiles.EntryTableHTML)),
	}
}

// RegisterRoutes adds the handler's routes to r.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.tableHandler)
	r.HandleFunc("/spr/{idx:[0-9]+}", h.sprHandler)
	r.HandleFunc("/entry/{id:[0-9]+}", h.entryHandler)
	r.HandleFunc("/entry/{id:[0-9]+}.gif", h.entryGIFHandler)
	r.HandleFunc("/entry/{id:[0-9]+}/{n:[0-9]+}", h.entrySpriteHandler)
	r.HandleFunc("/sitemap.xml", h.sitemapHandler)
}

// etag derives a weak validator from the loaded files and the request key.
func (h *Handler) etag(kind string, key ...int) string {
	d := xxhash.New()
	fmt.Fprintf(d, "%d:%s:%08x:%08x", generation, kind, h.th.CatalogSignature(), h.th.AtlasSignature())
	for _, k := range key {
		fmt.Fprintf(d, ":%d", k)
	}
	return fmt.Sprintf(`W/"%016x"`, d.Sum64())
}

// notModified sets caching headers and reports whether the client already
// has the current version.
func (h *Handler) notModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	w.Header().Set("Cache-Control", "public; max-age=36000") // 36000 = 10h
	w.Header().Set("ETag", etag)
	if r.Header.Get("If-None-Match") == etag {
		w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (h *Handler) writeImage(w http.ResponseWriter, tr trace.Trace, mime string, write func(*bytes.Buffer) error) {
	b := &bytes.Buffer{}
	if err := write(b); err != nil {
		tr.LazyPrintf("encoding failed: %v", err)
		tr.SetError()
		http.Error(w, "image could not be encoded", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", mime)
	w.Header().Set("Content-Length", strconv.Itoa(b.Len()))
	if h.tibiaSprPath != "" {
		if s, err := os.Stat(h.tibiaSprPath); err == nil {
			w.Header().Set("Last-Modified", s.ModTime().Format(http.TimeFormat))
		}
	}
	w.WriteHeader(http.StatusOK)
	w.Write(b.Bytes())
}

func writePNG(img image.Image) func(*bytes.Buffer) error {
	return func(b *bytes.Buffer) error { return png.Encode(b, img) }
}

// statusFor maps decode errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, things.ErrNoSuchEntry), errors.Is(err, spr.ErrMissingSpriteData):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func parseU16(w http.ResponseWriter, s, what string) (uint16, bool) {
	v, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		http.Error(w, what+" not a number", http.StatusBadRequest)
		return 0, false
	}
	return uint16(v), true
}

// frameFromQuery reads the optional layer, x, y, z and fr parameters.
// Invalid values are ignored.
func frameFromQuery(r *http.Request) things.Frame {
	var f things.Frame
	q := r.URL.Query()
	for name, dst := range map[string]*int{"layer": &f.Layer, "x": &f.PatternX, "y": &f.PatternY, "z": &f.PatternZ, "fr": &f.Anim} {
		if v := q.Get(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				*dst = n
			}
		}
	}
	return f
}

func (h *Handler) sprHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.spr", r.URL.Path)
	defer tr.Finish()

	idx, ok := parseU16(w, mux.Vars(r)["idx"], "idx")
	if !ok {
		return
	}
	etag := h.etag("spr", int(idx))
	if h.notModified(w, r, etag) {
		return
	}

	img, err := h.th.Sprite(idx)
	if err != nil {
		tr.LazyPrintf("sprite %d: %v", idx, err)
		glog.V(2).Infof("web: sprite %d: %v", idx, err)
		http.Error(w, "failed to decode spr", statusFor(err))
		return
	}
	h.writeImage(w, tr, "image/png", writePNG(img))
}

func (h *Handler) entryHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.entry", r.URL.Path)
	defer tr.Finish()

	id, ok := parseU16(w, mux.Vars(r)["id"], "id")
	if !ok {
		return
	}
	f := frameFromQuery(r)
	etag := h.etag("entry", int(id), f.Layer, f.PatternX, f.PatternY, f.PatternZ, f.Anim)
	if h.notModified(w, r, etag) {
		return
	}

	e, err := h.th.Entry(id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	img, err := e.Frame(f)
	if err != nil {
		// Tiles without data are left transparent; the rest is still useful.
		tr.LazyPrintf("entry %d: %v", id, err)
		glog.V(2).Infof("web: entry %d: %v", id, err)
	}
	h.writeImage(w, tr, "image/png", writePNG(img))
}

func (h *Handler) entrySpriteHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.entry", r.URL.Path)
	defer tr.Finish()

	vars := mux.Vars(r)
	id, ok := parseU16(w, vars["id"], "id")
	if !ok {
		return
	}
	n, err := strconv.Atoi(vars["n"])
	if err != nil {
		http.Error(w, "n not a number", http.StatusBadRequest)
		return
	}

	e, err := h.th.Entry(id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}
	if n >= len(e.SpriteIDs) {
		http.Error(w, fmt.Sprintf("entry %d has %d sprites", id, len(e.SpriteIDs)), http.StatusNotFound)
		return
	}
	etag := h.etag("entry-sprite", int(id), n)
	if h.notModified(w, r, etag) {
		return
	}

	img, err := e.Sprite(n)
	if err != nil {
		tr.LazyPrintf("entry %d sprite %d: %v", id, n, err)
		http.Error(w, "failed to decode spr", statusFor(err))
		return
	}
	h.writeImage(w, tr, "image/png", writePNG(img))
}

// entryGIFHandler animates the entry over all of its frames.
func (h *Handler) entryGIFHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("web.entry", r.URL.Path)
	defer tr.Finish()

	id, ok := parseU16(w, mux.Vars(r)["id"], "id")
	if !ok {
		return
	}
	f := frameFromQuery(r)
	etag := h.etag("entry-gif", int(id), f.Layer, f.PatternX, f.PatternY, f.PatternZ)
	if h.notModified(w, r, etag) {
		return
	}

	e, err := h.th.Entry(id)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	g := &gif.GIF{}
	quantizer := gogif.MedianCutQuantizer{NumColor: 255} // Up to 255 colors plus 1 space for transparency.
	frames := max(int(e.Grid[dat.GridFrames]), 1)
	for i := 0; i < frames; i++ {
		f.Anim = i
		img, err := e.Frame(f)
		if err != nil {
			tr.LazyPrintf("entry %d frame %d: %v", id, i, err)
		}

		pal := image.NewPaletted(img.Bounds(), nil)
		quantizer.Quantize(pal, img.Bounds(), img, image.Point{})

		// Prepend color.Transparent so that the empty image defaults to it,
		// then redraw the original with the quantized palette.
		palTransparent := image.NewPaletted(img.Bounds(), append(color.Palette{color.Transparent}, pal.Palette...))
		draw.Draw(palTransparent, img.Bounds(), img, image.Point{}, draw.Over)

		g.Image = append(g.Image, palTransparent)
		g.Delay = append(g.Delay, 50)
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	h.writeImage(w, tr, "image/gif", func(b *bytes.Buffer) error { return gif.EncodeAll(b, g) })
}

type tablePage struct {
	Title            string
	CatalogSignature uint32
	AtlasSignature   uint32
	Items, Creatures int
	Prev, Next       int
	Entries          []dat.Entry
}

// tableHandler lists catalog entries, pageSize at a time starting at the
// ?from= id.
func (h *Handler) tableHandler(w http.ResponseWriter, r *http.Request) {
	cat := h.th.Catalog()
	from := dat.FirstID
	if v := r.URL.Query().Get("from"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= dat.FirstID {
			from = n
		}
	}
	start := min(from-dat.FirstID, len(cat.Entries))
	end := min(start+pageSize, len(cat.Entries))

	p := &tablePage{
		Title:            "Entries",
		CatalogSignature: h.th.CatalogSignature(),
		AtlasSignature:   h.th.AtlasSignature(),
		Items:            len(cat.Items()),
		Creatures:        len(cat.Creatures()),
		Entries:          cat.Entries[start:end],
	}
	if start > 0 {
		p.Prev = max(start-pageSize, 0) + dat.FirstID
	}
	if end < len(cat.Entries) {
		p.Next = end + dat.FirstID
	}

	b := &bytes.Buffer{}
	if err := h.table.Execute(b, p); err != nil {
		glog.Errorf("web: rendering entry table: %v", err)
		http.Error(w, "could not render entry table", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(b.Bytes())
}
