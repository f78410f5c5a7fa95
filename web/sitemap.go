package web

import (
	"encoding/xml"
	"fmt"
	"net/http"
)

// sitemapMaxURLs is the most URLs a single sitemap may carry.
const sitemapMaxURLs = 50000

type SitemapURLImage struct {
	Loc string `xml:"image:loc"` // image is the namespace 'http://www.google.com/schemas/sitemap-image/1.1'
}

type SitemapURL struct {
	XMLName  xml.Name `xml:"url"`
	Loc      string   `xml:"loc"`
	Priority float32  `xml:"priority,omitempty"` // 0.0-1.0, default if unspecified is 0.5

	Image []SitemapURLImage `xml:"image:image,omitempty"`
}

type SitemapURLSet struct {
	XMLName    xml.Name     `xml:"http://www.sitemaps.org/schemas/sitemap/0.9 urlset"`
	XMLNSImage string       `xml:"xmlns:image,attr"`
	URL        []SitemapURL `xml:"url,omitempty"`
}

func (e *SitemapURLSet) Write(w http.ResponseWriter, r *http.Request) {
	e.XMLNSImage = "http://www.google.com/schemas/sitemap-image/1.1"

	w.Header().Set("Content-Type", "application/xml")

	fmt.Fprintf(w, "%s", xml.Header)
	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(e); err != nil {
		http.Error(w, "<error>could not encode sitemap</error>", http.StatusInternalServerError)
		return
	}
}

// sitemapHandler lists the entry table pages, with every entry's composed
// image attached to the page showing it.
func (h *Handler) sitemapHandler(w http.ResponseWriter, r *http.Request) {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	base := scheme + "://" + r.Host

	set := &SitemapURLSet{}
	entries := h.th.Catalog().Entries
	for start := 0; start < len(entries) && len(set.URL) < sitemapMaxURLs; start += pageSize {
		u := SitemapURL{Loc: fmt.Sprintf("%s/?from=%d", base, entries[start].ID)}
		for _, e := range entries[start:min(start+pageSize, len(entries))] {
			u.Image = append(u.Image, SitemapURLImage{Loc: fmt.Sprintf("%s/entry/%d", base, e.ID)})
		}
		set.URL = append(set.URL, u)
	}
	set.Write(w, r)
}
