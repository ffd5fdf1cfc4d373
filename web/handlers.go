// Package web serves reduced sprite assets over HTTP: the packed atlas
// bitmap, the animation record blob, the metadata sidecar and per-tag GIF
// previews, plus an HTML index with inline thumbnails.
package web

import (
	"bytes"
	"fmt"
	"html"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/vincent-petithory/dataurl"

	"badc0de.net/pkg/go-asepack/ase"
	"badc0de.net/pkg/go-asepack/atlas"
	"badc0de.net/pkg/go-asepack/imageprint"
	"badc0de.net/pkg/go-asepack/paths"
)

// Handler serves every sprite document found under a root directory.
// Documents are decoded and reduced on first request and cached; the cache
// key incorporates the file's modification time, so edits on disk take
// effect on the next request.
type Handler struct {
	root string

	mu    sync.Mutex
	cache map[string]*entry
}

type entry struct {
	path    string
	modTime time.Time
	sig     uint32 // fingerprint of the raw file bytes
	sprite  *ase.Sprite
	atlas   *atlas.Atlas
}

// NewHandler constructs a web handler serving the sprite documents under
// root.
func NewHandler(root string) *Handler {
	return &Handler{root: root, cache: map[string]*entry{}}
}

// load returns the reduced form of the named document, reusing the cached
// one when the file has not changed since.
func (h *Handler) load(name string) (*entry, error) {
	path := filepath.Join(h.root, name+".ase")
	st, err := os.Stat(path)
	if err != nil {
		path = filepath.Join(h.root, name+".aseprite")
		if st, err = os.Stat(path); err != nil {
			return nil, err
		}
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if e, ok := h.cache[name]; ok && e.modTime.Equal(st.ModTime()) {
		return e, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	s, err := ase.DecodeBytes(data)
	if err != nil {
		return nil, err
	}
	a, err := atlas.Reduce(s)
	if err != nil {
		return nil, err
	}
	e := &entry{
		path:    path,
		modTime: st.ModTime(),
		sig:     uint32(xxhash.Sum64(data)),
		sprite:  s,
		atlas:   a,
	}
	h.cache[name] = e
	glog.Infof("loaded %s: %d frames, %dx%d atlas", path, len(s.Frames), a.Width, a.Height)
	return e, nil
}

// serve handles the shared conditional-request dance, then hands off to
// render for the body.
func (h *Handler) serve(w http.ResponseWriter, r *http.Request, mime, kind string, render func(e *entry, w http.ResponseWriter) error) {
	name := mux.Vars(r)["name"]
	e, err := h.load(name)
	if os.IsNotExist(err) {
		http.Error(w, "no such sprite document", http.StatusNotFound)
		return
	} else if err != nil {
		glog.Errorf("loading %q: %v", name, err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	generation := 1 // bump if the way we generate output changes
	etag := fmt.Sprintf(`W/"%s:%d:%08x:%s:%s"`, kind, generation, e.sig, r.URL.Path, mime)
	if r.Header.Get("If-None-Match") == etag {
		w.Header().Set("Cache-Control", "public; max-age=3600")
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", mime)
	w.Header().Set("Cache-Control", "public; max-age=3600")
	w.Header().Set("ETag", etag)
	w.Header().Set("Last-Modified", e.modTime.Format(http.TimeFormat))
	w.WriteHeader(http.StatusOK)
	if err := render(e, w); err != nil {
		glog.Errorf("rendering %s for %q: %v", kind, name, err)
	}
}

func (h *Handler) atlasHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "image/png", "atlas", func(e *entry, w http.ResponseWriter) error {
		return e.atlas.EncodePNG(w)
	})
}

func (h *Handler) metaHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "application/json", "meta", func(e *entry, w http.ResponseWriter) error {
		return e.atlas.EncodeMetadata(w)
	})
}

func (h *Handler) animHandler(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, "application/octet-stream", "anim", func(e *entry, w http.ResponseWriter) error {
		return e.atlas.EncodeAnim(w)
	})
}

func (h *Handler) tagGIFHandler(w http.ResponseWriter, r *http.Request) {
	tag := mux.Vars(r)["tag"]
	h.serve(w, r, "image/gif", "tag", func(e *entry, w http.ResponseWriter) error {
		return e.atlas.EncodeTagGIF(w, tag)
	})
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	fr, err := strconv.Atoi(mux.Vars(r)["fr"])
	if err != nil {
		http.Error(w, "fr not a number", http.StatusBadRequest)
		return
	}
	h.serve(w, r, "image/png", "frame", func(e *entry, w http.ResponseWriter) error {
		img, err := e.sprite.RenderFrame(fr)
		if err != nil {
			return err
		}
		return png.Encode(w, img)
	})
}

// indexHandler lists every sprite document under the root with an inline
// first-frame thumbnail, embedded as a data URL so the page is one request.
func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	files, err := paths.ListSpriteFiles(h.root)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<!doctype html><title>sprite assets</title><h1>sprite assets</h1><ul>\n")
	for _, f := range files {
		name := f[:len(f)-len(filepath.Ext(f))]
		fmt.Fprintf(w, `<li><a href="/atlas/%s.png">%s</a>`, name, html.EscapeString(name))

		if e, err := h.load(name); err == nil {
			if img, err := e.sprite.RenderFrame(0); err == nil {
				var buf bytes.Buffer
				if err := png.Encode(&buf, imageprint.Thumbnail(img, 64)); err == nil {
					fmt.Fprintf(w, ` <img src="%s" alt="">`, dataurl.New(buf.Bytes(), "image/png").String())
				}
			}
			fmt.Fprintf(w, ` (<a href="/meta/%s.json">meta</a>, <a href="/anim/%s.bin">anim</a>`, name, name)
			for _, tag := range e.atlas.SortedTagNames() {
				fmt.Fprintf(w, `, <a href="/tag/%s/%s.gif">%s</a>`, name, tag, html.EscapeString(tag))
			}
			fmt.Fprintf(w, ")")
		}
		fmt.Fprintf(w, "</li>\n")
	}
	fmt.Fprintf(w, "</ul>\n")
}

// RegisterRoutes attaches every asset route to the router.
func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.indexHandler)
	r.HandleFunc("/atlas/{name:[A-Za-z0-9_.-]+}.png", h.atlasHandler)
	r.HandleFunc("/meta/{name:[A-Za-z0-9_.-]+}.json", h.metaHandler)
	r.HandleFunc("/anim/{name:[A-Za-z0-9_.-]+}.bin", h.animHandler)
	r.HandleFunc("/tag/{name:[A-Za-z0-9_.-]+}/{tag}.gif", h.tagGIFHandler)
	r.HandleFunc("/frame/{name:[A-Za-z0-9_.-]+}/{fr:[0-9]+}.png", h.frameHandler)
}
