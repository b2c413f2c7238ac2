package hostpage

import (
	"bytes"
	"errors"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/dhamidi/typestripped/strip"
)

// Server serves a directory for development. HTML pages are rewritten,
// TypeScript files are served as JavaScript and everything else is
// served as-is. Files are read on every request, so edits show up on
// reload.
type Server struct {
	fsys fs.FS
	mux  *http.ServeMux
}

func NewServer(root string) *Server {
	return NewFSServer(os.DirFS(root))
}

func NewFSServer(fsys fs.FS) *Server {
	s := &Server{
		fsys: fsys,
		mux:  http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /", s.handle)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log.Infof("%s %s", r.Method, r.URL.Path)
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
	if name == "" {
		name = "."
	}
	if info, err := fs.Stat(s.fsys, name); err == nil && info.IsDir() {
		index := path.Join(name, "index.html")
		if _, err := fs.Stat(s.fsys, index); err == nil {
			s.servePage(w, r, index)
			return
		}
	}
	switch path.Ext(name) {
	case ".html", ".htm":
		s.servePage(w, r, name)
		return
	case ".ts", ".mts":
		s.serveModule(w, name)
		return
	case "":
		if _, err := fs.Stat(s.fsys, name+".ts"); err == nil {
			s.serveModule(w, name+".ts")
			return
		}
	}
	http.FileServerFS(s.fsys).ServeHTTP(w, r)
}

func (s *Server) servePage(w http.ResponseWriter, r *http.Request, name string) {
	page, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		s.fail(w, err)
		return
	}
	rewriter := NewRewriter(FSFetcher{FS: s.fsys})
	out, err := rewriter.RewriteHTML(bytes.NewReader(page), pageURL(r, name))
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(out)
}

func (s *Server) serveModule(w http.ResponseWriter, name string) {
	src, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		s.fail(w, err)
		return
	}
	js, err := strip.Transpile(string(src), strip.WithFile("/"+name), strip.WithRecover(), strip.WithLogger(log))
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
	w.Write([]byte(js))
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	log.Errorf("%s", err)
	var perr *strip.ParseError
	switch {
	case errors.Is(err, fs.ErrNotExist):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.As(err, &perr):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func pageURL(r *http.Request, name string) *url.URL {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: r.Host, Path: "/" + name}
}
