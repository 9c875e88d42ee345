package preview

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/OddSageID/neuroshield-site/internal/secheaders"
	"github.com/OddSageID/neuroshield-site/internal/theme"
)

// Options configures the preview server.
type Options struct {
	Root       string // Site root directory
	CSP        string // Policy sent as a real header on HTML responses
	Controller *theme.Controller
	Store      theme.PreferenceStore
	Document   *DocumentState
	Control    *ControlState
	Logger     *slog.Logger
}

// Server serves the static site with security headers and the live theme
// marker applied.
type Server struct {
	opts Options
}

// New creates a preview server. The controller must already be initialized
// so the first response carries the correct marker.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Server{opts: opts}
}

// Router assembles the chi router.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/_theme", s.handleThemeStatus)
	r.Post("/_theme/toggle", s.handleThemeToggle)
	r.Handle("/*", http.HandlerFunc(s.handleStatic))

	return r
}

// themeStatus is the /_theme response body.
type themeStatus struct {
	Theme    string `json:"theme"`
	Explicit bool   `json:"explicit"`
	Pressed  bool   `json:"pressed"`
	Label    string `json:"label"`
}

func (s *Server) currentStatus() themeStatus {
	explicit := false
	if s.opts.Store != nil {
		if _, ok, err := s.opts.Store.Load(); err == nil {
			explicit = ok
		}
	}
	pressed, label := s.opts.Control.Snapshot()
	return themeStatus{
		Theme:    string(s.opts.Controller.Effective()),
		Explicit: explicit,
		Pressed:  pressed,
		Label:    label,
	}
}

func (s *Server) handleThemeStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.currentStatus())
}

func (s *Server) handleThemeToggle(w http.ResponseWriter, r *http.Request) {
	mode := s.opts.Controller.Toggle()
	s.opts.Logger.Info("theme toggled", "mode", mode)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.currentStatus())
}

// handleStatic serves files under the site root. HTML responses get the
// security headers and the current theme marker; everything else is served
// as-is.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	rel := strings.TrimPrefix(r.URL.Path, "/")
	if rel == "" {
		rel = "index.html"
	}

	// Clean resolves any traversal; anything escaping the root is gone.
	rel = filepath.Clean(filepath.FromSlash(rel))
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		http.NotFound(w, r)
		return
	}
	path := filepath.Join(s.opts.Root, rel)

	info, err := os.Stat(path)
	if err == nil && info.IsDir() {
		path = filepath.Join(path, "index.html")
		_, err = os.Stat(path)
	}
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if !strings.EqualFold(filepath.Ext(path), ".html") {
		http.ServeFile(w, r, path)
		return
	}

	content, err := os.ReadFile(path)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	doc := s.opts.Document
	body := InjectMarker(string(content), doc.Attribute(), doc.Dark())

	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	if s.opts.CSP != "" {
		h.Set("Content-Security-Policy", s.opts.CSP)
	}
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
	h.Set("Permissions-Policy", secheaders.PermissionsPolicy)

	w.Write([]byte(body))
}
