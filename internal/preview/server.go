package preview

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// DefaultWait bounds how long GET /rev?after=... holds a request open.
var DefaultWait = 25 * time.Second

// RunFunc asks the owner of the buffers to compose and publish. It runs on
// an HTTP goroutine.
type RunFunc func(ctx context.Context) error

// ServerOption configures optional Server behavior.
type ServerOption func(*Server)

// WithRun enables POST /run and the page's Run button.
func WithRun(fn RunFunc) ServerOption {
	return func(s *Server) { s.run = fn }
}

// WithVersion sets the version reported by /api/status.
func WithVersion(v string) ServerOption {
	return func(s *Server) { s.version = v }
}

// WithLogf routes one line per request to logf.
func WithLogf(logf func(format string, args ...any)) ServerOption {
	return func(s *Server) { s.logf = logf }
}

// Server serves the host page, the composed document and a small JSON API.
type Server struct {
	router  chi.Router
	surface *Surface
	run     RunFunc
	version string
	logf    func(format string, args ...any)

	srv *http.Server
	ln  net.Listener
}

// Status is the body of GET /api/status.
type Status struct {
	Rev         string `json:"rev"`
	Reason      string `json:"reason,omitempty"`
	PublishedAt string `json:"published_at,omitempty"`
	Bytes       int    `json:"bytes"`
	Version     string `json:"version,omitempty"`
	RunEnabled  bool   `json:"run_enabled"`
}

// NewServer builds the router around surface.
func NewServer(surface *Surface, opts ...ServerOption) *Server {
	s := &Server{surface: surface}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/", s.handleHost)
	r.With(middleware.NoCache).Get("/frame", s.handleFrame)
	r.With(middleware.NoCache).Get("/rev", s.handleRev)
	r.Post("/run", s.handleRun)
	r.Get("/api/status", s.handleStatus)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler by delegating to the chi router.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Listen binds addr. Serve must be called afterwards.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("preview: listen %s: %w", addr, err)
	}
	s.ln = ln
	s.srv = &http.Server{Handler: s, ReadHeaderTimeout: 5 * time.Second}
	return nil
}

// Addr returns the bound address, or "" before Listen.
func (s *Server) Addr() string {
	if s.ln == nil {
		return ""
	}
	return s.ln.Addr().String()
}

// URL returns the page URL for the bound address.
func (s *Server) URL() string {
	if s.ln == nil {
		return ""
	}
	return "http://" + s.Addr() + "/"
}

// Serve blocks until Shutdown. It returns nil after a clean shutdown.
func (s *Server) Serve() error {
	if s.srv == nil {
		return errors.New("preview: Serve before Listen")
	}
	if err := s.srv.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server, waiting for in-flight requests until ctx ends.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleHost(w http.ResponseWriter, r *http.Request) {
	doc := s.surface.Current()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := hostPage.Execute(w, hostData{
		Rev:        doc.Rev,
		Version:    s.version,
		RunEnabled: s.run != nil,
	})
	if err != nil {
		s.logfSafe("preview: render host page: %v", err)
	}
}

func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	doc := s.surface.Current()
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Preview-Rev", doc.Rev)
	_, _ = w.Write([]byte(doc.HTML))
}

// handleRev returns the current revision. With ?after=<rev> it waits until
// the revision differs from <rev>, the wait elapses, or the client leaves.
func (s *Server) handleRev(w http.ResponseWriter, r *http.Request) {
	after := r.URL.Query().Get("after")
	if r.URL.Query().Has("after") {
		timer := time.NewTimer(DefaultWait)
		defer timer.Stop()
	wait:
		for {
			doc, changed := s.surface.watch()
			if doc.Rev != after {
				break
			}
			select {
			case <-changed:
			case <-timer.C:
				break wait
			case <-r.Context().Done():
				return
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"rev": s.surface.Current().Rev})
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if s.run == nil {
		http.Error(w, "run is not available", http.StatusNotImplemented)
		return
	}
	if err := s.run(r.Context()); err != nil {
		s.logfSafe("preview: run: %v", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"rev": s.surface.Current().Rev})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	doc := s.surface.Current()
	st := Status{
		Rev:        doc.Rev,
		Reason:     doc.Reason,
		Bytes:      len(doc.HTML),
		Version:    s.version,
		RunEnabled: s.run != nil,
	}
	if !doc.At.IsZero() {
		st.PublishedAt = doc.At.Format(time.RFC3339)
	}
	writeJSON(w, http.StatusOK, st)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logfSafe("preview: %s %s %d %s", r.Method, r.URL.Path, ww.Status(), time.Since(start).Round(time.Millisecond))
	})
}

func (s *Server) logfSafe(format string, args ...any) {
	if s.logf != nil {
		s.logf(format, args...)
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

type hostData struct {
	Rev        string
	Version    string
	RunEnabled bool
}

// The document lives in a sandboxed iframe without allow-same-origin, so
// its scripts get an opaque origin and cannot reach this page.
var hostPage = template.Must(template.New("host").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>hcj-play preview</title>
<style>
  html, body { margin: 0; height: 100%; background: #1e1e1e; font-family: system-ui, sans-serif; }
  header { display: flex; justify-content: space-between; align-items: center; height: 35px; padding: 0 12px; background: #2d2d2d; color: #fff; font-size: 13px; }
  header button { color: #fff; background: transparent; border: 1px solid #444; padding: 2px 12px; cursor: pointer; }
  iframe { display: block; width: 100%; height: calc(100% - 35px); border: 0; background: #fff; }
</style>
</head>
<body>
<header>
  <span>Preview <small id="rev">{{.Rev}}</small>{{if .Version}} <small>· hcj-play {{.Version}}</small>{{end}}</span>
  {{if .RunEnabled}}<button id="run" type="button">Run</button>{{end}}
</header>
<iframe id="preview" title="Preview" src="/frame" sandbox="allow-scripts allow-modals allow-forms allow-popups"></iframe>
<script>
(function () {
  var rev = {{.Rev}};
  var frame = document.getElementById("preview");
  var label = document.getElementById("rev");
  function watch() {
    fetch("/rev?after=" + encodeURIComponent(rev), { cache: "no-store" })
      .then(function (r) { return r.json(); })
      .then(function (body) {
        if (body.rev !== rev) {
          rev = body.rev;
          label.textContent = rev;
          frame.src = "/frame?rev=" + encodeURIComponent(rev);
        }
        watch();
      })
      .catch(function () { setTimeout(watch, 1000); });
  }
  var run = document.getElementById("run");
  if (run) {
    run.addEventListener("click", function () { fetch("/run", { method: "POST" }); });
  }
  watch();
})();
</script>
</body>
</html>
`))
