// Package server serves the generated README over HTTP on the local
// machine: a rendered preview page, the raw download, and a passthrough
// to the generation backend so that proxied images resolve.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/studiowebux/readmectl/internal/compose"
	"github.com/studiowebux/readmectl/internal/controller"
	"github.com/studiowebux/readmectl/internal/export"
	"github.com/studiowebux/readmectl/internal/preview"
)

// Server exposes one controller over HTTP. Handlers run concurrently, so
// every controller access holds mu; network calls run without it.
type Server struct {
	mu       sync.Mutex
	ctrl     *controller.Controller
	renderer *preview.Renderer
	backend  http.Handler
}

// New creates a server. backend receives every /api/* request; nil
// answers them with 404.
func New(ctrl *controller.Controller, renderer *preview.Renderer, backend http.Handler) *Server {
	if renderer == nil {
		renderer = preview.NewRenderer(preview.Options{})
	}
	if backend == nil {
		backend = http.NotFoundHandler()
	}
	return &Server{ctrl: ctrl, renderer: renderer, backend: backend}
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Get("/health", handleHealth)
	r.Get("/", s.handlePreview)
	r.Get("/README.md", s.handleDownload)
	r.Get("/state", s.handleState)
	r.Post("/generate", s.handleGenerate)
	r.Handle("/api/*", s.backend)

	return r
}

// Generate runs one generation request to completion
func (s *Server) Generate(ctx context.Context) error {
	s.mu.Lock()
	task := s.ctrl.SubmitGenerate(ctx)
	s.mu.Unlock()

	if task != nil {
		res := task()
		s.mu.Lock()
		s.ctrl.ApplyGenerate(res)
		s.mu.Unlock()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if msg, failed := s.ctrl.Generate().Message(); failed {
		return errors.New(msg)
	}
	return nil
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	text := s.ctrl.Markdown()
	title := s.ctrl.Config().TrimmedUsername()
	s.mu.Unlock()

	rendered, err := s.renderer.Render(r.Context(), text)
	if err != nil {
		httpError(w, http.StatusInternalServerError, "render failed: %v", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Referrer-Policy", "no-referrer")
	w.Write([]byte(rendered.Page(title + " README")))
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	text := s.ctrl.Markdown()
	s.mu.Unlock()

	if err := export.Serve(w, text); err != nil {
		if errors.Is(err, export.ErrNothingToExport) {
			httpError(w, http.StatusNotFound, "no README generated yet")
			return
		}
		slog.Warn("download failed", "error", err)
	}
}

// stateResponse reports both request machines and the current request
type stateResponse struct {
	Username string            `json:"username"`
	Config   compose.Request   `json:"config"`
	Profile  string            `json:"profile"`
	Generate string            `json:"generate"`
	Error    string            `json:"error,omitempty"`
	Assets   map[string]string `json:"assets,omitempty"`
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := stateResponse{
		Username: s.ctrl.Config().TrimmedUsername(),
		Config:   s.ctrl.Config().ToRequest(),
		Profile:  s.ctrl.ProfileFetch().State().String(),
		Generate: s.ctrl.Generate().State().String(),
	}
	if msg, failed := s.ctrl.Generate().Message(); failed {
		resp.Error = msg
	}
	if doc := s.ctrl.Document(); doc != nil {
		resp.Assets = doc.Assets
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// handleGenerate applies optional template/theme/layout form values and
// regenerates. Browsers are redirected back to the preview.
func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		httpError(w, http.StatusBadRequest, "invalid form: %v", err)
		return
	}

	s.mu.Lock()
	err := applyForm(s.ctrl.Config(), r)
	s.mu.Unlock()
	if err != nil {
		httpError(w, http.StatusBadRequest, "%v", err)
		return
	}

	if err := s.Generate(r.Context()); err != nil {
		httpError(w, http.StatusBadGateway, "generation failed: %v", err)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func applyForm(cfg *compose.Configuration, r *http.Request) error {
	if name := r.Form.Get("template"); name != "" {
		t, err := compose.ParseTemplate(name)
		if err != nil {
			return err
		}
		cfg.ApplyTemplate(t)
	}
	if name := r.Form.Get("theme"); name != "" {
		theme, err := compose.ParseTheme(name)
		if err != nil {
			return err
		}
		cfg.SetTheme(theme)
	}
	if name := r.Form.Get("layout"); name != "" {
		layout, err := compose.ParseLayout(name)
		if err != nil {
			return err
		}
		cfg.SetLayout(layout)
	}
	return nil
}

func httpError(w http.ResponseWriter, status int, format string, args ...any) {
	http.Error(w, fmt.Sprintf(format, args...), status)
}

// Run serves handler on addr until ctx is cancelled
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("preview server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
