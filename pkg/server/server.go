package server

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/elnormous/contenttype"
	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-propedit/pkg/docgen"
	"github.com/goliatone/go-propedit/pkg/model"
	"github.com/goliatone/go-propedit/pkg/propedit"
	"github.com/goliatone/go-propedit/pkg/render/template/pongo"
	"github.com/goliatone/go-propedit/pkg/widget"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

var (
	jsonMediaType = contenttype.NewMediaType("application/json")
	formMediaType = contenttype.NewMediaType("application/x-www-form-urlencoded")
)

type Option func(*Server)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTheme applies a resolved theme to the panel page.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(s *Server) {
		s.theme = cfg
	}
}

// WithWidgetRenderer replaces the default widget renderer.
func WithWidgetRenderer(renderer *widget.Renderer) Option {
	return func(s *Server) {
		if renderer != nil {
			s.widgets = renderer
		}
	}
}

// Server hosts the assets, the docgen API and the prop editing panel.
type Server struct {
	cfg       Config
	docs      *docgen.Store
	models    *model.Store
	panel     *propedit.Panel
	widgets   *widget.Renderer
	pages     *pongo.Engine
	assets    *Assets
	hub       *Hub
	sanitizer *bluemonday.Policy
	theme     *theme.RendererConfig
	logger    *slog.Logger

	unsubscribe func()
}

// New wires a server over the two stores.
func New(cfg Config, docs *docgen.Store, models *model.Store, options ...Option) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if docs == nil || models == nil {
		return nil, errors.New("server: documentation and model stores are required")
	}

	s := &Server{
		cfg:       cfg,
		docs:      docs,
		models:    models,
		panel:     propedit.NewPanel(docs, models),
		sanitizer: bluemonday.UGCPolicy(),
		logger:    slog.Default(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(s)
	}

	if s.widgets == nil {
		renderer, err := widget.NewRenderer()
		if err != nil {
			return nil, fmt.Errorf("server: widget renderer: %w", err)
		}
		s.widgets = renderer
	}
	pages, err := pongo.New(pongo.WithFS(embeddedTemplates))
	if err != nil {
		return nil, fmt.Errorf("server: page templates: %w", err)
	}
	s.pages = pages

	s.hub = NewHub(s.logger)
	s.assets = NewAssets(cfg.Roots()...)
	if cfg.LiveReload {
		s.assets.WithHTMLInjector(InjectLiveReload)
	}

	s.unsubscribe = models.Subscribe(func(action model.Action) {
		payload, err := json.Marshal(action)
		if err != nil {
			return
		}
		s.hub.Broadcast(EventModel, string(payload))
	})
	return s, nil
}

// Close stops forwarding model changes to the live reload hub. Serve calls it
// on return. It is safe to call more than once.
func (s *Server) Close() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
}

// Hub exposes the live reload hub.
func (s *Server) Hub() *Hub {
	return s.hub
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/docgen", s.handleDocgen)
	mux.HandleFunc("GET /api/model", s.handleModel)
	mux.HandleFunc("GET /api/props/{name}", s.handleGetProp)
	mux.HandleFunc("POST /api/props/{name}", s.handlePostProp)
	if s.cfg.LiveReload {
		mux.Handle("GET "+LiveReloadPath, s.hub)
	}
	mux.HandleFunc("GET /{$}", s.handlePanel)
	mux.Handle("/", s.assets)
	return s.logRequests(mux)
}

// Run listens until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the server on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	defer s.Close()

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if s.cfg.LiveReload {
		go func() {
			if err := s.hub.Watch(watchCtx, s.watchDirs(), s.onFileChange); err != nil {
				s.logger.Warn("livereload.disabled", slog.String("err", err.Error()))
			}
		}()
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()
	s.logger.Info(fmt.Sprintf("listen to localhost:%d", s.cfg.Port), slog.String("addr", ln.Addr().String()))

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server: shutdown: %w", err)
		}
		return nil
	}
}

func (s *Server) watchDirs() []string {
	dirs := s.cfg.Roots()
	if s.cfg.DocgenPath != "" {
		dir := filepath.Dir(s.cfg.DocgenPath)
		if !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func (s *Server) onFileChange(path string) {
	if s.cfg.DocgenPath == "" || filepath.Clean(path) != filepath.Clean(s.cfg.DocgenPath) {
		return
	}
	if err := s.ReloadDocs(); err != nil {
		s.logger.Warn("docgen.reload_failed", slog.String("path", path), slog.String("err", err.Error()))
	}
}

// ReloadDocs re-reads the docgen file into the documentation store.
func (s *Server) ReloadDocs() error {
	doc, err := docgen.LoadFile(s.cfg.DocgenPath)
	if err != nil {
		return err
	}
	s.docs.Replace(doc)
	s.logger.Info("docgen.reloaded", slog.Int("props", len(doc.Props)))
	return nil
}

func (s *Server) handleDocgen(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.docs.Document())
}

func (s *Server) handleModel(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.models.Snapshot())
}

func (s *Server) handleGetProp(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	binding := propedit.New(name, s.docs, s.models)

	var buf strings.Builder
	if err := binding.Render(&buf, s.widgets); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write([]byte(buf.String()))
}

type propUpdate struct {
	Name  string         `json:"propName"`
	Type  docgen.TypeTag `json:"propType"`
	Value any            `json:"value"`
}

func (s *Server) handlePostProp(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	event, status, err := decodeEvent(w, r)
	if err != nil {
		writeJSONError(w, status, err.Error())
		return
	}

	binding := propedit.New(name, s.docs, s.models)
	in, view, err := binding.Input()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	in.Change(event)

	tag := view.Descriptor.Type.Name
	writeJSON(w, http.StatusOK, propUpdate{
		Name:  name,
		Type:  tag,
		Value: s.models.GetValue(name, tag),
	})
}

// decodeEvent converts a request body into the change payload a native
// control would report.
func decodeEvent(w http.ResponseWriter, r *http.Request) (widget.Event, int, error) {
	ctype, err := contenttype.GetMediaType(r)
	if err != nil {
		return widget.Event{}, http.StatusUnsupportedMediaType, errors.New("content-type is required")
	}

	switch {
	case ctype.Matches(jsonMediaType):
		var event widget.Event
		dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
		if err := dec.Decode(&event); err != nil {
			return widget.Event{}, http.StatusBadRequest, fmt.Errorf("decode body: %v", err)
		}
		return event, http.StatusOK, nil
	case ctype.Matches(formMediaType):
		if err := r.ParseForm(); err != nil {
			return widget.Event{}, http.StatusBadRequest, fmt.Errorf("parse form: %v", err)
		}
		var event widget.Event
		if r.PostForm.Has("value") {
			value := r.PostForm.Get("value")
			event.Value = &value
		}
		if r.PostForm.Has("checked") {
			checked, err := strconv.ParseBool(r.PostForm.Get("checked"))
			if err != nil {
				return widget.Event{}, http.StatusBadRequest, fmt.Errorf("checked: %v", err)
			}
			event.Checked = &checked
		}
		return event, http.StatusOK, nil
	default:
		return widget.Event{}, http.StatusUnsupportedMediaType, fmt.Errorf("unsupported content-type %q", ctype.String())
	}
}

type panelRow struct {
	Type        string `json:"type"`
	Widget      string `json:"widget"`
	Description string `json:"description"`
}

func (s *Server) handlePanel(w http.ResponseWriter, r *http.Request) {
	doc := s.docs.Document()

	var rows []panelRow
	for _, binding := range s.panel.Bindings() {
		var buf strings.Builder
		if err := binding.Render(&buf, s.widgets); err != nil {
			s.writeError(w, r, err)
			return
		}
		prop := doc.Props[binding.Name()]
		rows = append(rows, panelRow{
			Type:        string(prop.Type.Name),
			Widget:      buf.String(),
			Description: s.sanitizer.Sanitize(prop.Description),
		})
	}

	title := doc.DisplayName
	if title == "" {
		title = "Props"
	}
	data := map[string]any{
		"title":       title,
		"description": s.sanitizer.Sanitize(doc.Description),
		"rows":        rows,
	}
	if s.theme != nil {
		data["theme_name"] = s.theme.Theme
		data["theme_style"] = cssVarsStyle(s.theme.CSSVars)
	}

	page, err := s.pages.RenderTemplate("templates/panel.tmpl", data)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	out := []byte(page)
	if s.cfg.LiveReload {
		out = InjectLiveReload(out)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(out)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, docgen.ErrPropNotFound) {
		writeJSONError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.ErrorContext(r.Context(), "request.failed", slog.String("path", r.URL.Path), slog.String("err", err.Error()))
	writeJSONError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.DebugContext(r.Context(), "http.request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Int("status", rec.status),
			slog.Duration("duration", time.Since(start)),
		)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		name := key
		if !strings.HasPrefix(name, "--") {
			name = "--" + name
		}
		parts = append(parts, name+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
