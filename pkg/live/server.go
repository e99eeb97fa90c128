package live

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/vango-dev/vbind/internal/errors"
	"github.com/vango-dev/vbind/pkg/binding"
	"github.com/vango-dev/vbind/pkg/dom"
	"github.com/vango-dev/vbind/pkg/reactive"
	"github.com/vango-dev/vbind/pkg/telemetry"
	"go.opentelemetry.io/otel/trace"
)

// Page is the uncompiled state of one session.
type Page struct {
	Root    *dom.Node
	Store   *reactive.Store
	Methods binding.Methods
}

// Factory returns a fresh Page. It is called once per page load and once per
// session, so pages must not share trees or stores.
type Factory func(ctx context.Context) (*Page, error)

// Server serves a template to browsers and runs live sessions.
type Server struct {
	config   *Config
	factory  Factory
	upgrader websocket.Upgrader
	router   chi.Router
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session

	httpServer *http.Server
}

// New creates a Server. A nil config uses DefaultConfig.
func New(config *Config, factory Factory) *Server {
	if config == nil {
		config = DefaultConfig()
	}
	config.applyDefaults()

	s := &Server{
		config:  config,
		factory: factory,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		logger:   config.Logger.With("component", "live"),
		sessions: make(map[string]*Session),
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/", s.handlePage)
	r.Get("/ws", s.HandleWebSocket)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if s.config.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(s.config.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// compile builds and compiles a page.
func (s *Server) compile(ctx context.Context, source string) (*Page, *binding.View, error) {
	page, err := s.factory(ctx)
	if err != nil {
		return nil, nil, errors.New("E143").Wrap(err)
	}

	start := time.Now()
	var span trace.Span
	if s.config.Tracer != nil {
		_, span = s.config.Tracer.StartCompile(ctx, source)
	}
	diags := &binding.Collector{}
	view := s.config.Compiler.With(binding.WithDiagnostics(diags)).Compile(page.Root, page.Store, page.Methods)
	s.config.Metrics.ObserveCompile(time.Since(start))
	if span != nil {
		telemetry.EndCompile(span, view.Len(), diags.Len())
	}
	return page, view, nil
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	page, view, err := s.compile(r.Context(), "page")
	if err != nil {
		s.logger.Error("page factory failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	defer view.Dispose()

	var body strings.Builder
	if err := dom.RenderChildren(&body, page.Root, dom.RenderOptions{}); err != nil {
		s.logger.Error("page render failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := writePage(w, s.config.Title, body.String()); err != nil {
		s.logger.Error("page write failed", "error", err)
	}
}

// HandleWebSocket upgrades the request and runs a session until the client
// disconnects.
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("websocket upgrade failed", "error", errors.New("E140").Wrap(err))
		return
	}
	conn.SetReadLimit(s.config.MaxMessageSize)

	page, view, err := s.compile(r.Context(), "session")
	if err != nil {
		s.logger.Error("session factory failed", "error", err)
		conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "factory failed"),
			time.Now().Add(time.Second),
		)
		conn.Close()
		return
	}

	sess := newSession(newSessionID(), conn, page, view, s)
	s.register(sess)
	defer s.unregister(sess)

	if err := sess.mount(); err != nil {
		sess.logger.Error("mount failed", "error", err)
		sess.Close()
		return
	}
	go sess.WriteLoop()
	sess.ReadLoop()
}

func (s *Server) register(sess *Session) {
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	s.config.Metrics.SessionOpened()
	sess.logger.Info("session opened")
}

func (s *Server) unregister(sess *Session) {
	s.mu.Lock()
	_, ok := s.sessions[sess.ID]
	delete(s.sessions, sess.ID)
	s.mu.Unlock()
	if ok {
		s.config.Metrics.SessionClosed()
	}
}

// Broadcast runs fn against the store of every open session, each under its
// own session lock, and sends the resulting patches.
func (s *Server) Broadcast(fn func(store *reactive.Store)) {
	for _, sess := range s.snapshot() {
		if err := sess.Update(fn); err != nil {
			sess.logger.Debug("broadcast skipped", "error", err)
		}
	}
}

func (s *Server) snapshot() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*Session, 0, len(s.sessions))
	for _, sess := range s.sessions {
		out = append(out, sess)
	}
	return out
}

// SessionCount returns the number of open sessions.
func (s *Server) SessionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Run serves on the configured address until ctx is done, then shuts down
// gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpServer = &http.Server{
		Addr:              s.config.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "address", s.config.Addr)
		errCh <- s.httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != http.ErrServerClosed {
			return err
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("shutting down...")
		return s.Shutdown(context.Background())
	}
}

// Shutdown closes every session and stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	for _, sess := range s.snapshot() {
		sess.Close()
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
	}
	s.logger.Info("server shutdown complete")
	return nil
}

func newSessionID() string {
	b := make([]byte, 8)
	rand.Read(b)
	return hex.EncodeToString(b)
}
