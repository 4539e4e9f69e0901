package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"reelchat/internal/catalog"
	"reelchat/internal/logging"
	"reelchat/internal/recommend"
)

// Engine is the conversational pipeline the server fronts.
type Engine interface {
	Respond(ctx context.Context, messages []recommend.Message) (*recommend.Result, error)
}

// Detailer fetches a single title record from the catalog.
type Detailer interface {
	Details(ctx context.Context, kind catalog.MediaKind, id int64) (catalog.Item, error)
}

// ReadyChecker reports whether startup-loaded state is available.
type ReadyChecker interface {
	Ready() bool
}

// Server hosts the HTTP surface over the engine and catalog.
type Server struct {
	bind        string
	corsOrigins []string
	logger      *slog.Logger
	engine      Engine
	details     Detailer
	genres      ReadyChecker

	listener net.Listener
	server   *http.Server
}

// New builds a server bound to the given address. corsOrigins may be empty,
// which disables cross-origin access.
func New(bind string, corsOrigins []string, engine Engine, details Detailer, genres ReadyChecker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	srv := &Server{
		bind:        strings.TrimSpace(bind),
		corsOrigins: corsOrigins,
		logger:      logger.With(logging.String(logging.FieldComponent, "api-server")),
		engine:      engine,
		details:     details,
		genres:      genres,
	}
	srv.server = &http.Server{
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return srv
}

// Handler exposes the routing tree, primarily for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(s.requestID)
	if len(s.corsOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.corsOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders: []string{"Content-Type"},
			MaxAge:         300,
		}))
	}
	r.Post("/respond", s.handleRespond)
	r.Get("/title/{kind}/{id}", s.handleTitle)
	r.Get("/healthz", s.handleHealthz)
	return r
}

// Start begins serving and arranges shutdown when ctx is canceled.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.server.Shutdown(shutdownCtx)
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

// Stop shuts the server down, draining in-flight requests briefly.
func (s *Server) Stop() {
	if s == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.server.Shutdown(shutdownCtx)
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
}

func (s *Server) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(recommend.ContextWithRequestID(r.Context(), id)))
	})
}
