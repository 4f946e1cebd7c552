// Package preview serves a generated report and JSON queries over it.
package preview

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/trackboard/internal/report"
	"github.com/okian/trackboard/pkg/logger"
	"github.com/okian/trackboard/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout       = 10 * time.Second
	writeTimeout      = 10 * time.Second
	idleTimeout       = 60 * time.Second
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 30 * time.Second
)

// Server wires the preview routes over one immutable report.
type Server struct {
	logger logger.Logger

	pageHandler        *PageHandler
	recordsHandler     *RecordsHandler
	progressionHandler *ProgressionHandler
	eventsHandler      *EventsHandler
	healthHandler      *HealthHandler
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithLogger sets a custom logger for the server.
func WithLogger(logger logger.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a server for rep. page is the rendered HTML document.
func NewServer(rep report.Report, page []byte, opts ...Option) *Server {
	s := &Server{logger: logger.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	s.pageHandler = NewPageHandler(page)
	s.recordsHandler = NewRecordsHandler(rep)
	s.progressionHandler = NewProgressionHandler(rep)
	s.eventsHandler = NewEventsHandler(rep)
	s.healthHandler = NewHealthHandler(rep.RunID)
	return s
}

// Register attaches all preview routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/healthz", MetricsMiddleware(getOnly(s.healthHandler.HandleHealth), "healthz"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/api/records", MetricsMiddleware(getOnly(s.recordsHandler.HandleRecords), "records"))
	mux.HandleFunc("/api/progression", MetricsMiddleware(getOnly(s.progressionHandler.HandleProgression), "progression"))
	mux.HandleFunc("/api/events", MetricsMiddleware(getOnly(s.eventsHandler.HandleEvents), "events"))
	mux.HandleFunc("/openapi.yaml", getOnly(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		_, _ = w.Write(OpenAPI)
	}))
	mux.HandleFunc("/", MetricsMiddleware(getOnly(s.pageHandler.HandlePage), "page"))
}

// Handler returns a mux with every route registered.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	s.Register(ctx, mux)
	return mux
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(ctx),
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "starting preview server", logger.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return errors.Join(ErrServe, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "shutting down preview server...")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return errors.Join(ErrServe, err)
	}
	s.logger.Info(ctx, "preview server stopped")
	return nil
}

func getOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
			return
		}
		next(w, r)
	}
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}
