// Package api implements the HTTP API server.
//
// The server exposes the derivation pipeline and the design store over REST:
//
//	GET    /healthz             liveness probe
//	GET    /v1/designs          list stored designs
//	GET    /v1/designs/{name}   fetch a stored design
//	PUT    /v1/designs/{name}   save a design
//	DELETE /v1/designs/{name}   delete a design
//	POST   /v1/strips           derive strips for a design
//	POST   /v1/export           render SVG cut-paths for a design
//
// The derivation endpoints accept either an inline design document or the
// name of a stored one. All responses are JSON; error responses carry the
// structured error code alongside the message.
package api

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/majjacz/Kumiko-Designer-sub000/pkg/pipeline"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/store"
)

// Server wires the pipeline runner and the design store into an HTTP API.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	logger *log.Logger
}

// NewServer creates a server. The store may be nil, in which case the
// design endpoints respond with 503 and the derivation endpoints only
// accept inline designs.
func NewServer(s store.Store, r *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{store: s, runner: r, logger: logger}
}

// Router builds the chi router with middleware and all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/designs", s.handleListDesigns)
		r.Get("/designs/{name}", s.handleGetDesign)
		r.Put("/designs/{name}", s.handlePutDesign)
		r.Delete("/designs/{name}", s.handleDeleteDesign)

		r.Post("/strips", s.handleStrips)
		r.Post("/export", s.handleExport)
	})

	return r
}

// requestLogger logs one line per request with status and timing.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
