// Package server exposes the claim extraction pipeline over HTTP: document
// processing, portal upload staging, stored-claim queries, and XLSX export.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/medbridge/claimflow/internal/common"
	"github.com/medbridge/claimflow/internal/export"
	"github.com/medbridge/claimflow/internal/ingest"
	"github.com/medbridge/claimflow/internal/pipeline"
	"github.com/medbridge/claimflow/internal/repository"
)

// Server holds the HTTP handlers and their dependencies. Claims, exporter,
// and queue are optional; handlers that need a missing dependency answer 503.
type Server struct {
	cfg       *common.Config
	processor *pipeline.Processor
	claims    repository.ClaimRepository
	exporter  *export.Service
	queue     *ingest.Queue

	// onUpload runs after a pair lands in the upload directory, typically
	// kicking the portal worker. Nil means no worker is attached.
	onUpload func()

	logger *slog.Logger
}

func NewServer(cfg *common.Config, processor *pipeline.Processor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{cfg: cfg, processor: processor, logger: logger}
}

// WithClaims attaches the claim store and the XLSX exporter.
func (s *Server) WithClaims(claims repository.ClaimRepository) *Server {
	s.claims = claims
	s.exporter = export.NewService(claims, s.logger)
	return s
}

// WithQueue attaches the sqlite work-item queue used by the upload endpoint.
func (s *Server) WithQueue(q *ingest.Queue) *Server {
	s.queue = q
	return s
}

// WithUploadTrigger registers a callback fired after each staged upload.
func (s *Server) WithUploadTrigger(fn func()) *Server {
	s.onUpload = fn
	return s
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/healthz", s.handleHealth)
	r.Post("/documents", s.handleProcessDocument)
	r.Post("/upload", s.handleUpload)
	r.Get("/claims", s.handleListClaims)
	r.Get("/claims/export", s.handleExportClaims)
	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
