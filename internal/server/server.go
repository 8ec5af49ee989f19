package server

import (
	"net/http"
	"sync"
	"time"

	"insight-engine-go/internal/config"
	"insight-engine-go/internal/logger"
	"insight-engine-go/internal/pipeline"
	"insight-engine-go/internal/store"
)

// Server is the HTTP gateway over the report pipeline. Pipeline runs are
// serialized by runMu: every stage reads and writes fixed-path files, so
// concurrent runs would clobber each other's artifacts.
type Server struct {
	cfg   config.Config
	pipe  *pipeline.Pipeline
	runs  *store.RunStore
	log   *logger.Logger
	runMu sync.Mutex
}

func New(cfg config.Config, pipe *pipeline.Pipeline, runs *store.RunStore, log *logger.Logger) *Server {
	return &Server{cfg: cfg, pipe: pipe, runs: runs, log: log}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("POST /ingest", s.handleIngest)
	mux.HandleFunc("POST /analyze", s.handleAnalyze)
	mux.HandleFunc("POST /generate-report", s.handleGenerateReport)
	mux.HandleFunc("GET /get-report/{kind}", s.handleGetReport)
	mux.HandleFunc("GET /runs/{id}", s.handleGetRun)

	return mux
}

// ListenAndServe blocks serving the gateway on the configured port.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         ":" + s.cfg.Port,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.log.WithField("addr", srv.Addr).Info("listening")
	return srv.ListenAndServe()
}
