package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"insight-engine-go/internal/dataset"
	"insight-engine-go/internal/pipeline"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	s.log.WithRequest(r).Info("liveness check")
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Automated Insight Engine API is running.",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	fmt.Fprint(w, "ok")
}

// handleUpload stores a multipart CSV under its original name and copies it
// into the current-dataset slot. Non-CSV uploads are rejected before
// anything touches the filesystem.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "upload")

	file, header, err := r.FormFile("file")
	if err != nil {
		reqLog.WithField("error", err.Error()).Warn("missing multipart file")
		writeError(w, http.StatusBadRequest, "multipart form must carry a 'file' field")
		return
	}
	defer file.Close()

	name := filepath.Base(header.Filename)
	if !strings.EqualFold(filepath.Ext(name), ".csv") {
		reqLog.WithField("filename", name).Warn("rejected non-csv upload")
		writeError(w, http.StatusBadRequest, "Only CSV files are supported for now.")
		return
	}

	dest := filepath.Join(s.cfg.UploadsDir, name)
	if err := writeStream(dest, file); err != nil {
		reqLog.WithField("error", err.Error()).Error("store upload failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	current := s.cfg.CurrentDatasetPath()
	if err := copyFile(dest, current); err != nil {
		reqLog.WithField("error", err.Error()).Error("set current dataset failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.runs.SetCurrent(current)

	reqLog.WithField("uploaded_path", dest).Info("upload stored")
	writeJSON(w, http.StatusOK, map[string]string{
		"message":         "File uploaded successfully.",
		"uploaded_path":   dest,
		"current_dataset": current,
	})
}

// handleIngest copies a server-local CSV into the current-dataset slot and
// reports its row count. A missing path leaves the slot untouched.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "ingest")

	path := r.URL.Query().Get("path")
	if path == "" {
		writeError(w, http.StatusBadRequest, "missing 'path' query parameter")
		return
	}
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		reqLog.WithField("path", path).Warn("ingest path not found")
		writeError(w, http.StatusNotFound, fmt.Sprintf("File not found: %s", path))
		return
	}

	current := s.cfg.CurrentDatasetPath()
	if err := copyFile(path, current); err != nil {
		reqLog.WithField("error", err.Error()).Error("ingest copy failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.runs.SetCurrent(current)

	table, err := dataset.Load(current)
	if err != nil {
		reqLog.WithField("error", err.Error()).Error("ingested dataset unreadable")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	reqLog.WithField("rows", table.Rows()).Info("ingestion complete")
	writeJSON(w, http.StatusOK, map[string]any{
		"message":         "Ingestion successful.",
		"rows":            table.Rows(),
		"current_dataset": current,
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	s.runPipeline(w, r, "analyze", pipeline.Options{
		Source:        r.URL.Query().Get("source"),
		GenerateFiles: false,
	})
}

func (s *Server) handleGenerateReport(w http.ResponseWriter, r *http.Request) {
	s.runPipeline(w, r, "generate-report", pipeline.Options{
		Source:        r.URL.Query().Get("source"),
		GenerateFiles: true,
	})
}

func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request, handler string, opts pipeline.Options) {
	reqLog := s.log.WithRequest(r).WithField("handler", handler)
	reqLog.Info("pipeline request received")

	// One run at a time: every stage writes fixed-path artifacts.
	s.runMu.Lock()
	defer s.runMu.Unlock()

	started := time.Now()
	bundle, err := s.pipe.Run(r.Context(), opts)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, fs.ErrNotExist) {
			status = http.StatusNotFound
		}
		reqLog.WithField("error", err.Error()).Error("pipeline run failed")
		writeError(w, status, err.Error())
		return
	}
	s.runs.Save(bundle, started)

	reqLog.WithFields(logrus.Fields{
		"run_id":      bundle.RunID,
		"duration_ms": time.Since(started).Milliseconds(),
	}).Info("pipeline run finished")

	msg := "Analysis completed."
	if opts.GenerateFiles {
		msg = "Report generated successfully."
	}
	writeJSON(w, http.StatusOK, struct {
		Message string `json:"message"`
		pipeline.Bundle
	}{Message: msg, Bundle: bundle})
}

// handleGetReport streams back a previously generated document by fixed
// name; 404 until the first generate-report run produced it.
func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	reqLog := s.log.WithRequest(r).WithField("handler", "get-report")

	var name, contentType string
	switch kind := r.PathValue("kind"); kind {
	case "pdf":
		name = pipeline.PDFName
		contentType = "application/pdf"
	case "pptx":
		name = pipeline.PPTXName
		contentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"
	case "xlsx":
		name = pipeline.WorkbookName
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown report type: %s", kind))
		return
	}

	path := filepath.Join(s.cfg.ReportsDir, name)
	if _, err := os.Stat(path); err != nil {
		reqLog.WithField("path", path).Warn("report not yet generated")
		writeError(w, http.StatusNotFound, fmt.Sprintf("%s report not found. Generate it first.", strings.ToUpper(r.PathValue("kind"))))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	http.ServeFile(w, r, path)
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, ok := s.runs.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("unknown run: %s", id))
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"detail": msg})
}

func writeStream(dest string, r io.Reader) error {
	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", dest, err)
	}
	return f.Close()
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()
	return writeStream(dest, in)
}
