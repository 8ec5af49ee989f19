package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// Config carries every path and credential the pipeline touches.
// Paths are injected rather than read from package-level constants so
// tests can point a whole service instance at a temp directory.
type Config struct {
	Port string

	// Directory layout: raw uploads, datasets (current + bundled default),
	// and generated report artifacts.
	UploadsDir string
	DataDir    string
	ReportsDir string

	// DefaultDataset is the bundled fallback file name inside DataDir.
	DefaultDataset string

	// ReportTitle heads the PDF and the summary slide.
	ReportTitle string

	// Text-generation service. Empty APIKey disables the narrative stage.
	OpenAIAPIKey  string
	OpenAIBaseURL string
	SummaryModel  string
}

// Load builds a Config from the environment. Callers load .env beforehand
// (godotenv in main); Load itself only reads os.Getenv so tests can set
// values directly.
func Load() Config {
	return Config{
		Port:           envOr("PORT", "8080"),
		UploadsDir:     envOr("UPLOADS_DIR", "uploads"),
		DataDir:        envOr("DATA_DIR", "data"),
		ReportsDir:     envOr("REPORTS_DIR", "reports"),
		DefaultDataset: envOr("DEFAULT_DATASET", "netflix_titles.csv"),
		ReportTitle:    envOr("REPORT_TITLE", "Automated Insight Report"),
		OpenAIAPIKey:   os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:  os.Getenv("OPENAI_BASE_URL"),
		SummaryModel:   envOr("SUMMARY_MODEL", "gpt-4o-mini"),
	}
}

// EnsureDirs creates the uploads, data and reports directories.
func (c Config) EnsureDirs() error {
	for _, d := range []string{c.UploadsDir, c.DataDir, c.ReportsDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("mkdir %s: %w", d, err)
		}
	}
	return nil
}

// CurrentDatasetPath is the slot upload/ingest write into.
func (c Config) CurrentDatasetPath() string {
	return filepath.Join(c.DataDir, "current_dataset.csv")
}

// DefaultDatasetPath is the bundled fallback dataset.
func (c Config) DefaultDatasetPath() string {
	return filepath.Join(c.DataDir, c.DefaultDataset)
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
