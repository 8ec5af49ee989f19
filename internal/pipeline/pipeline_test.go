package pipeline

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"insight-engine-go/internal/analytics"
	"insight-engine-go/internal/config"
	"insight-engine-go/internal/logger"
)

const fixtureCSV = `type,listed_in,rating,release_year,duration
Movie,"Drama, Comedy",PG-13,2020,90 min
TV Show,Drama,TV-MA,2021,2 Seasons
`

func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.Config{
		UploadsDir:     filepath.Join(root, "uploads"),
		DataDir:        filepath.Join(root, "data"),
		ReportsDir:     filepath.Join(root, "reports"),
		DefaultDataset: "default.csv",
		ReportTitle:    "Test Report",
	}
	if err := cfg.EnsureDirs(); err != nil {
		t.Fatalf("ensure dirs: %v", err)
	}
	if err := os.WriteFile(cfg.DefaultDatasetPath(), []byte(fixtureCSV), 0o644); err != nil {
		t.Fatalf("write default dataset: %v", err)
	}
	return cfg
}

func newTestPipeline(cfg config.Config) *Pipeline {
	return New(cfg, nil, logger.New().WithComponent("pipeline"))
}

func TestRun_AnalyzeOnly(t *testing.T) {
	cfg := testConfig(t)
	b, err := newTestPipeline(cfg).Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if b.RunID == "" {
		t.Fatal("expected a run id")
	}
	if b.CSVPath != cfg.DefaultDatasetPath() {
		t.Fatalf("expected default dataset, got %s", b.CSVPath)
	}
	if b.Rows != 2 {
		t.Fatalf("expected 2 rows, got %d", b.Rows)
	}
	if b.PDFFile != "" || b.PPTFile != "" || b.WorkbookFile != "" {
		t.Fatalf("analyze-only run should not assemble documents: %+v", b)
	}
	if _, ok := b.Plots["top_genres"]; !ok {
		t.Fatalf("expected top_genres chart, got %v", b.Plots)
	}
	if _, ok := b.Plots["top_directors"]; ok {
		t.Fatal("no director column, so no top_directors chart")
	}
}

func TestRun_GenerateFiles(t *testing.T) {
	cfg := testConfig(t)
	b, err := newTestPipeline(cfg).Run(context.Background(), Options{GenerateFiles: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	for _, path := range []string{b.PDFFile, b.PPTFile, b.WorkbookFile} {
		if path == "" {
			t.Fatalf("missing document path in bundle: %+v", b)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatalf("stat %s: %v", path, err)
		}
		if info.Size() == 0 {
			t.Fatalf("document %s is empty", path)
		}
	}
}

func TestRun_NarrativeDegradesToEmpty(t *testing.T) {
	cfg := testConfig(t)
	b, err := newTestPipeline(cfg).Run(context.Background(), Options{GenerateFiles: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if b.Narrative != "" {
		t.Fatalf("expected empty narrative, got %q", b.Narrative)
	}
	if b.NarrativeError == "" {
		t.Fatal("expected a degraded-mode reason")
	}
}

func TestRun_FailingSummarizerDoesNotFailRun(t *testing.T) {
	cfg := testConfig(t)
	p := New(cfg, failingSummarizer{}, logger.New().WithComponent("pipeline"))
	b, err := p.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if b.Narrative != "" || b.NarrativeError != "service exploded" {
		t.Fatalf("unexpected narrative state: %q / %q", b.Narrative, b.NarrativeError)
	}
}

type failingSummarizer struct{}

func (failingSummarizer) Summarize(context.Context, analytics.Summary) (string, error) {
	return "", errors.New("service exploded")
}

func TestRun_ExplicitSourcePrecedence(t *testing.T) {
	cfg := testConfig(t)
	explicit := filepath.Join(cfg.DataDir, "other.csv")
	if err := os.WriteFile(explicit, []byte("type\nMovie\n"), 0o644); err != nil {
		t.Fatalf("write explicit: %v", err)
	}

	b, err := newTestPipeline(cfg).Run(context.Background(), Options{Source: explicit})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if b.CSVPath != explicit {
		t.Fatalf("expected explicit source %s, got %s", explicit, b.CSVPath)
	}
	if b.Rows != 1 {
		t.Fatalf("expected 1 row, got %d", b.Rows)
	}
}

func TestRun_RerunProducesIdenticalCharts(t *testing.T) {
	cfg := testConfig(t)
	p := newTestPipeline(cfg)

	first, err := p.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	snapshots := map[string][]byte{}
	for key, path := range first.Plots {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		snapshots[key] = data
	}

	second, err := p.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	for key, path := range second.Plots {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatalf("read %s: %v", path, err)
		}
		if !bytes.Equal(snapshots[key], data) {
			t.Fatalf("chart %s differs between reruns", key)
		}
	}
}
