// Package pipeline runs one full report generation pass: resolve the CSV,
// prepare features, aggregate, render charts, optionally summarize via the
// text-generation service, and assemble the documents.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"insight-engine-go/internal/analytics"
	"insight-engine-go/internal/charts"
	"insight-engine-go/internal/config"
	"insight-engine-go/internal/dataset"
	"insight-engine-go/internal/narrative"
	"insight-engine-go/internal/report"
)

const (
	PDFName      = "insight_report.pdf"
	PPTXName     = "insight_report.pptx"
	WorkbookName = "insight_aggregates.xlsx"
)

// Options selects the dataset and whether documents are assembled.
// GenerateFiles=false is the analyze-only mode: aggregates, charts and
// narrative, no PDF/PPTX/workbook.
type Options struct {
	Source        string
	GenerateFiles bool
}

// Bundle is the combined output of one run. NarrativeError carries the
// degraded-mode reason when the summary stage failed; the run itself still
// succeeds with an empty narrative.
type Bundle struct {
	RunID          string              `json:"run_id"`
	CSVPath        string              `json:"csv_path"`
	Rows           int                 `json:"rows"`
	Plots          map[string]string   `json:"plots"`
	Highlights     []string            `json:"highlights,omitempty"`
	Narrative      string              `json:"ai_summary"`
	NarrativeError string              `json:"ai_summary_error,omitempty"`
	PDFFile        string              `json:"pdf_file,omitempty"`
	PPTFile        string              `json:"ppt_file,omitempty"`
	WorkbookFile   string              `json:"workbook_file,omitempty"`
	Summary        analytics.Summary   `json:"summary"`
}

type Pipeline struct {
	cfg        config.Config
	renderer   *charts.Renderer
	summarizer narrative.Summarizer
	log        *logrus.Entry
}

func New(cfg config.Config, summarizer narrative.Summarizer, log *logrus.Entry) *Pipeline {
	return &Pipeline{
		cfg:        cfg,
		renderer:   charts.NewRenderer(cfg.ReportsDir, log),
		summarizer: summarizer,
		log:        log,
	}
}

// Run executes the pipeline once. Callers serialize invocations; every
// artifact lives under a fixed name and is overwritten per run.
func (p *Pipeline) Run(ctx context.Context, opts Options) (Bundle, error) {
	csvPath, err := dataset.Resolve(opts.Source, p.cfg.CurrentDatasetPath(), p.cfg.DefaultDatasetPath())
	if err != nil {
		return Bundle{}, err
	}
	log := p.log.WithField("csv_path", csvPath)
	log.Info("pipeline run starting")

	table, err := dataset.Load(csvPath)
	if err != nil {
		return Bundle{}, err
	}
	features := dataset.Prepare(table)
	summary := analytics.Summarize(table, features)

	plots, err := p.renderer.RenderAll(summary)
	if err != nil {
		return Bundle{}, err
	}
	log.WithField("charts", len(plots)).Info("charts rendered")

	b := Bundle{
		RunID:      uuid.New().String(),
		CSVPath:    csvPath,
		Rows:       table.Rows(),
		Plots:      plots,
		Highlights: analytics.Highlights(summary),
		Summary:    summary,
	}

	// The narrative stage never fails the run: any error degrades to an
	// empty summary with the reason surfaced on the bundle.
	if p.summarizer == nil {
		b.NarrativeError = "text-generation service not configured"
		log.Info("narrative stage disabled")
	} else if text, err := p.summarizer.Summarize(ctx, summary); err != nil {
		b.NarrativeError = err.Error()
		log.WithField("error", err.Error()).Warn("narrative generation failed, continuing without summary")
	} else {
		b.Narrative = text
	}

	if opts.GenerateFiles {
		if err := p.assemble(&b); err != nil {
			return Bundle{}, err
		}
		log.Info("documents assembled")
	}

	return b, nil
}

func (p *Pipeline) assemble(b *Bundle) error {
	pdfPath := filepath.Join(p.cfg.ReportsDir, PDFName)
	if err := report.WritePDF(pdfPath, p.cfg.ReportTitle, b.Narrative, b.Plots); err != nil {
		return fmt.Errorf("assemble pdf: %w", err)
	}
	b.PDFFile = pdfPath

	pptPath := filepath.Join(p.cfg.ReportsDir, PPTXName)
	if err := report.WritePPTX(pptPath, p.cfg.ReportTitle, b.Narrative, b.Plots); err != nil {
		return fmt.Errorf("assemble pptx: %w", err)
	}
	b.PPTFile = pptPath

	xlsxPath := filepath.Join(p.cfg.ReportsDir, WorkbookName)
	if err := report.WriteWorkbook(xlsxPath, b.Summary); err != nil {
		return fmt.Errorf("assemble workbook: %w", err)
	}
	b.WorkbookFile = xlsxPath
	return nil
}
