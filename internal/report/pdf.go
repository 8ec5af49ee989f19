package report

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"insight-engine-go/internal/charts"
)

// WritePDF assembles the PDF report: centered title block, the narrative
// paragraph when one was produced, then each chart full width in the fixed
// metric order. The file is overwritten on every run.
func WritePDF(path, title, narrative string, plots map[string]string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, title, "", 1, "C", false, 0, "")
	pdf.Ln(10)

	if narrative != "" {
		tr := pdf.UnicodeTranslatorFromDescriptor("")
		pdf.SetFont("Arial", "", 12)
		pdf.MultiCell(0, 8, tr(narrative), "", "L", false)
		pdf.Ln(10)
	}

	opt := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: true}
	for _, key := range charts.MetricOrder {
		img, ok := plots[key]
		if !ok {
			continue
		}
		pdf.ImageOptions(img, 15, -1, 180, 0, true, opt, 0, "")
		pdf.Ln(8)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
