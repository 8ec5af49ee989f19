package report

import (
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"insight-engine-go/internal/analytics"
)

// WriteWorkbook exports the raw aggregate values as an XLSX workbook, one
// sheet per non-empty aggregate. The charts show shape, the workbook gives
// the exact numbers behind them.
func WriteWorkbook(path string, s analytics.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	first := true
	addSheet := func(name string, headers [2]string, rows [][2]any) error {
		if len(rows) == 0 {
			return nil
		}
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				return err
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			return err
		}
		if err := f.SetSheetRow(name, "A1", &[]any{headers[0], headers[1]}); err != nil {
			return err
		}
		for i, row := range rows {
			cell := "A" + strconv.Itoa(i+2)
			if err := f.SetSheetRow(name, cell, &[]any{row[0], row[1]}); err != nil {
				return err
			}
		}
		return nil
	}

	sheets := []struct {
		name    string
		headers [2]string
		rows    [][2]any
	}{
		{"Top Genres", [2]string{"Genre", "Count"}, entryRows(s.TopGenres)},
		{"Top Directors", [2]string{"Director", "Count"}, entryRows(s.TopDirectors)},
		{"Ratings", [2]string{"Rating", "Count"}, entryRows(s.RatingCounts)},
		{"Titles Per Year", [2]string{"Year", "Count"}, yearRows(s.TitlesPerYear)},
		{"Types", [2]string{"Type", "Count"}, entryRows(s.TypeCounts)},
		{"Avg Duration", [2]string{"Type", "Average Duration"}, meanRows(s.AvgDurationByType)},
	}
	for _, sh := range sheets {
		if err := addSheet(sh.name, sh.headers, sh.rows); err != nil {
			return fmt.Errorf("workbook sheet %s: %w", sh.name, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func entryRows(entries []analytics.Entry) [][2]any {
	out := make([][2]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, [2]any{e.Label, e.Count})
	}
	return out
}

func yearRows(entries []analytics.YearCount) [][2]any {
	out := make([][2]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, [2]any{e.Year, e.Count})
	}
	return out
}

func meanRows(entries []analytics.MeanEntry) [][2]any {
	out := make([][2]any, 0, len(entries))
	for _, e := range entries {
		out = append(out, [2]any{e.Label, e.Mean})
	}
	return out
}
