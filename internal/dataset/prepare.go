package dataset

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

var leadingInt = regexp.MustCompile(`\d+`)

// Features holds the derived numeric columns the aggregates consume.
// Missing values are NaN so downstream means can drop them per row.
type Features struct {
	DurationNum []float64
	ReleaseYear []float64
}

// Prepare derives the numeric duration and release year columns. Absent
// source columns yield all-missing features; unparsable cells yield missing
// values for their row. Prepare never fails a run.
func Prepare(t *Table) Features {
	n := t.Rows()
	f := Features{
		DurationNum: allNaN(n),
		ReleaseYear: allNaN(n),
	}

	if col, ok := t.Column("duration"); ok {
		for i, cell := range col {
			if IsMissing(cell) {
				continue
			}
			// "90 min" -> 90, "2 Seasons" -> 2
			if m := leadingInt.FindString(cell); m != "" {
				if v, err := strconv.ParseFloat(m, 64); err == nil {
					f.DurationNum[i] = v
				}
			}
		}
	}

	if col, ok := t.Column("release_year"); ok {
		for i, cell := range col {
			if IsMissing(cell) {
				continue
			}
			if v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
				f.ReleaseYear[i] = v
			}
		}
	}

	return f
}

func allNaN(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
