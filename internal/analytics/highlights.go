package analytics

import "fmt"

// Highlights derives rule-based key findings from the aggregates. Unlike the
// narrative stage it needs no external service, so callers always get
// something to show even in fully degraded runs.
func Highlights(s Summary) []string {
	var out []string

	if len(s.TopGenres) > 0 {
		g := s.TopGenres[0]
		out = append(out, fmt.Sprintf("%s leads the catalog with %d titles", g.Label, g.Count))
	}

	if len(s.TypeCounts) > 0 {
		total := 0
		for _, e := range s.TypeCounts {
			total += e.Count
		}
		if total > 0 {
			t := s.TypeCounts[0]
			pct := float64(t.Count) / float64(total) * 100
			out = append(out, fmt.Sprintf("%s entries account for %.0f%% of the dataset", t.Label, pct))
		}
	}

	if len(s.TitlesPerYear) > 0 {
		best := s.TitlesPerYear[0]
		for _, y := range s.TitlesPerYear[1:] {
			if y.Count > best.Count {
				best = y
			}
		}
		out = append(out, fmt.Sprintf("Output peaked in %d with %d titles", best.Year, best.Count))
	}

	return out
}
