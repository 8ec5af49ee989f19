package analytics

import (
	"math"
	"sort"
	"strings"

	"insight-engine-go/internal/dataset"
)

const topN = 10

// Entry is one label with its row count.
type Entry struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MeanEntry is one label with a mean value.
type MeanEntry struct {
	Label string  `json:"label"`
	Mean  float64 `json:"mean"`
}

// YearCount is one point of the per-year trend.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Summary holds the six descriptive aggregates. Each slice is empty when its
// source column is absent from the dataset or carries no usable values.
type Summary struct {
	TopGenres         []Entry     `json:"top_genres"`
	TopDirectors      []Entry     `json:"top_directors"`
	RatingCounts      []Entry     `json:"rating_counts"`
	TitlesPerYear     []YearCount `json:"titles_per_year"`
	TypeCounts        []Entry     `json:"type_counts"`
	AvgDurationByType []MeanEntry `json:"avg_duration_by_type"`
}

// Summarize computes every aggregate independently. Missing columns are
// skipped, never errors. Ordering is deterministic: count descending with
// label ascending on ties (the year trend ascends by year), so reruns over
// the same dataset produce identical output.
func Summarize(t *dataset.Table, f dataset.Features) Summary {
	return Summary{
		TopGenres:         topGenres(t),
		TopDirectors:      top(countColumn(t, "director"), topN),
		RatingCounts:      countColumn(t, "rating"),
		TitlesPerYear:     titlesPerYear(f),
		TypeCounts:        countColumn(t, "type"),
		AvgDurationByType: avgDurationByType(t, f),
	}
}

// topGenres splits the multi-value listed_in column on commas and counts
// individual genres across all rows.
func topGenres(t *dataset.Table) []Entry {
	col, ok := t.Column("listed_in")
	if !ok {
		return nil
	}
	counts := map[string]int{}
	for _, cell := range col {
		if dataset.IsMissing(cell) {
			continue
		}
		for _, g := range strings.Split(cell, ",") {
			g = strings.TrimSpace(g)
			if g != "" {
				counts[g]++
			}
		}
	}
	return top(sortedEntries(counts), topN)
}

// countColumn counts the non-missing values of a single-value column.
func countColumn(t *dataset.Table, name string) []Entry {
	col, ok := t.Column(name)
	if !ok {
		return nil
	}
	counts := map[string]int{}
	for _, cell := range col {
		if dataset.IsMissing(cell) {
			continue
		}
		counts[strings.TrimSpace(cell)]++
	}
	return sortedEntries(counts)
}

func titlesPerYear(f dataset.Features) []YearCount {
	counts := map[int]int{}
	for _, y := range f.ReleaseYear {
		if math.IsNaN(y) {
			continue
		}
		counts[int(y)]++
	}
	out := make([]YearCount, 0, len(counts))
	for y, c := range counts {
		out = append(out, YearCount{Year: y, Count: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out
}

func avgDurationByType(t *dataset.Table, f dataset.Features) []MeanEntry {
	col, ok := t.Column("type")
	if !ok {
		return nil
	}
	sums := map[string]float64{}
	counts := map[string]int{}
	for i, cell := range col {
		if i >= len(f.DurationNum) || math.IsNaN(f.DurationNum[i]) || dataset.IsMissing(cell) {
			continue
		}
		key := strings.TrimSpace(cell)
		sums[key] += f.DurationNum[i]
		counts[key]++
	}
	labels := make([]string, 0, len(sums))
	for k := range sums {
		labels = append(labels, k)
	}
	sort.Strings(labels)
	out := make([]MeanEntry, 0, len(labels))
	for _, l := range labels {
		out = append(out, MeanEntry{Label: l, Mean: sums[l] / float64(counts[l])})
	}
	return out
}

func sortedEntries(counts map[string]int) []Entry {
	out := make([]Entry, 0, len(counts))
	for k, v := range counts {
		out = append(out, Entry{Label: k, Count: v})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Label < out[j].Label
	})
	return out
}

func top(entries []Entry, n int) []Entry {
	if len(entries) > n {
		return entries[:n]
	}
	return entries
}
