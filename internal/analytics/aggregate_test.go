package analytics

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"insight-engine-go/internal/dataset"
)

const twoRowFixture = `type,listed_in,rating,release_year,duration
Movie,"Drama, Comedy",PG-13,2020,90 min
TV Show,Drama,TV-MA,2021,2 Seasons
`

func summarizeFixture(t *testing.T, content string) Summary {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.csv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	table, err := dataset.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	return Summarize(table, dataset.Prepare(table))
}

func TestSummarize_TwoRowScenario(t *testing.T) {
	s := summarizeFixture(t, twoRowFixture)

	wantGenres := []Entry{{Label: "Drama", Count: 2}, {Label: "Comedy", Count: 1}}
	if !reflect.DeepEqual(s.TopGenres, wantGenres) {
		t.Fatalf("genres: want %v, got %v", wantGenres, s.TopGenres)
	}

	wantTypes := []Entry{{Label: "Movie", Count: 1}, {Label: "TV Show", Count: 1}}
	if !reflect.DeepEqual(s.TypeCounts, wantTypes) {
		t.Fatalf("types: want %v, got %v", wantTypes, s.TypeCounts)
	}

	wantDurations := []MeanEntry{{Label: "Movie", Mean: 90}, {Label: "TV Show", Mean: 2}}
	if !reflect.DeepEqual(s.AvgDurationByType, wantDurations) {
		t.Fatalf("durations: want %v, got %v", wantDurations, s.AvgDurationByType)
	}

	wantYears := []YearCount{{Year: 2020, Count: 1}, {Year: 2021, Count: 1}}
	if !reflect.DeepEqual(s.TitlesPerYear, wantYears) {
		t.Fatalf("years: want %v, got %v", wantYears, s.TitlesPerYear)
	}
}

func TestSummarize_MissingDirectorColumnOmitsAggregate(t *testing.T) {
	s := summarizeFixture(t, twoRowFixture)
	if len(s.TopDirectors) != 0 {
		t.Fatalf("expected no director aggregate, got %v", s.TopDirectors)
	}
}

func TestSummarize_MissingColumnsNeverFail(t *testing.T) {
	s := summarizeFixture(t, "title\nA\nB\n")
	if len(s.TopGenres) != 0 || len(s.RatingCounts) != 0 || len(s.TypeCounts) != 0 ||
		len(s.TitlesPerYear) != 0 || len(s.AvgDurationByType) != 0 {
		t.Fatalf("expected all aggregates empty, got %+v", s)
	}
}

func TestSummarize_TopNBoundedAndSorted(t *testing.T) {
	var b strings.Builder
	b.WriteString("director\n")
	for i := 0; i < 15; i++ {
		// director i appears i+1 times
		for j := 0; j <= i; j++ {
			fmt.Fprintf(&b, "Director %02d\n", i)
		}
	}
	s := summarizeFixture(t, b.String())

	if len(s.TopDirectors) != 10 {
		t.Fatalf("expected top 10, got %d entries", len(s.TopDirectors))
	}
	for i := 1; i < len(s.TopDirectors); i++ {
		if s.TopDirectors[i].Count > s.TopDirectors[i-1].Count {
			t.Fatalf("counts not non-increasing at %d: %v", i, s.TopDirectors)
		}
	}
	if s.TopDirectors[0].Label != "Director 14" || s.TopDirectors[0].Count != 15 {
		t.Fatalf("unexpected top entry: %+v", s.TopDirectors[0])
	}
}

func TestSummarize_Deterministic(t *testing.T) {
	a := summarizeFixture(t, twoRowFixture)
	b := summarizeFixture(t, twoRowFixture)
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("summaries differ across runs:\n%+v\n%+v", a, b)
	}
}

func TestHighlights(t *testing.T) {
	s := summarizeFixture(t, twoRowFixture)
	hl := Highlights(s)
	if len(hl) != 3 {
		t.Fatalf("expected 3 highlights, got %v", hl)
	}
	if !strings.Contains(hl[0], "Drama") {
		t.Fatalf("expected genre highlight, got %q", hl[0])
	}
}

func TestHighlights_EmptySummary(t *testing.T) {
	if hl := Highlights(Summary{}); len(hl) != 0 {
		t.Fatalf("expected no highlights for empty summary, got %v", hl)
	}
}
