package charts

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/sirupsen/logrus"
	chart "github.com/wcharczuk/go-chart/v2"

	"insight-engine-go/internal/analytics"
)

// MetricOrder fixes the order charts appear in the documents and the file
// name each metric renders to.
var MetricOrder = []string{
	"top_genres",
	"top_directors",
	"rating_distribution",
	"titles_per_year",
	"type_count",
	"avg_movie_duration",
}

// Renderer writes one PNG per non-empty aggregate into a fixed directory,
// overwriting whatever the previous run left there.
type Renderer struct {
	dir string
	log *logrus.Entry
}

func NewRenderer(dir string, log *logrus.Entry) *Renderer {
	return &Renderer{dir: dir, log: log}
}

// RenderAll renders every non-empty aggregate and returns metric -> file
// path. Empty aggregates contribute nothing to the map.
func (r *Renderer) RenderAll(s analytics.Summary) (map[string]string, error) {
	out := map[string]string{}

	render := func(key string, graph renderable) error {
		path := filepath.Join(r.dir, key+".png")
		if err := r.writePNG(path, graph); err != nil {
			return fmt.Errorf("render %s: %w", key, err)
		}
		r.log.WithField("chart", key).Debug("chart rendered")
		out[key] = path
		return nil
	}

	if len(s.TopGenres) > 0 {
		if err := render("top_genres", barChart("Top 10 Genres", "Count", s.TopGenres)); err != nil {
			return nil, err
		}
	}
	if len(s.TopDirectors) > 0 {
		if err := render("top_directors", barChart("Top 10 Directors", "Count", s.TopDirectors)); err != nil {
			return nil, err
		}
	}
	if len(s.RatingCounts) > 0 {
		if err := render("rating_distribution", barChart("Rating Distribution", "Count", s.RatingCounts)); err != nil {
			return nil, err
		}
	}
	if len(s.TitlesPerYear) > 0 {
		if err := render("titles_per_year", yearTrend(s.TitlesPerYear)); err != nil {
			return nil, err
		}
	}
	if len(s.TypeCounts) > 0 {
		if err := render("type_count", barChart("Title Type Distribution", "Count", s.TypeCounts)); err != nil {
			return nil, err
		}
	}
	if len(s.AvgDurationByType) > 0 {
		if err := render("avg_movie_duration", meanBarChart("Average Duration by Type", "Average Duration", s.AvgDurationByType)); err != nil {
			return nil, err
		}
	}

	return out, nil
}

type renderable interface {
	Render(rp chart.RendererProvider, w io.Writer) error
}

func (r *Renderer) writePNG(path string, graph renderable) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := graph.Render(chart.PNG, f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func barChart(title, yLabel string, entries []analytics.Entry) renderable {
	bars := make([]chart.Value, 0, len(entries))
	for _, e := range entries {
		bars = append(bars, chart.Value{Label: e.Label, Value: float64(e.Count)})
	}
	return bars2(title, yLabel, bars)
}

func meanBarChart(title, yLabel string, entries []analytics.MeanEntry) renderable {
	bars := make([]chart.Value, 0, len(entries))
	for _, e := range entries {
		bars = append(bars, chart.Value{Label: e.Label, Value: e.Mean})
	}
	return bars2(title, yLabel, bars)
}

func bars2(title, yLabel string, bars []chart.Value) renderable {
	return &chart.BarChart{
		Title:    title,
		Width:    1024,
		Height:   640,
		BarWidth: 48,
		Background: chart.Style{
			Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.Shown(),
		YAxis: chart.YAxis{
			Name:  yLabel,
			Style: chart.Shown(),
		},
		Bars: bars,
	}
}

// yearTrend draws the per-year counts as a line with point markers. A line
// needs at least two points to span an x-range, so a single-year dataset
// falls back to a bar.
func yearTrend(points []analytics.YearCount) renderable {
	if len(points) < 2 {
		bars := make([]chart.Value, 0, len(points))
		for _, p := range points {
			bars = append(bars, chart.Value{Label: strconv.Itoa(p.Year), Value: float64(p.Count)})
		}
		return bars2("Titles Released per Year", "Number of Titles", bars)
	}

	xs := make([]float64, 0, len(points))
	ys := make([]float64, 0, len(points))
	for _, p := range points {
		xs = append(xs, float64(p.Year))
		ys = append(ys, float64(p.Count))
	}
	return &chart.Chart{
		Title:  "Titles Released per Year",
		Width:  1024,
		Height: 640,
		Background: chart.Style{
			Padding: chart.Box{Top: 48, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:  "Year",
			Style: chart.Shown(),
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return strconv.Itoa(int(f))
				}
				return fmt.Sprint(v)
			},
		},
		YAxis: chart.YAxis{
			Name:  "Number of Titles",
			Style: chart.Shown(),
		},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Style: chart.Style{
					StrokeWidth: 2.0,
					DotWidth:    4.0,
				},
				XValues: xs,
				YValues: ys,
			},
		},
	}
}
