package dataset

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

// Table is a schema-less view over a CSV file. Columns are probed by
// trimmed header name and reported absent instead of erroring, so the
// aggregation stages can skip whatever the dataset does not carry.
type Table struct {
	df    dataframe.DataFrame
	names map[string]string // trimmed header -> header as read
}

// Load reads a CSV into memory. Every column is kept as strings; numeric
// coercion happens later, per derived feature, so one bad cell never fails
// the load.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	df := dataframe.ReadCSV(f,
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String))
	if df.Err != nil {
		return nil, fmt.Errorf("read csv %s: %w", path, df.Err)
	}

	names := make(map[string]string, len(df.Names()))
	for _, n := range df.Names() {
		trimmed := strings.TrimSpace(n)
		if _, ok := names[trimmed]; !ok {
			names[trimmed] = n
		}
	}
	return &Table{df: df, names: names}, nil
}

// Rows reports the number of data rows.
func (t *Table) Rows() int {
	return t.df.Nrow()
}

// HasColumn probes for a column by trimmed header name.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.names[name]
	return ok
}

// Column returns the raw cells of a column, or false when the dataset does
// not carry it.
func (t *Table) Column(name string) ([]string, bool) {
	actual, ok := t.names[name]
	if !ok {
		return nil, false
	}
	col := t.df.Col(actual)
	if col.Err != nil {
		return nil, false
	}
	return col.Records(), true
}

// IsMissing reports whether a raw cell holds no usable value. gota renders
// NA cells as "NaN" in string records; empty cells stay empty.
func IsMissing(cell string) bool {
	switch strings.TrimSpace(cell) {
	case "", "NaN", "NA", "<nil>":
		return true
	}
	return false
}
