package quality

import (
	"sort"

	"github.com/KaramelBytes/churneda-cli/internal/dataset"
)

// Summary is a snapshot of dataset shape, missingness and column types.
type Summary struct {
	Rows    int            `json:"rows"`
	Columns int            `json:"columns"`
	Missing []MissingCount `json:"missing_columns"`
	Types   []ColumnKind   `json:"dtypes"`
}

// MissingCount is the number of missing cells in one column.
type MissingCount struct {
	Column string `json:"column"`
	Count  int    `json:"count"`
}

// ColumnKind pairs a column with its type label.
type ColumnKind struct {
	Column string `json:"column"`
	Type   string `json:"type"`
}

// Summarize computes the quality summary of ds. Only columns with at least one
// missing value are listed, most missing first; ties keep column order.
func Summarize(ds *dataset.Dataset) Summary {
	s := Summary{Rows: ds.NumRows(), Columns: ds.NumCols()}
	counts := make([]int, ds.NumCols())
	for _, row := range ds.Rows {
		for j, v := range row {
			if v.IsMissing() {
				counts[j]++
			}
		}
	}
	for j, c := range ds.Columns {
		s.Types = append(s.Types, ColumnKind{Column: c.Name, Type: string(c.Type)})
		if counts[j] > 0 {
			s.Missing = append(s.Missing, MissingCount{Column: c.Name, Count: counts[j]})
		}
	}
	sort.SliceStable(s.Missing, func(i, j int) bool { return s.Missing[i].Count > s.Missing[j].Count })
	return s
}

// MissingMap returns the missing counts keyed by column.
func (s Summary) MissingMap() map[string]int {
	out := make(map[string]int, len(s.Missing))
	for _, m := range s.Missing {
		out[m.Column] = m.Count
	}
	return out
}

// TypeMap returns the type labels keyed by column.
func (s Summary) TypeMap() map[string]string {
	out := make(map[string]string, len(s.Types))
	for _, t := range s.Types {
		out[t.Column] = t.Type
	}
	return out
}
