// Package cleaning normalizes a raw churn dataset: header and value trimming,
// duplicate and identifier removal, numeric coercion and target validation.
package cleaning

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/KaramelBytes/churneda-cli/internal/dataset"
)

// Canonical target labels.
const (
	Positive = "Yes"
	Negative = "No"
)

// Options names the columns the cleaner treats specially.
type Options struct {
	TargetColumn      string
	IDColumns         []string
	NumericTextColumn string
}

// Stats counts what cleaning changed.
type Stats struct {
	RowsIn            int `json:"rows_in"`
	RowsOut           int `json:"rows_out"`
	DuplicatesDropped int `json:"duplicates_dropped"`
	IDColumnsDropped  int `json:"id_columns_dropped"`
	CoercedToMissing  int `json:"coerced_to_missing"`
	InvalidTargetRows int `json:"invalid_target_rows"`
}

// MissingColumnError indicates a required column is absent after cleaning.
type MissingColumnError struct {
	Column    string
	Available []string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("target column '%s' not found in dataset columns: %s", e.Column, strings.Join(e.Available, ", "))
}

// labelMap is checked in order; the first matching variant wins.
var labelMap = []struct{ from, to string }{
	{"yes", Positive},
	{"no", Negative},
	{"1", Positive},
	{"0", Negative},
	{"True", Positive},
	{"False", Negative},
}

// NormalizeLabel maps a target label variant to its canonical form. Unknown
// values come back unchanged.
func NormalizeLabel(s string) string {
	for _, m := range labelMap {
		if s == m.from {
			return m.to
		}
	}
	return s
}

// Clean returns a cleaned copy of ds. The input is not modified.
func Clean(ds *dataset.Dataset, opt Options) (*dataset.Dataset, error) {
	out, _, err := CleanWithStats(ds, opt)
	return out, err
}

// CleanWithStats is Clean plus a count of what was dropped or coerced.
// The steps run in a fixed order: duplicates are detected on raw values,
// before any trimming.
func CleanWithStats(ds *dataset.Dataset, opt Options) (*dataset.Dataset, Stats, error) {
	st := Stats{RowsIn: ds.NumRows()}
	out := ds.Clone()

	for i := range out.Columns {
		out.Columns[i].Name = strings.TrimSpace(out.Columns[i].Name)
	}
	st.DuplicatesDropped = dropDuplicates(out)
	trimText(out)

	for _, c := range opt.IDColumns {
		if out.DropColumn(c) {
			st.IDColumnsDropped++
		}
	}
	if opt.NumericTextColumn != "" && out.Has(opt.NumericTextColumn) {
		st.CoercedToMissing = coerceNumeric(out, opt.NumericTextColumn)
	}

	ti := out.Index(opt.TargetColumn)
	if ti < 0 {
		return nil, st, &MissingColumnError{Column: opt.TargetColumn, Available: out.ColumnNames()}
	}
	for _, row := range out.Rows {
		v := row[ti]
		if v.IsMissing() {
			continue
		}
		row[ti] = dataset.TextValue(NormalizeLabel(v.String()))
	}
	out.Columns[ti].Type = dataset.Text
	st.InvalidTargetRows = out.FilterRows(func(row []dataset.Value) bool {
		v := row[ti]
		return v.Kind == dataset.KindText && (v.Str == Positive || v.Str == Negative)
	})
	st.RowsOut = out.NumRows()
	return out, st, nil
}

// dropDuplicates keeps the first occurrence of each exact row.
func dropDuplicates(ds *dataset.Dataset) int {
	seen := make(map[string]struct{}, len(ds.Rows))
	return ds.FilterRows(func(row []dataset.Value) bool {
		k := rowKey(row)
		if _, ok := seen[k]; ok {
			return false
		}
		seen[k] = struct{}{}
		return true
	})
}

func rowKey(row []dataset.Value) string {
	var b strings.Builder
	for _, v := range row {
		switch v.Kind {
		case dataset.KindMissing:
			b.WriteByte('m')
		case dataset.KindNumber:
			b.WriteByte('n')
			b.WriteString(strconv.FormatFloat(v.Num, 'g', -1, 64))
		default:
			b.WriteByte('s')
			b.WriteString(strconv.Itoa(len(v.Str)))
			b.WriteByte(':')
			b.WriteString(v.Str)
		}
		b.WriteByte('\x1f')
	}
	return b.String()
}

// trimText trims every value of every text column. Numbers that ended up in a
// text column are converted to their string form first.
func trimText(ds *dataset.Dataset) {
	for j, c := range ds.Columns {
		if c.Type != dataset.Text {
			continue
		}
		for _, row := range ds.Rows {
			if row[j].IsMissing() {
				continue
			}
			row[j] = dataset.TextValue(strings.TrimSpace(row[j].String()))
		}
	}
}

// coerceNumeric parses the named column as numbers. Unparseable cells become
// missing. It returns how many non-missing cells were lost.
func coerceNumeric(ds *dataset.Dataset, name string) int {
	j := ds.Index(name)
	if ds.Columns[j].Type.Numeric() {
		return 0
	}
	lost := 0
	for _, row := range ds.Rows {
		v := row[j]
		if v.IsMissing() {
			continue
		}
		f, ok := ParseNumber(v.String())
		if !ok {
			row[j] = dataset.Missing()
			lost++
			continue
		}
		row[j] = dataset.NumberValue(f)
	}
	ds.Columns[j].Type = dataset.Float
	return lost
}

// ParseNumber parses a decimal number, tolerating surrounding whitespace.
// Blank or malformed input reports false.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
