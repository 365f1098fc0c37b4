package dataset

import (
	"math"
	"strconv"
)

// ColumnType is the declared type of a column. The string values are used
// verbatim in quality summaries.
type ColumnType string

const (
	Integer ColumnType = "integer"
	Float   ColumnType = "float"
	Text    ColumnType = "text"
)

// Numeric reports whether the column holds numbers.
func (t ColumnType) Numeric() bool { return t == Integer || t == Float }

// ValueKind tags a cell.
type ValueKind uint8

const (
	KindMissing ValueKind = iota
	KindText
	KindNumber
)

// Value is a single cell: missing, a string, or a number.
type Value struct {
	Kind ValueKind
	Str  string
	Num  float64
}

// Missing returns the missing cell.
func Missing() Value { return Value{} }

// TextValue wraps a string.
func TextValue(s string) Value { return Value{Kind: KindText, Str: s} }

// NumberValue wraps a number. NaN is stored as missing.
func NumberValue(f float64) Value {
	if math.IsNaN(f) {
		return Missing()
	}
	return Value{Kind: KindNumber, Num: f}
}

func (v Value) IsMissing() bool { return v.Kind == KindMissing }
func (v Value) IsNumber() bool  { return v.Kind == KindNumber }

// String returns the text representation of the cell. Missing cells render as "".
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Str
	case KindNumber:
		return FormatNumber(v.Num)
	default:
		return ""
	}
}

// FormatNumber renders integral values without a fractional part and everything
// else in the shortest form that round-trips.
func FormatNumber(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Column is a named, typed column.
type Column struct {
	Name string
	Type ColumnType
}

// Dataset is an ordered set of rows over named columns. Rows[i][j] belongs to Columns[j].
type Dataset struct {
	Name    string
	Columns []Column
	Rows    [][]Value
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int { return len(d.Rows) }

// NumCols returns the column count.
func (d *Dataset) NumCols() int { return len(d.Columns) }

// Index returns the position of the named column or -1.
func (d *Dataset) Index(name string) int {
	for i, c := range d.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// Has reports whether the named column exists.
func (d *Dataset) Has(name string) bool { return d.Index(name) >= 0 }

// ColumnNames lists column names in order.
func (d *Dataset) ColumnNames() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// ColumnValues returns the cells of the named column, or nil if absent.
func (d *Dataset) ColumnValues(name string) []Value {
	idx := d.Index(name)
	if idx < 0 {
		return nil
	}
	out := make([]Value, len(d.Rows))
	for i, row := range d.Rows {
		out[i] = row[idx]
	}
	return out
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{Name: d.Name, Columns: append([]Column(nil), d.Columns...)}
	out.Rows = make([][]Value, len(d.Rows))
	for i, row := range d.Rows {
		out.Rows[i] = append([]Value(nil), row...)
	}
	return out
}

// DropColumn removes the named column in place. It reports whether the column existed.
func (d *Dataset) DropColumn(name string) bool {
	idx := d.Index(name)
	if idx < 0 {
		return false
	}
	d.Columns = append(d.Columns[:idx], d.Columns[idx+1:]...)
	for i, row := range d.Rows {
		d.Rows[i] = append(row[:idx], row[idx+1:]...)
	}
	return true
}

// FilterRows keeps only rows for which keep returns true. It returns the number removed.
func (d *Dataset) FilterRows(keep func(row []Value) bool) int {
	kept := d.Rows[:0]
	for _, row := range d.Rows {
		if keep(row) {
			kept = append(kept, row)
		}
	}
	removed := len(d.Rows) - len(kept)
	// release dropped rows
	for i := len(kept); i < len(d.Rows); i++ {
		d.Rows[i] = nil
	}
	d.Rows = kept
	return removed
}

// NumericColumns lists the names of integer and float columns in order.
func (d *Dataset) NumericColumns() []string {
	var out []string
	for _, c := range d.Columns {
		if c.Type.Numeric() {
			out = append(out, c.Name)
		}
	}
	return out
}
