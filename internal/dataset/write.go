package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV renders the dataset as comma-separated values with a header row.
// Missing cells are written empty.
func WriteCSV(w io.Writer, ds *Dataset) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(ds.ColumnNames()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	rec := make([]string, ds.NumCols())
	for i, row := range ds.Rows {
		for j, v := range row {
			rec[j] = v.String()
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
