package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptyDataset is returned when a file has no data rows.
var ErrEmptyDataset = errors.New("loaded dataset is empty; check the input file")

// LoadOptions controls how files are read.
type LoadOptions struct {
	// Delimiter for CSV. If 0, picks '\t' for .tsv and ',' otherwise.
	Delimiter rune
	// SheetName selects an XLSX sheet. Empty means the first sheet.
	SheetName string
}

// missingTokens are cell contents read as missing values.
var missingTokens = map[string]struct{}{
	"":     {},
	"NA":   {},
	"N/A":  {},
	"NaN":  {},
	"nan":  {},
	"null": {},
	"NULL": {},
	"#N/A": {},
}

// Load reads a CSV, TSV or XLSX file into a Dataset and infers column types.
func Load(path string, opt LoadOptions) (*Dataset, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("dataset not found at %s: %w", path, err)
		}
		return nil, fmt.Errorf("stat dataset: %w", err)
	}
	var (
		header  []string
		records [][]string
		err     error
	)
	if strings.HasSuffix(strings.ToLower(path), ".xlsx") {
		header, records, err = readXLSX(path, opt.SheetName)
	} else {
		header, records, err = readCSV(path, opt.Delimiter)
	}
	if err != nil {
		return nil, err
	}
	if len(header) == 0 || len(records) == 0 {
		return nil, ErrEmptyDataset
	}
	return FromRecords(filepath.Base(path), header, records), nil
}

// FromRecords builds a Dataset from a header and raw string records. Short
// records are padded with missing cells, long ones truncated to the header width.
func FromRecords(name string, header []string, records [][]string) *Dataset {
	ncol := len(header)
	ds := &Dataset{Name: name, Columns: make([]Column, ncol)}
	for j, h := range header {
		ds.Columns[j] = Column{Name: h, Type: inferType(records, j)}
	}
	ds.Rows = make([][]Value, len(records))
	for i, rec := range records {
		row := make([]Value, ncol)
		for j := 0; j < ncol; j++ {
			raw := ""
			if j < len(rec) {
				raw = rec[j]
			}
			row[j] = parseCell(raw, ds.Columns[j].Type)
		}
		ds.Rows[i] = row
	}
	return ds
}

func isMissingToken(s string) bool {
	_, ok := missingTokens[s]
	return ok
}

// inferType decides the type of column j: numeric when every non-missing cell
// parses as a number, text otherwise.
func inferType(records [][]string, j int) ColumnType {
	integral := true
	missing := false
	for _, rec := range records {
		if j >= len(rec) || isMissingToken(rec[j]) {
			missing = true
			continue
		}
		f, err := strconv.ParseFloat(rec[j], 64)
		if err != nil {
			return Text
		}
		if f != math.Trunc(f) || math.IsInf(f, 0) {
			integral = false
		}
	}
	if integral && !missing {
		return Integer
	}
	return Float
}

func parseCell(raw string, t ColumnType) Value {
	if isMissingToken(raw) {
		return Missing()
	}
	if t.Numeric() {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return Missing()
		}
		return NumberValue(f)
	}
	return TextValue(raw)
}

func readCSV(path string, delim rune) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.Comma = delim

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, ErrEmptyDataset
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	header[0] = strings.TrimPrefix(header[0], utf8BOM)
	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, nil, fmt.Errorf("read row %d: %w", len(records)+1, err)
		}
		records = append(records, rec)
	}
	return header, records, nil
}

// utf8BOM prefixes the first header cell of many spreadsheet exports.
const utf8BOM = "\ufeff"

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func readXLSX(path, sheetName string) ([]string, [][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil, ErrEmptyDataset
	}
	sheet := sheets[0]
	if sheetName != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, sheetName) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, nil, fmt.Errorf("sheet '%s' not found in workbook '%s'.\nAvailable sheets: %s",
				sheetName, filepath.Base(path), strings.Join(sheets, ", "))
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, nil, ErrEmptyDataset
	}
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], utf8BOM)
	}
	return rows[0], rows[1:], nil
}
