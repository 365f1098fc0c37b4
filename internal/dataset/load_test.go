package dataset

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoadCSVInfersTypes(t *testing.T) {
	p := writeFile(t, "telco.csv", strings.Join([]string{
		"customerID,tenure,MonthlyCharges,TotalCharges,Churn",
		"0001, 1,29.85,29.85,No",
		"0002,34,56.95, ,Yes",
		"0003,2,,108.15, Yes ",
	}, "\n"))

	ds, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "telco.csv", ds.Name)
	assert.Equal(t, 3, ds.NumRows())

	types := map[string]ColumnType{}
	for _, c := range ds.Columns {
		types[c.Name] = c.Type
	}
	assert.Equal(t, Integer, types["customerID"])
	// " 1" does not parse as a number, so tenure stays text.
	assert.Equal(t, Text, types["tenure"])
	assert.Equal(t, Float, types["MonthlyCharges"])
	assert.Equal(t, Text, types["TotalCharges"])
	assert.Equal(t, Text, types["Churn"])

	// raw strings are preserved for text columns
	assert.Equal(t, " Yes ", ds.Rows[2][4].Str)
	assert.True(t, ds.Rows[2][2].IsMissing())
	assert.Equal(t, " ", ds.Rows[1][3].Str)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"), LoadOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
	assert.Contains(t, err.Error(), "dataset not found at")
}

func TestLoadEmptyDataset(t *testing.T) {
	for name, content := range map[string]string{
		"empty.csv":  "",
		"header.csv": "customerID,Churn\n",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeFile(t, name, content), LoadOptions{})
			assert.ErrorIs(t, err, ErrEmptyDataset)
		})
	}
}

func TestLoadTSVAndShortRecords(t *testing.T) {
	p := writeFile(t, "data.tsv", "a\tb\tc\n1\tx\n2\ty\t3\n")
	ds, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	require.Equal(t, 2, ds.NumRows())
	assert.True(t, ds.Rows[0][2].IsMissing())
	assert.Equal(t, Float, ds.Columns[2].Type)
	assert.Equal(t, Integer, ds.Columns[0].Type)
}

func TestLoadStripsBOM(t *testing.T) {
	ds, err := Load(writeFile(t, "bom.csv", "\ufeffcustomerID,Churn\n1,Yes\n2,No\n"), LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"customerID", "Churn"}, ds.ColumnNames())
	assert.True(t, ds.Has("customerID"))

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "\ufeffChurn"))
	require.NoError(t, f.SetCellValue("Sheet1", "B1", "x"))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", "Yes"))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 1))
	p := filepath.Join(t.TempDir(), "bom.xlsx")
	require.NoError(t, f.SaveAs(p))

	ds, err = Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Churn", "x"}, ds.ColumnNames())
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	cells := [][]any{
		{"customerID", "tenure", "Churn"},
		{"A-1", 12, "Yes"},
		{"A-2", 3, "No"},
	}
	for r, row := range cells {
		for c, v := range row {
			name, err := excelize.CoordinatesToCellName(c+1, r+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue("Sheet1", name, v))
		}
	}
	p := filepath.Join(t.TempDir(), "churn.xlsx")
	require.NoError(t, f.SaveAs(p))

	ds, err := Load(p, LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"customerID", "tenure", "Churn"}, ds.ColumnNames())
	assert.Equal(t, Integer, ds.Columns[1].Type)
	assert.Equal(t, 12.0, ds.Rows[0][1].Num)

	_, err = Load(p, LoadOptions{SheetName: "Missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Available sheets: Sheet1")
}

func TestWriteCSVRoundTrip(t *testing.T) {
	ds := FromRecords("x", []string{"n", "s"}, [][]string{{"1.5", "a,b"}, {"", "c"}})
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, ds))
	assert.Equal(t, "n,s\n1.5,\"a,b\"\n,c\n", buf.String())
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "1", NumberValue(1).String())
	assert.Equal(t, "19.95", NumberValue(19.95).String())
	assert.Equal(t, "", Missing().String())
	assert.True(t, NumberValue(math.NaN()).IsMissing())
}
