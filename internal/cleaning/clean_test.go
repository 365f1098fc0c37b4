package cleaning

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/churneda-cli/internal/dataset"
)

func telcoOptions() Options {
	return Options{TargetColumn: "Churn", IDColumns: []string{"customerID"}, NumericTextColumn: "TotalCharges"}
}

func TestCleanScenario(t *testing.T) {
	raw := dataset.FromRecords("s.csv", []string{"customerID", "Churn"}, [][]string{
		{"1", " Yes "},
		{"2", "0"},
		{"3", "maybe"},
	})

	out, st, err := CleanWithStats(raw, telcoOptions())
	require.NoError(t, err)
	assert.False(t, out.Has("customerID"))
	assert.Equal(t, 2, out.NumRows())
	assert.Equal(t, []dataset.Value{dataset.TextValue("Yes"), dataset.TextValue("No")}, out.ColumnValues("Churn"))
	assert.Equal(t, Stats{RowsIn: 3, RowsOut: 2, IDColumnsDropped: 1, InvalidTargetRows: 1}, st)

	// input untouched
	assert.Equal(t, 3, raw.NumRows())
	assert.True(t, raw.Has("customerID"))
}

func TestCleanCoercesNumericText(t *testing.T) {
	raw := dataset.FromRecords("s.csv", []string{"TotalCharges", "Churn"}, [][]string{
		{" ", "Yes"},
		{"19.95", "No"},
		{"abc", "No"},
	})
	out, st, err := CleanWithStats(raw, telcoOptions())
	require.NoError(t, err)

	got := out.ColumnValues("TotalCharges")
	require.Len(t, got, 3)
	assert.True(t, got[0].IsMissing())
	assert.Equal(t, 19.95, got[1].Num)
	assert.True(t, got[2].IsMissing())
	assert.Equal(t, dataset.Float, out.Columns[out.Index("TotalCharges")].Type)
	assert.Equal(t, 2, st.CoercedToMissing)
}

func TestCleanMissingTarget(t *testing.T) {
	raw := dataset.FromRecords("s.csv", []string{"customerID", "tenure"}, [][]string{{"1", "3"}})
	_, err := Clean(raw, telcoOptions())
	require.Error(t, err)

	var mce *MissingColumnError
	require.True(t, errors.As(err, &mce))
	assert.Equal(t, "Churn", mce.Column)
	assert.Equal(t, []string{"tenure"}, mce.Available)
}

func TestCleanKeepsMissingTextCells(t *testing.T) {
	raw := dataset.FromRecords("s.csv", []string{"gender", "Churn"}, [][]string{
		{"", "No"},
		{" Male ", "Yes"},
	})
	out, err := Clean(raw, telcoOptions())
	require.NoError(t, err)
	assert.Equal(t, []dataset.Value{dataset.Missing(), dataset.TextValue("Male")}, out.ColumnValues("gender"))
}

func TestCleanTrimsHeaders(t *testing.T) {
	raw := dataset.FromRecords("s.csv", []string{" Churn ", "customerID "}, [][]string{{"yes", "7"}})
	out, err := Clean(raw, telcoOptions())
	require.NoError(t, err)
	assert.Equal(t, []string{"Churn"}, out.ColumnNames())
	assert.Equal(t, "Yes", out.Rows[0][0].Str)
}

func TestCleanDuplicatesUseRawValues(t *testing.T) {
	raw := dataset.FromRecords("s.csv", []string{"gender", "Churn"}, [][]string{
		{"Male", "Yes"},
		{"Male ", "Yes"},
		{"Male", "Yes"},
	})
	out, st, err := CleanWithStats(raw, telcoOptions())
	require.NoError(t, err)
	// only the exact duplicate goes; the whitespace variant survives and is trimmed
	assert.Equal(t, 1, st.DuplicatesDropped)
	require.Equal(t, 2, out.NumRows())
	assert.Equal(t, "Male", out.Rows[0][0].Str)
	assert.Equal(t, "Male", out.Rows[1][0].Str)
}

func TestCleanNumericTargetLabels(t *testing.T) {
	raw := dataset.FromRecords("s.csv", []string{"Churn"}, [][]string{{"1"}, {"0"}, {"2"}, {""}})
	require.Equal(t, dataset.Float, raw.Columns[0].Type)

	out, err := Clean(raw, telcoOptions())
	require.NoError(t, err)
	assert.Equal(t, []dataset.Value{dataset.TextValue("Yes"), dataset.TextValue("No")}, out.ColumnValues("Churn"))
	assert.Equal(t, dataset.Text, out.Columns[0].Type)
}

func TestNormalizeLabel(t *testing.T) {
	cases := map[string]string{
		"yes": "Yes", "no": "No", "1": "Yes", "0": "No", "True": "Yes", "False": "No",
		"Yes": "Yes", "No": "No", "YES": "YES", "true": "true", "maybe": "maybe",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeLabel(in), in)
	}
}

func TestCleanTargetOnlyCanonicalLabels(t *testing.T) {
	raw := dataset.FromRecords("s.csv", []string{"Churn", "x"}, [][]string{
		{"Yes", "1"}, {"no", "2"}, {"True", "3"}, {"False", "4"}, {"N", "5"}, {"", "6"}, {" yes", "7"},
	})
	out, err := Clean(raw, telcoOptions())
	require.NoError(t, err)
	for _, v := range out.ColumnValues("Churn") {
		assert.Contains(t, []string{Positive, Negative}, v.Str)
	}
	assert.Equal(t, 5, out.NumRows())
}

func TestCleanIdempotent(t *testing.T) {
	raw := dataset.FromRecords("s.csv", []string{"tenure", "TotalCharges", "Contract", "Churn"}, [][]string{
		{"1", "29.85", "Month-to-month", "Yes"},
		{"34", "", "One year", "No"},
		{"2", "108.15", "Month-to-month", "No"},
	})
	once, err := Clean(raw, telcoOptions())
	require.NoError(t, err)
	twice, err := Clean(once, telcoOptions())
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestParseNumber(t *testing.T) {
	f, ok := ParseNumber(" 42.5 ")
	assert.True(t, ok)
	assert.Equal(t, 42.5, f)
	_, ok = ParseNumber(" ")
	assert.False(t, ok)
	_, ok = ParseNumber("1,234")
	assert.False(t, ok)
}
