package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/churneda-cli/internal/dataset"
)

func churnFixture() *dataset.Dataset {
	return dataset.FromRecords("fixture.csv",
		[]string{"Contract", "tenure", "MonthlyCharges", "Churn"},
		[][]string{
			{"Month-to-month", "1", "70", "Yes"},
			{"One year", "30", "50", "No"},
			{"Month-to-month", "5", "80", "Yes"},
			{"Two year", "60", "", "No"},
			{"One year", "20", "60", "Yes"},
			{"Month-to-month", "3", "90", "No"},
		})
}

func TestChurnRate(t *testing.T) {
	ds := churnFixture()
	assert.InDelta(t, 0.5, ChurnRate(ds, "Churn", "Yes"), 1e-12)
	assert.Zero(t, ChurnRate(ds, "Missing", "Yes"))
	assert.Zero(t, ChurnRate(ds, "Churn", "Maybe"))

	empty := &dataset.Dataset{Columns: []dataset.Column{{Name: "Churn", Type: dataset.Text}}}
	assert.Zero(t, ChurnRate(empty, "Churn", "Yes"))
}

func TestRateByCategory(t *testing.T) {
	rates := RateByCategory(churnFixture(), "Contract", "Churn", "Yes")
	require.Len(t, rates, 3)
	assert.Equal(t, "Month-to-month", rates[0].Value)
	assert.InDelta(t, 2.0/3.0, rates[0].Rate, 1e-12)
	assert.Equal(t, CategoryRate{Value: "One year", Count: 2, Positive: 1, Rate: 0.5}, rates[1])
	assert.Equal(t, "Two year", rates[2].Value)
	assert.Zero(t, rates[2].Rate)
}

func TestRateByCategoryTieKeepsFirstSeen(t *testing.T) {
	ds := dataset.FromRecords("t.csv", []string{"PaymentMethod", "Churn"}, [][]string{
		{"Mailed check", "No"},
		{"Electronic check", "Yes"},
		{"Mailed check", "Yes"},
		{"Bank transfer", "Yes"},
		{"Electronic check", "No"},
		{"Bank transfer", "No"},
	})
	top, ok := TopRate(ds, "PaymentMethod", "Churn", "Yes")
	require.True(t, ok)
	assert.Equal(t, "Mailed check", top.Value)

	_, ok = TopRate(ds, "Contract", "Churn", "Yes")
	assert.False(t, ok)
}

func TestSplitMeans(t *testing.T) {
	ds := churnFixture()
	yes, no, ok := SplitMeans(ds, "MonthlyCharges", "Churn", "Yes", "No")
	require.True(t, ok)
	assert.InDelta(t, 70.0, yes, 1e-9)
	assert.InDelta(t, 70.0, no, 1e-9)

	yes, no, ok = SplitMeans(ds, "tenure", "Churn", "Yes", "No")
	require.True(t, ok)
	assert.InDelta(t, 26.0/3.0, yes, 1e-9)
	assert.InDelta(t, 31.0, no, 1e-9)

	_, _, ok = SplitMeans(ds, "Contract", "Churn", "Yes", "No")
	assert.False(t, ok)
	_, _, ok = SplitMeans(ds, "TotalCharges", "Churn", "Yes", "No")
	assert.False(t, ok)
}

func TestSplitMeansOneSidedIsNaN(t *testing.T) {
	ds := dataset.FromRecords("t.csv", []string{"tenure", "Churn"}, [][]string{{"4", "No"}, {"6", "No"}})
	yes, no, ok := SplitMeans(ds, "tenure", "Churn", "Yes", "No")
	require.True(t, ok)
	assert.True(t, math.IsNaN(yes))
	assert.InDelta(t, 5.0, no, 1e-12)
}

func TestCounts(t *testing.T) {
	got := Counts(churnFixture(), "Churn")
	assert.Equal(t, []CategoryCount{{"Yes", 3}, {"No", 3}}, got)
	assert.Nil(t, Counts(churnFixture(), "nope"))
}

func TestCorrelation(t *testing.T) {
	ds := churnFixture()
	m := Correlation(ds)
	require.NotNil(t, m)
	assert.Equal(t, []string{"tenure", "MonthlyCharges"}, m.Columns)
	assert.Equal(t, 1.0, m.Values[0][0])

	// pairwise complete: the row with missing MonthlyCharges is skipped
	x := []float64{1, 30, 5, 20, 3}
	y := []float64{70, 50, 80, 60, 90}
	assert.InDelta(t, pearson(x, y), m.Values[0][1], 1e-9)
	assert.Equal(t, m.Values[0][1], m.Values[1][0])

	single := dataset.FromRecords("t.csv", []string{"tenure", "Churn"}, [][]string{{"1", "Yes"}})
	assert.Nil(t, Correlation(single))
}

func TestCorrelationConstantIsNaN(t *testing.T) {
	ds := dataset.FromRecords("t.csv", []string{"a", "b"}, [][]string{{"1", "5"}, {"2", "5"}, {"3", "5"}})
	m := Correlation(ds)
	require.NotNil(t, m)
	assert.True(t, math.IsNaN(m.Values[0][1]))
}

func pearson(a, b []float64) float64 {
	ma, mb := Mean(a), Mean(b)
	var num, da2, db2 float64
	for i := range a {
		da := a[i] - ma
		db := b[i] - mb
		num += da * db
		da2 += da * da
		db2 += db * db
	}
	return num / math.Sqrt(da2*db2)
}
