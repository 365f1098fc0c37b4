// Package analysis computes churn statistics over a cleaned dataset.
package analysis

import (
	"math"
	"sort"

	"github.com/KaramelBytes/churneda-cli/internal/dataset"
)

// CategoryCount is a category value and its frequency.
type CategoryCount struct {
	Value string
	Count int
}

// CategoryRate is the share of positive labels within one category.
type CategoryRate struct {
	Value    string
	Count    int
	Positive int
	Rate     float64
}

// ChurnRate returns the fraction of rows whose target equals positive.
// An empty dataset or absent target column yields 0.
func ChurnRate(ds *dataset.Dataset, target, positive string) float64 {
	ti := ds.Index(target)
	if ti < 0 || ds.NumRows() == 0 {
		return 0
	}
	n := 0
	for _, row := range ds.Rows {
		if isLabel(row[ti], positive) {
			n++
		}
	}
	return float64(n) / float64(ds.NumRows())
}

// Counts tallies the non-missing values of column in first-seen order.
func Counts(ds *dataset.Dataset, column string) []CategoryCount {
	idx := ds.Index(column)
	if idx < 0 {
		return nil
	}
	pos := map[string]int{}
	var out []CategoryCount
	for _, row := range ds.Rows {
		v := row[idx]
		if v.IsMissing() {
			continue
		}
		k := v.String()
		i, ok := pos[k]
		if !ok {
			i = len(out)
			pos[k] = i
			out = append(out, CategoryCount{Value: k})
		}
		out[i].Count++
	}
	return out
}

// RateByCategory groups rows by the value of column and computes the positive
// rate per group. Results are ordered by rate, highest first; equal rates keep
// the order in which categories first appear. Missing categories are skipped.
func RateByCategory(ds *dataset.Dataset, column, target, positive string) []CategoryRate {
	ci, ti := ds.Index(column), ds.Index(target)
	if ci < 0 || ti < 0 {
		return nil
	}
	pos := map[string]int{}
	var out []CategoryRate
	for _, row := range ds.Rows {
		v := row[ci]
		if v.IsMissing() {
			continue
		}
		k := v.String()
		i, ok := pos[k]
		if !ok {
			i = len(out)
			pos[k] = i
			out = append(out, CategoryRate{Value: k})
		}
		out[i].Count++
		if isLabel(row[ti], positive) {
			out[i].Positive++
		}
	}
	for i := range out {
		out[i].Rate = float64(out[i].Positive) / float64(out[i].Count)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Rate > out[j].Rate })
	return out
}

// TopRate returns the category with the highest positive rate.
func TopRate(ds *dataset.Dataset, column, target, positive string) (CategoryRate, bool) {
	rates := RateByCategory(ds, column, target, positive)
	if len(rates) == 0 {
		return CategoryRate{}, false
	}
	return rates[0], true
}

// ValuesByLabel returns the non-missing numbers of column on rows whose target
// equals label.
func ValuesByLabel(ds *dataset.Dataset, column, target, label string) []float64 {
	ci, ti := ds.Index(column), ds.Index(target)
	if ci < 0 || ti < 0 {
		return nil
	}
	var out []float64
	for _, row := range ds.Rows {
		if !isLabel(row[ti], label) || !row[ci].IsNumber() {
			continue
		}
		out = append(out, row[ci].Num)
	}
	return out
}

// SplitMeans returns the mean of column among positive and negative rows.
// A side without values is NaN. ok is false when the column is absent, not
// numeric, or has no values at all.
func SplitMeans(ds *dataset.Dataset, column, target, positive, negative string) (posMean, negMean float64, ok bool) {
	ci := ds.Index(column)
	if ci < 0 || !ds.Columns[ci].Type.Numeric() || !hasValue(ds, ci) {
		return 0, 0, false
	}
	posMean = Mean(ValuesByLabel(ds, column, target, positive))
	negMean = Mean(ValuesByLabel(ds, column, target, negative))
	return posMean, negMean, true
}

// Mean is the arithmetic mean, NaN for no values.
func Mean(vals []float64) float64 {
	if len(vals) == 0 {
		return math.NaN()
	}
	var m float64
	for i, x := range vals {
		m += (x - m) / float64(i+1)
	}
	return m
}

func hasValue(ds *dataset.Dataset, idx int) bool {
	for _, row := range ds.Rows {
		if !row[idx].IsMissing() {
			return true
		}
	}
	return false
}

func isLabel(v dataset.Value, label string) bool {
	return !v.IsMissing() && v.String() == label
}
