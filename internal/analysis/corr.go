package analysis

import (
	"math"

	"github.com/KaramelBytes/churneda-cli/internal/dataset"
)

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// pairAcc accumulates sums for one column pair over rows where both are present.
type pairAcc struct {
	n     float64
	sumX  float64
	sumY  float64
	sumXX float64
	sumYY float64
	sumXY float64
}

func (pa *pairAcc) add(x, y float64) {
	pa.n++
	pa.sumX += x
	pa.sumY += y
	pa.sumXX += x * x
	pa.sumYY += y * y
	pa.sumXY += x * y
}

// r returns the correlation, or NaN when undefined (fewer than two rows or a
// constant side).
func (pa *pairAcc) r() float64 {
	if pa.n < 2 {
		return math.NaN()
	}
	denom := math.Sqrt((pa.n*pa.sumXX - pa.sumX*pa.sumX) * (pa.n*pa.sumYY - pa.sumY*pa.sumY))
	if denom == 0 || math.IsNaN(denom) {
		return math.NaN()
	}
	r := (pa.n*pa.sumXY - pa.sumX*pa.sumY) / denom
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}

// Correlation computes pairwise-complete Pearson correlations across the
// numeric columns of ds. It returns nil with fewer than two numeric columns.
// Undefined coefficients are NaN; the diagonal is 1.
func Correlation(ds *dataset.Dataset) *CorrMatrix {
	names := ds.NumericColumns()
	if len(names) < 2 {
		return nil
	}
	idx := make([]int, len(names))
	for i, n := range names {
		idx[i] = ds.Index(n)
	}
	n := len(names)
	acc := make([][]pairAcc, n)
	for i := range acc {
		acc[i] = make([]pairAcc, n)
	}
	for _, row := range ds.Rows {
		for a := 1; a < n; a++ {
			x := row[idx[a]]
			if !x.IsNumber() {
				continue
			}
			for b := 0; b < a; b++ {
				y := row[idx[b]]
				if !y.IsNumber() {
					continue
				}
				acc[a][b].add(x.Num, y.Num)
			}
		}
	}
	mat := make([][]float64, n)
	for i := range mat {
		mat[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		mat[a][a] = 1
		for b := 0; b < a; b++ {
			r := acc[a][b].r()
			mat[a][b] = r
			mat[b][a] = r
		}
	}
	return &CorrMatrix{Columns: names, Values: mat}
}
