// Package plots renders the EDA figures as PNG files.
package plots

import (
	"fmt"
	"image/color"
	"log/slog"
	"path/filepath"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/churneda-cli/internal/analysis"
	"github.com/KaramelBytes/churneda-cli/internal/dataset"
	"github.com/KaramelBytes/churneda-cli/internal/utils"
)

// DistributionFile is the name of the target distribution chart.
const DistributionFile = "01_churn_distribution.png"

// HeatmapFile is the name of the numeric correlation heatmap.
const HeatmapFile = "corr_heatmap_numeric.png"

// Selection names the columns to chart. Columns absent from the dataset are skipped.
type Selection struct {
	Categorical []string
	Numeric     []string
}

// Generator writes figures into Dir.
type Generator struct {
	Dir      string
	Target   string
	Positive string
	Negative string
	// TopN caps the categories shown in churn-rate charts; 0 means no cap.
	TopN   int
	Logger *slog.Logger
}

// Generate renders every applicable figure for ds and returns the written paths.
func (g *Generator) Generate(ds *dataset.Dataset, sel Selection) ([]string, error) {
	if err := utils.EnsureDir(g.Dir); err != nil {
		return nil, fmt.Errorf("ensure figures dir: %w", err)
	}
	var out []string
	save := func(name string, p *plot.Plot, w, h vg.Length) error {
		path := filepath.Join(g.Dir, name)
		if err := p.Save(w, h, path); err != nil {
			return fmt.Errorf("save %s: %w", name, err)
		}
		g.log().Debug("figure saved", "path", path)
		out = append(out, path)
		return nil
	}

	if p, ok, err := g.distribution(ds); err != nil {
		return out, err
	} else if ok {
		if err := save(DistributionFile, p, 7*vg.Inch, 5*vg.Inch); err != nil {
			return out, err
		}
	}

	for _, col := range sel.Categorical {
		if !ds.Has(col) || col == g.Target {
			continue
		}
		if p, ok, err := g.countsByLabel(ds, col); err != nil {
			return out, err
		} else if ok {
			if err := save("cat_counts_"+fileSafe(col)+".png", p, 11*vg.Inch, 6*vg.Inch); err != nil {
				return out, err
			}
		}
		if p, ok, err := g.rateByCategory(ds, col); err != nil {
			return out, err
		} else if ok {
			if err := save("cat_churn_rate_"+fileSafe(col)+".png", p, 10*vg.Inch, 6*vg.Inch); err != nil {
				return out, err
			}
		}
	}

	for _, col := range sel.Numeric {
		i := ds.Index(col)
		if i < 0 || !ds.Columns[i].Type.Numeric() {
			continue
		}
		if p, ok, err := g.box(ds, col); err != nil {
			return out, err
		} else if ok {
			if err := save("num_box_"+fileSafe(col)+".png", p, 8*vg.Inch, 6*vg.Inch); err != nil {
				return out, err
			}
		}
		if p, ok, err := g.hist(ds, col); err != nil {
			return out, err
		} else if ok {
			if err := save("num_hist_"+fileSafe(col)+".png", p, 9*vg.Inch, 6*vg.Inch); err != nil {
				return out, err
			}
		}
	}

	if m := analysis.Correlation(ds); m != nil {
		if err := save(HeatmapFile, heatmap(m), 9*vg.Inch, 7*vg.Inch); err != nil {
			return out, err
		}
	}
	return out, nil
}

// List returns the sorted names of PNG files in dir.
func List(dir string) ([]string, error) {
	files, err := utils.ListFiles(dir, ".png")
	if err != nil {
		return nil, fmt.Errorf("list figures: %w", err)
	}
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, filepath.Base(f))
	}
	return names, nil
}

func (g *Generator) log() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func (g *Generator) labels() []string { return []string{g.Positive, g.Negative} }

func (g *Generator) distribution(ds *dataset.Dataset) (*plot.Plot, bool, error) {
	counts := analysis.Counts(ds, g.Target)
	if len(counts) == 0 {
		return nil, false, nil
	}
	vals := make(plotter.Values, len(counts))
	names := make([]string, len(counts))
	for i, c := range counts {
		vals[i] = float64(c.Count)
		names[i] = c.Value
	}
	p := plot.New()
	p.Title.Text = "Churn Distribution"
	p.X.Label.Text = g.Target
	p.Y.Label.Text = "count"
	bars, err := plotter.NewBarChart(vals, vg.Points(40))
	if err != nil {
		return nil, false, fmt.Errorf("distribution chart: %w", err)
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)
	return p, true, nil
}

// countsByLabel draws one bar group per category, one bar per target label.
func (g *Generator) countsByLabel(ds *dataset.Dataset, col string) (*plot.Plot, bool, error) {
	cats := analysis.Counts(ds, col)
	if len(cats) == 0 {
		return nil, false, nil
	}
	names := make([]string, len(cats))
	pos := map[string]int{}
	for i, c := range cats {
		names[i] = c.Value
		pos[c.Value] = i
	}
	labels := g.labels()
	series := make([]plotter.Values, len(labels))
	for i := range series {
		series[i] = make(plotter.Values, len(cats))
	}
	ci, ti := ds.Index(col), ds.Index(g.Target)
	for _, row := range ds.Rows {
		if row[ci].IsMissing() || row[ti].IsMissing() {
			continue
		}
		for li, l := range labels {
			if row[ti].String() == l {
				series[li][pos[row[ci].String()]]++
			}
		}
	}

	p := plot.New()
	p.Title.Text = col + " vs Churn (Counts)"
	p.Y.Label.Text = "count"
	p.Legend.Top = true
	w := vg.Points(16)
	for li, l := range labels {
		bars, err := plotter.NewBarChart(series[li], w)
		if err != nil {
			return nil, false, fmt.Errorf("counts chart %s: %w", col, err)
		}
		bars.Color = plotutil.Color(li)
		bars.LineStyle.Width = vg.Length(0)
		bars.Offset = w * vg.Length(2*li-len(labels)+1) / 2
		p.Add(bars)
		p.Legend.Add(l, bars)
	}
	p.NominalX(names...)
	return p, true, nil
}

func (g *Generator) rateByCategory(ds *dataset.Dataset, col string) (*plot.Plot, bool, error) {
	rates := analysis.RateByCategory(ds, col, g.Target, g.Positive)
	if len(rates) == 0 {
		return nil, false, nil
	}
	if g.TopN > 0 && len(rates) > g.TopN {
		rates = rates[:g.TopN]
	}
	vals := make(plotter.Values, len(rates))
	names := make([]string, len(rates))
	for i, r := range rates {
		vals[i] = r.Rate
		names[i] = r.Value
	}
	p := plot.New()
	p.Title.Text = "Churn Rate by " + col
	p.Y.Label.Text = "Churn Rate"
	p.Y.Min = 0
	bars, err := plotter.NewBarChart(vals, vg.Points(30))
	if err != nil {
		return nil, false, fmt.Errorf("rate chart %s: %w", col, err)
	}
	bars.Color = plotutil.Color(0)
	p.Add(bars)
	p.NominalX(names...)
	return p, true, nil
}

func (g *Generator) box(ds *dataset.Dataset, col string) (*plot.Plot, bool, error) {
	p := plot.New()
	p.Title.Text = col + " by Churn"
	p.Y.Label.Text = col
	var names []string
	for _, l := range g.labels() {
		vals := analysis.ValuesByLabel(ds, col, g.Target, l)
		if len(vals) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(50), float64(len(names)), plotter.Values(vals))
		if err != nil {
			return nil, false, fmt.Errorf("box plot %s: %w", col, err)
		}
		b.FillColor = plotutil.Color(len(names))
		p.Add(b)
		names = append(names, l)
	}
	if len(names) == 0 {
		return nil, false, nil
	}
	p.NominalX(names...)
	return p, true, nil
}

func (g *Generator) hist(ds *dataset.Dataset, col string) (*plot.Plot, bool, error) {
	p := plot.New()
	p.Title.Text = col + " Distribution by Churn"
	p.X.Label.Text = col
	p.Y.Label.Text = "count"
	p.Legend.Top = true
	drawn := 0
	for li, l := range g.labels() {
		vals := analysis.ValuesByLabel(ds, col, g.Target, l)
		if len(vals) == 0 {
			continue
		}
		h, err := plotter.NewHist(plotter.Values(vals), 30)
		if err != nil {
			return nil, false, fmt.Errorf("histogram %s: %w", col, err)
		}
		c := color.NRGBAModel.Convert(plotutil.Color(li)).(color.NRGBA)
		c.A = 0x80
		h.FillColor = c
		h.LineStyle.Color = plotutil.Color(li)
		p.Add(h)
		p.Legend.Add(l, h)
		drawn++
	}
	return p, drawn > 0, nil
}

// corrGrid adapts a correlation matrix to plotter.GridXYZ.
type corrGrid struct {
	m *analysis.CorrMatrix
}

func (g corrGrid) Dims() (c, r int)   { return len(g.m.Columns), len(g.m.Columns) }
func (g corrGrid) Z(c, r int) float64 { return g.m.Values[r][c] }
func (g corrGrid) X(c int) float64    { return float64(c) }
func (g corrGrid) Y(r int) float64    { return float64(r) }

func heatmap(m *analysis.CorrMatrix) *plot.Plot {
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m}, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 0xcc}

	p := plot.New()
	p.Title.Text = "Correlation Heatmap (Numeric Features)"
	p.Add(hm)
	p.NominalX(m.Columns...)
	p.NominalY(m.Columns...)
	return p
}

func fileSafe(name string) string {
	return strings.NewReplacer("/", "_", `\`, "_", " ", "_").Replace(name)
}
