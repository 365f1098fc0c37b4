// Package report renders the EDA findings document.
package report

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/churneda-cli/internal/analysis"
	"github.com/KaramelBytes/churneda-cli/internal/dataset"
	"github.com/KaramelBytes/churneda-cli/internal/quality"
	"github.com/KaramelBytes/churneda-cli/internal/utils"
)

// Grouping is a categorical column scanned for its highest-churn category.
type Grouping struct {
	Column string
	Label  string
}

// Options carries the configuration the report needs.
type Options struct {
	DataPath       string
	Target         string
	Positive       string
	Negative       string
	Groupings      []Grouping
	NumericColumns []string
}

const title = "# Churn EDA – Data Understanding & Findings"

var nextSteps = []string{
	"Encode categorical variables (one-hot)",
	"Handle missing numeric values (impute)",
	"Create train/test split with stratification",
	"Start feature engineering (tenure buckets, charge ratios, contract flags)",
}

// Insights derives the key-observation lines: one per grouping column present
// in ds, naming the category with the highest churn rate.
func Insights(ds *dataset.Dataset, opt Options) []string {
	var out []string
	for _, g := range opt.Groupings {
		top, ok := analysis.TopRate(ds, g.Column, opt.Target, opt.Positive)
		if !ok {
			continue
		}
		out = append(out, fmt.Sprintf("- Highest churn by **%s**: `%s` (~%.1f%%).", g.Label, top.Value, top.Rate*100))
	}
	return out
}

// NumericSignals compares the mean of each configured numeric column between
// churned and retained rows.
func NumericSignals(ds *dataset.Dataset, opt Options) []string {
	var out []string
	for _, col := range opt.NumericColumns {
		yes, no, ok := analysis.SplitMeans(ds, col, opt.Target, opt.Positive, opt.Negative)
		if !ok {
			continue
		}
		out = append(out, fmt.Sprintf("- Mean **%s**: churn=**%s**, non-churn=**%s**", col, fmt2(yes), fmt2(no)))
	}
	return out
}

// Build assembles the findings document from the cleaned dataset, its quality
// summary and the names of saved figures.
func Build(ds *dataset.Dataset, summary quality.Summary, opt Options, plotFiles []string) string {
	rate := analysis.ChurnRate(ds, opt.Target, opt.Positive) * 100

	var b strings.Builder
	b.WriteString(title + "\n\n")

	b.WriteString("## Dataset\n")
	fmt.Fprintf(&b, "- Path: `%s`\n", opt.DataPath)
	fmt.Fprintf(&b, "- Rows: **%d**\n", summary.Rows)
	fmt.Fprintf(&b, "- Columns: **%d**\n", summary.Columns)
	fmt.Fprintf(&b, "- Target: **%s**\n", opt.Target)
	fmt.Fprintf(&b, "- Churn Rate: **%.2f%%**\n\n", rate)

	b.WriteString("## Data Quality\n")
	b.WriteString("### Missing Values (after cleaning)\n")
	if len(summary.Missing) == 0 {
		b.WriteString("None\n")
	}
	for _, m := range summary.Missing {
		fmt.Fprintf(&b, "- `%s`: %d\n", m.Column, m.Count)
	}
	b.WriteString("\n")

	b.WriteString("## Key Observations (auto-generated)\n")
	writeLines(&b, Insights(ds, opt), "- (Not enough categorical columns found for auto-insights.)")

	b.WriteString("## Numeric Signals (quick comparison)\n")
	writeLines(&b, NumericSignals(ds, opt), "- (Not enough numeric columns found.)")

	b.WriteString("## Saved Figures\n")
	var figs []string
	for _, p := range FigureNames(plotFiles) {
		figs = append(figs, "- "+p)
	}
	writeLines(&b, figs, "- (No plots saved)")

	b.WriteString("## Suggested Next Steps\n")
	for _, s := range nextSteps {
		b.WriteString("- " + s + "\n")
	}
	return b.String()
}

// FigureNames returns the sorted, de-duplicated base names of the given files.
func FigureNames(files []string) []string {
	seen := map[string]struct{}{}
	var out []string
	for _, f := range files {
		name := f
		if i := strings.LastIndexAny(f, `/\`); i >= 0 {
			name = f[i+1:]
		}
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Write replaces the report at path with text.
func Write(path, text string) error {
	if err := utils.SafeWriteFile(path, []byte(text)); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

func writeLines(b *strings.Builder, lines []string, placeholder string) {
	if len(lines) == 0 {
		b.WriteString(placeholder + "\n\n")
		return
	}
	b.WriteString(strings.Join(lines, "\n"))
	b.WriteString("\n\n")
}

func fmt2(f float64) string {
	if math.IsNaN(f) {
		return "nan"
	}
	return fmt.Sprintf("%.2f", f)
}
