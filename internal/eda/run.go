// Package eda wires the loader, cleaner, summarizer, plots and report into a
// single run.
package eda

import (
	"fmt"
	"log/slog"

	"github.com/KaramelBytes/churneda-cli/internal/analysis"
	"github.com/KaramelBytes/churneda-cli/internal/cleaning"
	"github.com/KaramelBytes/churneda-cli/internal/config"
	"github.com/KaramelBytes/churneda-cli/internal/dataset"
	"github.com/KaramelBytes/churneda-cli/internal/manifest"
	"github.com/KaramelBytes/churneda-cli/internal/plots"
	"github.com/KaramelBytes/churneda-cli/internal/quality"
	"github.com/KaramelBytes/churneda-cli/internal/report"
	"github.com/KaramelBytes/churneda-cli/internal/utils"
)

// Options toggles optional stages.
type Options struct {
	NoPlots bool
}

// Result is everything a run produced.
type Result struct {
	Dataset    *dataset.Dataset
	Summary    quality.Summary
	Stats      cleaning.Stats
	ChurnRate  float64
	Labels     []analysis.CategoryCount
	Figures    []string
	ReportPath string
	Report     string
	Manifest   *manifest.Manifest
}

// Run executes the full pipeline described by cfg. Artifacts written before a
// failure are left in place.
func Run(cfg *config.Global, opts Options, logger *slog.Logger) (*Result, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	figDir, reportPath := cfg.FiguresPath(), cfg.ReportFilePath()
	for _, d := range []string{cfg.ReportsDir, figDir} {
		if err := utils.EnsureDir(d); err != nil {
			return nil, fmt.Errorf("ensure dir %s: %w", d, err)
		}
	}
	m := manifest.New(cfg.DataPath, reportPath)

	logger.Info("loading data", "path", cfg.DataPath)
	raw, err := dataset.Load(cfg.DataPath, dataset.LoadOptions{SheetName: cfg.SheetName})
	if err != nil {
		return nil, fmt.Errorf("load: %w", err)
	}

	logger.Info("cleaning data", "rows", raw.NumRows(), "columns", raw.NumCols())
	ds, stats, err := cleaning.CleanWithStats(raw, cfg.CleaningOptions())
	if err != nil {
		return nil, fmt.Errorf("clean: %w", err)
	}
	logger.Debug("cleaning stats",
		"dropped", stats.DuplicatesDropped,
		"id_columns_dropped", stats.IDColumnsDropped,
		"coerced", stats.CoercedToMissing,
		"invalid_target", stats.InvalidTargetRows)

	sum := quality.Summarize(ds)
	res := &Result{
		Dataset:    ds,
		Summary:    sum,
		Stats:      stats,
		ChurnRate:  analysis.ChurnRate(ds, cfg.TargetCol, cleaning.Positive),
		Labels:     analysis.Counts(ds, cfg.TargetCol),
		ReportPath: reportPath,
		Manifest:   m,
	}
	logger.Info("basic info",
		"rows", sum.Rows,
		"columns", sum.Columns,
		"churn_rate", fmt.Sprintf("%.2f%%", res.ChurnRate*100))

	if !opts.NoPlots {
		logger.Info("generating plots", "dir", figDir)
		g := &plots.Generator{
			Dir:      figDir,
			Target:   cfg.TargetCol,
			Positive: cleaning.Positive,
			Negative: cleaning.Negative,
			TopN:     cfg.CategoryTopN,
			Logger:   logger,
		}
		if _, err := g.Generate(ds, cfg.PlotColumns()); err != nil {
			return nil, fmt.Errorf("plots: %w", err)
		}
	}
	figs, err := plots.List(figDir)
	if err != nil {
		return nil, err
	}
	res.Figures = figs

	logger.Info("writing report", "path", reportPath)
	res.Report = report.Build(ds, sum, cfg.ReportOptions(), figs)
	if err := report.Write(reportPath, res.Report); err != nil {
		return nil, err
	}

	m.Rows, m.Columns = sum.Rows, sum.Columns
	m.ChurnRate = res.ChurnRate
	m.Figures = figs
	m.Cleaning = stats
	if err := m.Save(cfg.ReportsDir); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}
	logger.Debug("manifest saved", "run_id", m.RunID)
	return res, nil
}
