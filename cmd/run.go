package cmd

import (
	"fmt"
	"io"

	"github.com/KaramelBytes/churneda-cli/internal/eda"
	"github.com/KaramelBytes/churneda-cli/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	runDataPath        string
	runReportsDir      string
	runFiguresDir      string
	runReportPath      string
	runTarget          string
	runIDCols          []string
	runTotalChargesCol string
	runSheetName       string
	runNoPlots         bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the full EDA pipeline and write the findings report",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		// Flags override config for this run only
		f := cmd.Flags()
		for _, pf := range []struct {
			name string
			val  string
			dst  *string
		}{
			{"data", runDataPath, &c.DataPath},
			{"reports-dir", runReportsDir, &c.ReportsDir},
			{"figures-dir", runFiguresDir, &c.FiguresDir},
			{"report", runReportPath, &c.ReportPath},
		} {
			if !f.Changed(pf.name) {
				continue
			}
			p, err := utils.ExpandHome(pf.val)
			if err != nil {
				return err
			}
			*pf.dst = p
		}
		if f.Changed("target") {
			c.TargetCol = runTarget
		}
		if f.Changed("id-cols") {
			c.IDCols = runIDCols
		}
		if f.Changed("total-charges-col") {
			c.TotalChargesCol = runTotalChargesCol
		}
		if f.Changed("sheet-name") {
			c.SheetName = runSheetName
		}

		logger, err := newLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		res, err := eda.Run(c, eda.Options{NoPlots: runNoPlots}, logger)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		renderRunInfo(out, res)
		fmt.Fprintf(out, "✓ Figures saved to %s (%d)\n", c.FiguresPath(), len(res.Figures))
		fmt.Fprintf(out, "✓ Report saved to %s\n", res.ReportPath)
		return nil
	},
}

func renderRunInfo(w io.Writer, res *eda.Result) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Metric", "Value"})
	t.AppendRow(table.Row{"Rows", res.Summary.Rows})
	t.AppendRow(table.Row{"Columns", res.Summary.Columns})
	for _, l := range res.Labels {
		t.AppendRow(table.Row{"Label " + l.Value, l.Count})
	}
	t.AppendRow(table.Row{"Churn rate", fmt.Sprintf("%.2f%%", res.ChurnRate*100)})
	t.AppendRow(table.Row{"Duplicates dropped", res.Stats.DuplicatesDropped})
	t.AppendRow(table.Row{"Invalid target rows", res.Stats.InvalidTargetRows})
	t.Render()
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runDataPath, "data", "", "dataset path (CSV, TSV or XLSX)")
	runCmd.Flags().StringVar(&runReportsDir, "reports-dir", "", "directory for the report and manifest")
	runCmd.Flags().StringVar(&runFiguresDir, "figures-dir", "", "directory for PNG figures (default <reports-dir>/figures)")
	runCmd.Flags().StringVar(&runReportPath, "report", "", "findings report path (default <reports-dir>/eda_findings.md)")
	runCmd.Flags().StringVar(&runTarget, "target", "", "target column name")
	runCmd.Flags().StringSliceVar(&runIDCols, "id-cols", nil, "identifier columns to drop (comma-separated)")
	runCmd.Flags().StringVar(&runTotalChargesCol, "total-charges-col", "", "text column coerced to numbers")
	runCmd.Flags().StringVar(&runSheetName, "sheet-name", "", "XLSX sheet name (default first sheet)")
	runCmd.Flags().BoolVar(&runNoPlots, "no-plots", false, "skip figure generation")
}
