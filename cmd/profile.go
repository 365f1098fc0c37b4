package cmd

import (
	"fmt"
	"strings"

	"github.com/KaramelBytes/churneda-cli/internal/analysis"
	"github.com/KaramelBytes/churneda-cli/internal/cleaning"
	"github.com/KaramelBytes/churneda-cli/internal/quality"
	"github.com/KaramelBytes/churneda-cli/internal/utils"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var (
	profileFormat    string
	profileSheetName string
)

// profileOutput is the JSON shape of `profile --format json`.
type profileOutput struct {
	Path      string          `json:"path"`
	ChurnRate float64         `json:"churn_rate"`
	Quality   quality.Summary `json:"quality"`
	Cleaning  cleaning.Stats  `json:"cleaning"`
}

var profileCmd = &cobra.Command{
	Use:   "profile <file>",
	Short: "Summarize missing values and column types after cleaning",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(strings.TrimSpace(profileFormat))
		if format != "table" && format != "json" {
			return fmt.Errorf("unsupported --format: %s (use table or json)", profileFormat)
		}
		c, err := requireConfig()
		if err != nil {
			return err
		}
		ds, stats, err := loadAndClean(args[0], profileSheetName, c.CleaningOptions())
		if err != nil {
			return err
		}
		out := profileOutput{
			Path:      args[0],
			ChurnRate: analysis.ChurnRate(ds, c.TargetCol, cleaning.Positive),
			Quality:   quality.Summarize(ds),
			Cleaning:  stats,
		}
		w := cmd.OutOrStdout()
		if format == "json" {
			b, err := utils.PrettyJSON(out)
			if err != nil {
				return err
			}
			fmt.Fprintln(w, string(b))
			return nil
		}

		fmt.Fprintf(w, "%s: %d rows x %d columns, churn rate %.2f%%\n",
			out.Path, out.Quality.Rows, out.Quality.Columns, out.ChurnRate*100)
		missing := out.Quality.MissingMap()
		t := table.NewWriter()
		t.SetOutputMirror(w)
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"Column", "Type", "Missing"})
		for _, k := range out.Quality.Types {
			t.AppendRow(table.Row{k.Column, k.Type, missing[k.Column]})
		}
		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.Flags().StringVar(&profileFormat, "format", "table", "output format: table or json")
	profileCmd.Flags().StringVar(&profileSheetName, "sheet-name", "", "XLSX sheet name (default first sheet)")
}
