package cmd

import (
	"bytes"
	"fmt"

	"github.com/KaramelBytes/churneda-cli/internal/cleaning"
	"github.com/KaramelBytes/churneda-cli/internal/dataset"
	"github.com/KaramelBytes/churneda-cli/internal/utils"
	"github.com/spf13/cobra"
)

var (
	cleanOutput    string
	cleanSheetName string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Clean a dataset and write it as CSV",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		ds, stats, err := loadAndClean(args[0], cleanSheetName, c.CleaningOptions())
		if err != nil {
			return err
		}
		logger.Info("cleaned", "path", args[0], "rows", stats.RowsOut, "dropped", stats.RowsIn-stats.RowsOut)

		if cleanOutput == "" {
			return dataset.WriteCSV(cmd.OutOrStdout(), ds)
		}
		var buf bytes.Buffer
		if err := dataset.WriteCSV(&buf, ds); err != nil {
			return err
		}
		if err := utils.SafeWriteFile(cleanOutput, buf.Bytes()); err != nil {
			return fmt.Errorf("write output: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %d cleaned rows to %s\n", ds.NumRows(), cleanOutput)
		return nil
	},
}

func loadAndClean(path, sheet string, opt cleaning.Options) (*dataset.Dataset, cleaning.Stats, error) {
	raw, err := dataset.Load(path, dataset.LoadOptions{SheetName: sheet})
	if err != nil {
		return nil, cleaning.Stats{}, err
	}
	return cleaning.CleanWithStats(raw, opt)
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&cleanOutput, "output", "o", "", "write cleaned CSV to this path instead of stdout")
	cleanCmd.Flags().StringVar(&cleanSheetName, "sheet-name", "", "XLSX sheet name (default first sheet)")
}
