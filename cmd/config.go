package cmd

import (
	"fmt"
	"strconv"
	"strings"

	cfgpkg "github.com/KaramelBytes/churneda-cli/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set churneda configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		b, err := yaml.Marshal(c)
		if err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		w := cmd.OutOrStdout()
		fmt.Fprint(w, string(b))
		// derived paths are omitted from the file when unset
		if c.FiguresDir == "" {
			fmt.Fprintf(w, "# figures_dir resolves to %s\n", c.FiguresPath())
		}
		if c.ReportPath == "" {
			fmt.Fprintf(w, "# report_path resolves to %s\n", c.ReportFilePath())
		}
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := requireConfig()
		if err != nil {
			return err
		}
		if err := setKey(c, args[0], args[1]); err != nil {
			return err
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Saved %s\n", args[0])
		return nil
	},
}

func setKey(c *cfgpkg.Global, key, val string) error {
	switch key {
	case "data_path":
		c.DataPath = val
	case "sheet_name":
		c.SheetName = val
	case "reports_dir":
		c.ReportsDir = val
	case "figures_dir":
		c.FiguresDir = val
	case "report_path":
		c.ReportPath = val
	case "target_col":
		c.TargetCol = val
	case "id_cols":
		c.IDCols = splitList(val)
	case "total_charges_col":
		c.TotalChargesCol = val
	case "tenure_col":
		c.TenureCol = val
	case "monthly_charges_col":
		c.MonthlyChargesCol = val
	case "contract_col":
		c.ContractCol = val
	case "payment_method_col":
		c.PaymentMethodCol = val
	case "internet_service_col":
		c.InternetServiceCol = val
	case "category_plot_cols":
		c.CategoryPlotCols = splitList(val)
	case "category_top_n":
		i, err := strconv.Atoi(val)
		if err != nil || i < 0 {
			return fmt.Errorf("invalid int for category_top_n: %v", val)
		}
		c.CategoryTopN = i
	case "log_level":
		c.LogLevel = strings.ToLower(val)
	case "log_format":
		c.LogFormat = strings.ToLower(val)
	default:
		return fmt.Errorf("unknown key: %s (known: %s)", key, strings.Join(cfgpkg.Keys, ", "))
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
