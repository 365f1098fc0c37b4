package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/churneda-cli/internal/cleaning"
	"github.com/KaramelBytes/churneda-cli/internal/plots"
	"github.com/KaramelBytes/churneda-cli/internal/report"
	"github.com/KaramelBytes/churneda-cli/internal/utils"
)

// EnvPrefix is prepended to every key when read from the environment.
const EnvPrefix = "CHURNEDA"

// DefaultCategoryPlotCols are the Telco columns charted against churn.
var DefaultCategoryPlotCols = []string{
	"gender", "SeniorCitizen", "Partner", "Dependents", "Contract",
	"PaymentMethod", "InternetService", "OnlineSecurity", "TechSupport", "PaperlessBilling",
}

// Global configuration structure.
type Global struct {
	DataPath   string `mapstructure:"data_path" yaml:"data_path" validate:"required"`
	SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name,omitempty"`
	ReportsDir string `mapstructure:"reports_dir" yaml:"reports_dir" validate:"required"`
	// FiguresDir and ReportPath default to locations under ReportsDir.
	FiguresDir string `mapstructure:"figures_dir" yaml:"figures_dir,omitempty"`
	ReportPath string `mapstructure:"report_path" yaml:"report_path,omitempty"`

	// Dataset schema
	TargetCol          string   `mapstructure:"target_col" yaml:"target_col" validate:"required"`
	IDCols             []string `mapstructure:"id_cols" yaml:"id_cols"`
	TotalChargesCol    string   `mapstructure:"total_charges_col" yaml:"total_charges_col"`
	TenureCol          string   `mapstructure:"tenure_col" yaml:"tenure_col"`
	MonthlyChargesCol  string   `mapstructure:"monthly_charges_col" yaml:"monthly_charges_col"`
	ContractCol        string   `mapstructure:"contract_col" yaml:"contract_col"`
	PaymentMethodCol   string   `mapstructure:"payment_method_col" yaml:"payment_method_col"`
	InternetServiceCol string   `mapstructure:"internet_service_col" yaml:"internet_service_col"`
	CategoryPlotCols   []string `mapstructure:"category_plot_cols" yaml:"category_plot_cols"`
	CategoryTopN       int      `mapstructure:"category_top_n" yaml:"category_top_n" validate:"gte=0"`

	LogLevel  string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn warning error"`
	LogFormat string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
}

// Keys lists the settable configuration keys in display order.
var Keys = []string{
	"data_path", "sheet_name", "reports_dir", "figures_dir", "report_path",
	"target_col", "id_cols", "total_charges_col", "tenure_col", "monthly_charges_col",
	"contract_col", "payment_method_col", "internet_service_col", "category_plot_cols",
	"category_top_n", "log_level", "log_format",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("data_path", filepath.Join("data", "telco_churn.csv"))
	v.SetDefault("sheet_name", "")
	v.SetDefault("reports_dir", "reports")
	v.SetDefault("figures_dir", "")
	v.SetDefault("report_path", "")
	v.SetDefault("target_col", "Churn")
	v.SetDefault("id_cols", []string{"customerID"})
	v.SetDefault("total_charges_col", "TotalCharges")
	v.SetDefault("tenure_col", "tenure")
	v.SetDefault("monthly_charges_col", "MonthlyCharges")
	v.SetDefault("contract_col", "Contract")
	v.SetDefault("payment_method_col", "PaymentMethod")
	v.SetDefault("internet_service_col", "InternetService")
	v.SetDefault("category_plot_cols", DefaultCategoryPlotCols)
	v.SetDefault("category_top_n", 20)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
}

// Default returns the built-in configuration without consulting files or env.
// It panics if the defaults cannot be decoded into Global.
func Default() *Global {
	v := viper.New()
	setDefaults(v)
	var c Global
	if err := v.Unmarshal(&c); err != nil {
		panic(fmt.Sprintf("decode config defaults: %v", err))
	}
	c.normalize()
	return &c
}

// DefaultPath returns ~/.churneda/config.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".churneda", "config.yaml"), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.churneda/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	path := cfgFile
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: env > config file > defaults. A missing config file is not an error.
func Load(cfgFile string) (*Global, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		v.AddConfigPath(filepath.Dir(p))
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.normalize()
	for _, p := range []*string{&c.DataPath, &c.ReportsDir, &c.FiguresDir, &c.ReportPath} {
		expanded, err := utils.ExpandHome(*p)
		if err != nil {
			return nil, err
		}
		*p = expanded
	}
	return &c, nil
}

// normalize drops blank list entries such as those produced by "a,,b".
func (c *Global) normalize() {
	c.IDCols = compact(c.IDCols)
	c.CategoryPlotCols = compact(c.CategoryPlotCols)
}

// FiguresPath is FiguresDir, or reports_dir/figures when unset.
func (c *Global) FiguresPath() string {
	if c.FiguresDir != "" {
		return c.FiguresDir
	}
	return filepath.Join(c.ReportsDir, "figures")
}

// ReportFilePath is ReportPath, or reports_dir/eda_findings.md when unset.
func (c *Global) ReportFilePath() string {
	if c.ReportPath != "" {
		return c.ReportPath
	}
	return filepath.Join(c.ReportsDir, "eda_findings.md")
}

var validate = validator.New()

// Validate checks required keys and enumerations.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed '%s'", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// CleaningOptions maps the schema keys onto the cleaner's options.
func (c *Global) CleaningOptions() cleaning.Options {
	return cleaning.Options{
		TargetColumn:      c.TargetCol,
		IDColumns:         c.IDCols,
		NumericTextColumn: c.TotalChargesCol,
	}
}

// NumericCols are the columns compared between churned and retained customers.
func (c *Global) NumericCols() []string {
	return compact([]string{c.TenureCol, c.MonthlyChargesCol, c.TotalChargesCol})
}

// ReportOptions maps the schema keys onto the report builder's options.
func (c *Global) ReportOptions() report.Options {
	var groups []report.Grouping
	for _, g := range []report.Grouping{
		{Column: c.ContractCol, Label: "Contract"},
		{Column: c.PaymentMethodCol, Label: "Payment Method"},
		{Column: c.InternetServiceCol, Label: "Internet Service"},
	} {
		if g.Column != "" {
			groups = append(groups, g)
		}
	}
	return report.Options{
		DataPath:       c.DataPath,
		Target:         c.TargetCol,
		Positive:       cleaning.Positive,
		Negative:       cleaning.Negative,
		Groupings:      groups,
		NumericColumns: c.NumericCols(),
	}
}

// PlotColumns returns the columns the plot generator charts.
func (c *Global) PlotColumns() plots.Selection {
	return plots.Selection{Categorical: c.CategoryPlotCols, Numeric: c.NumericCols()}
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
