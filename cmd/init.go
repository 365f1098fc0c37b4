package cmd

import (
	"fmt"
	"os"

	cfgpkg "github.com/KaramelBytes/churneda-cli/internal/config"
	"github.com/spf13/cobra"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path := cfgFile
		if path == "" {
			p, err := cfgpkg.DefaultPath()
			if err != nil {
				return err
			}
			path = p
		}
		// Refuse to overwrite an existing config.
		if _, err := os.Stat(path); err == nil && !initForce {
			return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
		} else if err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("stat config: %w", err)
		}
		if err := cfgpkg.Save(cfgpkg.Default(), path); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "✓ Config initialized: %s\n", path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
}
