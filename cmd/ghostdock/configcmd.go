package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/1broseidon/ghostdock/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect the configuration",
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := resolveConfigPath()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := loadConfig()
		if err != nil {
			return err
		}
		if res.File == "" {
			fmt.Fprintln(cmd.OutOrStdout(), "config: ok (no file, using defaults)")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "config: ok (%s)\n", res.File)
		return nil
	},
}

var configPrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// GetBool cannot fail for defined flags
		defaults, _ := cmd.Flags().GetBool("defaults")

		cfg := config.DefaultConfig()
		if !defaults {
			res, err := loadConfig()
			if err != nil {
				return err
			}
			cfg = res.Config
			if res.File != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# source: %s\n", res.File)
			}
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}

var configExplainCmd = &cobra.Command{
	Use:   "explain [path]",
	Short: "Show a config value and where it came from",
	Long:  `Without a path, lists every key. With a dotted path such as placement.margin, prints its effective value and source.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), strings.Join(config.Paths(), "\n"))
			return nil
		}
		res, err := loadConfig()
		if err != nil {
			return err
		}
		value, src, err := config.Explain(res, args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %v (%s)\n", args[0], value, src)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configValidateCmd, configPrintCmd, configExplainCmd)
	configPrintCmd.Flags().Bool("defaults", false, "print built-in defaults, ignoring the config file")
}
