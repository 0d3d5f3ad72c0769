// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pandoc-xnos CLI. Invoked with a
// single format argument, as pandoc does for programs on its --filter chain,
// it acts as the reference-resolution filter; subcommands expose the build
// harness, the label index, and metadata inspection.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexstoick/pandoc-xnos/internal/diag"
	"github.com/alexstoick/pandoc-xnos/internal/filter"
	"github.com/alexstoick/pandoc-xnos/internal/filterio"
	"github.com/alexstoick/pandoc-xnos/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command. Pandoc runs filters as "prog FORMAT" with the
// document on stdin, so the root command is the filter itself.
var rootCmd = &cobra.Command{
	Use:   "pandoc-xnos [format]",
	Short: "Pandoc filter resolving figure, equation, and table references",
	Long: `pandoc-xnos numbers labelled figures, equations, and tables in a pandoc
document and replaces references to them (@fig:name) with rendered
cross-reference text for the target output format.

Run it on a pandoc filter chain:

  pandoc document.md --filter pandoc-xnos -o document.pdf

The build, index, and meta subcommands drive pandoc across output formats,
maintain a cross-document label index, and inspect document metadata.`,
	Args:         cobra.MaximumNArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		format := ""
		if len(args) == 1 {
			format = args[0]
		}
		return runFilter(cmd, format)
	},
}

// runFilter applies the reference filter to the document on stdin and writes
// the result to stdout.
func runFilter(cmd *cobra.Command, format string) error {
	doc, err := filterio.Read(cmd.InOrStdin())
	if err != nil {
		return err
	}

	cfg := filterConfig()
	rep := diag.Default("pandoc-xnos")
	if err := filter.Apply(doc, format, cfg, rep); err != nil {
		return err
	}
	return filterio.Write(cmd.OutOrStdout(), doc)
}

// filterConfig assembles the filter settings from viper.
func filterConfig() types.FilterConfig {
	cfg := types.FilterConfig{
		Cleveref:      viper.GetBool("filter.cleveref"),
		PandocVersion: viper.GetString("filter.pandoc_version"),
	}
	if err := viper.UnmarshalKey("filter.kinds", &cfg.Kinds); err != nil {
		fmt.Fprintf(os.Stderr, "ignoring malformed filter.kinds config: %v\n", err)
		cfg.Kinds = nil
	}
	return cfg
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pandoc-xnos.yaml or ~/.config/pandoc-xnos/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pandoc-xnos")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pandoc-xnos"))
		}
	}

	viper.SetEnvPrefix("PANDOC_XNOS")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
