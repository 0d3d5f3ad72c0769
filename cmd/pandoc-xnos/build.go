// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexstoick/pandoc-xnos/internal/harness"
	"github.com/alexstoick/pandoc-xnos/pkg/types"
)

var buildCmd = &cobra.Command{
	Use:   "build [source]",
	Short: "Run pandoc over the source for every target output format",
	Long: `Build invokes pandoc once per target format with this filter on the chain,
writing one output file per format into the output directory. Targets whose
output already exists are skipped unless --force is given. Any pandoc
failure fails the build; remaining targets still run so one broken writer
does not hide the others.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := buildConfig(cmd, args)
		_, err := harness.Run(cfg, cmd.OutOrStdout())
		return err
	},
}

// buildConfig merges viper settings with command line flags; flags win.
func buildConfig(cmd *cobra.Command, args []string) types.BuildConfig {
	cfg := types.BuildConfig{
		Source:    viper.GetString("build.source"),
		OutputDir: viper.GetString("build.output_dir"),
		Formats:   viper.GetStringSlice("build.formats"),
		Filter:    viper.GetString("build.filter"),
	}
	if len(args) == 1 {
		cfg.Source = args[0]
	}
	if v, _ := cmd.Flags().GetString("output-dir"); v != "" {
		cfg.OutputDir = v
	}
	if v, _ := cmd.Flags().GetStringSlice("formats"); len(v) > 0 {
		cfg.Formats = v
	}
	if v, _ := cmd.Flags().GetString("filter"); v != "" {
		cfg.Filter = v
	}
	cfg.Force, _ = cmd.Flags().GetBool("force")
	return cfg
}

func init() {
	buildCmd.Flags().String("output-dir", "", "directory for built documents (default \"out\")")
	buildCmd.Flags().StringSlice("formats", nil, "target formats to build (default all: pdf, latex, html, epub, markdown, json)")
	buildCmd.Flags().String("filter", "", "filter executable for the pandoc chain (default: this binary)")
	buildCmd.Flags().Bool("force", false, "rebuild targets whose output already exists")

	rootCmd.AddCommand(buildCmd)
}
