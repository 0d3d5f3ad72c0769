// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"

	"github.com/alexstoick/pandoc-xnos/internal/diag"
	"github.com/alexstoick/pandoc-xnos/internal/filterio"
	"github.com/alexstoick/pandoc-xnos/pkg/ast"
)

var metaCmd = &cobra.Command{
	Use:   "meta [document.json]",
	Short: "Print a document's metadata as YAML",
	Long: `Meta reads a pandoc JSON document (a file argument, or stdin) and prints
its metadata block as YAML. Variables whose shape it cannot read are
reported and skipped.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening %s: %w", args[0], err)
			}
			defer f.Close()
			in = f
		}

		doc, err := filterio.Read(in)
		if err != nil {
			return err
		}

		rep := diag.Default("pandoc-xnos")
		names := make([]string, 0, len(doc.Meta))
		for name := range doc.Meta {
			names = append(names, name)
		}
		sort.Strings(names)

		out := make(map[string]any, len(names))
		for _, name := range names {
			v, err := ast.GetMeta(doc.Meta, name)
			if err != nil {
				rep.Warnf("skipping metadata variable: %v", err)
				continue
			}
			out[name] = v
		}

		data, err := yaml.Marshal(out)
		if err != nil {
			return fmt.Errorf("marshaling metadata: %w", err)
		}
		_, err = cmd.OutOrStdout().Write(data)
		return err
	},
}

func init() {
	rootCmd.AddCommand(metaCmd)
}
