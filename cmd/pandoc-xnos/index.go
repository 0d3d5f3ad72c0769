// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/alexstoick/pandoc-xnos/internal/diag"
	"github.com/alexstoick/pandoc-xnos/internal/filterio"
	"github.com/alexstoick/pandoc-xnos/internal/labelstore"
	"github.com/alexstoick/pandoc-xnos/pkg/refs"
	"github.com/alexstoick/pandoc-xnos/pkg/types"
)

var indexCmd = &cobra.Command{
	Use:   "index [document.json...]",
	Short: "Maintain the cross-document label index",
	Long: `Index scans pandoc JSON documents (as produced by pandoc -t json) for
labelled figures, equations, and tables and stores each document's label
table in a SQLite database, so multi-document builds can check where a
label is defined.

With --lookup, index prints every document defining the given label instead
of scanning. With --export, it dumps the whole index as YAML.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := labelstore.Open(indexConfig())
		if err != nil {
			return err
		}
		defer store.Close()

		ctx := cmd.Context()

		if label, _ := cmd.Flags().GetString("lookup"); label != "" {
			occurrences, err := store.Lookup(ctx, label)
			if err != nil {
				return err
			}
			if len(occurrences) == 0 {
				return fmt.Errorf("label %q not found in index", label)
			}
			for _, o := range occurrences {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d\n", o.DocID, o.Label, o.Ordinal)
			}
			return nil
		}

		if export, _ := cmd.Flags().GetBool("export"); export {
			return store.ExportYAML(ctx, cmd.OutOrStdout())
		}

		if len(args) == 0 {
			return fmt.Errorf("nothing to do: pass documents to scan, --lookup, or --export")
		}

		rep := diag.Default("pandoc-xnos")
		kinds := filterConfig().ActiveKinds()
		for _, path := range args {
			if err := indexDocument(cmd, store, path, kinds, rep); err != nil {
				return err
			}
		}
		return nil
	},
}

// indexDocument scans one pandoc JSON file and stores its label tables.
func indexDocument(cmd *cobra.Command, store *labelstore.Store, path string, kinds []types.KindConfig, rep *diag.Reporter) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	doc, err := filterio.Read(f)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	docID := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	total := 0
	for _, kind := range kinds {
		table := refs.Scan(doc.Blocks, kind.Prefix, rep.Warnf)
		if err := store.Put(cmd.Context(), docID, path, kind.Prefix, table); err != nil {
			return fmt.Errorf("indexing %s: %w", path, err)
		}
		total += table.Len()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "indexed: %s (%d labels)\n", docID, total)
	return nil
}

// indexConfig assembles the label index settings from viper.
func indexConfig() types.IndexConfig {
	return types.IndexConfig{
		IndexDir: viper.GetString("index.index_dir"),
	}
}

func init() {
	indexCmd.Flags().String("lookup", "", "print the documents defining a label")
	indexCmd.Flags().Bool("export", false, "dump the whole index as YAML")

	rootCmd.AddCommand(indexCmd)
}
