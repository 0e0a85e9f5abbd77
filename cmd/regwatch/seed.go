package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/regwatch/regwatch-mcp/internal/lawstore"
)

func newSeedCmd() *cobra.Command {
	var keep bool

	cmd := &cobra.Command{
		Use:   "seed [dir]",
		Short: "Load curated law documents into the embedded database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.SeedDir
			if len(args) == 1 {
				dir = args[0]
			}

			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			store, err := lawstore.Open(cfg.DBPath)
			if err != nil {
				return fmt.Errorf("open law store: %w", err)
			}
			defer store.Close()

			stats, err := store.SeedDir(cmd.Context(), dir, !keep)
			if err != nil {
				return err
			}

			fmt.Printf("Seeded %d file(s) from %s into %s\n", stats.Files, dir, cfg.DBPath)
			fmt.Printf("  Laws: %d\n", stats.Laws)
			fmt.Printf("  Obligations: %d\n", stats.Obligations)
			fmt.Printf("  Change log entries: %d\n", stats.Changes)
			return nil
		},
	}

	cmd.Flags().BoolVar(&keep, "keep", false, "keep existing rows instead of rebuilding the tables")
	return cmd
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [dir]",
		Short: "Validate curated law documents without writing the database",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := cfg.SeedDir
			if len(args) == 1 {
				dir = args[0]
			}

			paths, err := lawstore.SeedDocuments(dir)
			if err != nil {
				return err
			}
			fmt.Printf("Validating %d seed file(s) in %s\n\n", len(paths), dir)

			failures := 0
			for _, path := range paths {
				name := filepath.Base(path)

				doc, err := lawstore.LoadSeedDocument(path)
				if err != nil {
					fmt.Printf("  FAIL %s: %v\n", name, err)
					failures++
					continue
				}

				if issues := doc.Validate(); len(issues) > 0 {
					fmt.Printf("  FAIL %s:\n", name)
					for _, issue := range issues {
						fmt.Printf("       %s\n", issue)
					}
					failures++
					continue
				}

				fmt.Printf("  OK   %s (%s: %d obligations, %d changelog entries)\n",
					name, doc.Law.LawID, len(doc.Law.Obligations), len(doc.Law.ChangeLog))
			}

			fmt.Printf("\n%d/%d passed validation.\n", len(paths)-failures, len(paths))
			if failures > 0 {
				return fmt.Errorf("%d seed file(s) failed validation", failures)
			}
			return nil
		},
	}
}
