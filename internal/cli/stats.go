package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/polypack/pkg/store"
)

// statsCommand creates the stats command.
func (c *CLI) statsCommand() *cobra.Command {
	var (
		flags  catalogueFlags
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show enumerated and hole-free counts per size",
		Long: `Show how many free polyominoes exist for every size up to --max-k, and how
many of them are hole-free. With --db the counts are read from a catalogue
stored by 'enumerate --db' instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dbPath != "" {
				return c.runStatsFromStore(cmd.Context(), dbPath)
			}
			opts := flags.resolve(cmd, c.cfg.Catalogue, c.Logger)
			opts.IncludeHoles = false
			cat, cached, err := c.loadCatalogue(cmd.Context(), opts, flags.noCache)
			if err != nil {
				return err
			}
			printStats(cat.Total(), len(cat.Classes), cached)
			printNewline()
			fmt.Println(countsTable(cat.Counts(), cat.Enumerated))
			return nil
		},
	}

	flags.register(cmd, browseMaxK)
	cmd.Flags().StringVar(&dbPath, "db", "", "read counts from this SQLite database")

	return cmd
}

func (c *CLI) runStatsFromStore(ctx context.Context, path string) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()

	counts, err := s.Counts(ctx)
	if err != nil {
		return err
	}
	if len(counts) == 0 {
		printWarning("No catalogue stored in %s", path)
		return nil
	}
	kept := make([]int, len(counts))
	enumerated := make([]int, len(counts))
	for i, cc := range counts {
		kept[i] = cc.Kept
		enumerated[i] = cc.Enumerated
	}
	printInfo("Catalogue %s", path)
	printNewline()
	fmt.Println(countsTable(kept, enumerated))
	return nil
}
