package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/polypack/pkg/catalogue"
	pkgio "github.com/matzehuels/polypack/pkg/io"
	"github.com/matzehuels/polypack/pkg/pipeline"
	"github.com/matzehuels/polypack/pkg/store"
)

// enumerateCommand creates the enumerate command.
func (c *CLI) enumerateCommand() *cobra.Command {
	var (
		flags  catalogueFlags
		output string
		format string
		dbPath string
	)

	cmd := &cobra.Command{
		Use:   "enumerate",
		Short: "Enumerate free polyominoes and build the hole-free catalogue",
		Long: `Enumerate every free polyomino up to --max-k cells, identify rotations and
reflections, and drop the shapes that enclose a hole (unless --include-holes).

The catalogue is cached, so later runs with the same size and hole policy are
instant. Use -o to export it as JSON or YAML and --db to store it in SQLite.`,
		Example: `  polypack enumerate -k 8
  polypack enumerate -k 12 -o catalogue.json
  polypack enumerate -k 10 --format yaml -o catalogue.yaml --db catalogue.db`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := flags.resolve(cmd, c.cfg.Catalogue, c.Logger)
			if format == "" {
				format = formatFromPath(output)
			}
			if err := pipeline.ValidateFormat(format); err != nil {
				return err
			}
			return c.runEnumerate(cmd.Context(), opts, flags.noCache, output, format, dbPath)
		},
	}

	flags.register(cmd, pipeline.DefaultMaxK)
	cmd.Flags().StringVarP(&output, "output", "o", "", "export the catalogue to this file")
	cmd.Flags().StringVarP(&format, "format", "f", "", "export format: json (default), yaml")
	cmd.Flags().StringVar(&dbPath, "db", "", "also store the catalogue in this SQLite database")

	return cmd
}

// formatFromPath picks the export format from a file extension.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return pipeline.FormatYAML
	default:
		return pipeline.FormatJSON
	}
}

func (c *CLI) runEnumerate(ctx context.Context, opts pipeline.Options, noCache bool, output, format, dbPath string) error {
	cat, cached, err := c.loadCatalogue(ctx, opts, noCache)
	if err != nil {
		return err
	}

	printSuccess("Catalogue up to size %d", cat.MaxK)
	printStats(cat.Total(), len(cat.Classes), cached)

	if output != "" {
		if err := exportCatalogue(cat, output, format); err != nil {
			return err
		}
		printFile(output)
	}

	if dbPath != "" {
		if err := saveToStore(ctx, cat, dbPath); err != nil {
			return err
		}
		printFile(dbPath)
	}

	if output == "" && dbPath == "" {
		printNewline()
		fmt.Println(countsTable(cat.Counts(), nil))
	}

	printNewline()
	printNextStep("Generate test cases", fmt.Sprintf("%s generate --max-k %d", appName, cat.MaxK))
	return nil
}

// loadCatalogue builds or loads the catalogue behind a spinner.
func (c *CLI) loadCatalogue(ctx context.Context, opts pipeline.Options, noCache bool) (*catalogue.Catalogue, bool, error) {
	runner, err := c.newRunner(ctx, noCache, nil)
	if err != nil {
		return nil, false, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Enumerating polyominoes up to size %d...", opts.MaxK))
	if c.hooks != nil {
		c.hooks.listen(func(size, count int) {
			spinner.SetMessage(fmt.Sprintf("Enumerating polyominoes up to size %d... size %d: %d shapes", opts.MaxK, size, count))
		})
		defer c.hooks.listen(nil)
	}
	spinner.Start()

	cat, info, err := runner.Catalogue(ctx, opts)
	if err != nil {
		spinner.StopWithError("Enumeration failed")
		return nil, false, err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return nil, false, ctx.Err()
	}
	prog.done(fmt.Sprintf("Catalogue ready: %d shapes", cat.Total()))
	return cat, info.CatalogueHit, nil
}

func exportCatalogue(cat *catalogue.Catalogue, path, format string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	switch format {
	case pipeline.FormatYAML:
		return pkgio.ExportYAML(cat, path)
	default:
		return pkgio.ExportJSON(cat, path)
	}
}

func saveToStore(ctx context.Context, cat *catalogue.Catalogue, path string) error {
	s, err := store.Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.SaveCatalogue(ctx, cat)
}
