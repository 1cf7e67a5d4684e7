package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/polypack/pkg/catalogue"
	perrors "github.com/matzehuels/polypack/pkg/errors"
	pkgio "github.com/matzehuels/polypack/pkg/io"
	"github.com/matzehuels/polypack/pkg/pipeline"
	"github.com/matzehuels/polypack/pkg/polyomino"
	"github.com/matzehuels/polypack/pkg/store"
)

// showCommand creates the show command.
func (c *CLI) showCommand() *cobra.Command {
	var (
		flags   catalogueFlags
		src     catalogueSource
		limit   int
		columns int
	)

	cmd := &cobra.Command{
		Use:   "show <size>",
		Short: "Draw the catalogued polyominoes of one size",
		Long: `Draw every catalogued polyomino with the given number of cells as ASCII art,
in canonical form and catalogue order. --max-k defaults to the size itself.`,
		Example: `  polypack show 5
  polypack show 7 --include-holes
  polypack show 6 --from catalogue.json
  polypack show 6 --db catalogue.db`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.Atoi(args[0])
			if err != nil || size < 1 {
				return perrors.New(perrors.ErrCodeInvalidArgument, "size must be a positive integer, got %q", args[0])
			}
			opts := flags.resolve(cmd, c.cfg.Catalogue, c.Logger)
			if !cmd.Flags().Changed("max-k") {
				opts.MaxK = size
			}
			cat, err := c.catalogueFrom(cmd.Context(), src, opts, flags.noCache)
			if err != nil {
				return err
			}
			if size > cat.MaxK {
				return perrors.New(perrors.ErrCodeNotFound, "size %d is outside the catalogue 1..%d", size, cat.MaxK)
			}

			shapes := cat.Size(size)
			printInfo("%d polyominoes of size %d", len(shapes), size)
			printNewline()
			if limit > 0 && limit < len(shapes) {
				shapes = shapes[:limit]
			}
			fmt.Print(drawShapes(shapes, columns))
			return nil
		},
	}

	flags.register(cmd, browseMaxK)
	src.register(cmd)
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "draw at most this many shapes (0: all)")
	cmd.Flags().IntVar(&columns, "columns", 8, "shapes per row")

	return cmd
}

// catalogueSource selects a saved catalogue instead of enumerating one.
type catalogueSource struct {
	from string // JSON export
	db   string // SQLite store written by 'enumerate --db'
}

func (s *catalogueSource) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.from, "from", "", "read the catalogue from a JSON export instead of enumerating")
	cmd.Flags().StringVar(&s.db, "db", "", "read the catalogue from a SQLite database instead of enumerating")
	cmd.MarkFlagsMutuallyExclusive("from", "db")
}

// catalogueFrom loads the catalogue from src when it names one and builds it
// otherwise.
func (c *CLI) catalogueFrom(ctx context.Context, src catalogueSource, opts pipeline.Options, noCache bool) (*catalogue.Catalogue, error) {
	var (
		cat *catalogue.Catalogue
		err error
	)
	switch {
	case src.from != "":
		cat, err = pkgio.ImportJSON(src.from)
	case src.db != "":
		cat, err = loadFromStore(ctx, src.db)
	default:
		cat, _, err = c.loadCatalogue(ctx, opts, noCache)
		return cat, err
	}
	if err != nil {
		return nil, err
	}
	c.Logger.Debug("loaded catalogue", "from", src.from, "db", src.db, "max_k", cat.MaxK, "shapes", cat.Total())
	return cat, nil
}

func loadFromStore(ctx context.Context, path string) (*catalogue.Catalogue, error) {
	s, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return s.LoadCatalogue(ctx)
}

var (
	shapeStyle = lipgloss.NewStyle().Foreground(colorCyan).MarginRight(3)
	labelStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// drawShapes lays shapes out in rows of columns, each labelled with its
// catalogue index.
func drawShapes(shapes []polyomino.Shape, columns int) string {
	if columns < 1 {
		columns = 1
	}
	var b strings.Builder
	for start := 0; start < len(shapes); start += columns {
		end := min(start+columns, len(shapes))
		blocks := make([]string, 0, end-start)
		for i := start; i < end; i++ {
			blocks = append(blocks, shapeStyle.Render(
				labelStyle.Render(fmt.Sprintf("#%d", i+1))+"\n"+shapes[i].String()))
		}
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, blocks...))
		b.WriteString("\n\n")
	}
	return b.String()
}
