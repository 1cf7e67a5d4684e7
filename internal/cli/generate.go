package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/polypack/pkg/buildinfo"
	"github.com/matzehuels/polypack/pkg/pipeline"
	"github.com/matzehuels/polypack/pkg/sampler"
)

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var flags catalogueFlags
	opts := pipeline.GenerateOptions{
		Count:   pipeline.DefaultCount,
		Seed:    pipeline.DefaultSeed,
		OutDir:  pipeline.DefaultOutDir,
		Sampler: sampler.DefaultOptions(),
	}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate randomized packing test cases",
		Long: `Generate randomized test inputs for polyomino packing.

Each case i picks a maximum size k in [--min-pick, --max-pick] (clamped to
--max-k), a cell budget 10^p with p in [--min-exp, --max-exp], and draws
hole-free polyominoes of size <= k until the budget is reached. Case i uses
seed --seed + i, so every file can be reproduced on its own.

Files are written as <out>/<i>.in and <out>/<i>.ans with a manifest.json.`,
		Example: `  polypack generate
  polypack generate --count 5 --max-k 8 --out cases
  polypack generate --seed 7 --min-exp 1 --max-exp 3 --orient`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Options = flags.resolve(cmd, c.cfg.Catalogue, c.Logger)
			c.applyGenerateConfig(cmd, &opts)
			opts.Version = buildinfo.Version
			return c.runGenerate(cmd.Context(), opts, flags.noCache)
		},
	}

	flags.register(cmd, pipeline.DefaultMaxK)
	cmd.Flags().IntVarP(&opts.Count, "count", "n", opts.Count, "number of cases")
	cmd.Flags().StringVarP(&opts.OutDir, "out", "o", opts.OutDir, "output directory")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", opts.Seed, "base seed (case i uses seed+i)")
	cmd.Flags().IntVar(&opts.Sampler.MinPick, "min-pick", opts.Sampler.MinPick, "smallest maximum shape size")
	cmd.Flags().IntVar(&opts.Sampler.MaxPick, "max-pick", opts.Sampler.MaxPick, "largest maximum shape size")
	cmd.Flags().Float64Var(&opts.Sampler.MinExp, "min-exp", opts.Sampler.MinExp, "cell budget lower exponent (base 10)")
	cmd.Flags().Float64Var(&opts.Sampler.MaxExp, "max-exp", opts.Sampler.MaxExp, "cell budget upper exponent (base 10)")
	cmd.Flags().BoolVar(&opts.Sampler.Orient, "orient", false, "apply a random rotation or reflection to each shape")

	return cmd
}

func (c *CLI) applyGenerateConfig(cmd *cobra.Command, opts *pipeline.GenerateOptions) {
	g := c.cfg.Generate
	fromConfig(cmd, "count", &opts.Count, g.Count)
	fromConfig(cmd, "out", &opts.OutDir, g.Out)
	fromConfig(cmd, "seed", &opts.Seed, g.Seed)
	fromConfig(cmd, "min-pick", &opts.Sampler.MinPick, g.MinPick)
	fromConfig(cmd, "max-pick", &opts.Sampler.MaxPick, g.MaxPick)
	fromConfig(cmd, "min-exp", &opts.Sampler.MinExp, g.MinExp)
	fromConfig(cmd, "max-exp", &opts.Sampler.MaxExp, g.MaxExp)
	fromConfig(cmd, "orient", &opts.Sampler.Orient, g.Orient)
}

func (c *CLI) runGenerate(ctx context.Context, opts pipeline.GenerateOptions, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache, nil)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Generating %d cases...", opts.Count))
	spinner.Start()

	res, err := runner.Generate(ctx, opts)
	if err != nil {
		spinner.StopWithError("Generation failed")
		return err
	}
	spinner.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	printSuccess("Generated %d cases in %s", len(res.Manifest.Cases), opts.OutDir)
	printStats(res.Catalogue.Total(), len(res.Catalogue.Classes), res.CacheInfo.CatalogueHit)
	printKeyValue("Seed", fmt.Sprint(opts.Seed))
	printKeyValue("Shapes", fmt.Sprint(res.Stats.Shapes))
	printKeyValue("Cells", fmt.Sprint(res.Stats.Cells))
	printKeyValue("Catalogue", res.Stats.CatalogueTime.String())
	printKeyValue("Sampling", res.Stats.GenerateTime.String())
	printFile(res.ManifestPath)
	return nil
}
