package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/polypack/pkg/api"
	"github.com/matzehuels/polypack/pkg/cache"
	"github.com/matzehuels/polypack/pkg/observability"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
		apiOpts = api.Options{MaxK: api.DefaultMaxK}
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve catalogues and test cases over HTTP",
		Long: `Serve the catalogue and the case sampler as a JSON API.

Routes:
  GET  /healthz
  GET  /v1/catalogue?max_k=&include_holes=&shapes=
  GET  /v1/catalogue/{size}
  POST /v1/cases

--max-k caps the catalogue size a request may ask for.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fromConfig(cmd, "addr", &addr, c.cfg.Server.Addr)
			fromConfig(cmd, "max-k", &apiOpts.MaxK, c.cfg.Server.MaxK)
			fromConfig(cmd, "workers", &apiOpts.Workers, c.cfg.Catalogue.Workers)
			fromConfig(cmd, "max-shapes", &apiOpts.MaxShapes, c.cfg.Catalogue.MaxShapes)
			apiOpts.Logger = c.Logger
			return c.runServe(cmd.Context(), addr, apiOpts, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", api.DefaultAddr, "listen address")
	cmd.Flags().IntVarP(&apiOpts.MaxK, "max-k", "k", apiOpts.MaxK, "largest max_k a request may ask for")
	cmd.Flags().IntVar(&apiOpts.Workers, "workers", 0, "enumeration workers (default: GOMAXPROCS)")
	cmd.Flags().IntVar(&apiOpts.MaxShapes, "max-shapes", 0, "abort when a size class exceeds this many shapes")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, opts api.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache, cache.NewScopedKeyer(nil, "api:"))
	if err != nil {
		return err
	}
	defer runner.Close()

	counter := &requestCounter{}
	observability.SetHTTPHooks(counter)

	printInfo("Serving on %s (max_k <= %d)", addr, opts.MaxK)
	err = api.ListenAndServe(ctx, addr, api.NewRouter(runner, opts), c.Logger)
	c.Logger.Info("server stopped",
		"requests", counter.total.Load(),
		"client_errors", counter.client.Load(),
		"server_errors", counter.failed.Load())
	return err
}
