package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/polypack/pkg/pipeline"
)

const (
	// DefaultMaxK caps max_k for API requests.
	DefaultMaxK = 12

	// DefaultAddr is the listen address of the serve command.
	DefaultAddr = ":8080"

	maxBodyBytes    = 1 << 20
	shutdownTimeout = 10 * time.Second
)

// Options configures the API.
type Options struct {
	// MaxK is the largest max_k a request may ask for. Zero means DefaultMaxK.
	MaxK int

	// Workers and MaxShapes are passed to catalogue builds.
	Workers   int
	MaxShapes int

	Logger *log.Logger
}

func (o Options) withDefaults() Options {
	if o.MaxK <= 0 {
		o.MaxK = DefaultMaxK
	}
	if o.Logger == nil {
		o.Logger = log.Default()
	}
	return o
}

type handler struct {
	runner *pipeline.Runner
	opts   Options
}

// NewRouter returns the API handler.
func NewRouter(runner *pipeline.Runner, opts Options) http.Handler {
	h := &handler{runner: runner, opts: opts.withDefaults()}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(h.observe)

	r.Get("/healthz", h.health)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/catalogue", h.catalogue)
		r.Get("/catalogue/{size}", h.sizeClass)
		r.Post("/cases", h.cases)
	})
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// ListenAndServe serves h on addr until ctx is done, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler, logger *log.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
