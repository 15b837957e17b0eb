package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/majjacz/Kumiko-Designer-sub000/internal/api"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/cache"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/pipeline"
	"github.com/majjacz/Kumiko-Designer-sub000/pkg/store"
)

// shutdownTimeout bounds how long in-flight requests may run after the
// server receives a termination signal.
const shutdownTimeout = 10 * time.Second

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr      string // listen address
	redisAddr string // Redis cache address; empty uses the file cache
	mongoURI  string // MongoDB store URI; empty uses the file store
	noCache   bool   // disable caching entirely
}

// serveCommand creates the serve command for running the HTTP API.
//
// By default the server uses the local file cache and file store. Pass
// --redis and --mongo (or configure them in config.toml) to run against
// shared backends.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{
		addr:      c.Config.Serve.Addr,
		redisAddr: c.Config.Serve.RedisAddr,
		mongoURI:  c.Config.Serve.MongoURI,
	}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redisAddr, "redis", opts.redisAddr, "Redis address for the artifact cache")
	cmd.Flags().StringVar(&opts.mongoURI, "mongo", opts.mongoURI, "MongoDB URI for the design store")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, opts *serveOpts) error {
	cc, err := c.serveCache(ctx, opts)
	if err != nil {
		return err
	}

	st, err := c.serveStore(ctx, opts)
	if err != nil {
		return err
	}
	defer st.Close(context.Background())

	runner := pipeline.NewRunner(cc, nil, c.Logger)
	defer runner.Close()

	srv := &http.Server{
		Addr:              opts.addr,
		Handler:           api.NewServer(st, runner, c.Logger).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", opts.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	c.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// serveCache builds the server's cache backend: Redis when configured,
// otherwise the local file cache.
func (c *CLI) serveCache(ctx context.Context, opts *serveOpts) (cache.Cache, error) {
	if opts.noCache {
		return cache.NewNullCache(), nil
	}
	if opts.redisAddr != "" {
		c.Logger.Info("using Redis cache", "addr", opts.redisAddr)
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     opts.redisAddr,
			Password: c.Config.Serve.RedisPassword,
			DB:       c.Config.Serve.RedisDB,
		})
	}
	return c.newCache(false)
}

// serveStore builds the server's design store: MongoDB when configured,
// otherwise the local file store.
func (c *CLI) serveStore(ctx context.Context, opts *serveOpts) (store.Store, error) {
	if opts.mongoURI != "" {
		c.Logger.Info("using MongoDB store", "uri", opts.mongoURI)
		return store.NewMongoStore(ctx, store.MongoConfig{
			URI:      opts.mongoURI,
			Database: c.Config.Serve.MongoDatabase,
		})
	}
	st, err := c.newStore()
	if err != nil {
		return nil, err
	}
	return st, nil
}
