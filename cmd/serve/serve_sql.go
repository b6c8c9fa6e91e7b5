package serve

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/peterbourgon/ff/v3"
	"github.com/peterbourgon/ff/v3/ffcli"
	"golang.org/x/sync/errgroup"

	"github.com/vesfx/tasas/pipeline"

	"github.com/vesfx/tasas/cmd/env"
	"github.com/vesfx/tasas/server"
	"github.com/vesfx/tasas/server/config"
	"github.com/vesfx/tasas/storage"
	"github.com/vesfx/tasas/storage/cache"
	"github.com/vesfx/tasas/storage/sql"
)

type serveSQLCfg struct {
	rootCfg *serveCfg
}

// newServeSQLCmd creates the serve sql command
func newServeSQLCmd(rootCfg *serveCfg) *ffcli.Command {
	cfg := &serveSQLCfg{
		rootCfg: rootCfg,
	}

	fs := flag.NewFlagSet("sql", flag.ExitOnError)
	cfg.rootCfg.registerFlags(fs)

	return &ffcli.Command{
		Name:       "sql",
		ShortUsage: "serve sql [flags]",
		LongHelp:   "Serves the tasas backend, using an SQL datastore",
		FlagSet:    fs,
		Exec:       cfg.exec,
		Options: []ff.Option{
			// Allow using ENV variables
			ff.WithEnvVars(),
			ff.WithEnvVarPrefix(env.Prefix),
		},
	}
}

// exec executes the server serve command
func (c *serveSQLCfg) exec(ctx context.Context, _ []string) error {
	// Read the server configuration, if any
	if c.rootCfg.configPath != "" {
		serverCfg, err := config.Read(c.rootCfg.configPath)
		if err != nil {
			return fmt.Errorf("unable to read server config, %w", err)
		}

		c.rootCfg.config = serverCfg
	}

	// Create a new logger
	logger := newLogger(c.rootCfg.logFile)

	// Load .env
	if err := godotenv.Load(); err != nil {
		logger.Warn("unable to load .env file")
	}

	// DB
	dsn := os.Getenv(env.Prefix + env.DBURLSuffix)
	if dsn == "" {
		return fmt.Errorf("missing %s", env.Prefix+env.DBURLSuffix)
	}

	// Open the DB pool. It lives for the whole process
	pool, err := sql.NewPool(ctx, dsn)
	if err != nil {
		return fmt.Errorf("unable to open DB pool: %w", err)
	}
	defer pool.Close()

	logger.Info("DB ping success")

	// Create the SQL store
	var store storage.Storage = sql.NewStorage(pool)

	// Wrap it with the Redis read cache, if configured
	if c.rootCfg.redisAddr != "" {
		cached, err := cache.NewStorage(ctx, store, c.rootCfg.redisAddr)
		if err != nil {
			return fmt.Errorf("unable to set up redis cache: %w", err)
		}

		defer func() {
			if err := cached.Close(); err != nil {
				logger.Error(
					"unable to gracefully close redis cache",
					"err", err,
				)
			}
		}()

		store = cached

		logger.Info("redis cache enabled", "addr", c.rootCfg.redisAddr)
	}

	// Create the collection scheduler
	scheduler := pipeline.NewScheduler(pipeline.WithLogger(logger))

	err = scheduler.Register(
		c.rootCfg.newPipeline(store, logger),
		c.rootCfg.interval,
	)
	if err != nil {
		return fmt.Errorf("unable to register pipeline: %w", err)
	}

	// Create the server instance
	s, err := server.New(
		store,
		server.WithLogger(logger),
		server.WithConfig(c.rootCfg.config),
	)
	if err != nil {
		return fmt.Errorf("unable to create server, %w", err)
	}

	runCtx, cancelFn := signal.NotifyContext(
		ctx,
		os.Interrupt,
		syscall.SIGINT,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)

	defer cancelFn()

	group, gCtx := errgroup.WithContext(runCtx)

	// Start the HTTP server
	group.Go(func() error {
		return s.Serve(gCtx)
	})

	// Start the collection scheduler
	group.Go(func() error {
		return scheduler.Start(gCtx)
	})

	return group.Wait()
}
