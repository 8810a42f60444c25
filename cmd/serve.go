package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"microblog/internal/avatar"
	"microblog/internal/config"
	"microblog/internal/handlers"
	"microblog/internal/logger"
	"microblog/internal/repository"
	"microblog/internal/repository/db"
	"microblog/internal/seed"
	"microblog/internal/server"
	"microblog/internal/service"
	"microblog/internal/session"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	repos, closeStore, err := openStore(cfg.Store, log)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.Seed.Path != "" {
		if err := applySeed(cmd.Context(), cfg.Seed.Path, repos, log); err != nil {
			return err
		}
	}

	codec, err := session.NewCodec(cfg.Session.Secret, cfg.Session.TTL)
	if err != nil {
		return fmt.Errorf("session codec: %w", err)
	}
	renderer, err := avatar.NewRenderer()
	if err != nil {
		return fmt.Errorf("avatar renderer: %w", err)
	}

	var limiter *handlers.IPRateLimiter
	sweepers := map[string]service.Sweeper{}
	if cfg.RateLimit.PerMinute > 0 {
		limiter = handlers.NewIPRateLimiter(rate.Limit(cfg.RateLimit.PerMinute/60.0), cfg.RateLimit.Burst)
		sweepers["auth_ratelimit"] = limiter
	}

	// wire dependencies
	services := service.NewService(repos, service.Deps{
		SessionStore: session.NewMemoryStore(),
		Codec:        codec,
		Avatars:      renderer,
		Log:          log,
		Sweepers:     sweepers,
	})
	h := handlers.NewHandler(services, log,
		handlers.WithCookie(handlers.CookieConfig{
			Name:   cfg.Session.CookieName,
			TTL:    cfg.Session.TTL,
			Secure: cfg.Session.Secure,
		}),
		handlers.WithAuthRateLimit(limiter),
	)

	// context for background goroutines
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go services.Janitor.Run(ctx, cfg.Session.SweepInterval)

	srv := server.New(cfg.Port, h.InitRoutes())
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()
	log.Infow("server started", "addr", server.Addr(cfg.Port), "store", cfg.Store.Driver)

	return waitForShutdown(cancel, srv, errCh, log)
}

// openStore builds the repositories for the configured driver and returns a closer.
func openStore(cfg config.StoreConfig, log *logger.Logger) (*repository.Repository, func(), error) {
	if cfg.Driver == config.DriverMemory {
		return repository.NewMemoryRepository(), func() {}, nil
	}

	dsn := cfg.DSN
	if dsn == "" {
		dsn = db.MemoryDSN
	}
	conn, err := db.InitDB(dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("init sqlite: %w", err)
	}
	closeFn := func() {
		if err := conn.Close(); err != nil {
			log.Errorw("failed to close sqlite", "err", err)
		}
	}
	return repository.NewRepository(conn), closeFn, nil
}

func applySeed(ctx context.Context, path string, repos *repository.Repository, log *logger.Logger) error {
	f, err := seed.Load(path)
	if err != nil {
		return err
	}
	res, err := seed.Apply(ctx, f, repos)
	if err != nil {
		return err
	}
	log.Infow("seed applied", "path", path, "users", res.Users, "posts", res.Posts)
	return nil
}

// waitForShutdown blocks until a termination signal or a server failure, then stops everything.
func waitForShutdown(cancel context.CancelFunc, srv *server.Server, errCh <-chan error, log *logger.Logger) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		cancel()
		if err != nil {
			return fmt.Errorf("server: %w", err)
		}
		return nil
	case <-quit:
	}

	log.Infow("shutting down server...")
	cancel()

	ctx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
