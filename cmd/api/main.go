// @title                       Postboard API
// @version                     1.0
// @description                 Members register, sign in, read posts and keep one comment per post.
// @host                        localhost:8080
// @BasePath                    /api
// @securityDefinitions.apikey  BearerAuth
// @in                          header
// @name                        Authorization
// @description                 Type "Bearer" followed by a space and the token.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/sirpyerre/postboard/internal/api"
	mongodb "github.com/sirpyerre/postboard/internal/infrastructure/db/mongo"
	redisdb "github.com/sirpyerre/postboard/internal/infrastructure/db/redis"
	"github.com/sirpyerre/postboard/internal/pkg/config"
	"github.com/sirpyerre/postboard/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "postboard: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// A missing .env is fine; the real environment still applies.
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.New(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty || cfg.IsDevelopment(),
		Service: "postboard",
		Env:     cfg.Env,
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Warn().Err(err).Msg("mongo disconnect")
		}
	}()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return err
	}
	defer rdb.Close()

	deps, err := api.NewDependencies(db, rdb, cfg, log)
	if err != nil {
		return err
	}
	trusted, err := cfg.HTTP.TrustedProxyNets()
	if err != nil {
		return err
	}

	e := api.NewRouter(deps, api.Options{
		APIPrefix:      cfg.HTTP.APIPrefix,
		AssetsDir:      cfg.HTTP.AssetsDir,
		AuthRateLimit:  cfg.HTTP.AuthRateLimit,
		AuthRateBurst:  cfg.HTTP.AuthRateBurst,
		TrustedProxies: trusted,
		MetricsEnabled: true,
		Logger:         log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("port", cfg.Port).Str("prefix", cfg.HTTP.APIPrefix).Msg("server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownGrace)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	log.Info().Msg("server stopped")
	return nil
}
