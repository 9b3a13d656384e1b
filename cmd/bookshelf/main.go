package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/deppfellow/bookshelf/internal/config"
	"github.com/deppfellow/bookshelf/internal/handler"
	"github.com/deppfellow/bookshelf/internal/logger"
	"github.com/deppfellow/bookshelf/internal/repository"
	"github.com/deppfellow/bookshelf/internal/router"
	"github.com/deppfellow/bookshelf/internal/server"
	"github.com/deppfellow/bookshelf/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	defer loggerService.Shutdown()

	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize server")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos := repository.NewRepositories(srv)

	seeded, err := repos.Book.EnsureSeeded(log.WithContext(ctx))
	if err != nil {
		log.Warn().Err(err).Str("path", repos.Book.Path()).Msg("failed to seed book store, continuing")
	} else if seeded {
		log.Info().Str("path", repos.Book.Path()).Msg("seeded book store")
	}

	services, err := service.NewServices(srv, repos)
	if err != nil {
		log.Fatal().Err(err).Msg("could not create services")
	}

	handlers := handler.NewHandlers(srv, services, repos.Book)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			return
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exited properly")
}
