package main

import (
	"context"
	"errors"
	"log/slog"
	"main/internal/config"
	routes "main/internal/delivery/http"
	httpAuthHandler "main/internal/delivery/http/auth_handler"
	metrics "main/internal/metrics"
	sessionRepo "main/internal/storage/memory/session"
	userRepo "main/internal/storage/memory/user"
	authUs "main/internal/usecase/auth"
	errHandler "main/pkg/error_handler"
	"main/pkg/hasher"
	"main/pkg/token"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

func main() {
	config := config.LoadConfig()
	logger := setupLogger(config.Env)
	logger.Info("Application started", "env", config.Env)

	// Metrics registry shared by the repositories, the middleware, and the
	// /metrics endpoint.
	registry := prometheus.NewRegistry()
	m := metrics.NewMetrics(registry)

	// Initialize Echo
	e := echo.New()
	e.HTTPErrorHandler = errHandler.HandleError

	// Initialize repositories
	users := userRepo.NewUserRepo(m)
	sessions := sessionRepo.NewSessionRepo(m)

	// Initialize use cases
	authUsecase := authUs.NewAuthUsecase(
		users,
		sessions,
		hasher.New(),
		token.NewGenerator(config.SessionConfig.TokenSuffixLength),
		config.SessionConfig.TTL,
		logger,
		m,
	)

	// Initialize handlers and map routes
	authHandler := httpAuthHandler.NewAuthHandler(authUsecase)
	routes.MapRoutes(e, authHandler, authUsecase, logger, m, registry)

	serverParams := &http.Server{
		Addr:         net.JoinHostPort(config.Server.Host, strconv.Itoa(config.Server.Port)),
		Handler:      e,
		ReadTimeout:  config.Server.Timeout,
		WriteTimeout: config.Server.Timeout,
		IdleTimeout:  config.Server.IdleTimeout,
	}

	// Start the server and handle graceful shutdown. The application listens
	// for interrupt signals (like Ctrl+C) to initiate a graceful shutdown,
	// allowing ongoing requests to complete before the server is stopped.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("addr", serverParams.Addr))
		if err := e.StartServer(serverParams); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// Graceful shutdown
	g.Go(func() error {
		<-gCtx.Done()
		logger.Info("shutting down server...")

		shutDownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := e.Shutdown(shutDownCtx); err != nil {
			logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
			return err
		}

		logger.Info("Server stopped gracefully")
		return nil
	})

	// Wait for all goroutines to finish and check for errors
	if err := g.Wait(); err != nil {
		if !errors.Is(err, context.Canceled) {
			logger.Error("Application stopped with error", slog.Any("err", err))
			os.Exit(1)
		}
	}
}

// setupLogger configures the logger based on the environment (production, development, local).
func setupLogger(env string) *slog.Logger {
	var log *slog.Logger
	switch env {
	case "production":
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	case "development", "local":
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	default:
		log = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	}
	return log
}
