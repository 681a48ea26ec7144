package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/storybeats-labs/storybeats/internal/adapters/ollama"
	"github.com/storybeats-labs/storybeats/internal/adapters/rest"
	"github.com/storybeats-labs/storybeats/internal/adapters/spotify"
	"github.com/storybeats-labs/storybeats/internal/adapters/sqlite"
	"github.com/storybeats-labs/storybeats/internal/config"
	"github.com/storybeats-labs/storybeats/internal/core/services"
	"github.com/storybeats-labs/storybeats/internal/worker"
)

func main() {
	// 1. Configuration
	// It's best practice to crash early if required config is missing.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("FATAL: %v", err)
	}

	logger := newLogger(cfg.Log)

	// 2. Initialize "Driven" Adapters (The Tools)
	// -- Feedback Store
	store, err := sqlite.NewAdapter(cfg.Storage.Path, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize database")
	}
	defer store.Close()

	// -- Song Catalog
	catalog := spotify.NewClient(spotify.Config{
		ClientID:        cfg.Catalog.ClientID,
		ClientSecret:    cfg.Catalog.ClientSecret,
		TokenURL:        cfg.Catalog.TokenURL,
		BaseURL:         cfg.Catalog.BaseURL,
		Timeout:         cfg.Catalog.Timeout,
		MaxRetries:      cfg.Catalog.MaxRetries,
		BaseBackoff:     cfg.Catalog.BaseBackoff,
		RateEvery:       cfg.Catalog.RateEvery,
		RateBurst:       cfg.Catalog.RateBurst,
		BreakerFailures: cfg.Catalog.BreakerFailures,
		BreakerCooldown: cfg.Catalog.BreakerCooldown,
	}, logger)

	// -- Vision Model
	// One Ollama client serves both photo analysis and batch reranking.
	vision := ollama.NewClient(ollama.Config{
		BaseURL: cfg.Vision.BaseURL,
		Model:   cfg.Vision.Model,
		Timeout: cfg.Vision.Timeout,
	}, logger)

	// 3. Initialize Core Logic (The Driver)
	// This is Dependency Injection in action: the engine only ever sees the
	// port interfaces, never the concrete adapters.
	// The job timeout leaves headroom over the vision timeout so detached
	// reranks are not cut off mid-call.
	pool := worker.NewPool(64, cfg.Vision.Timeout+30*time.Second, logger)
	pool.Start(2)
	defer pool.Stop()

	engine, err := services.NewEngine(&cfg.Engine, logger, services.Deps{
		Catalog:  catalog,
		Store:    store,
		Analyzer: vision,
		Reranker: vision,
		Pool:     pool,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to build engine")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine.StartSweeper(ctx, cfg.Engine.SweepInterval)

	// 4. Initialize "Driving" Adapter (The Interface)
	// The HTTP handler talks to the engine.
	handler := rest.NewHandler(engine, logger)

	// 5. Start the Server
	log.Println("------------------------------------------------")
	log.Printf("🎶 StoryBeats API is running on %s\n", listenURL(cfg.Server.Addr))
	log.Println("------------------------------------------------")

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		err := srv.ListenAndServe()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			logger.Fatal().Err(err).Msg("server failed")
		}
	case <-ctx.Done():
		logger.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("shutdown error")
		}
	}
}

// newLogger builds the root logger; every component hangs its own tagged
// context off this one.
func newLogger(cfg config.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var out io.Writer = os.Stdout
	if cfg.Console {
		out = zerolog.ConsoleWriter{Out: os.Stdout}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger()
}

// listenURL renders ":8080" as a clickable localhost URL for the banner.
func listenURL(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "http://localhost" + addr
	}
	return "http://" + addr
}
