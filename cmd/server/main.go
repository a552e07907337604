package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hongye-zhang/public-texteditor/internal/api"
	"github.com/hongye-zhang/public-texteditor/internal/config"
	"github.com/hongye-zhang/public-texteditor/internal/intent"
	"github.com/hongye-zhang/public-texteditor/internal/llm"
	"github.com/hongye-zhang/public-texteditor/internal/pipeline"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize the generation client.
	client := llm.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	client.Stats = llm.NewStats(cfg.StatsWindow)

	// Initialize the edit pipeline and session store.
	pipe := pipeline.New(client, log,
		pipeline.WithTemperature(cfg.Temperature),
		pipeline.WithMaxConcurrent(cfg.MaxConcurrentGenerate),
	)
	sessions := pipeline.NewSessionStore(cfg.SessionTTL)
	sessions.Start(ctx)

	classifier := intent.NewClassifier(client, log)

	// Initialize HTTP server.
	srv := api.NewServer(pipe, sessions, classifier, client, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		sessions.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		client.Close()
	}()

	log.Info("starting editor backend", "port", cfg.Port, "model", cfg.AnthropicModel)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
