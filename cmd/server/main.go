package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rptedit/internal/api"
	"rptedit/internal/config"
	"rptedit/internal/docstore"
	"rptedit/internal/edit"
	"rptedit/internal/interpret"
)

func main() {
	godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := docstore.NewStore(cfg.ReportTTL)
	store.Start(ctx)

	var client *interpret.Client
	var interpreter interpret.Interpreter
	if cfg.AnthropicAPIKey != "" {
		client = interpret.NewClient(cfg.AnthropicAPIKey, cfg.AnthropicModel)
		interpreter = client
	} else {
		log.Warn("ANTHROPIC_API_KEY not set, edit commands use the fallback parser only")
	}
	resolver := interpret.NewResolver(interpreter, log)
	applicator := edit.NewApplicator(edit.NewLedger())

	srv := api.NewServer(store, resolver, applicator, log, cfg)

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

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if client != nil {
			client.Close()
		}
		cancel()
	}()

	log.Info("starting rptedit", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
