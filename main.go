// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielhkuo/classvote/cliparse"
	"github.com/danielhkuo/classvote/llm"
	"github.com/danielhkuo/classvote/middleware"
	"github.com/danielhkuo/classvote/router"
	"github.com/danielhkuo/classvote/store"
	"github.com/danielhkuo/classvote/voice"
)

const shutdownTimeout = 10 * time.Second

func main() {
	var err error

	if err = cliparse.LoadEnvFiles(".env", ".env.local"); err != nil {
		slog.Error("Error loading env files", "error", err)
		os.Exit(1)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	level := slog.LevelInfo
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	if cfg.Debug {
		level = slog.LevelDebug
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))

	// The store connects on first use so the pages come up even when the
	// database is still starting
	votes := store.NewLazy(func(ctx context.Context) (store.VoteStore, error) {
		return store.Open(ctx, cfg)
	})
	defer votes.Close()

	provider, err := llm.New(cfg.LLMProvider, &http.Client{Timeout: cfg.LLMTimeout})
	if err != nil {
		slog.Error("unknown model provider", "provider", cfg.LLMProvider, "known", llm.Names())
		os.Exit(1)
	}
	remote := voice.NewRemoteParser(provider, voice.RemoteConfig{
		URL:     cfg.LLMAPIURL,
		APIKey:  cfg.LLMAPIKey,
		Model:   cfg.LLMModel,
		Timeout: cfg.LLMTimeout,
	})
	if !cfg.LLMConfigured() {
		slog.Warn("no model API key set, transcripts use the local parser only")
	}

	// Create router
	mux := router.NewRouter(votes, remote, cfg)

	// Create server
	server := &http.Server{
		Handler:      middleware.Recover(middleware.CORS(mux)),
		Addr:         ":" + strconv.Itoa(cfg.Port),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.LLMTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("graceful shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening",
		"port", cfg.Port,
		"store", cfg.StoreBackend,
		"provider", provider.Name(),
		"model", cfg.LLMModel,
	)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
	} else {
		slog.Info("Server closed")
	}
}
