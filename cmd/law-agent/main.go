package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/voidTensor/law-agent/internal/completion"
	"github.com/voidTensor/law-agent/internal/config"
	"github.com/voidTensor/law-agent/internal/handler"
	"github.com/voidTensor/law-agent/internal/metrics"
	"github.com/voidTensor/law-agent/internal/middleware"
	"github.com/voidTensor/law-agent/internal/prompt"
	"github.com/voidTensor/law-agent/internal/server"
)

func main() {
	configPath := flag.String("config", "", "path to config.yaml")
	envPath := flag.String("env", ".env", "path to a .env file (missing is fine)")
	useMock := flag.Bool("mock", false, "use mock completer instead of the upstream API")
	port := flag.Int("port", 0, "override listen port")
	flag.Parse()

	if err := config.LoadDotenv(*envPath); err != nil {
		fatal("dotenv", err)
	}
	cfg, err := config.Load(*configPath)
	if err != nil {
		fatal("config", err)
	}
	if *port > 0 {
		cfg.Port = *port
	}

	slog.SetDefault(newLogger(cfg))

	prompts, err := prompt.Load(cfg.PolishPromptPath, cfg.FrameworkPromptPath)
	if err != nil {
		fatal("prompt", err)
	}

	creds := cfg.Credentials()
	for _, name := range creds.Handlers() {
		if _, ok := creds.Lookup(name); ok {
			metrics.CredentialConfigured.WithLabelValues(name).Set(1)
			continue
		}
		metrics.CredentialConfigured.WithLabelValues(name).Set(0)
		slog.Warn("credential missing, handler will answer 500", "handler", name)
	}

	deps := handler.Deps{
		Completer:   buildCompleter(cfg, *useMock),
		Credentials: creds,
		Prompts:     prompts,
	}
	h := server.SetupMux(deps, server.Options{
		Model:   cfg.Model,
		APIKey:  cfg.APIKey,
		Timeout: cfg.UpstreamTimeout + 5*time.Second,
	})

	if cfg.APIKey != "" {
		slog.Info("auth: API key required (X-API-Key header)")
	} else {
		slog.Info("auth: disabled (no api_key configured)")
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("law-agent listening", "addr", addr, "model", cfg.Model)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server", err)
		}
	}()

	<-done
	slog.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		fatal("shutdown", err)
	}
	slog.Info("server stopped")
}

func newLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.Level()}
	var base slog.Handler
	if cfg.LogFormat == "json" {
		base = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		base = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(middleware.NewContextHandler(base))
}

func buildCompleter(cfg config.Config, useMock bool) completion.Completer {
	if useMock {
		slog.Info("mode: mock completer enabled")
		return &completion.Mock{Delay: 500 * time.Millisecond}
	}
	slog.Info("mode: upstream", "base_url", cfg.BaseURL, "model", cfg.Model, "timeout", cfg.UpstreamTimeout)
	return &completion.Client{
		BaseURL: cfg.BaseURL,
		Model:   cfg.Model,
		Client:  &http.Client{Timeout: cfg.UpstreamTimeout},
	}
}

func fatal(step string, err error) {
	slog.Error(step, "error", err)
	os.Exit(1)
}
