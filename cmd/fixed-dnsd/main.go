package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"github.com/haukened/fixed-dns/internal/dns/common/log"
	"github.com/haukened/fixed-dns/internal/dns/config"
	"github.com/haukened/fixed-dns/internal/dns/gateways/transport"
	"github.com/haukened/fixed-dns/internal/dns/gateways/wire"
	"github.com/haukened/fixed-dns/internal/dns/services/responder"
)

const (
	// Version information
	version = "0.1.0-dev"
	appName = "fixed-dnsd"

	defaultShutdownTimeout = 10 * time.Second
)

// Application holds all the components of the responder
type Application struct {
	config    *config.AppConfig
	transport transport.ServerTransport
	responder *responder.Responder
}

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Configure global logging
	err = log.Configure(cfg.Env, cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logging configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Info(map[string]any{
		"app":       appName,
		"version":   version,
		"env":       cfg.Env,
		"log_level": cfg.LogLevel,
		"listen":    cfg.ListenAddr(),
		"profile":   cfg.Profile,
	}, "Starting fixed DNS responder")

	app, err := buildApplication(cfg)
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build application")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		log.Info(map[string]any{"signal": sig.String()}, "Shutdown signal received")
		cancel()
	}()

	if err := app.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Server failed")
	}

	log.Info(nil, "Fixed DNS responder stopped gracefully")
}

// buildApplication constructs all components and wires them together
func buildApplication(cfg *config.AppConfig) (*Application, error) {
	logger := log.GetLogger()

	response, err := cfg.ResponseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to build response config: %w", err)
	}

	builder := wire.NewMessageBuilder(logger)

	svc, err := responder.New(responder.Options{
		Builder: builder,
		Config:  response,
		Logger:  logger,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create responder: %w", err)
	}

	log.Info(map[string]any{
		"default_id": response.Header.ID,
		"rcode":      response.Header.RCode.String(),
		"question":   response.Question.Name.String(),
		"answer":     response.Answer.Address(),
		"ttl":        response.Answer.TTL,
	}, "Response configured")

	return &Application{
		config:    cfg,
		transport: transport.NewUDPTransport(cfg.ListenAddr(), logger),
		responder: svc,
	}, nil
}

// Run starts the transport and blocks until the context is cancelled or the
// transport fails. Both paths end in a shutdown whose errors are combined
// with the cause.
func (app *Application) Run(ctx context.Context) error {
	if err := app.transport.Start(ctx, app.responder); err != nil {
		return fmt.Errorf("failed to start UDP transport: %w", err)
	}

	log.Info(map[string]any{
		"address":   app.transport.Address(),
		"transport": "UDP",
	}, "DNS server started")

	var runErr error
	select {
	case <-ctx.Done():
		log.Info(nil, "Shutdown initiated")
	case err := <-app.transport.Done():
		if err != nil {
			runErr = fmt.Errorf("transport stopped: %w", err)
		}
	}

	return multierr.Append(runErr, app.shutdown())
}

// shutdown stops the transport and waits for its loop to exit.
func (app *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()

	var errs error
	if err := app.transport.Stop(); err != nil {
		log.Warn(map[string]any{"error": err}, "Error during transport shutdown")
		errs = multierr.Append(errs, fmt.Errorf("stopping transport: %w", err))
	}

	// Done is closed once the loop exits, so this also returns when Run
	// already consumed the loop's result.
	select {
	case <-app.transport.Done():
	case <-shutdownCtx.Done():
		log.Warn(map[string]any{"timeout": defaultShutdownTimeout}, "Shutdown timeout exceeded")
		errs = multierr.Append(errs, fmt.Errorf("shutdown timeout"))
	}

	stats := app.responder.Stats()
	log.Info(map[string]any{
		"served":    stats.Served,
		"fallbacks": stats.Fallbacks,
		"failures":  stats.Failures,
	}, "Graceful shutdown completed")

	return errs
}
