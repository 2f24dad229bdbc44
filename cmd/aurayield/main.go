// Package main is the entry point for the Aura yield monitor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"github.com/fd1az/aura-yield/business/blockchain"
	blockchainApp "github.com/fd1az/aura-yield/business/blockchain/app"
	blockchainDI "github.com/fd1az/aura-yield/business/blockchain/di"
	"github.com/fd1az/aura-yield/business/pricing"
	"github.com/fd1az/aura-yield/business/yield"
	yieldApp "github.com/fd1az/aura-yield/business/yield/app"
	yieldDI "github.com/fd1az/aura-yield/business/yield/di"
	"github.com/fd1az/aura-yield/internal/apm"
	"github.com/fd1az/aura-yield/internal/config"
	"github.com/fd1az/aura-yield/internal/health"
	"github.com/fd1az/aura-yield/internal/logger"
	"github.com/fd1az/aura-yield/internal/metrics"
	"github.com/fd1az/aura-yield/internal/monolith"
	"github.com/fd1az/aura-yield/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

// connectionPollInterval is how often the dashboard's node status is refreshed.
const connectionPollInterval = 15 * time.Second

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	once := flag.Bool("once", false, "Compute every pool once, print the table and exit")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("aura-yield %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default; -once always prints to the terminal.
	tuiMode := !*cliMode && !*once

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	if err := run(ctx, *configPath, tuiMode, *once); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode, once bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Set TUI mode in config so modules pick their reporter
	cfg.App.TUIMode = tuiMode

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logger.ParseLevel(cfg.App.LogLevel), cfg.App.Name, nil)
		log.Info(ctx, "starting aura yield monitor",
			"version", version,
			"environment", cfg.App.Environment,
			"pools", len(cfg.Pools),
		)
	}

	if cfg.Telemetry.Enabled {
		stop, err := startTelemetry(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer stop()
	}

	mono, err := monolith.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to create monolith: %w", err)
	}
	defer mono.Close()

	// Define modules in dependency order
	modules := []monolith.Module{
		&blockchain.Module{}, // Must be first - provides the chain reader
		&pricing.Module{},    // Price table and per-address lookups
		&yield.Module{},      // Depends on blockchain and pricing
	}

	if err := mono.RegisterModules(modules...); err != nil {
		return fmt.Errorf("failed to register modules: %w", err)
	}

	if once {
		if err := mono.StartModules(ctx, modules...); err != nil {
			return fmt.Errorf("failed to start modules: %w", err)
		}
		_, err := yieldDI.GetRunner(mono.Services()).RunOnce(ctx)
		return err
	}

	healthServer := health.NewServer(cfg.Health.Port, version)
	healthServer.RegisterCheck("ethereum", blockchainDI.GetBlockchainService(mono.Services()).HealthCheck)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", cfg.Health.Port)
	}
	defer healthServer.Stop(context.Background())

	if tuiMode {
		return runTUI(ctx, mono, modules)
	}

	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	return runCLI(ctx, yieldDI.GetRunner(mono.Services()), log)
}

func startTelemetry(ctx context.Context, cfg *config.Config, log *logger.Logger) (func(), error) {
	traceProvider, err := apm.NewTraceProvider(ctx, apm.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Provider:    apm.Provider(cfg.Telemetry.TraceProvider),
		Endpoint:    cfg.Telemetry.OTLPEndpoint,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init tracing: %w", err)
	}
	log.Info(ctx, "tracing initialized", "provider", cfg.Telemetry.TraceProvider, "endpoint", cfg.Telemetry.OTLPEndpoint)

	meterProvider, err := metrics.NewMetricProvider(ctx, metrics.Config{
		ServiceName: cfg.Telemetry.ServiceName,
		Prometheus:  true,
	})
	if err != nil {
		traceProvider.Stop()
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	port := cfg.Telemetry.PrometheusPort
	go func() {
		if err := metrics.ServePrometheus(ctx, port); err != nil {
			log.Error(ctx, "prometheus server stopped", "error", err)
		}
	}()
	log.Info(ctx, "prometheus metrics server started", "port", port)

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		meterProvider.Shutdown(shutdownCtx)
		traceProvider.Stop()
	}, nil
}

func runCLI(ctx context.Context, runner *yieldApp.Runner, log *logger.Logger) error {
	log.Info(ctx, "all modules started, scheduling yield cycles")

	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start runner: %w", err)
	}

	<-ctx.Done()

	log.Info(ctx, "shutting down")
	if err := runner.Stop(); err != nil {
		log.Error(ctx, "error stopping runner", "error", err)
	}
	return nil
}

// starter is the part of the monolith the TUI needs once the user leaves the welcome screen.
type starter interface {
	monolith.Monolith
	StartModules(ctx context.Context, modules ...monolith.Module) error
}

func runTUI(ctx context.Context, mono starter, modules []monolith.Module) error {
	startSignal := make(chan struct{}, 1)
	ui.OnStartModules = func() {
		select {
		case startSignal <- struct{}{}:
		default:
		}
	}

	// Create and start the TUI program IMMEDIATELY (shows welcome screen)
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	errCh := make(chan error, 1)
	go func() {
		select {
		case <-startSignal:
		case <-ctx.Done():
			errCh <- nil
			return
		}

		ui.Send(ui.StartupMsg{Step: "config", Status: "done"})
		ui.Send(ui.StartupMsg{Step: "ethereum", Status: "connecting"})

		if err := startForTUI(ctx, mono, modules); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
			errCh <- err
			return
		}

		<-ctx.Done()
		if err := yieldDI.GetRunner(mono.Services()).Stop(); err != nil {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	select {
	case err := <-errCh:
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	default:
		return nil
	}
}

func startForTUI(ctx context.Context, mono starter, modules []monolith.Module) error {
	if err := mono.StartModules(ctx, modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}

	chain := blockchainDI.GetBlockchainService(mono.Services())
	sendConnection(ctx, chain)
	go watchConnection(ctx, chain)
	ui.Send(ui.StartupMsg{Step: "prices", Status: "done"})

	runner := yieldDI.GetRunner(mono.Services())
	ui.OnRefresh = func() {
		if _, err := runner.RunOnce(ctx); err != nil {
			ui.Send(ui.ErrorMsg{Error: err})
		}
	}

	if err := runner.Start(ctx); err != nil {
		return fmt.Errorf("failed to start runner: %w", err)
	}
	return nil
}

func sendConnection(ctx context.Context, chain *blockchainApp.BlockchainService) {
	msg := ui.ConnectionStatusMsg{Name: "Ethereum"}

	started := time.Now()
	block, err := chain.LatestBlock(ctx)
	msg.State = string(chain.ConnectionState())
	if err == nil {
		msg.Latency = time.Since(started)
		msg.Block = block.Number
	}
	ui.Send(msg)
}

func watchConnection(ctx context.Context, chain *blockchainApp.BlockchainService) {
	ticker := time.NewTicker(connectionPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			sendConnection(ctx, chain)
		}
	}
}
