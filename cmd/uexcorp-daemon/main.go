package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/andrescamacho/uexcorp-go/internal/adapters/grpc"
	"github.com/andrescamacho/uexcorp-go/internal/adapters/metrics"
	appLogging "github.com/andrescamacho/uexcorp-go/internal/application/logging"
	"github.com/andrescamacho/uexcorp-go/internal/infrastructure/bootstrap"
	"github.com/andrescamacho/uexcorp-go/internal/infrastructure/config"
	"github.com/andrescamacho/uexcorp-go/internal/infrastructure/pidfile"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	configPath := flag.String("config", "", "Config file (default: config.yaml in ., ./configs or ~/.uexcorp)")
	forceFlag := flag.Bool("force", false, "Stop any running daemon and start a new one")
	flag.Parse()

	fmt.Printf("UEX corp trading assistant daemon %s\n", version)

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	pf := pidfile.New(cfg.Daemon.PIDFile)
	if err := pf.Acquire(); err != nil {
		if !*forceFlag {
			log.Fatalf("Failed to acquire PID file lock: %v\nUse --force to stop the running daemon", err)
		}
		fmt.Println("Force mode enabled - stopping the running daemon...")
		if killErr := pf.KillExisting(); killErr != nil && !errors.Is(killErr, pidfile.ErrNotRunning) {
			log.Fatalf("Failed to stop running daemon: %v", killErr)
		}
		if err := pf.Acquire(); err != nil {
			log.Fatalf("Failed to acquire PID file lock after stopping the running daemon: %v", err)
		}
	}

	err = run(cfg)
	if releaseErr := pf.Release(); releaseErr != nil {
		log.Printf("Warning: %v", releaseErr)
	}
	if err != nil {
		log.Fatalf("Fatal error: %v", err)
	}
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.New(cfg, bootstrap.Options{Version: version, Metrics: true})
	if err != nil {
		return err
	}
	defer app.Close()
	ctx = app.Context(ctx)

	// calls retry the load, so the daemon serves even without data
	if _, err := app.Data.Startup(ctx); err != nil {
		app.Logger.Log(appLogging.LevelWarning, "Daemon started without trading data", map[string]interface{}{
			"error": err.Error(),
		})
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Daemon.SocketPath), 0755); err != nil {
		return fmt.Errorf("failed to create socket directory: %w", err)
	}
	server, err := grpc.NewDaemonServer(app.NewClient(), cfg.Daemon.SocketPath, app.Logger)
	if err != nil {
		return fmt.Errorf("failed to create daemon server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return server.Serve(gctx, cfg.Daemon.ShutdownTimeout)
	})
	g.Go(func() error {
		return app.RefreshLoop(gctx, cfg.Daemon.RefreshInterval)
	})
	g.Go(func() error {
		return app.PruneLoop(gctx)
	})

	if metrics.IsEnabled() {
		metricsServer, err := metrics.NewServer(cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
		if err != nil {
			return fmt.Errorf("failed to create metrics server: %w", err)
		}
		g.Go(func() error {
			app.Logger.Log(appLogging.LevelInfo, "Metrics server listening", map[string]interface{}{
				"address": metricsServer.Addr,
				"path":    cfg.Metrics.Path,
			})
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("metrics server error: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return metricsServer.Shutdown(shutdownCtx)
		})
	}

	fmt.Println("Daemon is ready to accept connections")
	fmt.Println("Press Ctrl+C to stop")

	if err := g.Wait(); err != nil {
		return err
	}
	fmt.Println("Daemon stopped")
	return nil
}
