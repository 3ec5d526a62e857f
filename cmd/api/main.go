package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/crucial707/habitguard/internal/blob"
	"github.com/crucial707/habitguard/internal/config"
	"github.com/crucial707/habitguard/internal/guard"
	"github.com/crucial707/habitguard/internal/monitor"
	"github.com/crucial707/habitguard/internal/recorder"
	"github.com/crucial707/habitguard/internal/scheduler"
	"github.com/crucial707/habitguard/internal/store"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg.LogFormat)

	if cfg.Env == "prod" && cfg.JWTSecret == "supersecretkey" {
		log.Fatal("JWT_SECRET must be set in prod")
	}

	blobs, err := openBlobs(cfg)
	if err != nil {
		log.Fatalf("Failed to open blob storage: %v", err)
	}
	slog.Info("blob storage ready", "backend", cfg.BlobBackend)

	st := store.New(blobs)
	rec := recorder.New(st)
	blocked := guard.NewPackageSet(cfg.BlockedPackages)
	mon := monitor.New(st, blocked, monitor.NopOverlay{}, monitor.NopCapture{}, rec, cfg.EventQueueSize)

	reset, err := scheduler.NewReset(st, cfg.ResetBoundary)
	if err != nil {
		log.Fatalf("Invalid RESET_BOUNDARY: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go mon.Run(ctx)
	go reset.Run(ctx)

	r := newRouter(st, mon, reset, cfg)
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}

	go func() {
		<-ctx.Done()
		srv.Shutdown(context.Background())
	}()

	slog.Info("starting server", "port", cfg.Port, "tls", cfg.TLSCertFile != "")
	if cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		err = srv.ListenAndServeTLS(cfg.TLSCertFile, cfg.TLSKeyFile)
	} else {
		err = srv.ListenAndServe()
	}
	if err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

// openBlobs selects the persistence backend from config.
func openBlobs(cfg config.Config) (blob.Store, error) {
	switch cfg.BlobBackend {
	case "postgres":
		return blob.ConnectPostgres(cfg.DBHost, cfg.DBPort, cfg.DBName, cfg.DBUser, cfg.DBPass)
	case "memory":
		return blob.NewMemory(), nil
	default:
		return blob.NewDiskv(cfg.DataDir)
	}
}

func setupLogging(format string) {
	var handler slog.Handler
	if format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, nil)
	} else {
		handler = slog.NewTextHandler(os.Stdout, nil)
	}
	slog.SetDefault(slog.New(handler))
}
