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

	"github.com/KlausLynx/voting-system/broadcast"
	"github.com/KlausLynx/voting-system/cliparse"
	"github.com/KlausLynx/voting-system/db"
	"github.com/KlausLynx/voting-system/ledger"
	"github.com/KlausLynx/voting-system/metrics"
	"github.com/KlausLynx/voting-system/middleware"
	"github.com/KlausLynx/voting-system/mirror"
	"github.com/KlausLynx/voting-system/models"
	"github.com/KlausLynx/voting-system/reconcile"
	"github.com/KlausLynx/voting-system/registry"
	"github.com/KlausLynx/voting-system/router"
	"github.com/KlausLynx/voting-system/scheduler"
	"github.com/KlausLynx/voting-system/store"
	"github.com/KlausLynx/voting-system/submission"
)

func main() {
	if err := cliparse.LoadEnvFile(".env"); err != nil {
		slog.Warn("ignoring .env file", "error", err)
	}

	// Parse configuration
	cfg, err := cliparse.ParseFlags(os.Args[1:])
	if err != nil {
		slog.Error("Error parsing flags", "error", err)
		os.Exit(1)
	}

	reg := registry.Default()
	if cfg.RegistryFile != "" {
		reg, err = registry.Load(cfg.RegistryFile)
		if err != nil {
			slog.Error("registry load failed", "error", err)
			os.Exit(1)
		}
	}
	slog.Info("registry loaded", "centers", len(reg.Centers()), "candidates", len(reg.Candidates()))

	local, err := store.New(cfg.DataDir, store.WithRetention(cfg.Tuning.BackupRetention))
	if err != nil {
		slog.Error("local store unavailable", "error", err)
		os.Exit(1)
	}

	// The mirror is best-effort: a bad connection is logged, never fatal
	dbConn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		slog.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer dbConn.Close()

	remote := mirror.New(dbConn, mirror.WithTimeout(cfg.Tuning.MirrorTimeout))
	if err := remote.Ping(context.Background()); err != nil {
		slog.Warn("mirror unreachable at startup", "error", err)
	}

	// Reconcile before serving so no submission sees a half-loaded ledger
	rec := reconcile.Run(context.Background(), local, remote)

	l := ledger.New(reg, rec.Snapshot)
	metrics.ObserveSnapshot(l.Snapshot())

	var svc *submission.Service
	hub := broadcast.NewHub(func() models.InitialData { return svc.InitialData() })
	svc = submission.New(l, local, remote, hub)

	sched, err := scheduler.New(l, local, remote, scheduler.Config{
		ArchiveAt:          cfg.Tuning.ArchiveAt,
		AutoBackupInterval: cfg.Tuning.AutoBackupInterval,
	})
	if err != nil {
		slog.Error("scheduler config invalid", "error", err)
		os.Exit(1)
	}
	schedCtx, stopSched := context.WithCancel(context.Background())
	schedDone := make(chan struct{})
	go func() {
		sched.Run(schedCtx)
		close(schedDone)
	}()

	mux := router.NewRouter(router.Deps{
		Service:   svc,
		Registry:  reg,
		Push:      hub,
		ImagesDir: cfg.ImagesDir,
	})

	server := http.Server{
		Handler: middleware.CORS(mux),
		Addr:    ":" + strconv.Itoa(cfg.Port),
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		<-ctrlc
		slog.Info("shutting down")

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Tuning.ShutdownTimeout)
		defer cancel()

		stopSched()
		<-schedDone

		hub.Close()
		if err := server.Shutdown(ctx); err != nil {
			slog.Warn("server shutdown incomplete", "error", err)
		}
		svc.Flush(ctx)
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port, "data_dir", cfg.DataDir, "mirror", cfg.DatabaseType)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Server closed", "error", err)
		os.Exit(1)
	}
	<-shutdownDone
	slog.Info("Server closed")
}
