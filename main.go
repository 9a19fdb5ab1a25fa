package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/archive"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/config"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/crypto"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/database"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/export"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/notify"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/receipt"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/router"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/session"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/store"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/util"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/workflow"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	flag.Parse()

	// missing or incomplete configuration is fatal at startup
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log := setupLogger(cfg.Log.Level)

	// every service is constructed once here and passed by handle
	cipher, err := crypto.New(cfg.Security.EncryptionKey)
	if err != nil {
		fatal(log, "init cipher", err)
	}

	db, err := database.Init(cfg.Database)
	if err != nil {
		fatal(log, "init database", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		fatal(log, "migrate database", err)
	}

	if err := util.RegisterValidations(); err != nil {
		fatal(log, "register validations", err)
	}

	recordStore := store.New(db, cipher)

	hasUsers, err := recordStore.HasUsers()
	if err != nil {
		fatal(log, "check first run", err)
	}
	machine := session.New(!hasUsers)
	if !hasUsers {
		log.Info("no operator account yet, first-run registration is open")
	}

	mailer := notify.New(cfg.Email, log)
	receipts := receipt.New(cfg.Receipt.Dir, cfg.Receipt.OpenViewer, log)
	archiver := archive.New(db, cfg.Backup.Dir, log)
	exporter := export.New(recordStore, cfg.FeeStructure)
	processor := workflow.NewProcessor(recordStore, mailer, receipts, cfg.FeeStructure, log)

	engine := router.Setup(cfg, router.Deps{
		Store:    recordStore,
		Session:  machine,
		Workflow: processor,
		Archiver: archiver,
		Exporter: exporter,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      engine,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Info("server started", "address", addr, "database", cfg.Database.Path)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fatal(log, "server error", err)
		}
	}()

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)
	<-done

	log.Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		fatal(log, "shutdown", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("stopped")
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}

func setupLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
