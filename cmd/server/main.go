package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/doomedramen/autopwn-sub010/internal/config"
	"github.com/doomedramen/autopwn-sub010/internal/db"
	"github.com/doomedramen/autopwn-sub010/internal/dictionary"
	"github.com/doomedramen/autopwn-sub010/internal/email"
	"github.com/doomedramen/autopwn-sub010/internal/hashcat"
	"github.com/doomedramen/autopwn-sub010/internal/repository"
	"github.com/doomedramen/autopwn-sub010/internal/routes"
	"github.com/doomedramen/autopwn-sub010/internal/scheduler"
	"github.com/doomedramen/autopwn-sub010/internal/version"
	"github.com/doomedramen/autopwn-sub010/internal/ws"
	"github.com/doomedramen/autopwn-sub010/pkg/debug"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env before reading any configuration
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("../.env"); err != nil {
			debug.Warning("No .env file found, using environment variables")
		}
	}
	debug.Reinitialize()

	requiredVars := []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME"}
	var missingVars []string
	for _, v := range requiredVars {
		if os.Getenv(v) == "" {
			missingVars = append(missingVars, v)
		}
	}
	if len(missingVars) > 0 {
		debug.Error("Missing required environment variables: %v", missingVars)
		os.Exit(1)
	}

	cfg := config.NewConfig()
	debug.Info("autopwn core %s starting up", version.Get())

	database, err := db.Connect()
	if err != nil {
		debug.Error("Failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	if err := db.RunMigrations(); err != nil {
		debug.Error("Failed to run migrations: %v", err)
		os.Exit(1)
	}

	jobRepo := repository.NewJobRepository(database)
	jobDictRepo := repository.NewJobDictionaryRepository(database)
	dictRepo := repository.NewDictionaryRepository(database)
	resultRepo := repository.NewResultRepository(database)
	essidRepo := repository.NewEssidRepository(database)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Register available wordlists and keep them in sync
	dictManager := dictionary.NewManager(dictRepo, cfg.DictionariesDir())
	if err := dictManager.Start(ctx, cfg.DictionarySyncSchedule); err != nil {
		debug.Error("Failed to start dictionary manager: %v", err)
		os.Exit(1)
	}
	defer dictManager.Stop()

	// Optional crack notifications
	var notifier scheduler.CrackNotifier
	emailService, err := email.NewServiceFromEnv()
	if err != nil {
		debug.Warning("Email notifications disabled: %v", err)
	} else if emailService != nil {
		notifier = emailService
	}

	hub := ws.NewHub()
	defer hub.Close()

	runner := hashcat.NewRunner(cfg.HashcatBinary, cfg.DeviceType, cfg.StatusTimer)

	sched := scheduler.New(
		scheduler.Config{
			HashesDir:    cfg.HashesDir(),
			PollInterval: cfg.PollInterval,
		},
		jobRepo,
		jobDictRepo,
		dictRepo,
		resultRepo,
		essidRepo,
		scheduler.NewEngineRunner(runner),
		notifier,
		hub,
	)
	go sched.Run(ctx)

	router := routes.NewRouter(routes.Deps{
		Jobs:            jobRepo,
		JobDictionaries: jobDictRepo,
		Dictionaries:    dictRepo,
		Results:         resultRepo,
		Scheduler:       sched,
		Hub:             hub,
	})

	server := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Host, cfg.HTTPPort),
		Handler: router,
	}

	go func() {
		debug.Info("Status API listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			debug.Error("HTTP server error: %v", err)
			cancel()
		}
	}()

	<-ctx.Done()
	debug.Info("Shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		debug.Error("HTTP server shutdown error: %v", err)
	}

	debug.Info("Shutdown complete")
}
