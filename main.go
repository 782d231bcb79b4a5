package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	api "eventdesk-backend/cmd/api"
	"eventdesk-backend/internal/state"
	"eventdesk-backend/internal/task/scheduler"
	"eventdesk-backend/pkg/config"
	"eventdesk-backend/pkg/i18n"
	"eventdesk-backend/pkg/idgen"
	"eventdesk-backend/pkg/logger"
	"eventdesk-backend/pkg/sse"

	"github.com/sirupsen/logrus"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	flush := logger.Init(logger.Options{
		Level:     cfg.LogLevel,
		Format:    cfg.LogFormat,
		SentryDSN: cfg.SentryDSN,
		Env:       cfg.Env,
	})
	defer flush()

	translator := i18n.New(cfg.Locale)

	// Seed the workspace
	initial, err := state.LoadWorkspace(cfg.WorkspaceFile, time.Now(), idgen.New)
	if err != nil {
		logrus.Fatalf("Failed to load workspace: %v", err)
	}

	// The reminder watcher runs after every dispatch and on its own ticker
	reminders := scheduler.NewReminderWatcher(cfg.Threshold, translator)
	store := state.NewStore(initial, state.WithEffects(reminders.Effect()))

	// Initialize SSE Manager
	sseManager := sse.NewManager()
	go sseManager.Run()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := api.NewHandler(ctx, cfg, store, translator, sseManager)

	reminderScheduler := scheduler.NewTaskReminderScheduler(store, cfg.Interval)
	reminderScheduler.Start()

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: handler.Engine(),
	}

	go func() {
		logrus.Infof("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logrus.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logrus.Info("Shutting down")

	// SSE streams never end on their own, so stop the manager first
	sseManager.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logrus.Warnf("Server shutdown: %v", err)
	}

	reminderScheduler.Stop()
	handler.Close()
}
