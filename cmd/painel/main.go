package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/consultorio/painel/internal/api"
	"github.com/consultorio/painel/internal/config"
	"github.com/consultorio/painel/internal/database"
	"github.com/consultorio/painel/internal/database/repository"
	"github.com/consultorio/painel/internal/remote"
	"github.com/consultorio/painel/internal/service"
)

func main() {
	_ = godotenv.Load()

	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetOutput(os.Stdout)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		log.Fatalf("mkdir db dir: %v", err)
	}

	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	recordRepo := repository.NewRecordRepo(db)
	goalRepo := repository.NewGoalRepo(db)

	var store service.RemoteStore
	if cfg.Remote.BaseURL != "" {
		client, err := remote.NewClient(cfg.Remote.BaseURL, cfg.Remote.APIKey, cfg.Remote.APIKeyHeader)
		if err != nil {
			log.Fatalf("remote client: %v", err)
		}
		store = client
	} else {
		log.Warn("no remote base url configured; running local-only")
	}

	records := &service.Records{Repo: recordRepo, Goals: goalRepo, Remote: store, Log: log}
	syncer := &service.Syncer{Records: recordRepo, Goals: goalRepo, Remote: store, Log: log}
	aggregator := &service.Aggregator{Records: records}

	// session-start pull; per-table failures are warnings, not fatal
	ctx := context.Background()
	rep := syncer.PullAll(ctx)
	log.WithFields(logrus.Fields{
		"records_applied": rep.RecordsApplied,
		"goals_applied":   rep.GoalsApplied,
		"records_pushed":  rep.RecordsPushed,
		"goals_pushed":    rep.GoalsPushed,
	}).Info("initial sync complete")

	srv := &api.Server{
		Records:    records,
		Aggregator: aggregator,
		Syncer:     syncer,
		Log:        log,
		Loc:        cfg.UI.Location(),
		WeekStart:  cfg.UI.WeekStartDay(),
	}

	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: srv.Router(cfg.Server.AllowedOrigins),
	}

	go func() {
		log.WithField("addr", cfg.Server.Addr).Info("listening")
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("shutdown: %v", err)
	}
}
