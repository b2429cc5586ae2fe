package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/match-odds/internal/datasource"
	"github.com/yourusername/match-odds/internal/metrics"
	"github.com/yourusername/match-odds/internal/scheduler"
	"github.com/yourusername/match-odds/internal/server"
	"github.com/yourusername/match-odds/internal/service"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the cache refresh scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return serve(ctx)
	},
}

func serve(ctx context.Context) error {
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"data_source": cfg.DataSource.Type,
		"version":     Version,
	}).Info("Match odds service starting")

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	supplier, err := datasource.NewFactory(cfg.DataSource, appLog).Create()
	if err != nil {
		return fmt.Errorf("failed to create data source: %w", err)
	}

	analyzer := service.NewFixtureAnalyzer(supplier, newEvaluator(), service.AnalyzerConfigFrom(cfg), appLog)

	checks := map[string]server.CheckFunc{}
	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(supplier, appLog)
		if err := sched.ScheduleRefresh(cfg.Scheduler.RefreshCron, cfg.Scheduler.Teams); err != nil {
			return fmt.Errorf("failed to schedule refresh: %w", err)
		}

		warmCtx, cancel := context.WithTimeout(ctx, time.Minute)
		result := sched.RefreshNow(warmCtx, cfg.Scheduler.Teams)
		cancel()
		appLog.WithField("result", result.String()).Info("Cache warmed")

		if err := sched.Start(); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()

		checks["scheduler"] = func(context.Context) error {
			if !sched.IsRunning() {
				return fmt.Errorf("scheduler stopped")
			}
			return nil
		}
	}

	srv := server.NewServer(server.Config{
		ServiceName:    cfg.App.Name,
		Version:        Version,
		Commit:         GitCommit,
		Port:           cfg.Server.Port,
		ReadTimeout:    time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout:   time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
		Logger:         appLog,
		Checks:         checks,
	}, analyzer)
	srv.SetReady(true)

	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server error: %w", err)
	}

	stats := supplier.Stats()
	appLog.WithFields(logrus.Fields{
		"cache_hits":   stats.Hits,
		"cache_misses": stats.Misses,
	}).Info("Match odds service stopped")
	return nil
}
