// Package scheduler refreshes cached team histories on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/match-odds/internal/metrics"
)

// Refresher reloads a team's match history into a cache
type Refresher interface {
	Refresh(ctx context.Context, team string) error
}

// RefreshResult summarises one refresh run
type RefreshResult struct {
	Refreshed int
	Failed    map[string]error
	Duration  time.Duration
}

// String returns a short human readable summary
func (r RefreshResult) String() string {
	return fmt.Sprintf("refreshed=%d failed=%d duration=%s", r.Refreshed, len(r.Failed), r.Duration)
}

// Scheduler manages scheduled cache refresh jobs
type Scheduler struct {
	cron       *cron.Cron
	refresher  Refresher
	logger     *logrus.Logger
	mu         sync.RWMutex
	isRunning  bool
	jobIDs     []cron.EntryID
	jobTimeout time.Duration
}

// NewScheduler creates a new scheduler
func NewScheduler(refresher Refresher, logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.New()
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		refresher:  refresher,
		logger:     logger,
		jobIDs:     make([]cron.EntryID, 0),
		jobTimeout: 5 * time.Minute,
	}
}

// ScheduleRefresh schedules a refresh of every listed team's history
func (s *Scheduler) ScheduleRefresh(cronExpression string, teams []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}
	if len(teams) == 0 {
		return fmt.Errorf("no teams to refresh")
	}

	teams = append([]string(nil), teams...)
	jobFunc := func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		s.RefreshNow(ctx, teams)
	}

	entryID, err := s.cron.AddFunc(cronExpression, jobFunc)
	if err != nil {
		return fmt.Errorf("failed to add job: %w", err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{
		"cron":  cronExpression,
		"teams": len(teams),
	}).Info("Scheduled team history refresh")

	return nil
}

// RefreshNow refreshes the given teams immediately. A failing team does not
// stop the others.
func (s *Scheduler) RefreshNow(ctx context.Context, teams []string) RefreshResult {
	start := time.Now()
	result := RefreshResult{Failed: make(map[string]error)}

	for _, team := range teams {
		if ctx.Err() != nil {
			result.Failed[team] = ctx.Err()
			metrics.RecordCacheRefresh("error")
			continue
		}
		if err := s.refresher.Refresh(ctx, team); err != nil {
			result.Failed[team] = err
			metrics.RecordCacheRefresh("error")
			s.logger.WithField("team", team).WithError(err).Warn("Team history refresh failed")
			continue
		}
		result.Refreshed++
		metrics.RecordCacheRefresh("success")
	}

	result.Duration = time.Since(start)
	s.logger.WithFields(logrus.Fields{
		"refreshed": result.Refreshed,
		"failed":    len(result.Failed),
		"duration":  result.Duration.String(),
	}).Info("Team history refresh completed")

	return result
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	<-s.cron.Stop().Done()
	s.isRunning = false
	s.logger.Info("Scheduler stopped")
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRun returns the time of the next scheduled job run
func (s *Scheduler) NextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return time.Time{}
	}

	var next time.Time
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() && (next.IsZero() || entry.Next.Before(next)) {
			next = entry.Next
		}
	}
	return next
}
