// Package jobs runs background tasks on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// AuraRecalculator refreshes every stored aura snapshot.
type AuraRecalculator interface {
	RecalculateAll(ctx context.Context) (int, error)
}

// Scheduler owns the cron runner.
type Scheduler struct {
	cron     *cron.Cron
	aura     AuraRecalculator
	schedule string
	log      logrus.FieldLogger
}

// NewScheduler creates a scheduler that evaluates schedules in UTC.
func NewScheduler(aura AuraRecalculator, schedule string, log logrus.FieldLogger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithLocation(time.UTC)),
		aura:     aura,
		schedule: schedule,
		log:      log,
	}
}

// Start registers the jobs and starts the runner. ctx is passed to every run.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.schedule, func() { s.RecalculateAura(ctx) }); err != nil {
		return fmt.Errorf("schedule aura recalculation %q: %w", s.schedule, err)
	}
	s.cron.Start()
	s.log.WithField("schedule", s.schedule).Info("scheduler started")
	return nil
}

// RecalculateAura is the nightly aura refresh job.
func (s *Scheduler) RecalculateAura(ctx context.Context) {
	started := time.Now()
	n, err := s.aura.RecalculateAll(ctx)
	entry := s.log.WithFields(logrus.Fields{"users": n, "took": time.Since(started).String()})
	if err != nil {
		entry.WithError(err).Error("[CRON] aura recalculation failed")
		return
	}
	entry.Info("[CRON] aura recalculation finished")
}

// Stop waits for running jobs and stops the runner.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("scheduler stopped")
}
