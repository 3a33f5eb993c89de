// src/services/scheduler.go
package services

import (
	"context"
	"fmt"
	"time"

	"github.com/focoagora/backend/src/logger"
	"github.com/robfig/cron/v3"
)

// Scheduler runs the periodic jobs: the weekly snapshot and, when e-mail is configured,
// the ritmo reminder.
type Scheduler struct {
	cron *cron.Cron
	now  func() time.Time
}

func NewScheduler(snapshotSpec, reminderSpec string, snapshots SnapshotService, reminders ReminderService) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), now: time.Now}

	if _, err := s.cron.AddFunc(snapshotSpec, func() {
		created, err := snapshots.RunWeeklySnapshots(context.Background(), s.now())
		if err != nil {
			logger.L.Error("Weekly snapshot job reported errors", "created", created, "error", err)
		}
	}); err != nil {
		return nil, fmt.Errorf("invalid snapshot schedule %q: %w", snapshotSpec, err)
	}

	if reminders != nil {
		if _, err := s.cron.AddFunc(reminderSpec, func() {
			if _, err := reminders.SendPendingReminders(context.Background(), s.now()); err != nil {
				logger.L.Error("Reminder job failed", "error", err)
			}
		}); err != nil {
			return nil, fmt.Errorf("invalid reminder schedule %q: %w", reminderSpec, err)
		}
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logger.L.Info("Scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop halts scheduling and returns a context that is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
