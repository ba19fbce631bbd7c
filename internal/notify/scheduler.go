package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/ferntree/sprout/internal/reminder"
)

// Interval is how often the scheduler re-evaluates due reminders.
const Interval = time.Minute

// Scheduler fires a desktop notification for every reminder due today,
// at most once per reminder per calendar day.
//
// A reminder is eligible when it is not completed, its date falls on the
// current day, and no dispatch mark exists for it today. Without a granted
// permission an eligible reminder is skipped silently and left unmarked.
// With the grant, the mark is written once the dispatch call returns,
// whether or not the call reported an error: a crash before the call leaves
// the reminder eligible for the next pass, so delivery is at-least-once and
// a rare duplicate is accepted over a silent miss.
type Scheduler struct {
	mu        sync.Mutex
	reminders *reminder.Registry
	marks     Marks
	notifier  Notifier
	logger    *slog.Logger
	now       func() time.Time // swapped in tests
}

// NewScheduler returns a Scheduler over the given registry and notifier.
func NewScheduler(reg *reminder.Registry, marks Marks, n Notifier, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		reminders: reg,
		marks:     marks,
		notifier:  n,
		logger:    logger,
		now:       time.Now,
	}
}

// Start runs an immediate pass, then one pass per tick, until ctx is
// cancelled. The ticker is released on every exit path.
func (s *Scheduler) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("reminder scheduler started", slog.Duration("interval", interval))

	s.RunOnce()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// RunOnce runs one dispatch pass over today's reminders. Passes are
// serialized, so a pass triggered by a store reload cannot interleave with
// a ticker pass.
func (s *Scheduler) RunOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()

	today := s.now()
	for _, rem := range s.reminders.DueOn(today) {
		if rem.Completed {
			continue
		}
		if s.marks.Marked(rem.ID, today) {
			continue
		}
		if s.notifier.Permission() != PermissionGranted {
			// No grant, no attempt, no mark: the reminder stays eligible
			// in case a later pass runs with the permission granted.
			continue
		}

		err := s.notifier.Send("Plant care reminder", body(rem))
		if err != nil {
			s.logger.Error("notification dispatch failed",
				slog.String("reminder_id", rem.ID),
				slog.String("error", err.Error()),
			)
		} else {
			s.logger.Info("notification dispatched",
				slog.String("reminder_id", rem.ID),
				slog.String("title", rem.Title),
			)
		}
		if err := s.marks.Mark(rem.ID, today); err != nil {
			s.logger.Error("recording dispatch mark failed",
				slog.String("reminder_id", rem.ID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// body composes the notification text for a reminder.
func body(rem reminder.Reminder) string {
	if rem.PlantName != "" {
		return rem.Title + " (" + rem.PlantName + ")"
	}
	return rem.Title
}
