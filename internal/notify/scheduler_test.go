package notify

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/ferntree/sprout/internal/reminder"
	"github.com/ferntree/sprout/internal/store"
)

// fakeNotifier records sends and returns a configurable error.
type fakeNotifier struct {
	perm    Permission
	sendErr error
	sent    []string // bodies, in dispatch order
}

func (f *fakeNotifier) Permission() Permission { return f.perm }

func (f *fakeNotifier) Send(title, body string) error {
	f.sent = append(f.sent, body)
	return f.sendErr
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newScheduler wires a scheduler over a temp store with a fixed clock.
func newScheduler(t *testing.T, n *fakeNotifier, clock time.Time) (*Scheduler, *reminder.Registry, Marks, *time.Time) {
	t.Helper()
	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "store"))
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}
	reg := reminder.NewRegistry(s)
	marks := NewMarks(s)
	sched := NewScheduler(reg, marks, n, testLogger())
	now := clock
	sched.now = func() time.Time { return now }
	return sched, reg, marks, &now
}

// TestDispatchOncePerDay walks one reminder through a day: the first pass
// dispatches and marks it, later passes the same day stay silent, and
// completing it keeps it silent even without the mark.
func TestDispatchOncePerDay(t *testing.T) {
	aug25 := time.Date(2026, time.August, 25, 9, 0, 0, 0, time.Local)
	n := &fakeNotifier{perm: PermissionGranted}
	sched, reg, marks, _ := newScheduler(t, n, aug25)

	rem := reminder.New("Fertilize tomatoes", time.Date(2026, time.August, 25, 0, 0, 0, 0, time.Local), reminder.TypeFertilizer, "Tomato")
	if err := reg.Add(rem); err != nil {
		t.Fatalf("Add: %v", err)
	}

	sched.RunOnce()
	if len(n.sent) != 1 {
		t.Fatalf("first pass: %d dispatches, want 1", len(n.sent))
	}
	if n.sent[0] != "Fertilize tomatoes (Tomato)" {
		t.Errorf("body: got %q", n.sent[0])
	}
	if !marks.Marked(rem.ID, aug25) {
		t.Error("expected a dispatch mark after the first pass")
	}

	sched.RunOnce()
	if len(n.sent) != 1 {
		t.Errorf("second pass the same day dispatched again: %d total", len(n.sent))
	}

	if err := reg.ToggleCompletion(rem.ID); err != nil {
		t.Fatalf("ToggleCompletion: %v", err)
	}
	sched.RunOnce()
	if len(n.sent) != 1 {
		t.Errorf("completed reminder dispatched: %d total", len(n.sent))
	}
}

// TestDayRolloverResetsEligibility verifies that a new calendar day uses a
// new mark key, so yesterday's dispatch does not suppress today's.
func TestDayRolloverResetsEligibility(t *testing.T) {
	aug25 := time.Date(2026, time.August, 25, 23, 50, 0, 0, time.Local)
	n := &fakeNotifier{perm: PermissionGranted}
	sched, reg, _, now := newScheduler(t, n, aug25)

	// Dated the 26th: nothing fires on the 25th.
	rem := reminder.New("Water the basil", time.Date(2026, time.August, 26, 0, 0, 0, 0, time.Local), reminder.TypeWatering, "Basil")
	if err := reg.Add(rem); err != nil {
		t.Fatalf("Add: %v", err)
	}

	sched.RunOnce()
	if len(n.sent) != 0 {
		t.Fatalf("dispatched a day early: %d", len(n.sent))
	}

	*now = time.Date(2026, time.August, 26, 0, 5, 0, 0, time.Local)
	sched.RunOnce()
	sched.RunOnce()
	if len(n.sent) != 1 {
		t.Fatalf("on the due day: %d dispatches, want 1", len(n.sent))
	}

	// Next day again: the reminder's date no longer matches.
	*now = time.Date(2026, time.August, 27, 0, 5, 0, 0, time.Local)
	sched.RunOnce()
	if len(n.sent) != 1 {
		t.Errorf("dispatched after the due day: %d total", len(n.sent))
	}
}

// TestNoGrantNoMark verifies the permission gate: without a grant there is
// no attempt and no mark, and a later pass with the grant still fires.
func TestNoGrantNoMark(t *testing.T) {
	aug25 := time.Date(2026, time.August, 25, 9, 0, 0, 0, time.Local)
	n := &fakeNotifier{perm: PermissionDenied}
	sched, reg, marks, _ := newScheduler(t, n, aug25)

	rem := reminder.New("Spray the roses", aug25, reminder.TypePesticide, "Rose")
	if err := reg.Add(rem); err != nil {
		t.Fatalf("Add: %v", err)
	}

	sched.RunOnce()
	if len(n.sent) != 0 {
		t.Fatalf("dispatched without permission: %d", len(n.sent))
	}
	if marks.Marked(rem.ID, aug25) {
		t.Error("marked without a dispatch attempt")
	}

	// The user grants the permission between passes.
	n.perm = PermissionGranted
	sched.RunOnce()
	if len(n.sent) != 1 {
		t.Errorf("after grant: %d dispatches, want 1", len(n.sent))
	}
	if !marks.Marked(rem.ID, aug25) {
		t.Error("expected a mark after the granted dispatch")
	}
}

// TestSendErrorStillMarks verifies that a failed hand-off still counts as
// the day's attempt: no retry storm on a broken notification daemon.
func TestSendErrorStillMarks(t *testing.T) {
	aug25 := time.Date(2026, time.August, 25, 9, 0, 0, 0, time.Local)
	n := &fakeNotifier{perm: PermissionGranted, sendErr: errors.New("no notification daemon")}
	sched, reg, marks, _ := newScheduler(t, n, aug25)

	rem := reminder.New("Mist the ferns", aug25, reminder.TypeWatering, "Fern")
	if err := reg.Add(rem); err != nil {
		t.Fatalf("Add: %v", err)
	}

	sched.RunOnce()
	if len(n.sent) != 1 {
		t.Fatalf("expected one attempt, got %d", len(n.sent))
	}
	if !marks.Marked(rem.ID, aug25) {
		t.Error("expected a mark after the failed attempt")
	}

	sched.RunOnce()
	if len(n.sent) != 1 {
		t.Errorf("retried a failed dispatch the same day: %d attempts", len(n.sent))
	}
}

// TestStartRunsImmediatelyAndStopsOnCancel verifies the loop contract: one
// pass before the first tick, and a prompt return when ctx is cancelled.
func TestStartRunsImmediatelyAndStopsOnCancel(t *testing.T) {
	aug25 := time.Date(2026, time.August, 25, 9, 0, 0, 0, time.Local)
	n := &fakeNotifier{perm: PermissionGranted}
	sched, reg, _, _ := newScheduler(t, n, aug25)

	if err := reg.Add(reminder.New("Feed the orchid", aug25, reminder.TypeFertilizer, "Orchid")); err != nil {
		t.Fatalf("Add: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Start(ctx, time.Hour) // interval long enough that only the immediate pass runs
		close(done)
	}()

	// The immediate pass must happen without waiting for a tick.
	deadline := time.After(2 * time.Second)
	for {
		sched.mu.Lock()
		sent := len(n.sent)
		sched.mu.Unlock()
		if sent == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("immediate pass did not run")
		case <-time.After(10 * time.Millisecond):
		}
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Start did not return after cancel")
	}
}
