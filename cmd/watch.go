package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ferntree/sprout/internal/notify"
	"github.com/ferntree/sprout/internal/reminder"
)

var watchInterval time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Run the reminder daemon until interrupted",
	Long: `Run in the foreground, checking every interval whether a reminder is
due today and sending at most one desktop notification per reminder per
day. Edits made by other sprout commands are picked up immediately.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))

		dir, err := dataDir()
		if err != nil {
			return err
		}
		s, err := openStore()
		if err != nil {
			return err
		}
		reg := reminder.NewRegistry(s)
		marks := notify.NewMarks(s)

		perm := notify.ParsePermission(cfg.Notifications)
		if perm != notify.PermissionGranted {
			logger.Warn("notifications not granted, reminders will be checked but nothing will be shown",
				"permission", string(perm),
				"hint", "run 'sprout init' to change this")
		}

		sched := notify.NewScheduler(reg, marks, notify.NewDesktop(perm), logger)

		// Another process (remind add, the chat UI) may rewrite the store
		// while we run. Watch the data directory and reload on any change
		// so a reminder added for today fires without waiting a full tick.
		watcher, err := fsnotify.NewWatcher()
		if err == nil {
			defer watcher.Close()
			if err := watcher.Add(dir); err != nil {
				logger.Warn("cannot watch data directory, relying on the timer alone", "err", err)
			} else {
				wake := make(chan struct{}, 1)
				go func() {
					for {
						select {
						case <-ctx.Done():
							return
						case ev, ok := <-watcher.Events:
							if !ok {
								return
							}
							if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
								continue
							}
							select {
							case wake <- struct{}{}:
							default:
							}
						case err, ok := <-watcher.Errors:
							if !ok {
								return
							}
							logger.Warn("watch error", "err", err)
						}
					}
				}()
				go func() {
					for {
						select {
						case <-ctx.Done():
							return
						case <-wake:
							reg.Reload()
							sched.RunOnce()
						}
					}
				}()
			}
		} else {
			logger.Warn("fsnotify unavailable, relying on the timer alone", "err", err)
		}

		logger.Info("watching reminders", "interval", watchInterval.String(), "dir", dir)
		sched.Start(ctx, watchInterval)
		logger.Info("stopped")
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", notify.Interval, "how often to re-check due reminders")
	rootCmd.AddCommand(watchCmd)
}
