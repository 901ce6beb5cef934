package main

import (
	"context"
	stderrors "errors"
	"fmt"
	"html"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gportal/internal/health"
	"gportal/internal/metrics"
	"gportal/internal/reminder"
	"gportal/internal/storage"
	"gportal/internal/telegram"
)

func newWatchCmd(a *app) *cobra.Command {
	var (
		interval time.Duration
		port     string
	)
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Trigger the reminder sweep on a schedule",
		Long: `Trigger the backend reminder sweep every WATCH_INTERVAL, starting
immediately, until interrupted. /health and /metrics are served on
HEALTH_CHECK_PORT. Reminders the backend sent since the last sweep are
announced to Telegram and remembered in REMINDER_STATE_FILE. After
repeated failed sweeps a critical alert is sent to Telegram when
configured.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("interval") {
				interval = a.cfg.WatchInterval
			}
			if !cmd.Flags().Changed("port") {
				port = a.cfg.HealthCheckPort
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			seen, err := storage.New(a.cfg.ReminderStateFile, a.log)
			if err != nil {
				return err
			}

			monitor := health.NewMonitor()
			if _, err := health.StartServer(ctx, port, health.Router(monitor, a.registry), a.log); err != nil {
				return err
			}

			w := &watcher{
				reminders: a.reminders,
				monitor:   monitor,
				metrics:   a.metrics,
				alerts:    a.telegram(),
				seen:      seen,
				log:       a.log,
				dryRun:    a.cfg.DryRun,
			}
			return w.run(ctx, interval)
		},
	}
	cmd.Flags().DurationVar(&interval, "interval", 0, "time between sweeps (default WATCH_INTERVAL)")
	cmd.Flags().StringVar(&port, "port", "", "health server port (default HEALTH_CHECK_PORT)")
	return cmd
}

// watcher triggers reminder sweeps and tracks their outcome.
type watcher struct {
	reminders *reminder.Client
	monitor   *health.Monitor
	metrics   *metrics.Metrics
	alerts    *telegram.Client
	seen      *storage.Storage // nil disables announcements
	primed    bool             // set once the first history read was recorded
	log       *zap.Logger
	dryRun    bool
}

// run sweeps once, then on every tick until ctx is done.
func (w *watcher) run(ctx context.Context, interval time.Duration) error {
	w.log.Info("watching reminders", zap.Duration("interval", interval))
	w.sweep(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info("watch stopped")
			return nil
		case <-ticker.C:
			w.sweep(ctx)
		}
	}
}

// sweep triggers one reminder check. Domain errors reported by the
// backend count as failures.
func (w *watcher) sweep(ctx context.Context) error {
	res := w.reminders.TriggerManualCheck(ctx)

	err := res.Err()
	if err == nil {
		if msg, failed := res.DomainError(); failed {
			err = stderrors.New(msg)
		}
	}

	failures := w.monitor.RecordSweep(err)
	switch {
	case err != nil:
		w.metrics.RecordSweep(metrics.OutcomeFailure)
		w.log.Warn("reminder sweep failed", zap.Error(err), zap.Int("consecutive_failures", failures))
	case w.dryRun:
		w.metrics.RecordSweep(metrics.OutcomeDryRun)
		w.log.Info("reminder sweep simulated")
	default:
		w.metrics.RecordSweep(metrics.OutcomeSuccess)
		w.log.Info("reminder sweep completed")
		w.announceNew(ctx)
	}

	if failures == health.UnhealthyAfter {
		if alertErr := w.alerts.SendCriticalAlert(ctx, "Reminder sweep failure", err.Error(), failures); alertErr != nil {
			w.log.Error("critical alert not delivered", zap.Error(alertErr))
		}
	}
	return err
}

// announceNew posts reminders not seen by an earlier sweep to Telegram
// and records them. The first history read against an empty state file
// only records the backlog; every later read announces.
func (w *watcher) announceNew(ctx context.Context) int {
	if w.seen == nil {
		return 0
	}

	var list reminder.ListResponse
	if err := w.reminders.LoadReminders(ctx, "").Decode(&list); err != nil {
		w.log.Warn("reminder history unavailable", zap.Error(err))
		return 0
	}

	baseline := !w.primed && w.seen.Len() == 0
	ids := make([]string, 0, len(list.Data))
	var fresh []storage.Record
	for _, r := range list.Data {
		ids = append(ids, r.ID)
		if r.ID == "" || !w.seen.IsNew(r.ID) {
			continue
		}

		rec := storage.Record{ReminderID: r.ID, GrievanceID: r.GrievanceID, Department: r.Department}
		if !baseline {
			msgID, err := w.alerts.SendMessage(ctx, reminderText(r))
			if err != nil {
				// Left unrecorded so the next sweep retries it.
				w.log.Error("reminder announcement not delivered", zap.String("reminder_id", r.ID), zap.Error(err))
				continue
			}
			if msgID != 0 {
				rec.MessageID = fmt.Sprint(msgID)
			}
		}
		fresh = append(fresh, rec)
	}

	if err := w.seen.SaveMultiple(fresh); err != nil {
		w.log.Error("reminder state not saved", zap.Error(err))
		return 0
	}
	w.primed = true
	if removed, err := w.seen.Retain(ids); err != nil {
		w.log.Error("reminder state not pruned", zap.Error(err))
	} else if removed > 0 {
		w.log.Debug("pruned reminder state", zap.Int("removed", removed))
	}

	if baseline {
		w.log.Info("recorded reminder backlog", zap.Int("count", len(fresh)))
		return 0
	}
	if len(fresh) > 0 {
		w.log.Info("announced new reminders", zap.Int("count", len(fresh)))
	}
	return len(fresh)
}

func reminderText(r reminder.Reminder) string {
	text := fmt.Sprintf("<b>Reminder sent</b>\n\n<b>Grievance:</b> %s\n<b>Department:</b> %s",
		html.EscapeString(r.GrievanceID), html.EscapeString(r.Department))
	if r.DaysPending > 0 {
		text += fmt.Sprintf("\n<b>Pending:</b> %d days", r.DaysPending)
	}
	if r.SentAt != "" {
		text += "\n<b>Sent:</b> " + html.EscapeString(reminder.FormatReminderDate(r.SentAt))
	}
	return text
}
