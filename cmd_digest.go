package main

import (
	"context"
	"fmt"
	"html"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gportal/internal/reminder"
	"gportal/internal/summary"
	"gportal/internal/ui"
)

func newDigestCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "digest DEPARTMENT",
		Short: "Render open petitions and reminder stats for a department",
		Long: `Render a department's open petitions as a PNG table (SUMMARY_IMAGE_PATH)
and, when TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are set, send the image
and the reminder statistics to the Telegram chat.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if output == "" {
				output = a.cfg.SummaryImagePath
			}
			return a.digest(cmd.Context(), a.department(args[0]), output, time.Now())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "image path (default SUMMARY_IMAGE_PATH)")
	return cmd
}

func (a *app) digest(ctx context.Context, department, output string, now time.Time) error {
	rows, err := summary.FetchOpenPetitions(ctx, a.api, department)
	if err != nil {
		a.notifier.Show(err.Error(), ui.SeverityError, 0)
		return errReported
	}

	var image []byte
	if len(rows) > 0 {
		image, err = summary.WriteFile(output, department, rows, now)
		if err != nil {
			return err
		}
		a.log.Info("summary image written", zap.String("path", output), zap.Int("rows", len(rows)))
	}

	var stats *reminder.Stats
	statsRes := a.reminders.Stats(ctx)
	var decoded reminder.StatsResponse
	if err := statsRes.Decode(&decoded); err == nil && decoded.Success {
		stats = &decoded.Data
	} else {
		a.log.Warn("reminder statistics unavailable", zap.String("message", statsRes.Message()))
	}

	text := digestText(department, len(rows), stats, now)

	tg := a.telegram()
	if tg != nil {
		if _, err := tg.SendMessage(ctx, text); err != nil {
			a.notifier.Show("Digest could not be delivered", ui.SeverityError, 0)
			return err
		}
		if image != nil {
			if _, err := tg.SendPhoto(ctx, "Open petitions: "+department, filepath.Base(output), image); err != nil {
				a.notifier.Show("Digest image could not be delivered", ui.SeverityError, 0)
				return err
			}
		}
	}

	out := map[string]any{
		"department":     department,
		"open_petitions": len(rows),
		"delivered":      tg != nil,
	}
	if image != nil {
		out["image"] = output
	}
	if stats != nil {
		out["reminders"] = stats
	}
	return a.printValue(out)
}

// digestText formats the Telegram digest message (HTML parse mode).
func digestText(department string, open int, stats *reminder.Stats, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<b>Grievance digest: %s</b>\n", html.EscapeString(department))
	fmt.Fprintf(&b, "%s\n\n", ui.FormatDate(now))
	fmt.Fprintf(&b, "<b>Open petitions:</b> %d\n", open)

	if stats == nil {
		b.WriteString("<b>Reminders:</b> unavailable\n")
		return b.String()
	}
	fmt.Fprintf(&b, "<b>Reminders sent:</b> %d total, %d in the last 7 days\n", stats.Total, stats.Recent)
	for _, d := range stats.ByDepartment {
		if d.Department == department {
			fmt.Fprintf(&b, "<b>This department:</b> %d\n", d.Count)
		}
	}
	return b.String()
}
