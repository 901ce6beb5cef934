package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"gportal/internal/reminder"
	"gportal/internal/ui"
)

func newRemindersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Inspect and drive the backend reminder sweep",
		Long: `Inspect and drive the backend reminder sweep.

Available subcommands:
  list    - List reminders (due reminders with --department, else recent ones)
  stats   - Show totals and the per-department breakdown
  trigger - Run the sweep now
  send    - Send one reminder immediately`,
	}
	cmd.AddCommand(
		newRemindersListCmd(a),
		newRemindersStatsCmd(a),
		newRemindersTriggerCmd(a),
		newRemindersSendCmd(a),
	)
	return cmd
}

func newRemindersListCmd(a *app) *cobra.Command {
	var (
		dept    string
		asTable bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List reminders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var department string
			if dept != "" {
				department = a.department(dept)
			}
			res := a.reminders.LoadReminders(cmd.Context(), department)
			if !asTable || !res.OK() {
				return a.emit(res)
			}
			if msg, ok := res.DomainError(); ok {
				a.notifier.Show(msg, ui.SeverityWarning, 0)
				return errReported
			}

			var list reminder.ListResponse
			if err := res.Decode(&list); err != nil {
				return err
			}
			return a.printReminderTable(list.Data)
		},
	}
	cmd.Flags().StringVarP(&dept, "department", "d", "", "department name or officer code")
	cmd.Flags().BoolVar(&asTable, "table", false, "print a table with formatted dates instead of JSON")
	return cmd
}

func (a *app) printReminderTable(reminders []reminder.Reminder) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("GRIEVANCE", "DEPARTMENT", "SUBJECT", "WHEN")
	for _, r := range reminders {
		id := r.TrackingID
		if id == "" {
			id = r.GrievanceID
		}
		when := r.SentAt
		if when == "" {
			when = r.LastReminder
		}
		if when == "" {
			when = r.CreatedAt
		}
		t.Row(id, r.Department, r.Subject, reminder.FormatReminderDate(when))
	}
	_, err := fmt.Fprintln(a.out, t.Render())
	return err
}

func newRemindersStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show reminder statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.emit(a.reminders.Stats(cmd.Context()))
		},
	}
}

func newRemindersTriggerCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "trigger",
		Short: "Run the reminder sweep now",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			res := a.reminders.TriggerManualCheck(cmd.Context())
			if err := a.emit(res); err != nil {
				return err
			}
			if _, failed := res.DomainError(); !failed {
				a.notifier.Show("Reminder check triggered", ui.SeveritySuccess, 0)
			}
			return nil
		},
	}
}

func newRemindersSendCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "send REMINDER_ID",
		Short: "Send one reminder immediately",
		Long:  "Send one reminder immediately. REMINDER_ID is the record id or the tracking id.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.emit(a.reminders.SendIndividualReminder(cmd.Context(), args[0]))
		},
	}
}
