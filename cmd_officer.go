package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func officerCommands(a *app) []*cobra.Command {
	return []*cobra.Command{
		newPetitionsCmd(a),
		newUpdateStatusCmd(a),
		newNotificationsCmd(a),
		newSelftestCmd(a),
	}
}

func newPetitionsCmd(a *app) *cobra.Command {
	var priority string
	cmd := &cobra.Command{
		Use:   "petitions DEPARTMENT",
		Short: "List a department's petitions",
		Long: `List a department's petitions. DEPARTMENT is the full name or the
officer code (e.g. "ene" for Energy Department). --priority filters by
High, Medium or Low.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			department := a.department(args[0])
			if cmd.Flags().Changed("priority") {
				return a.emit(a.api.AdminPetitionsByPriority(cmd.Context(), department, priority))
			}
			return a.emit(a.api.AdminPetitions(cmd.Context(), department))
		},
	}
	cmd.Flags().StringVar(&priority, "priority", "", "filter by priority: High, Medium, Low")
	return cmd
}

func newUpdateStatusCmd(a *app) *cobra.Command {
	var dept, comment string
	cmd := &cobra.Command{
		Use:   "update-status GRIEVANCE_ID STATUS",
		Short: "Change a grievance's status",
		Long: `Change a grievance's status (pending, in_progress, resolved, rejected)
and append a timeline entry. The backend notifies the petitioner.
With --dry-run nothing is sent.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.emit(a.api.UpdateGrievanceStatus(cmd.Context(), args[0], args[1], a.department(dept), comment))
		},
	}
	cmd.Flags().StringVarP(&dept, "department", "d", "", "department name or officer code")
	cmd.Flags().StringVar(&comment, "comment", "", "comment for the timeline entry")
	_ = cmd.MarkFlagRequired("department")
	return cmd
}

func newNotificationsCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Show recent petitioner notification logs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed("limit") {
				limit = a.cfg.NotificationLogLimit
			}
			return a.emit(a.api.NotificationLogs(cmd.Context(), limit))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "number of entries (default NOTIFICATION_LOG_LIMIT)")
	return cmd
}

func newSelftestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "selftest similarity|notifications",
		Short:     "Run a backend self-test",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"similarity", "notifications"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "similarity":
				return a.emit(a.api.TestSimilarityDetection(cmd.Context()))
			case "notifications":
				return a.emit(a.api.TestNotificationSystem(cmd.Context()))
			}
			return fmt.Errorf("unknown self-test %q", args[0])
		},
	}
}
