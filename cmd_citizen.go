package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gportal/internal/api"
	"gportal/internal/batch"
	"gportal/internal/ui"
)

func citizenCommands(a *app) []*cobra.Command {
	return []*cobra.Command{
		newLoginCmd(a),
		newRegisterCmd(a),
		newClassifyCmd(a),
		newSubmitCmd(a),
		newTrackCmd(a),
		newTimelineCmd(a),
		newSimilarCmd(a),
	}
}

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login USERNAME PASSWORD",
		Short: "Log in as a citizen or department officer",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.emit(a.api.Login(cmd.Context(), args[0], args[1]))
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register FULL_NAME USERNAME PASSWORD",
		Short: "Create a citizen account",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.emit(a.api.Register(cmd.Context(), args[0], args[1], args[2]))
		},
	}
}

func newClassifyCmd(a *app) *cobra.Command {
	var realtime bool
	cmd := &cobra.Command{
		Use:   "classify TEXT...",
		Short: "Ask which department should handle a petition",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if realtime {
				return a.emit(a.api.ClassifyRealtime(cmd.Context(), text))
			}
			return a.emit(a.api.ClassifyPetition(cmd.Context(), text))
		},
	}
	cmd.Flags().BoolVar(&realtime, "realtime", false, "use the lightweight as-you-type classifier")
	return cmd
}

func newSubmitCmd(a *app) *cobra.Command {
	var (
		p          api.Petition
		attachment string
	)
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "File a petition with its department",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if attachment != "" {
				f, err := os.Open(attachment)
				if err != nil {
					return fmt.Errorf("open attachment: %w", err)
				}
				defer f.Close()
				p.Attachment = &api.Attachment{Filename: filepath.Base(attachment), Content: f}
			}
			return a.emit(a.api.SubmitPetition(cmd.Context(), p))
		},
	}

	f := cmd.Flags()
	f.StringVar(&p.Name, "name", "", "petitioner name")
	f.StringVar(&p.Phone, "phone", "", "10 digit phone number")
	f.StringVar(&p.Address, "address", "", "postal address")
	f.StringVar(&p.District, "district", "", "district")
	f.StringVar(&p.Subject, "subject", "", "petition subject")
	f.StringVar(&p.Description, "description", "", "petition description")
	f.StringVar(&p.Category, "category", "", `category (default "General")`)
	f.StringVar(&attachment, "attachment", "", "file to attach")
	for _, name := range []string{"name", "phone", "subject", "description"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}

func newTrackCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "track GRIEVANCE_ID PHONE",
		Short: "Look up a grievance by tracking ID",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.emit(a.api.TrackGrievance(cmd.Context(), args[0], args[1]))
		},
	}
}

func newTimelineCmd(a *app) *cobra.Command {
	var dept string
	cmd := &cobra.Command{
		Use:   "timeline TRACKING_ID...",
		Short: "Show the timeline of one or more grievances",
		Long: `Show grievance timelines. With several tracking IDs the lookups run
concurrently on WORKER_POOL_SIZE workers and the output is an object
keyed by tracking ID.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			department := a.department(dept)
			if len(args) == 1 {
				return a.emit(a.api.GrievanceTimeline(cmd.Context(), args[0], department))
			}
			return a.timelines(cmd, department, args)
		},
	}
	cmd.Flags().StringVarP(&dept, "department", "d", "", "department name or officer code")
	_ = cmd.MarkFlagRequired("department")
	return cmd
}

func newSimilarCmd(a *app) *cobra.Command {
	var (
		dept      string
		threshold float64
	)
	cmd := &cobra.Command{
		Use:   "similar TEXT...",
		Short: "Find existing grievances resembling a text",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.SimilarityThreshold
			}
			return a.emit(a.api.CheckSimilarGrievances(cmd.Context(), a.department(dept), strings.Join(args, " "), threshold))
		},
	}
	cmd.Flags().StringVarP(&dept, "department", "d", "", "department name or officer code")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "similarity threshold (default SIMILARITY_THRESHOLD)")
	_ = cmd.MarkFlagRequired("department")
	return cmd
}

// timelines fetches several timelines through a worker pool. Failed
// lookups appear as {"error": message} entries; the command fails only
// when every lookup failed.
func (a *app) timelines(cmd *cobra.Command, department string, ids []string) error {
	jobs := batch.TimelineJobs(a.api, department, ids)
	outcomes := batch.Run(cmd.Context(), a.cfg.WorkerPoolSize, jobs, a.log)

	byID := make(map[string]api.Result, len(outcomes))
	failed := 0
	for _, o := range outcomes {
		byID[o.Key] = o.Result
		if !o.Result.OK() {
			failed++
		}
	}
	a.log.Debug("timeline batch finished",
		zap.Int("requested", len(ids)),
		zap.Int("failed", failed),
	)

	if err := a.printValue(byID); err != nil {
		return err
	}
	if failed == len(ids) {
		a.notifier.Show(outcomes[0].Result.Message(), ui.SeverityError, 0)
		return errReported
	}
	if failed > 0 {
		a.notifier.Show(fmt.Sprintf("%d of %d timelines could not be loaded", failed, len(ids)), ui.SeverityWarning, 0)
	}
	return nil
}
