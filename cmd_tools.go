package main

import (
	"time"

	"github.com/spf13/cobra"

	"gportal/internal/ui"
)

func toolCommands(a *app) []*cobra.Command {
	return []*cobra.Command{newIDCmd(a), newValidateCmd(a)}
}

func newIDCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "new-id",
		Short: "Generate a local grievance reference (GR-<year>-<nnn>)",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			now := time.Now()
			return a.printValue(map[string]string{
				"grievance_id": ui.GenerateGrievanceIDAt(now, nil),
				"date":         ui.FormatDate(now),
			})
		},
	}
}

func newValidateCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check an email address or phone number",
	}
	cmd.AddCommand(
		newValidatorCmd(a, "email", "email address", ui.IsValidEmail),
		newValidatorCmd(a, "phone", "phone number", ui.IsValidPhone),
	)
	return cmd
}

func newValidatorCmd(a *app, name, label string, valid func(string) bool) *cobra.Command {
	return &cobra.Command{
		Use:   name + " VALUE",
		Short: "Check a " + label,
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			ok := valid(args[0])
			if err := a.printValue(map[string]any{"value": args[0], "valid": ok}); err != nil {
				return err
			}
			if !ok {
				a.notifier.Show("Please enter a valid "+label, ui.SeverityWarning, 0)
				return errReported
			}
			return nil
		},
	}
}
