package main

import (
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gportal/internal/browser"
	"gportal/internal/ui"
)

func newBrowseCmd(a *app) *cobra.Command {
	var (
		message string
		hold    time.Duration
	)
	cmd := &cobra.Command{
		Use:   "browse [citizen|officer|file|track]",
		Short: "Open a portal page in Chrome with focus styling and a notification",
		Long: `Open a portal page from FRONTEND_URL in Chrome, apply the keyboard
focus styling and show a notification in the page. Unknown or missing
pages open index.html. HEADLESS controls whether a window is shown.
A failed navigation restarts Chrome and is tried once more.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var page string
			if len(args) == 1 {
				page = args[0]
			}

			holder := browser.NewContextHolder(a.cfg.Headless, a.log)
			defer holder.Cancel()

			target, err := browser.Navigate(holder.Get(), a.cfg.FrontendURL, page)
			if err != nil {
				// A crashed or stale Chrome gets one fresh start.
				a.log.Warn("navigation failed, restarting browser", zap.Error(err))
				holder.Restart()
				target, err = browser.Navigate(holder.Get(), a.cfg.FrontendURL, page)
			}
			if err != nil {
				a.notifier.Show("Could not open "+ui.NavigationTarget(page), ui.SeverityError, 0)
				return err
			}
			focusable, err := browser.ApplyFocusStyles(holder.Get())
			if err != nil {
				return err
			}
			a.log.Info("page ready", zap.String("url", target), zap.Int("focusable", focusable))

			pageNotes := ui.NewNotifier(browser.NewPageRenderer(holder),
				ui.WithDefaultDuration(a.cfg.NotificationDuration),
				ui.WithLogger(a.log),
			)
			defer pageNotes.Close()
			if message == "" {
				message = "Opened " + ui.NavigationTarget(page)
			}
			pageNotes.Show(message, ui.SeverityInfo, 0)

			if !cmd.Flags().Changed("hold") {
				hold = a.cfg.NotificationDuration + ui.DefaultFadeOut + time.Second
			}
			select {
			case <-time.After(hold):
			case <-cmd.Context().Done():
			}
			return a.printValue(map[string]any{"url": target, "focusable_elements": focusable})
		},
	}
	cmd.Flags().StringVar(&message, "message", "", "notification text shown in the page")
	cmd.Flags().DurationVar(&hold, "hold", 0, "how long to keep the page open (default: until the notification is gone)")
	return cmd
}
