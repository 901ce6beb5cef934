package main

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"gportal/internal/api"
	"gportal/internal/config"
	"gportal/internal/department"
	"gportal/internal/logger"
	"gportal/internal/metrics"
	"gportal/internal/reminder"
	"gportal/internal/telegram"
	"gportal/internal/ui"
)

// errReported marks failures already shown to the user through the
// notifier; main only sets the exit code for them.
var errReported = stderrors.New("reported")

// app holds everything a command needs. It is built once in the root
// command's PersistentPreRunE and closed by run.
type app struct {
	cfg         *config.Config
	log         *zap.Logger
	registry    *prometheus.Registry
	metrics     *metrics.Metrics
	api         *api.Client
	reminders   *reminder.Client
	notifier    *ui.Notifier
	departments *department.Directory

	out    io.Writer
	errOut io.Writer
}

// globalFlags are the overrides accepted by every command.
type globalFlags struct {
	baseURL   string
	dryRun    bool
	logLevel  string
	logFormat string
}

func (a *app) init(flags *globalFlags) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}
	if flags.baseURL != "" {
		cfg.BaseURL = flags.baseURL
	}
	if flags.dryRun {
		cfg.DryRun = true
	}
	if flags.logLevel != "" {
		cfg.LogLevel = flags.logLevel
	}
	if flags.logFormat != "" {
		cfg.LogFormat = flags.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	a.log = log

	a.registry = prometheus.NewRegistry()
	a.metrics = metrics.NewMetrics(a.registry)

	a.api = api.New(cfg.BaseURL,
		api.WithHTTPClient(api.NewHTTPClient(cfg.HTTPTimeout, cfg.HTTPMaxConns)),
		api.WithLogger(log),
		api.WithMetrics(a.metrics),
		api.WithDryRun(cfg.DryRun),
	)
	a.reminders = reminder.New(a.api)
	a.departments = department.Default()
	a.notifier = ui.NewNotifier(ui.NewTerminalRenderer(a.errOut),
		ui.WithDefaultDuration(cfg.NotificationDuration),
		ui.WithLogger(log),
	)

	log.Debug("configuration loaded",
		zap.String("base_url", cfg.BaseURL),
		zap.Bool("dry_run", cfg.DryRun),
	)
	return nil
}

func (a *app) close() {
	if a.notifier != nil {
		a.notifier.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// department expands an officer code to the full department name.
func (a *app) department(codeOrName string) string {
	name, ok := a.departments.Resolve(codeOrName)
	if !ok {
		a.log.Debug("unknown department passed through", zap.String("department", name))
	}
	return name
}

// telegram returns the Telegram client, or nil when delivery is not
// configured.
func (a *app) telegram() *telegram.Client {
	if !a.cfg.TelegramEnabled() {
		return nil
	}
	return telegram.NewClient(a.cfg.TelegramBotToken, a.cfg.TelegramChatID, a.cfg.DryRun, a.log)
}

// emit prints a call result. Payloads go to stdout as indented JSON.
// Failures are shown as an error notification and reported to main.
// Backend domain errors are printed and additionally flagged with a
// warning notification.
func (a *app) emit(res api.Result) error {
	if !res.OK() {
		a.notifier.Show(res.Message(), ui.SeverityError, 0)
		return errReported
	}
	if err := a.printJSON(res.Payload); err != nil {
		return err
	}
	if msg, ok := res.DomainError(); ok {
		a.notifier.Show(msg, ui.SeverityWarning, 0)
	}
	return nil
}

func (a *app) printJSON(raw json.RawMessage) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return fmt.Errorf("format output: %w", err)
	}
	buf.WriteByte('\n')
	_, err := a.out.Write(buf.Bytes())
	return err
}

// printValue marshals v and prints it like a payload.
func (a *app) printValue(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("format output: %w", err)
	}
	return a.printJSON(data)
}

// run executes the command line in args. The app is closed on every
// path, including failed commands, which cobra's post-run hooks skip.
func run(a *app, args []string) error {
	root := buildRootCmd(a)
	root.SetArgs(args)
	defer a.close()
	return root.Execute()
}

func buildRootCmd(a *app) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "gportal",
		Short: "Grievance portal client",
		Long: `Command line client for the grievance portal backend.

Citizens can file, classify and track grievances. Officers can list
department petitions, update statuses, inspect notification logs and
drive the reminder sweep. Configuration comes from the environment,
an optional .env file and built-in defaults.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(flags)
		},
	}
	root.SetOut(a.out)
	root.SetErr(a.errOut)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.baseURL, "base-url", "", "backend base URL (overrides API_BASE_URL)")
	pf.BoolVar(&flags.dryRun, "dry-run", false, "simulate mutating officer calls")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: json or console")

	root.AddCommand(citizenCommands(a)...)
	root.AddCommand(officerCommands(a)...)
	root.AddCommand(newRemindersCmd(a))
	root.AddCommand(newWatchCmd(a))
	root.AddCommand(newDigestCmd(a))
	root.AddCommand(newBrowseCmd(a))
	root.AddCommand(toolCommands(a)...)
	return root
}
