// Package main provides the CLI entrypoint for liftlog.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/verte-zerg/liftlog/internal/action"
	"github.com/verte-zerg/liftlog/internal/config"
	"github.com/verte-zerg/liftlog/internal/logging"
	"github.com/verte-zerg/liftlog/internal/model"
	"github.com/verte-zerg/liftlog/internal/plan"
	"github.com/verte-zerg/liftlog/internal/progress"
	"github.com/verte-zerg/liftlog/internal/stats"
	"github.com/verte-zerg/liftlog/internal/tui"
)

const dateLayout = "2006-01-02"

var (
	trackerDate   string
	trackerDay    string
	trackerPlan   string
	trackerImport string
	trackerExport string

	reportDate  string
	reportDay   string
	reportWidth int

	markDate     string
	markDay      string
	markExercise int
	markSet      int
	markReset    bool
	markAllDay   bool

	fileCfg config.FileConfig
	logOut  io.Closer
)

func main() {
	if err := run(newRootCmd()); err != nil {
		os.Exit(1)
	}
}

// run executes cmd and closes the log file, also when a command fails and
// cobra skips its post-run hooks.
func run(cmd *cobra.Command) (err error) {
	defer func() {
		err = multierr.Append(err, closeLog())
	}()
	return cmd.Execute()
}

func closeLog() error {
	if logOut == nil {
		return nil
	}
	err := logOut.Close()
	logOut = nil
	return err
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "liftlog",
		Short:         "Workout progress tracker",
		SilenceUsage:  true,
		SilenceErrors: false,
		Args:          cobra.NoArgs,
		RunE:          runTrackerCmd,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "config" {
				return nil
			}
			return loadFileConfig(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&trackerPlan, "plan", "", "YAML plan file (default: built-in 5-day plan)")
	rootCmd.Flags().StringVar(&trackerDate, "date", "", "training date (YYYY-MM-DD, default: today)")
	rootCmd.Flags().StringVar(&trackerDay, "day", "1", "day number or name")
	rootCmd.Flags().StringVar(&trackerImport, "import", "", "progress JSON to merge on start")
	rootCmd.Flags().StringVar(&trackerExport, "export", config.DefaultExportPath(), "export file path")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newPlanCmd())
	rootCmd.AddCommand(newReportCmd())
	rootCmd.AddCommand(newMarkCmd())

	return rootCmd
}

// loadFileConfig reads the TOML config, overlays it on flags the user did not
// set and configures logging.
func loadFileConfig(cmd *cobra.Command) error {
	var err error
	fileCfg, err = config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "plan", &trackerPlan, fileCfg.Tracker.Plan)
	if cmd.Name() == "liftlog" {
		applyStringConfig(cmd, "day", &trackerDay, fileCfg.Tracker.Day)
		applyStringConfig(cmd, "export", &trackerExport, fileCfg.Tracker.Export)
	}
	logOut = setupLogging(fileCfg)
	return nil
}

func runTrackerCmd(_ *cobra.Command, _ []string) error {
	catalog, err := loadCatalog(trackerPlan)
	if err != nil {
		return err
	}
	cfg, err := resolveTrackerConfig(catalog, model.Config{
		PlanPath:   trackerPlan,
		Date:       trackerDate,
		Day:        trackerDay,
		ExportPath: trackerExport,
		ImportPath: trackerImport,
	})
	if err != nil {
		return err
	}

	st := progress.NewStore()
	if cfg.ImportPath != "" {
		res, err := progress.ImportFile(cfg.ImportPath, st)
		if err != nil {
			return err
		}
		if res.Skipped > 0 {
			logErrf("skipped %d malformed entries in %s\n", res.Skipped, cfg.ImportPath)
		}
	}

	logrus.WithFields(logrus.Fields{"date": cfg.Date, "day": cfg.Day}).Info("starting tracker")
	program := tea.NewProgram(tui.NewModel(catalog, st, cfg), tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newPlanCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "plan",
		Short: "List days and exercises",
		Args:  cobra.NoArgs,
		RunE:  runPlanCmd,
	}
}

func runPlanCmd(cmd *cobra.Command, _ []string) error {
	catalog, err := loadCatalog(trackerPlan)
	if err != nil {
		return err
	}
	if err := stats.RenderPlan(cmd.OutOrStdout(), catalog); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report FILE...",
		Short: "Summarize exported progress files",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runReportCmd,
	}
	cmd.Flags().StringVar(&reportDate, "date", "", "also show KPIs for this date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&reportDay, "day", "", "also show KPIs for this day (number or name)")
	cmd.Flags().IntVar(&reportWidth, "width", 0, "chart width (default: terminal width)")
	return cmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	catalog, err := loadCatalog(trackerPlan)
	if err != nil {
		return err
	}
	st := progress.NewStore()
	for _, path := range args {
		res, err := progress.ImportFile(path, st)
		if err != nil {
			return err
		}
		if res.Skipped > 0 {
			logErrf("skipped %d malformed entries in %s\n", res.Skipped, path)
		}
	}
	return writeReport(cmd.OutOrStdout(), catalog, st)
}

func writeReport(w io.Writer, catalog *plan.Catalog, st *progress.Store) error {
	if reportDay != "" || reportDate != "" {
		cfg, err := resolveTrackerConfig(catalog, model.Config{Date: reportDate, Day: defaultString(reportDay, "1")})
		if err != nil {
			return err
		}
		if err := stats.RenderKPIs(w, stats.DayRatio(st, catalog, cfg.Date, cfg.Day)); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	rows := stats.SessionSummary(st)
	if err := stats.RenderSummary(w, rows); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderBars(w, rows, reportWidth); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func newMarkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mark FILE",
		Short: "Check or reset sets in a progress file",
		Long: "Check or reset sets in a progress file. The file is created when missing.\n" +
			"Exercise and set numbers are 1-based.",
		Args: cobra.ExactArgs(1),
		RunE: runMarkCmd,
	}
	cmd.Flags().StringVar(&markDate, "date", "", "training date (YYYY-MM-DD, default: today)")
	cmd.Flags().StringVar(&markDay, "day", "", "day number or name")
	cmd.Flags().IntVar(&markExercise, "exercise", 0, "exercise number")
	cmd.Flags().IntVar(&markSet, "set", 0, "set number (default: every set of the exercise)")
	cmd.Flags().BoolVar(&markReset, "reset", false, "uncheck instead of check")
	cmd.Flags().BoolVar(&markAllDay, "all-day", false, "apply to every set of the day")
	_ = cmd.MarkFlagRequired("day")
	return cmd
}

func runMarkCmd(cmd *cobra.Command, args []string) error {
	path := args[0]
	catalog, err := loadCatalog(trackerPlan)
	if err != nil {
		return err
	}
	cfg, err := resolveTrackerConfig(catalog, model.Config{Date: markDate, Day: markDay})
	if err != nil {
		return err
	}

	st := progress.NewStore()
	if _, err := os.Stat(path); err == nil {
		if _, err := progress.ImportFile(path, st); err != nil {
			return err
		}
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to stat progress file: %w", err)
	}

	if err := applyMark(st, catalog, cfg, markExercise, markSet, !markReset, markAllDay); err != nil {
		return err
	}
	if err := progress.ExportFile(path, st); err != nil {
		return err
	}
	return stats.RenderKPIs(cmd.OutOrStdout(), stats.DayRatio(st, catalog, cfg.Date, cfg.Day))
}

// applyMark takes 1-based exercise and set numbers; zero means "not given".
func applyMark(st *progress.Store, catalog *plan.Catalog, cfg model.Config, exercise, set int, done, allDay bool) error {
	if allDay {
		a := action.ResetDay(cfg.Date, cfg.Day)
		a.Value = done
		_, err := action.Apply(st, catalog, a)
		return err
	}
	if exercise <= 0 {
		return fmt.Errorf("--exercise or --all-day is required")
	}
	if set < 0 {
		return fmt.Errorf("%w: set %d", action.ErrOutOfRange, set)
	}
	if set == 0 {
		a := action.CompleteExercise(cfg.Date, cfg.Day, exercise-1)
		if !done {
			a = action.ResetExercise(cfg.Date, cfg.Day, exercise-1)
		}
		_, err := action.Apply(st, catalog, a)
		return err
	}
	exercises := catalog.Exercises(cfg.Day)
	if exercise > len(exercises) {
		return fmt.Errorf("%w: exercise %d of %q (have %d)", action.ErrOutOfRange, exercise, cfg.Day, len(exercises))
	}
	if set > exercises[exercise-1].Sets {
		return fmt.Errorf("%w: set %d of %q (have %d)", action.ErrOutOfRange, set, exercises[exercise-1].Name, exercises[exercise-1].Sets)
	}
	st.Set(progress.NewKey(cfg.Date, cfg.Day, exercise-1, set-1), done)
	return nil
}

func loadCatalog(path string) (*plan.Catalog, error) {
	if path == "" {
		return plan.Default(), nil
	}
	catalog, err := plan.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	return catalog, nil
}

// resolveTrackerConfig fills in today's date and maps the day reference to a
// full day name.
func resolveTrackerConfig(catalog *plan.Catalog, cfg model.Config) (model.Config, error) {
	if cfg.Date == "" {
		cfg.Date = time.Now().Format(dateLayout)
	}
	if _, err := time.Parse(dateLayout, cfg.Date); err != nil {
		return model.Config{}, fmt.Errorf("invalid --date value: %w", err)
	}
	day, err := catalog.Resolve(cfg.Day)
	if err != nil {
		if errors.Is(err, plan.ErrUnknownDay) {
			return model.Config{}, fmt.Errorf("invalid --day value: %w (available: %s)", err, strings.Join(catalog.Days(), ", "))
		}
		return model.Config{}, err
	}
	cfg.Day = day
	return cfg, nil
}

func setupLogging(cfg config.FileConfig) io.Closer {
	params := logging.SetupParams{FileName: config.DefaultLogPath()}
	if cfg.Log.File != nil {
		params.FileName = *cfg.Log.File
	}
	if cfg.Log.Level != nil {
		params.Level = *cfg.Log.Level
	}
	if cfg.Log.JSON != nil {
		params.FormatJSON = *cfg.Log.JSON
	}
	return logging.Setup(params)
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultString(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# liftlog configuration
# Uncomment a value to enable it. CLI flags override config values.

[tracker]
# plan = "~/plans/ppl.yaml"   # YAML plan file (default: built-in 5-day plan)
# day = "1"                   # Day number or name shown on start
# export = %q   # Export file path

[log]
# file = %q
# level = "info"              # trace, debug, info, warn, error
# json = false
`,
		config.DefaultExportPath(),
		config.DefaultLogPath(),
	)
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
