// Package main provides the CLI entrypoint for symdigit.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/verte-zerg/symdigit/internal/config"
	"github.com/verte-zerg/symdigit/internal/export"
	"github.com/verte-zerg/symdigit/internal/game"
	"github.com/verte-zerg/symdigit/internal/i18n"
	"github.com/verte-zerg/symdigit/internal/logging"
	"github.com/verte-zerg/symdigit/internal/model"
	"github.com/verte-zerg/symdigit/internal/resultsui"
	"github.com/verte-zerg/symdigit/internal/stats"
	"github.com/verte-zerg/symdigit/internal/store"
	"github.com/verte-zerg/symdigit/internal/symbols"
	"github.com/verte-zerg/symdigit/internal/tui"
)

const (
	defaultLang          = "tr"
	defaultTutorialRetry = "keep"
	defaultCurveWindow   = 5
	defaultPlotWidth     = 60
	maxDurationSeconds   = 3600
	maxTutorialRequired  = 100
)

var (
	playVariant          string
	playDuration         int
	playTutorialRequired int
	playTutorialRetry    string
	playAutoStart        bool
	playLang             string
	playKeyFile          string
	playName             string
	playCompany          string
	playVerbose          bool

	keyVariant string
	keyFile    string

	resultsPlain       bool
	resultsName        string
	resultsCompany     string
	resultsSince       string
	resultsLast        int
	resultsCurveWindow int

	exportFormat string
	exportOut    string
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "symdigit",
		Short:         "Symbol digit matching test in the terminal",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPlayCmd,
	}

	rootCmd.Flags().StringVar(&playVariant, "variant", symbols.DefaultVariant, fmt.Sprintf("symbol set (%s)", strings.Join(symbols.VariantNames(), ", ")))
	rootCmd.Flags().IntVar(&playDuration, "duration", 0, "session length in seconds (0: variant default)")
	rootCmd.Flags().IntVar(&playTutorialRequired, "tutorial-required", 0, "correct practice answers before the session (0: variant default)")
	rootCmd.Flags().StringVar(&playTutorialRetry, "tutorial-retry", defaultTutorialRetry, "after a wrong practice answer: keep or advance")
	rootCmd.Flags().BoolVar(&playAutoStart, "auto-start", false, "start the session right after the tutorial")
	rootCmd.Flags().StringVar(&playLang, "lang", defaultLang, "interface language (en, tr)")
	rootCmd.Flags().StringVar(&playKeyFile, "key-file", "", "custom key file (TOKEN GLYPH DIGIT per line)")
	rootCmd.Flags().StringVar(&playName, "name", "", "player name (skips registration)")
	rootCmd.Flags().StringVar(&playCompany, "company", "", "player company")
	rootCmd.Flags().BoolVar(&playVerbose, "verbose", false, "debug logging")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newKeyCmd())
	rootCmd.AddCommand(newResultsCmd())

	return rootCmd
}

func runPlayCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	envCfg, err := config.LoadEnv()
	if err != nil {
		return fmt.Errorf("failed to load environment: %w", err)
	}
	layered := config.Merge(fileCfg.Game, envCfg)
	applyStringConfig(cmd, "variant", &playVariant, layered.Variant)
	applyIntConfig(cmd, "duration", &playDuration, layered.DurationSeconds)
	applyIntConfig(cmd, "tutorial-required", &playTutorialRequired, layered.TutorialRequired)
	applyStringConfig(cmd, "tutorial-retry", &playTutorialRetry, layered.TutorialRetry)
	applyBoolConfig(cmd, "auto-start", &playAutoStart, layered.AutoStart)
	applyStringConfig(cmd, "lang", &playLang, layered.Lang)
	applyStringConfig(cmd, "key-file", &playKeyFile, layered.KeyFile)

	cfg := model.Config{
		Variant:          playVariant,
		DurationSeconds:  playDuration,
		TutorialRequired: playTutorialRequired,
		TutorialRetry:    playTutorialRetry,
		AutoStart:        playAutoStart,
		Lang:             playLang,
		KeyFile:          playKeyFile,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}
	settings, key, err := resolveSettings(cfg)
	if err != nil {
		return err
	}

	logger, err := logging.New(envCfg.LogPathOrDefault(), playVerbose)
	if err != nil {
		return err
	}
	defer func() {
		// Best-effort flush; syncing a file logger can fail on some platforms.
		_ = logger.Sync()
	}()

	cat, err := i18n.Load()
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}

	st, err := store.Open(envCfg.DBPathOrDefault())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	machine, err := game.NewMachine(key, settings)
	if err != nil {
		return fmt.Errorf("failed to set up game: %w", err)
	}
	logger.Info("starting game",
		zap.String("variant", settings.Variant.Name),
		zap.Duration("duration", settings.Duration),
		zap.Int("tutorialRequired", settings.TutorialRequired),
		zap.Stringer("tutorialRetry", settings.TutorialRetry),
		zap.Bool("autoStart", settings.AutoStart),
		zap.String("lang", cfg.Lang),
	)

	player := model.Player{Name: playName, Company: playCompany}
	m := tui.NewModel(machine, st, cat.Printer(cfg.Lang), logger, player)
	program := tea.NewProgram(m, tea.WithAltScreen())
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

func newKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "key",
		Short: "Print the reference key",
		Args:  cobra.NoArgs,
		RunE:  runKeyCmd,
	}
	cmd.Flags().StringVar(&keyVariant, "variant", symbols.DefaultVariant, "symbol set")
	cmd.Flags().StringVar(&keyFile, "key-file", "", "custom key file")
	return cmd
}

func runKeyCmd(cmd *cobra.Command, _ []string) error {
	v, err := symbols.LookupVariant(keyVariant)
	if err != nil {
		return err
	}
	if keyFile != "" {
		entries, err := symbols.LoadKeyFile(keyFile)
		if err != nil {
			return fmt.Errorf("failed to load key file: %w", err)
		}
		v = v.WithEntries(entries)
	}
	key, err := v.Key()
	if err != nil {
		return fmt.Errorf("invalid key: %w", err)
	}
	return writeKey(cmd.OutOrStdout(), key)
}

func writeKey(w io.Writer, key symbols.Key) error {
	for _, e := range key.Entries() {
		if _, err := fmt.Fprintf(w, "%s  %-10s %d\n", e.Glyph, e.Symbol, e.Digit); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newResultsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "results",
		Short: "Browse stored results",
		Args:  cobra.NoArgs,
		RunE:  runResultsCmd,
	}
	cmd.PersistentFlags().StringVar(&resultsName, "name", "", "player name filter")
	cmd.PersistentFlags().StringVar(&resultsCompany, "company", "", "company filter")
	cmd.PersistentFlags().StringVar(&resultsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.PersistentFlags().IntVar(&resultsLast, "last", 0, "limit to last N results")
	cmd.Flags().BoolVar(&resultsPlain, "plain", false, "print a table instead of the browser")
	cmd.Flags().IntVar(&resultsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.AddCommand(newExportCmd())
	return cmd
}

func resultFilter() (model.ResultFilter, error) {
	var sinceTime *time.Time
	if resultsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", resultsSince, time.Local)
		if err != nil {
			return model.ResultFilter{}, fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if resultsLast < 0 {
		return model.ResultFilter{}, fmt.Errorf("--last must be >= 0")
	}
	return model.ResultFilter{
		Name:    resultsName,
		Company: resultsCompany,
		Since:   sinceTime,
		Last:    resultsLast,
	}, nil
}

func openStore() (*store.Store, error) {
	envCfg, err := config.LoadEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}
	st, err := store.Open(envCfg.DBPathOrDefault())
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	return st, nil
}

func runResultsCmd(cmd *cobra.Command, _ []string) error {
	filter, err := resultFilter()
	if err != nil {
		return err
	}
	if resultsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	fd := int(os.Stdout.Fd())
	if resultsPlain || !term.IsTerminal(fd) {
		width := defaultPlotWidth
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			width = w
		}
		return renderPlain(cmd.Context(), cmd.OutOrStdout(), st, filter, width)
	}

	m := resultsui.NewModel(st, resultsui.Config{Filter: filter, CurveWindow: resultsCurveWindow})
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run results TUI: %w", err)
	}
	return nil
}

func renderPlain(ctx context.Context, w io.Writer, lister stats.ResultLister, filter model.ResultFilter, width int) error {
	if ctx == nil {
		ctx = context.Background()
	}
	report, err := stats.BuildReport(ctx, lister, filter)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}
	if err := stats.RenderSummary(w, report.Records, resultsCurveWindow, width-len("Score trend: []")); err != nil {
		return err
	}
	return stats.RenderResultTable(w, report.Records)
}

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export results as CSV or YAML",
		Args:  cobra.NoArgs,
		RunE:  runExportCmd,
	}
	names := make([]string, 0, len(export.Formats()))
	for _, f := range export.Formats() {
		names = append(names, string(f))
	}
	cmd.Flags().StringVar(&exportFormat, "format", string(export.FormatCSV), fmt.Sprintf("output format (%s)", strings.Join(names, ", ")))
	cmd.Flags().StringVar(&exportOut, "out", "", "output file (default: stdout)")
	return cmd
}

func runExportCmd(cmd *cobra.Command, _ []string) error {
	format, err := export.ParseFormat(exportFormat)
	if err != nil {
		return err
	}
	filter, err := resultFilter()
	if err != nil {
		return err
	}
	cat, err := i18n.Load()
	if err != nil {
		return fmt.Errorf("failed to load translations: %w", err)
	}
	st, err := openStore()
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	records, err := st.List(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to load results: %w", err)
	}

	if exportOut == "" {
		return export.Write(cmd.OutOrStdout(), format, records, cat)
	}
	return writeExportFile(exportOut, format, records, cat)
}

func writeExportFile(path string, format export.Format, records []model.ResultRecord, cat *i18n.Catalog) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create export dir: %w", err)
	}
	tmpFile, err := os.CreateTemp(filepath.Dir(path), "export-*")
	if err != nil {
		return fmt.Errorf("failed to create temp export: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()
	if err := export.Write(tmpFile, format, records, cat); err != nil {
		return err
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close export: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to write export: %w", err)
	}
	logErrf("Wrote %d results to %s\n", len(records), path)
	return nil
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

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
