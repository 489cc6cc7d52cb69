package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"codetidy/internal/baseline"
	"codetidy/internal/config"
	"codetidy/internal/tidy"
	"codetidy/internal/watch"
)

type checkFlags struct {
	format        string
	verbose       bool
	fullPath      bool
	withNotes     bool
	jobs          int
	baseline      string
	writeBaseline string
	ui            uiMode
	watch         bool
	debounce      time.Duration

	// глобальные
	quiet      bool
	timings    bool
	maxDiag    int
	configPath string
	tracePath  string
}

func newCheckCmd() *cobra.Command {
	checkCmd := &cobra.Command{
		Use:   "check [flags] [root]",
		Short: "Verify the error code registry against docs, UI tests and sources",
		Long: `Parse the error code registry, audit every explanation document and UI test
output, and scan the compiler sources for code usage. Exits with status 1
when any error is found`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheck,
	}
	checkCmd.Flags().BoolP("verbose", "v", false, "also show warnings")
	checkCmd.Flags().String("format", "pretty", "output format (pretty|short|json|sarif)")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
	checkCmd.Flags().Bool("with-notes", false, "include notes in output")
	checkCmd.Flags().Int("jobs", 0, "max parallel file reads (0=auto)")
	checkCmd.Flags().String("baseline", "", "suppress findings recorded in this baseline file")
	checkCmd.Flags().String("write-baseline", "", "record the current findings into this baseline file")
	checkCmd.Flags().String("ui", "auto", "progress UI (auto|on|off)")
	checkCmd.Flags().Bool("watch", false, "re-run the check when files change")
	checkCmd.Flags().Duration("debounce", watch.DefaultDebounce, "quiet period before a re-run in watch mode")
	return checkCmd
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	var f checkFlags
	var err error

	if f.format, err = cmd.Flags().GetString("format"); err != nil {
		return f, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch f.format {
	case "pretty", "short", "json", "sarif":
	default:
		return f, fmt.Errorf("unknown format: %s", f.format)
	}
	if f.verbose, err = cmd.Flags().GetBool("verbose"); err != nil {
		return f, fmt.Errorf("failed to get verbose flag: %w", err)
	}
	if f.fullPath, err = cmd.Flags().GetBool("fullpath"); err != nil {
		return f, fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	if f.withNotes, err = cmd.Flags().GetBool("with-notes"); err != nil {
		return f, fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	if f.jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return f, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if f.baseline, err = cmd.Flags().GetString("baseline"); err != nil {
		return f, fmt.Errorf("failed to get baseline flag: %w", err)
	}
	if f.writeBaseline, err = cmd.Flags().GetString("write-baseline"); err != nil {
		return f, fmt.Errorf("failed to get write-baseline flag: %w", err)
	}
	uiStr, err := cmd.Flags().GetString("ui")
	if err != nil {
		return f, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if f.ui, err = readUIMode(uiStr); err != nil {
		return f, err
	}
	if f.watch, err = cmd.Flags().GetBool("watch"); err != nil {
		return f, fmt.Errorf("failed to get watch flag: %w", err)
	}
	if f.debounce, err = cmd.Flags().GetDuration("debounce"); err != nil {
		return f, fmt.Errorf("failed to get debounce flag: %w", err)
	}

	pf := cmd.Root().PersistentFlags()
	if f.quiet, err = pf.GetBool("quiet"); err != nil {
		return f, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if f.timings, err = pf.GetBool("timings"); err != nil {
		return f, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if f.maxDiag, err = pf.GetInt("max-diagnostics"); err != nil {
		return f, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if f.configPath, err = pf.GetString("config"); err != nil {
		return f, fmt.Errorf("failed to get config flag: %w", err)
	}
	if f.tracePath, err = pf.GetString("trace"); err != nil {
		return f, fmt.Errorf("failed to get trace flag: %w", err)
	}
	return f, nil
}

// loadOptions discovers the configuration above root and converts it.
func loadOptions(root, configPath string) (*config.Config, tidy.Options, error) {
	cfg, err := config.Discover(root, configPath)
	if err != nil {
		return nil, tidy.Options{}, fmt.Errorf("failed to load config: %w", err)
	}
	opts, err := tidy.OptionsFromConfig(cfg)
	if err != nil {
		return nil, tidy.Options{}, err
	}
	return cfg, opts, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	flags, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	root := "."
	if len(args) == 1 {
		root = args[0]
	}
	cfg, opts, err := loadOptions(root, flags.configPath)
	if err != nil {
		return err
	}
	opts.Jobs = flags.jobs

	var base *baseline.Baseline
	if flags.baseline != "" {
		payload, err := baseline.Read(flags.baseline)
		if err != nil {
			return fmt.Errorf("failed to load baseline: %w", err)
		}
		base = baseline.New(payload)
	}

	run := &checkRun{
		out:    cmd.OutOrStdout(),
		errOut: cmd.ErrOrStderr(),
		cfg:    cfg,
		opts:   opts,
		flags:  flags,
		base:   base,
		useUI:  shouldUseTUI(flags.ui, flags.format),
	}

	if !flags.watch {
		failed, err := run.once(cmd.Context())
		if err != nil {
			return err
		}
		if failed {
			cmd.SilenceErrors = true
			return errFindings
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()
	if _, err := run.once(ctx); err != nil {
		return err
	}
	wopts := watch.Options{
		Debounce: flags.debounce,
		Skip:     opts.SkipFunc(),
		Ignore:   ownOutputs(flags),
		OnError: func(err error) {
			fmt.Fprintf(run.errOut, "watch: %v\n", err)
		},
	}
	return watch.Run(ctx, watchRoots(opts), wopts, func(ctx context.Context) {
		if !flags.quiet {
			fmt.Fprintln(run.errOut, "change detected, re-running check")
		}
		if _, err := run.once(ctx); err != nil && ctx.Err() == nil {
			fmt.Fprintf(run.errOut, "codetidy: %v\n", err)
		}
	})
}

type checkRun struct {
	out    io.Writer
	errOut io.Writer
	cfg    *config.Config
	opts   tidy.Options
	flags  checkFlags
	base   *baseline.Baseline
	useUI  bool
}

// once runs the pipeline, applies the baseline and renders. It reports
// whether error findings remain.
func (r *checkRun) once(ctx context.Context) (bool, error) {
	opts := r.opts
	var summary bytes.Buffer
	if !r.flags.quiet && (r.flags.format == "pretty" || r.flags.format == "short") {
		opts.Out = &summary
	}

	var (
		res *tidy.Result
		err error
	)
	if r.useUI {
		res, err = runCheckWithUI(ctx, r.out, "codetidy check", opts)
	} else {
		res, err = tidy.Check(ctx, opts)
	}
	if err != nil {
		return false, fmt.Errorf("check failed: %w", err)
	}
	// итоговые строки после TUI, чтобы не смешивать вывод
	if _, err := summary.WriteTo(r.out); err != nil {
		return false, err
	}

	bag := res.Bag
	base := r.base
	if r.flags.writeBaseline != "" {
		payload := baseline.FromBag(bag, r.cfg.Root)
		if err := baseline.Write(r.flags.writeBaseline, payload); err != nil {
			return false, fmt.Errorf("failed to write baseline: %w", err)
		}
		if !r.flags.quiet {
			fmt.Fprintf(r.errOut, "wrote %d findings to baseline %s\n", len(payload.Entries), r.flags.writeBaseline)
		}
		base = baseline.New(payload)
	}
	if base != nil {
		kept, suppressed := base.Filter(bag, r.cfg.Root)
		bag = kept
		if suppressed > 0 && !r.flags.quiet {
			fmt.Fprintf(r.errOut, "%d findings suppressed by baseline\n", suppressed)
		}
	}

	if err := renderFindings(r.out, bag, r.flags, r.cfg.Root); err != nil {
		return false, fmt.Errorf("failed to format diagnostics: %w", err)
	}
	if r.flags.timings {
		fmt.Fprint(r.errOut, res.Timing.Summary())
	}
	return bag.HasErrors(), nil
}

// watchRoots lists every directory the check reads from.
func watchRoots(opts tidy.Options) []string {
	candidates := []string{filepath.Dir(opts.RegistryPath), opts.DocsDir, opts.TestsDir}
	candidates = append(candidates, opts.SearchRoots...)
	seen := make(map[string]struct{}, len(candidates))
	roots := make([]string, 0, len(candidates))
	for _, c := range candidates {
		c = filepath.Clean(c)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		roots = append(roots, c)
	}
	return roots
}

// ownOutputs drops events for files codetidy itself writes in watch mode.
func ownOutputs(flags checkFlags) func(string) bool {
	var own []string
	for _, p := range []string{flags.writeBaseline, flags.tracePath} {
		if p == "" || p == "-" {
			continue
		}
		if abs, err := filepath.Abs(p); err == nil {
			own = append(own, abs)
		}
	}
	return func(path string) bool {
		if strings.HasPrefix(filepath.Base(path), ".baseline-") {
			return true
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return false
		}
		for _, p := range own {
			if abs == p {
				return true
			}
		}
		return false
	}
}
