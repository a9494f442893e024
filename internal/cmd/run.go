package cmd

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/hproftools/heapherd/internal/buildcache"
	"github.com/hproftools/heapherd/internal/compile"
	"github.com/hproftools/heapherd/internal/constants"
	"github.com/hproftools/heapherd/internal/discover"
	"github.com/hproftools/heapherd/internal/doctor"
	"github.com/hproftools/heapherd/internal/exitcode"
	"github.com/hproftools/heapherd/internal/ledger"
	"github.com/hproftools/heapherd/internal/proc"
	"github.com/hproftools/heapherd/internal/snapshot"
	"github.com/hproftools/heapherd/internal/ui"
)

var flagKeepClasses bool

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Compile, launch, and capture heap dumps from all targets",
	RunE:  runRun,
}

func init() {
	runCmd.Flags().BoolVar(&flagKeepClasses, "keep-classes", false, "keep compiled .class files after the run")
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Missing tools abort before any work starts; everything after this
	// degrades per-target instead of failing the run.
	checkCtx := &doctor.CheckContext{ProgramsDir: cfg.ProgramsDir, OutputDir: cfg.OutputDir}
	if report := doctor.Default().RunRequired(checkCtx); report.HasErrors() {
		for _, c := range report.Checks {
			if c.Status == doctor.StatusError {
				fmt.Fprintf(os.Stderr, "%s %s: %s\n", ui.Failed("✗"), c.Name, c.Message)
			}
		}
		return exitcode.New(exitcode.ErrMissingTool, "required tools are missing; see `heapherd doctor`")
	}

	targets, err := discover.Targets(cfg.ProgramsDir)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return exitcode.Newf(exitcode.ErrNoSources, "no .java files found in %s", cfg.ProgramsDir)
	}

	fmt.Printf("Found %d test program(s):\n", len(targets))
	for _, target := range targets {
		fmt.Printf("  - %s: %s\n", target.Name, ui.Muted(target.Description))
	}
	fmt.Println()

	logger, closeLog, err := openRunLog(cfg.OutputDir)
	if err != nil {
		return err
	}
	defer closeLog()

	supervisor := proc.NewSupervisor(logger)
	compiler := compile.New(buildcache.New(cfg.ProgramsDir), logger)
	compiler.Timeout = cfg.CompileTimeout()
	snap := snapshot.New(cfg.OutputDir, logger)
	snap.DumpTimeout = cfg.DumpTimeout()
	snap.HistogramTimeout = cfg.HistogramTimeout()

	runner := &ledger.Runner{
		Compiler:      compiler,
		Supervisor:    supervisor,
		Snapshotter:   snap,
		Store:         ledger.NewStore(cfg.OutputDir),
		Java:          "java",
		ProgramsDir:   cfg.ProgramsDir,
		JVMFlags:      cfg.JVM.Flags,
		StabilizeWait: cfg.StabilizeWait(),
		GracePeriod:   cfg.TermGracePeriod(),
		KillPeriod:    cfg.KillWaitPeriod(),
		Logger:        logger,
	}

	// Backstop: no managed process may outlive this command, whatever
	// path we leave on. Per-target termination already happens in RunOne.
	defer supervisor.TerminateAll(cfg.TermGracePeriod(), cfg.KillWaitPeriod())

	if !flagKeepClasses {
		defer func() {
			if n := compile.CleanClassFiles(cfg.ProgramsDir); n > 0 {
				logger.Printf("Removed %d .class file(s)", n)
			}
		}()
	}

	result, err := runner.RunAll(targets, printTargetResult)
	if err != nil {
		return err
	}

	return printSummary(cfg.OutputDir, result)
}

// openRunLog opens the append-only supervisor log in the output directory.
func openRunLog(outputDir string) (*log.Logger, func(), error) {
	path := filepath.Join(outputDir, constants.RunLogFile)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("opening run log: %w", err)
	}
	return log.New(f, "", log.LstdFlags), func() { f.Close() }, nil
}

// printTargetResult emits one line per finished target, plus detail lines
// in verbose mode.
func printTargetResult(rec ledger.RunRecord, skipped bool) {
	icon := ui.StatusIcon(string(rec.Status))
	if skipped {
		fmt.Printf("%s %s %s\n", icon, rec.Name, ui.Muted("(skipped: unchanged)"))
		return
	}
	fmt.Printf("%s %s\n", icon, rec.Name)

	if !flagVerbose {
		return
	}
	if rec.PID != 0 {
		fmt.Printf("    PID: %d\n", rec.PID)
	}
	if rec.HeapDump != "" {
		fmt.Printf("    Heap Dump: %s\n", filepath.Base(rec.HeapDump))
	}
	if rec.Histogram != "" {
		fmt.Printf("    Histogram: %s\n", filepath.Base(rec.Histogram))
	}
}

// printSummary prints the totals line and returns a coded error when any
// target did not fully succeed.
func printSummary(outputDir string, result *ledger.Ledger) error {
	var success, partial, failed int
	for _, rec := range result.Targets {
		switch rec.Status {
		case ledger.StatusSuccess:
			success++
		case ledger.StatusPartial:
			partial++
		default:
			failed++
		}
	}

	fmt.Println()
	fmt.Printf("Results: %d success, %d partial, %d failed\n", success, partial, failed)
	fmt.Printf("Ledger: %s\n", ui.Muted(filepath.Join(outputDir, constants.LedgerFile)))

	if partial > 0 || failed > 0 {
		return exitcode.Newf(exitcode.ErrTargetsFailed,
			"%d target(s) did not fully succeed", partial+failed)
	}
	return nil
}
