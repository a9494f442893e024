package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hproftools/heapherd/internal/doctor"
	"github.com/hproftools/heapherd/internal/exitcode"
	"github.com/hproftools/heapherd/internal/ui"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check that the environment can run captures",
	Long: `doctor verifies the JDK tools (javac, java, jmap) are on PATH, the
programs directory contains sources, and the output directory is writable.
Run it when a capture fails in a way that smells environmental.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := &doctor.CheckContext{ProgramsDir: cfg.ProgramsDir, OutputDir: cfg.OutputDir}
	report := doctor.Default().Run(ctx)

	for _, c := range report.Checks {
		fmt.Printf("%s %s: %s\n", doctorIcon(c.Status), c.Name, c.Message)
		if c.FixHint != "" && c.Status != doctor.StatusOK {
			fmt.Printf("    %s\n", ui.Muted(c.FixHint))
		}
	}

	fmt.Println()
	if report.HasErrors() {
		fmt.Fprintf(os.Stderr, "%d error(s), %d warning(s)\n", report.Errors, report.Warnings)
		return exitcode.New(exitcode.ErrMissingTool, "environment is not ready for captures")
	}
	if report.Warnings > 0 {
		fmt.Printf("%d warning(s), no errors\n", report.Warnings)
	} else {
		fmt.Println(ui.Success("All checks passed"))
	}
	return nil
}

func doctorIcon(status doctor.CheckStatus) string {
	switch status {
	case doctor.StatusOK:
		return ui.StatusIcon("success")
	case doctor.StatusWarning:
		return ui.StatusIcon("partial")
	default:
		return ui.StatusIcon("failed")
	}
}
