// Package cmd implements the heapherd command tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hproftools/heapherd/internal/config"
	"github.com/hproftools/heapherd/internal/exitcode"
)

var (
	flagProgramsDir string
	flagOutputDir   string
	flagVerbose     bool
)

var rootCmd = &cobra.Command{
	Use:   "heapherd",
	Short: "Capture heap dumps from Java test programs, incrementally",
	Long: `heapherd compiles a directory of Java test programs, runs each one
under supervision, and captures a compressed heap dump plus an object
histogram from the live JVM. Results are recorded in a ledger so targets
whose source and artifacts are unchanged are skipped on the next run.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagProgramsDir, "dir", "", "programs directory (default from heapherd.toml)")
	rootCmd.PersistentFlags().StringVar(&flagOutputDir, "out", "", "output directory (default from heapherd.toml)")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "verbose output")
}

// loadConfig reads configuration and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(".")
	if err != nil {
		return nil, err
	}
	if flagProgramsDir != "" {
		cfg.ProgramsDir = flagProgramsDir
	}
	if flagOutputDir != "" {
		cfg.OutputDir = flagOutputDir
	}
	return cfg, nil
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitcode.Code(err)
	}
	return exitcode.Success
}
