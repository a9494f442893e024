package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/hproftools/heapherd/internal/compile"
	"github.com/hproftools/heapherd/internal/discover"
	"github.com/hproftools/heapherd/internal/snapshot"
)

var flagCleanAll bool

var cleanCmd = &cobra.Command{
	Use:   "clean [target...]",
	Short: "Remove capture artifacts and compiled class files",
	Long: `clean removes heap dump and histogram artifacts for the named targets
from the output directory, plus compiled .class files from the programs
directory. With --all (or no targets), artifacts for every target found in
the programs directory are removed. The results ledger itself is kept.`,
	RunE: runClean,
}

func init() {
	cleanCmd.Flags().BoolVar(&flagCleanAll, "all", false, "remove artifacts for every discovered target")
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	names := args
	if flagCleanAll || len(names) == 0 {
		names, err = discoveredNames(cfg.ProgramsDir)
		if err != nil {
			return err
		}
	}

	snap := snapshot.New(cfg.OutputDir, log.New(os.Stderr, "", 0))
	total := 0
	for _, name := range names {
		total += snap.PurgePrior(name)
	}
	fmt.Printf("Removed %d artifact(s) from %s\n", total, cfg.OutputDir)

	if n := compile.CleanClassFiles(cfg.ProgramsDir); n > 0 {
		fmt.Printf("Removed %d .class file(s) from %s\n", n, cfg.ProgramsDir)
	}
	return nil
}

// discoveredNames returns the names of every target in the programs
// directory.
func discoveredNames(programsDir string) ([]string, error) {
	targets, err := discover.Targets(programsDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(targets))
	for _, t := range targets {
		names = append(names, t.Name)
	}
	return names, nil
}
