package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hproftools/heapherd/internal/discover"
	"github.com/hproftools/heapherd/internal/exitcode"
	"github.com/hproftools/heapherd/internal/ledger"
	"github.com/hproftools/heapherd/internal/ui"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "List discovered test programs and their last recorded status",
	RunE:  runTargets,
}

func init() {
	rootCmd.AddCommand(targetsCmd)
}

func runTargets(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	targets, err := discover.Targets(cfg.ProgramsDir)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return exitcode.Newf(exitcode.ErrNoSources, "no .java files found in %s", cfg.ProgramsDir)
	}

	prev := ledger.NewStore(cfg.OutputDir).Load()

	for _, target := range targets {
		line := fmt.Sprintf("%s  %s", target.Name, ui.Muted(target.Description))
		if rec, ok := prev.Targets[target.Name]; ok {
			line = fmt.Sprintf("%s %s", ui.StatusIcon(string(rec.Status)), line)
		} else {
			line = fmt.Sprintf("%s %s", ui.Muted("·"), line)
		}
		fmt.Println(line)
	}
	return nil
}
