package cmd

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags; falls back to module build info.
var Version = ""

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the heapherd version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("heapherd %s\n", resolveVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func resolveVersion() string {
	if Version != "" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}
