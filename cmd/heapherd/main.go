// heapherd is the CLI for capturing heap dumps from Java test programs.
package main

import (
	"os"

	"github.com/hproftools/heapherd/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
