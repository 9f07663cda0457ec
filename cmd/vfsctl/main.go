// Command vfsctl is a small command-line client exercising the vfs
// library end to end, grounded on the teacher's cmd/ wiring
// convention: a cobra root command with one subcommand per operation,
// each registered from its own file's init().
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/sirupsen/logrus"

	_ "github.com/driftfs/vfs/backend/local"
	"github.com/driftfs/vfs/internal/xlog"
)

var verbose bool

var root = &cobra.Command{
	Use:   "vfsctl",
	Short: "Inspect and manipulate resources through the vfs backend registry",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			xlog.Log.SetLevel(logrus.DebugLevel)
		}
	},
}

func init() {
	flags := root.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	pflag.CommandLine = flags
}

func main() {
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
