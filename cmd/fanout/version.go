package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Populated at link time via -ldflags (see stavefile.go).
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show build information",
	Long: `Show the fanout release version together with the commit, build date,
and toolchain it was compiled with.`,
	Run: runVersion,
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func runVersion(_ *cobra.Command, _ []string) {
	fmt.Printf("fanout %s (commit %s, built %s)\n", version, commit, date)
	fmt.Printf("%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
