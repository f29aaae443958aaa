// Package main provides the entry point for the glitchfang CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/glitchfang/glitchfang/cmd/glitchfang/commands"
	"github.com/glitchfang/glitchfang/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "glitchfang",
		Short: "Glitchfang - pixel sorting image glitcher",
		Long: `Glitchfang partitions image rows into intervals and reorders
the pixels inside each interval by a chosen sort key.

Commands:
  sort      Pixel-sort an image`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")

	// Add commands.
	rootCmd.AddCommand(commands.NewSortCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Fprintf(os.Stdout, "glitchfang %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
