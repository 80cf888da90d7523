package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

// NewVersionCmd returns the command which prints the version
func NewVersionCmd(root *cobra.Command) *cobra.Command {
	c := &cobra.Command{
		Use:   "version",
		Args:  cobra.ExactArgs(0),
		Short: "Print the version",
		Run: func(cmd *cobra.Command, _ []string) {
			if cmd.Flag("long").Changed {
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s %s/%s)\n", version,
					runtime.Version(), runtime.GOOS, runtime.GOARCH)
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), version)
			}
		},
	}
	root.AddCommand(c)
	c.Flags().Bool("long", false, "Show long version info")
	return c
}

// register the subcommand into rootCmd
var _ = NewVersionCmd(rootCmd)
