package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

func versionCmd(a *app) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print version, commit, and build information for the vbind CLI.`,
		// Version needs no config.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(a.stdout, version)
				return
			}
			fmt.Fprintf(a.stdout, "vbind %s\n", version)
			fmt.Fprintf(a.stdout, "  Commit:     %s\n", commit)
			fmt.Fprintf(a.stdout, "  Built:      %s\n", date)
			fmt.Fprintf(a.stdout, "  Go version: %s\n", runtime.Version())
			fmt.Fprintf(a.stdout, "  OS/Arch:    %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only version number")

	return cmd
}
