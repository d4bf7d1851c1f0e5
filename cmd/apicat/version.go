package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/apicat/internal/version"
)

func newVersionCmd(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show apicat version and build information",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			info := version.Get()
			fmt.Fprintf(root.out, "Version:    %s\n", info.Version)
			fmt.Fprintf(root.out, "Commit:     %s\n", info.Commit)
			fmt.Fprintf(root.out, "Build Date: %s\n", info.Date)
			fmt.Fprintf(root.out, "Go Version: %s\n", info.GoVersion)
			fmt.Fprintf(root.out, "OS/Arch:    %s\n", info.Platform)
			return nil
		},
	}
}
