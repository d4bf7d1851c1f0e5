package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newShowCmd(root *rootOptions) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "show <api>",
		Short: "Show an API with its versions and deployments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), root, "cli")
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.catalog.Details(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(root.out, d)
			}

			out := root.out
			fmt.Fprintf(out, "%s (%s)\n", d.Api.Title, d.Api.Name)
			if d.Api.Summary != "" {
				fmt.Fprintln(out, d.Api.Summary)
			}
			fmt.Fprintf(out, "Kind: %s  Lifecycle: %s\n\n", orDash(d.Api.Kind), orDash(d.Api.LifecycleStage))

			versions := make([][]string, 0, len(d.Versions))
			for _, v := range d.Versions {
				versions = append(versions, []string{v.Name, v.Title, v.LifecycleStage})
			}
			fmt.Fprintln(out, "Versions:")
			if err := printTable(out, []string{"NAME", "TITLE", "LIFECYCLE"}, versions); err != nil {
				return err
			}

			deployments := make([][]string, 0, len(d.Deployments))
			for _, dep := range d.Deployments {
				def := ""
				if dep.IsDefault {
					def = "yes"
				}
				deployments = append(deployments, []string{
					dep.Name, dep.Title, strings.Join(dep.Server.RuntimeURI, ","), def,
				})
			}
			fmt.Fprintln(out, "\nDeployments:")
			return printTable(out, []string{"NAME", "TITLE", "RUNTIME URI", "DEFAULT"}, deployments)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}
