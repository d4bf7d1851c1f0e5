package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/apicat/internal/domain"
	chiTransport "github.com/kailas-cloud/apicat/internal/transport/chi"
	"github.com/kailas-cloud/apicat/internal/usecase/catalog"
)

func newOpsCmd(root *rootOptions) *cobra.Command {
	var (
		deploymentName string
		params         []string
		asJSON         bool
	)
	cmd := &cobra.Command{
		Use:     "ops <api> <version> <definition>",
		Short:   "List operations of a definition with their callable URLs",
		Example: `  apicat ops petstore v1 openapi --deployment prod --param petId=42`,
		Args:    cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := chiTransport.ParseParamValues(params)
			if err != nil {
				return err
			}
			id := domain.DefinitionID{APIName: args[0], VersionName: args[1], DefinitionName: args[2]}
			if err := id.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			a, err := newApp(ctx, root, "cli")
			if err != nil {
				return err
			}
			defer a.Close()

			deployments, err := a.catalog.Deployments(ctx, id.APIName)
			if err != nil {
				return err
			}
			deployment := catalog.FindDeployment(deployments, deploymentName)
			if deployment == nil && deploymentName != "" {
				return fmt.Errorf("deployment %s: %w", deploymentName, domain.ErrNotFound)
			}

			ops, err := a.catalog.Operations(ctx, id, deployment, values)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(root.out, ops)
			}
			return printOperations(root, ops)
		},
	}
	f := cmd.Flags()
	f.StringVar(&deploymentName, "deployment", "", "Deployment whose runtime host is used (default deployment if empty)")
	f.StringArrayVar(&params, "param", nil, "Path parameter value name=value (repeatable)")
	f.BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func printOperations(root *rootOptions, ops []catalog.ResolvedOperation) error {
	rows := make([][]string, 0, len(ops))
	unresolved := 0
	for _, op := range ops {
		if len(op.Missing) > 0 {
			unresolved++
		}
		rows = append(rows, []string{op.Method, op.URL, op.OperationID, strings.Join(op.Missing, ",")})
	}
	if err := printTable(root.out, []string{"METHOD", "URL", "OPERATION", "MISSING"}, rows); err != nil {
		return err
	}
	if unresolved > 0 {
		fmt.Fprintf(root.out, "\n%d operation(s) have unresolved parameters; pass --param name=value.\n", unresolved)
	}
	return nil
}
