package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kailas-cloud/apicat/internal/domain"
	"github.com/kailas-cloud/apicat/internal/domain/search/filter"
	"github.com/kailas-cloud/apicat/internal/domain/search/mode"
	"github.com/kailas-cloud/apicat/internal/domain/search/order"
	"github.com/kailas-cloud/apicat/internal/domain/search/request"
	"github.com/kailas-cloud/apicat/internal/usecase/browse"
)

type listOptions struct {
	search       string
	semantic     bool
	autocomplete bool
	filters      []string
	sort         string
	pages        int
	json         bool
}

func newListCmd(root *rootOptions) *cobra.Command {
	opts := &listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List or search APIs in the workspace",
		Example: `  apicat list --search payments --filter kind:rest --filter kind:graphql
  apicat list --search "send invoices" --semantic --sort title:desc --pages 3`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd, root, opts)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.search, "search", "", "Search text")
	f.BoolVar(&opts.semantic, "semantic", false, "Use semantic (vector) search instead of keyword search")
	f.BoolVar(&opts.autocomplete, "autocomplete", false, "Autocomplete mode: skip empty and semantic queries")
	f.StringArrayVar(&opts.filters, "filter", nil, "Facet filter type:value (repeatable)")
	f.StringVar(&opts.sort, "sort", "", "Sort fetched items: title|name|kind|lifecycleStage[:asc|desc]")
	f.IntVar(&opts.pages, "pages", 1, "Maximum number of pages to fetch")
	f.BoolVar(&opts.json, "json", false, "Print the view as JSON")
	return cmd
}

func runList(cmd *cobra.Command, root *rootOptions, opts *listOptions) error {
	intent, spec, err := opts.build()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	a, err := newApp(ctx, root, "cli")
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.client.Authenticated() {
		return fmt.Errorf("%w: set --token or APICAT_TOKEN", domain.ErrNotAuthenticated)
	}

	session := browse.NewSession(true)
	if err := session.SetSort(spec); err != nil {
		return err
	}
	ctrl := browse.New(a.catalog, session, a.logger)
	defer ctrl.Close()

	if err := ctrl.SetIntent(ctx, intent); err != nil {
		return err
	}
	for fetched := 1; fetched < opts.pages; fetched++ {
		more, err := ctrl.LoadMore(ctx)
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	return printView(root, ctrl.View(), opts.json)
}

func (o *listOptions) build() (request.Intent, order.Spec, error) {
	if o.pages < 1 {
		return request.Intent{}, order.Spec{}, fmt.Errorf("--pages must be at least 1")
	}
	clauses, err := filter.ParseClauses(o.filters)
	if err != nil {
		return request.Intent{}, order.Spec{}, err
	}
	intent, err := request.NewIntent(o.search, clauses, mode.FromFlag(o.semantic))
	if err != nil {
		return request.Intent{}, order.Spec{}, err
	}
	spec, err := order.Parse(o.sort)
	if err != nil {
		return request.Intent{}, order.Spec{}, err
	}
	return intent.WithAutocomplete(o.autocomplete), spec, nil
}

func printView(root *rootOptions, v browse.View, asJSON bool) error {
	if asJSON {
		return printJSON(root.out, v)
	}
	if len(v.Items) == 0 {
		fmt.Fprintln(root.out, "No APIs found.")
		return nil
	}
	rows := make([][]string, 0, len(v.Items))
	for _, it := range v.Items {
		rows = append(rows, []string{it.Name, it.Title, it.Kind, it.LifecycleStage})
	}
	if err := printTable(root.out, []string{"NAME", "TITLE", "KIND", "LIFECYCLE"}, rows); err != nil {
		return err
	}
	if v.HasMore {
		fmt.Fprintln(root.out, "\nMore results available; raise --pages to fetch them.")
	}
	return nil
}
