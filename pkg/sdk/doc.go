// Package apicat provides an embeddable Go client for browsing an API
// catalog workspace through its data API.
//
// # One-shot queries
//
//	client, _ := apicat.New(ctx, "https://contoso.data.westeurope.azure-apicenter.ms",
//	    apicat.WithToken(token),
//	    apicat.WithLRUCache(128, time.Hour),
//	)
//	page, _ := client.Search(ctx, apicat.Query{
//	    Text:    "payments",
//	    Filters: []apicat.Filter{{Type: "kind", Value: "rest"}},
//	})
//	next, _ := client.Continue(ctx, page.Next)
//
// # Stateful browsing
//
// A Browser accumulates pages for one query, drops responses that arrive
// after the query changed and sorts the fetched items locally:
//
//	b := client.NewBrowser()
//	defer b.Close()
//	_ = b.SetQuery(ctx, apicat.Query{Text: "send invoices", Semantic: true})
//	for more := true; more; more, _ = b.LoadMore(ctx) {
//	}
//	_ = b.SetSort("title:desc")
//	view := b.View()
package apicat
