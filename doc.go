// Package collector is a research data-collection client for Reddit's REST
// API. It authenticates with client credentials, paginates subreddit searches,
// recursively fetches threaded comment trees (including "load more"
// expansion), and hands the flattened records to the output packages.
//
// Every outbound call passes through a sliding-window request executor that
// enforces the platform's rate limits locally and reconciles its bookkeeping
// with the server-reported quota headers, so a freshly started process
// inherits rate-limit state accrued by prior usage under the same credentials.
//
// Basic usage:
//
//	keys, err := collector.LoadKeys("keys.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	client, err := collector.NewClient(&collector.Config{
//		ClientID:     keys.ClientID,
//		ClientSecret: keys.ClientSecret,
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	posts, err := client.SearchPosts(ctx, "science", "replication", 500, types.SortNew)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	comments, err := client.GetComments(ctx, &types.CommentsRequest{PostID: posts[0].ID})
//	if err != nil {
//		log.Fatal(err)
//	}
package collector
