// Package hn fetches Hacker News story lists, stories and comments.
//
// A Service layers four mechanisms in front of the public Firebase API:
//
//   - a TTL cache per resource kind, with stale fallback for items
//   - in-flight deduplication keyed by URL, so concurrent callers share one request
//   - a retry executor with exponential backoff and a per-attempt timeout
//   - a permit pool bounding how many requests are on the wire at once
//
// Lookup order is cache, then deduplicator, then executor. Batch operations
// fan out with a bounded number of workers and drop items that fail.
//
// # Usage
//
//	svc := hn.NewService(hn.WithLogger(logger))
//	ids, err := svc.FetchStoryIDs(ctx, hn.ListTop)
//	if err != nil {
//		return err
//	}
//	stories := svc.FetchStoriesConcurrent(ctx, ids[:30])
//
// Every collaborator is owned by the Service; nothing is registered in
// process globals.
package hn
