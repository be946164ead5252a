// Package refresh implements the background refresher.
//
// The refresher:
//   - Re-reconciles a configured set of addresses on an interval
//   - Bounds concurrency with a semaphore to stay polite to sources
//   - Hands each result to a handler that caches, persists, and
//     broadcasts it
package refresh
