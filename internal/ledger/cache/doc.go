// Package cache memoizes query and statistics results between writes.
//
// A Region is a bounded LRU guarded by a generation counter. Invalidate bumps
// the generation and purges the LRU; a computation that started under an older
// generation may still return its result to its own caller but can never
// install it, so any read that begins after an invalidation observes a fresh
// computation.
package cache
