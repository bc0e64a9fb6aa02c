// Package kvtest provides standardized tests and benchmarks for stores that
// satisfy the kv.IStore contract.
//
// The suite is driven by a StoreFactory so the same behavioral checks can be
// run against any backing:
//   - RunStoreTests: validates the full store contract (CRUD, iteration,
//     dual-view consistency, lifecycle)
//   - RunStoreBenchmarks: measures the per-operation cost of an
//     implementation for comparison across backings
package kvtest
