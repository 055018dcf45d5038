// Package store archives generated trees in SQLite.
//
// Each generation is recorded as a run (its parameters, seed, strategy and
// fingerprint) plus the run's flat node list, one row per node:
//   - runs: one row per generation, keyed by a UUIDv7 run id
//   - nodes: (run_id, id, parent, position), where position is the index
//     of the node in its parent's children list
//
// The node rows carry exactly the information of the serialized file, so a
// run read back from the store encodes to the same bytes as the file
// written alongside it.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
package store
