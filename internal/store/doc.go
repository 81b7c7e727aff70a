// Package store keeps a SQLite journal of engine events.
//
// The journal is append-only:
//   - Sessions: one row per playthrough, keyed by session ID
//   - Events: every engine.Event, keyed by its logical sequence number
//
// # Critical Patterns
//
// CP-2: Logical Identity and Time
//   - All ordering uses seq INTEGER (the engine's logical clock), NEVER timestamps
//   - Replaying a scenario yields the same rows in the same order
//
// CP-4: Deterministic Query Results
//   - All queries MUST include: ORDER BY seq ASC
//   - Session listings break ties with id COLLATE BINARY
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes (file databases only)
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Events must reference a known session
//
// The CLI opens the journal at ":memory:", so nothing outlives the process.
package store
