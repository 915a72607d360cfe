// Package sqlite provides a unified SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - DocumentStore: manual metadata persistence
//   - ChunkStore: chunk and embedding persistence
//   - TopicStore: topic registry persistence
//   - ConflictStore: conflict register persistence
//   - ApprovalStore: sign-off workflow persistence
//   - AuditLog: append-only audit trail
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// Embeddings are stored as little-endian float32 BLOBs; tag arrays are
// stored as JSON text columns.
//
// # Data Location
//
// By default, the database is stored at ~/.manualmind/data/manualmind.db
//
// # Thread Safety
//
// All operations are thread-safe. The store uses database-level locking provided
// by SQLite in WAL mode.
package sqlite
