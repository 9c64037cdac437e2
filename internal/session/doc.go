// Package session holds the per-batch item records, the in-memory state that
// serializes updates to them, the asynchronous mirror that pushes snapshots to
// the persistent store, and the SQLite store itself.
package session
