// Package engine owns resolution and update of translation entries.
//
// Ownership boundary:
// - namespace priority search
// - expected-value check (optimistic concurrency)
// - backup-once policy
// - per-edit write and result reporting
//
// Lifecycle order:
// - validate request -> open resource set -> apply edits in order -> report
//
// There is no file locking. Two host processes editing different keys of
// the same file can still lose one update; the expected-value check only
// catches stale values of the key being edited.
package engine
