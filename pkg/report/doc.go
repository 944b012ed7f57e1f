// Package report records the history of parse runs.
//
// A Report counts the files, constructs and errors of one run. Reports are
// kept in a Store: SQLiteStore for history that survives restarts, or
// MemoryStore. A Pruner removes reports past the retention period and is
// usually scheduled with watch.Scheduler.
package report
