// Package todo provides the Todo entity, its validation rules and its
// persistence.
//
// A Todo is a task with a title, a description and a completion flag. Ids
// are assigned by the store at creation and are never reused, even after
// the most recent row is deleted.
//
// The package provides a Repository interface with a SQLite implementation
// and a Service that validates input before touching the store and emits
// change events to an optional Notifier.
//
// # Thread Safety
//
// SQLiteRepository and Service are safe for concurrent use. Each operation
// is one statement or one transaction; no in-memory locks are held across
// calls. Two concurrent updates to the same id are last-writer-wins.
package todo
