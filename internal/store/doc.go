// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing the task rules to remain
// independent of whether tasks live in process memory or in PostgreSQL.
package store
