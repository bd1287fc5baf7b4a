// Package memory provides an in-process implementation of store.TaskStore.
//
// Tasks live only for the lifetime of the TaskStore value: nothing is written
// to disk and everything is lost when the process stops. It is the default
// backend when no database URL is configured.
package memory
