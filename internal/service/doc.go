// Package service implements the task use cases on top of a store.TaskStore.
//
// It owns the order of operations for every mutation (validate the input,
// then load and change the task atomically) and translates store errors into
// the service-level sentinels the API layer maps to HTTP responses.
package service
