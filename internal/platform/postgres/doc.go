// Package postgres provides a PostgreSQL implementation of store.TaskStore.
//
// It owns the database schema as embedded goose migrations, opens pgx-backed
// *sql.DB pools and maps driver errors onto the store package's sentinels.
package postgres
