// Package postgres provides PostgreSQL-specific implementations for the data
// storage interfaces (repositories) defined in the internal/store package.
// It handles query execution, mapping between domain entities and rows, and
// translation of PostgreSQL errors into store errors. The schema lives in
// the embedded goose migrations under migrations/.
package postgres
