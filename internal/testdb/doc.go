// Package testdb provides utilities specifically for database integration
// tests: locating the test database, applying the embedded migrations and
// running each test inside a transaction that is always rolled back.
//
// Tests using it are expected to carry the integration build tag and are
// skipped when no database URL is configured. The URL is read from
// DATABASE_URL, falling back to AGRO_TEST_DB_URL.
package testdb
