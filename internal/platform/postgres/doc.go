// Package postgres provides PostgreSQL implementations of the store
// interfaces. Implementations accept any store.DBTX, so they work with either
// a connection pool or an in-flight transaction, and they map database errors
// to the sentinel errors defined in internal/store.
package postgres
