// Package database provides the PostgreSQL connection pool backing the frame
// archive. TimescaleDB is the intended production backend; plain PostgreSQL
// works for development.
package database
