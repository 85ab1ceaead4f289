// Package database opens the optional PostgreSQL pool that receives the
// unresolved-token report alongside the CSV output.
package database
