// Package report accumulates unresolved tokens and writes them out.
//
// The CSV file is the primary output, one row per unresolved or
// missing-symbol token:
//
//	source_dataset,row_index,symbol,name,<source>_found...,note
//
// with one <source>_found column per cascade source, in cascade order.
// SQLite and PostgreSQL sinks receive the same rows tagged with the run ID,
// the per-source flags stored as a JSON object.
package report
