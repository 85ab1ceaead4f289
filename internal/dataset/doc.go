// Package dataset loads the research CSVs and picks the columns that hold
// each row's symbol and name.
//
// Input files come from different sources with inconsistent headers, so
// headers are trimmed and lowercased, then probed against a priority list
// per field. Column detection is best effort: the first header present in
// the list wins and the content of that column is not checked.
//
// Parsing follows the conventions of the tools that produced the files:
// blank lines are skipped, a UTF-8 or UTF-16 byte order mark is honoured,
// short rows are padded with empty cells, and the usual spreadsheet NA
// markers ("NA", "NaN", "null", ...) count as absent values. A row with more
// cells than the header is malformed.
package dataset
