// Package model defines the data types shared by the resolvers, the cascade
// and the report writers.
//
// Conventions:
//   - Symbols and names are kept exactly as read from the input dataset;
//     comparison always goes through textmatch.Normalize.
//   - A Result is immutable once returned by a resolver.
//   - External IDs are strings regardless of the catalog's native type.
package model
