// Package textmatch canonicalizes free-text symbols and names and scores how
// alike two canonical strings are.
//
// Normalize projects a string onto lowercase [a-z0-9]. Letters outside ASCII
// are dropped, not transliterated, so "Ünïcoin" and "ncoin" share a key.
//
// Similarity is the SequenceMatcher ratio (2*M/T over longest matching
// blocks) computed by go-difflib.
package textmatch
