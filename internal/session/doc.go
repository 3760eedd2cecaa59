// Package session runs bulletin bibliography searches.
//
// A Session holds the resolved query parameters of the current search and,
// once run, the resulting catalog. Re-running replaces the catalog; it is
// never modified in place. A Session is not safe for concurrent use.
package session
