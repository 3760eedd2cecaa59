// Package cli implements the command-line interface for hypo-search.
//
// The cli package provides the Cobra-based CLI: the root command runs an
// event bibliography search and prints the catalog as text, JSON or CSV;
// "params" shows the resolved search parameters without fetching; "show" and
// "list" read catalogs saved with --save. It wires the config, fetch,
// session and storage packages together.
package cli
