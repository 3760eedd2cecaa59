// Package catalog provides the row-per-article earthquake bibliography table.
//
// Decoders produce Events (one seismic event plus its article references);
// Build expands them into Rows with a fixed column schema. Writers render a
// Catalog as an aligned text table, JSON, or CSV.
package catalog
