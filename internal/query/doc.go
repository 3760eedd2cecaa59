// Package query builds bulletin search parameters and renders them as a
// provider search URL.
//
// Build turns user criteria (a single day or an explicit date range, review
// status, region, optional outputs) into an immutable Params value.
// FormatURL serializes Params into the provider's positional query-string
// dialect.
package query
