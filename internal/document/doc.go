// Package document holds the raw response forms the page parser consumes.
//
// An HTML listing is flattened to the ordered text nodes of its body; a
// QuakeML response is kept as a namespace-aware element tree.
package document
