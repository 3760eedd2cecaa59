// Package storage provides JSON-based persistence for search catalogs.
//
// Each saved search is one file, catalog_<id>.json, holding the search URL,
// its parameters and the resulting rows. The id is derived from the search
// URL, so saving the same search again replaces the earlier file. The
// default storage location is ~/.local/share/hypo-search/.
package storage
