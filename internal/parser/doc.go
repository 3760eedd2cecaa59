// Package parser turns bulletin listing documents into catalog events.
//
// The HTML listing is a loosely structured text page: each event opens with
// a header line, has a whitespace-separated data row two lines below it, and
// is followed by one line per bibliographic article. HTMLDecoder reads that
// page through a schema of named fields so format drift fails with a
// MalformedRowError instead of misreading columns.
//
// QuakeMLDecoder walks the XML variant of the same listing.
package parser
