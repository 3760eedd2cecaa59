// Package fetch retrieves bulletin search responses over HTTP.
//
// The Client sets a User-Agent, enforces a request timeout, and keeps an
// LRU cache of parsed documents keyed by URL. Concurrent requests for the
// same URL share one network call.
package fetch
