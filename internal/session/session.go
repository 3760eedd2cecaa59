package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/hypo-search/internal/catalog"
	"github.com/pfrederiksen/hypo-search/internal/document"
	"github.com/pfrederiksen/hypo-search/internal/logger"
	"github.com/pfrederiksen/hypo-search/internal/parser"
	"github.com/pfrederiksen/hypo-search/internal/query"
)

// ErrEmptyParameters is returned by accessors before a search is configured
var ErrEmptyParameters = errors.New("empty search parameters")

// Fetcher retrieves a search URL as a parsed document
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*document.Document, error)
}

// Session is one bibliography search and its result
type Session struct {
	fetcher Fetcher
	baseURL string
	html    parser.Decoder
	quakeml *parser.QuakeMLDecoder

	params   query.Params
	catalog  *catalog.Catalog
	elements []parser.EventElements
}

// New creates an empty session that fetches from baseURL
func New(fetcher Fetcher, baseURL string) *Session {
	if baseURL == "" {
		baseURL = query.DefaultBaseURL
	}
	return &Session{
		fetcher: fetcher,
		baseURL: baseURL,
		html:    parser.NewHTMLDecoder(),
		quakeml: parser.NewQuakeMLDecoder(),
	}
}

// Configure resolves criteria into the session's parameters and clears any
// previous result.
func (s *Session) Configure(c query.Criteria) error {
	p, err := query.Build(c)
	if err != nil {
		return err
	}
	s.params = p
	s.catalog = nil
	s.elements = nil
	return nil
}

// Search configures the session from criteria and runs it
func (s *Session) Search(ctx context.Context, c query.Criteria) error {
	if err := s.Configure(c); err != nil {
		return err
	}
	return s.Run(ctx)
}

// URL returns the search URL for the configured parameters
func (s *Session) URL() (string, error) {
	if !s.params.IsSet() {
		return "", ErrEmptyParameters
	}
	return query.FormatURL(s.baseURL, s.params), nil
}

// Run fetches and parses the configured search.
//
// An empty or truncated provider response leaves an empty catalog and
// returns parser.ErrEmptyResult or parser.ErrResultTruncated. Any other
// failure leaves no catalog.
func (s *Session) Run(ctx context.Context) error {
	url, err := s.URL()
	if err != nil {
		return err
	}

	s.catalog = nil
	s.elements = nil

	start := time.Now()
	doc, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		return fmt.Errorf("fetching search: %w", err)
	}

	switch doc.Kind {
	case document.KindXML:
		elements, err := s.quakeml.Elements(doc)
		if err != nil {
			return fmt.Errorf("reading quakeml: %w", err)
		}
		s.elements = elements
		logger.Info("quakeml search complete", logger.Fields{
			"events":   len(elements),
			"duration": time.Since(start).String(),
		})
		return nil

	default:
		c, err := parser.Build(s.html, doc)
		if errors.Is(err, parser.ErrEmptyResult) || errors.Is(err, parser.ErrResultTruncated) {
			s.catalog = catalog.New()
			logger.Warn("search returned no catalog", logger.Fields{"reason": err.Error()})
			return err
		}
		if err != nil {
			logger.Error("parsing listing failed", logger.Fields{"url": url}, err)
			return fmt.Errorf("parsing listing: %w", err)
		}

		s.catalog = c
		logger.SetGauge("catalog.rows", float64(c.Len()))
		logger.Info("search complete", logger.Fields{
			"rows":     c.Len(),
			"events":   c.EventCount(),
			"duration": time.Since(start).String(),
		})
		return nil
	}
}

// QueryParams returns the resolved parameters of the current search
func (s *Session) QueryParams() query.Params {
	return s.params
}

// Catalog returns the last parsed catalog, or nil
func (s *Session) Catalog() *catalog.Catalog {
	return s.catalog
}

// Elements returns the attributed elements of the last QuakeML search
func (s *Session) Elements() []parser.EventElements {
	return s.elements
}

// Params returns the non-empty search parameters by name
func (s *Session) Params() (map[string]string, error) {
	if !s.params.IsSet() {
		return nil, ErrEmptyParameters
	}

	out := make(map[string]string)
	for _, f := range s.params.Fields() {
		out[f.Key] = f.Value
	}
	return out, nil
}

// Describe renders the parameters as "Title Case Key = value" lines
func (s *Session) Describe() (string, error) {
	if !s.params.IsSet() {
		return "", ErrEmptyParameters
	}

	var b strings.Builder
	for _, f := range s.params.Fields() {
		fmt.Fprintf(&b, "%s = %s\n", query.Title(f.Key), f.Value)
	}
	return b.String(), nil
}

func (s *Session) String() string {
	out, err := s.Describe()
	if err != nil {
		return ""
	}
	return out
}
