package query

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidInput is returned when no usable date range can be resolved
// from the supplied criteria.
var ErrInvalidInput = errors.New("invalid search input")

// ReviewStatus selects which bulletin the provider searches
type ReviewStatus string

const (
	Reviewed      ReviewStatus = "REVIEWED"
	Comprehensive ReviewStatus = "COMPREHENSIVE"
)

const (
	// DefaultShape is the region sentinel used when no shape is given.
	// Paired with empty coordinates it means "no region filter".
	DefaultShape  = "POLY"
	DefaultSortBy = "day"
	Source        = "ISC Bulletin"
)

// Outputs holds the optional-output toggles of a search
type Outputs struct {
	IncludeNullMag    bool
	IncludeNullPhases bool
	OnlyPrimeHypo     bool
	IncludePhases     bool
	IncludeMagnitudes bool
	IncludeWeblinks   bool
	IncludeHeaders    bool
	IncludeComments   bool
}

// tokens returns the query-string toggles for every enabled output, in the
// order the provider documents them.
func (o Outputs) tokens() []string {
	toggles := []struct {
		on    bool
		token string
	}{
		{o.IncludeNullMag, "&null_mag=on"},
		{o.IncludeNullPhases, "&null_phs=on"},
		{o.OnlyPrimeHypo, "&prime_only=on"},
		{o.IncludePhases, "&include_phases=on"},
		{o.IncludeMagnitudes, "&include_magnitudes=on"},
		{o.IncludeWeblinks, "&include_links=on"},
		{o.IncludeHeaders, "&include_headers=on"},
		{o.IncludeComments, "&include_comments=on"},
	}

	var out []string
	for _, t := range toggles {
		if t.on {
			out = append(out, t.token)
		}
	}
	return out
}

// Filters are the numeric and agency filters of a search. Values are passed
// to the provider as-is; empty values are sent as empty parameters.
type Filters struct {
	MinDepth    string
	MaxDepth    string
	MinMag      string
	MaxMag      string
	MagType     string
	MagAgency   string
	MinDefining string
	MaxDefining string
}

// Criteria is the raw, user-supplied description of a search.
// Either Date or both StartDate and EndDate must be set.
type Criteria struct {
	Date      *time.Time
	StartDate *time.Time
	EndDate   *time.Time

	Reviewed bool
	Shape    string
	Coords   string
	SortBy   string

	PublishedMinYear string
	PublishedMaxYear string
	PublishedAuthor  string
	Publisher        string

	Filters Filters
	Outputs Outputs
}

// Params is the resolved, immutable form of a search
type Params struct {
	StartDate time.Time
	EndDate   time.Time
	Review    ReviewStatus

	Shape  string
	Coords string
	SortBy string

	PublishedMinYear string
	PublishedMaxYear string
	PublishedAuthor  string
	Publisher        string

	Filters Filters

	// OptionalOutputs are query-string tokens in the order they were built
	OptionalOutputs []string
	Source          string
}

// Build resolves criteria into Params. It performs no I/O.
func Build(c Criteria) (Params, error) {
	var p Params

	switch {
	case c.Date != nil:
		p.StartDate = c.Date.UTC()
		p.EndDate = p.StartDate.Add(24 * time.Hour)
	case c.StartDate != nil && c.EndDate != nil:
		p.StartDate = c.StartDate.UTC()
		p.EndDate = c.EndDate.UTC()
		if p.EndDate.Before(p.StartDate) {
			return Params{}, fmt.Errorf("%w: end date %s is before start date %s",
				ErrInvalidInput, p.EndDate.Format(DateLayout), p.StartDate.Format(DateLayout))
		}
	default:
		return Params{}, fmt.Errorf("%w: need a date or a start and end date", ErrInvalidInput)
	}

	if c.Reviewed {
		p.Review = Reviewed
	} else {
		p.Review = Comprehensive
	}

	if strings.TrimSpace(c.Shape) != "" {
		p.Shape = strings.ToUpper(strings.TrimSpace(c.Shape))
		p.Coords = strings.TrimSpace(c.Coords)
	} else {
		p.Shape = DefaultShape
		p.Coords = ""
	}

	p.SortBy = c.SortBy
	if p.SortBy == "" {
		p.SortBy = DefaultSortBy
	}

	p.PublishedMinYear = c.PublishedMinYear
	p.PublishedMaxYear = c.PublishedMaxYear
	p.PublishedAuthor = c.PublishedAuthor
	p.Publisher = c.Publisher
	p.Filters = c.Filters
	p.OptionalOutputs = c.Outputs.tokens()
	p.Source = Source

	return p, nil
}

// IsSet reports whether the params describe a configured search
func (p Params) IsSet() bool {
	return !p.StartDate.IsZero()
}

// DateLayout is the calendar date format accepted and rendered for searches
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD date as midnight UTC
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date %q must be YYYY-MM-DD", ErrInvalidInput, s)
	}
	return t, nil
}
