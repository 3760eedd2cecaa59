// Package filter narrows a catalog after it has been fetched or loaded.
//
// The provider already filters by depth, magnitude and agency; these
// criteria work on the rows a search returned and are applied locally:
//   - Origin time window (from/to, inclusive)
//   - Event reporting agency (case-insensitive exact match)
//   - Magnitude type (case-insensitive exact match)
//   - Article text (case-insensitive substring match)
//   - Rows with a magnitude only
//
// Example usage:
//
//	f, err := filter.Parse([]string{"agency=ISC", "article=Lay"})
//	if err != nil {
//		return err
//	}
//	narrowed := f.Apply(c)
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/hypo-search/internal/catalog"
)

// Filter represents local row filtering criteria
type Filter struct {
	From *time.Time `json:"from,omitempty"`
	To   *time.Time `json:"to,omitempty"`

	Agencies []string `json:"agencies,omitempty"`
	MagTypes []string `json:"mag_types,omitempty"`

	// Articles are matched as case-insensitive substrings
	Articles []string `json:"articles,omitempty"`

	WithMagnitude bool `json:"with_magnitude,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all rows until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Agencies: []string{},
		MagTypes: []string{},
		Articles: []string{},
	}
}

// IsEmpty checks if the filter has any active criteria
func (f *Filter) IsEmpty() bool {
	return f == nil || (f.From == nil &&
		f.To == nil &&
		len(f.Agencies) == 0 &&
		len(f.MagTypes) == 0 &&
		len(f.Articles) == 0 &&
		!f.WithMagnitude)
}

// Matches checks if a row matches all active filter criteria.
// An empty filter matches all rows.
func (f *Filter) Matches(r catalog.Row) bool {
	if f.IsEmpty() {
		return true
	}

	if f.From != nil && r.OriginTime.Before(*f.From) {
		return false
	}
	if f.To != nil && r.OriginTime.After(*f.To) {
		return false
	}

	if f.WithMagnitude && r.Mag == nil {
		return false
	}

	if len(f.Agencies) > 0 && !equalsAny(r.EventReportingAgency, f.Agencies) {
		return false
	}
	if len(f.MagTypes) > 0 && !equalsAny(r.MagType, f.MagTypes) {
		return false
	}

	if len(f.Articles) > 0 {
		matched := false
		articleLower := strings.ToLower(r.Article)
		for _, a := range f.Articles {
			if strings.Contains(articleLower, strings.ToLower(a)) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	return true
}

func equalsAny(s string, candidates []string) bool {
	for _, c := range candidates {
		if strings.EqualFold(s, c) {
			return true
		}
	}
	return false
}

// Apply returns a catalog holding only the matching rows, in their original
// order. Article numbers are kept as listed. An empty filter returns c.
func (f *Filter) Apply(c *catalog.Catalog) *catalog.Catalog {
	if f.IsEmpty() || c == nil {
		return c
	}

	filtered := catalog.New()
	for _, r := range c.Rows {
		if f.Matches(r) {
			filtered.Rows = append(filtered.Rows, r)
		}
	}
	return filtered
}

// String returns a human-readable description of the active criteria.
// Format: "From: 2011-03-11T00:00:00Z | Agencies: ISC | With magnitude"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string

	if f.From != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.From.Format(time.RFC3339)))
	}
	if f.To != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.To.Format(time.RFC3339)))
	}
	if len(f.Agencies) > 0 {
		parts = append(parts, fmt.Sprintf("Agencies: %s", strings.Join(f.Agencies, ", ")))
	}
	if len(f.MagTypes) > 0 {
		parts = append(parts, fmt.Sprintf("Magnitude types: %s", strings.Join(f.MagTypes, ", ")))
	}
	if len(f.Articles) > 0 {
		parts = append(parts, fmt.Sprintf("Articles: %s", strings.Join(f.Articles, ", ")))
	}
	if f.WithMagnitude {
		parts = append(parts, "With magnitude")
	}

	return strings.Join(parts, " | ")
}
