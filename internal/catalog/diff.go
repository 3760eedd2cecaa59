package catalog

import (
	"sort"
	"strings"
	"time"
)

// Key identifies an article row across searches. Article numbers shift when
// the provider adds references, so they are not part of the key.
func (r Row) Key() string {
	return strings.Join([]string{
		r.OriginTime.UTC().Format(time.RFC3339Nano),
		r.EventReportingAgency,
		r.EventCode,
		strings.ToLower(strings.Join(strings.Fields(r.Article), " ")),
	}, "|")
}

// DiffResult contains the results of comparing two catalogs
type DiffResult struct {
	Added   []Row `json:"added"`
	Removed []Row `json:"removed"`
}

// Empty reports whether the catalogs held the same rows
func (d *DiffResult) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0
}

// Diff compares current against previous and returns the rows each holds
// that the other does not. A nil catalog counts as empty. Results are ordered
// by origin time, then article text.
func Diff(previous, current *Catalog) *DiffResult {
	result := &DiffResult{
		Added:   make([]Row, 0),
		Removed: make([]Row, 0),
	}

	prevKeys := keys(previous)
	currKeys := keys(current)

	if current != nil {
		for _, r := range current.Rows {
			if _, exists := prevKeys[r.Key()]; !exists {
				result.Added = append(result.Added, r)
			}
		}
	}
	if previous != nil {
		for _, r := range previous.Rows {
			if _, exists := currKeys[r.Key()]; !exists {
				result.Removed = append(result.Removed, r)
			}
		}
	}

	sortForDiff(result.Added)
	sortForDiff(result.Removed)

	return result
}

func keys(c *Catalog) map[string]struct{} {
	out := make(map[string]struct{}, c.Len())
	if c == nil {
		return out
	}
	for _, r := range c.Rows {
		out[r.Key()] = struct{}{}
	}
	return out
}

func sortForDiff(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		if !rows[i].OriginTime.Equal(rows[j].OriginTime) {
			return rows[i].OriginTime.Before(rows[j].OriginTime)
		}
		return rows[i].Article < rows[j].Article
	})
}
