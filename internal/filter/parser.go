package filter

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var exprPattern = regexp.MustCompile(`(?i)^\s*([a-z-]+)\s*(?:=\s*(.*?))?\s*$`)

// timeLayouts are tried in order for from= and to= values
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Parse builds a filter from "key=value" expressions.
//
// Supported keys:
//   - "from", "to" - origin time bounds, RFC 3339 or a YYYY-MM-DD date
//   - "agency" - event reporting agency
//   - "mag-type" - magnitude type
//   - "article" - text contained in the article reference
//   - "has-mag" - takes no value; keeps rows with a magnitude
//
// Repeated keys widen the match (any of). A date given to "to" covers the
// whole day. Times are in UTC.
func Parse(exprs []string) (*Filter, error) {
	f := NewFilter()

	for _, expr := range exprs {
		if strings.TrimSpace(expr) == "" {
			continue
		}

		m := exprPattern.FindStringSubmatch(expr)
		if m == nil {
			return nil, fmt.Errorf("invalid filter %q: want key=value", expr)
		}
		key, value := strings.ToLower(m[1]), m[2]

		if key == "has-mag" {
			f.WithMagnitude = true
			continue
		}
		if value == "" {
			return nil, fmt.Errorf("filter %q needs a value", key)
		}

		switch key {
		case "from":
			t, _, err := parseTime(value)
			if err != nil {
				return nil, err
			}
			f.From = &t
		case "to":
			t, dateOnly, err := parseTime(value)
			if err != nil {
				return nil, err
			}
			if dateOnly {
				t = t.Add(24*time.Hour - time.Nanosecond)
			}
			f.To = &t
		case "agency":
			f.Agencies = append(f.Agencies, value)
		case "mag-type":
			f.MagTypes = append(f.MagTypes, value)
		case "article":
			f.Articles = append(f.Articles, value)
		default:
			return nil, fmt.Errorf("unknown filter key %q", key)
		}
	}

	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return nil, fmt.Errorf("filter start must be before filter end")
	}

	return f, nil
}

// parseTime reports whether value was a bare date alongside the parsed time
func parseTime(value string) (time.Time, bool, error) {
	for i, layout := range timeLayouts {
		t, err := time.ParseInLocation(layout, value, time.UTC)
		if err == nil {
			return t.UTC(), i == len(timeLayouts)-1, nil
		}
	}
	return time.Time{}, false, fmt.Errorf("invalid time %q. Use YYYY-MM-DD or RFC 3339", value)
}
