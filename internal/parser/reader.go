package parser

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// field is a named token position in a listing data row
type field struct {
	name  string
	index int
}

// Data row layout. Rows shorter than magnitudeRowTokens carry no magnitude
// block and hold the article count where the magnitude source would be.
var (
	fieldAgency        = field{"event_reporting_agency", 0}
	fieldDate          = field{"date", 1}
	fieldTime          = field{"time", 2}
	fieldLat           = field{"lat", 3}
	fieldLon           = field{"lon", 4}
	fieldDepth         = field{"dep", 5}
	fieldShortArticles = field{"num_articles", 6}
	fieldMagSource     = field{"mag_type", 6}
	fieldMag           = field{"mag", 8}
	fieldLongArticles  = field{"num_articles", 9}
)

const (
	minRowTokens       = 7
	magnitudeRowTokens = 10
)

// originTimeLayouts are tried in order against "<date>T<time>"
var originTimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006/01/02T15:04:05",
	"2006-01-02T15:04",
	"2006/01/02T15:04",
}

// rowReader extracts typed fields from a tokenized data row
type rowReader struct {
	line   int
	tokens []string
}

func newRowReader(line int, row string) rowReader {
	return rowReader{line: line, tokens: strings.Fields(row)}
}

func (r rowReader) malformed(f field, format string, args ...any) error {
	return &MalformedRowError{Line: r.line, Field: f.name, Reason: fmt.Sprintf(format, args...)}
}

func (r rowReader) text(f field) (string, error) {
	if f.index >= len(r.tokens) {
		return "", r.malformed(f, "need at least %d tokens, row has %d", f.index+1, len(r.tokens))
	}
	return r.tokens[f.index], nil
}

func (r rowReader) float(f field) (float64, error) {
	s, err := r.text(f)
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, r.malformed(f, "%q is not a number", s)
	}
	return v, nil
}

func (r rowReader) count(f field) (int, error) {
	s, err := r.text(f)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, r.malformed(f, "%q is not an article count", s)
	}
	return n, nil
}

func (r rowReader) originTime() (time.Time, error) {
	date, err := r.text(fieldDate)
	if err != nil {
		return time.Time{}, err
	}
	clock, err := r.text(fieldTime)
	if err != nil {
		return time.Time{}, err
	}

	stamp := date + "T" + clock
	for _, layout := range originTimeLayouts {
		if t, err := time.ParseInLocation(layout, stamp, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, r.malformed(fieldDate, "%q is not an origin time", stamp)
}

func (r rowReader) last() string {
	if len(r.tokens) == 0 {
		return ""
	}
	return r.tokens[len(r.tokens)-1]
}

// magnitudeSource splits a magnitude token such as "MW(GCMT)".
// Type and reporting agency are both read from the text before "(";
// keep any change to that here.
func magnitudeSource(token string) (magType, agency string) {
	prefix, _, _ := strings.Cut(token, "(")
	return prefix, prefix
}
