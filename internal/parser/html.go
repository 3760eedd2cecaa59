package parser

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/hypo-search/internal/catalog"
	"github.com/pfrederiksen/hypo-search/internal/document"
)

// Decoder turns a fetched document into catalog events
type Decoder interface {
	Decode(doc *document.Document) ([]catalog.Event, error)
}

// Build decodes doc with d and expands the events into a catalog.
// On any error no catalog is returned.
func Build(d Decoder, doc *document.Document) (*catalog.Catalog, error) {
	events, err := d.Decode(doc)
	if err != nil {
		return nil, err
	}
	return catalog.Build(events), nil
}

// Layout describes the fixed positions of the provider's HTML listing.
type Layout struct {
	// StatusLine is the line index where the provider reports empty or
	// truncated searches. It follows from the fixed page boilerplate above
	// the results and moves if that boilerplate changes.
	StatusLine int
	// HeaderPrefix marks an event header line
	HeaderPrefix string
	// DataRowOffset is the distance from a header to its data row
	DataRowOffset int
	// ArticleOffset is the distance from a header to its first article line
	ArticleOffset int
	// CodeColumn is the header token announcing an event code column
	CodeColumn string
}

// DefaultLayout matches the ISC bibliography listing
var DefaultLayout = Layout{
	StatusLine:    23,
	HeaderPrefix:  " ISC",
	DataRowOffset: 2,
	ArticleOffset: 3,
	CodeColumn:    "code",
}

const (
	emptySentinel     = "no events with references were found"
	truncatedSentinel = "limited to 500 seismic events"
)

// HTMLDecoder reads flattened HTML listing lines
type HTMLDecoder struct {
	Layout Layout
}

// NewHTMLDecoder returns a decoder for the default listing layout
func NewHTMLDecoder() *HTMLDecoder {
	return &HTMLDecoder{Layout: DefaultLayout}
}

// Decode implements Decoder
func (d *HTMLDecoder) Decode(doc *document.Document) ([]catalog.Event, error) {
	if doc == nil || doc.Kind != document.KindHTML {
		return nil, fmt.Errorf("html decoder: unsupported document")
	}
	lines := doc.Lines

	if err := d.checkStatus(lines); err != nil {
		return nil, err
	}

	headers := d.headerPositions(lines)
	events := make([]catalog.Event, 0, len(headers)-1)
	for i, pos := range headers[:len(headers)-1] {
		evt, err := d.readEvent(lines, pos, headers[i+1])
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}

	return events, nil
}

// checkStatus looks for the provider's empty and truncated notices
func (d *HTMLDecoder) checkStatus(lines []string) error {
	if d.Layout.StatusLine >= len(lines) {
		return nil
	}

	status := lines[d.Layout.StatusLine]
	lower := strings.ToLower(status)
	switch {
	case strings.Contains(lower, emptySentinel):
		return &StatusError{Err: ErrEmptyResult, Status: strings.TrimSpace(status)}
	case strings.Contains(lower, truncatedSentinel):
		return &StatusError{Err: ErrResultTruncated, Status: strings.TrimSpace(status)}
	}
	return nil
}

// headerPositions returns the index of every event header followed by
// len(lines) as the end of the last event.
func (d *HTMLDecoder) headerPositions(lines []string) []int {
	var positions []int
	for n, line := range lines {
		if strings.HasPrefix(line, d.Layout.HeaderPrefix) {
			positions = append(positions, n)
		}
	}
	return append(positions, len(lines))
}

func (d *HTMLDecoder) readEvent(lines []string, pos, next int) (catalog.Event, error) {
	var evt catalog.Event

	rowPos := pos + d.Layout.DataRowOffset
	if rowPos >= next {
		return evt, &MalformedRowError{Line: pos, Reason: "missing data row"}
	}

	header := strings.Fields(lines[pos])
	row := newRowReader(pos, lines[rowPos])
	if len(row.tokens) < minRowTokens {
		return evt, &MalformedRowError{
			Line:   pos,
			Reason: fmt.Sprintf("data row has %d tokens, need at least %d", len(row.tokens), minRowTokens),
		}
	}

	var err error
	if evt.EventReportingAgency, err = row.text(fieldAgency); err != nil {
		return evt, err
	}
	if evt.OriginTime, err = row.originTime(); err != nil {
		return evt, err
	}
	if evt.Lat, err = row.float(fieldLat); err != nil {
		return evt, err
	}
	if evt.Lon, err = row.float(fieldLon); err != nil {
		return evt, err
	}
	if evt.Depth, err = row.float(fieldDepth); err != nil {
		return evt, err
	}

	if len(row.tokens) < magnitudeRowTokens {
		if evt.NumArticles, err = row.count(fieldShortArticles); err != nil {
			return evt, err
		}
	} else {
		source, err := row.text(fieldMagSource)
		if err != nil {
			return evt, err
		}
		evt.MagType, evt.MagReportingAgency = magnitudeSource(source)

		mag, err := row.float(fieldMag)
		if err != nil {
			return evt, err
		}
		evt.Mag = &mag

		if evt.NumArticles, err = row.count(fieldLongArticles); err != nil {
			return evt, err
		}
	}

	if containsToken(header, d.Layout.CodeColumn) {
		evt.EventCode = row.last()
	}

	articles := articleEntries(lines, min(pos+d.Layout.ArticleOffset, next), next)
	if len(articles) < evt.NumArticles {
		return evt, &MalformedRowError{
			Line:   pos,
			Field:  "articles",
			Reason: fmt.Sprintf("row lists %d articles, block has %d", evt.NumArticles, len(articles)),
		}
	}
	evt.Articles = articles[:evt.NumArticles]

	return evt, nil
}

// articleEntries joins lines[start:end] and splits the text into one entry
// per non-blank line.
func articleEntries(lines []string, start, end int) []string {
	block := strings.Join(lines[start:end], "")

	var entries []string
	for _, entry := range strings.Split(block, "\n") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

func containsToken(tokens []string, want string) bool {
	for _, t := range tokens {
		if t == want {
			return true
		}
	}
	return false
}
