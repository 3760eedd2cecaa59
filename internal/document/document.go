package document

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/xmlquery"
	"golang.org/x/net/html"
)

// Kind identifies the encoding of a Document
type Kind string

const (
	KindHTML Kind = "html"
	KindXML  Kind = "xml"
)

// Document is a fetched response ready for parsing.
// Lines is set for KindHTML, Root for KindXML.
type Document struct {
	Kind  Kind
	Lines []string
	Root  *xmlquery.Node
}

// FromLines wraps already-flattened listing text
func FromLines(lines []string) *Document {
	return &Document{Kind: KindHTML, Lines: lines}
}

// FromHTML parses an HTML page and flattens the text nodes of its body into
// lines, in document order. Markup is dropped; text nodes are kept verbatim,
// including surrounding whitespace and embedded newlines.
func FromHTML(r io.Reader) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	var lines []string
	doc.Find("body").Each(func(i int, sel *goquery.Selection) {
		for _, n := range sel.Nodes {
			lines = appendText(lines, n)
		}
	})

	return FromLines(lines), nil
}

func appendText(lines []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		return append(lines, n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		lines = appendText(lines, c)
	}
	return lines
}

// FromXML parses an XML response into an element tree
func FromXML(r io.Reader) (*Document, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return &Document{Kind: KindXML, Root: root}, nil
}

// sniffLen is how much of a body is inspected to choose a decoder
const sniffLen = 512

// Parse decodes a response body, choosing HTML or XML from the content type
// and, failing that, from the first bytes of the body.
func Parse(r io.Reader, contentType string) (*Document, error) {
	br := bufio.NewReaderSize(r, sniffLen)
	head, _ := br.Peek(sniffLen)

	if DetectKind(contentType, head) == KindXML {
		return FromXML(br)
	}
	return FromHTML(br)
}

// DetectKind reports whether a body should be decoded as XML or HTML
func DetectKind(contentType string, head []byte) Kind {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "html"):
		return KindHTML
	case strings.Contains(ct, "xml"):
		return KindXML
	}

	trimmed := bytes.TrimSpace(bytes.TrimPrefix(head, []byte("\xef\xbb\xbf")))
	lower := bytes.ToLower(trimmed)
	if bytes.HasPrefix(lower, []byte("<?xml")) && !bytes.Contains(lower, []byte("<html")) {
		return KindXML
	}
	if bytes.Contains(lower, []byte("quakeml")) && !bytes.Contains(lower, []byte("<html")) {
		return KindXML
	}
	return KindHTML
}
