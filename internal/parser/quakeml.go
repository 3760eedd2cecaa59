package parser

import (
	"fmt"

	"github.com/antchfx/xmlquery"

	"github.com/pfrederiksen/hypo-search/internal/document"
)

// QuakeML namespaces used by the provider
const (
	NamespaceQuakeML = "http://quakeml.org/xmlns/quakeml/1.2"
	NamespaceBED     = "http://quakeml.org/xmlns/bed/1.2"
	NamespaceCatalog = "http://anss.org/xmlns/catalog/0.1"
	NamespaceTensor  = "http://anss.org/xmlns/tensor/0.1"
)

// Schema names the elements a QuakeML walk looks for
type Schema struct {
	// Prefixes maps namespace URIs to the prefixes used when rendering tags.
	// An empty prefix renders the bare local name.
	Prefixes map[string]string

	ContainerSpace string
	ContainerName  string
	EventSpace     string
	EventName      string
}

// DefaultSchema matches QuakeML 1.2 event parameters
var DefaultSchema = Schema{
	Prefixes: map[string]string{
		NamespaceQuakeML: "q",
		NamespaceBED:     "",
		NamespaceCatalog: "catalog",
		NamespaceTensor:  "tensor",
	},
	ContainerSpace: NamespaceBED,
	ContainerName:  "eventParameters",
	EventSpace:     NamespaceBED,
	EventName:      "event",
}

// Attr is one attribute of an element
type Attr struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Element is a tag and its attributes
type Element struct {
	Tag   string `json:"tag"`
	Attrs []Attr `json:"attrs"`
}

// EventElements lists the attributed elements found under one event
type EventElements struct {
	PublicID string    `json:"public_id"`
	Elements []Element `json:"elements"`
}

// QuakeMLDecoder walks QuakeML documents.
//
// It only collects attributed elements per event; mapping QuakeML onto
// catalog rows is not defined.
type QuakeMLDecoder struct {
	Schema Schema
}

// NewQuakeMLDecoder returns a decoder for the default schema
func NewQuakeMLDecoder() *QuakeMLDecoder {
	return &QuakeMLDecoder{Schema: DefaultSchema}
}

// Elements returns, for every event of every event-parameters container,
// each descendant element that carries at least one attribute, in document
// order.
func (d *QuakeMLDecoder) Elements(doc *document.Document) ([]EventElements, error) {
	if doc == nil || doc.Kind != document.KindXML || doc.Root == nil {
		return nil, fmt.Errorf("quakeml decoder: unsupported document")
	}

	var out []EventElements
	for _, container := range d.find(doc.Root, d.Schema.ContainerSpace, d.Schema.ContainerName) {
		for _, evt := range d.find(container, d.Schema.EventSpace, d.Schema.EventName) {
			ee := EventElements{PublicID: evt.SelectAttr("publicID")}
			d.collect(evt, &ee.Elements)
			out = append(out, ee)
		}
	}
	return out, nil
}

// find returns descendant elements of n with the given namespace and name,
// not descending into matches.
func (d *QuakeMLDecoder) find(n *xmlquery.Node, space, name string) []*xmlquery.Node {
	var found []*xmlquery.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if c.Data == name && c.NamespaceURI == space {
			found = append(found, c)
			continue
		}
		found = append(found, d.find(c, space, name)...)
	}
	return found
}

func (d *QuakeMLDecoder) collect(n *xmlquery.Node, out *[]Element) {
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != xmlquery.ElementNode {
			continue
		}
		if attrs := d.attrs(c); len(attrs) > 0 {
			*out = append(*out, Element{Tag: d.tag(c.NamespaceURI, c.Prefix, c.Data), Attrs: attrs})
		}
		d.collect(c, out)
	}
}

func (d *QuakeMLDecoder) attrs(n *xmlquery.Node) []Attr {
	var attrs []Attr
	for _, a := range n.Attr {
		if a.Name.Space == "xmlns" || (a.Name.Space == "" && a.Name.Local == "xmlns") {
			continue
		}
		attrs = append(attrs, Attr{
			Name:  d.tag(a.NamespaceURI, a.Name.Space, a.Name.Local),
			Value: a.Value,
		})
	}
	return attrs
}

// tag renders a name with the schema prefix for its namespace
func (d *QuakeMLDecoder) tag(uri, prefix, local string) string {
	if uri == "" && prefix == "" {
		return local
	}
	if p, ok := d.Schema.Prefixes[uri]; ok {
		if p == "" {
			return local
		}
		return p + ":" + local
	}
	if prefix != "" {
		return prefix + ":" + local
	}
	return "{" + uri + "}" + local
}
