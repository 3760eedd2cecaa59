package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromHTMLFlattensBodyText(t *testing.T) {
	page := `<html><head><title>ignored</title></head>
<body><h2>Results</h2><pre> ISC  header
line two
<a href="x">Smith (2011)</a>
</pre></body></html>`

	doc, err := FromHTML(strings.NewReader(page))
	require.NoError(t, err)
	assert.Equal(t, KindHTML, doc.Kind)
	assert.Equal(t, []string{"Results", " ISC  header\nline two\n", "Smith (2011)", "\n"}, doc.Lines)
}

func TestFromXML(t *testing.T) {
	doc, err := FromXML(strings.NewReader(`<?xml version="1.0"?><root><a x="1"/></root>`))
	require.NoError(t, err)
	assert.Equal(t, KindXML, doc.Kind)
	require.NotNil(t, doc.Root)
	assert.Nil(t, doc.Lines)
}

func TestDetectKind(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		head        string
		want        Kind
	}{
		{"html content type", "text/html; charset=utf-8", "<?xml version", KindHTML},
		{"xml content type", "application/xml", "", KindXML},
		{"quakeml sniffed", "", `<?xml version="1.0"?><q:quakeml>`, KindXML},
		{"bom and declaration", "", "\xef\xbb\xbf  <?xml version=\"1.0\"?><root/>", KindXML},
		{"xhtml declaration", "", `<?xml version="1.0"?><html>`, KindHTML},
		{"plain html", "", "<!DOCTYPE html><html>", KindHTML},
		{"empty", "", "", KindHTML},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectKind(tt.contentType, []byte(tt.head)))
		})
	}
}

func TestParseSniffsBody(t *testing.T) {
	doc, err := Parse(strings.NewReader(`<?xml version="1.0"?><q:quakeml xmlns:q="http://quakeml.org/xmlns/quakeml/1.2"/>`), "")
	require.NoError(t, err)
	assert.Equal(t, KindXML, doc.Kind)

	doc, err = Parse(strings.NewReader(`<html><body>hello</body></html>`), "")
	require.NoError(t, err)
	assert.Equal(t, KindHTML, doc.Kind)
	assert.Equal(t, []string{"hello"}, doc.Lines)
}
