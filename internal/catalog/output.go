package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/mattn/go-runewidth"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatCSV  OutputFormat = "csv"
)

// ArticleWidth is the display width article text is truncated to in text output
const ArticleWidth = 60

var printer = message.NewPrinter(language.English)

// Write renders the catalog in the specified format
func Write(w io.Writer, c *Catalog, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, c)
	case FormatCSV:
		return writeCSV(w, c)
	case FormatText:
		return writeText(w, c)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// ParseFormat validates a format name
func ParseFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(s); f {
	case FormatText, FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'csv')", s)
	}
}

type jsonCatalog struct {
	Columns []string `json:"columns"`
	Count   int      `json:"count"`
	Rows    []Row    `json:"rows"`
}

func writeJSON(w io.Writer, c *Catalog) error {
	out := jsonCatalog{Columns: Columns, Count: c.Len(), Rows: []Row{}}
	if c != nil && c.Rows != nil {
		out.Rows = c.Rows
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

func writeCSV(w io.Writer, c *Catalog) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if c != nil {
		if err := cw.WriteAll(c.Records()); err != nil {
			return fmt.Errorf("writing rows: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeText(w io.Writer, c *Catalog) error {
	if c.Len() == 0 {
		fmt.Fprintln(w, "No articles found.")
		return nil
	}

	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{AutoWrap: tw.WrapNone},
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
			},
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{Borders: tw.BorderNone}),
	)

	rows := c.Records()
	last := len(Columns) - 1
	for _, r := range rows {
		r[last] = runewidth.Truncate(r[last], ArticleWidth, "...")
	}

	table.Header(Columns)
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("building table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}

	printer.Fprintf(w, "\nTotal: %d articles across %d events\n", c.Len(), c.EventCount())
	return nil
}
