package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"github.com/pfrederiksen/hypo-search/internal/catalog"
	"github.com/pfrederiksen/hypo-search/internal/parser"
	"github.com/pfrederiksen/hypo-search/internal/storage"
)

// writeElements prints the attributed elements of a QuakeML response
func writeElements(w io.Writer, events []parser.EventElements, format catalog.OutputFormat) error {
	if format == catalog.FormatJSON {
		return writeJSON(w, events)
	}

	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	for _, evt := range events {
		fmt.Fprintf(w, "\n%s (%d elements):\n", evt.PublicID, len(evt.Elements))
		for _, el := range evt.Elements {
			fmt.Fprintf(w, "  %s", el.Tag)
			for _, a := range el.Attrs {
				fmt.Fprintf(w, " %s=%q", a.Name, a.Value)
			}
			fmt.Fprintln(w)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", len(events))
	return nil
}

// writeSnapshots prints the saved catalogs
func writeSnapshots(w io.Writer, snapshots []*storage.Snapshot, format catalog.OutputFormat) error {
	if format == catalog.FormatJSON {
		type entry struct {
			ID      string `json:"id"`
			SavedAt string `json:"saved_at"`
			Rows    int    `json:"rows"`
			URL     string `json:"url"`
		}
		out := make([]entry, 0, len(snapshots))
		for _, s := range snapshots {
			out = append(out, entry{s.ID, s.SavedAt, s.Catalog.Len(), s.URL})
		}
		return writeJSON(w, out)
	}

	if len(snapshots) == 0 {
		fmt.Fprintln(w, "No saved catalogs.")
		return nil
	}

	rows := make([][]string, 0, len(snapshots))
	for _, s := range snapshots {
		rows = append(rows, []string{
			s.ID,
			s.SavedAt,
			strconv.Itoa(s.Catalog.Len()),
			s.Params["start_date"],
			s.Params["end_date"],
		})
	}

	table := tablewriter.NewTable(w)
	table.Header([]string{"ID", "Saved At", "Rows", "Start Date", "End Date"})
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("building table: %w", err)
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeDiff prints the rows added and removed between two catalogs
func writeDiff(w io.Writer, d *catalog.DiffResult, format catalog.OutputFormat) error {
	if format == catalog.FormatJSON {
		return writeJSON(w, d)
	}

	if d.Empty() {
		fmt.Fprintln(w, "No changes.")
		return nil
	}

	sections := []struct {
		label  string
		prefix string
		rows   []catalog.Row
	}{
		{"Added", "+", d.Added},
		{"Removed", "-", d.Removed},
	}
	for _, s := range sections {
		if len(s.rows) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s (%d):\n", s.label, len(s.rows))
		for _, r := range s.rows {
			fmt.Fprintf(w, "  %s %s %s: %s\n", s.prefix,
				r.OriginTime.Format(catalog.TimeLayout), r.EventReportingAgency, r.Article)
		}
	}
	fmt.Fprintf(w, "\nTotal: %d added, %d removed\n", len(d.Added), len(d.Removed))
	return nil
}
