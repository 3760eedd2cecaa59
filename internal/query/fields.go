package query

import "strings"

// Field is one named search parameter value
type Field struct {
	Key   string
	Value string
}

// Fields returns the non-empty parameters in a stable order, keyed by their
// snake_case names.
func (p Params) Fields() []Field {
	if !p.IsSet() {
		return nil
	}

	all := []Field{
		{"start_date", p.StartDate.Format(DateLayout)},
		{"end_date", formatDate(p)},
		{"shape", p.Shape},
		{"coords", p.Coords},
		{"sort_by", p.SortBy},
		{"published_min_year", p.PublishedMinYear},
		{"published_max_year", p.PublishedMaxYear},
		{"published_author", p.PublishedAuthor},
		{"publisher", p.Publisher},
		{"reviewed", string(p.Review)},
		{"min_dep", p.Filters.MinDepth},
		{"max_dep", p.Filters.MaxDepth},
		{"min_mag", p.Filters.MinMag},
		{"max_mag", p.Filters.MaxMag},
		{"req_mag_type", p.Filters.MagType},
		{"req_mag_agcy", p.Filters.MagAgency},
		{"min_def", p.Filters.MinDefining},
		{"max_def", p.Filters.MaxDefining},
		{"optional_outputs", strings.Join(p.OptionalOutputs, "")},
		{"source", p.Source},
	}

	fields := make([]Field, 0, len(all))
	for _, f := range all {
		if f.Value == "" {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

func formatDate(p Params) string {
	if p.EndDate.IsZero() {
		return ""
	}
	return p.EndDate.Format(DateLayout)
}

// Title converts a snake_case key into "Title Case" words
func Title(key string) string {
	words := strings.Split(key, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
	}
	return strings.Join(words, " ")
}
