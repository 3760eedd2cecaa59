package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pfrederiksen/hypo-search/internal/catalog"
)

func mag(v float64) *float64 { return &v }

var t0 = time.Date(2011, 3, 11, 5, 46, 23, 0, time.UTC)

func rows() *catalog.Catalog {
	return &catalog.Catalog{Rows: []catalog.Row{
		{OriginTime: t0, EventReportingAgency: "ISC", MagType: "MW", Mag: mag(9.1), ArticleNum: 1, Article: "Ammon, C. J. et al. (2011)"},
		{OriginTime: t0, EventReportingAgency: "ISC", MagType: "MW", Mag: mag(9.1), ArticleNum: 2, Article: "Lay, T. et al. (2011)"},
		{OriginTime: t0.Add(29 * time.Minute), EventReportingAgency: "NEIC", ArticleNum: 1, Article: "Kato, A. et al. (2011)"},
	}}
}

func TestEmptyFilterMatchesAll(t *testing.T) {
	f := NewFilter()
	assert.True(t, f.IsEmpty())
	assert.Equal(t, "No active filters", f.String())

	c := rows()
	assert.Same(t, c, f.Apply(c))

	var nilFilter *Filter
	assert.True(t, nilFilter.IsEmpty())
	assert.True(t, nilFilter.Matches(c.Rows[0]))
}

func TestMatches(t *testing.T) {
	from := t0.Add(time.Minute)
	to := t0

	tests := []struct {
		name   string
		filter *Filter
		want   []bool
	}{
		{"agency ignores case", &Filter{Agencies: []string{"neic"}}, []bool{false, false, true}},
		{"mag type", &Filter{MagTypes: []string{"mw"}}, []bool{true, true, false}},
		{"article substring", &Filter{Articles: []string{"LAY", "kato"}}, []bool{false, true, true}},
		{"with magnitude", &Filter{WithMagnitude: true}, []bool{true, true, false}},
		{"from", &Filter{From: &from}, []bool{false, false, true}},
		{"to inclusive", &Filter{To: &to}, []bool{true, true, false}},
		{"all criteria", &Filter{Agencies: []string{"ISC"}, Articles: []string{"ammon"}, WithMagnitude: true}, []bool{true, false, false}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i, r := range rows().Rows {
				assert.Equal(t, tt.want[i], tt.filter.Matches(r), "row %d", i)
			}
		})
	}
}

func TestApplyKeepsOrderAndNumbering(t *testing.T) {
	f := &Filter{Articles: []string{"lay", "kato"}}
	got := f.Apply(rows())

	require.Equal(t, 2, got.Len())
	assert.Equal(t, 2, got.Rows[0].ArticleNum)
	assert.Equal(t, "NEIC", got.Rows[1].EventReportingAgency)

	none := (&Filter{Agencies: []string{"GCMT"}}).Apply(rows())
	require.NotNil(t, none)
	assert.Equal(t, 0, none.Len())

	assert.Nil(t, f.Apply(nil))
}

func TestString(t *testing.T) {
	f := &Filter{From: &t0, Agencies: []string{"ISC", "NEIC"}, WithMagnitude: true}
	assert.Equal(t, "From: 2011-03-11T05:46:23Z | Agencies: ISC, NEIC | With magnitude", f.String())
}
