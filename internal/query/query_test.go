package query

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestBuildSingleDate(t *testing.T) {
	tests := []struct {
		name string
		date *time.Time
		want time.Time
	}{
		{"mid month", day(2011, time.March, 11), time.Date(2011, time.March, 12, 0, 0, 0, 0, time.UTC)},
		{"month end", day(2020, time.January, 31), time.Date(2020, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{"leap day", day(2020, time.February, 28), time.Date(2020, time.February, 29, 0, 0, 0, 0, time.UTC)},
		{"year end", day(1999, time.December, 31), time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(Criteria{Date: tt.date})
			require.NoError(t, err)
			assert.Equal(t, *tt.date, p.StartDate)
			assert.Equal(t, tt.want, p.EndDate)
			assert.Equal(t, 24*time.Hour, p.EndDate.Sub(p.StartDate))
		})
	}
}

func TestBuildDateRange(t *testing.T) {
	p, err := Build(Criteria{
		StartDate: day(2004, time.December, 1),
		EndDate:   day(2004, time.December, 31),
	})
	require.NoError(t, err)
	assert.Equal(t, *day(2004, time.December, 1), p.StartDate)
	assert.Equal(t, *day(2004, time.December, 31), p.EndDate)
}

func TestBuildInvalidInput(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
	}{
		{"nothing", Criteria{}},
		{"start only", Criteria{StartDate: day(2004, time.December, 1)}},
		{"end only", Criteria{EndDate: day(2004, time.December, 1)}},
		{"reversed range", Criteria{StartDate: day(2004, time.December, 2), EndDate: day(2004, time.December, 1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build(tt.criteria)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidInput))
		})
	}
}

func TestBuildDefaults(t *testing.T) {
	p, err := Build(Criteria{Date: day(2011, time.March, 11)})
	require.NoError(t, err)

	assert.Equal(t, Comprehensive, p.Review)
	assert.Equal(t, DefaultShape, p.Shape)
	assert.Empty(t, p.Coords)
	assert.Equal(t, DefaultSortBy, p.SortBy)
	assert.Equal(t, Source, p.Source)
	assert.Empty(t, p.OptionalOutputs)
	assert.True(t, p.IsSet())
}

func TestBuildReviewedAndRegion(t *testing.T) {
	p, err := Build(Criteria{
		Date:     day(2011, time.March, 11),
		Reviewed: true,
		Shape:    "rect",
		Coords:   "30,45,130,150",
	})
	require.NoError(t, err)
	assert.Equal(t, Reviewed, p.Review)
	assert.Equal(t, "RECT", p.Shape)
	assert.Equal(t, "30,45,130,150", p.Coords)
}

func TestBuildOptionalOutputsOrder(t *testing.T) {
	p, err := Build(Criteria{
		Date: day(2011, time.March, 11),
		Outputs: Outputs{
			IncludeComments:   true,
			IncludeNullMag:    true,
			OnlyPrimeHypo:     true,
			IncludeMagnitudes: true,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"&null_mag=on",
		"&prime_only=on",
		"&include_magnitudes=on",
		"&include_comments=on",
	}, p.OptionalOutputs)
}

func TestBuildAllOutputs(t *testing.T) {
	p, err := Build(Criteria{
		Date: day(2011, time.March, 11),
		Outputs: Outputs{
			IncludeNullMag:    true,
			IncludeNullPhases: true,
			OnlyPrimeHypo:     true,
			IncludePhases:     true,
			IncludeMagnitudes: true,
			IncludeWeblinks:   true,
			IncludeHeaders:    true,
			IncludeComments:   true,
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "&null_mag=on&null_phs=on&prime_only=on&include_phases=on"+
		"&include_magnitudes=on&include_links=on&include_headers=on&include_comments=on",
		strings.Join(p.OptionalOutputs, ""))
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2011-03-11")
	require.NoError(t, err)
	assert.Equal(t, *day(2011, time.March, 11), got)

	_, err = ParseDate("11/03/2011")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFieldsAndTitle(t *testing.T) {
	var empty Params
	assert.Nil(t, empty.Fields())

	p, err := Build(Criteria{
		Date:            day(2011, time.March, 11),
		Reviewed:        true,
		PublishedAuthor: "Kanamori",
		Outputs:         Outputs{IncludeNullMag: true},
	})
	require.NoError(t, err)

	got := map[string]string{}
	var keys []string
	for _, f := range p.Fields() {
		got[f.Key] = f.Value
		keys = append(keys, f.Key)
	}

	assert.Equal(t, []string{
		"start_date", "end_date", "shape", "sort_by", "published_author",
		"reviewed", "optional_outputs", "source",
	}, keys)
	assert.Equal(t, "2011-03-11", got["start_date"])
	assert.Equal(t, "2011-03-12", got["end_date"])
	assert.Equal(t, "REVIEWED", got["reviewed"])
	assert.Equal(t, "&null_mag=on", got["optional_outputs"])

	assert.Equal(t, "Published Min Year", Title("published_min_year"))
	assert.Equal(t, "Source", Title("source"))
}
