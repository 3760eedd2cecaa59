package query

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatURLDefaultSearch(t *testing.T) {
	p, err := Build(Criteria{Date: day(2011, time.March, 11)})
	require.NoError(t, err)

	want := DefaultBaseURL +
		"?request=COMPREHENSIVE" +
		"&out_format=QuakeML" +
		"&searchshape=RECT" +
		"&bot_lat=&top_lat=&left_lon=&right_lon=" +
		"&ctr_lat=&ctr_lon=&radius=&max_dist_units=deg" +
		"&srn=&grn=" +
		"&start_year=2011&start_month=3&start_day=11&start_time=00%3A00%3A00" +
		"&end_year=2011&end_month=3&end_day=12&end_time=00%3A00%3A00" +
		"&min_dep=&max_dep=&min_mag=&max_mag=" +
		"&req_mag_type=&req_mag_agcy=&min_def=&max_def="

	assert.Equal(t, want, FormatURL(DefaultBaseURL, p))
}

func TestFormatURLDeterministic(t *testing.T) {
	c := Criteria{
		StartDate: day(2004, time.December, 26),
		EndDate:   day(2005, time.January, 2),
		Reviewed:  true,
		Shape:     "CIRC",
		Coords:    "3.3, 95.9, 10",
		Filters:   Filters{MinMag: "6.5", MagType: "MW"},
		Outputs:   Outputs{IncludeWeblinks: true, IncludeNullMag: true},
	}

	p1, err := Build(c)
	require.NoError(t, err)
	p2, err := Build(c)
	require.NoError(t, err)

	first := FormatURL(DefaultBaseURL, p1)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, FormatURL(DefaultBaseURL, p2))
	}

	assert.Contains(t, first, "?request=REVIEWED&")
	assert.Contains(t, first, "&searchshape=CIRC&bot_lat=&top_lat=&left_lon=&right_lon=")
	assert.Contains(t, first, "&ctr_lat=3.3&ctr_lon=95.9&radius=10&max_dist_units=deg")
	assert.Contains(t, first, "&min_mag=6.5&")
	assert.Contains(t, first, "&req_mag_type=MW&")
	assert.True(t, strings.HasSuffix(first, "&max_def=&null_mag=on&include_links=on"))
}

func TestFormatURLRegions(t *testing.T) {
	tests := []struct {
		name   string
		shape  string
		coords string
		want   string
	}{
		{
			name:   "rectangle",
			shape:  "RECT",
			coords: "30,45,130,150",
			want:   "&searchshape=RECT&bot_lat=30&top_lat=45&left_lon=130&right_lon=150&ctr_lat=&ctr_lon=&radius=&max_dist_units=deg&srn=&grn=&start_year",
		},
		{
			name:   "short rectangle leaves trailing keys empty",
			shape:  "RECT",
			coords: "30,45",
			want:   "&searchshape=RECT&bot_lat=30&top_lat=45&left_lon=&right_lon=&ctr_lat",
		},
		{
			name:   "polygon",
			shape:  "POLY",
			coords: "10,20,10,30,20,30",
			want:   "&srn=&grn=&coordvals=10%2C20%2C10%2C30%2C20%2C30&start_year",
		},
		{
			name:   "shape without coords",
			shape:  "CIRC",
			coords: "",
			want:   "&searchshape=RECT&bot_lat=&",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Build(Criteria{Date: day(2011, time.March, 11), Shape: tt.shape, Coords: tt.coords})
			require.NoError(t, err)
			assert.Contains(t, FormatURL(DefaultBaseURL, p), tt.want)
		})
	}
}

func TestFormatURLCustomBase(t *testing.T) {
	p, err := Build(Criteria{Date: day(2011, time.March, 11)})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(FormatURL("http://localhost:8080/search", p), "http://localhost:8080/search?request="))
}
