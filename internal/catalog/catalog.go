package catalog

import (
	"strconv"
	"time"
)

// Columns is the output schema, in order
var Columns = []string{
	"origin_time",
	"lat",
	"lon",
	"dep",
	"mag_type",
	"mag",
	"mag_reporting_agency",
	"event_reporting_agency",
	"event_code",
	"article_num",
	"articles",
}

// TimeLayout renders origin times in the table
const TimeLayout = "2006-01-02T15:04:05.000000Z"

// Event is one seismic event from a listing with its article references
type Event struct {
	OriginTime           time.Time
	Lat                  float64
	Lon                  float64
	Depth                float64
	MagType              string
	Mag                  *float64 // nil when the listing has no magnitude
	MagReportingAgency   string
	EventReportingAgency string
	EventCode            string
	NumArticles          int
	Articles             []string
}

// Row is one article of one event
type Row struct {
	OriginTime           time.Time `json:"origin_time"`
	Lat                  float64   `json:"lat"`
	Lon                  float64   `json:"lon"`
	Depth                float64   `json:"dep"`
	MagType              string    `json:"mag_type"`
	Mag                  *float64  `json:"mag"`
	MagReportingAgency   string    `json:"mag_reporting_agency"`
	EventReportingAgency string    `json:"event_reporting_agency"`
	EventCode            string    `json:"event_code"`
	ArticleNum           int       `json:"article_num"`
	Article              string    `json:"articles"`
}

// Catalog is an ordered table of article rows
type Catalog struct {
	Rows []Row `json:"rows"`
}

// New returns an empty catalog
func New() *Catalog {
	return &Catalog{Rows: []Row{}}
}

// Build expands events into a catalog with one row per article, numbered
// from 1. Events without articles contribute no rows. Row order follows the
// event order, then article order.
func Build(events []Event) *Catalog {
	total := 0
	for _, e := range events {
		total += e.NumArticles
	}

	c := &Catalog{Rows: make([]Row, 0, total)}
	for _, e := range events {
		for i := 0; i < e.NumArticles && i < len(e.Articles); i++ {
			c.Rows = append(c.Rows, Row{
				OriginTime:           e.OriginTime,
				Lat:                  e.Lat,
				Lon:                  e.Lon,
				Depth:                e.Depth,
				MagType:              e.MagType,
				Mag:                  e.Mag,
				MagReportingAgency:   e.MagReportingAgency,
				EventReportingAgency: e.EventReportingAgency,
				EventCode:            e.EventCode,
				ArticleNum:           i + 1,
				Article:              e.Articles[i],
			})
		}
	}
	return c
}

// Len returns the number of rows
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.Rows)
}

// EventCount returns the number of distinct events with rows
func (c *Catalog) EventCount() int {
	if c == nil {
		return 0
	}

	type eventKey struct {
		origin time.Time
		lat    float64
		lon    float64
		agency string
		code   string
	}
	seen := make(map[eventKey]struct{})
	for _, r := range c.Rows {
		seen[eventKey{r.OriginTime, r.Lat, r.Lon, r.EventReportingAgency, r.EventCode}] = struct{}{}
	}
	return len(seen)
}

// Record renders a row as strings in Columns order
func (r Row) Record() []string {
	mag := ""
	if r.Mag != nil {
		mag = formatFloat(*r.Mag)
	}
	return []string{
		r.OriginTime.UTC().Format(TimeLayout),
		formatFloat(r.Lat),
		formatFloat(r.Lon),
		formatFloat(r.Depth),
		r.MagType,
		mag,
		r.MagReportingAgency,
		r.EventReportingAgency,
		r.EventCode,
		strconv.Itoa(r.ArticleNum),
		r.Article,
	}
}

// Records renders every row in Columns order
func (c *Catalog) Records() [][]string {
	records := make([][]string, 0, c.Len())
	for _, r := range c.Rows {
		records = append(records, r.Record())
	}
	return records
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
