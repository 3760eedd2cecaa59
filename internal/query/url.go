package query

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the bulletin search endpoint
const DefaultBaseURL = "http://isc-mirror.iris.washington.edu/cgi-bin/web-db-run"

// OutputFormat is the out_format value sent with every search
const OutputFormat = "QuakeML"

// midnight is the URL-encoded start_time/end_time value
const midnight = "00%3A00%3A00"

// FormatURL renders params as a search URL against base.
//
// The provider reads a fixed key set in a fixed order, so every key is
// written even when its value is empty. The same Params always produce the
// same string.
func FormatURL(base string, p Params) string {
	var b strings.Builder
	b.WriteString(base)

	b.WriteString("?request=" + string(p.Review))
	b.WriteString("&out_format=" + OutputFormat)

	r := regionOf(p)
	b.WriteString("&searchshape=" + r.shape)
	b.WriteString("&bot_lat=" + r.botLat + "&top_lat=" + r.topLat)
	b.WriteString("&left_lon=" + r.leftLon + "&right_lon=" + r.rightLon)
	b.WriteString("&ctr_lat=" + r.ctrLat + "&ctr_lon=" + r.ctrLon)
	b.WriteString("&radius=" + r.radius + "&max_dist_units=deg")
	b.WriteString("&srn=")
	b.WriteString("&grn=")
	if r.coordvals != "" {
		b.WriteString("&coordvals=" + r.coordvals)
	}

	b.WriteString("&start_year=" + strconv.Itoa(p.StartDate.Year()))
	b.WriteString("&start_month=" + strconv.Itoa(int(p.StartDate.Month())))
	b.WriteString("&start_day=" + strconv.Itoa(p.StartDate.Day()))
	b.WriteString("&start_time=" + midnight)
	b.WriteString("&end_year=" + strconv.Itoa(p.EndDate.Year()))
	b.WriteString("&end_month=" + strconv.Itoa(int(p.EndDate.Month())))
	b.WriteString("&end_day=" + strconv.Itoa(p.EndDate.Day()))
	b.WriteString("&end_time=" + midnight)

	f := p.Filters
	b.WriteString("&min_dep=" + escape(f.MinDepth))
	b.WriteString("&max_dep=" + escape(f.MaxDepth))
	b.WriteString("&min_mag=" + escape(f.MinMag))
	b.WriteString("&max_mag=" + escape(f.MaxMag))
	b.WriteString("&req_mag_type=" + escape(f.MagType))
	b.WriteString("&req_mag_agcy=" + escape(f.MagAgency))
	b.WriteString("&min_def=" + escape(f.MinDefining))
	b.WriteString("&max_def=" + escape(f.MaxDefining))

	for _, token := range p.OptionalOutputs {
		b.WriteString(token)
	}

	return b.String()
}

type region struct {
	shape     string
	botLat    string
	topLat    string
	leftLon   string
	rightLon  string
	ctrLat    string
	ctrLon    string
	radius    string
	coordvals string
}

// regionOf maps shape and coordinates onto the provider's region keys.
// Coordinates are split positionally and otherwise passed through unchecked.
func regionOf(p Params) region {
	coords := strings.TrimSpace(p.Coords)
	if coords == "" {
		// No region filter: an empty rectangle
		return region{shape: "RECT"}
	}

	r := region{shape: escape(p.Shape)}
	parts := splitCoords(coords)
	switch p.Shape {
	case "RECT":
		r.botLat, r.topLat, r.leftLon, r.rightLon = at(parts, 0), at(parts, 1), at(parts, 2), at(parts, 3)
	case "CIRC":
		r.ctrLat, r.ctrLon, r.radius = at(parts, 0), at(parts, 1), at(parts, 2)
	default:
		r.coordvals = escape(strings.Join(parts, ","))
	}
	return r
}

func splitCoords(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	})
	return fields
}

func at(parts []string, i int) string {
	if i < len(parts) {
		return escape(parts[i])
	}
	return ""
}

func escape(s string) string {
	return url.QueryEscape(strings.TrimSpace(s))
}
