package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/hypo-search/internal/catalog"
)

// SortOrder represents the client-side row orderings
type SortOrder string

const (
	OrderListing SortOrder = "listing"
	OrderTime    SortOrder = "time"
	OrderMag     SortOrder = "mag"
	OrderAgency  SortOrder = "agency"
)

// ParseSortOrder validates an --order value
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return OrderListing, nil
	case OrderListing, OrderTime, OrderMag, OrderAgency:
		return o, nil
	default:
		return "", fmt.Errorf("unknown order %q (want listing, time, mag or agency)", s)
	}
}

// sortRows returns a catalog with c's rows in the given order; c itself is
// left untouched. The sort is stable so articles of one event keep their
// numbering order.
func sortRows(c *catalog.Catalog, order SortOrder) *catalog.Catalog {
	if c == nil || order == OrderListing {
		return c
	}
	rows := append([]catalog.Row(nil), c.Rows...)
	sorted := &catalog.Catalog{Rows: rows}

	switch order {
	case OrderTime:
		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].OriginTime.Before(rows[j].OriginTime)
		})
	case OrderMag:
		sort.SliceStable(rows, func(i, j int) bool {
			return compareByMag(rows[i], rows[j])
		})
	case OrderAgency:
		sort.SliceStable(rows, func(i, j int) bool {
			a := strings.ToLower(rows[i].EventReportingAgency)
			b := strings.ToLower(rows[j].EventReportingAgency)
			if a != b {
				return a < b
			}
			// If agencies are equal, sort by time
			return rows[i].OriginTime.Before(rows[j].OriginTime)
		})
	}
	return sorted
}

// compareByMag orders by descending magnitude.
// Rows without a magnitude go last.
func compareByMag(i, j catalog.Row) bool {
	switch {
	case i.Mag != nil && j.Mag != nil:
		if *i.Mag != *j.Mag {
			return *i.Mag > *j.Mag
		}
		return i.OriginTime.Before(j.OriginTime)
	case i.Mag != nil:
		return true
	default:
		return false
	}
}
