// Package view derives the searched, filtered and sorted list shown to the
// user. It never modifies the records it is given.
package view

import (
	"eventdesk/internal/models"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
)

// AllCategories disables category filtering.
const AllCategories = "all"

// SortOrder selects the date ordering of a projection.
type SortOrder string

const (
	SortDateAsc  SortOrder = "date-asc"
	SortDateDesc SortOrder = "date-desc"
)

// ParseSortOrder accepts "date-asc" and "date-desc". An empty string selects
// the default, SortDateDesc.
func ParseSortOrder(s string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(s))) {
	case SortDateAsc:
		return SortDateAsc, nil
	case SortDateDesc, "":
		return SortDateDesc, nil
	default:
		return "", fmt.Errorf("unknown sort order %q (want %s or %s)", s, SortDateAsc, SortDateDesc)
	}
}

// Query holds the current search, filter and sort inputs.
type Query struct {
	Search   string
	Category string    // AllCategories or "" matches every category
	Sort     SortOrder // anything but SortDateAsc sorts descending
}

// Projection is the visible subset of a record list.
type Projection struct {
	Events []models.Event
	Total  int // number of records the projection was computed from
}

// StoreEmpty reports that there were no records at all.
func (p Projection) StoreEmpty() bool { return p.Total == 0 }

// NoMatches reports that records exist but none passed the query.
func (p Projection) NoMatches() bool { return p.Total > 0 && len(p.Events) == 0 }

// Project filters records by category, then by case-insensitive title
// substring, then stable-sorts them by date.
//
// Dates that do not parse as YYYY-MM-DD compare lower than every valid date:
// they come first in ascending order and last in descending order, keeping
// their relative order.
func Project(records []models.Event, q Query) Projection {
	out := make([]models.Event, 0, len(records))

	// Casers keep state and are not safe to share.
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(q.Search))
	for _, ev := range records {
		if q.Category != "" && q.Category != AllCategories && ev.Category != q.Category {
			continue
		}
		if needle != "" && !strings.Contains(folder.String(ev.Title), needle) {
			continue
		}
		out = append(out, ev)
	}

	if q.Sort == SortDateAsc {
		slices.SortStableFunc(out, compareDates)
	} else {
		slices.SortStableFunc(out, func(a, b models.Event) int { return compareDates(b, a) })
	}

	return Projection{Events: out, Total: len(records)}
}

func compareDates(a, b models.Event) int {
	ta, okA := a.ParsedDate()
	tb, okB := b.ParsedDate()
	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return -1
	case !okB:
		return 1
	default:
		return ta.Compare(tb)
	}
}
