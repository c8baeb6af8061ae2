package court

import (
	"sort"
	"strings"
	"time"
)

// StatusFilter narrows a listing by evaluated block status.
type StatusFilter string

const (
	StatusAny       StatusFilter = ""
	StatusAvailable StatusFilter = "available"
	StatusBlocked   StatusFilter = "blocked"
)

// SortOrder orders a listing.
type SortOrder string

const (
	SortByName    SortOrder = "name"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// Filter selects courts for a catalog listing.
type Filter struct {
	Search string
	Sport  string
	Status StatusFilter
	Sort   SortOrder
}

// Select returns the courts matching f, sorted. Status is evaluated against now.
func Select(courts []Court, f Filter, now time.Time) []Court {
	search := strings.ToLower(strings.TrimSpace(f.Search))
	sport := normalizeSport(f.Sport)

	out := make([]Court, 0, len(courts))
	for _, c := range courts {
		if search != "" && !strings.Contains(strings.ToLower(c.Name), search) {
			continue
		}
		if sport != "" && normalizeSport(c.Sport) != sport {
			continue
		}
		switch f.Status {
		case StatusAvailable:
			if c.Status(now).Blocked() {
				continue
			}
		case StatusBlocked:
			if !c.Status(now).Blocked() {
				continue
			}
		}
		out = append(out, c)
	}

	byName := func(i, j int) bool {
		a, b := strings.ToLower(out[i].Name), strings.ToLower(out[j].Name)
		if a != b {
			return a < b
		}
		return out[i].ID < out[j].ID
	}
	switch f.Sort {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].BasePrice.Equal(out[j].BasePrice) {
				return out[i].BasePrice.LessThan(out[j].BasePrice)
			}
			return byName(i, j)
		})
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool {
			if !out[i].BasePrice.Equal(out[j].BasePrice) {
				return out[i].BasePrice.GreaterThan(out[j].BasePrice)
			}
			return byName(i, j)
		})
	default:
		sort.SliceStable(out, byName)
	}
	return out
}
