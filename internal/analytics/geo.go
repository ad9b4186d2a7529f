package analytics

import (
	"sort"

	"glance/internal/events"
)

// CountryRollup groups matched events by country into view and distinct
// visitor counts for map rendering. Every country with at least one event
// is included; the result is ordered by views descending with first-seen
// tie-breaks so output is deterministic.
func CountryRollup(evts []events.Event) []CountryCount {
	type rollup struct {
		views    int
		sessions map[string]struct{}
	}

	byCountry := make(map[string]*rollup)
	var order []string

	for _, e := range evts {
		country := e.Country
		if country == "" {
			country = events.UnknownCountry
		}

		entry, ok := byCountry[country]
		if !ok {
			entry = &rollup{sessions: make(map[string]struct{})}
			byCountry[country] = entry
			order = append(order, country)
		}
		entry.views++
		entry.sessions[e.SessionID] = struct{}{}
	}

	result := make([]CountryCount, len(order))
	for i, name := range order {
		entry := byCountry[name]
		result[i] = CountryCount{
			Name:     name,
			Views:    entry.views,
			Visitors: len(entry.sessions),
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Views > result[j].Views
	})

	return result
}
