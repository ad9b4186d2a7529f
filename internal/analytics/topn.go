package analytics

import (
	"math"
	"sort"

	"glance/internal/events"
)

// TopBreakdown counts occurrences per distinct label across all matched
// events, ranks them descending by count and returns the top limit entries
// annotated with their share of the total event count. Ties keep
// first-encountered label order, so repeated calls over the same event set
// return identical ordering. Percentages are exact until the final one
// decimal rounding at emission.
func TopBreakdown(evts []events.Event, limit int, project func(events.Event) string) []MetricCount {
	counts := make(map[string]int)
	var order []string

	for _, e := range evts {
		label := project(e)
		if label == "" {
			continue
		}
		if _, seen := counts[label]; !seen {
			order = append(order, label)
		}
		counts[label]++
	}

	entries := make([]MetricCount, len(order))
	for i, label := range order {
		entries[i] = MetricCount{Label: label, Count: counts[label]}
	}

	// Stable sort preserves first-seen order among equal counts.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	total := len(evts)
	for i := range entries {
		entries[i].Percentage = percentage(entries[i].Count, total)
	}

	return entries
}

// percentage returns 100*count/total rounded to one decimal, 0 for an
// empty total.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return round1(100 * float64(count) / float64(total))
}

// round1 rounds to one decimal place for display.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
