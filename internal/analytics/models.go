// Package analytics computes time-windowed statistics over the event store:
// traffic series, visit/bounce scalars, top-N categorical breakdowns and
// per-country rollups. Results are recomputed on every query and never
// cached.
package analytics

// Bucket is one fixed-width time slice of a query range.
type Bucket struct {
	Label          string `json:"label"`
	Views          int    `json:"views"`
	UniqueVisitors int    `json:"uniqueVisitors"`
}

// MetricCount is one row of a ranked categorical breakdown.
type MetricCount struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// CountryCount is one per-country rollup row for map rendering. Every
// country with at least one event appears; there is no top-N truncation.
type CountryCount struct {
	Name     string `json:"name"`
	Views    int    `json:"views"`
	Visitors int    `json:"visitors"`
}

// Report is the full aggregation result for one query. Visits and
// UniqueVisitors are numerically identical today (both count distinct
// sessions); they are separate fields so a future cross-session visitor
// identity can diverge without breaking consumers.
type Report struct {
	PageViews         int      `json:"pageViews"`
	Visits            int      `json:"visits"`
	UniqueVisitors    int      `json:"uniqueVisitors"`
	BounceRatePercent float64  `json:"bounceRatePercent"`
	Series            []Bucket `json:"series"`

	TopPages     []MetricCount `json:"topPages"`
	TopBrowsers  []MetricCount `json:"topBrowsers"`
	TopOS        []MetricCount `json:"topOS"`
	TopDevices   []MetricCount `json:"topDevices"`
	TopReferrers []MetricCount `json:"topReferrers"`

	Countries []CountryCount `json:"countries"`
}

// Breakdown limits per category.
const (
	TopPagesLimit     = 7
	TopReferrersLimit = 7
	TopBrowsersLimit  = 5
	TopOSLimit        = 5
	TopDevicesLimit   = 3
)
