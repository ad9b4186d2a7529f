package analytics

import (
	"net/url"
	"strings"

	"glance/internal/events"
)

// Known referrer hostnames mapped to canonical source names.
var knownSources = map[string]string{
	"google.com":   "Google",
	"twitter.com":  "Twitter",
	"t.co":         "Twitter",
	"facebook.com": "Facebook",
	"reddit.com":   "Reddit",
	"github.com":   "GitHub",
	"youtube.com":  "YouTube",
}

// ReferrerSource normalizes a raw referrer value into a source label before
// counting. Empty values and the "Direct" sentinel stay Direct; otherwise
// the value is parsed as a URL, a leading "www." is stripped, and known
// hostnames map to canonical source names. Unknown hosts pass through as
// their bare hostname; unparseable values pass through as-is.
func ReferrerSource(referrer string) string {
	if referrer == "" || referrer == events.DirectReferrer {
		return events.DirectReferrer
	}

	parsed, err := url.Parse(referrer)
	if err != nil {
		return referrer
	}

	hostname := strings.ToLower(parsed.Hostname())
	if hostname == "" {
		// Scheme-less values like "example.com/page" parse as a bare path.
		return referrer
	}

	hostname = strings.TrimPrefix(hostname, "www.")
	if name, ok := knownSources[hostname]; ok {
		return name
	}

	return hostname
}
