package session

import (
	"log/slog"
	"strings"
	"sync"

	"github.com/pariz/gountries"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"glance/internal/events"
)

var (
	zoneTable map[string]string
	zonesOnce sync.Once
)

func getZoneTable() map[string]string {
	zonesOnce.Do(func() {
		zoneTable = make(map[string]string)

		data, err := ruleFiles.ReadFile("zones.yml")
		if err != nil {
			slog.Default().Error("Failed to read zone table", slog.Any("error", err))
			return
		}
		if err := yaml.Unmarshal(data, &zoneTable); err != nil {
			slog.Default().Error("Failed to parse zone table", slog.Any("error", err))
			zoneTable = make(map[string]string)
		}
	})
	return zoneTable
}

// CountryFromZone approximates the visitor country from an IANA time-zone
// identifier. Known zones resolve through the embedded lookup table to a
// country display name; anything else falls back to the humanized last path
// segment of the zone ("America/Argentina/Buenos_Aires" -> "Buenos Aires"),
// or "Unknown" for empty input.
//
// This is a documented best-effort approximation from the client clock, not
// IP geolocation.
func CountryFromZone(zone string) string {
	if zone == "" {
		return events.UnknownCountry
	}

	if code, ok := getZoneTable()[zone]; ok {
		if name := countryName(code); name != "" {
			return name
		}
	}

	return humanizeZoneSegment(zone)
}

var (
	countryQuery     *gountries.Query
	countryQueryOnce sync.Once
)

// countryName resolves an ISO alpha-2 code to its common display name.
func countryName(code string) string {
	countryQueryOnce.Do(func() {
		countryQuery = gountries.New()
	})

	country, err := countryQuery.FindCountryByAlpha(code)
	if err != nil {
		slog.Default().Debug("Unrecognized country code in zone table",
			slog.String("code", code),
			slog.Any("error", err))
		return ""
	}
	return country.Name.Common
}

// humanizeZoneSegment turns the last path segment of a zone identifier into
// a readable label.
func humanizeZoneSegment(zone string) string {
	segment := zone
	if idx := strings.LastIndex(zone, "/"); idx >= 0 {
		segment = zone[idx+1:]
	}
	segment = strings.TrimSpace(strings.ReplaceAll(segment, "_", " "))
	if segment == "" {
		return events.UnknownCountry
	}
	return cases.Title(language.English).String(segment)
}
