package session

import (
	"embed"
	"log/slog"
	"sync"

	"go.elara.ws/pcre"
	"gopkg.in/yaml.v3"

	"glance/internal/events"
)

// Embed the classification rule list and the zone lookup table.
//
//go:embed rules.yml
//go:embed zones.yml
var ruleFiles embed.FS

// ClientInfo carries the raw client signals an event is classified from.
type ClientInfo struct {
	UserAgent string
	TimeZone  string
}

// RuleEntry is one pattern in the fallback-ordered classification list.
type RuleEntry struct {
	Regex string `yaml:"regex"`
	Name  string `yaml:"name"`
}

type ruleSet struct {
	Browsers []RuleEntry `yaml:"browsers"`
	OSes     []RuleEntry `yaml:"oses"`
	Devices  []RuleEntry `yaml:"devices"`
}

type compiledRule struct {
	regex *pcre.Regexp
	name  string
}

type classifier struct {
	browsers []compiledRule
	oses     []compiledRule
	devices  []compiledRule
}

var (
	parser     *classifier
	parserOnce sync.Once
)

func getClassifier() *classifier {
	parserOnce.Do(func() {
		parser = &classifier{}

		data, err := ruleFiles.ReadFile("rules.yml")
		if err != nil {
			slog.Default().Error("Failed to read classification rules", slog.Any("error", err))
			return
		}

		var rules ruleSet
		if err := yaml.Unmarshal(data, &rules); err != nil {
			slog.Default().Error("Failed to parse classification rules", slog.Any("error", err))
			return
		}

		parser.browsers = compileRules(rules.Browsers)
		parser.oses = compileRules(rules.OSes)
		parser.devices = compileRules(rules.Devices)
	})
	return parser
}

func compileRules(entries []RuleEntry) []compiledRule {
	compiled := make([]compiledRule, 0, len(entries))
	for _, entry := range entries {
		regex, err := pcre.Compile(entry.Regex)
		if err != nil {
			slog.Default().Warn("Skipping invalid classification rule",
				slog.String("regex", entry.Regex),
				slog.Any("error", err))
			continue
		}
		compiled = append(compiled, compiledRule{regex: regex, name: entry.Name})
	}
	return compiled
}

func matchFirst(rules []compiledRule, userAgent, fallback string) string {
	for _, rule := range rules {
		if rule.regex.MatchString(userAgent) {
			return rule.name
		}
	}
	return fallback
}

// ClassifyUserAgent maps a raw user-agent string onto browser, OS and device
// class labels using the embedded rule list. Unknown clients resolve to the
// "Other" fallback labels, never an error.
func ClassifyUserAgent(userAgent string) (browser, os, device string) {
	c := getClassifier()
	browser = matchFirst(c.browsers, userAgent, events.OtherBrowser)
	os = matchFirst(c.oses, userAgent, events.OtherOS)
	device = matchFirst(c.devices, userAgent, events.OtherDevice)
	return browser, os, device
}
