package http_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"glance/internal/analytics"
	"glance/internal/config"
	httpserver "glance/internal/http"
	"glance/internal/testsupport"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/126.0.0.0 Safari/537.36"

func newTestServer(t *testing.T) *httpserver.Server {
	t.Helper()

	cfg := &config.Config{
		AppName:               "glance",
		AppPort:               "0",
		Environment:           config.Test,
		SessionTimeoutSeconds: 1800,
	}
	return httpserver.NewServer(cfg, testsupport.NewTestLogger(t), testsupport.NewTestStore(t, 0))
}

func postEvent(t *testing.T, s *httpserver.Server, body map[string]any) *nethttp.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(nethttp.MethodPost, "/api/v1/events", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", chromeUA)

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	return resp
}

func getStats(t *testing.T, s *httpserver.Server, query string) (*nethttp.Response, *analytics.Report) {
	t.Helper()

	req := httptest.NewRequest(nethttp.MethodGet, "/api/v1/stats"+query, nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	if resp.StatusCode != nethttp.StatusOK {
		return resp, nil
	}

	var report analytics.Report
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	return resp, &report
}

func TestHealthz(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodGet, "/healthz", nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)
}

func TestRecordEventAndQuery(t *testing.T) {
	s := newTestServer(t)
	now := time.Now().UTC()

	for i := 0; i < 3; i++ {
		resp := postEvent(t, s, map[string]any{
			"path":      "/pricing",
			"sessionId": "session-a",
			"timestamp": now.Add(-time.Duration(i) * time.Minute).Format(time.RFC3339),
			"timeZone":  "Europe/Paris",
		})
		assert.Equal(t, nethttp.StatusAccepted, resp.StatusCode)
	}

	resp, report := getStats(t, s, "?range=last_hour")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	assert.Equal(t, 3, report.PageViews)
	assert.Equal(t, 1, report.Visits)
	assert.Equal(t, 1, report.UniqueVisitors)
	assert.Equal(t, 0.0, report.BounceRatePercent)
	require.NotEmpty(t, report.TopPages)
	assert.Equal(t, "/pricing", report.TopPages[0].Label)
	require.NotEmpty(t, report.TopBrowsers)
	assert.Equal(t, "Chrome", report.TopBrowsers[0].Label)
	require.NotEmpty(t, report.Countries)
	assert.Equal(t, "France", report.Countries[0].Name)
}

func TestRecordEventRequiresPath(t *testing.T) {
	s := newTestServer(t)

	resp := postEvent(t, s, map[string]any{"referrer": "https://google.com"})
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestRecordEventRejectsMalformedBody(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(nethttp.MethodPost, "/api/v1/events", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)
}

func TestStatsInvalidSelectionKeepsLastValidOne(t *testing.T) {
	s := newTestServer(t)
	now := time.Now().UTC()

	postEvent(t, s, map[string]any{
		"path":      "/home",
		"sessionId": "session-a",
		"timestamp": now.Format(time.RFC3339),
	})

	resp, report := getStats(t, s, "?range=last_hour")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	require.Equal(t, 1, report.PageViews)

	// Unknown preset.
	resp, _ = getStats(t, s, "?range=last_century")
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	// Inverted custom range.
	from := now.Format(time.RFC3339)
	to := now.Add(-time.Hour).Format(time.RFC3339)
	resp, _ = getStats(t, s, fmt.Sprintf("?range=custom&from=%s&to=%s", from, to))
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	// Unparseable bounds.
	resp, _ = getStats(t, s, "?range=custom&from=yesterday&to=today")
	assert.Equal(t, nethttp.StatusBadRequest, resp.StatusCode)

	// The last_hour selection is still active and still matches the event.
	resp, report = getStats(t, s, "")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, report.PageViews)
}

func TestStatsCustomRange(t *testing.T) {
	s := newTestServer(t)
	now := time.Now().UTC().Truncate(time.Second)

	postEvent(t, s, map[string]any{
		"path":      "/inside",
		"sessionId": "session-a",
		"timestamp": now.Add(-30 * time.Minute).Format(time.RFC3339),
	})
	postEvent(t, s, map[string]any{
		"path":      "/outside",
		"sessionId": "session-b",
		"timestamp": now.Add(-3 * time.Hour).Format(time.RFC3339),
	})

	from := now.Add(-time.Hour).Format(time.RFC3339)
	to := now.Format(time.RFC3339)
	resp, report := getStats(t, s, fmt.Sprintf("?range=custom&from=%s&to=%s", from, to))
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)

	require.Equal(t, 1, report.PageViews)
	assert.Equal(t, "/inside", report.TopPages[0].Label)
	assert.Len(t, report.Series, 12)
}

func TestResetClearsAnalytics(t *testing.T) {
	s := newTestServer(t)
	now := time.Now().UTC()

	postEvent(t, s, map[string]any{
		"path":      "/home",
		"sessionId": "session-a",
		"timestamp": now.Format(time.RFC3339),
	})

	req := httptest.NewRequest(nethttp.MethodDelete, "/api/v1/events", nil)
	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, nethttp.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Analytics reset")

	resp, report := getStats(t, s, "?range=last_hour")
	require.Equal(t, nethttp.StatusOK, resp.StatusCode)
	assert.Zero(t, report.PageViews)
}
