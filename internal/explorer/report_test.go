package explorer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	return &Result{
		DeviceIP:        "172.16.66.3",
		DeviceName:      "Kronos Series 3",
		DeviceType:      "series3",
		ExplorationDate: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC),
		BaseURL:         "https://172.16.66.3",
		OpenPorts:       []int{80, 443},
		DiscoveredPaths: map[string][]string{
			"catalogue":  {"/api", "/status"},
			"robots_txt": {"/cgi-bin/"},
		},
		DiscoveryMethods: []string{"endpoint_catalogue", "robots_txt"},
		Endpoints: []ProbeResult{
			{
				URL:            "https://172.16.66.3/api",
				Method:         "GET",
				StatusCode:     200,
				ResponseTime:   0.042,
				Headers:        map[string]string{"Content-Type": "application/json"},
				BodyPreview:    `{"version":"1.0"}`,
				AllowedMethods: []string{"GET", "HEAD"},
			},
			{
				URL:        "https://172.16.66.3/api",
				Method:     "DELETE",
				StatusCode: 405,
			},
			{
				URL:          "https://172.16.66.3/status",
				Method:       "GET",
				StatusCode:   401,
				AuthRequired: true,
			},
			{
				URL:    "https://172.16.66.3/broken",
				Method: "GET",
				Err:    "connection refused",
			},
		},
	}
}

func TestWriteReports(t *testing.T) {
	out := t.TempDir()
	result := sampleResult()

	dir, err := WriteReports(out, result)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(out, "172.16.66.3", "api"), dir)

	raw, err := os.ReadFile(filepath.Join(dir, jsonReportName))
	require.NoError(t, err)
	var decoded Result
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, result.DeviceIP, decoded.DeviceIP)
	assert.Len(t, decoded.Endpoints, 4)

	md, err := os.ReadFile(filepath.Join(dir, markdownReportName))
	require.NoError(t, err)
	text := string(md)
	assert.Contains(t, text, "# API Documentation")
	assert.Contains(t, text, "Kronos Series 3")
	assert.Contains(t, text, "https://172.16.66.3/api")
	assert.Contains(t, text, "**Working Methods**: GET, DELETE")
	assert.Contains(t, text, "**Authentication**: Required")
	// Probes that errored out are excluded from the detail sections.
	assert.NotContains(t, text, "connection refused")
}

func TestSummarize(t *testing.T) {
	s := Summarize(sampleResult())
	assert.Equal(t, "172.16.66.3", s.DeviceIP)
	assert.Equal(t, 4, s.TotalProbes)
	assert.Equal(t, 3, s.WorkingProbes)
	assert.Equal(t, 1, s.AuthProbes)
	assert.Equal(t, 3, s.UniquePaths)
}

func TestRenderMarkdownPreviewEscapesBackticks(t *testing.T) {
	result := sampleResult()
	result.Endpoints[0].BodyPreview = "value with `backticks` inside body"
	text := renderMarkdown(result)
	assert.Contains(t, text, "value with 'backticks' inside body")
}

func TestFormatPorts(t *testing.T) {
	assert.Equal(t, "none", formatPorts(nil))
	assert.Equal(t, "80, 443", formatPorts([]int{80, 443}))
}
