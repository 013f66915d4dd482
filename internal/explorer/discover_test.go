package explorer

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRobotsPaths(t *testing.T) {
	body := `User-agent: *
Disallow: /cgi-bin/
Disallow: /api/internal
Allow: /api/public
Disallow: /
Disallow:
# comment line
Sitemap: https://example.com/sitemap.xml`

	paths := robotsPaths(body)
	assert.Equal(t, []string{"/cgi-bin/", "/api/internal", "/api/public"}, paths)
}

func TestSitemapPathsXML(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://10.0.0.1/status</loc></url>
  <url><loc>https://10.0.0.1/api/time</loc></url>
  <url><loc>https://10.0.0.1/status</loc></url>
</urlset>`)

	paths := sitemapPaths(body, true)
	assert.Equal(t, []string{"/status", "/api/time"}, paths)
}

func TestSitemapPathsText(t *testing.T) {
	body := []byte("https://10.0.0.1/one\nhttps://10.0.0.1/two\n\n")
	paths := sitemapPaths(body, false)
	assert.Equal(t, []string{"/one", "/two"}, paths)
}

func TestAnalyzeHTML(t *testing.T) {
	html := `<html><head>
<script src="/js/app.js"></script>
<script>
  fetch('/api/status');
  var endpoint = "/api/gnss/satellites";
</script>
</head><body>
<a href="/config">Configuration</a>
<a href="https://external.example.com/ignore">External</a>
<a href="//protocol-relative.example.com/ignore">Also external</a>
</body></html>`

	found, err := analyzeHTML("https://10.0.0.1", []byte(html))
	require.NoError(t, err)

	assert.Equal(t, []string{"https://10.0.0.1/js/app.js"}, found.Scripts)
	assert.Contains(t, found.Paths, "/api/status")
	assert.Contains(t, found.Paths, "/api/gnss/satellites")
	assert.Contains(t, found.Paths, "/config")
	for _, p := range found.Paths {
		assert.NotContains(t, p, "example.com")
	}
}

func TestExtractScriptPaths(t *testing.T) {
	script := `
	  const base = '/api/v2';
	  fetch('/rest/time');
	  $.get("/services/gnss/status");
	  url: "/monitor/health",
	`
	paths := extractScriptPaths(script)
	assert.Contains(t, paths, "/rest/time")
	assert.Contains(t, paths, "/services/gnss/status")
	assert.Contains(t, paths, "/monitor/health")
}

func TestDedupPaths(t *testing.T) {
	long := "/" + string(make([]byte, maxPathLen+10))
	paths := dedupPaths([]string{"/api", "/status", "/api", "", long, "/status"})
	assert.Equal(t, []string{"/api", "/status"}, paths)
}

func testExplorer() *Explorer {
	return New(Device{IP: "203.0.113.10", Name: "bench"}, zerolog.Nop())
}

func TestDiscoverWithUserAgentsFindsGatedAPI(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.UserAgent())
		if r.URL.Path == "/api" && strings.HasPrefix(r.UserAgent(), "curl/") {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	paths := testExplorer().discoverWithUserAgents(context.Background(), srv.URL)
	assert.Equal(t, []string{"/api"}, paths, "one accepting agent marks the path once")
	assert.Len(t, seen, len(userAgents), "every agent in the rotation is tried")
}

func TestDiscoverWithUserAgentsAllRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	paths := testExplorer().discoverWithUserAgents(context.Background(), srv.URL)
	assert.Empty(t, paths)
}
