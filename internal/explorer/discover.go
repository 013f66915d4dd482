package explorer

import (
	"bytes"
	"context"
	"encoding/xml"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	maxFetchLen = 1 << 20
	maxPathLen  = 200
	maxJSFiles  = 10
)

// robotsPaths extracts Allow/Disallow paths from a robots.txt body.
// A robots file exists precisely to name paths the vendor would rather not
// have crawled, which makes it the cheapest discovery source there is.
func robotsPaths(body string) []string {
	var out []string
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(line)
		var rest string
		switch {
		case strings.HasPrefix(line, "Disallow:"):
			rest = strings.TrimPrefix(line, "Disallow:")
		case strings.HasPrefix(line, "Allow:"):
			rest = strings.TrimPrefix(line, "Allow:")
		default:
			continue
		}
		path := strings.TrimSpace(rest)
		if path != "" && path != "/" {
			out = append(out, path)
		}
	}
	return out
}

type sitemapURLSet struct {
	Locs []string `xml:"url>loc"`
}

// sitemapPaths extracts URL paths from a sitemap body, XML or plain text.
func sitemapPaths(body []byte, isXML bool) []string {
	var out []string
	seen := map[string]bool{}
	add := func(raw string) {
		u, err := url.Parse(strings.TrimSpace(raw))
		if err != nil || u.Path == "" || seen[u.Path] {
			return
		}
		seen[u.Path] = true
		out = append(out, u.Path)
	}
	if isXML {
		var set sitemapURLSet
		if err := xml.Unmarshal(body, &set); err == nil {
			for _, loc := range set.Locs {
				add(loc)
			}
		}
		return out
	}
	for _, line := range strings.Split(string(body), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			add(line)
		}
	}
	return out
}

// Inline-script and JS-file patterns that betray API endpoints.
var (
	jsAPIPattern      = regexp.MustCompile(`['"/]api/([a-zA-Z0-9_/-]+)`)
	jsFetchPattern    = regexp.MustCompile(`fetch\(['"]([^'"]+)`)
	jsAssignPattern   = regexp.MustCompile(`(?:endpoint|url|path|baseurl)\s*[:=]\s*['"](/[^'"]+)['"]`)
	jsPathLikePattern = regexp.MustCompile(`['"](/(?:api|rest|services?)/[a-zA-Z0-9_/-]+)['"]`)
)

// htmlDiscovery is what a root-page analysis yields: endpoint hints from
// inline scripts, plus the external script files worth downloading.
type htmlDiscovery struct {
	Paths   []string
	Scripts []string
}

// analyzeHTML walks the root page for API hints. Script src attributes are
// collected for the JS download pass; inline script text is pattern-matched
// directly.
func analyzeHTML(base string, body []byte) (htmlDiscovery, error) {
	var found htmlDiscovery
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return found, err
	}

	baseURL, err := url.Parse(base)
	if err != nil {
		return found, err
	}

	seen := map[string]bool{}
	addPath := func(path string) {
		if path == "" || len(path) > maxPathLen || seen[path] {
			return
		}
		if !strings.HasPrefix(path, "/") {
			path = "/api/" + path
		}
		seen[path] = true
		found.Paths = append(found.Paths, path)
	}

	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && strings.HasSuffix(strings.ToLower(src), ".js") {
			ref, err := url.Parse(src)
			if err == nil {
				found.Scripts = append(found.Scripts, baseURL.ResolveReference(ref).String())
			}
			return
		}
		for _, path := range extractScriptPaths(s.Text()) {
			addPath(path)
		}
	})

	// Anchors pointing into the device's own pages are endpoints too.
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if strings.HasPrefix(href, "/") && !strings.HasPrefix(href, "//") {
			if u, err := url.Parse(href); err == nil {
				addPath(u.Path)
			}
		}
	})

	return found, nil
}

// extractScriptPaths pattern-matches script text for endpoint references.
func extractScriptPaths(script string) []string {
	var out []string
	lower := strings.ToLower(script)
	for _, m := range jsAPIPattern.FindAllStringSubmatch(lower, -1) {
		out = append(out, "/api/"+m[1])
	}
	for _, m := range jsFetchPattern.FindAllStringSubmatch(script, -1) {
		if strings.HasPrefix(m[1], "/") {
			out = append(out, m[1])
		}
	}
	for _, m := range jsAssignPattern.FindAllStringSubmatch(lower, -1) {
		out = append(out, m[1])
	}
	for _, m := range jsPathLikePattern.FindAllStringSubmatch(script, -1) {
		out = append(out, m[1])
	}
	return out
}

// discoverFromRobots fetches and parses robots.txt.
func (e *Explorer) discoverFromRobots(ctx context.Context, base string) []string {
	status, body, err := e.prober.Get(ctx, base+"/robots.txt", maxFetchLen)
	if err != nil || status != http.StatusOK {
		return nil
	}
	paths := robotsPaths(string(body))
	if len(paths) > 0 {
		e.log.Info().Int("paths", len(paths)).Msg("robots.txt yielded paths")
	}
	return paths
}

// discoverFromSitemap fetches and parses the sitemap variants.
func (e *Explorer) discoverFromSitemap(ctx context.Context, base string) []string {
	var out []string
	for _, path := range []string{"/sitemap.xml", "/sitemap_index.xml", "/sitemap.txt"} {
		status, body, err := e.prober.Get(ctx, base+path, maxFetchLen)
		if err != nil || status != http.StatusOK {
			continue
		}
		out = append(out, sitemapPaths(body, strings.HasSuffix(path, ".xml"))...)
	}
	if len(out) > 0 {
		e.log.Info().Int("paths", len(out)).Msg("sitemap yielded paths")
	}
	return out
}

// discoverFromContent fetches the root page and mines it, then downloads up
// to maxJSFiles referenced scripts and mines those too.
func (e *Explorer) discoverFromContent(ctx context.Context, base string) []string {
	status, body, err := e.prober.Get(ctx, base, maxFetchLen)
	if err != nil || status != http.StatusOK {
		return nil
	}
	found, err := analyzeHTML(base, body)
	if err != nil {
		e.log.Debug().Err(err).Msg("root page parse failed")
		return nil
	}
	paths := found.Paths

	scripts := found.Scripts
	if len(scripts) > maxJSFiles {
		scripts = scripts[:maxJSFiles]
	}
	for _, scriptURL := range scripts {
		status, js, err := e.prober.Get(ctx, scriptURL, maxFetchLen)
		if err != nil || status != http.StatusOK {
			continue
		}
		for _, path := range extractScriptPaths(string(js)) {
			if len(path) <= maxPathLen {
				paths = append(paths, path)
			}
		}
	}
	if len(paths) > 0 {
		e.log.Info().Int("paths", len(paths)).Int("scripts", len(scripts)).
			Msg("content analysis yielded paths")
	}
	return paths
}

// discoverWithUserAgents replays the /api probe under each known client
// user agent. Some firmwares gate endpoints on the agent string, so any
// agent that gets an answer other than 404 or 500 marks the path present.
func (e *Explorer) discoverWithUserAgents(ctx context.Context, base string) []string {
	var out []string
	for _, agent := range userAgents {
		if ctx.Err() != nil {
			return out
		}
		status, err := e.prober.StatusAs(ctx, base+"/api", agent)
		if err != nil || status == http.StatusNotFound || status == http.StatusInternalServerError {
			continue
		}
		e.log.Info().Str("agent", agent).Int("status", status).
			Msg("user agent accepted on /api")
		if len(out) == 0 {
			out = append(out, "/api")
		}
	}
	return out
}

// discoverConfigFiles probes the well-known config artifact names.
func (e *Explorer) discoverConfigFiles(ctx context.Context, base string) []string {
	var out []string
	for _, path := range configFilePaths {
		ok, status, _ := e.prober.QuickCheck(ctx, base+path)
		if ok && status == http.StatusOK {
			e.log.Info().Str("path", path).Msg("config file present")
			out = append(out, path)
		}
	}
	return out
}
