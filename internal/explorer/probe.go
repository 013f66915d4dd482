package explorer

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	dialTimeout     = 1 * time.Second
	quickTimeout    = 3 * time.Second
	methodTimeout   = 5 * time.Second
	bodyPreviewSize = 500
)

// Prober issues the raw network operations: connect scans, HEAD quick
// checks, and the full-method pass. Devices serve self-signed certificates,
// so verification is off; the tool only ever talks to lab appliances.
type Prober struct {
	client *http.Client
	log    zerolog.Logger
}

func NewProber(log zerolog.Logger) *Prober {
	return &Prober{
		client: &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			},
		},
		log: log,
	}
}

// ScanPorts connect-scans the fixed port list and returns the open ones.
func (p *Prober) ScanPorts(ctx context.Context, host string) []int {
	var open []int
	dialer := net.Dialer{Timeout: dialTimeout}
	for _, port := range apiPorts {
		if ctx.Err() != nil {
			return open
		}
		addr := net.JoinHostPort(host, fmt.Sprintf("%d", port))
		conn, err := dialer.DialContext(ctx, "tcp", addr)
		if err != nil {
			continue
		}
		conn.Close()
		open = append(open, port)
		p.log.Info().Int("port", port).Msg("open port")
	}
	return open
}

// Reachable reports whether the device answers HTTPS at all. Any of the
// statuses an embedded web server gives an anonymous client counts.
func (p *Prober) Reachable(ctx context.Context, host string) bool {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://"+host, nil)
	if err != nil {
		return false
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK, http.StatusFound, http.StatusUnauthorized:
		return true
	}
	p.log.Warn().Int("status", resp.StatusCode).Msg("unexpected connectivity status")
	return false
}

// QuickCheck HEADs a URL and reports whether it answered, with what status,
// and how long it took.
func (p *Prober) QuickCheck(ctx context.Context, url string) (bool, int, time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, quickTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return false, 0, 0
	}
	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return false, 0, 0
	}
	resp.Body.Close()
	return true, resp.StatusCode, time.Since(start)
}

// Get fetches a URL body, bounded by maxLen, with a quick deadline. Used by
// the discovery passes that read robots.txt, sitemaps, scripts, and config
// files.
func (p *Prober) Get(ctx context.Context, url string, maxLen int64) (int, []byte, error) {
	ctx, cancel := context.WithTimeout(ctx, methodTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLen))
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// StatusAs GETs a URL under an explicit User-Agent and reports the status.
// The body is discarded; only the status matters to the caller.
func (p *Prober) StatusAs(ctx context.Context, url, userAgent string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, methodTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	req.Header.Set("User-Agent", userAgent)
	resp, err := p.client.Do(req)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()
	return resp.StatusCode, nil
}

// OptionsAllow OPTIONSes a URL and parses the Allow header into method
// names. An endpoint without OPTIONS support yields nil.
func (p *Prober) OptionsAllow(ctx context.Context, url string) []string {
	ctx, cancel := context.WithTimeout(ctx, methodTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodOptions, url, nil)
	if err != nil {
		return nil
	}
	resp, err := p.client.Do(req)
	if err != nil {
		return nil
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return nil
	}
	allow := resp.Header.Get("Allow")
	if allow == "" {
		return nil
	}
	parts := strings.Split(allow, ",")
	methods := make([]string, 0, len(parts))
	for _, m := range parts {
		if m = strings.TrimSpace(m); m != "" {
			methods = append(methods, m)
		}
	}
	return methods
}

// ProbeResult is one method's outcome on one URL.
type ProbeResult struct {
	URL            string            `json:"url"`
	Method         string            `json:"method"`
	StatusCode     int               `json:"status_code"`
	ResponseTime   float64           `json:"response_time"`
	Headers        map[string]string `json:"response_headers,omitempty"`
	BodyPreview    string            `json:"response_data,omitempty"`
	AllowedMethods []string          `json:"allowed_methods,omitempty"`
	AuthRequired   bool              `json:"auth_required"`
	HasDocs        bool              `json:"documentation_available"`
	Err            string            `json:"error,omitempty"`
	Tested         time.Time         `json:"test_timestamp"`
}

// TestMethods runs the full-method pass on one URL: every method in
// probeMethods, capturing status, timing, interesting headers, and a body
// preview. The OPTIONS Allow set is fetched once and attached to every
// result. Failures are recorded per method, never fatal.
func (p *Prober) TestMethods(ctx context.Context, url string) []ProbeResult {
	allowed := p.OptionsAllow(ctx, url)
	results := make([]ProbeResult, 0, len(probeMethods))

	for _, method := range probeMethods {
		result := ProbeResult{
			URL:            url,
			Method:         method,
			AllowedMethods: allowed,
			Tested:         time.Now(),
		}

		reqCtx, cancel := context.WithTimeout(ctx, methodTimeout)
		var body io.Reader
		if method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch {
			body = strings.NewReader("{}")
		}
		req, err := http.NewRequestWithContext(reqCtx, method, url, body)
		if err != nil {
			cancel()
			result.Err = err.Error()
			results = append(results, result)
			continue
		}
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		start := time.Now()
		resp, err := p.client.Do(req)
		elapsed := time.Since(start)
		if err != nil {
			cancel()
			result.Err = err.Error()
			results = append(results, result)
			continue
		}

		result.StatusCode = resp.StatusCode
		result.ResponseTime = elapsed.Seconds()
		result.Headers = flattenHeaders(resp.Header)
		result.AuthRequired = resp.StatusCode == http.StatusUnauthorized ||
			resp.StatusCode == http.StatusForbidden

		preview, _ := io.ReadAll(io.LimitReader(resp.Body, bodyPreviewSize))
		resp.Body.Close()
		cancel()
		result.BodyPreview = string(preview)

		lower := strings.ToLower(result.BodyPreview)
		result.HasDocs = strings.Contains(lower, "swagger") ||
			strings.Contains(lower, "openapi") ||
			strings.Contains(lower, "api documentation")

		p.log.Debug().Str("method", method).Str("url", url).
			Int("status", resp.StatusCode).Dur("elapsed", elapsed).Msg("method tested")
		results = append(results, result)
	}
	return results
}

func flattenHeaders(h http.Header) map[string]string {
	out := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
