// Package explorer probes the HTTP surface of timing appliances on a lab
// network and documents what it finds. All probing is read-only recon
// against equipment the operator owns; there is no retry or backoff, and
// individual probe failures are recorded instead of aborting a run.
package explorer

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// methodPassCap bounds the full-method pass. HEAD sweeps are cheap; seven
// methods times an unbounded discovery list is not, on a device with an
// embedded web server.
const methodPassCap = 30

// Device identifies one appliance to explore.
type Device struct {
	IP   string `mapstructure:"ip" yaml:"ip"`
	Name string `mapstructure:"name" yaml:"name"`
	Type string `mapstructure:"type" yaml:"type"`
}

// Result is one device's full exploration outcome, the shape the JSON
// report serializes.
type Result struct {
	DeviceIP         string              `json:"device_ip"`
	DeviceName       string              `json:"device_name"`
	DeviceType       string              `json:"device_type"`
	ExplorationDate  time.Time           `json:"exploration_date"`
	BaseURL          string              `json:"base_url"`
	OpenPorts        []int               `json:"open_ports"`
	Endpoints        []ProbeResult       `json:"endpoints"`
	DiscoveryMethods []string            `json:"discovery_methods"`
	DiscoveredPaths  map[string][]string `json:"discovered_paths"`
	Errors           []string            `json:"errors"`
}

// Summary condenses a Result for the end-of-run report.
type Summary struct {
	DeviceIP      string
	TotalProbes   int
	WorkingProbes int
	AuthProbes    int
	DocProbes     int
	OpenPorts     []int
	UniquePaths   int
	Errors        int
}

// Explorer runs the discovery pipeline against one device.
type Explorer struct {
	device Device
	prober *Prober
	log    zerolog.Logger
}

func New(device Device, log zerolog.Logger) *Explorer {
	l := log.With().Str("device", device.IP).Logger()
	return &Explorer{
		device: device,
		prober: NewProber(l),
		log:    l,
	}
}

// Run executes the full pipeline: connectivity, port scan, the HEAD sweep
// over the catalogue, the supplementary discovery passes, dedup, and the
// capped full-method pass. An unreachable device returns an error; probe
// failures inside a reachable run are collected in the result.
func (e *Explorer) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		DeviceIP:        e.device.IP,
		DeviceName:      e.device.Name,
		DeviceType:      e.device.Type,
		ExplorationDate: time.Now(),
		BaseURL:         "https://" + e.device.IP,
		DiscoveredPaths: map[string][]string{},
	}

	e.log.Info().Msg("testing connectivity")
	if !e.prober.Reachable(ctx, e.device.IP) {
		return nil, fmt.Errorf("device %s is not reachable over https", e.device.IP)
	}

	e.log.Info().Msg("scanning ports")
	result.OpenPorts = e.prober.ScanPorts(ctx, e.device.IP)

	e.log.Info().Int("patterns", len(endpointCatalogue)).Msg("sweeping endpoint catalogue")
	catalogueHits := e.sweepCatalogue(ctx, result.OpenPorts)
	result.DiscoveredPaths["catalogue"] = catalogueHits

	base := result.BaseURL
	passes := []struct {
		name string
		run  func(context.Context, string) []string
	}{
		{"robots_txt", e.discoverFromRobots},
		{"sitemap_xml", e.discoverFromSitemap},
		{"content_analysis", e.discoverFromContent},
		{"config_files", e.discoverConfigFiles},
		{"user_agent_testing", e.discoverWithUserAgents},
	}

	all := append([]string{}, catalogueHits...)
	result.DiscoveryMethods = append(result.DiscoveryMethods, "endpoint_catalogue", "port_scan")
	for _, pass := range passes {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, ctx.Err().Error())
			break
		}
		paths := pass.run(ctx, base)
		result.DiscoveredPaths[pass.name] = paths
		result.DiscoveryMethods = append(result.DiscoveryMethods, pass.name)
		all = append(all, paths...)
	}

	unique := dedupPaths(all)
	e.log.Info().Int("unique", len(unique)).Msg("discovery passes complete")

	targets := unique
	if len(targets) > methodPassCap {
		targets = targets[:methodPassCap]
	}
	e.log.Info().Int("targets", len(targets)).Msg("running full-method pass")
	for _, path := range targets {
		if ctx.Err() != nil {
			result.Errors = append(result.Errors, ctx.Err().Error())
			break
		}
		result.Endpoints = append(result.Endpoints, e.prober.TestMethods(ctx, base+path)...)
	}
	result.DiscoveryMethods = append(result.DiscoveryMethods, "http_methods", "options_allow")

	return result, nil
}

// sweepCatalogue HEADs every catalogue path against the HTTPS base and each
// additional open port, recording a path once on its first plausible answer.
func (e *Explorer) sweepCatalogue(ctx context.Context, openPorts []int) []string {
	var hits []string
	for _, path := range endpointCatalogue {
		if ctx.Err() != nil {
			return hits
		}
		for _, url := range candidateURLs(e.device.IP, path, openPorts) {
			ok, status, elapsed := e.prober.QuickCheck(ctx, url)
			if ok && plausibleStatuses[status] {
				e.log.Info().Str("path", path).Int("status", status).
					Dur("elapsed", elapsed).Msg("catalogue hit")
				hits = append(hits, path)
				break
			}
		}
	}
	return hits
}

// candidateURLs builds the URL list for one path: the HTTPS default first,
// then each open port with its scheme inferred from the port number.
func candidateURLs(host, path string, openPorts []int) []string {
	urls := []string{"https://" + host + path}
	for _, port := range openPorts {
		if port == 443 {
			continue
		}
		scheme := "http"
		if port == 8443 || port == 9443 {
			scheme = "https"
		}
		urls = append(urls, fmt.Sprintf("%s://%s:%d%s", scheme, host, port, path))
	}
	return urls
}

// dedupPaths removes duplicates while keeping first-seen order, then drops
// anything too long to be a real path.
func dedupPaths(paths []string) []string {
	seen := make(map[string]bool, len(paths))
	var out []string
	for _, p := range paths {
		if p == "" || len(p) > maxPathLen || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// Summarize reduces a result to the counters the end-of-run report prints.
func Summarize(r *Result) Summary {
	s := Summary{
		DeviceIP:  r.DeviceIP,
		OpenPorts: r.OpenPorts,
		Errors:    len(r.Errors),
	}
	paths := map[string]bool{}
	for _, list := range r.DiscoveredPaths {
		for _, p := range list {
			paths[p] = true
		}
	}
	s.UniquePaths = len(paths)
	s.TotalProbes = len(r.Endpoints)
	for _, ep := range r.Endpoints {
		if ep.Err == "" && ep.StatusCode > 0 && ep.StatusCode < 500 {
			s.WorkingProbes++
		}
		if ep.AuthRequired {
			s.AuthProbes++
		}
		if ep.HasDocs {
			s.DocProbes++
		}
	}
	return s
}

// groupByURL buckets probe results per URL, sorted, for the Markdown report.
func groupByURL(endpoints []ProbeResult) ([]string, map[string][]ProbeResult) {
	groups := map[string][]ProbeResult{}
	for _, ep := range endpoints {
		groups[ep.URL] = append(groups[ep.URL], ep)
	}
	urls := make([]string, 0, len(groups))
	for u := range groups {
		urls = append(urls, u)
	}
	sort.Strings(urls)
	return urls, groups
}
