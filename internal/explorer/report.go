package explorer

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	jsonReportName     = "api_exploration_results.json"
	markdownReportName = "API_DOCUMENTATION.md"
)

// WriteReports writes both report files under <outDir>/<device-ip>/api/ and
// returns the directory they landed in.
func WriteReports(outDir string, result *Result) (string, error) {
	dir := filepath.Join(outDir, result.DeviceIP, "api")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	raw, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal results: %w", err)
	}
	jsonPath := filepath.Join(dir, jsonReportName)
	if err := os.WriteFile(jsonPath, raw, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", jsonPath, err)
	}

	mdPath := filepath.Join(dir, markdownReportName)
	if err := os.WriteFile(mdPath, []byte(renderMarkdown(result)), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", mdPath, err)
	}
	return dir, nil
}

// renderMarkdown produces the human-readable report: a summary block, then
// per-URL sections detailing each working method.
func renderMarkdown(result *Result) string {
	var b strings.Builder
	summary := Summarize(result)

	fmt.Fprintf(&b, "# API Documentation\n\n")
	fmt.Fprintf(&b, "## Device: %s (%s)\n\n", result.DeviceName, result.DeviceIP)
	fmt.Fprintf(&b, "**Exploration Date**: %s  \n", result.ExplorationDate.Format(time.RFC3339))
	fmt.Fprintf(&b, "**Device Type**: %s  \n", result.DeviceType)
	fmt.Fprintf(&b, "**Base URL**: %s  \n", result.BaseURL)
	fmt.Fprintf(&b, "**Open Ports**: %s\n\n", formatPorts(result.OpenPorts))

	b.WriteString("---\n\n## Discovery Summary\n\n")
	fmt.Fprintf(&b, "- **Unique Paths Discovered**: %d\n", summary.UniquePaths)
	fmt.Fprintf(&b, "- **Method Probes Run**: %d\n", summary.TotalProbes)
	fmt.Fprintf(&b, "- **Working Probes**: %d\n", summary.WorkingProbes)
	fmt.Fprintf(&b, "- **Authentication Required**: %d\n", summary.AuthProbes)
	fmt.Fprintf(&b, "- **Documentation Hits**: %d\n", summary.DocProbes)
	fmt.Fprintf(&b, "- **Discovery Methods**: %s\n", strings.Join(result.DiscoveryMethods, ", "))
	fmt.Fprintf(&b, "- **Probe Errors**: %d\n\n", summary.Errors)

	for method, paths := range result.DiscoveredPaths {
		if len(paths) == 0 {
			continue
		}
		fmt.Fprintf(&b, "### Paths via %s\n\n", method)
		for _, p := range paths {
			fmt.Fprintf(&b, "- `%s`\n", p)
		}
		b.WriteString("\n")
	}

	b.WriteString("---\n\n## Probed Endpoints\n\n")
	urls, groups := groupByURL(result.Endpoints)
	for _, url := range urls {
		probes := groups[url]
		fmt.Fprintf(&b, "### %s\n\n", url)

		if len(probes) > 0 && len(probes[0].AllowedMethods) > 0 {
			fmt.Fprintf(&b, "**Allowed Methods** (via OPTIONS): %s  \n",
				strings.Join(probes[0].AllowedMethods, ", "))
		}
		var working []string
		for _, p := range probes {
			if p.Err == "" && p.StatusCode > 0 && p.StatusCode < 500 {
				working = append(working, p.Method)
			}
		}
		if len(working) > 0 {
			fmt.Fprintf(&b, "**Working Methods**: %s  \n", strings.Join(working, ", "))
		}
		b.WriteString("\n")

		for _, p := range probes {
			if p.Err != "" || p.StatusCode == 0 || p.StatusCode >= 500 {
				continue
			}
			fmt.Fprintf(&b, "#### %s\n\n", p.Method)
			fmt.Fprintf(&b, "**Status Code**: %d  \n", p.StatusCode)
			fmt.Fprintf(&b, "**Response Time**: %.3fs  \n", p.ResponseTime)
			if p.AuthRequired {
				b.WriteString("**Authentication**: Required  \n")
			}
			if ct, ok := p.Headers["Content-Type"]; ok {
				fmt.Fprintf(&b, "**Content-Type**: %s  \n", ct)
			}
			if preview := previewLine(p.BodyPreview); preview != "" {
				fmt.Fprintf(&b, "**Response Preview**: `%s`  \n", preview)
			}
			b.WriteString("\n")
		}
	}

	if len(result.Errors) > 0 {
		b.WriteString("---\n\n## Errors\n\n")
		for _, e := range result.Errors {
			fmt.Fprintf(&b, "- %s\n", e)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func formatPorts(ports []int) string {
	if len(ports) == 0 {
		return "none"
	}
	parts := make([]string, len(ports))
	for i, p := range ports {
		parts[i] = fmt.Sprintf("%d", p)
	}
	return strings.Join(parts, ", ")
}

// previewLine trims a body preview to one short line for the report.
func previewLine(body string) string {
	body = strings.TrimSpace(strings.ReplaceAll(body, "\n", " "))
	if len(body) < 10 {
		return ""
	}
	if len(body) > 150 {
		body = body[:150] + "..."
	}
	return strings.ReplaceAll(body, "`", "'")
}
