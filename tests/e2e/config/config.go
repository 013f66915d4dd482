package config

import (
	"bufio"
	"crypto/tls"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/kronos-qa/kronos-e2e/internal/capabilities"
)

// TestConfig holds all configuration for device E2E tests
type TestConfig struct {
	DeviceIP       string
	BaseURL        string
	DeviceModel    string
	StatusPassword string
	ConfigPassword string
	Timeout        time.Duration
	Headless       bool
	SlowMo         int
	Screenshots    bool
}

var loadOnce sync.Once

// loadDotEnv loads simple KEY=VALUE lines from .env if present.
// Existing environment variables take precedence and are not overwritten.
func loadDotEnv() {
	paths := []string{".env"}
	for _, p := range paths {
		f, err := os.Open(p)
		if err != nil {
			continue
		}
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if line == "" || strings.HasPrefix(line, "#") { // skip comments/empty
				continue
			}
			if i := strings.Index(line, "="); i > 0 {
				key := strings.TrimSpace(line[:i])
				val := strings.TrimSpace(line[i+1:])
				if val == "" || key == "" {
					continue
				}
				// Strip optional surrounding quotes
				if (strings.HasPrefix(val, "\"") && strings.HasSuffix(val, "\"")) || (strings.HasPrefix(val, "'") && strings.HasSuffix(val, "'")) {
					val = val[1 : len(val)-1]
				}
				if os.Getenv(key) == "" { // don't override existing
					_ = os.Setenv(key, val)
				}
			}
		}
		_ = f.Close()
	}
}

// GetConfig returns the test configuration from environment variables
func GetConfig() *TestConfig {
	loadOnce.Do(func() {
		loadDotEnv()
		loadCapabilityOverrides()
	})

	deviceIP := os.Getenv("DEVICE_IP")
	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" && deviceIP != "" {
		baseURL = "https://" + deviceIP
	}

	statusPassword := os.Getenv("DEVICE_PASSWORD")
	if statusPassword == "" {
		statusPassword = "novatech"
	}
	configPassword := os.Getenv("DEVICE_CONFIG_PASSWORD")
	if configPassword == "" {
		configPassword = statusPassword
	}

	log.Printf("[e2e-config] DeviceIP=%s BaseURL=%s Model=%s", deviceIP, baseURL, os.Getenv("DEVICE_MODEL"))

	return &TestConfig{
		DeviceIP:       deviceIP,
		BaseURL:        baseURL,
		DeviceModel:    os.Getenv("DEVICE_MODEL"),
		StatusPassword: statusPassword,
		ConfigPassword: configPassword,
		Timeout:        30 * time.Second,
		Headless:       os.Getenv("HEADLESS") != "false",
		SlowMo:         parseSlowMo(os.Getenv("SLOW_MO")),
		Screenshots:    os.Getenv("SCREENSHOTS") != "false",
	}
}

// loadCapabilityOverrides merges lab-specific capability records when
// DEVICE_CAPABILITIES_FILE points at a YAML overrides document. Lab fleets
// use this for hardware the built-in database does not know yet.
func loadCapabilityOverrides() {
	path := os.Getenv("DEVICE_CAPABILITIES_FILE")
	if path == "" {
		return
	}
	n, err := capabilities.LoadOverrides(path)
	if err != nil {
		log.Printf("[e2e-config] capability overrides from %s rejected: %v", path, err)
		return
	}
	log.Printf("[e2e-config] loaded %d capability override(s) from %s", n, path)
}

func parseSlowMo(raw string) int {
	if raw == "" {
		return 0
	}
	return 100 // Default to 100ms for debugging
}

// DeviceReachable reports whether the configured device answers HTTPS.
// Tests call this once and skip instead of failing when the lab device is
// offline or the suite runs without one.
func (c *TestConfig) DeviceReachable() bool {
	if c.BaseURL == "" {
		return false
	}
	client := &http.Client{
		Timeout: 5 * time.Second,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	}
	resp, err := client.Get(c.BaseURL)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}
