package e2e

import (
	"testing"

	"github.com/kronos-qa/kronos-e2e/internal/capabilities"
	"github.com/kronos-qa/kronos-e2e/tests/e2e/config"
	"github.com/kronos-qa/kronos-e2e/tests/e2e/helpers"
)

// setupDevice brings up a browser, authenticates both tiers, and resolves
// the device model. Tests skip, never fail, when no device is reachable or
// the model cannot be catalogued.
func setupDevice(t *testing.T) (*helpers.BrowserHelper, *helpers.AuthHelper, string) {
	t.Helper()

	cfg := config.GetConfig()
	if cfg.DeviceIP == "" && cfg.BaseURL == "" {
		t.Skip("DEVICE_IP not set; skipping device test")
	}
	if !cfg.DeviceReachable() {
		t.Skipf("device %s not reachable; skipping", cfg.BaseURL)
	}

	browser := helpers.NewBrowserHelper(t)
	if err := browser.Setup(); err != nil {
		t.Fatalf("browser setup failed: %v", err)
	}
	t.Cleanup(browser.TearDown)

	auth := helpers.NewAuthHelper(browser)
	if err := auth.Login(); err != nil {
		t.Fatalf("status login failed: %v", err)
	}

	model := auth.ResolveModel()
	if model == "" {
		t.Skip("device model could not be determined; skipping series-gated test")
	}
	return browser, auth, model
}

// requireSeries skips the test unless the model belongs to the wanted series.
func requireSeries(t *testing.T, model string, want capabilities.Series) {
	t.Helper()
	got := capabilities.GetSeries(model)
	if got == capabilities.SeriesUnknown {
		t.Skipf("model %s not catalogued; skipping", model)
	}
	if got != want {
		t.Skipf("model %s is %s hardware, test needs %s", model, got, want)
	}
}
