package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kronos-qa/kronos-e2e/internal/capabilities"
	"github.com/kronos-qa/kronos-e2e/internal/pages"
)

func openPTPPage(t *testing.T) (*pages.PTPConfigPage, string) {
	t.Helper()
	browser, auth, model := setupDevice(t)
	requireSeries(t, model, capabilities.Series3)
	if !capabilities.PTPSupported(model) {
		t.Skipf("model %s has no PTP-capable interfaces", model)
	}
	require.NoError(t, auth.UnlockConfiguration())

	ptpLink := browser.Page.GetByRole(*playwright.AriaRoleLink,
		playwright.PageGetByRoleOptions{Name: "PTP"})
	require.NoError(t, ptpLink.First().Click())

	page := pages.NewPTPConfigPage(browser.Page, model)
	require.NoError(t, page.WaitForLoad(pages.DefaultTimeout))
	return page, model
}

func TestPTPPortsMatchCapabilityRecord(t *testing.T) {
	page, model := openPTPPage(t)

	// Panels start collapsed; the selects exist in the DOM regardless.
	detected, err := page.DetectPorts()
	require.NoError(t, err)
	assert.ElementsMatch(t, capabilities.PTPInterfaces(model), detected,
		"rendered PTP ports should match the capability record")
}

func TestPTPPanelExpansion(t *testing.T) {
	page, _ := openPTPPage(t)
	require.NotEmpty(t, page.Ports)
	port := page.Ports[0]

	require.NoError(t, page.ExpandPortPanel(port))
	// Second expansion must be a no-op success.
	require.NoError(t, page.ExpandPortPanel(port))

	profile, err := page.CurrentProfile(port)
	require.NoError(t, err)
	assert.NotEmpty(t, profile, "expanded panel should expose the active profile")
}

func TestPTPRejectsUnknownPort(t *testing.T) {
	page, _ := openPTPPage(t)

	err := page.ExpandPortPanel("eth9")
	assert.ErrorIs(t, err, pages.ErrUnknownInterface)

	_, err = page.ConfigurePort("eth9", pages.PortSettings{})
	assert.ErrorIs(t, err, pages.ErrUnknownInterface)
}

func TestPTPSaveButtonImpliesPanelExpansion(t *testing.T) {
	page, model := openPTPPage(t)
	require.NotEmpty(t, page.Ports)
	port := page.Ports[0]

	btn := capabilities.GetSaveButton(model, capabilities.ContextPTP, port)
	assert.True(t, btn.PanelExpansion, "PTP save buttons require the panel expanded")

	require.NoError(t, page.ExpandPortPanel(port))
	save := page.SaveButtonLocator(port)
	count, err := save.Count()
	require.NoError(t, err)
	assert.Greater(t, count, 0)
}
