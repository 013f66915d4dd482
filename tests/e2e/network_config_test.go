package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kronos-qa/kronos-e2e/internal/capabilities"
	"github.com/kronos-qa/kronos-e2e/internal/pages"
)

func openNetworkPage(t *testing.T) (*pages.NetworkConfigPage, string) {
	t.Helper()
	browser, auth, model := setupDevice(t)
	require.NoError(t, auth.UnlockConfiguration())

	networkLink := browser.Page.GetByRole(*playwright.AriaRoleLink,
		playwright.PageGetByRoleOptions{Name: "Network"})
	require.NoError(t, networkLink.First().Click(), "network section link should be clickable after unlock")

	page := pages.NewNetworkConfigPage(browser.Page, model)
	require.NoError(t, page.WaitForLoad(pages.DefaultTimeout))
	return page, model
}

func TestNetworkCapabilityDetection(t *testing.T) {
	page, model := openNetworkPage(t)

	snap, err := page.DetectCapabilities()
	require.NoError(t, err)

	switch capabilities.GetSeries(model) {
	case capabilities.Series2:
		assert.Equal(t, []string{"single_mode"}, snap.Interfaces)
		assert.True(t, snap.HasModeSelect, "Series 2 network page should render the mode select")
	case capabilities.Series3:
		expected := capabilities.NetworkInterfaces(model)
		assert.Equal(t, expected, snap.Interfaces,
			"rendered interfaces should match the capability record")
		assert.Subset(t, snap.Interfaces, snap.PTPCapable,
			"PTP-capable set must be a subset of detected interfaces")
	}
}

func TestNetworkCapabilityValidation(t *testing.T) {
	page, _ := openNetworkPage(t)

	mismatches, err := page.ValidateCapabilities()
	require.NoError(t, err)
	assert.Empty(t, mismatches, "capability record disagrees with the live device: %v", mismatches)
}

func TestPanelExpansionIsStable(t *testing.T) {
	page, model := openNetworkPage(t)
	requireSeries(t, model, capabilities.Series3)

	ifaces := capabilities.NetworkInterfaces(model)
	require.NotEmpty(t, ifaces)
	iface := ifaces[0]

	require.NoError(t, page.ExpandInterfacePanel(iface))
	expanded, err := page.PanelExpanded(iface)
	require.NoError(t, err)
	assert.True(t, expanded)

	// Expanding again must not toggle the panel shut.
	require.NoError(t, page.ExpandInterfacePanel(iface))
	expanded, err = page.PanelExpanded(iface)
	require.NoError(t, err)
	assert.True(t, expanded)
}

func TestSeries2RejectsPerInterfaceConfig(t *testing.T) {
	page, model := openNetworkPage(t)
	requireSeries(t, model, capabilities.Series2)

	_, err := page.ConfigureInterface("eth0", pages.InterfaceConfig{})
	assert.ErrorIs(t, err, pages.ErrNotApplicable)
}

func TestUnknownInterfaceRejected(t *testing.T) {
	page, model := openNetworkPage(t)
	requireSeries(t, model, capabilities.Series3)

	_, err := page.ConfigureInterface("eth9", pages.InterfaceConfig{})
	assert.ErrorIs(t, err, pages.ErrUnknownInterface)

	err = page.ExpandInterfacePanel("eth9")
	assert.ErrorIs(t, err, pages.ErrUnknownInterface)
}

func TestNetworkSnapshotReflectsDevice(t *testing.T) {
	page, model := openNetworkPage(t)

	snap, err := page.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, model, snap.Model)

	if capabilities.GetSeries(model) == capabilities.Series3 {
		assert.NotEmpty(t, snap.InterfaceAddrs, "Series 3 snapshot should carry per-interface addresses")
	} else if capabilities.GetSeries(model) == capabilities.Series2 {
		assert.NotEmpty(t, snap.Mode, "Series 2 snapshot should carry the network mode")
	}
}

func TestSaveButtonResolvesOnLiveDevice(t *testing.T) {
	page, model := openNetworkPage(t)
	requireSeries(t, model, capabilities.Series3)

	ifaces := capabilities.NetworkInterfaces(model)
	require.NotEmpty(t, ifaces)
	require.NoError(t, page.ExpandInterfacePanel(ifaces[0]))

	save := page.SaveButtonLocator(ifaces[0])
	count, err := save.Count()
	require.NoError(t, err)
	assert.Greater(t, count, 0, "save control should be present after panel expansion")
}

func TestNetworkStatusReport(t *testing.T) {
	page, model := openNetworkPage(t)

	status, err := page.Status()
	require.NoError(t, err)
	assert.Equal(t, capabilities.GetSeries(model), status.Series)
	assert.NotEmpty(t, status.Interfaces)

	for iface, st := range status.Interfaces {
		if st.PTPCapable {
			assert.True(t, capabilities.PTPSupported(model),
				"%s reports PTP on a model without PTP support", iface)
		}
	}
}
