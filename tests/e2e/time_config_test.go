package e2e

import (
	"testing"

	"github.com/playwright-community/playwright-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kronos-qa/kronos-e2e/internal/pages"
)

func openTimePage(t *testing.T) (*pages.TimeConfigPage, string) {
	t.Helper()
	browser, auth, model := setupDevice(t)
	require.NoError(t, auth.UnlockConfiguration())

	timeLink := browser.Page.GetByRole(*playwright.AriaRoleLink,
		playwright.PageGetByRoleOptions{Name: "Time"})
	require.NoError(t, timeLink.First().Click())

	page := pages.NewTimeConfigPage(browser.Page, model)
	require.NoError(t, page.WaitForLoad(pages.DefaultTimeout))
	return page, model
}

func TestTimezoneSelectPresent(t *testing.T) {
	page, _ := openTimePage(t)

	zones, err := page.AvailableTimezones()
	require.NoError(t, err)
	assert.NotEmpty(t, zones, "timezone select should offer at least one zone")

	current, err := page.CurrentTimezone()
	require.NoError(t, err)
	assert.Contains(t, zones, current, "active timezone should be one of the offered zones")
}

func TestTimezoneRoundTrip(t *testing.T) {
	page, _ := openTimePage(t)

	original, err := page.CurrentTimezone()
	require.NoError(t, err)

	require.NoError(t, page.SelectTimezone(original))
	after, err := page.CurrentTimezone()
	require.NoError(t, err)
	assert.Equal(t, original, after, "re-selecting the active timezone must not change it")
}
