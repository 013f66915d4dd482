package helpers

import (
	"fmt"

	"github.com/kronos-qa/kronos-e2e/internal/capabilities"
	"github.com/kronos-qa/kronos-e2e/internal/pages"
)

// AuthHelper drives the device's two authentication tiers: the status
// password on the login page, then the configuration password behind the
// Configure link.
type AuthHelper struct {
	browser *BrowserHelper
}

// NewAuthHelper creates a new authentication helper
func NewAuthHelper(browser *BrowserHelper) *AuthHelper {
	return &AuthHelper{
		browser: browser,
	}
}

// Login performs the status monitoring login
func (a *AuthHelper) Login() error {
	login := pages.NewLoginPage(a.browser.Page, a.browser.Config.DeviceModel)
	if err := login.Navigate(a.browser.Config.BaseURL); err != nil {
		return fmt.Errorf("failed to load login page: %w", err)
	}
	if err := login.Login(a.browser.Config.StatusPassword); err != nil {
		return fmt.Errorf("status login failed: %w", err)
	}
	return nil
}

// UnlockConfiguration clicks through Configure and submits the
// configuration password. Must follow a successful Login.
func (a *AuthHelper) UnlockConfiguration() error {
	unlock := pages.NewUnlockPage(a.browser.Page, a.browser.Config.DeviceModel)
	if err := unlock.OpenConfigure(); err != nil {
		return fmt.Errorf("could not reach unlock form: %w", err)
	}
	if err := unlock.Unlock(a.browser.Config.ConfigPassword); err != nil {
		return fmt.Errorf("configuration unlock failed: %w", err)
	}
	return nil
}

// LoginAndUnlock runs both tiers in sequence
func (a *AuthHelper) LoginAndUnlock() error {
	if err := a.Login(); err != nil {
		return err
	}
	return a.UnlockConfiguration()
}

// ResolveModel returns the device model for this session. A configured
// DEVICE_MODEL wins; otherwise the dashboard is asked. Empty string means
// the device could not be identified and tests should skip series-gated
// assertions.
func (a *AuthHelper) ResolveModel() string {
	if m := a.browser.Config.DeviceModel; m != "" {
		return m
	}
	dashboard := pages.NewDashboardPage(a.browser.Page, "")
	model, err := dashboard.DetectModel()
	if err != nil {
		return ""
	}
	return model
}

// ResolveKnownModel is ResolveModel restricted to catalogued models.
func (a *AuthHelper) ResolveKnownModel() (string, bool) {
	model := a.ResolveModel()
	if model == "" || !capabilities.Known(model) {
		return model, false
	}
	return model, true
}
