package pages

import (
	"fmt"
	"time"

	"github.com/playwright-community/playwright-go"
)

// Status login field. The device names it sts_password but only reliably
// exposes the placeholder, so the placeholder lookup comes first.
const statusPasswordSelector = "input[name='sts_password']"

// LoginPage handles status monitoring authentication. The device has a
// single password field and a Submit button; there is no username.
type LoginPage struct {
	Base
}

func NewLoginPage(page playwright.Page, model string) *LoginPage {
	return &LoginPage{Base: newBase(page, model, "login")}
}

// Navigate loads the device root, which serves the login form when no
// session exists.
func (p *LoginPage) Navigate(baseURL string) error {
	if _, err := p.Page.Goto(baseURL); err != nil {
		return fmt.Errorf("goto %s: %w", baseURL, err)
	}
	return p.WaitForLoad(DefaultTimeout)
}

// passwordField resolves the status password input, preferring the
// placeholder the device renders on every firmware revision.
func (p *LoginPage) passwordField() (playwright.Locator, error) {
	byPlaceholder := p.Page.GetByPlaceholder("Password")
	if n, err := byPlaceholder.Count(); err == nil && n > 0 {
		return byPlaceholder.First(), nil
	}
	byName := p.Page.Locator(statusPasswordSelector)
	if n, err := byName.Count(); err == nil && n > 0 {
		return byName.First(), nil
	}
	return nil, fmt.Errorf("status password field: %w", ErrElementMissing)
}

// submitButton resolves the login submit control. Some firmware renders a
// <button>, some an <input type='submit'>.
func (p *LoginPage) submitButton() (playwright.Locator, error) {
	byRole := p.Page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "Submit"})
	if n, err := byRole.Count(); err == nil && n > 0 {
		return byRole.First(), nil
	}
	byType := p.Page.Locator("input[type='submit']")
	if n, err := byType.Count(); err == nil && n > 0 {
		return byType.First(), nil
	}
	return nil, fmt.Errorf("submit button: %w", ErrElementMissing)
}

// Login submits the status password and waits for the dashboard. The
// satellite loading banner the dashboard shows after authentication is
// waited out before success is judged, since it masks the page content.
func (p *LoginPage) Login(password string) error {
	field, err := p.passwordField()
	if err != nil {
		return err
	}
	if err := field.Fill(""); err != nil {
		return fmt.Errorf("clear password field: %w", err)
	}
	if err := field.Fill(password); err != nil {
		return fmt.Errorf("fill password field: %w", err)
	}

	submit, err := p.submitButton()
	if err != nil {
		return err
	}
	if err := submit.Click(); err != nil {
		return fmt.Errorf("click submit: %w", err)
	}

	if err := p.WaitForLoad(DefaultTimeout); err != nil {
		p.log.Debug().Err(err).Msg("load state not reached after login submit")
	}
	p.WaitForSatelliteLoading(30 * time.Second)

	if msg, failed := p.authenticationError(); failed {
		return fmt.Errorf("login rejected: %s: %w", msg, ErrAuthRejected)
	}
	if !p.loggedIn() {
		return fmt.Errorf("login: no dashboard indicators after submit")
	}
	p.log.Info().Msg("status login succeeded")
	return nil
}

// loginErrorTexts are the messages the device renders on a rejected login.
var loginErrorTexts = []string{
	"Login failed",
	"Authentication error",
	"Invalid credentials",
	"Session expired",
}

// authenticationError looks for an explicit rejection. A still-visible
// password field after submit also counts: the device re-renders the login
// form instead of posting an error on some firmware.
func (p *LoginPage) authenticationError() (string, bool) {
	for _, text := range loginErrorTexts {
		loc := p.Page.GetByText(text, playwright.PageGetByTextOptions{Exact: playwright.Bool(false)})
		if n, err := loc.Count(); err == nil && n > 0 {
			if visible, err := loc.First().IsVisible(); err == nil && visible {
				return text, true
			}
		}
	}
	if n, err := p.Page.GetByPlaceholder("Password").Count(); err == nil && n > 0 {
		if visible, err := p.Page.GetByPlaceholder("Password").First().IsVisible(); err == nil && visible {
			return "login form still visible", true
		}
	}
	return "", false
}

// dashboardIndicators are elements only the authenticated dashboard renders.
var dashboardIndicators = []string{
	"a[title*='locked']",
	"a[href*='config']",
	"table",
}

func (p *LoginPage) loggedIn() bool {
	for _, sel := range dashboardIndicators {
		if p.count(sel) > 0 {
			return true
		}
	}
	return false
}
