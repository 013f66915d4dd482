package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kronos-qa/kronos-e2e/internal/capabilities"
)

// Configuration unlock field. The device reuses the "Password" placeholder
// for both authentication tiers; only the name attribute distinguishes them.
const configPasswordSelector = "input[name='cfg_password']"

// UnlockPage handles the second authentication tier. Status login grants
// read access; the configuration sections stay locked until the
// configuration password is submitted through the Configure link.
type UnlockPage struct {
	Base
}

func NewUnlockPage(page playwright.Page, model string) *UnlockPage {
	return &UnlockPage{Base: newBase(page, model, "unlock")}
}

// OpenConfigure clicks through to the unlock form. The dashboard renders the
// entry point as a link titled with the lock state; plain "Configure" text
// is the fallback on older firmware.
func (p *UnlockPage) OpenConfigure() error {
	candidates := []playwright.Locator{
		p.Page.Locator("a[title*='locked']").Filter(playwright.LocatorFilterOptions{HasText: "Configure"}),
		p.Page.Locator("a").Filter(playwright.LocatorFilterOptions{HasText: "Configure"}),
	}
	for _, loc := range candidates {
		n, err := loc.Count()
		if err != nil || n == 0 {
			continue
		}
		if err := loc.First().Click(); err != nil {
			p.log.Debug().Err(err).Msg("configure link click failed, trying next candidate")
			continue
		}
		if err := p.WaitForLoad(DefaultTimeout); err != nil {
			p.log.Debug().Err(err).Msg("load state not reached after configure click")
		}
		p.Settle(settleDelay)
		return nil
	}
	return fmt.Errorf("configure link: %w", ErrElementMissing)
}

// passwordField resolves the configuration password input.
func (p *UnlockPage) passwordField() (playwright.Locator, error) {
	byName := p.Page.Locator(configPasswordSelector)
	if n, err := byName.Count(); err == nil && n > 0 {
		return byName.First(), nil
	}
	byPlaceholder := p.Page.GetByPlaceholder("Password")
	if n, err := byPlaceholder.Count(); err == nil && n > 0 {
		return byPlaceholder.First(), nil
	}
	return nil, fmt.Errorf("configuration password field: %w", ErrElementMissing)
}

// Unlock submits the configuration password. The caller is expected to have
// reached the unlock form already, normally via OpenConfigure; a page with
// no password field but with configuration sections visible means the
// session is already unlocked, which counts as success.
func (p *UnlockPage) Unlock(password string) error {
	field, err := p.passwordField()
	if err != nil {
		if p.Unlocked() {
			p.log.Debug().Msg("configuration already unlocked")
			return nil
		}
		return err
	}
	if err := field.Fill(password); err != nil {
		return fmt.Errorf("fill configuration password: %w", err)
	}

	submit := p.Page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "Submit"})
	if n, err := submit.Count(); err != nil || n == 0 {
		submit = p.Page.Locator("input[type='submit']")
		if n, err := submit.Count(); err != nil || n == 0 {
			return fmt.Errorf("unlock submit button: %w", ErrElementMissing)
		}
	}
	if err := submit.First().Click(); err != nil {
		return fmt.Errorf("click unlock submit: %w", err)
	}

	if err := p.WaitForLoad(DefaultTimeout); err != nil {
		p.log.Debug().Err(err).Msg("load state not reached after unlock submit")
	}
	p.WaitForSatelliteLoading(30 * time.Second)

	if !p.Unlocked() {
		return fmt.Errorf("configuration sections not visible after unlock")
	}
	p.log.Info().Msg("configuration unlocked")
	return nil
}

// Unlocked reports whether the configuration section links are rendered.
// The section set varies by series, so only a sample is checked.
func (p *UnlockPage) Unlocked() bool {
	for _, section := range []string{"General", "Network", "Time"} {
		link := p.Page.GetByRole(*playwright.AriaRoleLink, playwright.PageGetByRoleOptions{Name: section})
		if n, err := link.Count(); err == nil && n > 0 {
			return true
		}
	}
	return false
}

// Sections lists which configuration section links are actually rendered,
// for comparison against the model's expected section set.
func (p *UnlockPage) Sections() []string {
	var out []string
	for _, section := range capabilities.AvailableSections(p.Model) {
		title := sectionTitle(section)
		link := p.Page.GetByRole(*playwright.AriaRoleLink, playwright.PageGetByRoleOptions{Name: title})
		if n, err := link.Count(); err == nil && n > 0 {
			out = append(out, section)
		}
	}
	return out
}

// sectionTitle maps a section key to the link text the menu renders.
func sectionTitle(section string) string {
	switch section {
	case "gnss":
		return "GNSS"
	case "snmp":
		return "SNMP"
	case "ptp":
		return "PTP"
	}
	return strings.ToUpper(section[:1]) + section[1:]
}
