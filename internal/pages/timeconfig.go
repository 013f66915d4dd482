package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/kronos-qa/kronos-e2e/internal/capabilities"
)

const (
	timezoneSelector       = "select[name='timezones']"
	timezoneContainerID    = "#timezone_collapse"
	timezoneToggleSelector = "a[href='#timezone_collapse']"
	dstEnableSelector      = "input[name='dst_enable']"
	dstNameSelector        = "input[name='dst_name']"
	dstRuleSelector        = "select[name='dst_rule']"
)

// TimeConfigPage drives the time section: timezone selection and DST rules.
// Series 2 renders the timezone select flat; Series 3 keeps it inside a
// collapsible panel.
type TimeConfigPage struct {
	Base
}

func NewTimeConfigPage(page playwright.Page, model string) *TimeConfigPage {
	return &TimeConfigPage{Base: newBase(page, model, "time")}
}

// ensureTimezoneVisible expands the Series 3 timezone panel when needed.
func (p *TimeConfigPage) ensureTimezoneVisible() error {
	if p.Series != capabilities.Series3 {
		return nil
	}
	if p.count(timezoneContainerID) == 0 {
		// Some Series 3 firmware renders the select flat anyway.
		return nil
	}
	return p.expandPanel(timezoneToggleSelector, timezoneContainerID)
}

// SelectTimezone picks a timezone from the select.
func (p *TimeConfigPage) SelectTimezone(zone string) error {
	if err := p.ensureTimezoneVisible(); err != nil {
		return err
	}
	loc := p.Page.Locator(timezoneSelector)
	n, err := loc.Count()
	if err != nil {
		return fmt.Errorf("query %s: %w", timezoneSelector, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", timezoneSelector, ErrElementMissing)
	}
	if _, err := loc.First().SelectOption(playwright.SelectOptionValues{Values: &[]string{zone}}); err != nil {
		return fmt.Errorf("select timezone %q: %w", zone, err)
	}
	return nil
}

// CurrentTimezone reads the selected timezone value.
func (p *TimeConfigPage) CurrentTimezone() (string, error) {
	if err := p.ensureTimezoneVisible(); err != nil {
		return "", err
	}
	loc := p.Page.Locator(timezoneSelector)
	n, err := loc.Count()
	if err != nil {
		return "", fmt.Errorf("query %s: %w", timezoneSelector, err)
	}
	if n == 0 {
		return "", fmt.Errorf("%s: %w", timezoneSelector, ErrElementMissing)
	}
	value, err := loc.First().InputValue()
	if err != nil {
		return "", fmt.Errorf("read timezone: %w", err)
	}
	return value, nil
}

// AvailableTimezones lists the option values the timezone select offers.
func (p *TimeConfigPage) AvailableTimezones() ([]string, error) {
	if err := p.ensureTimezoneVisible(); err != nil {
		return nil, err
	}
	options := p.Page.Locator(timezoneSelector + " option")
	n, err := options.Count()
	if err != nil {
		return nil, fmt.Errorf("count timezone options: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("%s: %w", timezoneSelector, ErrElementMissing)
	}
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		value, err := options.Nth(i).GetAttribute("value")
		if err != nil || value == "" {
			continue
		}
		out = append(out, value)
	}
	return out, nil
}

// ConfigureDST toggles daylight saving and optionally names the rule set.
func (p *TimeConfigPage) ConfigureDST(enabled bool, name string) error {
	box := p.Page.Locator(dstEnableSelector)
	n, err := box.Count()
	if err != nil {
		return fmt.Errorf("query %s: %w", dstEnableSelector, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", dstEnableSelector, ErrElementMissing)
	}
	checked, err := box.First().IsChecked()
	if err != nil {
		return fmt.Errorf("read %s: %w", dstEnableSelector, err)
	}
	if checked != enabled {
		if err := box.First().Click(); err != nil {
			return fmt.Errorf("toggle dst: %w", err)
		}
	}
	if enabled && name != "" {
		if err := p.fill(dstNameSelector, name); err != nil {
			return err
		}
	}
	return nil
}

// SelectDSTRule picks a named DST rule set from the rule select.
func (p *TimeConfigPage) SelectDSTRule(rule string) error {
	loc := p.Page.Locator(dstRuleSelector)
	n, err := loc.Count()
	if err != nil {
		return fmt.Errorf("query %s: %w", dstRuleSelector, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", dstRuleSelector, ErrElementMissing)
	}
	if _, err := loc.First().SelectOption(playwright.SelectOptionValues{Values: &[]string{rule}}); err != nil {
		return fmt.Errorf("select dst rule %q: %w", rule, err)
	}
	return nil
}

// SaveConfig saves the time section through the resolver's time-context
// save control, with the same optimistic verification as the other pages.
func (p *TimeConfigPage) SaveConfig() error {
	btn := capabilities.GetSaveButton(p.Model, capabilities.ContextTime, "")
	save := p.Page.Locator(btn.Selector)
	n, err := save.Count()
	if err != nil || n == 0 {
		save = p.Page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "Save"})
		if n, err = save.Count(); err != nil || n == 0 {
			return fmt.Errorf("time save button: %w", ErrElementMissing)
		}
	}
	if err := save.First().Click(); err != nil {
		return fmt.Errorf("click time save: %w", err)
	}
	if err := p.WaitNetworkIdle(DefaultTimeout); err != nil {
		p.log.Debug().Err(err).Msg("networkidle not reached after time save")
	}
	p.Settle(settleDelay)

	for _, marker := range saveErrorMarkers {
		if p.count(marker) > 0 {
			return fmt.Errorf("marker %s: %w", marker, ErrSaveFailed)
		}
	}
	return nil
}
