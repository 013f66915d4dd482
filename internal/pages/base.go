package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/kronos-qa/kronos-e2e/internal/capabilities"
)

const (
	// DefaultTimeout is the base wait applied before device scaling.
	DefaultTimeout = 10 * time.Second

	// settleDelay absorbs embedded-device render lag after an interaction.
	settleDelay = 500 * time.Millisecond

	// loadSettleDelay is the extra buffer after a full page load when a
	// live scan looked suspiciously sparse.
	loadSettleDelay = 2 * time.Second
)

// Base carries the state every page object shares: the browser page handle
// and the capability view resolved once from the device model. The view is
// not refreshed; constructing a page object against one device and driving
// another is undefined.
type Base struct {
	Page       playwright.Page
	Model      string
	Series     capabilities.Series
	Multiplier float64

	log zerolog.Logger
}

func newBase(page playwright.Page, model, pageName string) Base {
	return Base{
		Page:       page,
		Model:      model,
		Series:     capabilities.GetSeries(model),
		Multiplier: capabilities.TimeoutMultiplier(model),
		log: log.With().
			Str("page", pageName).
			Str("model", model).
			Logger(),
	}
}

// Timeout scales a base duration by the device multiplier and returns
// Playwright milliseconds, truncated.
func (b *Base) Timeout(base time.Duration) float64 {
	return float64(int64(float64(base.Milliseconds()) * b.Multiplier))
}

// WaitForLoad blocks until the page reaches the load state, scaled for the
// device.
func (b *Base) WaitForLoad(base time.Duration) error {
	return b.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateLoad,
		Timeout: playwright.Float(b.Timeout(base)),
	})
}

// WaitNetworkIdle blocks until in-flight requests drain, scaled for the
// device.
func (b *Base) WaitNetworkIdle(base time.Duration) error {
	return b.Page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: playwright.Float(b.Timeout(base)),
	})
}

// Settle pauses for a device-scaled fraction of a second. Embedded devices
// keep rendering after networkidle fires.
func (b *Base) Settle(d time.Duration) {
	b.Page.WaitForTimeout(b.Timeout(d))
}

// WaitForSatelliteLoading waits out the "Loading satellite data" banner the
// dashboard shows after each authentication cycle. Returns once the banner is
// gone or the deadline passes; a still-visible banner is not an error, later
// queries just race it.
func (b *Base) WaitForSatelliteLoading(deadline time.Duration) {
	banner := b.Page.GetByText("Loading satellite data")
	end := time.Now().Add(time.Duration(b.Timeout(deadline)) * time.Millisecond)
	for time.Now().Before(end) {
		visible, err := banner.First().IsVisible()
		if err != nil || !visible {
			return
		}
		b.Page.WaitForTimeout(500)
	}
	b.log.Warn().Msg("satellite loading banner still visible at deadline")
}

// count returns the number of elements matching a selector, 0 on driver
// error.
func (b *Base) count(selector string) int {
	n, err := b.Page.Locator(selector).Count()
	if err != nil {
		return 0
	}
	return n
}

// fill sets an input's value, reporting ErrElementMissing when the selector
// matches nothing.
func (b *Base) fill(selector, value string) error {
	loc := b.Page.Locator(selector)
	n, err := loc.Count()
	if err != nil {
		return fmt.Errorf("query %s: %w", selector, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", selector, ErrElementMissing)
	}
	if err := loc.First().Fill(value); err != nil {
		return fmt.Errorf("fill %s: %w", selector, err)
	}
	return nil
}

// click clicks the first element matching a selector.
func (b *Base) click(selector string) error {
	loc := b.Page.Locator(selector)
	n, err := loc.Count()
	if err != nil {
		return fmt.Errorf("query %s: %w", selector, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", selector, ErrElementMissing)
	}
	if err := loc.First().Click(); err != nil {
		return fmt.Errorf("click %s: %w", selector, err)
	}
	return nil
}

// panelExpanded reads the Bootstrap collapse state off a container's class
// list. Both the v3 "in" and v4 "show" tokens count as expanded.
func (b *Base) panelExpanded(containerSelector string) (bool, error) {
	loc := b.Page.Locator(containerSelector)
	n, err := loc.Count()
	if err != nil {
		return false, fmt.Errorf("query %s: %w", containerSelector, err)
	}
	if n == 0 {
		return false, fmt.Errorf("%s: %w", containerSelector, ErrElementMissing)
	}
	class, err := loc.First().GetAttribute("class")
	if err != nil {
		return false, fmt.Errorf("read class of %s: %w", containerSelector, err)
	}
	return classIndicatesExpanded(class), nil
}

func classIndicatesExpanded(class string) bool {
	for _, token := range strings.Fields(class) {
		if token == "in" || token == "show" || token == "showing" {
			return true
		}
	}
	return false
}

// expandPanel expands one collapsible panel if it is not already open.
// Calling it on an open panel is a no-op that still reports success, so
// repeated expansion is stable.
func (b *Base) expandPanel(toggleSelector, containerSelector string) error {
	expanded, err := b.panelExpanded(containerSelector)
	if err != nil {
		return err
	}
	if expanded {
		return nil
	}

	toggle := b.Page.Locator(toggleSelector)
	n, err := toggle.Count()
	if err != nil {
		return fmt.Errorf("query %s: %w", toggleSelector, err)
	}
	if n == 0 {
		// Firmware variants mark the anchor with an explicit data-toggle.
		toggle = b.Page.Locator(fmt.Sprintf("a[data-toggle='collapse'][href='%s']", containerSelector))
		if n, err = toggle.Count(); err != nil || n == 0 {
			return fmt.Errorf("%s: %w", toggleSelector, ErrElementMissing)
		}
	}
	if err := toggle.First().Click(); err != nil {
		return fmt.Errorf("click %s: %w", toggleSelector, err)
	}

	if err := b.WaitNetworkIdle(5 * time.Second); err != nil {
		b.log.Debug().Err(err).Msg("networkidle not reached after panel toggle")
	}
	b.Settle(settleDelay)

	expanded, err = b.panelExpanded(containerSelector)
	if err != nil {
		return err
	}
	if !expanded {
		return fmt.Errorf("panel %s did not expand", containerSelector)
	}
	return nil
}
