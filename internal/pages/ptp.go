package pages

import (
	"fmt"

	"github.com/playwright-community/playwright-go"

	"github.com/kronos-qa/kronos-e2e/internal/capabilities"
)

// PTPProfiles lists the profile names the firmware's profile select offers.
var PTPProfiles = []string{
	"Default",
	"IEEE C37.238-2011 (Power Profile)",
	"IEEE C37.238-2017 (Power Profile)",
	"IEC 61850-9-3 (Utility Profile)",
	"ITU-T G.8275.1 (Telecom Profile)",
	"ITU-T G.8275.2 (Telecom Profile)",
}

// PTPConfigPage drives the PTP section. PTP exists only on Series 3
// hardware and only on the PTP-capable interface subset; every panel starts
// collapsed, so each port operation expands its panel first.
type PTPConfigPage struct {
	Base

	// Ports is the resolved PTP-capable interface set, fixed at
	// construction. Empty means the model has no PTP support.
	Ports []string
}

func NewPTPConfigPage(page playwright.Page, model string) *PTPConfigPage {
	p := &PTPConfigPage{
		Base:  newBase(page, model, "ptp"),
		Ports: capabilities.PTPInterfaces(model),
	}
	p.log.Debug().Strs("ports", p.Ports).Msg("ptp page bound")
	return p
}

// Supported reports whether this device has any PTP-capable port.
func (p *PTPConfigPage) Supported() bool {
	return len(p.Ports) > 0
}

func (p *PTPConfigPage) hasPort(port string) bool {
	for _, known := range p.Ports {
		if known == port {
			return true
		}
	}
	return false
}

// profileSelector is the per-port profile select, the element whose
// visibility doubles as the panel-expanded signal.
func profileSelector(port string) string {
	return fmt.Sprintf("select#%s_profile", port)
}

// ExpandPortPanel opens one port's PTP panel. A visible profile select
// short-circuits the toggle, so repeated expansion is stable.
func (p *PTPConfigPage) ExpandPortPanel(port string) error {
	if !p.Supported() {
		return fmt.Errorf("ptp: %w", ErrNotApplicable)
	}
	if !p.hasPort(port) {
		return fmt.Errorf("%s: %w", port, ErrUnknownInterface)
	}
	profile := p.Page.Locator(profileSelector(port))
	if n, err := profile.Count(); err == nil && n > 0 {
		if visible, err := profile.First().IsVisible(); err == nil && visible {
			return nil
		}
	}
	toggle, container := PanelSelectors(port)
	return p.expandPanel(toggle, container)
}

// ConfigureProfile selects a PTP profile for one port, expanding the panel
// first. Profile switches re-render the panel's dependent fields, so the
// page is settled before returning.
func (p *PTPConfigPage) ConfigureProfile(port, profile string) error {
	if err := p.ExpandPortPanel(port); err != nil {
		return err
	}
	sel := profileSelector(port)
	loc := p.Page.Locator(sel)
	n, err := loc.Count()
	if err != nil {
		return fmt.Errorf("query %s: %w", sel, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", sel, ErrElementMissing)
	}
	if _, err := loc.First().SelectOption(playwright.SelectOptionValues{Values: &[]string{profile}}); err != nil {
		return fmt.Errorf("select profile %q on %s: %w", profile, port, err)
	}
	if err := p.WaitNetworkIdle(DefaultTimeout); err != nil {
		p.log.Debug().Err(err).Msg("networkidle not reached after profile change")
	}
	p.Settle(settleDelay)
	p.log.Info().Str("port", port).Str("profile", profile).Msg("ptp profile configured")
	return nil
}

// PortSettings is one port's requested PTP parameters; nil fields are not
// touched.
type PortSettings struct {
	Profile   *string
	Domain    *string
	Priority1 *string
	Priority2 *string
}

// ConfigurePort applies a port's PTP settings with the same partial-success
// contract as interface configuration: nil error whenever at least one
// requested field was applied.
func (p *PTPConfigPage) ConfigurePort(port string, settings PortSettings) (int, error) {
	if err := p.ExpandPortPanel(port); err != nil {
		return 0, err
	}

	applied, requested := 0, 0
	if settings.Profile != nil {
		requested++
		if err := p.ConfigureProfile(port, *settings.Profile); err != nil {
			p.log.Warn().Err(err).Str("port", port).Msg("profile not applied")
		} else {
			applied++
		}
	}
	tryFill := func(field string, value *string) {
		if value == nil {
			return
		}
		requested++
		sel := fmt.Sprintf("input[name='%s_%s']", field, port)
		if err := p.fill(sel, *value); err != nil {
			p.log.Warn().Err(err).Str("port", port).Str("field", field).Msg("field not applied")
			return
		}
		applied++
	}
	tryFill("domain", settings.Domain)
	tryFill("priority1", settings.Priority1)
	tryFill("priority2", settings.Priority2)

	if requested > 0 && applied == 0 {
		return 0, fmt.Errorf("configure ptp %s: %w", port, ErrAllFieldsFailed)
	}
	return applied, nil
}

// SaveButtonLocator resolves the per-port save control through the
// capability resolver, which knows the PTP context implies panel expansion.
func (p *PTPConfigPage) SaveButtonLocator(port string) playwright.Locator {
	btn := capabilities.GetSaveButton(p.Model, capabilities.ContextPTP, port)
	if p.count(btn.Selector) > 0 {
		return p.Page.Locator(btn.Selector)
	}
	// Some firmware revisions drop the _port_ infix.
	alt := fmt.Sprintf("button[id='button_save_%s']", port)
	if p.count(alt) > 0 {
		return p.Page.Locator(alt)
	}
	return p.Page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "Save"})
}

// SavePort saves one port's PTP configuration under the same optimistic
// verification policy as the network page.
func (p *PTPConfigPage) SavePort(port string) error {
	if err := p.ExpandPortPanel(port); err != nil {
		return err
	}
	save := p.SaveButtonLocator(port)
	n, err := save.Count()
	if err != nil || n == 0 {
		return fmt.Errorf("ptp save button for %s: %w", port, ErrElementMissing)
	}
	if err := save.First().Click(); err != nil {
		return fmt.Errorf("click ptp save for %s: %w", port, err)
	}
	if err := p.WaitNetworkIdle(DefaultTimeout); err != nil {
		p.log.Debug().Err(err).Msg("networkidle not reached after ptp save")
	}
	p.Settle(settleDelay)

	for _, marker := range saveErrorMarkers {
		if p.count(marker) > 0 {
			return fmt.Errorf("marker %s: %w", marker, ErrSaveFailed)
		}
	}
	return nil
}

// DetectPorts scans for rendered profile selects and returns the ports that
// actually have PTP panels, for comparison against the resolved set.
func (p *PTPConfigPage) DetectPorts() ([]string, error) {
	var found []string
	for _, port := range interfaceCandidates {
		n, err := p.Page.Locator(profileSelector(port)).Count()
		if err != nil {
			return nil, fmt.Errorf("scan ptp port %s: %w", port, err)
		}
		if n > 0 {
			found = append(found, port)
		}
	}
	return found, nil
}

// CurrentProfile reads the selected profile on one port.
func (p *PTPConfigPage) CurrentProfile(port string) (string, error) {
	if err := p.ExpandPortPanel(port); err != nil {
		return "", err
	}
	loc := p.Page.Locator(profileSelector(port))
	n, err := loc.Count()
	if err != nil {
		return "", fmt.Errorf("query profile select: %w", err)
	}
	if n == 0 {
		return "", fmt.Errorf("profile select for %s: %w", port, ErrElementMissing)
	}
	value, err := loc.First().InputValue()
	if err != nil {
		return "", fmt.Errorf("read profile on %s: %w", port, err)
	}
	return value, nil
}
