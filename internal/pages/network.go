package pages

import (
	"fmt"
	"sort"
	"time"

	"github.com/playwright-community/playwright-go"

	"github.com/kronos-qa/kronos-e2e/internal/capabilities"
)

// NetworkConfigPage drives the network configuration section. It handles both
// hardware generations: Series 2 exposes a single interface behind a mode
// switch, Series 3 exposes one collapsible panel per interface with PTP on a
// subset of them.
type NetworkConfigPage struct {
	Base

	// Interfaces and PTPInterfaces are the resolved capability view, fixed
	// at construction. Empty when the model is unknown.
	Interfaces    []string
	PTPInterfaces []string
}

// NewNetworkConfigPage binds a browser page and a device model. An empty
// model is allowed; the page object still works against raw locators with
// neutral timeouts, it just cannot make device-aware decisions.
func NewNetworkConfigPage(page playwright.Page, model string) *NetworkConfigPage {
	p := &NetworkConfigPage{
		Base:          newBase(page, model, "network"),
		Interfaces:    capabilities.NetworkInterfaces(model),
		PTPInterfaces: capabilities.PTPInterfaces(model),
	}
	p.log.Debug().
		Stringer("series", p.Series).
		Float64("multiplier", p.Multiplier).
		Strs("interfaces", p.Interfaces).
		Strs("ptp", p.PTPInterfaces).
		Msg("network page bound")
	return p
}

// CapabilitySnapshot is the result of a live DOM scan, as opposed to the
// static capability record the resolver holds.
type CapabilitySnapshot struct {
	Series        capabilities.Series
	HasModeSelect bool
	Interfaces    []string
	PTPCapable    []string
}

// DetectCapabilities discovers which interfaces the rendered page actually
// offers.
//
// Series 2 pages have no panels; the snapshot is the static single-mode
// descriptor, with the mode select's presence verified live. Series 3 pages
// are scanned against the fixed candidate list; the PTP-capable set is the
// intersection of what was found with the resolver's known PTP interfaces.
//
// Anti-flake contract (at most one retry on suspected undercount): a Series 3
// scan that finds one interface or fewer is treated as a possible render
// race, so the page is re-awaited and scanned exactly once more, and the
// second result stands either way.
func (p *NetworkConfigPage) DetectCapabilities() (CapabilitySnapshot, error) {
	snap := CapabilitySnapshot{Series: p.Series}

	switch p.Series {
	case capabilities.Series2:
		snap.Interfaces = []string{"single_mode"}
		modeSel, _ := FieldSelector(FieldMode, "")
		snap.HasModeSelect = p.count(modeSel) > 0
		if !snap.HasModeSelect {
			p.log.Warn().Msg("mode select not found on Series 2 network page")
		}
		return snap, nil

	case capabilities.Series3:
		found, err := p.scanInterfaces()
		if err != nil {
			return snap, err
		}
		if len(found) <= 1 {
			p.log.Info().Int("found", len(found)).
				Msg("suspiciously few interfaces, re-scanning after full load")
			if err := p.WaitForLoad(DefaultTimeout); err != nil {
				p.log.Debug().Err(err).Msg("full load wait failed before re-scan")
			}
			p.Settle(loadSettleDelay)
			if found, err = p.scanInterfaces(); err != nil {
				return snap, err
			}
		}
		sort.Strings(found)
		snap.Interfaces = found

		known := make(map[string]bool, len(p.PTPInterfaces))
		for _, iface := range p.PTPInterfaces {
			known[iface] = true
		}
		for _, iface := range found {
			if known[iface] {
				snap.PTPCapable = append(snap.PTPCapable, iface)
			}
		}
		return snap, nil
	}

	// Unknown series: nothing to scan for, callers skip.
	return snap, nil
}

func (p *NetworkConfigPage) scanInterfaces() ([]string, error) {
	var found []string
	for _, iface := range interfaceCandidates {
		sel, err := FieldSelector(FieldIP, iface)
		if err != nil {
			return nil, err
		}
		n, err := p.Page.Locator(sel).Count()
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", sel, err)
		}
		if n > 0 {
			found = append(found, iface)
		}
	}
	return found, nil
}

// ExpandInterfacePanel opens the collapsible panel for one interface.
// Series 2 has no panels, so the call succeeds as a no-op. Expanding an
// already-open panel succeeds without re-triggering the toggle; the expansion
// state is stable under repeated calls.
func (p *NetworkConfigPage) ExpandInterfacePanel(iface string) error {
	if p.Series != capabilities.Series3 {
		return nil
	}
	if !p.hasInterface(iface) {
		return fmt.Errorf("%s: %w", iface, ErrUnknownInterface)
	}
	toggle, container := PanelSelectors(iface)
	return p.expandPanel(toggle, container)
}

// PanelExpanded reports the current expand state of an interface panel.
func (p *NetworkConfigPage) PanelExpanded(iface string) (bool, error) {
	if p.Series != capabilities.Series3 {
		return false, ErrNotApplicable
	}
	_, container := PanelSelectors(iface)
	return p.panelExpanded(container)
}

// InterfaceConfig is one interface's requested settings; nil fields are not
// touched. Gateway applies to eth0 only.
type InterfaceConfig struct {
	IPAddress *string
	Netmask   *string
	Gateway   *string
}

// ConfigureInterface applies an interface's settings field by field.
//
// Partial success is success: the returned count is how many requested fields
// were applied, and the error is nil whenever at least one was. When every
// requested field fails the error wraps ErrAllFieldsFailed. Series 2 devices
// and unlisted interfaces are rejected outright.
func (p *NetworkConfigPage) ConfigureInterface(iface string, cfg InterfaceConfig) (int, error) {
	if p.Series != capabilities.Series3 {
		return 0, fmt.Errorf("per-interface configuration: %w", ErrNotApplicable)
	}
	if !p.hasInterface(iface) {
		return 0, fmt.Errorf("%s: %w", iface, ErrUnknownInterface)
	}
	if err := p.ExpandInterfacePanel(iface); err != nil {
		return 0, fmt.Errorf("expand panel for %s: %w", iface, err)
	}

	applied, requested := 0, 0
	try := func(kind FieldKind, fieldIface string, value *string) {
		if value == nil {
			return
		}
		requested++
		sel, err := FieldSelector(kind, fieldIface)
		if err != nil {
			p.log.Warn().Err(err).Msg("selector derivation failed")
			return
		}
		if err := p.fill(sel, *value); err != nil {
			p.log.Warn().Err(err).Str("field", kind.String()).Str("interface", iface).
				Msg("field not applied")
			return
		}
		applied++
	}

	try(FieldIP, iface, cfg.IPAddress)
	try(FieldNetmask, iface, cfg.Netmask)
	if iface == "eth0" {
		try(FieldGateway, "", cfg.Gateway)
	} else if cfg.Gateway != nil {
		// Counts as a failed request, not a silent skip: a call asking only
		// for a gateway on eth1 must not report success.
		requested++
		p.log.Warn().Str("interface", iface).Msg("gateway is eth0-only, not applied")
	}

	p.log.Info().Int("applied", applied).Int("requested", requested).
		Str("interface", iface).Msg("interface configuration attempted")

	if requested > 0 && applied == 0 {
		return 0, fmt.Errorf("configure %s: %w", iface, ErrAllFieldsFailed)
	}
	return applied, nil
}

// SetNetworkMode switches the Series 2 network mode select.
func (p *NetworkConfigPage) SetNetworkMode(mode string) error {
	if p.Series != capabilities.Series2 {
		return fmt.Errorf("network mode select: %w", ErrNotApplicable)
	}
	sel, _ := FieldSelector(FieldMode, "")
	loc := p.Page.Locator(sel)
	n, err := loc.Count()
	if err != nil {
		return fmt.Errorf("query %s: %w", sel, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", sel, ErrElementMissing)
	}
	if _, err := loc.First().SelectOption(playwright.SelectOptionValues{Values: &[]string{mode}}); err != nil {
		return fmt.Errorf("select mode %q: %w", mode, err)
	}
	return nil
}

// ConfigureDHCP enables DHCP. On Series 2 this flips the mode select; on
// Series 3 it checks the per-interface DHCP box.
func (p *NetworkConfigPage) ConfigureDHCP(iface string) error {
	if p.Series == capabilities.Series2 {
		return p.SetNetworkMode("dhcp")
	}
	if !p.hasInterface(iface) {
		return fmt.Errorf("%s: %w", iface, ErrUnknownInterface)
	}
	sel, err := FieldSelector(FieldDHCP, iface)
	if err != nil {
		return err
	}
	loc := p.Page.Locator(sel)
	n, err := loc.Count()
	if err != nil {
		return fmt.Errorf("query %s: %w", sel, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", sel, ErrElementMissing)
	}
	checked, err := loc.First().IsChecked()
	if err != nil {
		return fmt.Errorf("read %s: %w", sel, err)
	}
	if !checked {
		if err := loc.First().Click(); err != nil {
			return fmt.Errorf("toggle %s: %w", sel, err)
		}
	}
	return nil
}

// ConfigureStaticIP sets a static address. Series 2 goes through the mode
// switch and the flat ipaddr/ipmask inputs; Series 3 delegates to
// ConfigureInterface, where partial success is success.
func (p *NetworkConfigPage) ConfigureStaticIP(iface, ip, netmask, gateway string) error {
	if p.Series == capabilities.Series2 {
		if err := p.SetNetworkMode("static"); err != nil {
			return err
		}
		sel, _ := FieldSelector(FieldIPAddr, "")
		if err := p.fill(sel, ip); err != nil {
			return err
		}
		sel, _ = FieldSelector(FieldIPMask, "")
		if err := p.fill(sel, netmask); err != nil {
			return err
		}
		if gateway != "" {
			sel, _ = FieldSelector(FieldGateway, "")
			if err := p.fill(sel, gateway); err != nil {
				return err
			}
		}
		return nil
	}

	cfg := InterfaceConfig{IPAddress: &ip, Netmask: &netmask}
	if gateway != "" {
		cfg.Gateway = &gateway
	}
	_, err := p.ConfigureInterface(iface, cfg)
	return err
}

// SaveButtonLocator resolves the save control for this page. The capability
// resolver is consulted first; when its selector matches nothing rendered,
// the series-specific generic controls are tried (Series 3 renders <button>,
// Series 2 <input>), and a role-based lookup on the visible "Save" text is
// the last resort.
func (p *NetworkConfigPage) SaveButtonLocator(iface string) playwright.Locator {
	btn := capabilities.GetSaveButton(p.Model, capabilities.ContextNetwork, iface)
	if p.count(btn.Selector) > 0 {
		p.log.Debug().Str("selector", btn.Selector).Stringer("tier", btn.Tier).
			Msg("save button resolved")
		return p.Page.Locator(btn.Selector)
	}
	if p.Series == capabilities.Series3 {
		if p.count("button#button_save") > 0 {
			return p.Page.Locator("button#button_save")
		}
	}
	if p.count("input#button_save") > 0 {
		return p.Page.Locator("input#button_save")
	}
	p.log.Warn().Msg("save button not found by selector, falling back to role lookup")
	return p.Page.GetByRole(*playwright.AriaRoleButton, playwright.PageGetByRoleOptions{Name: "Save"})
}

// Save markers checked after a save is submitted. The page either writes a
// status into the message input or toggles a Bootstrap alert.
var (
	saveSuccessMarkers = []string{
		"input[name='message'][value*='success']",
		".alert-success",
		"input[name='message'][value*='saved']",
	}
	saveErrorMarkers = []string{
		"input[name='message'][value*='error']",
		".alert-danger",
		"input[name='message'][value*='failed']",
	}
)

// SaveConfig clicks the save control and verifies the outcome under the
// optimistic save verification policy: an explicit success marker reports
// success, an explicit error marker reports ErrSaveFailed, and a page showing
// neither is treated as success. A save that silently failed without posting
// an error marker is therefore reported as saved; tests that need a hard
// guarantee must re-read the configuration afterwards.
func (p *NetworkConfigPage) SaveConfig(iface string) error {
	save := p.SaveButtonLocator(iface)
	n, err := save.Count()
	if err != nil || n == 0 {
		return fmt.Errorf("save button: %w", ErrElementMissing)
	}
	if err := save.First().Click(); err != nil {
		return fmt.Errorf("click save: %w", err)
	}

	if err := p.WaitNetworkIdle(DefaultTimeout); err != nil {
		p.log.Debug().Err(err).Msg("networkidle not reached after save")
	}
	p.Settle(2 * time.Second)

	for _, marker := range saveSuccessMarkers {
		if p.count(marker) > 0 {
			p.log.Info().Str("marker", marker).Msg("save confirmed")
			return nil
		}
	}
	for _, marker := range saveErrorMarkers {
		if p.count(marker) > 0 {
			return fmt.Errorf("marker %s: %w", marker, ErrSaveFailed)
		}
	}
	p.log.Info().Msg("no save markers present, treating as success")
	return nil
}

// NetworkSnapshot is the typed form of the page's current field values.
// Pointer fields are nil when the underlying element was absent or hidden.
type NetworkSnapshot struct {
	Series capabilities.Series
	Model  string

	// Series 2 fields.
	Mode    string
	IPAddr  string
	IPMask  string
	IPAddrB string
	IPMaskB string

	// Series 3 per-interface fields.
	InterfaceAddrs map[string]InterfaceAddr

	Gateway     string
	DHCPEnabled *bool
}

// InterfaceAddr is one Series 3 interface's address pair as rendered.
type InterfaceAddr struct {
	IP      string
	Netmask string
}

// Snapshot reads the page's current values into a NetworkSnapshot. Missing
// fields are skipped, not errors; only driver failures propagate.
func (p *NetworkConfigPage) Snapshot() (NetworkSnapshot, error) {
	snap := NetworkSnapshot{
		Series:         p.Series,
		Model:          p.Model,
		InterfaceAddrs: map[string]InterfaceAddr{},
	}

	readInput := func(selector string) string {
		loc := p.Page.Locator(selector)
		if n, err := loc.Count(); err != nil || n == 0 {
			return ""
		}
		v, err := loc.First().InputValue()
		if err != nil {
			return ""
		}
		return v
	}

	if p.Series == capabilities.Series2 {
		modeSel, _ := FieldSelector(FieldMode, "")
		mode := p.Page.Locator(modeSel)
		if n, err := mode.Count(); err == nil && n > 0 {
			if v, err := mode.First().InputValue(); err == nil {
				snap.Mode = v
			}
		}
		for _, f := range []struct {
			kind FieldKind
			dst  *string
		}{
			{FieldIPAddr, &snap.IPAddr},
			{FieldIPMask, &snap.IPMask},
			{FieldIPAddrB, &snap.IPAddrB},
			{FieldIPMaskB, &snap.IPMaskB},
		} {
			sel, _ := FieldSelector(f.kind, "")
			*f.dst = readInput(sel)
		}
	} else if p.Series == capabilities.Series3 {
		live, err := p.DetectCapabilities()
		if err != nil {
			return snap, err
		}
		for _, iface := range live.Interfaces {
			ipSel, _ := FieldSelector(FieldIP, iface)
			maskSel, _ := FieldSelector(FieldNetmask, iface)
			snap.InterfaceAddrs[iface] = InterfaceAddr{
				IP:      readInput(ipSel),
				Netmask: readInput(maskSel),
			}
		}
	}

	gwSel, _ := FieldSelector(FieldGateway, "")
	snap.Gateway = readInput(gwSel)

	dhcp := p.Page.Locator("input[name='dhcp']")
	if n, err := dhcp.Count(); err == nil && n > 0 {
		if checked, err := dhcp.First().IsChecked(); err == nil {
			snap.DHCPEnabled = &checked
		}
	}

	return snap, nil
}

// ValidateCapabilities compares the static capability record against a live
// scan and returns the list of discrepancies, empty when the database and
// the device agree. It performs no writes.
func (p *NetworkConfigPage) ValidateCapabilities() ([]string, error) {
	if p.Model == "" || p.Series == capabilities.SeriesUnknown {
		return nil, fmt.Errorf("capability validation: %w", ErrNotApplicable)
	}
	live, err := p.DetectCapabilities()
	if err != nil {
		return nil, err
	}
	mismatches := diffCapabilities(p.Interfaces, p.PTPInterfaces, live)
	for _, m := range mismatches {
		p.log.Warn().Str("mismatch", m).Msg("capability validation")
	}
	return mismatches, nil
}

// diffCapabilities is the pure comparison behind ValidateCapabilities.
func diffCapabilities(expectedIfaces, expectedPTP []string, live CapabilitySnapshot) []string {
	var out []string
	if live.Series == capabilities.Series2 {
		if !live.HasModeSelect {
			out = append(out, "mode select missing on Series 2 page")
		}
		return out
	}
	if len(expectedIfaces) != len(live.Interfaces) {
		out = append(out, fmt.Sprintf("interface count: expected %d, detected %d",
			len(expectedIfaces), len(live.Interfaces)))
	}
	livePTP := make(map[string]bool, len(live.PTPCapable))
	for _, iface := range live.PTPCapable {
		livePTP[iface] = true
	}
	for _, iface := range expectedPTP {
		if !livePTP[iface] {
			out = append(out, fmt.Sprintf("PTP interface %s not detected", iface))
		}
	}
	return out
}

// ExpectedConfig is a caller-supplied set of field expectations for
// ValidateConfig; nil fields are not checked.
type ExpectedConfig struct {
	Mode       *string
	Gateway    *string
	Interfaces map[string]InterfaceAddr
}

// ValidateConfig compares expectations against the page's current snapshot
// and returns the mismatches. It performs no writes.
func (p *NetworkConfigPage) ValidateConfig(expected ExpectedConfig) ([]string, error) {
	snap, err := p.Snapshot()
	if err != nil {
		return nil, err
	}
	mismatches := diffConfig(expected, snap)
	for _, m := range mismatches {
		p.log.Warn().Str("mismatch", m).Msg("config validation")
	}
	return mismatches, nil
}

// diffConfig is the pure comparison behind ValidateConfig.
func diffConfig(expected ExpectedConfig, snap NetworkSnapshot) []string {
	var out []string
	if expected.Mode != nil && snap.Mode != *expected.Mode {
		out = append(out, fmt.Sprintf("mode: expected %q, got %q", *expected.Mode, snap.Mode))
	}
	if expected.Gateway != nil && snap.Gateway != *expected.Gateway {
		out = append(out, fmt.Sprintf("gateway: expected %q, got %q", *expected.Gateway, snap.Gateway))
	}
	for iface, want := range expected.Interfaces {
		got, ok := snap.InterfaceAddrs[iface]
		if !ok {
			out = append(out, fmt.Sprintf("%s: not present in snapshot", iface))
			continue
		}
		if want.IP != "" && got.IP != want.IP {
			out = append(out, fmt.Sprintf("%s ip: expected %q, got %q", iface, want.IP, got.IP))
		}
		if want.Netmask != "" && got.Netmask != want.Netmask {
			out = append(out, fmt.Sprintf("%s netmask: expected %q, got %q", iface, want.Netmask, got.Netmask))
		}
	}
	return out
}

// NetworkStatus summarises per-interface state for reporting.
type NetworkStatus struct {
	Series     capabilities.Series
	Interfaces map[string]InterfaceStatus
}

// InterfaceStatus is one interface's reported state.
type InterfaceStatus struct {
	IP         string
	Netmask    string
	Mode       string
	PTPCapable bool
}

// Status assembles a per-interface status view from the current snapshot.
func (p *NetworkConfigPage) Status() (NetworkStatus, error) {
	snap, err := p.Snapshot()
	if err != nil {
		return NetworkStatus{}, err
	}
	status := NetworkStatus{Series: p.Series, Interfaces: map[string]InterfaceStatus{}}

	if p.Series == capabilities.Series2 {
		status.Interfaces["single_mode"] = InterfaceStatus{
			IP:      snap.IPAddr,
			Netmask: snap.IPMask,
			Mode:    snap.Mode,
		}
		return status, nil
	}

	ptp := make(map[string]bool, len(p.PTPInterfaces))
	for _, iface := range p.PTPInterfaces {
		ptp[iface] = true
	}
	for iface, addr := range snap.InterfaceAddrs {
		status.Interfaces[iface] = InterfaceStatus{
			IP:         addr.IP,
			Netmask:    addr.Netmask,
			PTPCapable: ptp[iface],
		}
	}
	return status, nil
}

func (p *NetworkConfigPage) hasInterface(iface string) bool {
	for _, known := range p.Interfaces {
		if known == iface {
			return true
		}
	}
	return false
}
