package pages

import "fmt"

// FieldKind enumerates the form fields the network page objects touch.
// Selectors are derived from (kind, interface) by FieldSelector instead of
// ad-hoc string formatting, so a kind/interface combination that cannot exist
// on any device is an error rather than a selector that silently matches
// nothing.
type FieldKind int

const (
	// Series 3 per-interface fields.
	FieldIP FieldKind = iota
	FieldNetmask
	FieldDHCP
	FieldVLANID
	FieldMTU
	FieldNTP

	// Global fields. The gateway is configured on eth0 only but the input
	// itself is not interface-suffixed.
	FieldGateway

	// Series 2 fields: one interface, mode switch plus flat inputs.
	FieldMode
	FieldIPAddr
	FieldIPMask
	FieldIPAddrB
	FieldIPMaskB
)

func (k FieldKind) String() string {
	switch k {
	case FieldIP:
		return "ip"
	case FieldNetmask:
		return "mask"
	case FieldDHCP:
		return "dhcp"
	case FieldVLANID:
		return "vlan_id"
	case FieldMTU:
		return "mtu"
	case FieldNTP:
		return "ntp"
	case FieldGateway:
		return "gateway"
	case FieldMode:
		return "mode"
	case FieldIPAddr:
		return "ipaddr"
	case FieldIPMask:
		return "ipmask"
	case FieldIPAddrB:
		return "ipaddrB"
	case FieldIPMaskB:
		return "ipmaskB"
	default:
		return "unknown"
	}
}

// interfaceScopedField reports whether the kind is suffixed with an interface
// name in the DOM (Series 3 form convention, e.g. input[name='ip_eth1']).
func interfaceScopedField(k FieldKind) bool {
	switch k {
	case FieldIP, FieldNetmask, FieldDHCP, FieldVLANID, FieldMTU, FieldNTP:
		return true
	}
	return false
}

// FieldSelector derives the CSS selector for a form field. Interface-scoped
// kinds require an interface name; all other kinds reject one.
func FieldSelector(k FieldKind, iface string) (string, error) {
	if interfaceScopedField(k) {
		if iface == "" {
			return "", fmt.Errorf("field %s requires an interface", k)
		}
		return fmt.Sprintf("input[name='%s_%s']", k, iface), nil
	}
	if iface != "" {
		return "", fmt.Errorf("field %s is not interface-scoped", k)
	}
	if k == FieldMode {
		return "select[name='mode']", nil
	}
	return fmt.Sprintf("input[name='%s']", k), nil
}

// PanelSelectors returns the collapse-toggle anchor and collapse container
// selectors for one Series 3 interface panel.
func PanelSelectors(iface string) (toggle, container string) {
	return fmt.Sprintf("a[href='#%s_collapse']", iface), fmt.Sprintf("#%s_collapse", iface)
}

// interfaceCandidates is the fixed list of interface names a Series 3 device
// can expose; live detection scans exactly these.
var interfaceCandidates = []string{"eth0", "eth1", "eth2", "eth3", "eth4"}
