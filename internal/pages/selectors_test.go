package pages

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldSelectorInterfaceScoped(t *testing.T) {
	tests := []struct {
		kind  FieldKind
		iface string
		want  string
	}{
		{FieldIP, "eth0", "input[name='ip_eth0']"},
		{FieldIP, "eth4", "input[name='ip_eth4']"},
		{FieldNetmask, "eth1", "input[name='mask_eth1']"},
		{FieldDHCP, "eth2", "input[name='dhcp_eth2']"},
		{FieldVLANID, "eth3", "input[name='vlan_id_eth3']"},
		{FieldMTU, "eth0", "input[name='mtu_eth0']"},
		{FieldNTP, "eth1", "input[name='ntp_eth1']"},
	}
	for _, tt := range tests {
		got, err := FieldSelector(tt.kind, tt.iface)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFieldSelectorGlobal(t *testing.T) {
	tests := []struct {
		kind FieldKind
		want string
	}{
		{FieldGateway, "input[name='gateway']"},
		{FieldMode, "select[name='mode']"},
		{FieldIPAddr, "input[name='ipaddr']"},
		{FieldIPMask, "input[name='ipmask']"},
		{FieldIPAddrB, "input[name='ipaddrB']"},
		{FieldIPMaskB, "input[name='ipmaskB']"},
	}
	for _, tt := range tests {
		got, err := FieldSelector(tt.kind, "")
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestFieldSelectorRejectsMissingInterface(t *testing.T) {
	for _, kind := range []FieldKind{FieldIP, FieldNetmask, FieldDHCP, FieldVLANID, FieldMTU, FieldNTP} {
		_, err := FieldSelector(kind, "")
		assert.Error(t, err, "kind %s should require an interface", kind)
	}
}

func TestFieldSelectorRejectsUnexpectedInterface(t *testing.T) {
	for _, kind := range []FieldKind{FieldGateway, FieldMode, FieldIPAddr} {
		_, err := FieldSelector(kind, "eth0")
		assert.Error(t, err, "kind %s should reject an interface", kind)
	}
}

func TestPanelSelectors(t *testing.T) {
	toggle, container := PanelSelectors("eth1")
	assert.Equal(t, "a[href='#eth1_collapse']", toggle)
	assert.Equal(t, "#eth1_collapse", container)
}

func TestClassIndicatesExpanded(t *testing.T) {
	tests := []struct {
		class string
		want  bool
	}{
		{"panel-collapse collapse in", true},
		{"collapse show", true},
		{"collapse showing", true},
		{"panel-collapse collapse", false},
		{"", false},
		// Substrings of the tokens must not match.
		{"collapse showing-area", false},
		{"margin-thin", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, classIndicatesExpanded(tt.class), "class %q", tt.class)
	}
}
