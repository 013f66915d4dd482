package capabilities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreIntegrity(t *testing.T) {
	require.NoError(t, ValidateAll())

	for _, model := range Models() {
		net := NetworkInterfaces(model)
		ptp := PTPInterfaces(model)

		known := make(map[string]bool)
		for _, iface := range net {
			known[iface] = true
		}
		for _, iface := range ptp {
			assert.True(t, known[iface],
				"%s: PTP interface %s missing from network interfaces", model, iface)
		}

		series := GetSeries(model)
		assert.Contains(t, []Series{Series2, Series3}, series, model)
		if series == Series2 {
			assert.Empty(t, ptp, "%s: Series 2 must not report PTP interfaces", model)
		}
		assert.NotEmpty(t, net, "%s: every catalogued model has interfaces", model)
		assert.Greater(t, TimeoutMultiplier(model), 0.0, model)
	}
}

func TestGetSeries(t *testing.T) {
	assert.Equal(t, Series2, GetSeries("KRONOS-2R-HVXX-A2F"))
	assert.Equal(t, Series3, GetSeries("KRONOS-3R-HVXX-TCXO-A2X"))
	assert.Equal(t, SeriesUnknown, GetSeries("FOO-999"))
	assert.Equal(t, SeriesUnknown, GetSeries(""))
}

func TestSeriesString(t *testing.T) {
	assert.Equal(t, "Series 2", Series2.String())
	assert.Equal(t, "Series 3", Series3.String())
	assert.Equal(t, "unknown", SeriesUnknown.String())
}

func TestNetworkInterfaces(t *testing.T) {
	assert.Equal(t, []string{"eth0"}, NetworkInterfaces("KRONOS-2R-HVXX-A2F"))
	assert.Equal(t,
		[]string{"eth0", "eth1", "eth2", "eth3", "eth4"},
		NetworkInterfaces("KRONOS-3R-HVXX-TCXO-A2X"))
	assert.Empty(t, NetworkInterfaces("FOO-999"))
}

func TestPTPInterfaces(t *testing.T) {
	assert.Empty(t, PTPInterfaces("KRONOS-2R-HVXX-A2F"),
		"PTP is a Series 3 capability")
	assert.Empty(t, PTPInterfaces("KRONOS-2P-HV-2"))
	assert.Equal(t, []string{"eth1", "eth2", "eth3"}, PTPInterfaces("KRONOS-3R-HVLV-TCXO-A2F"))
	assert.Equal(t, []string{"eth1", "eth3"}, PTPInterfaces("KRONOS-3R-HVXX-TCXO-44A"))
	assert.Empty(t, PTPInterfaces("FOO-999"))

	assert.False(t, PTPSupported("KRONOS-2P-HV-2"))
	assert.True(t, PTPSupported("KRONOS-3R-HVLV-TCXO-A2F"))
}

func TestTimeoutMultiplier(t *testing.T) {
	tests := []struct {
		model string
		want  float64
	}{
		// no known issues
		{"KRONOS-2R-HVXX-A2F", 1.0},
		// redirect quirk mentions neither timeouts nor PTP
		{"KRONOS-2P-HV-2", 1.0},
		// first matching issue wins: "PTP panels collapsed by default"
		// precedes the navigation timeout entries on every Series 3 model
		{"KRONOS-3R-HVLV-TCXO-A2F", 1.5},
		{"KRONOS-3R-HVXX-TCXO-44A", 1.5},
		{"KRONOS-3R-HVXX-TCXO-A2X", 1.5},
		// unknown models degrade to the neutral multiplier
		{"FOO-999", 1.0},
		{"", 1.0},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, TimeoutMultiplier(tc.model), tc.model)
	}
}

func TestScaleTimeout(t *testing.T) {
	assert.Equal(t, 10*time.Second, ScaleTimeout("FOO-999", 10*time.Second))
	assert.Equal(t, 15*time.Second, ScaleTimeout("KRONOS-3R-HVXX-TCXO-A2X", 10*time.Second))
	// truncated to whole milliseconds
	assert.Equal(t, time.Millisecond, ScaleTimeout("KRONOS-3R-HVXX-TCXO-A2X", time.Millisecond))
}

func TestAvailableSections(t *testing.T) {
	s2 := AvailableSections("KRONOS-2P-HV-2")
	assert.NotContains(t, s2, "ptp")
	assert.NotContains(t, s2, "upload")
	assert.Contains(t, s2, "network")

	s3 := AvailableSections("KRONOS-3R-HVLV-TCXO-A2F")
	assert.Contains(t, s3, "ptp")
	assert.Contains(t, s3, "upload")

	// unknown models fall back to the smaller Series 2 set
	assert.Equal(t, s2, AvailableSections("FOO-999"))
}

func TestOutputSignalTypes(t *testing.T) {
	assert.Equal(t, 4, MaxOutputs("KRONOS-2R-HVXX-A2F"))
	assert.Equal(t, 6, MaxOutputs("KRONOS-3R-HVLV-TCXO-A2F"))
	assert.Zero(t, MaxOutputs("FOO-999"))

	// outputs 1-2 offer the IRIG-B12x family, 3+ the IRIG-B00x family plus
	// pulse rates
	assert.Contains(t, OutputSignalTypes("KRONOS-2R-HVXX-A2F", 1), "IRIG-B120")
	assert.NotContains(t, OutputSignalTypes("KRONOS-2R-HVXX-A2F", 1), "PPS")
	assert.Contains(t, OutputSignalTypes("KRONOS-2R-HVXX-A2F", 3), "PPS")
	assert.Contains(t, OutputSignalTypes("KRONOS-3R-HVLV-TCXO-A2F", 6), "PPM")
	assert.Nil(t, OutputSignalTypes("FOO-999", 1))
}

func TestSessionTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Minute, SessionTimeout("KRONOS-2P-HV-2"))
	assert.Equal(t, 30*time.Minute, SessionTimeout("FOO-999"))
}

func TestLookupDoesNotMutateStore(t *testing.T) {
	ifaces := NetworkInterfaces("KRONOS-3R-HVLV-TCXO-A2F")
	ifaces[0] = "tampered"
	assert.Equal(t, "eth0", NetworkInterfaces("KRONOS-3R-HVLV-TCXO-A2F")[0])

	ptp := PTPInterfaces("KRONOS-3R-HVLV-TCXO-A2F")
	ptp[0] = "tampered"
	assert.Equal(t, "eth1", PTPInterfaces("KRONOS-3R-HVLV-TCXO-A2F")[0])
}
