// Package capabilities is the static knowledge base for the Kronos device
// family. Every page object and test consults it to decide which UI elements,
// interfaces and timeouts apply to the device under test.
//
// Records are looked up by hardware model string and never mutated. A lookup
// for a model that is not catalogued does not fail; it degrades to
// conservative defaults (SeriesUnknown, empty interface lists, multiplier 1.0)
// so that callers skip rather than crash.
package capabilities

// Series identifies the device hardware generation. Series 2 devices expose a
// single network interface with a mode switch; Series 3 devices expose
// multiple independently configurable interfaces with per-interface panels.
type Series int

const (
	SeriesUnknown Series = 0
	Series2       Series = 2
	Series3       Series = 3
)

func (s Series) String() string {
	switch s {
	case Series2:
		return "Series 2"
	case Series3:
		return "Series 3"
	default:
		return "unknown"
	}
}

// Record is the per-model fact sheet. PTPInterfaces must always be a subset
// of NetworkInterfaces and must be empty for Series 2 models; Validate
// enforces both.
//
// A record that omits PTPInterfaces means the capability is not supported on
// that model. Absent and deliberately empty are the same thing here.
type Record struct {
	Model           string `yaml:"model"`
	Series          Series `yaml:"series"`
	SerialNumber    string `yaml:"serial_number,omitempty"`
	FirmwareVersion string `yaml:"firmware_version,omitempty"`

	NetworkInterfaces []string `yaml:"network_interfaces"`
	PTPInterfaces     []string `yaml:"ptp_interfaces,omitempty"`

	MaxOutputs            int      `yaml:"max_outputs"`
	GNSSConstellations    []string `yaml:"gnss_constellations,omitempty"`
	SessionTimeoutMinutes int      `yaml:"session_timeout_minutes,omitempty"`
	HTTPRedirect          bool     `yaml:"http_redirect,omitempty"`

	// KnownIssues is free-form quirk data consulted ad hoc; the timeout
	// multiplier is derived from it (see TimeoutMultiplier).
	KnownIssues []string `yaml:"known_issues,omitempty"`

	// OutputSignalTypes maps an output number to the signal types its
	// dropdown offers.
	OutputSignalTypes map[int][]string `yaml:"output_signal_types,omitempty"`

	// SaveButtonOverrides maps a configuration context (for example
	// "network_configuration") to interface-keyed selector overrides. The
	// reserved interface key "generic" is a context-level override.
	SaveButtonOverrides map[string]map[string]string `yaml:"save_button_overrides,omitempty"`
}

var series2Outputs = map[int][]string{
	1: {"OFF", "IRIG-B120", "IRIG-B122", "IRIG-B124", "IRIG-B126"},
	2: {"OFF", "IRIG-B120", "IRIG-B122", "IRIG-B124", "IRIG-B126"},
	3: {"OFF", "IRIG-B000", "IRIG-B002", "IRIG-B004", "IRIG-B006", "PPS", "PPM"},
	4: {"OFF", "IRIG-B000", "IRIG-B002", "IRIG-B004", "IRIG-B006", "PPS", "PPM"},
}

var series3Outputs = map[int][]string{
	1: {"OFF", "IRIG-B120", "IRIG-B122", "IRIG-B124", "IRIG-B126"},
	2: {"OFF", "IRIG-B120", "IRIG-B122", "IRIG-B124", "IRIG-B126"},
	3: {"OFF", "IRIG-B000", "IRIG-B002", "IRIG-B004", "IRIG-B006", "PPS", "PPM"},
	4: {"OFF", "IRIG-B000", "IRIG-B002", "IRIG-B004", "IRIG-B006", "PPS", "PPM"},
	5: {"OFF", "IRIG-B000", "IRIG-B002", "IRIG-B004", "IRIG-B006", "PPS", "PPM"},
	6: {"OFF", "IRIG-B000", "IRIG-B002", "IRIG-B004", "IRIG-B006", "PPS", "PPM"},
}

// deviceDatabase holds permanent hardware facts gathered from device
// exploration. Fleet additions go here or in a YAML overrides file loaded via
// LoadOverrides.
var deviceDatabase = map[string]Record{
	"KRONOS-2R-HVXX-A2F": {
		Model:                 "KRONOS-2R-HVXX-A2F",
		Series:                Series2,
		SerialNumber:          "20245",
		FirmwareVersion:       "04.04.00",
		NetworkInterfaces:     []string{"eth0"},
		MaxOutputs:            4,
		GNSSConstellations:    []string{"GPS", "Galileo", "GLONASS", "BeiDou"},
		SessionTimeoutMinutes: 30,
		OutputSignalTypes:     series2Outputs,
	},
	"KRONOS-2P-HV-2": {
		Model:                 "KRONOS-2P-HV-2",
		Series:                Series2,
		SerialNumber:          "20216",
		FirmwareVersion:       "04.04.00",
		NetworkInterfaces:     []string{"eth0"},
		MaxOutputs:            4,
		GNSSConstellations:    []string{"GPS", "Galileo", "GLONASS", "BeiDou"},
		SessionTimeoutMinutes: 30,
		KnownIssues: []string{
			"HTTP to HTTPS redirect causes browser compatibility test failures",
		},
		OutputSignalTypes: series2Outputs,
	},
	"KRONOS-3R-HVLV-TCXO-A2F": {
		Model:                 "KRONOS-3R-HVLV-TCXO-A2F",
		Series:                Series3,
		SerialNumber:          "30165",
		FirmwareVersion:       "02.06.04",
		NetworkInterfaces:     []string{"eth0", "eth1", "eth2", "eth3"},
		PTPInterfaces:         []string{"eth1", "eth2", "eth3"},
		MaxOutputs:            6,
		GNSSConstellations:    []string{"GPS", "GLONASS", "Galileo", "BeiDou"},
		SessionTimeoutMinutes: 30,
		KnownIssues: []string{
			"PTP panels collapsed by default",
			"Multi-interface locator ambiguity",
		},
		OutputSignalTypes: series3Outputs,
	},
	"KRONOS-3R-HVXX-TCXO-44A": {
		Model:                 "KRONOS-3R-HVXX-TCXO-44A",
		Series:                Series3,
		SerialNumber:          "30134",
		FirmwareVersion:       "02.06.04",
		NetworkInterfaces:     []string{"eth0", "eth1", "eth3"},
		PTPInterfaces:         []string{"eth1", "eth3"},
		MaxOutputs:            6,
		GNSSConstellations:    []string{"GPS", "Galileo", "GLONASS", "BeiDou"},
		SessionTimeoutMinutes: 30,
		KnownIssues: []string{
			"PTP panels collapsed by default",
			"Multi-interface locator ambiguity",
			"Configuration unlock timeouts (3 errors vs 0-1 on other devices)",
			"Navigation timeout issues",
		},
		OutputSignalTypes: series3Outputs,
	},
	"KRONOS-3R-HVXX-TCXO-A2X": {
		Model:                 "KRONOS-3R-HVXX-TCXO-A2X",
		Series:                Series3,
		SerialNumber:          "30134",
		FirmwareVersion:       "02.06.04",
		NetworkInterfaces:     []string{"eth0", "eth1", "eth2", "eth3", "eth4"},
		PTPInterfaces:         []string{"eth1", "eth3"},
		MaxOutputs:            6,
		GNSSConstellations:    []string{"GPS", "Galileo", "GLONASS", "BeiDou"},
		SessionTimeoutMinutes: 30,
		KnownIssues: []string{
			"PTP panels collapsed by default",
			"Multi-interface locator ambiguity",
			"Configuration unlock timeouts (3 errors vs 0-1 on other devices)",
			"Navigation timeout issues",
		},
		OutputSignalTypes: series3Outputs,
	},
}
