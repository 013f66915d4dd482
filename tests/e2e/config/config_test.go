package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kronos-qa/kronos-e2e/internal/capabilities"
)

func TestCapabilityOverridesFromEnv(t *testing.T) {
	doc := `devices:
  - model: KRONOS-3R-LAB-PROTO
    series: 3
    network_interfaces: [eth0, eth1]
    ptp_interfaces: [eth1]
    max_outputs: 6
`
	path := filepath.Join(t.TempDir(), "capabilities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("DEVICE_CAPABILITIES_FILE", path)

	loadCapabilityOverrides()

	require.True(t, capabilities.Known("KRONOS-3R-LAB-PROTO"))
	assert.Equal(t, capabilities.Series3, capabilities.GetSeries("KRONOS-3R-LAB-PROTO"))
	assert.Equal(t, []string{"eth1"}, capabilities.PTPInterfaces("KRONOS-3R-LAB-PROTO"))
}

func TestCapabilityOverridesRejectedFileLeavesDatabase(t *testing.T) {
	doc := `devices:
  - model: KRONOS-2X-BAD
    series: 2
    network_interfaces: [eth0]
    ptp_interfaces: [eth0]
`
	path := filepath.Join(t.TempDir(), "capabilities.yaml")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	t.Setenv("DEVICE_CAPABILITIES_FILE", path)

	loadCapabilityOverrides()

	assert.False(t, capabilities.Known("KRONOS-2X-BAD"))
}
