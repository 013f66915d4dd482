package capabilities

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// overridesFile is the on-disk shape of a capability overrides document: a
// list of records keyed the same way as the built-in database.
type overridesFile struct {
	Devices []Record `yaml:"devices"`
}

// LoadOverrides merges capability records from a YAML file into the database.
// New models are added; existing models are replaced wholesale. Every loaded
// record must pass Validate, and a failed load leaves the database untouched.
//
// This is how lab fleets register hardware that the built-in database does
// not yet know about without patching the suite.
func LoadOverrides(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read capability overrides: %w", err)
	}
	return mergeOverrides(data)
}

func mergeOverrides(data []byte) (int, error) {
	var doc overridesFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return 0, fmt.Errorf("parse capability overrides: %w", err)
	}
	for _, rec := range doc.Devices {
		if rec.Model == "" {
			return 0, fmt.Errorf("capability override without a model name")
		}
		if err := rec.Validate(); err != nil {
			return 0, fmt.Errorf("capability override rejected: %w", err)
		}
	}
	for _, rec := range doc.Devices {
		deviceDatabase[rec.Model] = rec
	}
	return len(doc.Devices), nil
}
