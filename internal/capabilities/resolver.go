package capabilities

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Lookup returns the record for a model and whether it is catalogued.
func Lookup(model string) (Record, bool) {
	rec, ok := deviceDatabase[model]
	return rec, ok
}

// Known reports whether a model is in the database.
func Known(model string) bool {
	_, ok := deviceDatabase[model]
	return ok
}

// ModelBySerial resolves a model from its serial number. Serial numbers are
// unique across the database; a match is exact, not prefix-based.
func ModelBySerial(serial string) (string, bool) {
	for model, rec := range deviceDatabase {
		if rec.SerialNumber != "" && rec.SerialNumber == serial {
			return model, true
		}
	}
	return "", false
}

// Models returns every catalogued hardware model, sorted.
func Models() []string {
	out := make([]string, 0, len(deviceDatabase))
	for m := range deviceDatabase {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// GetSeries returns the hardware series for a model, or SeriesUnknown when
// the model is not catalogued. Callers gate tests on the result and skip when
// it is SeriesUnknown.
func GetSeries(model string) Series {
	rec, ok := deviceDatabase[model]
	if !ok {
		return SeriesUnknown
	}
	return rec.Series
}

// NetworkInterfaces returns the ordered interface list for a model. Unknown
// models get an empty list.
func NetworkInterfaces(model string) []string {
	rec, ok := deviceDatabase[model]
	if !ok {
		return nil
	}
	out := make([]string, len(rec.NetworkInterfaces))
	copy(out, rec.NetworkInterfaces)
	return out
}

// PTPInterfaces returns the PTP-capable subset of a model's interfaces.
// Series 2 models and unknown models get an empty list. A catalogued model
// with no PTP entry does not support PTP; there is no "not yet catalogued,
// assume supported" path.
func PTPInterfaces(model string) []string {
	rec, ok := deviceDatabase[model]
	if !ok || rec.Series == Series2 {
		return nil
	}
	out := make([]string, len(rec.PTPInterfaces))
	copy(out, rec.PTPInterfaces)
	return out
}

// PTPSupported reports whether any interface on the model carries PTP.
func PTPSupported(model string) bool {
	return len(PTPInterfaces(model)) > 0
}

// TimeoutMultiplier derives the per-device wait scale factor from the model's
// known issues. The first matching issue wins: timeout or navigation trouble
// doubles every wait, PTP or multi-interface complexity adds half again.
// Unknown models and models without relevant issues stay at 1.0.
func TimeoutMultiplier(model string) float64 {
	rec, ok := deviceDatabase[model]
	if !ok {
		return 1.0
	}
	for _, issue := range rec.KnownIssues {
		lower := strings.ToLower(issue)
		switch {
		case strings.Contains(lower, "timeout") || strings.Contains(lower, "navigation"):
			return 2.0
		case strings.Contains(lower, "ptp") || strings.Contains(lower, "multi-interface"):
			return 1.5
		}
	}
	return 1.0
}

// ScaleTimeout applies the model's multiplier to a base duration, truncated
// to whole milliseconds.
func ScaleTimeout(model string, base time.Duration) time.Duration {
	ms := int64(float64(base.Milliseconds()) * TimeoutMultiplier(model))
	return time.Duration(ms) * time.Millisecond
}

// KnownIssues returns the quirk list for a model.
func KnownIssues(model string) []string {
	rec, ok := deviceDatabase[model]
	if !ok {
		return nil
	}
	return rec.KnownIssues
}

// MaxOutputs returns the number of configurable signal outputs, 0 when the
// model is unknown.
func MaxOutputs(model string) int {
	return deviceDatabase[model].MaxOutputs
}

// OutputSignalTypes returns the signal types offered by one output's
// dropdown.
func OutputSignalTypes(model string, output int) []string {
	rec, ok := deviceDatabase[model]
	if !ok {
		return nil
	}
	return rec.OutputSignalTypes[output]
}

// GNSSConstellations returns the constellations the model's receiver tracks.
func GNSSConstellations(model string) []string {
	return deviceDatabase[model].GNSSConstellations
}

// SessionTimeout returns the web session idle timeout, defaulting to 30
// minutes for unknown models.
func SessionTimeout(model string) time.Duration {
	rec, ok := deviceDatabase[model]
	if !ok || rec.SessionTimeoutMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(rec.SessionTimeoutMinutes) * time.Minute
}

// AvailableSections lists the configuration menu sections a model's UI
// exposes. Unknown models fall back to the Series 2 set, the smaller of the
// two.
func AvailableSections(model string) []string {
	base := []string{
		"general", "network", "time", "gnss", "outputs",
		"display", "access", "snmp", "syslog",
	}
	if GetSeries(model) == Series3 {
		return append(base, "upload", "ptp")
	}
	return base
}

// Validate checks store integrity for one record: the series partition and
// the PTP subset invariant.
func (r Record) Validate() error {
	if r.Series != Series2 && r.Series != Series3 {
		return fmt.Errorf("model %s: series must be 2 or 3, got %d", r.Model, r.Series)
	}
	if r.Series == Series2 && len(r.PTPInterfaces) > 0 {
		return fmt.Errorf("model %s: Series 2 records must not list PTP interfaces", r.Model)
	}
	known := make(map[string]bool, len(r.NetworkInterfaces))
	for _, iface := range r.NetworkInterfaces {
		known[iface] = true
	}
	for _, iface := range r.PTPInterfaces {
		if !known[iface] {
			return fmt.Errorf("model %s: PTP interface %s is not a network interface", r.Model, iface)
		}
	}
	return nil
}

// ValidateAll runs Validate over every catalogued record.
func ValidateAll() error {
	for _, model := range Models() {
		if err := deviceDatabase[model].Validate(); err != nil {
			return err
		}
	}
	return nil
}
