package capabilities

import "fmt"

// The save control differs per series and, on Series 3, per interface.
// Series 2 renders <input id="button_save">; Series 3 renders <button>
// elements, one per interface panel for network and PTP configuration and a
// shared one elsewhere.

// SaveButton describes the save control to use for one configuration action.
type SaveButton struct {
	// Selector is the CSS selector for the control.
	Selector string
	// PanelExpansion is true when the containing panel starts collapsed and
	// must be expanded before the control is clickable.
	PanelExpansion bool
	// Tier records which resolution tier produced the selector, mostly for
	// logging.
	Tier SaveButtonTier
}

// SaveButtonTier is the priority tier a selector was resolved from.
type SaveButtonTier int

const (
	// TierInterfaceOverride is a per-model, per-interface override.
	TierInterfaceOverride SaveButtonTier = iota
	// TierContextOverride is a per-model, per-context override.
	TierContextOverride
	// TierComputedDefault is the interface-derived default pattern.
	TierComputedDefault
	// TierGenericFallback is the last-resort shared control.
	TierGenericFallback
)

func (t SaveButtonTier) String() string {
	switch t {
	case TierInterfaceOverride:
		return "interface override"
	case TierContextOverride:
		return "context override"
	case TierComputedDefault:
		return "computed default"
	default:
		return "generic fallback"
	}
}

// Configuration contexts with interface-scoped save controls on Series 3.
const (
	ContextNetwork = "network_configuration"
	ContextPTP     = "ptp_configuration"
	ContextTime    = "time_configuration"
	ContextOutputs = "outputs_configuration"
	ContextGeneral = "general_configuration"
)

const (
	genericSaveSelector = "button#button_save"
	series2SaveSelector = "input#button_save"
)

// interfaceScoped reports whether a context has one save control per
// interface panel on Series 3 hardware.
func interfaceScoped(context string) bool {
	return context == ContextNetwork || context == ContextPTP
}

// GetSaveButton resolves the save control for a model, configuration context
// and optional interface. Resolution walks a fixed priority order and never
// skips a tier:
//
//  1. per-interface override from the model's record
//  2. context-level override from the model's record
//  3. computed default derived from context and interface
//  4. generic fallback
//
// Unknown models resolve straight through to the generic fallback. The empty
// interface string means "no specific interface".
func GetSaveButton(model, context, iface string) SaveButton {
	rec, known := deviceDatabase[model]

	if known {
		if ctxOverrides, ok := rec.SaveButtonOverrides[context]; ok {
			if iface != "" {
				if sel, ok := ctxOverrides[iface]; ok {
					return SaveButton{Selector: sel, PanelExpansion: context == ContextPTP, Tier: TierInterfaceOverride}
				}
			}
			if sel, ok := ctxOverrides["generic"]; ok {
				return SaveButton{Selector: sel, Tier: TierContextOverride}
			}
		}
	}

	switch GetSeries(model) {
	case Series2:
		// Single interface, one shared input control for every context.
		return SaveButton{Selector: series2SaveSelector, Tier: TierComputedDefault}
	case Series3:
		if interfaceScoped(context) && iface != "" {
			return SaveButton{
				Selector:       fmt.Sprintf("button#button_save_port_%s", iface),
				PanelExpansion: context == ContextPTP,
				Tier:           TierComputedDefault,
			}
		}
		return SaveButton{Selector: genericSaveSelector, Tier: TierComputedDefault}
	}

	return SaveButton{Selector: genericSaveSelector, Tier: TierGenericFallback}
}
