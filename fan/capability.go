package fan

// SmartThings capability identifiers relevant to fans.
const (
	CapabilitySwitch                = "switch"
	CapabilityFanSpeed              = "fanSpeed"
	CapabilityAirConditionerFanMode = "airConditionerFanMode"
)

// Classify decides whether a component's reported capabilities qualify it as a
// fan. The switch capability is mandatory, plus at least one of the fan speed
// or fan mode capabilities: a bare switch is indistinguishable from a generic
// switch and is not a fan. On success it returns the capabilities that were
// used, with the optional ones in the order they were encountered; otherwise
// nil.
func Classify(capabilities []string) []string {
	hasSwitch := false
	var optional []string

	for _, capability := range capabilities {
		switch capability {
		case CapabilitySwitch:
			hasSwitch = true
		case CapabilityFanSpeed, CapabilityAirConditionerFanMode:
			optional = append(optional, capability)
		}
	}

	if !hasSwitch || len(optional) == 0 {
		return nil
	}

	return append([]string{CapabilitySwitch}, optional...)
}
