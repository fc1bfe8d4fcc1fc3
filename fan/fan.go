package fan

import (
	"context"
	"math"

	"github.com/victorjacobs/go-smartthings/smartthings"
)

// Feature flags describe the control surface a fan exposes.
type Feature uint8

const (
	FeatureOnOff Feature = 1 << iota
	FeatureSetSpeed
	FeaturePresetMode
)

// Device is the slice of a SmartThings device the fan adapter drives.
// Implemented by *smartthings.Device.
type Device interface {
	GetCapability(capability string) bool
	SwitchOn(ctx context.Context, setStatus bool, componentID string) error
	SwitchOff(ctx context.Context, setStatus bool, componentID string) error
	SetFanSpeed(ctx context.Context, speed int, setStatus bool, componentID string) error
	SetFanMode(ctx context.Context, mode string, setStatus bool, componentID string) error
	ComponentStatus(componentID string) smartthings.ComponentStatus
}

// Fan adapts one device component to an on/off, percentage and preset mode
// control surface. Commands update the device's cached status optimistically;
// the periodic status refresh later overwrites the cache with the
// authoritative answer. announce is invoked after every successful command so
// the new state is visible immediately, ahead of that confirmation.
type Fan struct {
	device     Device
	component  string
	features   Feature
	speedRange SpeedRange
	announce   func()
}

func New(device Device, component string, announce func()) *Fan {
	f := &Fan{
		device:     device,
		component:  component,
		speedRange: defaultSpeedRange,
		announce:   announce,
	}
	f.features = f.determineFeatures()

	return f
}

var capabilityFeatures = map[string]Feature{
	CapabilityFanSpeed:              FeatureSetSpeed,
	CapabilityAirConditionerFanMode: FeaturePresetMode,
}

// Feature flags are derived once from the reported capabilities and frozen for
// the lifetime of the adapter. On/off and speed control are the baseline every
// fan gets, so asserting FeatureSetSpeed for the fanSpeed capability is
// idempotent.
func (f *Fan) determineFeatures() Feature {
	flags := FeatureOnOff | FeatureSetSpeed

	for capability, feature := range capabilityFeatures {
		if f.device.GetCapability(capability) {
			flags |= feature
		}
	}

	return flags
}

func (f *Fan) Features() Feature {
	return f.features
}

func (f *Fan) Component() string {
	return f.component
}

// SpeedCount returns the number of distinct non-zero speeds the fan supports.
func (f *Fan) SpeedCount() int {
	return f.speedRange.states()
}

// SetPercentage sets the fan speed as a percentage, 0 turning it off.
func (f *Fan) SetPercentage(ctx context.Context, percentage int) error {
	return f.setPercentage(ctx, &percentage)
}

func (f *Fan) setPercentage(ctx context.Context, percentage *int) error {
	switch {
	case percentage == nil:
		if err := f.device.SwitchOn(ctx, true, f.component); err != nil {
			return err
		}
	case *percentage == 0:
		if err := f.device.SwitchOff(ctx, true, f.component); err != nil {
			return err
		}
	default:
		// Round up so a non-zero percentage never quantizes down to level 0.
		value := int(math.Ceil(percentageToRangedValue(f.speedRange, *percentage)))
		if err := f.device.SetFanSpeed(ctx, value, true, f.component); err != nil {
			return err
		}
	}

	f.announceStateChanged()

	return nil
}

// TurnOn turns the fan on, at the given percentage when one is given and the
// fan supports speed control. The preset mode is accepted per the platform
// contract but not applied; use SetPresetMode.
func (f *Fan) TurnOn(ctx context.Context, percentage *int, presetMode *string) error {
	if f.features&FeatureSetSpeed != 0 {
		return f.setPercentage(ctx, percentage)
	}

	if err := f.device.SwitchOn(ctx, true, f.component); err != nil {
		return err
	}

	f.announceStateChanged()

	return nil
}

func (f *Fan) TurnOff(ctx context.Context) error {
	if err := f.device.SwitchOff(ctx, true, f.component); err != nil {
		return err
	}

	f.announceStateChanged()

	return nil
}

// SetPresetMode sets the fan's preset mode. The mode is not validated against
// the advertised list; an unsupported mode is rejected by the cloud.
func (f *Fan) SetPresetMode(ctx context.Context, presetMode string) error {
	if err := f.device.SetFanMode(ctx, presetMode, true, f.component); err != nil {
		return err
	}

	f.announceStateChanged()

	return nil
}

func (f *Fan) IsOn() bool {
	return f.device.ComponentStatus(f.component).Switch
}

// Percentage returns the current speed as a percentage, nil when the speed is
// unknown.
func (f *Fan) Percentage() *int {
	status := f.device.ComponentStatus(f.component)
	if status.FanSpeed == nil {
		return nil
	}

	percentage := rangedValueToPercentage(f.speedRange, *status.FanSpeed)

	return &percentage
}

func (f *Fan) PresetMode() *string {
	return f.device.ComponentStatus(f.component).FanMode
}

func (f *Fan) PresetModes() []string {
	return f.device.ComponentStatus(f.component).SupportedAcFanModes
}

func (f *Fan) announceStateChanged() {
	if f.announce != nil {
		f.announce()
	}
}
