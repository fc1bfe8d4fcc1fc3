package smartthings

import (
	"context"
	"sync"
)

// RootComponent is the reserved component identifier for the device itself.
const RootComponent = "main"

// Device is a cached view of a single SmartThings device. Commands go out
// through the client; the status cache has two writers: optimistic updates
// applied by the command methods and authoritative snapshots from Refresh.
// The last write wins.
type Device struct {
	client       *Client
	deviceID     string
	label        string
	capabilities map[string][]string

	mutex  sync.RWMutex
	status map[string]*ComponentStatus
}

func (d *Device) DeviceID() string {
	return d.deviceID
}

func (d *Device) Label() string {
	return d.label
}

// Components returns the capability identifiers reported per component.
func (d *Device) Components() map[string][]string {
	components := make(map[string][]string, len(d.capabilities))
	for componentID, capabilities := range d.capabilities {
		components[componentID] = append([]string{}, capabilities...)
	}

	return components
}

// GetCapability reports whether any component of the device advertises the
// given capability.
func (d *Device) GetCapability(capability string) bool {
	for _, capabilities := range d.capabilities {
		for _, id := range capabilities {
			if id == capability {
				return true
			}
		}
	}

	return false
}

// Refresh replaces the entire status cache with the authoritative state from
// the cloud, overwriting any optimistic values.
func (d *Device) Refresh(ctx context.Context) error {
	status, err := d.client.getStatus(ctx, d.deviceID)
	if err != nil {
		return err
	}

	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.status = status

	return nil
}

// ComponentStatus returns a snapshot of the cached status of the given
// component. The root component is addressed as RootComponent.
func (d *Device) ComponentStatus(componentID string) ComponentStatus {
	d.mutex.RLock()
	defer d.mutex.RUnlock()

	status, ok := d.status[componentID]
	if !ok {
		return ComponentStatus{}
	}

	snapshot := ComponentStatus{Switch: status.Switch}
	if status.FanSpeed != nil {
		speed := *status.FanSpeed
		snapshot.FanSpeed = &speed
	}
	if status.FanMode != nil {
		mode := *status.FanMode
		snapshot.FanMode = &mode
	}
	if status.SupportedAcFanModes != nil {
		snapshot.SupportedAcFanModes = append([]string{}, status.SupportedAcFanModes...)
	}

	return snapshot
}

func (d *Device) SwitchOn(ctx context.Context, setStatus bool, componentID string) error {
	err := d.client.executeCommand(ctx, d.deviceID, command{
		Component:  componentID,
		Capability: "switch",
		Command:    "on",
	})
	if err != nil {
		return err
	}

	if setStatus {
		d.updateStatus(componentID, func(status *ComponentStatus) {
			status.Switch = true
		})
	}

	return nil
}

func (d *Device) SwitchOff(ctx context.Context, setStatus bool, componentID string) error {
	err := d.client.executeCommand(ctx, d.deviceID, command{
		Component:  componentID,
		Capability: "switch",
		Command:    "off",
	})
	if err != nil {
		return err
	}

	if setStatus {
		d.updateStatus(componentID, func(status *ComponentStatus) {
			status.Switch = false
		})
	}

	return nil
}

func (d *Device) SetFanSpeed(ctx context.Context, speed int, setStatus bool, componentID string) error {
	err := d.client.executeCommand(ctx, d.deviceID, command{
		Component:  componentID,
		Capability: "fanSpeed",
		Command:    "setFanSpeed",
		Arguments:  []interface{}{speed},
	})
	if err != nil {
		return err
	}

	if setStatus {
		d.updateStatus(componentID, func(status *ComponentStatus) {
			value := speed
			status.FanSpeed = &value
			status.Switch = speed > 0
		})
	}

	return nil
}

func (d *Device) SetFanMode(ctx context.Context, mode string, setStatus bool, componentID string) error {
	err := d.client.executeCommand(ctx, d.deviceID, command{
		Component:  componentID,
		Capability: "airConditionerFanMode",
		Command:    "setFanMode",
		Arguments:  []interface{}{mode},
	})
	if err != nil {
		return err
	}

	if setStatus {
		d.updateStatus(componentID, func(status *ComponentStatus) {
			value := mode
			status.FanMode = &value
		})
	}

	return nil
}

func (d *Device) updateStatus(componentID string, update func(*ComponentStatus)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	status, ok := d.status[componentID]
	if !ok {
		status = &ComponentStatus{}
		d.status[componentID] = status
	}

	update(status)
}
