package fan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/victorjacobs/go-smartthings/smartthings"
)

type mockDevice struct {
	mock.Mock
}

func (m *mockDevice) GetCapability(capability string) bool {
	args := m.Called(capability)
	return args.Bool(0)
}

func (m *mockDevice) SwitchOn(ctx context.Context, setStatus bool, componentID string) error {
	args := m.Called(ctx, setStatus, componentID)
	return args.Error(0)
}

func (m *mockDevice) SwitchOff(ctx context.Context, setStatus bool, componentID string) error {
	args := m.Called(ctx, setStatus, componentID)
	return args.Error(0)
}

func (m *mockDevice) SetFanSpeed(ctx context.Context, speed int, setStatus bool, componentID string) error {
	args := m.Called(ctx, speed, setStatus, componentID)
	return args.Error(0)
}

func (m *mockDevice) SetFanMode(ctx context.Context, mode string, setStatus bool, componentID string) error {
	args := m.Called(ctx, mode, setStatus, componentID)
	return args.Error(0)
}

func (m *mockDevice) ComponentStatus(componentID string) smartthings.ComponentStatus {
	args := m.Called(componentID)
	return args.Get(0).(smartthings.ComponentStatus)
}

func newTestFan(device Device, announce func()) *Fan {
	return New(device, smartthings.RootComponent, announce)
}

func TestDetermineFeatures(t *testing.T) {
	t.Run("speed only device", func(t *testing.T) {
		device := &mockDevice{}
		device.On("GetCapability", CapabilityFanSpeed).Return(true)
		device.On("GetCapability", CapabilityAirConditionerFanMode).Return(false)

		f := newTestFan(device, nil)

		assert.Equal(t, FeatureOnOff|FeatureSetSpeed, f.Features())
	})

	t.Run("fan mode device gains preset mode", func(t *testing.T) {
		device := &mockDevice{}
		device.On("GetCapability", CapabilityFanSpeed).Return(false)
		device.On("GetCapability", CapabilityAirConditionerFanMode).Return(true)

		f := newTestFan(device, nil)

		assert.Equal(t, FeatureOnOff|FeatureSetSpeed|FeaturePresetMode, f.Features())
	})

	t.Run("on off and set speed are the baseline regardless of capabilities", func(t *testing.T) {
		device := &mockDevice{}
		device.On("GetCapability", mock.Anything).Return(false)

		f := newTestFan(device, nil)

		assert.Equal(t, FeatureOnOff|FeatureSetSpeed, f.Features())
	})
}

func TestSetPercentage(t *testing.T) {
	t.Run("zero issues an off command", func(t *testing.T) {
		device := &mockDevice{}
		device.On("GetCapability", mock.Anything).Return(false)
		device.On("SwitchOff", mock.Anything, true, "main").Return(nil)

		announced := false
		f := newTestFan(device, func() { announced = true })

		assert.NoError(t, f.SetPercentage(context.Background(), 0))
		assert.True(t, announced)
		device.AssertExpectations(t)
	})

	t.Run("quantizes up to the containing level", func(t *testing.T) {
		device := &mockDevice{}
		device.On("GetCapability", mock.Anything).Return(false)
		device.On("SetFanSpeed", mock.Anything, 2, true, "main").Return(nil)

		f := newTestFan(device, nil)

		assert.NoError(t, f.SetPercentage(context.Background(), 50))
		device.AssertExpectations(t)
	})

	t.Run("one percent still produces the minimum level", func(t *testing.T) {
		device := &mockDevice{}
		device.On("GetCapability", mock.Anything).Return(false)
		device.On("SetFanSpeed", mock.Anything, 1, true, "main").Return(nil)

		f := newTestFan(device, nil)

		assert.NoError(t, f.SetPercentage(context.Background(), 1))
		device.AssertExpectations(t)
	})

	t.Run("command failure propagates and skips announce", func(t *testing.T) {
		device := &mockDevice{}
		device.On("GetCapability", mock.Anything).Return(false)
		device.On("SetFanSpeed", mock.Anything, 3, true, "main").Return(errors.New("device busy"))

		announced := false
		f := newTestFan(device, func() { announced = true })

		assert.Error(t, f.SetPercentage(context.Background(), 100))
		assert.False(t, announced)
	})
}

func TestTurnOn(t *testing.T) {
	t.Run("without percentage issues a plain on command", func(t *testing.T) {
		device := &mockDevice{}
		device.On("GetCapability", mock.Anything).Return(true)
		device.On("SwitchOn", mock.Anything, true, "main").Return(nil)

		f := newTestFan(device, nil)

		assert.NoError(t, f.TurnOn(context.Background(), nil, nil))
		device.AssertExpectations(t)
		device.AssertNotCalled(t, "SetFanSpeed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("with percentage delegates to speed command", func(t *testing.T) {
		device := &mockDevice{}
		device.On("GetCapability", mock.Anything).Return(true)
		device.On("SetFanSpeed", mock.Anything, 3, true, "main").Return(nil)

		percentage := 67
		f := newTestFan(device, nil)

		assert.NoError(t, f.TurnOn(context.Background(), &percentage, nil))
		device.AssertExpectations(t)
	})

	t.Run("without speed control issues only a plain on command", func(t *testing.T) {
		device := &mockDevice{}
		device.On("GetCapability", mock.Anything).Return(false)
		device.On("SwitchOn", mock.Anything, true, "main").Return(nil)

		f := newTestFan(device, nil)
		f.features = FeatureOnOff

		percentage := 100
		assert.NoError(t, f.TurnOn(context.Background(), &percentage, nil))
		device.AssertExpectations(t)
		device.AssertNotCalled(t, "SetFanSpeed", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("does not apply the preset mode argument", func(t *testing.T) {
		device := &mockDevice{}
		device.On("GetCapability", mock.Anything).Return(true)
		device.On("SwitchOn", mock.Anything, true, "main").Return(nil)

		mode := "auto"
		f := newTestFan(device, nil)

		assert.NoError(t, f.TurnOn(context.Background(), nil, &mode))
		device.AssertNotCalled(t, "SetFanMode", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestTurnOff(t *testing.T) {
	device := &mockDevice{}
	device.On("GetCapability", mock.Anything).Return(true)
	device.On("SwitchOff", mock.Anything, true, "main").Return(nil)

	announced := false
	f := newTestFan(device, func() { announced = true })

	assert.NoError(t, f.TurnOff(context.Background()))
	assert.True(t, announced)
	device.AssertExpectations(t)
}

func TestSetPresetMode(t *testing.T) {
	device := &mockDevice{}
	device.On("GetCapability", mock.Anything).Return(true)
	device.On("SetFanMode", mock.Anything, "smart", true, "main").Return(nil)

	announced := false
	f := newTestFan(device, func() { announced = true })

	assert.NoError(t, f.SetPresetMode(context.Background(), "smart"))
	assert.True(t, announced)
	device.AssertExpectations(t)
}

func TestReadBack(t *testing.T) {
	t.Run("reports status for its own component", func(t *testing.T) {
		speed := 2
		mode := "auto"

		device := &mockDevice{}
		device.On("GetCapability", mock.Anything).Return(true)
		device.On("ComponentStatus", "fan").Return(smartthings.ComponentStatus{
			Switch:              true,
			FanSpeed:            &speed,
			FanMode:             &mode,
			SupportedAcFanModes: []string{"auto", "smart"},
		})

		f := New(device, "fan", nil)

		assert.True(t, f.IsOn())
		assert.Equal(t, 66, *f.Percentage())
		assert.Equal(t, "auto", *f.PresetMode())
		assert.Equal(t, []string{"auto", "smart"}, f.PresetModes())
	})

	t.Run("unknown speed reads back as absent", func(t *testing.T) {
		device := &mockDevice{}
		device.On("GetCapability", mock.Anything).Return(true)
		device.On("ComponentStatus", "main").Return(smartthings.ComponentStatus{})

		f := newTestFan(device, nil)

		assert.False(t, f.IsOn())
		assert.Nil(t, f.Percentage())
		assert.Nil(t, f.PresetMode())
		assert.Nil(t, f.PresetModes())
	})
}

func TestSpeedCount(t *testing.T) {
	device := &mockDevice{}
	device.On("GetCapability", mock.Anything).Return(true)

	f := newTestFan(device, nil)

	assert.Equal(t, 3, f.SpeedCount())
}
