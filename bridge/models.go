package bridge

import (
	"github.com/victorjacobs/go-smartthings/fan"
	"github.com/victorjacobs/go-smartthings/homeassistant"
	"github.com/victorjacobs/go-smartthings/smartthings"
)

type registeredFan struct {
	fan      *fan.Fan
	device   *smartthings.Device
	uniqueId string
	topics   homeassistant.FanTopics

	// last published payloads, for change suppression
	lastState      string
	lastPercentage string
	lastPresetMode string
}

// FanState is the externally visible state of one registered fan.
type FanState struct {
	Device     string  `json:"device"`
	Component  string  `json:"component"`
	On         bool    `json:"on"`
	Percentage *int    `json:"percentage,omitempty"`
	PresetMode *string `json:"preset_mode,omitempty"`
}
