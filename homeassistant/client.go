package homeassistant

import (
	"encoding/json"
	"fmt"
	"strings"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/victorjacobs/go-smartthings/config"
)

type Client struct {
	mqtt mqtt.Client
}

func NewClient(mqtt mqtt.Client) *Client {
	return &Client{
		mqtt: mqtt,
	}
}

// TopicsForFan returns the topic set for a fan with the given unique id.
func TopicsForFan(uniqueId string) FanTopics {
	return FanTopics{
		State:             fmt.Sprintf("%v/fan/%v/state", config.TopicPrefix, uniqueId),
		Command:           fmt.Sprintf("%v/fan/%v/cmd", config.TopicPrefix, uniqueId),
		PercentageState:   fmt.Sprintf("%v/fan/%v/percentage/state", config.TopicPrefix, uniqueId),
		PercentageCommand: fmt.Sprintf("%v/fan/%v/percentage/cmd", config.TopicPrefix, uniqueId),
		PresetModeState:   fmt.Sprintf("%v/fan/%v/preset/state", config.TopicPrefix, uniqueId),
		PresetModeCommand: fmt.Sprintf("%v/fan/%v/preset/cmd", config.TopicPrefix, uniqueId),
	}
}

// RegisterFan publishes a Home Assistant MQTT discovery configuration for a
// fan. Preset mode topics are only included when presetModes is non-empty.
func (h *Client) RegisterFan(uniqueId string, name string, presetModes []string) (FanTopics, error) {
	topics := TopicsForFan(uniqueId)

	configuration := fanConfiguration{
		UniqueId:               uniqueId,
		Name:                   name,
		StateTopic:             topics.State,
		CommandTopic:           topics.Command,
		PercentageStateTopic:   topics.PercentageState,
		PercentageCommandTopic: topics.PercentageCommand,
	}

	if len(presetModes) != 0 {
		configuration.PresetModeStateTopic = topics.PresetModeState
		configuration.PresetModeCommandTopic = topics.PresetModeCommand
		configuration.PresetModes = presetModes
	}

	marshaled, _ := json.Marshal(configuration)

	configTopic := fmt.Sprintf("%v/fan/%v/config", config.HomeAssistantPrefix, uniqueId)

	if t := h.mqtt.Publish(configTopic, 0, true, marshaled); t.Wait() && t.Error() != nil {
		return FanTopics{}, t.Error()
	}

	return topics, nil
}

// UniqueId derives an MQTT-safe identifier from a device label and component.
func UniqueId(label string, component string) string {
	slug := strings.Replace(strings.ToLower(strings.TrimSpace(label)), " ", "_", -1)

	return fmt.Sprintf("%v_%v", slug, component)
}
