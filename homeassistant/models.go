package homeassistant

// FanTopics holds the MQTT topics a registered fan publishes state on and
// receives commands on.
type FanTopics struct {
	State             string
	Command           string
	PercentageState   string
	PercentageCommand string
	PresetModeState   string
	PresetModeCommand string
}

type fanConfiguration struct {
	UniqueId               string   `json:"unique_id"`
	Name                   string   `json:"name"`
	StateTopic             string   `json:"state_topic"`
	CommandTopic           string   `json:"command_topic"`
	PercentageStateTopic   string   `json:"percentage_state_topic"`
	PercentageCommandTopic string   `json:"percentage_command_topic"`
	PresetModeStateTopic   string   `json:"preset_mode_state_topic,omitempty"`
	PresetModeCommandTopic string   `json:"preset_mode_command_topic,omitempty"`
	PresetModes            []string `json:"preset_modes,omitempty"`
}
