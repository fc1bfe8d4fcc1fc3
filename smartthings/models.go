package smartthings

import "encoding/json"

// ComponentStatus is a snapshot of the cached state of a single device
// component. Pointer fields are nil when the cloud has never reported the
// corresponding attribute.
type ComponentStatus struct {
	Switch              bool
	FanSpeed            *int
	FanMode             *string
	SupportedAcFanModes []string
}

type deviceListResponse struct {
	Items []struct {
		DeviceID   string `json:"deviceId"`
		Label      string `json:"label"`
		Components []struct {
			ID           string `json:"id"`
			Capabilities []struct {
				ID string `json:"id"`
			} `json:"capabilities"`
		} `json:"components"`
	} `json:"items"`
}

type commandRequest struct {
	Commands []command `json:"commands"`
}

type command struct {
	Component  string        `json:"component"`
	Capability string        `json:"capability"`
	Command    string        `json:"command"`
	Arguments  []interface{} `json:"arguments,omitempty"`
}

type attributeValue struct {
	Value json.RawMessage `json:"value"`
}

// capability id -> attribute name -> value
type componentStatusWire map[string]map[string]attributeValue

type statusResponse struct {
	Components map[string]componentStatusWire `json:"components"`
}
