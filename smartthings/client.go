package smartthings

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shimmeringbee/retry"
)

const DefaultBaseURL = "https://api.smartthings.com"

const (
	defaultRequestTimeout = 15 * time.Second
	defaultRequestRetries = 3
)

type Client struct {
	token      string
	baseURL    string
	httpClient *http.Client
}

func NewClient(token string) *Client {
	return NewClientWithURL(token, DefaultBaseURL)
}

func NewClientWithURL(token string, baseURL string) *Client {
	return &Client{
		token:      token,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultRequestTimeout},
	}
}

// GetDevices fetches all devices visible to the token, with their
// per-component capability lists. Status is not populated until Refresh is
// called on a device.
func (c *Client) GetDevices(ctx context.Context) ([]*Device, error) {
	response, err := c.doRequest(ctx, http.MethodGet, "/v1/devices", nil)
	if err != nil {
		return nil, fmt.Errorf("fetching devices: %w", err)
	}

	var deviceList deviceListResponse
	if err := json.Unmarshal(response, &deviceList); err != nil {
		return nil, fmt.Errorf("parsing devices: %w", err)
	}

	devices := make([]*Device, 0, len(deviceList.Items))
	for _, item := range deviceList.Items {
		capabilities := make(map[string][]string, len(item.Components))
		for _, component := range item.Components {
			ids := make([]string, 0, len(component.Capabilities))
			for _, capability := range component.Capabilities {
				ids = append(ids, capability.ID)
			}
			capabilities[component.ID] = ids
		}

		devices = append(devices, &Device{
			client:       c,
			deviceID:     item.DeviceID,
			label:        item.Label,
			capabilities: capabilities,
			status:       map[string]*ComponentStatus{},
		})
	}

	return devices, nil
}

func (c *Client) executeCommand(ctx context.Context, deviceID string, cmd command) error {
	body, _ := json.Marshal(commandRequest{Commands: []command{cmd}})

	path := fmt.Sprintf("/v1/devices/%v/commands", deviceID)
	if _, err := c.doRequest(ctx, http.MethodPost, path, body); err != nil {
		return fmt.Errorf("executing %v.%v: %w", cmd.Capability, cmd.Command, err)
	}

	return nil
}

func (c *Client) getStatus(ctx context.Context, deviceID string) (map[string]*ComponentStatus, error) {
	path := fmt.Sprintf("/v1/devices/%v/status", deviceID)
	response, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, fmt.Errorf("fetching status: %w", err)
	}

	var status statusResponse
	if err := json.Unmarshal(response, &status); err != nil {
		return nil, fmt.Errorf("parsing status: %w", err)
	}

	components := make(map[string]*ComponentStatus, len(status.Components))
	for componentID, wire := range status.Components {
		components[componentID] = parseComponentStatus(wire)
	}

	return components, nil
}

func parseComponentStatus(wire componentStatusWire) *ComponentStatus {
	status := &ComponentStatus{}

	if value, ok := wire["switch"]["switch"]; ok {
		var state string
		if json.Unmarshal(value.Value, &state) == nil {
			status.Switch = state == "on"
		}
	}

	if value, ok := wire["fanSpeed"]["fanSpeed"]; ok {
		var speed int
		if json.Unmarshal(value.Value, &speed) == nil {
			status.FanSpeed = &speed
		}
	}

	if value, ok := wire["airConditionerFanMode"]["fanMode"]; ok {
		var mode string
		if json.Unmarshal(value.Value, &mode) == nil {
			status.FanMode = &mode
		}
	}

	if value, ok := wire["airConditionerFanMode"]["supportedAcFanModes"]; ok {
		var modes []string
		if json.Unmarshal(value.Value, &modes) == nil {
			status.SupportedAcFanModes = modes
		}
	}

	return status
}

// doRequest performs a single authenticated exchange with the API. Transient
// failures (transport errors, 429 and 5xx) are retried; any other non-2xx
// response is terminal.
func (c *Client) doRequest(ctx context.Context, method string, path string, body []byte) ([]byte, error) {
	var responseBody []byte
	var statusCode int

	err := retry.Retry(ctx, defaultRequestTimeout, defaultRequestRetries, func(ctx context.Context) error {
		var bodyReader io.Reader
		if body != nil {
			bodyReader = bytes.NewReader(body)
		}

		request, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
		if err != nil {
			return err
		}

		request.Header.Set("Authorization", "Bearer "+c.token)
		if body != nil {
			request.Header.Set("Content-Type", "application/json")
		}

		response, err := c.httpClient.Do(request)
		if err != nil {
			return err
		}
		defer response.Body.Close()

		responseBody, err = io.ReadAll(response.Body)
		if err != nil {
			return err
		}

		statusCode = response.StatusCode
		if statusCode == http.StatusTooManyRequests || statusCode >= 500 {
			return fmt.Errorf("SmartThings API error %v: %v", statusCode, string(responseBody))
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	if statusCode < 200 || statusCode >= 300 {
		return nil, fmt.Errorf("SmartThings API error %v: %v", statusCode, string(responseBody))
	}

	return responseBody, nil
}
