package bridge

import (
	"context"
	"fmt"
	"log"
	"strconv"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/victorjacobs/go-smartthings/config"
	"github.com/victorjacobs/go-smartthings/fan"
	"github.com/victorjacobs/go-smartthings/homeassistant"
	"github.com/victorjacobs/go-smartthings/smartthings"
)

type Bridge struct {
	cfg        *config.Configuration
	client     *smartthings.Client
	devices    []*smartthings.Device
	fans       []*registeredFan
	mqttClient mqtt.Client
}

// New connects to the SmartThings API, discovers devices and sets up a fan
// adapter for every device component that classifies as a fan.
func New(cfg *config.Configuration) (*Bridge, error) {
	client := smartthings.NewClient(cfg.SmartThings.Token)

	devices, err := client.GetDevices(context.Background())
	if err != nil {
		return nil, fmt.Errorf("error fetching devices: %w", err)
	}
	log.Printf("Found %v devices", len(devices))

	b := &Bridge{
		cfg:    cfg,
		client: client,
	}

	for _, device := range devices {
		deviceUsed := false

		for componentId, capabilities := range device.Components() {
			supported := fan.Classify(capabilities)
			if supported == nil {
				continue
			}

			uniqueId := homeassistant.UniqueId(device.Label(), componentId)
			rf := &registeredFan{
				device:   device,
				uniqueId: uniqueId,
				topics:   homeassistant.TopicsForFan(uniqueId),
			}
			rf.fan = fan.New(device, componentId, func() {
				b.publishFanState(rf)
			})

			b.fans = append(b.fans, rf)
			deviceUsed = true

			log.Printf("Discovered fan %v (capabilities: %v)", rf.uniqueId, supported)
		}

		if deviceUsed {
			if err := device.Refresh(context.Background()); err != nil {
				return nil, fmt.Errorf("error fetching status of %v: %w", device.Label(), err)
			}

			b.devices = append(b.devices, device)
		}
	}

	return b, nil
}

// RegisterFans publishes Home Assistant discovery configuration for every fan.
func (b *Bridge) RegisterFans(mqttClient mqtt.Client) error {
	b.mqttClient = mqttClient
	homeAssistantClient := homeassistant.NewClient(mqttClient)

	for _, rf := range b.fans {
		var presetModes []string
		if rf.fan.Features()&fan.FeaturePresetMode != 0 {
			presetModes = rf.fan.PresetModes()
		}

		if _, err := homeAssistantClient.RegisterFan(rf.uniqueId, rf.device.Label(), presetModes); err != nil {
			return err
		}

		log.Printf("Registered fan %v", rf.uniqueId)
	}

	return nil
}

func (b *Bridge) SubscribeToFanCommands(mqttClient mqtt.Client) {
	for _, rf := range b.fans {
		rf := rf

		b.subscribe(mqttClient, rf.topics.Command, func(payload string) error {
			if payload == "OFF" {
				return rf.fan.TurnOff(context.Background())
			}
			return rf.fan.TurnOn(context.Background(), nil, nil)
		})

		b.subscribe(mqttClient, rf.topics.PercentageCommand, func(payload string) error {
			percentage, err := strconv.Atoi(payload)
			if err != nil {
				return fmt.Errorf("invalid percentage %v: %w", payload, err)
			}
			return rf.fan.SetPercentage(context.Background(), percentage)
		})

		if rf.fan.Features()&fan.FeaturePresetMode != 0 {
			b.subscribe(mqttClient, rf.topics.PresetModeCommand, func(payload string) error {
				return rf.fan.SetPresetMode(context.Background(), payload)
			})
		}
	}
}

func (b *Bridge) subscribe(mqttClient mqtt.Client, topic string, handle func(payload string) error) {
	if t := mqttClient.Subscribe(topic, 0, func(client mqtt.Client, msg mqtt.Message) {
		if err := handle(string(msg.Payload())); err != nil {
			log.Printf("Error handling command on %v: %v", topic, err)
		}
	}); t.Wait() && t.Error() != nil {
		log.Printf("MQTT receive error: %v", t.Error())
	}
}

// PollStatus refreshes every device from the cloud and republishes fan state.
// The refreshed status is authoritative and overwrites any earlier optimistic
// update.
func (b *Bridge) PollStatus(mqttClient mqtt.Client) {
	for _, device := range b.devices {
		if err := device.Refresh(context.Background()); err != nil {
			log.Printf("Failed to refresh %v: %v", device.Label(), err)
		}
	}

	for _, rf := range b.fans {
		b.publishFanState(rf)
	}
}

func (b *Bridge) publishFanState(rf *registeredFan) {
	// Not registered with MQTT yet, nothing to announce to.
	if b.mqttClient == nil {
		return
	}

	stateMessage := "OFF"
	if rf.fan.IsOn() {
		stateMessage = "ON"
	}

	var percentageMessage string
	if percentage := rf.fan.Percentage(); percentage != nil {
		percentageMessage = strconv.Itoa(*percentage)
	}

	var presetModeMessage string
	if presetMode := rf.fan.PresetMode(); presetMode != nil {
		presetModeMessage = *presetMode
	}

	if rf.lastState != stateMessage {
		if b.publish(rf.topics.State, stateMessage) {
			rf.lastState = stateMessage
		}
	}

	if percentageMessage != "" && rf.lastPercentage != percentageMessage {
		if b.publish(rf.topics.PercentageState, percentageMessage) {
			rf.lastPercentage = percentageMessage
		}
	}

	if presetModeMessage != "" && rf.lastPresetMode != presetModeMessage {
		if b.publish(rf.topics.PresetModeState, presetModeMessage) {
			rf.lastPresetMode = presetModeMessage
		}
	}
}

func (b *Bridge) publish(topic string, payload string) bool {
	if t := b.mqttClient.Publish(topic, 0, true, payload); t.Wait() && t.Error() != nil {
		log.Printf("MQTT publishing failed: %v", t.Error())
		return false
	}

	return true
}

// States returns the current state of all registered fans.
func (b *Bridge) States() []FanState {
	states := make([]FanState, 0, len(b.fans))
	for _, rf := range b.fans {
		states = append(states, FanState{
			Device:     rf.device.Label(),
			Component:  rf.fan.Component(),
			On:         rf.fan.IsOn(),
			Percentage: rf.fan.Percentage(),
			PresetMode: rf.fan.PresetMode(),
		})
	}

	return states
}
