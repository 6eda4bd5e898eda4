package mqttbridge

import (
	"encoding/json"
	"fmt"

	"github.com/dokzlo13/tuyactl/internal/device"
)

type topics struct {
	state      string
	command    string
	dpsCommand string
	register   string
}

func newTopics(prefix, deviceID string) topics {
	base := prefix + "/" + deviceID
	return topics{
		state:      base + "/dps/state",
		command:    base + "/command",
		dpsCommand: base + "/dps/command",
		register:   base + "/register",
	}
}

type registration struct {
	ID      string `json:"id"`
	IP      string `json:"ip"`
	Key     string `json:"key"`
	Version string `json:"version"`
}

func encodeRegistration(target device.Target) ([]byte, error) {
	b, err := json.Marshal(registration{
		ID:      target.DeviceID,
		IP:      target.Address,
		Key:     target.Key,
		Version: target.Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal registration: %w", err)
	}
	return b, nil
}

// decodeState accepts either a bare data point object or a full status
// envelope carrying the data points under "dps".
func decodeState(payload []byte) (device.Status, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal state: %w", err)
	}

	if inner, ok := raw["dps"]; ok {
		payload = inner
	}

	var status device.Status
	if err := json.Unmarshal(payload, &status); err != nil {
		return nil, fmt.Errorf("failed to unmarshal dps: %w", err)
	}
	if status == nil {
		status = device.Status{}
	}
	return status, nil
}
