package config

import (
	"os"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/dokzlo13/tuyactl/internal/device"
)

// Config represents the application configuration
type Config struct {
	Log     LogConfig     `yaml:"log"`
	Device  DeviceConfig  `yaml:"device"`
	Command CommandConfig `yaml:"command"`
	Bridge  BridgeConfig  `yaml:"bridge"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level   string `yaml:"level"`
	Colors  bool   `yaml:"colors"`
	UseJSON bool   `yaml:"json"`
}

// DeviceConfig contains bulb session settings
type DeviceConfig struct {
	ProtocolVersion string `yaml:"protocol_version"`
}

// CommandConfig contains command execution settings
type CommandConfig struct {
	// Pause after switching to colour mode and before the final status read.
	// Bulb firmware needs it to settle; some revisions need more than the default.
	SettleDelay Duration `yaml:"settle_delay"`
}

// BridgeConfig contains MQTT gateway connection settings.
// The gateway is sent the device local key when a session opens, so a broker
// reachable over an untrusted network should be addressed as ssl:// (or wss://).
type BridgeConfig struct {
	Broker      string   `yaml:"broker"`
	Username    string   `yaml:"username"`
	Password    string   `yaml:"password"`
	TopicPrefix string   `yaml:"topic_prefix"`
	ClientID    string   `yaml:"client_id"`
	Timeout     Duration `yaml:"timeout"` // Per broker round trip
}

// Duration is a wrapper around time.Duration for YAML unmarshalling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Default returns the configuration used when no file is given
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	return &cfg
}

// Load reads and parses the configuration file. An empty path yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables
	expanded := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Device.ProtocolVersion == "" {
		cfg.Device.ProtocolVersion = device.DefaultProtocolVersion
	}

	if cfg.Command.SettleDelay == 0 {
		cfg.Command.SettleDelay = Duration(300 * time.Millisecond)
	}

	// Bridge defaults
	if cfg.Bridge.Broker == "" {
		cfg.Bridge.Broker = "tcp://127.0.0.1:1883"
	}
	if cfg.Bridge.TopicPrefix == "" {
		cfg.Bridge.TopicPrefix = "tuya"
	}
	if cfg.Bridge.ClientID == "" {
		cfg.Bridge.ClientID = "tuyactl"
	}
	if cfg.Bridge.Timeout == 0 {
		cfg.Bridge.Timeout = Duration(10 * time.Second)
	}
}

// expandEnvVars expands environment variables in the format ${VAR} or ${VAR:default}
func expandEnvVars(input string) string {
	// Match ${VAR} or ${VAR:default}
	re := regexp.MustCompile(`\$\{([^}:]+)(?::([^}]*))?\}`)

	return re.ReplaceAllStringFunc(input, func(match string) string {
		parts := re.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		varName := parts[1]
		defaultVal := ""
		if len(parts) >= 3 {
			defaultVal = parts[2]
		}

		if val := os.Getenv(varName); val != "" {
			return val
		}
		return defaultVal
	})
}

// ExpandEnvString expands a single string with environment variables
func ExpandEnvString(s string) string {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return expandEnvVars(s)
	}
	return s
}
