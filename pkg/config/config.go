// Package config loads mspctl settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/denisbrodbeck/machineid"
)

// Config provides options for connecting a flight controller and bridging it.
type Config struct {
	// Port is the serial device, e.g. /dev/ttyACM0.
	// Empty selects the most recently listed port.
	Port string
	Baud int

	// Strict reports framing errors instead of skipping them.
	Strict         bool
	MaxPayloadSize int

	// MQTTURL e.g. mqtt://host:port/topic-prefix. Empty disables MQTT.
	MQTTURL      string
	MQTTClientID string

	// WebSocketAddr is the listen address of the relay. Empty disables it.
	WebSocketAddr string
	// MetricsAddr is the listen address for /metrics. Empty disables it.
	MetricsAddr string
	// CaptureFile records received packets. Empty disables capturing.
	CaptureFile string
}

type fileConfig struct {
	Port           string `toml:"port"`
	Baud           int    `toml:"baud"`
	Strict         bool   `toml:"strict"`
	MaxPayloadSize int    `toml:"max_payload_size"`
	MQTTURL        string `toml:"mqtt_url"`
	MQTTClientID   string `toml:"mqtt_client_id"`
	WebSocketAddr  string `toml:"websocket_addr"`
	MetricsAddr    string `toml:"metrics_addr"`
	CaptureFile    string `toml:"capture_file"`
}

// DefaultBaud is the baud rate used by Betaflight/INAV on USB VCP.
const DefaultBaud = 115200

// Default returns the defaults with environment overrides applied.
func Default() Config {
	conf := Config{Baud: DefaultBaud}
	conf.applyEnv(os.Getenv)
	return conf
}

func (c *Config) applyEnv(getenv func(string) string) {
	if val := getenv("MSP_PORT"); val != "" {
		c.Port = val
	}
	if val := getenv("MSP_BAUD"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			c.Baud = n
		}
	}
	if val := getenv("MSP_MQTT_URL"); val != "" {
		c.MQTTURL = val
	}
}

// Load reads a TOML file on top of the defaults.
func Load(path string) (Config, error) {
	conf := Default()
	if err := conf.LoadFile(path); err != nil {
		return Config{}, err
	}
	return conf, nil
}

// LoadFile overrides keys defined in the file.
func (c *Config) LoadFile(path string) error {
	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}
	if meta.IsDefined("port") {
		c.Port = strings.TrimSpace(raw.Port)
	}
	if meta.IsDefined("baud") {
		c.Baud = raw.Baud
	}
	if meta.IsDefined("strict") {
		c.Strict = raw.Strict
	}
	if meta.IsDefined("max_payload_size") {
		c.MaxPayloadSize = raw.MaxPayloadSize
	}
	if meta.IsDefined("mqtt_url") {
		c.MQTTURL = strings.TrimSpace(raw.MQTTURL)
	}
	if meta.IsDefined("mqtt_client_id") {
		c.MQTTClientID = strings.TrimSpace(raw.MQTTClientID)
	}
	if meta.IsDefined("websocket_addr") {
		c.WebSocketAddr = strings.TrimSpace(raw.WebSocketAddr)
	}
	if meta.IsDefined("metrics_addr") {
		c.MetricsAddr = strings.TrimSpace(raw.MetricsAddr)
	}
	if meta.IsDefined("capture_file") {
		c.CaptureFile = strings.TrimSpace(raw.CaptureFile)
	}
	return c.Validate()
}

// Validate checks value ranges.
func (c *Config) Validate() error {
	if c.Baud <= 0 {
		return fmt.Errorf("invalid baud %d", c.Baud)
	}
	if c.MaxPayloadSize < 0 || c.MaxPayloadSize > 255 {
		return fmt.Errorf("invalid max_payload_size %d", c.MaxPayloadSize)
	}
	return nil
}

// ClientID returns the MQTT client id, derived from the machine id if not set.
func (c *Config) ClientID() string {
	if c.MQTTClientID != "" {
		return c.MQTTClientID
	}
	id, err := machineid.ProtectedID("mspctl")
	if err != nil {
		return "mspctl"
	}
	if len(id) > 12 {
		id = id[:12]
	}
	return "mspctl-" + id
}
