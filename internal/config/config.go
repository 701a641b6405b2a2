// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
)

// Config holds all application configuration values.
type Config struct {
	// Bus: "mqtt", "nats" or "none"
	Bus     string
	NATSURL string

	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string
	BrokerListen         string // address of the embedded broker

	// Topics
	TopicTelemetry string
	TopicStability string
	TopicCue       string
	TopicProfile   string

	// Simulation timing and history
	TelemetryInterval int // milliseconds
	StabilityInterval int // milliseconds
	TelemetryHistory  int
	StabilityHistory  int
	AlertCooldown     int   // milliseconds
	RandomSeed        int64 // 0 seeds from the clock

	// Persistence
	ProfileStorePath string
	RecordDir        string // empty disables session recording

	// Actuation: comma separated list of "log", "serial", "gpio" or "none"
	Actuators          []string
	ActuatorSerialPort string
	ActuatorBaudRate   int
	GPIOBuzzerPin      string
	GPIOVibrationPin   string

	// Web Server
	WebServerPort int
	WebStaticDir  string

	// Console
	ConsoleLogInterval int // milliseconds

	// Display
	DisplayI2CBus         string
	DisplayContent        string // "telemetry" or "stability"
	DisplayUpdateInterval int    // milliseconds
}

// Package-level unexported variables for singleton pattern:
//   - globalConfig: unexported so other packages cannot modify config
//     without going through InitGlobal.
//   - configOnce: ensures InitGlobal() only runs once, even if called multiple times.
//   - configMu: RWMutex protects concurrent access; Get() takes the read lock.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Default returns the configuration used for keys missing from the file.
func Default() *Config {
	return &Config{
		Bus:     "mqtt",
		NATSURL: "nats://127.0.0.1:4222",

		MQTTBroker:           "tcp://localhost:1883",
		MQTTClientIDProducer: "ratonaut-producer",
		MQTTClientIDConsole:  "ratonaut-console",
		MQTTClientIDWeb:      "ratonaut-web",
		MQTTClientIDDisplay:  "ratonaut-display",
		BrokerListen:         ":1883",

		TopicTelemetry: "ratonaut/telemetry",
		TopicStability: "ratonaut/stability",
		TopicCue:       "ratonaut/cue",
		TopicProfile:   "ratonaut/profile",

		TelemetryInterval: 250,
		StabilityInterval: 50,
		TelemetryHistory:  40,
		StabilityHistory:  50,
		AlertCooldown:     4000,

		ProfileStorePath: "ratonaut_store.json",

		Actuators:        []string{"log"},
		ActuatorBaudRate: 115200,

		WebServerPort: 8080,

		ConsoleLogInterval: 1000,

		DisplayContent:        "telemetry",
		DisplayUpdateInterval: 250,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := Default()
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// Bus
	case "BUS":
		switch value {
		case "mqtt", "nats", "none":
			c.Bus = value
		default:
			return fmt.Errorf("BUS must be mqtt, nats or none, got %q", value)
		}
	case "NATS_URL":
		c.NATSURL = value

	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value
	case "BROKER_LISTEN":
		c.BrokerListen = value

	// Topics
	case "TOPIC_TELEMETRY":
		c.TopicTelemetry = value
	case "TOPIC_STABILITY":
		c.TopicStability = value
	case "TOPIC_CUE":
		c.TopicCue = value
	case "TOPIC_PROFILE":
		c.TopicProfile = value

	// Simulation timing and history
	case "TELEMETRY_INTERVAL":
		return positiveInt(key, value, &c.TelemetryInterval)
	case "STABILITY_INTERVAL":
		return positiveInt(key, value, &c.StabilityInterval)
	case "TELEMETRY_HISTORY":
		return positiveInt(key, value, &c.TelemetryHistory)
	case "STABILITY_HISTORY":
		return positiveInt(key, value, &c.StabilityHistory)
	case "ALERT_COOLDOWN":
		return positiveInt(key, value, &c.AlertCooldown)
	case "RANDOM_SEED":
		seed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid RANDOM_SEED %q: %w", value, err)
		}
		c.RandomSeed = seed

	// Persistence
	case "PROFILE_STORE":
		c.ProfileStorePath = value
	case "RECORD_DIR":
		c.RecordDir = value

	// Actuation
	case "ACTUATORS":
		c.Actuators = nil
		for _, name := range strings.Split(value, ",") {
			name = strings.TrimSpace(name)
			switch name {
			case "":
			case "none", "log", "serial", "gpio":
				c.Actuators = append(c.Actuators, name)
			default:
				return fmt.Errorf("unknown actuator %q in ACTUATORS", name)
			}
		}
	case "ACTUATOR_SERIAL_PORT":
		c.ActuatorSerialPort = value
	case "ACTUATOR_BAUD_RATE":
		return positiveInt(key, value, &c.ActuatorBaudRate)
	case "GPIO_BUZZER_PIN":
		c.GPIOBuzzerPin = value
	case "GPIO_VIBRATION_PIN":
		c.GPIOVibrationPin = value

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		if port < 1 || port > 65535 {
			return fmt.Errorf("WEB_SERVER_PORT must be 1-65535, got %d", port)
		}
		c.WebServerPort = port
	case "WEB_STATIC_DIR":
		c.WebStaticDir = value

	// Console
	case "CONSOLE_LOG_INTERVAL":
		return positiveInt(key, value, &c.ConsoleLogInterval)

	// Display
	case "DISPLAY_I2C_BUS":
		c.DisplayI2CBus = value
	case "DISPLAY_CONTENT":
		if value != "telemetry" && value != "stability" {
			return fmt.Errorf("DISPLAY_CONTENT must be telemetry or stability, got %q", value)
		}
		c.DisplayContent = value
	case "DISPLAY_UPDATE_INTERVAL":
		return positiveInt(key, value, &c.DisplayUpdateInterval)

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

func positiveInt(key, value string, dst *int) error {
	v, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, value, err)
	}
	if v <= 0 {
		return fmt.Errorf("%s must be > 0, got %d", key, v)
	}
	*dst = v
	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.Bus == "mqtt" && c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required when BUS=mqtt")
	}
	if c.Bus == "nats" && c.NATSURL == "" {
		return fmt.Errorf("NATS_URL is required when BUS=nats")
	}
	if c.ProfileStorePath == "" {
		return fmt.Errorf("PROFILE_STORE is required")
	}
	for _, a := range c.Actuators {
		if a == "serial" && c.ActuatorSerialPort == "" {
			return fmt.Errorf("ACTUATOR_SERIAL_PORT is required for the serial actuator")
		}
		if a == "gpio" && c.GPIOBuzzerPin == "" && c.GPIOVibrationPin == "" {
			return fmt.Errorf("GPIO_BUZZER_PIN or GPIO_VIBRATION_PIN is required for the gpio actuator")
		}
	}
	return nil
}

// InitGlobal initializes the global configuration from file.
// Uses sync.Once to ensure this only runs once, even if called multiple times.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance.
// InitGlobal must be called first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
