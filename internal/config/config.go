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
	// MQTT
	MQTTBroker             string
	MQTTClientIDController string
	MQTTClientIDConsole    string
	MQTTClientIDWeb        string

	// Topics
	TopicStatus string
	TopicEvents string

	// GPS receiver
	GPSSerialPort string
	GPSBaudRate   int

	// RF beacon transmitter
	RFSerialPort string
	RFBaudRate   int

	// Cellular modem
	ModemSerialPort string
	ModemBaudRate   int
	AlertSMSNumber  string

	// Switch lines
	GPIOChip     string
	StrapPin     int
	ProximityPin int

	// Accelerometer
	AccelI2CBus  string
	AccelI2CAddr uint16
	AccelSource  string // "real" or "mock"

	// Timing, milliseconds
	LoopTickInterval      int
	MotionSampleInterval  int
	GateEvalInterval      int
	StatusPublishInterval int

	// Web Server
	WebServerPort int
}

var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// defaults returns a Config pre-filled with the reference wiring so a
// minimal config file only needs the site-specific ports and numbers.
func defaults() *Config {
	return &Config{
		MQTTClientIDController: "helmet-controller",
		MQTTClientIDConsole:    "helmet-console",
		MQTTClientIDWeb:        "helmet-web",
		TopicStatus:            "helmet/status",
		TopicEvents:            "helmet/events",
		GPSBaudRate:            9600,
		RFBaudRate:             9600,
		ModemBaudRate:          115200,
		GPIOChip:               "gpiochip0",
		StrapPin:               17,
		ProximityPin:           27,
		AccelI2CBus:            "1",
		AccelI2CAddr:           0x68,
		AccelSource:            "real",
		LoopTickInterval:       10,
		MotionSampleInterval:   100,
		GateEvalInterval:       200,
		StatusPublishInterval:  1000,
		WebServerPort:          8080,
	}
}

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	cfg := defaults()
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
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_CONTROLLER":
		c.MQTTClientIDController = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value

	// Topics
	case "TOPIC_STATUS":
		c.TopicStatus = value
	case "TOPIC_EVENTS":
		c.TopicEvents = value

	// GPS
	case "GPS_SERIAL_PORT":
		c.GPSSerialPort = value
	case "GPS_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GPS_BAUD_RATE %q: %w", value, err)
		}
		c.GPSBaudRate = rate

	// RF beacon
	case "RF_SERIAL_PORT":
		c.RFSerialPort = value
	case "RF_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid RF_BAUD_RATE %q: %w", value, err)
		}
		c.RFBaudRate = rate

	// Cellular modem
	case "MODEM_SERIAL_PORT":
		c.ModemSerialPort = value
	case "MODEM_BAUD_RATE":
		rate, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MODEM_BAUD_RATE %q: %w", value, err)
		}
		c.ModemBaudRate = rate
	case "ALERT_SMS_NUMBER":
		c.AlertSMSNumber = value

	// Switch lines
	case "GPIO_CHIP":
		c.GPIOChip = value
	case "STRAP_PIN":
		pin, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid STRAP_PIN %q: %w", value, err)
		}
		c.StrapPin = pin
	case "PROXIMITY_PIN":
		pin, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid PROXIMITY_PIN %q: %w", value, err)
		}
		c.ProximityPin = pin

	// Accelerometer
	case "ACCEL_I2C_BUS":
		c.AccelI2CBus = value
	case "ACCEL_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid ACCEL_I2C_ADDR %q: %w", value, err)
		}
		c.AccelI2CAddr = uint16(addr)
	case "ACCEL_SOURCE":
		if value != "real" && value != "mock" {
			return fmt.Errorf("ACCEL_SOURCE must be \"real\" or \"mock\", got %q", value)
		}
		c.AccelSource = value

	// Timing
	case "LOOP_TICK_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid LOOP_TICK_INTERVAL %q: %w", value, err)
		}
		c.LoopTickInterval = interval
	case "MOTION_SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid MOTION_SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.MotionSampleInterval = interval
	case "GATE_EVAL_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid GATE_EVAL_INTERVAL %q: %w", value, err)
		}
		c.GateEvalInterval = interval
	case "STATUS_PUBLISH_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid STATUS_PUBLISH_INTERVAL %q: %w", value, err)
		}
		c.StatusPublishInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.GPSSerialPort == "" {
		return fmt.Errorf("GPS_SERIAL_PORT is required")
	}
	if c.RFSerialPort == "" {
		return fmt.Errorf("RF_SERIAL_PORT is required")
	}
	if c.ModemSerialPort == "" {
		return fmt.Errorf("MODEM_SERIAL_PORT is required")
	}
	if c.AlertSMSNumber == "" {
		return fmt.Errorf("ALERT_SMS_NUMBER is required")
	}
	if c.LoopTickInterval <= 0 {
		return fmt.Errorf("LOOP_TICK_INTERVAL must be positive")
	}
	if c.MotionSampleInterval <= 0 {
		return fmt.Errorf("MOTION_SAMPLE_INTERVAL must be positive")
	}
	if c.GateEvalInterval <= 0 {
		return fmt.Errorf("GATE_EVAL_INTERVAL must be positive")
	}
	return nil
}

// InitGlobal initializes the global configuration from file. Runs once even
// if called multiple times; only this function can set globalConfig.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration instance. InitGlobal must be called
// first, or this will return nil.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
