package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "helmet_config.txt")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

const minimalConfig = `
# site wiring
MQTT_BROKER=tcp://localhost:1883
GPS_SERIAL_PORT=/dev/serial0
RF_SERIAL_PORT=/dev/ttyUSB0
MODEM_SERIAL_PORT=/dev/ttyUSB1
ALERT_SMS_NUMBER=+15550100
`

func TestLoadMinimalConfigAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.MQTTBroker != "tcp://localhost:1883" {
		t.Errorf("MQTTBroker = %q", cfg.MQTTBroker)
	}
	if cfg.GPSBaudRate != 9600 {
		t.Errorf("GPSBaudRate default = %d, want 9600", cfg.GPSBaudRate)
	}
	if cfg.AccelI2CAddr != 0x68 {
		t.Errorf("AccelI2CAddr default = 0x%02X, want 0x68", cfg.AccelI2CAddr)
	}
	if cfg.AccelSource != "real" {
		t.Errorf("AccelSource default = %q, want real", cfg.AccelSource)
	}
	if cfg.MotionSampleInterval != 100 {
		t.Errorf("MotionSampleInterval default = %d, want 100", cfg.MotionSampleInterval)
	}
	if cfg.TopicStatus != "helmet/status" || cfg.TopicEvents != "helmet/events" {
		t.Errorf("topic defaults = %q, %q", cfg.TopicStatus, cfg.TopicEvents)
	}
	if cfg.StrapPin != 17 || cfg.ProximityPin != 27 {
		t.Errorf("pin defaults = %d, %d, want 17, 27", cfg.StrapPin, cfg.ProximityPin)
	}
}

func TestLoadOverrides(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig+`
ACCEL_I2C_ADDR=0x69
ACCEL_SOURCE=mock
MOTION_SAMPLE_INTERVAL=50
STRAP_PIN=5
`))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.AccelI2CAddr != 0x69 {
		t.Errorf("AccelI2CAddr = 0x%02X, want 0x69", cfg.AccelI2CAddr)
	}
	if cfg.AccelSource != "mock" {
		t.Errorf("AccelSource = %q, want mock", cfg.AccelSource)
	}
	if cfg.MotionSampleInterval != 50 {
		t.Errorf("MotionSampleInterval = %d, want 50", cfg.MotionSampleInterval)
	}
	if cfg.StrapPin != 5 {
		t.Errorf("StrapPin = %d, want 5", cfg.StrapPin)
	}
}

func TestLoadRejectsUnknownKey(t *testing.T) {
	if _, err := Load(writeConfig(t, minimalConfig+"BOGUS_KEY=1\n")); err == nil {
		t.Error("unknown key should fail")
	}
}

func TestLoadRejectsBadAccelSource(t *testing.T) {
	if _, err := Load(writeConfig(t, minimalConfig+"ACCEL_SOURCE=imaginary\n")); err == nil {
		t.Error("invalid ACCEL_SOURCE should fail")
	}
}

func TestValidateRequiredFields(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"missing broker", "MQTT_BROKER"},
		{"missing gps port", "GPS_SERIAL_PORT"},
		{"missing rf port", "RF_SERIAL_PORT"},
		{"missing modem port", "MODEM_SERIAL_PORT"},
		{"missing sms number", "ALERT_SMS_NUMBER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := ""
			for _, line := range []string{
				"MQTT_BROKER=tcp://localhost:1883",
				"GPS_SERIAL_PORT=/dev/serial0",
				"RF_SERIAL_PORT=/dev/ttyUSB0",
				"MODEM_SERIAL_PORT=/dev/ttyUSB1",
				"ALERT_SMS_NUMBER=+15550100",
			} {
				if !strippedHasPrefix(line, tt.omit) {
					content += line + "\n"
				}
			}
			if _, err := Load(writeConfig(t, content)); err == nil {
				t.Errorf("config without %s should fail validation", tt.omit)
			}
		})
	}
}

func strippedHasPrefix(line, key string) bool {
	return len(line) > len(key) && line[:len(key)] == key && line[len(key)] == '='
}
