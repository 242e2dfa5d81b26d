package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"i4.energy/across/telemetrygw/at"
	"i4.energy/across/telemetrygw/session"
	"i4.energy/across/telemetrygw/telemetry"
	"i4.energy/across/telemetrygw/urc"
)

// Operating modes.
const (
	// ModeModem reaches the broker through the cellular modem.
	ModeModem = "modem"
	// ModeDirect reaches the broker over the host network, for bench use.
	ModeDirect = "direct"
)

// Config holds the application configuration
type Config struct {
	// BindAddress is the address the status server listens on (e.g. "0.0.0.0:8080")
	BindAddress string `yaml:"bind_address"`
	// SerialPort is the path to the modem's serial port (e.g. "/dev/ttyUSB2")
	SerialPort string `yaml:"serial_port"`
	// BaudRate is the baud rate for serial communication with the modem (e.g. 115200)
	BaudRate int `yaml:"baud_rate"`
	// LogLevel sets the logging level (e.g. "debug", "info", "warn", "error")
	LogLevel string `yaml:"log_level"`
	// SimPIN is the SIM card PIN code
	SimPIN string `yaml:"sim_pin"`

	// Mode is ModeModem or ModeDirect
	Mode string `yaml:"mode"`
	// BusPort is the serial port of the pump controller
	BusPort string `yaml:"bus_port"`
	// BusBaudRate is the baud rate of the controller link
	BusBaudRate int `yaml:"bus_baud_rate"`
	// PowerControl drives the modem power key from the serial DTR/RTS lines
	PowerControl bool `yaml:"power_control"`
	// GNSS enables position polling through the modem
	GNSS bool `yaml:"gnss"`

	APN    session.APN  `yaml:"apn"`
	Broker BrokerConfig `yaml:"broker"`
	// ClientID defaults to telemetrygw-<uuid>
	ClientID string     `yaml:"client_id"`
	Topics   urc.Topics `yaml:"topics"`

	TelemetryTopic  string        `yaml:"telemetry_topic"`
	PublishInterval time.Duration `yaml:"publish_interval"`
	// SettingsPath is the YAML file holding the shared attributes
	SettingsPath string `yaml:"settings_path"`
	// RPCReplies publishes a result for every RPC request
	RPCReplies bool `yaml:"rpc_replies"`
	// FailPartial treats a reply without a final result code as a failure
	FailPartial bool `yaml:"fail_partial"`
	// Markers are the modem's unsolicited output prefixes, shared by the
	// modem reader, the URC dispatcher and the session
	Markers at.Markers `yaml:"markers"`
}

// BrokerConfig is the MQTT broker endpoint
type BrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// ConfigOption is a function that modifies a Config
type ConfigOption func(*Config) error

// LoadConfig creates a new config by applying the given options in order
func LoadConfig(opts ...ConfigOption) (*Config, error) {
	config := &Config{}

	for _, opt := range opts {
		if err := opt(config); err != nil {
			return nil, err
		}
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *Config) validate() error {
	switch c.Mode {
	case ModeModem:
		if c.SerialPort == "" {
			return errors.New("serial port is required in modem mode")
		}
	case ModeDirect:
	default:
		return fmt.Errorf("unknown mode %q", c.Mode)
	}
	if c.Broker.Host == "" {
		return errors.New("broker host is required")
	}
	if c.BusPort == "" {
		return errors.New("bus port is required")
	}
	if c.Markers.BlockStart == "" || c.Markers.BlockEnd == "" {
		return errors.New("markers need a block start and a block end")
	}
	for _, p := range c.Markers.ConnectionLost {
		if !c.Markers.IsNotification(p) {
			return fmt.Errorf("connection lost marker %q is not a notification", p)
		}
	}
	return nil
}

// WithDefaults applies default configuration values
func WithDefaults() ConfigOption {
	return func(c *Config) error {
		c.BindAddress = "0.0.0.0:8080"
		c.SerialPort = "/dev/ttyUSB2"
		c.BaudRate = 115200
		c.LogLevel = "info"
		c.Mode = ModeModem
		c.BusPort = "/dev/ttyS1"
		c.BusBaudRate = 115200
		c.GNSS = true
		c.APN = session.APN{Name: "eapn1.net", Username: "DynamicF", Password: "DynamicF"}
		c.Broker = BrokerConfig{Host: "eu.thingsboard.cloud", Port: 1883, Username: "dev", Password: "dev"}
		c.Topics = urc.DefaultTopics()
		c.Markers = at.DefaultMarkers()
		c.TelemetryTopic = telemetry.DefaultTopic
		c.PublishInterval = time.Minute
		c.SettingsPath = "settings.yaml"
		return nil
	}
}

// WithFile loads configuration from a YAML file. Keys missing from the file
// keep their current values. An empty path is ignored.
func WithFile(path string) ConfigOption {
	return func(c *Config) error {
		if path == "" {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, c); err != nil {
			return fmt.Errorf("parse config %s: %w", path, err)
		}
		return nil
	}
}

// WithEnv loads configuration from environment variables
func WithEnv() ConfigOption {
	return func(c *Config) error {
		if addr := os.Getenv("BIND_ADDRESS"); addr != "" {
			c.BindAddress = addr
		}

		if serial := os.Getenv("SERIAL_PORT"); serial != "" {
			c.SerialPort = serial
		}

		if baud := os.Getenv("BAUD_RATE"); baud != "" {
			if b, err := strconv.Atoi(baud); err == nil {
				c.BaudRate = b
			}
		}

		if level := os.Getenv("LOG_LEVEL"); level != "" {
			c.LogLevel = level
		}

		if simPIN := os.Getenv("SIM_PIN"); simPIN != "" {
			c.SimPIN = simPIN
		}

		if mode := os.Getenv("MODE"); mode != "" {
			c.Mode = mode
		}

		if bus := os.Getenv("BUS_PORT"); bus != "" {
			c.BusPort = bus
		}

		if apn := os.Getenv("APN"); apn != "" {
			c.APN.Name = apn
		}

		if host := os.Getenv("MQTT_HOST"); host != "" {
			c.Broker.Host = host
		}

		if port := os.Getenv("MQTT_PORT"); port != "" {
			if p, err := strconv.Atoi(port); err == nil {
				c.Broker.Port = p
			}
		}

		if user := os.Getenv("MQTT_USERNAME"); user != "" {
			c.Broker.Username = user
		}

		if pass := os.Getenv("MQTT_PASSWORD"); pass != "" {
			c.Broker.Password = pass
		}

		if id := os.Getenv("CLIENT_ID"); id != "" {
			c.ClientID = id
		}

		if path := os.Getenv("SETTINGS_PATH"); path != "" {
			c.SettingsPath = path
		}

		return nil
	}
}

// WithFlags loads configuration from command-line flags
func WithFlags(fSet *flag.FlagSet) ConfigOption {
	return func(c *Config) error {
		var err error
		fSet.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "bind-address":
				c.BindAddress = f.Value.String()
			case "serial-port":
				c.SerialPort = f.Value.String()
			case "baud-rate":
				if b, err := strconv.Atoi(f.Value.String()); err == nil {
					c.BaudRate = b
				}
			case "log-level":
				c.LogLevel = f.Value.String()
			case "sim-pin":
				c.SimPIN = f.Value.String()
			case "mode":
				c.Mode = f.Value.String()
			case "bus-port":
				c.BusPort = f.Value.String()
			case "broker-host":
				c.Broker.Host = f.Value.String()
			case "client-id":
				c.ClientID = f.Value.String()
			case "settings-path":
				c.SettingsPath = f.Value.String()
			case "power-control":
				c.PowerControl, err = strconv.ParseBool(f.Value.String())
			case "rpc-replies":
				c.RPCReplies, err = strconv.ParseBool(f.Value.String())
			}

		})
		return err
	}

}
