// Package env provides the configuration shared by orbus binaries.
package env

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/robotalks/orbus/pkg/l0/comm"
	"github.com/robotalks/orbus/pkg/l0/peripheral"
)

// Roles of a link endpoint.
const (
	RoleHost       = "host"
	RolePeripheral = "peripheral"
)

// Config provides common options to set up a link endpoint.
type Config struct {
	// Device identifies the endpoint in MQTT topics.
	Device string `yaml:"device"`
	// Role is either host or peripheral.
	Role string `yaml:"role"`

	// LinkURL specifies the byte stream of the link.
	// e.g. serial:///dev/ttyUSB0?baud=115200, tcp://host:port
	LinkURL    string `yaml:"link"`
	RxCapacity int    `yaml:"rxCapacity"`
	TxCapacity int    `yaml:"txCapacity"`
	Slots      int    `yaml:"slots"`

	IdleTimeout   time.Duration `yaml:"idleTimeout"`
	AliveInterval time.Duration `yaml:"aliveInterval"`

	// MQTTBrokerURL specifies the MQTT broker to bridge to, empty disables
	// the bridge.
	// e.g. mqtt://host:port/topic-prefix
	MQTTBrokerURL string `yaml:"mqtt"`
	// Bridge lists the hashes published to MQTT, comma separated.
	Bridge string `yaml:"bridge"`

	// MetricsAddr is the listen address of /metrics, empty disables it.
	MetricsAddr string `yaml:"metrics"`

	Board peripheral.BoardInfo `yaml:"board"`
}

var defaultConfig = Config{
	Role:          RoleHost,
	LinkURL:       "serial:///dev/ttyUSB0?baud=115200",
	RxCapacity:    comm.DefaultCapacity,
	TxCapacity:    comm.DefaultCapacity,
	Slots:         comm.DefaultSlots,
	IdleTimeout:   100 * time.Millisecond,
	AliveInterval: time.Second,
	Bridge:        "M,G,N,P",
}

var configFile string

func init() {
	if val := os.Getenv("ORBUS_LINK"); val != "" {
		defaultConfig.LinkURL = val
	}
	if val := os.Getenv("ORBUS_MQTT_URL"); val != "" {
		defaultConfig.MQTTBrokerURL = val
	}
	if val := os.Getenv("ORBUS_METRICS"); val != "" {
		defaultConfig.MetricsAddr = val
	}
	if val := os.Getenv("ORBUS_CONFIG"); val != "" {
		configFile = val
	}
	if val := os.Getenv("ORBUS_DEVICE"); val != "" {
		defaultConfig.Device = val
	} else {
		defaultConfig.Device = MachineID()
	}
}

// SetupFlags sets command line flags.
func SetupFlags() {
	flag.StringVar(&configFile, "config", configFile, "YAML config file")
	defaultConfig.BindFlags(flag.CommandLine)
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Load applies the config file given by -config to the default config and
// returns it. Flags set on the command line take precedence.
func Load() (*Config, error) {
	if configFile != "" {
		if err := defaultConfig.LoadFile(configFile, flag.CommandLine); err != nil {
			return nil, err
		}
	}
	if err := defaultConfig.Validate(); err != nil {
		return nil, err
	}
	return &defaultConfig, nil
}

// BindFlags registers the fields of c on fs.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.Device, "device", c.Device, "Device ID used in MQTT topics")
	fs.StringVar(&c.Role, "role", c.Role, "Link role: host or peripheral")
	fs.StringVar(&c.LinkURL, "link", c.LinkURL, "Link URL (serial://, tcp://, tcp-listen://, ws://)")
	fs.IntVar(&c.RxCapacity, "rx-capacity", c.RxCapacity, "Receive buffer capacity")
	fs.IntVar(&c.TxCapacity, "tx-capacity", c.TxCapacity, "Transmit buffer capacity")
	fs.IntVar(&c.Slots, "slots", c.Slots, "Handler slots")
	fs.DurationVar(&c.IdleTimeout, "idle-timeout", c.IdleTimeout, "Drop partial packets after idle duration, 0 disables")
	fs.DurationVar(&c.AliveInterval, "alive", c.AliveInterval, "Keep-alive probe interval, 0 disables")
	fs.StringVar(&c.MQTTBrokerURL, "mqtt", c.MQTTBrokerURL, "MQTT broker URL")
	fs.StringVar(&c.Bridge, "bridge", c.Bridge, "Hashes bridged to MQTT, comma separated")
	fs.StringVar(&c.MetricsAddr, "metrics", c.MetricsAddr, "Metrics listen address")
}

// LoadFile decodes the YAML file at path into c. Flags already set on fs
// are applied again afterwards, fs can be nil.
func (c *Config) LoadFile(path string, fs *flag.FlagSet) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config %s error: %v", path, err)
	}
	defer f.Close()

	set := make(map[string]string)
	if fs != nil {
		fs.Visit(func(fl *flag.Flag) {
			set[fl.Name] = fl.Value.String()
		})
	}
	if err := yaml.NewDecoder(f).Decode(c); err != nil {
		return fmt.Errorf("decode config %s error: %v", path, err)
	}
	for name, val := range set {
		if err := fs.Set(name, val); err != nil {
			return err
		}
	}
	return nil
}

// Validate checks the config values.
func (c *Config) Validate() error {
	switch c.Role {
	case RoleHost, RolePeripheral:
	default:
		return fmt.Errorf("invalid role %q", c.Role)
	}
	if c.LinkURL == "" {
		return fmt.Errorf("link URL is required")
	}
	if c.RxCapacity < comm.FrameHeadLen || c.RxCapacity > comm.MaxPayloadLen {
		return fmt.Errorf("rx capacity %d out of range", c.RxCapacity)
	}
	if c.TxCapacity < comm.FrameHeadLen || c.TxCapacity > comm.MaxPayloadLen {
		return fmt.Errorf("tx capacity %d out of range", c.TxCapacity)
	}
	if c.Slots <= 0 {
		return fmt.Errorf("slots must be positive")
	}
	if _, err := c.BridgeHashes(); err != nil {
		return err
	}
	return nil
}

// LinkConfig returns the buffer sizes of the link.
func (c *Config) LinkConfig() comm.Config {
	return comm.Config{
		RxCapacity: c.RxCapacity,
		TxCapacity: c.TxCapacity,
		Slots:      c.Slots,
	}
}

// BridgeHashes parses Bridge.
func (c *Config) BridgeHashes() ([]byte, error) {
	var hashes []byte
	for _, s := range strings.Split(c.Bridge, ",") {
		if s = strings.TrimSpace(s); s == "" {
			continue
		}
		hash, err := comm.ParseHash(s)
		if err != nil {
			return nil, err
		}
		if hash == 0 {
			return nil, fmt.Errorf("hash 0 can't be bridged")
		}
		hashes = append(hashes, hash)
	}
	return hashes, nil
}
