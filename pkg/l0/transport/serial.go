package transport

import (
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.bug.st/serial"
)

// DefaultBaudRate of serial ports.
const DefaultBaudRate = 115200

// SerialConfig is parsed from a serial URL.
type SerialConfig struct {
	Port        string
	Mode        serial.Mode
	ReadTimeout time.Duration
}

// ParseSerial parses serial:///dev/ttyUSB0?baud=115200&databits=8&parity=none&stopbits=1&timeout=100ms.
func ParseSerial(u *url.URL) (*SerialConfig, error) {
	conf := &SerialConfig{
		Port: u.Host + u.Path,
		Mode: serial.Mode{
			BaudRate: DefaultBaudRate,
			DataBits: 8,
			Parity:   serial.NoParity,
			StopBits: serial.OneStopBit,
		},
	}
	if conf.Port == "" {
		return nil, fmt.Errorf("serial port not specified")
	}
	q := u.Query()
	var err error
	if val := q.Get("baud"); val != "" {
		if conf.Mode.BaudRate, err = strconv.Atoi(val); err != nil {
			return nil, fmt.Errorf("invalid baud %q: %v", val, err)
		}
	}
	if val := q.Get("databits"); val != "" {
		if conf.Mode.DataBits, err = strconv.Atoi(val); err != nil {
			return nil, fmt.Errorf("invalid databits %q: %v", val, err)
		}
	}
	switch val := strings.ToLower(q.Get("parity")); val {
	case "", "none", "n":
	case "odd", "o":
		conf.Mode.Parity = serial.OddParity
	case "even", "e":
		conf.Mode.Parity = serial.EvenParity
	default:
		return nil, fmt.Errorf("invalid parity %q", val)
	}
	switch val := q.Get("stopbits"); val {
	case "", "1":
	case "1.5":
		conf.Mode.StopBits = serial.OnePointFiveStopBits
	case "2":
		conf.Mode.StopBits = serial.TwoStopBits
	default:
		return nil, fmt.Errorf("invalid stopbits %q", val)
	}
	if val := q.Get("timeout"); val != "" {
		if conf.ReadTimeout, err = time.ParseDuration(val); err != nil {
			return nil, fmt.Errorf("invalid timeout %q: %v", val, err)
		}
	}
	return conf, nil
}

// OpenSerial opens a serial port from URL.
func OpenSerial(u *url.URL) (io.ReadWriteCloser, error) {
	conf, err := ParseSerial(u)
	if err != nil {
		return nil, err
	}
	port, err := serial.Open(conf.Port, &conf.Mode)
	if err != nil {
		return nil, fmt.Errorf("open %s: %v", conf.Port, err)
	}
	if conf.ReadTimeout > 0 {
		if err = port.SetReadTimeout(conf.ReadTimeout); err != nil {
			port.Close()
			return nil, err
		}
	}
	return port, nil
}
