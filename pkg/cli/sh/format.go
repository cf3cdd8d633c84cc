package sh

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/orbus/pkg/cli/frames"
	"github.com/robotalks/orbus/pkg/l0/comm"
)

func (s *Shell) formatFrame(f *comm.Frame) string {
	return frames.Format(f, s.OutputJSON)
}

// ParseByte parses a decimal, hex (0x) or octal number into a byte.
func ParseByte(s string) (byte, error) {
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid byte %q", s)
	}
	return byte(n), nil
}

// ParsePayload decodes hex strings into a payload, e.g. "0a0b" "ff".
func ParsePayload(args []string) ([]byte, error) {
	var payload []byte
	for _, arg := range args {
		b, err := hex.DecodeString(strings.TrimPrefix(arg, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid payload %q: %v", arg, err)
		}
		payload = append(payload, b...)
	}
	return payload, nil
}

// ParseAddress parses HASH and CMD arguments.
func ParseAddress(args []string) (hash, command byte, err error) {
	if len(args) < 2 {
		return 0, 0, fmt.Errorf("HASH and CMD required")
	}
	if hash, err = comm.ParseHash(args[0]); err != nil {
		return
	}
	command, err = ParseByte(args[1])
	return
}
