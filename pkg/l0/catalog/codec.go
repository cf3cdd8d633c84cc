package catalog

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"reflect"
)

// ByteOrder of all payloads.
var ByteOrder = binary.LittleEndian

// Marshal encodes a fixed size message into its packed payload.
func Marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := binary.Write(&buf, ByteOrder, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a packed payload into v, which must be a pointer to a
// fixed size message. The payload length must match exactly.
func Unmarshal(p []byte, v interface{}) error {
	if n := binary.Size(v); n != len(p) {
		return fmt.Errorf("payload length %d mismatches %T (%d bytes)", len(p), v, n)
	}
	return binary.Read(bytes.NewReader(p), ByteOrder, v)
}

func newOf(v interface{}) interface{} {
	return reflect.New(reflect.TypeOf(v)).Interface()
}

// MotorCommand packs a motor index (bits 0-2) and a motor command
// (bits 3-7) into a command byte.
func MotorCommand(motor, command byte) byte {
	return motor&0x07 | command<<3
}

// SplitMotorCommand unpacks a command byte of the Motor hash.
func SplitMotorCommand(b byte) (motor, command byte) {
	return b & 0x07, b >> 3
}

// GPIOCommand packs a peripheral command (bits 0-4) and a port
// (bits 5-7) into a command byte.
func GPIOCommand(command, port byte) byte {
	return command&0x1f | port<<5
}

// SplitGPIOCommand unpacks a command byte of the Peripherals hash.
func SplitGPIOCommand(b byte) (command, port byte) {
	return b & 0x1f, b >> 5
}
