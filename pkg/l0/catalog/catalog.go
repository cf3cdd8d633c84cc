// Package catalog defines the well-known L0 messages: hashes, commands and
// payload layouts.
package catalog

import (
	"encoding/binary"
	"fmt"
	"sort"

	"github.com/robotalks/orbus/pkg/l0/comm"
)

// Hashes of the well-known message families.
const (
	System      byte = 'S'
	Motion      byte = 'M'
	Motor       byte = 'G'
	Navigation  byte = 'N'
	Peripherals byte = 'P'
)

// Entry describes one message.
type Entry struct {
	Hash    byte
	Command byte
	Name    string
	// Length is the payload length of FrameData.
	Length int
}

// String implements fmt.Stringer.
func (e Entry) String() string {
	return fmt.Sprintf("%s/%d %s (%d bytes)", comm.HashString(e.Hash), e.Command, e.Name, e.Length)
}

type message struct {
	name string
	v    interface{}
}

func sizeOf(v interface{}) int {
	n := binary.Size(v)
	if n < 0 {
		panic(fmt.Sprintf("catalog: invalid message type %T", v))
	}
	return n
}

// families maps hash to command-indexed messages. Motor and Peripherals
// commands are looked up after their bit maps are decoded.
var families = map[byte]map[byte]message{
	System:      systemMessages,
	Motion:      motionMessages,
	Motor:       motorMessages,
	Navigation:  navigationMessages,
	Peripherals: peripheralMessages,
}

var familyNames = map[byte]string{
	System:      "system",
	Motion:      "motion",
	Motor:       "motor",
	Navigation:  "navigation",
	Peripherals: "peripherals",
}

// FamilyName returns the name of a well-known hash.
func FamilyName(hash byte) (string, bool) {
	name, ok := familyNames[hash]
	return name, ok
}

func lookup(hash, command byte) (message, bool) {
	msgs, ok := families[hash]
	if !ok {
		return message{}, false
	}
	switch hash {
	case Motor:
		_, command = SplitMotorCommand(command)
	case Peripherals:
		command, _ = SplitGPIOCommand(command)
	}
	m, ok := msgs[command]
	return m, ok
}

// Length returns the FrameData payload length of a message.
func Length(hash, command byte) (int, bool) {
	m, ok := lookup(hash, command)
	if !ok {
		return 0, false
	}
	return sizeOf(m.v), true
}

// Name returns the name of a message.
func Name(hash, command byte) (string, bool) {
	m, ok := lookup(hash, command)
	return m.name, ok
}

// New creates a zero value of the payload type of a message, as a pointer
// which can be passed to Unmarshal.
func New(hash, command byte) (interface{}, bool) {
	m, ok := lookup(hash, command)
	if !ok {
		return nil, false
	}
	return newOf(m.v), true
}

// Entries lists all messages ordered by hash and command. Motor and
// Peripherals commands are listed for motor/port 0.
func Entries() []Entry {
	var entries []Entry
	for hash, msgs := range families {
		for cmd, m := range msgs {
			entries = append(entries, Entry{Hash: hash, Command: cmd, Name: m.name, Length: sizeOf(m.v)})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Hash != entries[j].Hash {
			return entries[i].Hash < entries[j].Hash
		}
		return entries[i].Command < entries[j].Command
	})
	for n := range entries {
		switch e := &entries[n]; e.Hash {
		case Motor:
			e.Command = MotorCommand(0, e.Command)
		case Peripherals:
			e.Command = GPIOCommand(e.Command, 0)
		}
	}
	return entries
}

// LengthError indicates the payload length of a Data frame mismatches
// the catalog.
type LengthError struct {
	Hash    byte
	Command byte
	Expect  int
	Actual  int
}

// Error implements error.
func (e *LengthError) Error() string {
	return fmt.Sprintf("%s/%d: payload length %d, expect %d",
		comm.HashString(e.Hash), e.Command, e.Actual, e.Expect)
}

// Validate checks the payload length of a Data frame of a known message.
// Other frames and unknown messages are always valid.
func Validate(f *comm.Frame) error {
	if f.Type != comm.FrameData {
		return nil
	}
	expect, ok := Length(f.Hash, f.Command)
	if !ok || expect == len(f.Payload) {
		return nil
	}
	return &LengthError{Hash: f.Hash, Command: f.Command, Expect: expect, Actual: len(f.Payload)}
}
