package comm

import (
	"fmt"
	"strconv"
)

// Physical packet layout.
const (
	// Header is the first byte of every packet.
	Header byte = '#'
	// HeaderLen is the size of Header and the length byte.
	HeaderLen = 2
	// MaxPayloadLen is the largest payload the length byte can declare.
	MaxPayloadLen = 0xff
	// DefaultCapacity is the default payload capacity of receive/transmit buffers.
	DefaultCapacity = 200
)

// FrameHeadLen is the size of length, type, hash and command of a sub-frame.
const FrameHeadLen = 4

// AliveHash is the reserved hash of keep-alive probes.
const AliveHash byte = 0

// FrameType defines the type of a sub-frame.
type FrameType byte

// Frame types.
const (
	FrameData    FrameType = 'D'
	FrameAck     FrameType = 'K'
	FrameNack    FrameType = 'N'
	FrameRequest FrameType = 'R'
	FrameEmpty   FrameType = 'E'
)

// IsReply indicates the frame answers another frame and must not be
// answered again.
func (t FrameType) IsReply() bool {
	return t == FrameAck || t == FrameNack
}

// String implements fmt.Stringer.
func (t FrameType) String() string {
	switch t {
	case FrameData:
		return "DATA"
	case FrameAck:
		return "ACK"
	case FrameNack:
		return "NACK"
	case FrameRequest:
		return "REQUEST"
	case FrameEmpty:
		return "EMPTY"
	}
	return fmt.Sprintf("TYPE(%#02x)", byte(t))
}

// ParseFrameType parses a frame type from a type letter or its name.
func ParseFrameType(s string) (FrameType, error) {
	switch s {
	case "D", "d", "DATA", "data":
		return FrameData, nil
	case "K", "k", "ACK", "ack":
		return FrameAck, nil
	case "N", "n", "NACK", "nack":
		return FrameNack, nil
	case "R", "r", "REQUEST", "request", "req":
		return FrameRequest, nil
	case "E", "e", "EMPTY", "empty":
		return FrameEmpty, nil
	}
	return 0, fmt.Errorf("unknown frame type %q", s)
}

// Frame is one sub-frame inside a packet payload.
type Frame struct {
	Type    FrameType
	Hash    byte
	Command byte
	// Payload aliases the receive buffer when the frame is dispatched,
	// copy it if it's needed after the handler returns.
	Payload []byte
}

// Len returns the encoded length of the frame.
func (f *Frame) Len() int {
	if f.Type != FrameData {
		return FrameHeadLen
	}
	return FrameHeadLen + len(f.Payload)
}

// String implements fmt.Stringer.
func (f *Frame) String() string {
	return fmt.Sprintf("%s %s/%d %x", f.Type, HashString(f.Hash), f.Command, f.Payload)
}

// HashString formats a hash, printable hashes are shown as characters.
func HashString(hash byte) string {
	if hash > ' ' && hash < 0x7f {
		return string(rune(hash))
	}
	return strconv.Itoa(int(hash))
}

// ParseHash parses a hash from a single character or a number.
func ParseHash(s string) (byte, error) {
	if len(s) == 1 && (s[0] < '0' || s[0] > '9') {
		return s[0], nil
	}
	n, err := strconv.ParseUint(s, 0, 8)
	if err != nil {
		return 0, fmt.Errorf("invalid hash %q: %v", s, err)
	}
	return byte(n), nil
}

// NextFrame reads the sub-frame at the beginning of p and returns the
// remaining bytes. A length below the head size or past the end of p can't
// be trusted and fails with ErrMalformedFrame.
func NextFrame(p []byte) (f Frame, rest []byte, err error) {
	if len(p) < FrameHeadLen {
		return f, nil, ErrMalformedFrame
	}
	l := int(p[0])
	if l < FrameHeadLen || l > len(p) {
		return f, nil, ErrMalformedFrame
	}
	f.Type, f.Hash, f.Command = FrameType(p[1]), p[2], p[3]
	if l > FrameHeadLen {
		f.Payload = p[FrameHeadLen:l]
	}
	return f, p[l:], nil
}

// AppendPacket encodes frames into a physical packet. It's a convenience
// for tests and tools, the link itself always uses a Builder.
func AppendPacket(dst []byte, frames ...Frame) []byte {
	start := len(dst)
	dst = append(dst, Header, 0)
	for _, f := range frames {
		dst = append(dst, byte(f.Len()), byte(f.Type), f.Hash, f.Command)
		if f.Type == FrameData {
			dst = append(dst, f.Payload...)
		}
	}
	payload := dst[start+HeaderLen:]
	dst[start+1] = byte(len(payload))
	return append(dst, Checksum(payload))
}
