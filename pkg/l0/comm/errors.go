package comm

import (
	"errors"
	"fmt"
)

var (
	// ErrHeader indicates the first byte of a packet is not the Header.
	ErrHeader = errors.New("bad header")
	// ErrLength indicates the declared payload length exceeds the receive buffer.
	ErrLength = errors.New("bad length")
	// ErrChecksum indicates the trailing checksum mismatches the payload.
	ErrChecksum = errors.New("checksum mismatch")
	// ErrTableFull indicates there's no free slot to register a handler.
	ErrTableFull = errors.New("handler table full")
	// ErrReservedHash indicates the hash is reserved for keep-alive probes.
	ErrReservedHash = errors.New("reserved hash")
	// ErrHashRegistered indicates a handler is already registered for the hash.
	ErrHashRegistered = errors.New("hash already registered")
	// ErrBufferFull indicates the transmit buffer can't hold the frame.
	ErrBufferFull = errors.New("buffer full")
	// ErrMalformedFrame indicates a sub-frame length can't be trusted.
	ErrMalformedFrame = errors.New("malformed frame")
	// ErrIdleTimeout indicates a partial packet was dropped after the link
	// went idle.
	ErrIdleTimeout = errors.New("idle timeout")
	// ErrNoReply indicates no reply was received for a request.
	ErrNoReply = errors.New("no reply")
)

// NackError is returned when peer replies a request with NACK,
// which means no handler is registered for the hash on peer side.
type NackError struct {
	Hash    byte
	Command byte
}

// Error implements error.
func (e *NackError) Error() string {
	return fmt.Sprintf("nack hash %s command %d", HashString(e.Hash), e.Command)
}
