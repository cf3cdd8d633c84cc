package comm

import (
	"math"
	"sync/atomic"
)

// Counter identifies one link statistic.
type Counter int

// Counters.
const (
	CounterPackets        Counter = iota // valid packets received
	CounterHeaderErrors                  // bytes rejected waiting for Header
	CounterLengthErrors                  // packets with length above capacity
	CounterChecksumErrors                // packets with checksum mismatch
	CounterIdleTimeouts                  // partial packets dropped on idle
	CounterFrames                        // sub-frames dispatched to handlers
	CounterAcks                          // keep-alive ACKs queued
	CounterNacks                         // unknown hash NACKs queued
	CounterMalformed                     // packets with untrusted sub-frame length
	CounterOverflows                     // frames rejected by a full transmit buffer
	CounterSent                          // packets transmitted
	numCounters
)

var counterNames = [numCounters]string{
	"packets",
	"header_errors",
	"length_errors",
	"checksum_errors",
	"idle_timeouts",
	"frames",
	"acks",
	"nacks",
	"malformed",
	"overflows",
	"sent",
}

// Counters lists all counters.
func Counters() []Counter {
	cs := make([]Counter, numCounters)
	for i := range cs {
		cs[i] = Counter(i)
	}
	return cs
}

// String implements fmt.Stringer.
func (c Counter) String() string {
	if c >= 0 && c < numCounters {
		return counterNames[c]
	}
	return "unknown"
}

// Stats collects link statistics. It's safe to read from other goroutines.
type Stats struct {
	counters [numCounters]uint64
}

// Add increases a counter.
func (s *Stats) Add(c Counter, delta uint64) {
	if s != nil {
		atomic.AddUint64(&s.counters[c], delta)
	}
}

// Get reads a counter.
func (s *Stats) Get(c Counter) uint64 {
	if s == nil {
		return 0
	}
	return atomic.LoadUint64(&s.counters[c])
}

// Snapshot reads all counters.
func (s *Stats) Snapshot() map[Counter]uint64 {
	m := make(map[Counter]uint64, numCounters)
	for _, c := range Counters() {
		m[c] = s.Get(c)
	}
	return m
}

// CountStatus updates counters from a decoding result.
func (s *Stats) CountStatus(st Status) {
	switch st {
	case StatusDone:
		s.Add(CounterPackets, 1)
	case StatusErrHeader:
		s.Add(CounterHeaderErrors, 1)
	case StatusErrLength:
		s.Add(CounterLengthErrors, 1)
	case StatusErrChecksum:
		s.Add(CounterChecksumErrors, 1)
	}
}

// SerialErrorSlots is the number of int16 slots in a serial error report.
const SerialErrorSlots = 13

// Serial reports the error counters in the layout of the system serial
// error message, saturated to int16.
func (s *Stats) Serial() [SerialErrorSlots]int16 {
	var r [SerialErrorSlots]int16
	for i, c := range []Counter{
		CounterHeaderErrors,
		CounterLengthErrors,
		CounterChecksumErrors,
		CounterIdleTimeouts,
		CounterMalformed,
		CounterOverflows,
		CounterNacks,
	} {
		v := s.Get(c)
		if v > math.MaxInt16 {
			v = math.MaxInt16
		}
		r[i] = int16(v)
	}
	return r
}
