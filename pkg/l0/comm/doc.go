// Package comm provides the L0 serial link protocol.
package comm

// L0 protocol is communicated between L0 firmware (motor drivers, sensors,
// system services) and the L1 controller over a peer-to-peer byte stream
// (e.g. serial port).
//
// A physical packet is
//
//	[0]      Header '#'
//	[1]      payload length L
//	[2..2+L) payload
//	[2+L]    checksum, sum of payload bytes mod 256
//
// and the payload is a sequence of sub-frames
//
//	[0] length (including the 4 header bytes)
//	[1] type   'D' data, 'K' ack, 'N' nack, 'R' request, 'E' empty
//	[2] hash   routing key, 0 is the keep-alive probe
//	[3] command
//	[4..length) data, only for 'D'
//
// Sub-frames are routed by hash to the handlers registered on a Mux, and
// replies are accumulated in a Builder and sent back as one packet.
