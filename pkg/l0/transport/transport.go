// Package transport opens byte streams links run over.
package transport

import (
	"fmt"
	"io"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"
)

// Schemes supported by Open.
const (
	SchemeSerial    = "serial"
	SchemeTCP       = "tcp"
	SchemeTCPListen = "tcp-listen"
	SchemeWS        = "ws"
	SchemeWSS       = "wss"
)

// DefaultDialTimeout is used when dialing TCP.
var DefaultDialTimeout = 5 * time.Second

// Open opens the byte stream specified by URL:
//
//	serial:///dev/ttyUSB0?baud=115200
//	tcp://host:port
//	tcp-listen://:port (waits for the first connection)
//	ws://host:port/path
func Open(rawURL string) (io.ReadWriteCloser, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link URL %q: %v", rawURL, err)
	}
	switch strings.ToLower(u.Scheme) {
	case SchemeSerial:
		return OpenSerial(u)
	case SchemeTCP:
		return net.DialTimeout("tcp", u.Host, DefaultDialTimeout)
	case SchemeTCPListen:
		return acceptOne(u.Host)
	case SchemeWS, SchemeWSS:
		return DialWebSocket(u)
	}
	return nil, fmt.Errorf("unsupported link scheme %q", u.Scheme)
}

func acceptOne(addr string) (io.ReadWriteCloser, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}
	defer ln.Close()
	glog.Infof("waiting for connection on %s", ln.Addr())
	conn, err := ln.Accept()
	if err != nil {
		return nil, err
	}
	glog.Infof("accepted %s", conn.RemoteAddr())
	return conn, nil
}

// DialWebSocket connects to a WebSocket endpoint carrying binary frames.
func DialWebSocket(u *url.URL) (io.ReadWriteCloser, error) {
	origin := *u
	origin.Scheme, origin.Path, origin.RawQuery = "http", "/", ""
	if u.Scheme == SchemeWSS {
		origin.Scheme = "https"
	}
	conn, err := websocket.Dial(u.String(), "", origin.String())
	if err != nil {
		return nil, err
	}
	conn.PayloadType = websocket.BinaryFrame
	return conn, nil
}
