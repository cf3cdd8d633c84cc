package bridge

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/robotalks/orbus/pkg/l0/comm"
)

// Directions of topics, relative to the link.
const (
	// DirRx carries frames received from the link.
	DirRx = "rx"
	// DirTx carries frames to be sent over the link.
	DirTx = "tx"
)

// Topic identifies a frame on MQTT:
// <device>/<dir>/<type>/<hash>/<command>.
type Topic struct {
	Device  string
	Dir     string
	Type    comm.FrameType
	Hash    byte
	Command byte
}

// String formats the topic.
func (t Topic) String() string {
	return strings.Join([]string{
		t.Device,
		t.Dir,
		string(rune(t.Type)),
		comm.HashString(t.Hash),
		strconv.Itoa(int(t.Command)),
	}, "/")
}

// TopicOf creates the topic of a frame.
func TopicOf(device, dir string, f *comm.Frame) Topic {
	return Topic{Device: device, Dir: dir, Type: f.Type, Hash: f.Hash, Command: f.Command}
}

// Filter returns the subscription filter of all frames of a device in dir.
func Filter(device, dir string) string {
	return device + "/" + dir + "/+/+/+"
}

// ParseTopic parses a topic without prefix.
func ParseTopic(topic string) (t Topic, err error) {
	items := strings.Split(topic, "/")
	if len(items) < 5 {
		return t, fmt.Errorf("invalid topic %q", topic)
	}
	n := len(items) - 4
	t.Device, t.Dir = strings.Join(items[:n], "/"), items[n]
	if t.Dir != DirRx && t.Dir != DirTx {
		return t, fmt.Errorf("invalid direction %q", t.Dir)
	}
	if t.Type, err = comm.ParseFrameType(items[n+1]); err != nil {
		return
	}
	if t.Hash, err = comm.ParseHash(items[n+2]); err != nil {
		return
	}
	cmd, err := strconv.ParseUint(items[n+3], 0, 8)
	if err != nil {
		return t, fmt.Errorf("invalid command %q: %v", items[n+3], err)
	}
	t.Command = byte(cmd)
	return t, nil
}
