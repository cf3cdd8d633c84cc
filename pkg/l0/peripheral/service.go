// Package peripheral implements the board side of well-known L0 messages,
// used to emulate a peripheral board over a link.
package peripheral

import (
	"errors"

	"github.com/golang/glog"

	"github.com/robotalks/orbus/pkg/l0/catalog"
	"github.com/robotalks/orbus/pkg/l0/comm"
)

// ErrUnsupported indicates the command is not supported by the service.
var ErrUnsupported = errors.New("unsupported command")

// Service handles the frames of one hash, split into requests and data
// like a firmware module does.
type Service interface {
	// Request replies the data of command.
	Request(w comm.FrameWriter, command byte) error
	// Receive accepts data of command, a nil error is acknowledged unless
	// the service already replied.
	Receive(w comm.FrameWriter, command byte, payload []byte) (replied bool, err error)
}

// Handler adapts a Service to comm.FrameHandler. Data with a payload length
// not matching the catalog and failed commands are answered with NACK.
func Handler(s Service) comm.FrameHandler {
	return comm.HandleFrameFunc(func(w comm.FrameWriter, f *comm.Frame) {
		var err error
		switch f.Type {
		case comm.FrameRequest:
			err = s.Request(w, f.Command)
		case comm.FrameData:
			if err = catalog.Validate(f); err != nil {
				break
			}
			var replied bool
			if replied, err = s.Receive(w, f.Command, f.Payload); err == nil && !replied {
				err = w.AddRequest(comm.FrameAck, f.Hash, f.Command)
			}
		default:
			return
		}
		if err != nil {
			if glog.V(1) {
				glog.Infof("%s: %v", f, err)
			}
			if err != comm.ErrBufferFull {
				w.AddRequest(comm.FrameNack, f.Hash, f.Command)
			}
		}
	})
}

func reply(w comm.FrameWriter, hash, command byte, v interface{}) error {
	p, err := catalog.Marshal(v)
	if err != nil {
		return err
	}
	return w.AddData(hash, command, p)
}
