package peripheral

import (
	"github.com/robotalks/orbus/pkg/l0/catalog"
	"github.com/robotalks/orbus/pkg/l0/comm"
)

// BoardInfo is reported by system services.
type BoardInfo struct {
	Date    string `yaml:"date"`
	Version string `yaml:"version"`
	Author  string `yaml:"author"`
	Type    string `yaml:"type"`
	Name    string `yaml:"name"`
}

// System implements the System messages.
type System struct {
	Info      BoardInfo
	Parameter catalog.SystemParameterMsg
	// Stats is reported as serial errors.
	Stats *comm.Stats
	// Reset is called on reset service, optional.
	Reset func()
}

// Request implements Service.
func (s *System) Request(w comm.FrameWriter, command byte) error {
	switch command {
	case catalog.SystemParameter:
		return reply(w, catalog.System, command, &s.Parameter)
	case catalog.SystemSerialError:
		msg := catalog.SerialErrorMsg{Number: s.Stats.Serial()}
		return reply(w, catalog.System, command, &msg)
	}
	return ErrUnsupported
}

// Receive implements Service.
func (s *System) Receive(w comm.FrameWriter, command byte, payload []byte) (bool, error) {
	switch command {
	case catalog.SystemService:
		var msg catalog.ServiceMsg
		if err := catalog.Unmarshal(payload, &msg); err != nil {
			return false, err
		}
		return s.service(w, &msg)
	case catalog.SystemParameter:
		return false, catalog.Unmarshal(payload, &s.Parameter)
	}
	return false, ErrUnsupported
}

func (s *System) service(w comm.FrameWriter, msg *catalog.ServiceMsg) (bool, error) {
	var text string
	switch msg.Code {
	case catalog.ServiceReset:
		if s.Reset != nil {
			s.Reset()
		}
		return false, nil
	case catalog.ServiceDate:
		text = s.Info.Date
	case catalog.ServiceVersion:
		text = s.Info.Version
	case catalog.ServiceAuthor:
		text = s.Info.Author
	case catalog.ServiceBoardType:
		text = s.Info.Type
	case catalog.ServiceBoardName:
		text = s.Info.Name
	default:
		return false, ErrUnsupported
	}
	msg.SetText(text)
	return true, reply(w, catalog.System, catalog.SystemService, msg)
}
