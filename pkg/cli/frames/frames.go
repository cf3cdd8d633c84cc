// Package frames renders frames for display.
package frames

import (
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/robotalks/orbus/pkg/l0/catalog"
	"github.com/robotalks/orbus/pkg/l0/comm"
)

// View is the JSON form of a frame.
type View struct {
	Type    string      `json:"type"`
	Hash    string      `json:"hash"`
	Command byte        `json:"command"`
	Name    string      `json:"name,omitempty"`
	Payload string      `json:"payload,omitempty"`
	Value   interface{} `json:"value,omitempty"`
}

// Decode decodes the payload of a Data frame of a known message.
// nil is returned for other frames.
func Decode(f *comm.Frame) (interface{}, error) {
	if f.Type != comm.FrameData {
		return nil, nil
	}
	v, ok := catalog.New(f.Hash, f.Command)
	if !ok {
		return nil, nil
	}
	if err := catalog.Unmarshal(f.Payload, v); err != nil {
		return nil, err
	}
	return v, nil
}

// ViewOf builds the View of f.
func ViewOf(f *comm.Frame) View {
	view := View{
		Type:    f.Type.String(),
		Hash:    comm.HashString(f.Hash),
		Command: f.Command,
		Payload: hex.EncodeToString(f.Payload),
	}
	view.Name, _ = catalog.Name(f.Hash, f.Command)
	if v, err := Decode(f); err == nil {
		view.Value = v
	}
	return view
}

// Format formats a frame for display.
func Format(f *comm.Frame, asJSON bool) string {
	view := ViewOf(f)
	if asJSON {
		out, err := json.Marshal(view)
		if err != nil {
			return err.Error()
		}
		return string(out)
	}
	s := f.String()
	if view.Name != "" {
		s += " " + view.Name
	}
	if view.Value != nil {
		s += fmt.Sprintf(" %+v", view.Value)
	}
	return s
}
