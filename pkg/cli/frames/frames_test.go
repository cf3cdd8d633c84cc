package frames

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/orbus/pkg/l0/catalog"
	"github.com/robotalks/orbus/pkg/l0/comm"
)

func TestDecode(t *testing.T) {
	f := comm.Frame{Type: comm.FrameData, Hash: catalog.System, Command: catalog.SystemParameter, Payload: []byte{0x10, 0, 0x20, 0}}
	v, err := Decode(&f)
	require.NoError(t, err)
	require.Equal(t, &catalog.SystemParameterMsg{FreqCPU: 16, FreqSystem: 32}, v)

	f.Payload = f.Payload[:3]
	_, err = Decode(&f)
	require.Error(t, err)

	v, err = Decode(&comm.Frame{Type: comm.FrameData, Hash: 'x', Command: 1})
	require.NoError(t, err)
	require.Nil(t, v)
	v, err = Decode(&comm.Frame{Type: comm.FrameRequest, Hash: catalog.System, Command: catalog.SystemParameter})
	require.NoError(t, err)
	require.Nil(t, v)
}

func TestFormat(t *testing.T) {
	f := comm.Frame{Type: comm.FrameData, Hash: catalog.System, Command: catalog.SystemParameter, Payload: []byte{0x10, 0, 0x20, 0}}
	require.Equal(t, "DATA S/6 10002000 parameter &{FreqCPU:16 FreqSystem:32}", Format(&f, false))
	require.JSONEq(t,
		`{"type":"DATA","hash":"S","command":6,"name":"parameter","payload":"10002000","value":{"FreqCPU":16,"FreqSystem":32}}`,
		Format(&f, true))

	ack := comm.Frame{Type: comm.FrameAck, Hash: 'x', Command: 2}
	require.Equal(t, "ACK x/2 ", Format(&ack, false))
	require.JSONEq(t, `{"type":"ACK","hash":"x","command":2}`, Format(&ack, true))
}
