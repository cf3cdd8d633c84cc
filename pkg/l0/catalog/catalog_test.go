package catalog

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/orbus/pkg/l0/comm"
)

func TestLength(t *testing.T) {
	testCases := []struct {
		hash    byte
		command byte
		length  int
	}{
		{System, SystemService, 21},
		{System, SystemTaskName, 22},
		{System, SystemTaskTime, 3},
		{System, SystemParameter, 4},
		{System, SystemSerialError, 26},
		{Motion, MotionCoordinate, 16},
		{Motion, MotionVelocity, 8},
		{Motion, MotionParameterUnicycle, 16},
		{Motion, MotionState, 1},
		{Motion, MotionVelocityRef, 8},
		{Motor, MotorCommand(0, MotorMeasure), 25},
		{Motor, MotorCommand(1, MotorDiagnostic), 12},
		{Motor, MotorCommand(2, MotorParameter), 32},
		{Motor, MotorCommand(3, MotorEmergency), 10},
		{Motor, MotorCommand(4, MotorVelPID), 21},
		{Motor, MotorCommand(7, MotorVelRef), 4},
		{Motor, MotorCommand(0, MotorState), 1},
		{Navigation, Sensor, 12},
		{Navigation, SensorInfrared, 28},
		{Navigation, SensorHumidity, 4},
		{Navigation, SensorParameter, 24},
		{Navigation, SensorAutosend, 10},
		{Navigation, SensorEnable, 1},
		{Peripherals, GPIOCommand(PeripheralsGPIO, 1), 3},
		{Peripherals, GPIOCommand(PeripheralsGPIOSet, 2), 4},
		{Peripherals, GPIOCommand(PeripheralsGPIODigital, 7), 2},
		{Peripherals, GPIOCommand(PeripheralsSerial, 0), 7},
	}
	for _, tc := range testCases {
		name, ok := Name(tc.hash, tc.command)
		require.True(t, ok)
		t.Run(comm.HashString(tc.hash)+"/"+name, func(t *testing.T) {
			l, ok := Length(tc.hash, tc.command)
			require.True(t, ok)
			require.Equal(t, tc.length, l)
			v, ok := New(tc.hash, tc.command)
			require.True(t, ok)
			p, err := Marshal(v)
			require.NoError(t, err)
			require.Len(t, p, tc.length)
		})
	}

	_, ok := Length(System, 99)
	require.False(t, ok)
	_, ok = Length('X', 0)
	require.False(t, ok)
	_, ok = New('X', 0)
	require.False(t, ok)
}

func TestCommandMaps(t *testing.T) {
	require.Equal(t, byte(0x63), MotorCommand(3, MotorVelRef))
	motor, cmd := SplitMotorCommand(0x63)
	require.Equal(t, byte(3), motor)
	require.Equal(t, MotorVelRef, cmd)
	require.Equal(t, byte(0xf8|7), MotorCommand(0xff, 0x1f))

	require.Equal(t, byte(0x42), GPIOCommand(PeripheralsGPIODigital, 2))
	cmd, port := SplitGPIOCommand(0x42)
	require.Equal(t, PeripheralsGPIODigital, cmd)
	require.Equal(t, byte(2), port)
	require.Equal(t, byte(0xff), GPIOCommand(0xff, 7))
}

func TestEntries(t *testing.T) {
	entries := Entries()
	require.NotEmpty(t, entries)
	for n, e := range entries {
		if n > 0 {
			require.True(t, entries[n-1].Hash <= e.Hash)
		}
		l, ok := Length(e.Hash, e.Command)
		require.True(t, ok, e.String())
		require.Equal(t, e.Length, l)
	}
	name, ok := FamilyName(Motor)
	require.True(t, ok)
	require.Equal(t, "motor", name)
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(&comm.Frame{Type: comm.FrameData, Hash: Motion, Command: MotionState, Payload: []byte{1}}))
	require.NoError(t, Validate(&comm.Frame{Type: comm.FrameRequest, Hash: Motion, Command: MotionVelocity}))
	require.NoError(t, Validate(&comm.Frame{Type: comm.FrameData, Hash: 'X', Command: 1, Payload: []byte{1}}))
	err := Validate(&comm.Frame{Type: comm.FrameData, Hash: Motion, Command: MotionVelocity, Payload: []byte{1}})
	require.Equal(t, &LengthError{Hash: Motion, Command: MotionVelocity, Expect: 8, Actual: 1}, err)
	require.Equal(t, "M/1: payload length 1, expect 8", err.Error())
}

func TestUnmarshal(t *testing.T) {
	var v VelocityMsg
	require.Error(t, Unmarshal([]byte{1, 2, 3}, &v))
	require.NoError(t, Unmarshal([]byte{0, 0, 0x80, 0x3f, 0, 0, 0, 0xc0}, &v))
	require.Equal(t, VelocityMsg{V: 1, W: -2}, v)

	var svc ServiceMsg
	svc.Code = ServiceVersion
	svc.SetText("v1.2.3")
	require.Equal(t, "v1.2.3", svc.Text())
	svc.SetText("a board name longer than the buffer")
	require.Len(t, svc.Text(), ServiceBufferLen)
}

func TestRoundTripOverLink(t *testing.T) {
	msg := MotorMsg{
		State:         MotorStateVelocity,
		PWM:           -1200,
		Effort:        12,
		Current:       300,
		Velocity:      -5000,
		Position:      3.25,
		PositionDelta: -0.5,
	}
	payload, err := Marshal(&msg)
	require.NoError(t, err)

	var wire, replies bytes.Buffer
	sender := comm.NewLink(&wire)
	command := MotorCommand(1, MotorMeasure)
	require.NoError(t, sender.Send(comm.Frame{Type: comm.FrameData, Hash: Motor, Command: command, Payload: payload}))

	var received []MotorMsg
	receiver := comm.NewLink(&replies)
	require.NoError(t, receiver.Register(Motor, comm.HandleFrameFunc(func(w comm.FrameWriter, f *comm.Frame) {
		require.NoError(t, Validate(f))
		v, ok := New(f.Hash, f.Command)
		require.True(t, ok)
		require.NoError(t, Unmarshal(f.Payload, v))
		received = append(received, *v.(*MotorMsg))
	})))
	require.NoError(t, receiver.FeedBytes(wire.Bytes()))
	require.Equal(t, []MotorMsg{msg}, received)
	require.Zero(t, replies.Len())
}
