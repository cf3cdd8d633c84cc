package catalog

// Motor commands, packed with the motor index by MotorCommand.
const (
	MotorMeasure    byte = 0
	MotorReference  byte = 1
	MotorControl    byte = 2
	MotorDiagnostic byte = 3
	MotorParameter  byte = 4
	MotorConstraint byte = 5
	MotorEmergency  byte = 6
	MotorState      byte = 7
	MotorPosReset   byte = 8
	MotorPosPID     byte = 9
	MotorPosRef     byte = 10
	MotorVelPID     byte = 11
	MotorVelRef     byte = 12
	MotorCurrentPID byte = 13
	MotorCurrentRef byte = 14
	MotorTorqueRef  byte = 15
)

// Motor control states.
const (
	MotorStateEmergency MotorStateMsg = -1
	MotorStateDisable   MotorStateMsg = 0
	MotorStatePosition  MotorStateMsg = 1
	MotorStateVelocity  MotorStateMsg = 2
	MotorStateCurrent   MotorStateMsg = 3
	MotorStateDirect    MotorStateMsg = 4
)

// MotorControlMsg is a reference or measure, the unit depends on command.
type MotorControlMsg int32

// MotorStateMsg is the control state of one motor.
type MotorStateMsg int8

// MotorMsg is the status of one motor.
type MotorMsg struct {
	State         MotorStateMsg
	PWM           int32
	Effort        int32
	Current       int32
	Velocity      int32
	Position      float32
	PositionDelta float32
}

// MotorDiagnosticMsg reports power, voltage and temperature.
type MotorDiagnosticMsg struct {
	Watt        int32
	Volt        uint16
	Temperature uint16
	TimeControl uint32
}

// MotorEncoderType describes the encoder mounting.
type MotorEncoderType struct {
	Position uint8
	ZIndex   uint8
	Channels uint8
	_        uint8
}

// MotorEncoderMsg configures the encoder.
type MotorEncoderMsg struct {
	CPR  uint16
	Type MotorEncoderType
}

// MotorBridgeMsg configures the H-bridge.
type MotorBridgeMsg struct {
	Enable        uint8
	PWMDeadZone   uint16
	PWMFrequency  uint16
	VoltOffset    float32
	VoltGain      float32
	CurrentOffset float32
	CurrentGain   float32
}

// MotorParameterMsg collects bridge and encoder configuration.
type MotorParameterMsg struct {
	Ratio    float32
	Rotation int8
	Bridge   MotorBridgeMsg
	Encoder  MotorEncoderMsg
}

// MotorEmergencyMsg configures emergency stop.
type MotorEmergencyMsg struct {
	SlopeTime float32
	BridgeOff float32
	Timeout   uint16
}

// MotorPIDMsg configures a PID controller.
type MotorPIDMsg struct {
	Kp        float32
	Ki        float32
	Kd        float32
	Kaw       float32
	Frequency uint32
	Enable    uint8
}

var motorMessages = map[byte]message{
	MotorMeasure:    {"measure", MotorMsg{}},
	MotorReference:  {"reference", MotorControlMsg(0)},
	MotorControl:    {"control", MotorControlMsg(0)},
	MotorDiagnostic: {"diagnostic", MotorDiagnosticMsg{}},
	MotorParameter:  {"parameter", MotorParameterMsg{}},
	MotorConstraint: {"constraint", MotorMsg{}},
	MotorEmergency:  {"emergency", MotorEmergencyMsg{}},
	MotorState:      {"state", MotorStateMsg(0)},
	MotorPosReset:   {"position_reset", MotorControlMsg(0)},
	MotorPosPID:     {"position_pid", MotorPIDMsg{}},
	MotorPosRef:     {"position_ref", MotorControlMsg(0)},
	MotorVelPID:     {"velocity_pid", MotorPIDMsg{}},
	MotorVelRef:     {"velocity_ref", MotorControlMsg(0)},
	MotorCurrentPID: {"current_pid", MotorPIDMsg{}},
	MotorCurrentRef: {"current_ref", MotorControlMsg(0)},
	MotorTorqueRef:  {"torque_ref", MotorControlMsg(0)},
}
