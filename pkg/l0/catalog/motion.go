package catalog

// Motion commands.
const (
	MotionCoordinate        byte = 0
	MotionVelocity          byte = 1
	MotionParameterUnicycle byte = 2
	MotionState             byte = 3
	MotionVelocityRef       byte = 4
)

// High level control states.
const (
	MotionStateDisable  MotionStateMsg = 0
	MotionStateVelocity MotionStateMsg = 1
)

// CoordinateMsg is the odometry of the robot.
type CoordinateMsg struct {
	X     float32
	Y     float32
	Theta float32
	Space float32
}

// UnicycleMsg configures the differential drive.
type UnicycleMsg struct {
	RadiusRight float32
	RadiusLeft  float32
	Wheelbase   float32
	SpaceMin    float32
}

// VelocityMsg is linear and angular velocity.
type VelocityMsg struct {
	V float32
	W float32
}

// MotionStateMsg is the state of high level control.
type MotionStateMsg int8

var motionMessages = map[byte]message{
	MotionCoordinate:        {"coordinate", CoordinateMsg{}},
	MotionVelocity:          {"velocity", VelocityMsg{}},
	MotionParameterUnicycle: {"parameter_unicycle", UnicycleMsg{}},
	MotionState:             {"state", MotionStateMsg(0)},
	MotionVelocityRef:       {"velocity_ref", VelocityMsg{}},
}
