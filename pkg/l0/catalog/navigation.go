package catalog

// Navigation commands.
const (
	Sensor          byte = 0
	SensorInfrared  byte = 1
	SensorHumidity  byte = 2
	SensorParameter byte = 3
	SensorAutosend  byte = 4
	SensorEnable    byte = 5
)

// Navigation buffer sizes.
const (
	InfraredCount = 7
	AutosendLen   = 10
)

// SensorMsg reports board sensors.
type SensorMsg struct {
	Temperature float32
	Voltage     float32
	Current     float32
}

// InfraredMsg reports infrared distances.
type InfraredMsg struct {
	Infrared [InfraredCount]float32
}

// HumidityMsg reports humidity.
type HumidityMsg float32

// SensorParameterMsg configures sensor gains.
type SensorParameterMsg struct {
	GainSharp       float32
	ExpSharp        float32
	GainTemperature float32
	GainVoltage     float32
	GainCurrent     float32
	GainHumidity    float32
}

// AutosendMsg lists commands the board sends periodically, -1 terminated.
type AutosendMsg struct {
	Packets [AutosendLen]int8
}

// SensorEnableMsg enables sensors.
type SensorEnableMsg uint8

var navigationMessages = map[byte]message{
	Sensor:          {"sensor", SensorMsg{}},
	SensorInfrared:  {"infrared", InfraredMsg{}},
	SensorHumidity:  {"humidity", HumidityMsg(0)},
	SensorParameter: {"parameter", SensorParameterMsg{}},
	SensorAutosend:  {"autosend", AutosendMsg{}},
	SensorEnable:    {"enable", SensorEnableMsg(0)},
}
