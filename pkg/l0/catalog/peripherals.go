package catalog

// Peripherals commands, packed with the port by GPIOCommand.
const (
	PeripheralsGPIO        byte = 0
	PeripheralsGPIOSet     byte = 1
	PeripheralsGPIODigital byte = 2
	PeripheralsSerial      byte = 3
)

// GPIO configurations.
const (
	GPIOOutput uint8 = 0
	GPIOInput  uint8 = 1
	GPIOAnalog uint8 = 2
)

// GPIOPortMsg reports all digital ports.
type GPIOPortMsg struct {
	Len  uint8
	Port uint16
}

// GPIOSetMsg configures ports.
type GPIOSetMsg struct {
	Port GPIOPortMsg
	Type uint8
}

// GPIODigitalMsg is the value of one pin.
type GPIODigitalMsg uint16

// SerialMsg configures an auxiliary serial port.
type SerialMsg struct {
	Number   uint8
	Baud     uint32
	ByteConf int16
}

var peripheralMessages = map[byte]message{
	PeripheralsGPIO:        {"gpio", GPIOPortMsg{}},
	PeripheralsGPIOSet:     {"gpio_set", GPIOSetMsg{}},
	PeripheralsGPIODigital: {"gpio_digital", GPIODigitalMsg(0)},
	PeripheralsSerial:      {"serial", SerialMsg{}},
}
