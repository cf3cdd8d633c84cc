package catalog

// System commands.
const (
	SystemService      byte = 0
	SystemTaskName     byte = 1
	SystemTaskTime     byte = 2
	SystemTaskPriority byte = 3
	SystemTaskFrq      byte = 4
	SystemTaskNum      byte = 5
	SystemParameter    byte = 6
	SystemSerialError  byte = 7
)

// Service codes of SystemService.
const (
	ServiceReset     byte = '*'
	ServiceDate      byte = 'd'
	ServiceVersion   byte = 'v'
	ServiceAuthor    byte = 'a'
	ServiceBoardType byte = 't'
	ServiceBoardName byte = 'n'
)

// Buffer sizes of system messages.
const (
	ServiceBufferLen  = 20
	TaskNameLen       = 20
	SerialErrorsCount = 13
)

// SystemParameterMsg reports clocks of the board.
type SystemParameterMsg struct {
	FreqCPU    uint16
	FreqSystem uint16
}

// SerialErrorMsg reports error counters of the serial link.
type SerialErrorMsg struct {
	Number [SerialErrorsCount]int16
}

// ServiceMsg requests or reports board information.
type ServiceMsg struct {
	Code   byte
	Buffer [ServiceBufferLen]byte
}

// Text returns the NUL terminated string in Buffer.
func (m *ServiceMsg) Text() string {
	for n, c := range m.Buffer {
		if c == 0 {
			return string(m.Buffer[:n])
		}
	}
	return string(m.Buffer[:])
}

// SetText stores s truncated to the buffer.
func (m *ServiceMsg) SetText(s string) {
	m.Buffer = [ServiceBufferLen]byte{}
	copy(m.Buffer[:], s)
}

// TaskMsg reads or writes one property of a firmware task.
type TaskMsg struct {
	Hash   uint8
	Number uint8
	Data   uint8
}

// TaskNameMsg reports the name of a firmware task.
type TaskNameMsg struct {
	Hash   uint8
	Number uint8
	Name   [TaskNameLen]byte
}

var systemMessages = map[byte]message{
	SystemService:      {"service", ServiceMsg{}},
	SystemTaskName:     {"task_name", TaskNameMsg{}},
	SystemTaskTime:     {"task_time", TaskMsg{}},
	SystemTaskPriority: {"task_priority", TaskMsg{}},
	SystemTaskFrq:      {"task_frequency", TaskMsg{}},
	SystemTaskNum:      {"task_number", TaskMsg{}},
	SystemParameter:    {"parameter", SystemParameterMsg{}},
	SystemSerialError:  {"serial_error", SerialErrorMsg{}},
}
