// Package bus talks to the pump controller over its serial link.
//
// Every message is a fixed 22 character ASCII frame:
//
//	T IIII # AAAA BBBB CCCC DDDD
//
// T is the message type digit, IIII the hex message id and AAAA..DDDD four
// hex data words. There are no separators and no line terminator.
package bus

import (
	"errors"
	"fmt"
	"strconv"
)

const FrameLen = 22

type Type uint8

const (
	TypeCommand Type = 0
	TypeData    Type = 1
)

type ID uint16

const (
	IDHeartbeat ID = iota
	IDBME280
	IDTankLevel
	IDMode
	IDComms
	IDSpare
	IDBattery
	IDOutputs
	IDInputs420
	IDAnalogInputs
	IDPT1000
	IDStatus
	IDSystem
	IDSettings
)

var idNames = map[ID]string{
	IDHeartbeat:    "heartbeat",
	IDBME280:       "bme280",
	IDTankLevel:    "tank_level",
	IDMode:         "mode",
	IDComms:        "comms",
	IDSpare:        "spare",
	IDBattery:      "battery",
	IDOutputs:      "outputs",
	IDInputs420:    "inputs_420",
	IDAnalogInputs: "analog_inputs",
	IDPT1000:       "pt1000",
	IDStatus:       "status",
	IDSystem:       "system",
	IDSettings:     "settings",
}

func (id ID) String() string {
	if n, ok := idNames[id]; ok {
		return n
	}
	return fmt.Sprintf("id(%d)", uint16(id))
}

// System command words, sent in data word 0 of an IDSystem command.
const (
	SystemRun   uint16 = 0
	SystemStop  uint16 = 1
	SystemReset uint16 = 2
)

// System data words received from the controller.
const (
	SystemWakeUp uint16 = 0
	SystemSleep  uint16 = 1
)

var ErrBadFrame = errors.New("bad frame")

type Frame struct {
	Type Type
	ID   ID
	Data [4]uint16
}

// Command builds a command frame.
func Command(id ID, data ...uint16) Frame {
	return build(TypeCommand, id, data)
}

// Data builds a data frame.
func Data(id ID, data ...uint16) Frame {
	return build(TypeData, id, data)
}

func build(t Type, id ID, data []uint16) Frame {
	f := Frame{Type: t, ID: id}
	copy(f.Data[:], data)
	return f
}

// Encode returns the wire form.
func (f Frame) Encode() []byte {
	return []byte(f.String())
}

func (f Frame) String() string {
	return fmt.Sprintf("%d%04X#%04X%04X%04X%04X", f.Type, uint16(f.ID), f.Data[0], f.Data[1], f.Data[2], f.Data[3])
}

// Decode parses one frame.
func Decode(b []byte) (Frame, error) {
	if len(b) != FrameLen {
		return Frame{}, fmt.Errorf("%w: length %d", ErrBadFrame, len(b))
	}
	if !validStart(b) {
		return Frame{}, fmt.Errorf("%w: %q", ErrBadFrame, b)
	}

	id, err := strconv.ParseUint(string(b[1:5]), 16, 16)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: id %q", ErrBadFrame, b[1:5])
	}
	f := Frame{Type: Type(b[0] - '0'), ID: ID(id)}
	for i := range f.Data {
		off := 6 + 4*i
		v, err := strconv.ParseUint(string(b[off:off+4]), 16, 16)
		if err != nil {
			return Frame{}, fmt.Errorf("%w: data %q", ErrBadFrame, b[off:off+4])
		}
		f.Data[i] = uint16(v)
	}
	return f, nil
}

// validStart reports whether b begins like a frame: type digit, four bytes,
// then the separator.
func validStart(b []byte) bool {
	return len(b) > 5 && (b[0] == '0' || b[0] == '1') && b[5] == '#'
}
