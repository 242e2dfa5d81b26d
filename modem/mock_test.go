package modem_test

import (
	"io"
	"strconv"
	"time"

	gomock "go.uber.org/mock/gomock"

	"i4.energy/across/telemetrygw/modem"
)

// mockLine wires a MockTransport like a serial port: Read waits briefly for
// the reply an expected Write has queued.
type mockLine struct {
	transport *modem.MockTransport
	replies   chan []byte
}

func newMockLine(ctrl *gomock.Controller) *mockLine {
	l := &mockLine{
		transport: modem.NewMockTransport(ctrl),
		replies:   make(chan []byte, 32),
	}
	l.transport.EXPECT().Read(gomock.Any()).DoAndReturn(func(p []byte) (int, error) {
		select {
		case data, ok := <-l.replies:
			if !ok {
				return 0, io.EOF
			}
			return copy(p, data), nil
		case <-time.After(10 * time.Millisecond):
			return 0, nil
		}
	}).AnyTimes()
	l.transport.EXPECT().Close().DoAndReturn(func() error {
		close(l.replies)
		return nil
	}).MaxTimes(1)
	return l
}

type MockSequenceBuilder struct {
	line  *mockLine
	calls []any
}

func NewMockSequence(line *mockLine) *MockSequenceBuilder {
	return &MockSequenceBuilder{
		line:  line,
		calls: []any{},
	}
}

// Command expects cmd followed by CRLF and answers with reply.
func (b *MockSequenceBuilder) Command(cmd, reply string) *MockSequenceBuilder {
	return b.expectWrite(cmd+"\r\n", reply)
}

// Data expects a raw data write and answers with reply.
func (b *MockSequenceBuilder) Data(data, reply string) *MockSequenceBuilder {
	return b.expectWrite(data, reply)
}

func (b *MockSequenceBuilder) AT() *MockSequenceBuilder {
	return b.Command("AT", "AT\r\nOK\r\n")
}

func (b *MockSequenceBuilder) SimReady() *MockSequenceBuilder {
	return b.Command("AT+CPIN?", "+CPIN: READY\r\nOK\r\n")
}

func (b *MockSequenceBuilder) SimPinRequired() *MockSequenceBuilder {
	return b.Command("AT+CPIN?", "+CPIN: SIM PIN\r\nOK\r\n")
}

func (b *MockSequenceBuilder) Signal(rssi int) *MockSequenceBuilder {
	return b.Command("AT+CSQ", "+CSQ: "+strconv.Itoa(rssi)+",99\r\nOK\r\n")
}

func (b *MockSequenceBuilder) Build() []any {
	return b.calls
}

func (b *MockSequenceBuilder) expectWrite(wire, reply string) *MockSequenceBuilder {
	b.calls = append(b.calls,
		b.line.transport.EXPECT().Write([]byte(wire)).DoAndReturn(func(p []byte) (int, error) {
			if reply != "" {
				b.line.replies <- []byte(reply)
			}
			return len(p), nil
		}),
	)
	return b
}
