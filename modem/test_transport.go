package modem

import (
	"context"
	"io"
	"strings"
	"sync"
	"time"
)

// testReadTimeout stands in for the serial read timeout.
const testReadTimeout = 10 * time.Millisecond

// Responder produces the modem's reply to one write. It receives the raw
// written text, CRLF included for commands. An empty reply sends nothing.
type Responder func(written string) string

// Script maps command text, without CRLF, or raw data to a canned reply.
// Unknown writes get no reply.
type Script map[string]string

func (s Script) Respond(written string) string {
	return s[strings.TrimSuffix(written, "\r\n")]
}

// TestTransport is an in-memory modem for tests. Reads wait briefly for
// queued data and return empty otherwise, like a serial port with a read
// timeout, so the Loop can run against it. Writes are recorded and answered
// by the configured Responder.
type TestTransport struct {
	mu        sync.Mutex
	readChan  chan []byte
	closed    bool
	respond   Responder
	writes    []string
	flushes   int
	remainder []byte
}

// NewTestTransport creates a new test transport.
// Exported for use by tests in other packages.
func NewTestTransport() *TestTransport {
	return &TestTransport{
		readChan: make(chan []byte, 256),
	}
}

// SetResponder installs r. Passing nil silences the transport.
func (t *TestTransport) SetResponder(r Responder) {
	t.mu.Lock()
	t.respond = r
	t.mu.Unlock()
}

func (t *TestTransport) Write(p []byte) (n int, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return 0, io.ErrClosedPipe
	}
	written := string(p)
	t.writes = append(t.writes, written)
	if t.respond != nil {
		if reply := t.respond(written); reply != "" {
			t.readChan <- []byte(reply)
		}
	}
	return len(p), nil
}

func (t *TestTransport) Read(p []byte) (n int, err error) {
	if len(t.remainder) == 0 {
		select {
		case data, ok := <-t.readChan:
			if !ok {
				return 0, io.EOF
			}
			t.remainder = data
		case <-time.After(testReadTimeout):
			return 0, nil
		}
	}
	n = copy(p, t.remainder)
	t.remainder = t.remainder[n:]
	return n, nil
}

func (t *TestTransport) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return nil
	}
	t.closed = true
	close(t.readChan)
	return nil
}

// ResetInputBuffer discards everything queued and not read yet. Like Read
// it must be called from the reading goroutine.
func (t *TestTransport) ResetInputBuffer() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.flushes++
	t.remainder = nil
	for {
		select {
		case _, ok := <-t.readChan:
			if !ok {
				return nil
			}
		default:
			return nil
		}
	}
}

// Inject queues data to be read by the transport.
// This simulates unsolicited output from the modem.
func (t *TestTransport) Inject(data string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.closed {
		t.readChan <- []byte(data)
	}
}

// Writes returns every write so far, in order.
func (t *TestTransport) Writes() []string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]string(nil), t.writes...)
}

// Commands returns the writes that were AT commands, without CRLF.
func (t *TestTransport) Commands() []string {
	var cmds []string
	for _, w := range t.Writes() {
		if strings.HasPrefix(w, "AT") && strings.HasSuffix(w, "\r\n") {
			cmds = append(cmds, strings.TrimSuffix(w, "\r\n"))
		}
	}
	return cmds
}

// Flushes returns how often ResetInputBuffer was called.
func (t *TestTransport) Flushes() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.flushes
}

// Dialer returns a Dialer handing out t.
func (t *TestTransport) Dialer() Dialer {
	return testDialer{t}
}

type testDialer struct{ t *TestTransport }

func (d testDialer) Dial(context.Context) (Transport, error) { return d.t, nil }
