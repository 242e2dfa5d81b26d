package modem

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/atomic"

	"i4.energy/across/telemetrygw/at"
)

// Channel is exclusive use of the modem's command channel, obtained from
// Modem.Acquire. Several commands issued on the same Channel form one
// atomic sequence with respect to other callers.
type Channel struct {
	m        *Modem
	released atomic.Bool
}

// Response is the accumulated reply to one command.
type Response struct {
	// Lines in arrival order, terminal marker included.
	Lines []string
	// Final is the terminal marker, empty for a partial response.
	Final string
	// Partial is set when the deadline passed after at least one line but
	// before any terminal marker.
	Partial bool
}

// Text returns every line followed by a newline.
func (r Response) Text() string {
	var b strings.Builder
	for _, l := range r.Lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}

func (r Response) OK() bool { return r.Final == at.OK }

func (r Response) Prompt() bool { return r.Final == at.Prompt }

// Failed reports a terminal error marker (ERROR, +CME ERROR, +CMS ERROR).
func (r Response) Failed() bool {
	return r.Final != "" && !r.OK() && !r.Prompt()
}

func (r Response) Contains(s string) bool {
	for _, l := range r.Lines {
		if strings.Contains(l, s) {
			return true
		}
	}
	return false
}

// Find returns the remainder of the first line starting with prefix.
func (r Response) Find(prefix string) (string, bool) {
	for _, l := range r.Lines {
		if strings.HasPrefix(l, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(l, prefix)), true
		}
	}
	return "", false
}

// Execute sends cmd terminated by CRLF and collects reply lines until OK,
// ERROR, +CME ERROR, +CMS ERROR or the ">" prompt arrives.
//
// The deadline is the earlier of ctx's deadline and now+timeout; a zero
// timeout selects the configured ATTimeout. When nothing at all arrived
// before the deadline ErrTimeout is returned. When some lines arrived but
// no terminal marker did, the partial response is returned with
// Response.Partial set, and with ErrPartialResponse if the modem is
// configured with FailPartial.
//
// An ERROR reply is not a Go error: the command completed and the caller
// inspects Response.Final.
func (c *Channel) Execute(ctx context.Context, cmd string, timeout time.Duration) (Response, error) {
	cmd = strings.TrimSpace(cmd)
	if cmd == "" {
		return Response{}, ErrEmptyCommand
	}
	return c.transact(ctx, cmd, []byte(cmd+at.CRLF), timeout, false)
}

// SendData writes raw payload bytes, without any line delimiter, after the
// modem has shown its ">" prompt. The modem may acknowledge the data or stay
// silent, so SendData only watches the line for DataSettle: a terminal line
// ends the wait early and is returned in Response.Final, silence returns an
// empty Response and a nil error. Callers decide with Response.Failed.
func (c *Channel) SendData(ctx context.Context, data string) (Response, error) {
	return c.transact(ctx, fmt.Sprintf("<%d bytes>", len(data)), []byte(data), c.m.config.DataSettle, true)
}

// Expect executes cmd and requires the terminal marker want.
func (c *Channel) Expect(ctx context.Context, cmd, want string, timeout time.Duration) (Response, error) {
	resp, err := c.Execute(ctx, cmd, timeout)
	if err != nil {
		return resp, err
	}
	if resp.Final != want {
		return resp, fmt.Errorf("%w: %s returned %q, expected %q", ErrUnexpectedResponse, cmd, resp.Final, want)
	}
	return resp, nil
}

// FlushInput discards unread input. The Loop performs the flush between two
// reads and drops its partial line and block state with it, so the next reply
// is framed and classified from a clean start. It waits at most ATTimeout for
// the Loop to pick the request up.
func (c *Channel) FlushInput(ctx context.Context) error {
	if c.released.Load() {
		return ErrReleased
	}
	ctx, cancel := context.WithTimeout(ctx, c.m.config.ATTimeout)
	defer cancel()

	done := make(chan error, 1)
	select {
	case c.m.flushReq <- done:
	case <-ctx.Done():
		return fmt.Errorf("flush input: %w", ctx.Err())
	}
	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("flush input: %w", ctx.Err())
	}
}

// Release gives the command channel back. Further use returns ErrReleased.
// Releasing twice is a no-op.
func (c *Channel) Release() {
	if c.released.CompareAndSwap(false, true) {
		<-c.m.lock
	}
}

// transact writes wire and collects reply lines. In settle mode the deadline
// only ends the watch: whatever arrived is returned without error.
func (c *Channel) transact(ctx context.Context, label string, wire []byte, timeout time.Duration, settle bool) (Response, error) {
	if c.released.Load() {
		return Response{}, ErrReleased
	}
	m := c.m
	if m.closed.Load() {
		return Response{}, ErrAlreadyClosed
	}

	if timeout <= 0 {
		timeout = m.config.ATTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// A fresh queue per command, so nothing left over from an abandoned
	// command can leak into this one.
	tx := &transaction{
		label: label,
		lines: make(chan string, m.config.ResponseQueueLen),
	}
	m.setPending(tx)
	defer m.setPending(nil)

	m.logger.Debug(">> " + label)
	if _, err := m.transport.Write(wire); err != nil {
		return Response{}, fmt.Errorf("%w: %s: %w", ErrWrite, label, err)
	}

	var resp Response
	for {
		select {
		case line := <-tx.lines:
			resp.Lines = append(resp.Lines, line)
			if at.IsTerminal(line) {
				resp.Final = line
				m.logger.Debug("<< "+label, "response", resp.Lines)
				return resp, nil
			}

		case <-ctx.Done():
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return resp, fmt.Errorf("%s: %w", label, ctx.Err())
			}
			if settle {
				m.logger.Debug("<< "+label, "response", resp.Lines)
				return resp, nil
			}
			if len(resp.Lines) == 0 {
				m.logger.Warn("no response", "command", label, "timeout", timeout)
				return resp, fmt.Errorf("%w: %s", ErrTimeout, label)
			}
			resp.Partial = true
			m.logger.Warn("response without terminal marker", "command", label, "lines", resp.Lines)
			if m.config.FailPartial {
				return resp, fmt.Errorf("%w: %s", ErrPartialResponse, label)
			}
			return resp, nil
		}
	}
}
