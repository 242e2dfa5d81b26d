package modem

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.uber.org/atomic"

	"i4.energy/across/telemetrygw/at"
)

// Modem is the transaction engine for a cellular modem that speaks AT
// commands over a single serial channel.
//
// One goroutine, Loop, owns all reads from the transport. It frames the
// byte stream into lines, classifies every line and routes it either to the
// command currently in flight or to the unsolicited event channel returned
// by URC. Commands are issued through a Channel obtained from Acquire, which
// guarantees that at most one command is outstanding at a time.
type Modem struct {
	// transport provides the physical connection to the modem (serial, TCP, etc.)
	transport Transport
	// config contains the modem configuration settings
	config Config
	logger *slog.Logger

	closed      atomic.Bool
	loopRunning atomic.Bool

	// lock is a one slot semaphore guarding the whole request/response
	// round trip. A channel instead of a sync.Mutex so acquisition can be
	// bounded in time.
	lock chan struct{}

	// mu guards pending.
	mu      sync.Mutex
	pending *transaction

	// urcChan receives unsolicited lines from the Loop.
	urcChan chan at.Event

	// flushReq hands input flushes to the Loop, the only goroutine that
	// may touch the framer and classifier.
	flushReq chan chan error

	droppedResponses atomic.Int64
	droppedURCs      atomic.Int64
	orphanLines      atomic.Int64
}

// transaction is the single command in flight.
type transaction struct {
	label string
	lines chan string
}

// Stats counts lines the Loop could not deliver.
type Stats struct {
	// DroppedResponses were replies discarded because the pending
	// command's queue was full.
	DroppedResponses int64
	// DroppedURCs were unsolicited lines discarded because the URC
	// channel was full.
	DroppedURCs int64
	// OrphanLines were replies that arrived with no command pending.
	OrphanLines int64
}

// New creates a Modem with the given configuration and establishes the
// transport connection. The modem itself is not touched: power-up and
// session bring-up are the caller's business, and Loop must be running
// before any command is issued.
func New(ctx context.Context, config Config) (*Modem, error) {
	if err := config.validate(); err != nil {
		return nil, err
	}
	config.setDefaults()

	transport, err := config.Dialer.Dial(ctx)
	if err != nil {
		return nil, fmt.Errorf("dial modem: %w", err)
	}
	if transport == nil {
		return nil, ErrNotInitialized
	}

	return &Modem{
		transport: transport,
		config:    config,
		logger:    config.Logger.With("component", "modem"),
		lock:      make(chan struct{}, 1),
		urcChan:   make(chan at.Event, config.URCQueueLen),
		flushReq:  make(chan chan error),
	}, nil
}

// Loop is the read loop. It must be called exactly once after New and
// before any command is issued, typically in its own goroutine:
//
//	m, err := modem.New(ctx, config)
//	if err != nil { return err }
//
//	go m.Loop(ctx)
//
//	resp, err := m.Exec(ctx, "AT", time.Second)
//
// Loop returns when ctx is cancelled, when the transport reports EOF
// (io.EOF is returned as is) or on any other read error.
func (m *Modem) Loop(ctx context.Context) error {
	if !m.loopRunning.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer m.loopRunning.Store(false)

	framer := at.NewFramer(m.config.LineCapacity)
	classifier := at.NewClassifier(m.config.Markers)
	buf := make([]byte, 256)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		n, err := m.transport.Read(buf)
		if n > 0 {
			for _, line := range framer.Feed(buf[:n]) {
				m.route(classifier, line)
			}
		}
		if err == nil {
			select {
			case done := <-m.flushReq:
				done <- m.flush(framer, classifier)
			default:
			}
			continue
		}

		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if errors.Is(err, io.EOF) {
			return io.EOF
		}
		if m.closed.Load() {
			return ErrAlreadyClosed
		}
		return fmt.Errorf("read error: %w", err)
	}
}

// flush drops the partial line, any open message block and the unread
// input of the transport.
func (m *Modem) flush(f *at.Framer, c *at.Classifier) error {
	if f.Pending() > 0 || c.InBlock() {
		m.logger.Warn("flush discards partial input", "bytes", f.Pending(), "in_block", c.InBlock())
	}
	f.Reset()
	c.Reset()
	if fl, ok := m.transport.(InputFlusher); ok {
		return fl.ResetInputBuffer()
	}
	return nil
}

func (m *Modem) route(c *at.Classifier, line string) {
	class := c.Classify(line)
	switch {
	case class == at.ClassSuppressed:
		m.logger.Debug("suppressed prompt inside message block")

	case class.Unsolicited():
		select {
		case m.urcChan <- at.Event{Class: class, Line: line}:
		default:
			m.droppedURCs.Inc()
			m.logger.Warn("URC channel full, dropping line", "class", class.String(), "line", line)
		}

	default:
		m.deliver(line)
	}
}

// deliver hands a reply line to the pending command. When its queue is full
// the newest line is dropped.
func (m *Modem) deliver(line string) {
	m.mu.Lock()
	tx := m.pending
	m.mu.Unlock()

	if tx == nil {
		m.orphanLines.Inc()
		m.logger.Debug("no command pending, dropping line", "line", line)
		return
	}

	select {
	case tx.lines <- line:
	default:
		m.droppedResponses.Inc()
		m.logger.Warn("response queue full, dropping line", "command", tx.label, "line", line)
	}
}

func (m *Modem) setPending(tx *transaction) {
	m.mu.Lock()
	m.pending = tx
	m.mu.Unlock()
}

// URC returns a read-only channel that receives unsolicited lines: inbound
// message blocks line by line and stand-alone notifications. The channel is
// buffered; lines are dropped when it is not consumed fast enough.
func (m *Modem) URC() <-chan at.Event {
	return m.urcChan
}

// Acquire takes exclusive use of the command channel. It waits at most the
// configured LockTimeout and returns ErrLockTimeout when the channel stays
// busy. The returned Channel must be released.
func (m *Modem) Acquire(ctx context.Context) (*Channel, error) {
	if m.closed.Load() {
		return nil, ErrAlreadyClosed
	}
	if m.transport == nil {
		return nil, ErrNotInitialized
	}

	timer := time.NewTimer(m.config.LockTimeout)
	defer timer.Stop()

	select {
	case m.lock <- struct{}{}:
		return &Channel{m: m}, nil
	case <-timer.C:
		m.logger.Warn("timeout waiting for command channel", "timeout", m.config.LockTimeout)
		return nil, ErrLockTimeout
	case <-ctx.Done():
		return nil, fmt.Errorf("acquire command channel: %w", ctx.Err())
	}
}

// Exec acquires the channel, executes a single command and releases the
// channel again. A zero timeout selects the configured ATTimeout.
func (m *Modem) Exec(ctx context.Context, cmd string, timeout time.Duration) (Response, error) {
	ch, err := m.Acquire(ctx)
	if err != nil {
		return Response{}, err
	}
	defer ch.Release()
	return ch.Execute(ctx, cmd, timeout)
}

// ControlLines returns the transport's modem control outputs when the
// transport has them.
func (m *Modem) ControlLines() (ControlLines, bool) {
	cl, ok := m.transport.(ControlLines)
	return cl, ok
}

// Stats returns the delivery counters.
func (m *Modem) Stats() Stats {
	return Stats{
		DroppedResponses: m.droppedResponses.Load(),
		DroppedURCs:      m.droppedURCs.Load(),
		OrphanLines:      m.orphanLines.Load(),
	}
}

// Close shuts down the modem and releases all resources.
// Closing the transport makes a running Loop return. After calling Close(),
// the modem cannot be reused.
func (m *Modem) Close() error {
	if !m.closed.CompareAndSwap(false, true) {
		return ErrAlreadyClosed
	}

	if m.transport != nil {
		return m.transport.Close()
	}

	return nil
}
