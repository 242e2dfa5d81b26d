package bus

//go:generate go tool mockgen -source=link.go -destination=mock_link_test.go -package=bus_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"i4.energy/across/telemetrygw/ready"
)

// DefaultHeartbeat is the controller watchdog period.
const DefaultHeartbeat = 5 * time.Second

var ErrNoPort = errors.New("bus port is required")

// FrameHandler consumes decoded inbound frames.
type FrameHandler interface {
	HandleFrame(ctx context.Context, f Frame)
}

// Port is the byte stream to the controller. Read must return after a
// bounded wait even when the line is silent.
type Port interface {
	io.ReadWriter
}

// OpenSerial opens the controller port with go.bug.st/serial, 8N1 at baud.
func OpenSerial(name string, baud int) (serial.Port, error) {
	if name == "" {
		return nil, ErrNoPort
	}
	if baud <= 0 {
		baud = 115200
	}
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open bus port %s: %w", name, err)
	}
	if err := p.SetReadTimeout(10 * time.Millisecond); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("set bus read timeout: %w", err)
	}
	return p, nil
}

type LinkConfig struct {
	Logger  *slog.Logger
	Port    Port
	Handler FrameHandler
	// Ready gates the reader and the heartbeat. Nil starts immediately.
	Ready *ready.Flag
	// Heartbeat defaults to DefaultHeartbeat.
	Heartbeat time.Duration
}

// Link reads frames from the controller and serialises writes to it.
type Link struct {
	config LinkConfig
	logger *slog.Logger

	writeMu sync.Mutex

	received  atomic.Int64
	discarded atomic.Int64
	sent      atomic.Int64
}

func NewLink(config LinkConfig) (*Link, error) {
	if config.Port == nil {
		return nil, ErrNoPort
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Heartbeat <= 0 {
		config.Heartbeat = DefaultHeartbeat
	}
	return &Link{
		config: config,
		logger: config.Logger.With("component", "bus"),
	}, nil
}

// Run waits for readiness, then runs the reader and the heartbeat until ctx
// is done or the port fails.
func (l *Link) Run(ctx context.Context) error {
	if l.config.Ready != nil {
		l.logger.Info("waiting for display before starting bus")
		if err := l.config.Ready.Wait(ctx); err != nil {
			return err
		}
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return l.read(ctx) })
	g.Go(func() error { return l.heartbeat(ctx) })
	return g.Wait()
}

func (l *Link) heartbeat(ctx context.Context) error {
	t := time.NewTicker(l.config.Heartbeat)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if err := l.Send(Command(IDHeartbeat)); err != nil {
				l.logger.Warn("heartbeat failed", "error", err)
			}
		}
	}
}

func (l *Link) read(ctx context.Context) error {
	buf := make([]byte, 256)
	var pending []byte
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := l.config.Port.Read(buf)
		if n > 0 {
			pending = append(pending, buf[:n]...)
			pending = l.drain(ctx, pending)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("bus port closed: %w", err)
			}
			return fmt.Errorf("read bus: %w", err)
		}
	}
}

// drain decodes every complete frame at the head of pending and returns the
// unconsumed tail. Bytes that cannot start a frame are skipped.
func (l *Link) drain(ctx context.Context, pending []byte) []byte {
	for {
		start := resync(pending)
		if start > 0 {
			l.discarded.Add(int64(start))
			pending = pending[start:]
		}
		if len(pending) < FrameLen {
			return pending
		}
		f, err := Decode(pending[:FrameLen])
		if err != nil {
			l.logger.Debug("dropping bad frame", "frame", string(pending[:FrameLen]), "error", err)
			l.discarded.Inc()
			pending = pending[1:]
			continue
		}
		pending = pending[FrameLen:]
		l.received.Inc()
		l.logger.Debug("frame received", "id", f.ID, "data", f.Data)
		if l.config.Handler != nil {
			l.config.Handler.HandleFrame(ctx, f)
		}
	}
}

// resync returns the offset of the first byte that may begin a frame. A
// partial frame shorter than the separator offset is kept.
func resync(b []byte) int {
	for i := 0; i < len(b); i++ {
		if b[i] != '0' && b[i] != '1' {
			continue
		}
		if len(b)-i <= 5 || b[i+5] == '#' {
			return i
		}
	}
	return len(b)
}

// Send writes one frame.
func (l *Link) Send(f Frame) error {
	l.writeMu.Lock()
	defer l.writeMu.Unlock()
	if _, err := l.config.Port.Write(f.Encode()); err != nil {
		return fmt.Errorf("write %s frame: %w", f.ID, err)
	}
	l.sent.Inc()
	return nil
}

// StartCycle asks the controller to start the pump cycle.
func (l *Link) StartCycle(ctx context.Context) error { return l.system(ctx, SystemRun) }

// StopCycle asks the controller to stop the pump.
func (l *Link) StopCycle(ctx context.Context) error { return l.system(ctx, SystemStop) }

// ResetController asks the controller to reboot.
func (l *Link) ResetController(ctx context.Context) error { return l.system(ctx, SystemReset) }

// SendSettings pushes the integer settings as a data frame.
func (l *Link) SendSettings(ctx context.Context, values [4]int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	var data [4]uint16
	for i, v := range values {
		if v < 0 || v > 0xFFFF {
			return fmt.Errorf("setting %d out of range: %d", i, v)
		}
		data[i] = uint16(v)
	}
	return l.Send(Data(IDSettings, data[:]...))
}

func (l *Link) system(ctx context.Context, word uint16) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return l.Send(Command(IDSystem, word))
}

type LinkStats struct {
	Received  int64
	Discarded int64
	Sent      int64
}

func (l *Link) Stats() LinkStats {
	return LinkStats{
		Received:  l.received.Load(),
		Discarded: l.discarded.Load(),
		Sent:      l.sent.Load(),
	}
}
