// Package urc turns the modem's unsolicited output into cloud messages.
//
// The Dispatcher reassembles inbound message blocks into (topic, payload)
// pairs and hands them to a MessageHandler, usually a Router. Stand-alone
// notifications go to a NotificationHandler.
package urc

//go:generate go tool mockgen -source=dispatcher.go -destination=mock_handler_test.go -package=urc_test

import (
	"context"
	"log/slog"
	"strings"

	"go.uber.org/atomic"

	"i4.energy/across/telemetrygw/at"
)

// MessageHandler receives every completely assembled inbound message.
type MessageHandler interface {
	HandleMessage(ctx context.Context, topic, payload string) error
}

// NotificationHandler receives single-line unsolicited result codes.
type NotificationHandler interface {
	HandleNotification(ctx context.Context, line string)
}

// DefaultPayloadStart is the token identifying the payload line of a block.
const DefaultPayloadStart = "{"

type Config struct {
	Logger *slog.Logger
	// Markers default to at.DefaultMarkers.
	Markers  at.Markers
	Messages MessageHandler
	// Notifications is optional. Without it notifications are only logged.
	Notifications NotificationHandler
	// PayloadStart defaults to DefaultPayloadStart.
	PayloadStart string
}

// Dispatcher assembles message blocks. A block is one topic line and one
// payload line between the start and end markers; header lines announcing
// them are skipped. Only the first line containing the payload token is
// kept, so a payload spread over several lines is truncated to its first
// line.
//
// OnEvent is not safe for concurrent use; Run serializes it.
type Dispatcher struct {
	config Config
	logger *slog.Logger

	inBlock bool
	topic   string
	payload string

	delivered atomic.Int64
	dropped   atomic.Int64
}

func NewDispatcher(config Config) (*Dispatcher, error) {
	if config.Messages == nil {
		return nil, ErrNoHandler
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.PayloadStart == "" {
		config.PayloadStart = DefaultPayloadStart
	}
	if config.Markers.BlockStart == "" {
		config.Markers = at.DefaultMarkers()
	}
	return &Dispatcher{
		config: config,
		logger: config.Logger.With("component", "urc"),
	}, nil
}

// Run feeds every event from events to OnEvent until ctx is done or events
// is closed.
func (d *Dispatcher) Run(ctx context.Context, events <-chan at.Event) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			d.OnEvent(ctx, ev)
		}
	}
}

// OnEvent processes one unsolicited line.
func (d *Dispatcher) OnEvent(ctx context.Context, ev at.Event) {
	switch ev.Class {
	case at.ClassBlockStart:
		if d.inBlock {
			d.logger.Warn("block restarted before its end marker", "topic", d.topic)
			d.dropped.Inc()
		}
		d.reset()
		d.inBlock = true

	case at.ClassBlockLine:
		if !d.inBlock {
			d.logger.Debug("block line outside a block", "line", ev.Line)
			return
		}
		d.collect(ev.Line)

	case at.ClassBlockEnd:
		d.finish(ctx)

	case at.ClassNotification:
		if d.config.Notifications == nil {
			d.logger.Info("notification", "line", ev.Line)
			return
		}
		d.config.Notifications.HandleNotification(ctx, ev.Line)

	default:
		d.logger.Debug("ignoring event", "class", ev.Class.String(), "line", ev.Line)
	}
}

func (d *Dispatcher) collect(line string) {
	line = strings.TrimSpace(line)
	switch {
	case line == "" || d.config.Markers.IsHeader(line):
	case d.topic == "":
		d.topic = line
	case d.payload == "" && strings.Contains(line, d.config.PayloadStart):
		d.payload = line
	default:
		d.logger.Debug("ignoring extra block line", "topic", d.topic, "line", line)
	}
}

func (d *Dispatcher) finish(ctx context.Context) {
	topic, payload := d.topic, d.payload
	d.reset()

	if topic == "" || payload == "" {
		d.dropped.Inc()
		d.logger.Warn("dropping message block", "error", ErrIncompleteBlock, "topic", topic, "payload", payload)
		return
	}

	d.delivered.Inc()
	if err := d.config.Messages.HandleMessage(ctx, topic, payload); err != nil {
		d.logger.Warn("message handler failed", "topic", topic, "error", err)
	}
}

func (d *Dispatcher) reset() {
	d.inBlock = false
	d.topic = ""
	d.payload = ""
}

// Delivered counts blocks handed to the MessageHandler.
func (d *Dispatcher) Delivered() int64 { return d.delivered.Load() }

// Dropped counts incomplete or interrupted blocks.
func (d *Dispatcher) Dropped() int64 { return d.dropped.Load() }
