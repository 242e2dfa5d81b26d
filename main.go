package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"go.bug.st/serial"
	"go.uber.org/atomic"
	"golang.org/x/sync/errgroup"

	"i4.energy/across/telemetrygw/bus"
	"i4.energy/across/telemetrygw/cloud"
	"i4.energy/across/telemetrygw/gnss"
	"i4.energy/across/telemetrygw/modem"
	"i4.energy/across/telemetrygw/ready"
	"i4.energy/across/telemetrygw/session"
	"i4.energy/across/telemetrygw/settings"
	"i4.energy/across/telemetrygw/telemetry"
	"i4.energy/across/telemetrygw/urc"
)

// Exit codes. A supervisor restarts the gateway on exitRestart.
const (
	exitOK      = 0
	exitFailed  = 1
	exitRestart = 3
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML configuration file")
	flag.String("serial-port", "/dev/ttyUSB2", "Serial port to connect to the modem")
	flag.Int("baud-rate", 115200, "Baud rate for serial communication")
	flag.String("bind-address", "0.0.0.0:8080", "Bind address for the HTTP server")
	flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.String("sim-pin", "", "SIM card PIN code (if required)")
	flag.String("mode", ModeModem, "Cloud path: modem or direct")
	flag.String("bus-port", "/dev/ttyS1", "Serial port of the pump controller")
	flag.String("broker-host", "", "MQTT broker host")
	flag.String("client-id", "", "MQTT client id (default telemetrygw-<uuid>)")
	flag.String("settings-path", "settings.yaml", "File holding the shared attributes")
	flag.Bool("power-control", false, "Cycle modem power with the DTR/RTS lines")
	flag.Bool("rpc-replies", false, "Publish a result for every RPC request")
	flag.Parse()

	config, err := LoadConfig(WithDefaults(), WithFile(*configPath), WithEnv(), WithFlags(flag.CommandLine))
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(exitFailed)
	}

	logLevel := slog.LevelInfo
	switch config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	os.Exit(run(config, logger))
}

// lifecycle ends the process on behalf of the components. It implements
// session.Restarter and cloud.Restarter.
type lifecycle struct {
	logger *slog.Logger
	cancel context.CancelFunc
	code   atomic.Int32
}

// Restart stops every task; main exits with exitRestart.
func (l *lifecycle) Restart(reason string) {
	l.logger.Error("Restart requested", "reason", reason)
	l.code.Store(exitRestart)
	l.cancel()
}

// Sleep stops every task for a controller requested power down.
func (l *lifecycle) Sleep() {
	l.logger.Info("Controller requested sleep, shutting down")
	l.cancel()
}

// publishFunc adapts a function to cloud.Publisher.
type publishFunc func(ctx context.Context, topic, payload string) error

func (f publishFunc) Publish(ctx context.Context, topic, payload string) error {
	return f(ctx, topic, payload)
}

func run(config *Config, logger *slog.Logger) int {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	life := &lifecycle{logger: logger, cancel: cancel}
	flags := &ready.Flags{}
	store := telemetry.NewStore()

	clientID := config.ClientID
	if clientID == "" {
		clientID = "telemetrygw-" + uuid.NewString()
	}

	store.Update(func(s *telemetry.Snapshot) { s.Status = "Starting" })

	settingsStore, err := settings.Open(config.SettingsPath)
	if err != nil {
		logger.Error("Failed to open settings", "error", err)
		return exitFailed
	}

	busPort, err := bus.OpenSerial(config.BusPort, config.BusBaudRate)
	if err != nil {
		logger.Error("Failed to open controller port", "error", err)
		return exitFailed
	}
	defer busPort.Close()

	// The cloud client is chosen below; the closures resolve it lazily.
	var client telemetry.Client
	var publisher *telemetry.Publisher

	decoder := bus.NewDecoder(bus.DecoderConfig{
		Logger:  logger,
		Store:   store,
		Trigger: func() { publisher.Trigger() },
		Sleep:   life.Sleep,
	})
	link, err := bus.NewLink(bus.LinkConfig{
		Logger:  logger,
		Port:    busPort,
		Handler: decoder,
		Ready:   &flags.Display,
	})
	if err != nil {
		logger.Error("Failed to create controller link", "error", err)
		return exitFailed
	}

	handlerConfig := cloud.HandlerConfig{
		Logger:    logger,
		Settings:  settingsStore,
		Commander: link,
		Restarter: life,
		Listener: cloud.SettingsListenerFunc(func(ctx context.Context, ints [4]int) error {
			if err := link.SendSettings(ctx, ints); err != nil {
				return err
			}
			publisher.Trigger()
			return nil
		}),
	}
	if config.RPCReplies {
		handlerConfig.Replies = publishFunc(func(ctx context.Context, topic, payload string) error {
			return client.Publish(ctx, topic, payload)
		})
	}
	handler, err := cloud.NewHandler(handlerConfig)
	if err != nil {
		logger.Error("Failed to create cloud handler", "error", err)
		return exitFailed
	}
	router, err := urc.NewRouter(config.Topics, handler, logger)
	if err != nil {
		logger.Error("Failed to create router", "error", err)
		return exitFailed
	}

	server := &Server{
		Logger: logger.With("component", "server"),
		Store:  store,
		Flags:  flags,
	}
	store.OnUpdate(server.BroadcastTelemetry)

	publisher, err = telemetry.NewPublisher(telemetry.PublisherConfig{
		Logger: logger,
		Store:  store,
		Client: publishFunc(func(ctx context.Context, topic, payload string) error {
			return client.Publish(ctx, topic, payload)
		}),
		Ready:    &flags.Cloud,
		Topic:    config.TelemetryTopic,
		Interval: config.PublishInterval,
	})
	if err != nil {
		logger.Error("Failed to create publisher", "error", err)
		return exitFailed
	}
	server.Publisher = publisher

	broker := modem.Broker{
		Host:     config.Broker.Host,
		Port:     config.Broker.Port,
		Username: config.Broker.Username,
		Password: config.Broker.Password,
	}

	g, ctx := errgroup.WithContext(ctx)

	switch config.Mode {
	case ModeDirect:
		direct, err := cloud.NewDirectClient(cloud.DirectConfig{
			Logger:   logger,
			Broker:   broker,
			ClientID: clientID,
			Topics:   config.Topics,
			Handler:  router,
			Ready:    &flags.Cloud,
			QoS:      1,
		})
		if err != nil {
			logger.Error("Failed to create broker client", "error", err)
			return exitFailed
		}
		client = direct
		g.Go(func() error { return direct.Run(ctx) })

	default:
		m, err := openModem(ctx, config, logger)
		if err != nil {
			logger.Error("Failed to open modem", "error", err)
			return exitFailed
		}
		defer m.Close()
		mq := modem.NewMQTT(m, modem.MQTTConfig{CleanSession: true})
		client = mq

		sess, err := startSession(ctx, g, m, mq, config, logger, life, flags, store, router, broker, clientID)
		if err != nil {
			logger.Error("Failed to start session", "error", err)
			return exitFailed
		}
		server.State = sess.State
		sess.OnTransition(server.BroadcastTransition)
	}

	g.Go(func() error { return publisher.Run(ctx) })
	g.Go(func() error { return link.Run(ctx) })

	httpServer := &http.Server{
		Addr:    config.BindAddress,
		Handler: server,
	}
	g.Go(func() error {
		ln, err := net.Listen("tcp", httpServer.Addr)
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		flags.Display.Set()
		logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		logger.Info("Closing HTTP server")
		return httpServer.Shutdown(shutdownCtx)
	})

	logger.Info("Starting telemetry gateway", "mode", config.Mode, "client_id", clientID)
	err = g.Wait()

	if code := life.code.Load(); code != exitOK {
		return int(code)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Gateway stopped", "error", err)
		return exitFailed
	}
	logger.Info("Gateway stopped")
	return exitOK
}

// openModem opens the modem serial port.
func openModem(ctx context.Context, config *Config, logger *slog.Logger) (*modem.Modem, error) {
	modemConfig, err := modem.NewConfigBuilder().
		WithLogger(logger).
		WithATTimeout(5 * time.Second).
		WithFailPartial(config.FailPartial).
		WithMarkers(config.Markers).
		WithDialer(modem.SerialDialer{
			PortName: config.SerialPort,
			Mode:     &serial.Mode{BaudRate: config.BaudRate},
		}).
		Build()
	if err != nil {
		return nil, fmt.Errorf("modem config: %w", err)
	}
	return modem.New(ctx, modemConfig)
}

// startSession starts the modem reader, the URC dispatcher, the session and,
// when enabled, the GNSS poller.
func startSession(
	ctx context.Context,
	g *errgroup.Group,
	m *modem.Modem,
	mq *modem.MQTT,
	config *Config,
	logger *slog.Logger,
	life *lifecycle,
	flags *ready.Flags,
	store *telemetry.Store,
	router *urc.Router,
	broker modem.Broker,
	clientID string,
) (*session.Session, error) {
	var power session.Power
	if config.PowerControl {
		if lines, ok := m.ControlLines(); ok {
			power = &modem.LinePower{Lines: lines}
		} else {
			logger.Warn("Power control requested but the port has no control lines")
		}
	}

	sess, err := session.New(session.Config{
		Logger:    logger,
		Modem:     m,
		Cloud:     mq,
		Power:     power,
		Restarter: life,
		Ready:     &flags.Cloud,
		Store:     store,
		APN:       config.APN,
		PIN:       config.SimPIN,
		Broker:    broker,
		ClientID:  clientID,
		Topics:    config.Topics,
		StepDelay: time.Second,

		LostPrefixes: config.Markers.ConnectionLost,
	})
	if err != nil {
		return nil, err
	}

	dispatcher, err := urc.NewDispatcher(urc.Config{
		Logger:        logger,
		Markers:       config.Markers,
		Messages:      router,
		Notifications: sess,
	})
	if err != nil {
		return nil, err
	}

	g.Go(func() error { return m.Loop(ctx) })
	g.Go(func() error { return dispatcher.Run(ctx, m.URC()) })
	g.Go(func() error { return sess.Run(ctx) })

	if config.GNSS {
		poller := gnss.NewPoller(gnss.Config{
			Logger: logger,
			Modem:  m,
			Store:  store,
			Ready:  &flags.Cloud,
		})
		g.Go(func() error {
			if err := poller.Run(ctx); err != nil && ctx.Err() == nil {
				logger.Warn("GNSS stopped", "error", err)
			}
			return nil
		})
	}
	return sess, nil
}
