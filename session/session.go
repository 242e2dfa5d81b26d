// Package session brings the cellular modem from power-on to a connected
// cloud session and keeps it there.
package session

//go:generate go tool mockgen -source=session.go -destination=mock_session_test.go -package=session_test

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/looplab/fsm"

	"i4.energy/across/telemetrygw/at"
	"i4.energy/across/telemetrygw/modem"
	"i4.energy/across/telemetrygw/ready"
	"i4.energy/across/telemetrygw/telemetry"
	"i4.energy/across/telemetrygw/urc"
)

// Session states.
const (
	StateUnpowered            = "unpowered"
	StatePowering             = "powering"
	StateAwaitingSIM          = "awaiting_sim"
	StateAwaitingSignal       = "awaiting_signal"
	StateAwaitingRegistration = "awaiting_registration"
	StateAwaitingBearer       = "awaiting_bearer"
	StateCloudConnecting      = "cloud_connecting"
	StateCloudConnected       = "cloud_connected"
	StateFaulted              = "faulted"
)

const (
	evPower      = "power"
	evPowered    = "powered"
	evSIMReady   = "sim_ready"
	evSignal     = "signal"
	evRegistered = "registered"
	evBearer     = "bearer"
	evConnected  = "connected"
	evFault      = "fault"
)

// Executor runs one AT command under the channel lock. *modem.Modem
// implements it.
type Executor interface {
	Exec(ctx context.Context, cmd string, timeout time.Duration) (modem.Response, error)
}

// Cloud is the modem's MQTT client. *modem.MQTT implements it.
type Cloud interface {
	Start(ctx context.Context) error
	AcquireClient(ctx context.Context, clientID string) error
	Connect(ctx context.Context, b modem.Broker) error
	Subscribe(ctx context.Context, topic string, qos int) error
	Publish(ctx context.Context, topic, payload string) error
}

// Power switches the modem supply. *modem.LinePower implements it.
type Power interface {
	PowerOn(ctx context.Context) error
	PowerOff(ctx context.Context) error
}

// Restarter restarts the whole process.
type Restarter interface {
	Restart(reason string)
}

// Transition is one state change.
type Transition struct {
	From string    `json:"from"`
	To   string    `json:"to"`
	At   time.Time `json:"at"`
}

// Session is the bring-up state machine. Faulted is terminal: a faulted
// session asks for a process restart and is never reused.
type Session struct {
	config Config
	logger *slog.Logger
	fsm    *fsm.FSM

	observersMu sync.Mutex
	observers   []func(Transition)

	lost chan error
}

func New(config Config) (*Session, error) {
	if config.Modem == nil {
		return nil, ErrNoModem
	}
	if config.Cloud == nil {
		return nil, ErrNoCloud
	}
	config.setDefaults()

	s := &Session{
		config: config,
		logger: config.Logger.With("component", "session"),
		lost:   make(chan error, 1),
	}

	working := []string{
		StateUnpowered, StatePowering, StateAwaitingSIM, StateAwaitingSignal,
		StateAwaitingRegistration, StateAwaitingBearer, StateCloudConnecting, StateCloudConnected,
	}
	s.fsm = fsm.NewFSM(
		StateUnpowered,
		fsm.Events{
			{Name: evPower, Src: []string{StateUnpowered}, Dst: StatePowering},
			{Name: evPowered, Src: []string{StatePowering}, Dst: StateAwaitingSIM},
			{Name: evSIMReady, Src: []string{StateAwaitingSIM}, Dst: StateAwaitingSignal},
			{Name: evSignal, Src: []string{StateAwaitingSignal}, Dst: StateAwaitingRegistration},
			{Name: evRegistered, Src: []string{StateAwaitingRegistration}, Dst: StateAwaitingBearer},
			{Name: evBearer, Src: []string{StateAwaitingBearer}, Dst: StateCloudConnecting},
			{Name: evConnected, Src: []string{StateCloudConnecting}, Dst: StateCloudConnected},
			{Name: evFault, Src: working, Dst: StateFaulted},
		},
		fsm.Callbacks{
			"enter_state": func(_ context.Context, e *fsm.Event) {
				s.logger.Info("session state", "from", e.Src, "to", e.Dst)
				s.notify(Transition{From: e.Src, To: e.Dst, At: time.Now()})
			},
		},
	)
	return s, nil
}

// State returns the current state name.
func (s *Session) State() string {
	return s.fsm.Current()
}

// OnTransition registers fn to be called after every state change.
func (s *Session) OnTransition(fn func(Transition)) {
	s.observersMu.Lock()
	s.observers = append(s.observers, fn)
	s.observersMu.Unlock()
}

func (s *Session) notify(t Transition) {
	s.observersMu.Lock()
	observers := append([](func(Transition))(nil), s.observers...)
	s.observersMu.Unlock()
	for _, fn := range observers {
		fn(t)
	}
}

// Run brings the session up, then keeps the signal reading fresh until ctx
// is done. Any stage running out of attempts faults the session: Run
// requests a restart and returns an error wrapping ErrSessionFault.
func (s *Session) Run(ctx context.Context) error {
	stages := []struct {
		name  string
		run   func(context.Context) error
		event string
	}{
		{"power", s.powerUp, evPowered},
		{"sim", s.awaitSIM, evSIMReady},
		{"signal", s.awaitSignal, evSignal},
		{"registration", s.awaitRegistration, evRegistered},
		{"bearer", s.awaitBearer, evBearer},
		{"cloud", s.connectCloud, evConnected},
	}

	if err := s.fire(ctx, evPower); err != nil {
		return err
	}
	for _, st := range stages {
		if err := st.run(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return s.fault(st.name, err)
		}
		if err := s.fire(ctx, st.event); err != nil {
			return err
		}
	}

	if s.config.Ready != nil {
		s.config.Ready.Set()
		defer s.config.Ready.Clear()
	}
	return s.housekeeping(ctx)
}

func (s *Session) fire(ctx context.Context, event string) error {
	if err := s.fsm.Event(ctx, event); err != nil {
		return fmt.Errorf("session event %s in state %s: %w", event, s.State(), err)
	}
	return nil
}

func (s *Session) fault(stage string, cause error) error {
	err := fmt.Errorf("%w: %s: %w", ErrSessionFault, stage, cause)
	s.logger.Error("session faulted", "stage", stage, "error", cause)
	if ferr := s.fsm.Event(context.Background(), evFault); ferr != nil {
		s.logger.Warn("fault transition", "error", ferr)
	}
	if s.config.Ready != nil {
		s.config.Ready.Clear()
	}
	if s.config.Restarter != nil {
		s.config.Restarter.Restart(err.Error())
	}
	return err
}

func (s *Session) housekeeping(ctx context.Context) error {
	t := time.NewTicker(s.config.RefreshInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case cause := <-s.lost:
			return s.fault("cloud", cause)
		case <-t.C:
			err := s.RefreshSignal(ctx)
			switch {
			case err == nil:
			case errors.Is(err, modem.ErrLockTimeout):
				// A modem wedged this long will not recover on its own.
				return s.fault("signal refresh", err)
			case ctx.Err() != nil:
				return ctx.Err()
			default:
				s.logger.Warn("signal refresh failed", "error", err)
			}
		}
	}
}

// RefreshSignal reads the signal quality into the telemetry store.
func (s *Session) RefreshSignal(ctx context.Context) error {
	resp, err := s.config.Modem.Exec(ctx, at.CmdSignal, s.config.CommandTimeout)
	if err != nil {
		return err
	}
	rssi, ber, err := s.signal(resp)
	if err != nil {
		return err
	}
	s.logger.Info("signal updated", "rssi", rssi, "ber", ber)
	return nil
}

var _ urc.NotificationHandler = (*Session)(nil)

// HandleNotification watches for the broker connection dropping while the
// session is connected.
func (s *Session) HandleNotification(_ context.Context, line string) {
	lost := false
	for _, p := range s.config.LostPrefixes {
		if strings.HasPrefix(line, p) {
			lost = true
			break
		}
	}
	if !lost {
		s.logger.Info("notification", "line", line)
		return
	}
	s.logger.Warn("cloud connection lost", "line", line)
	if s.State() != StateCloudConnected {
		return
	}
	if s.config.Ready != nil {
		s.config.Ready.Clear()
	}
	select {
	case s.lost <- fmt.Errorf("%w: %s", ErrConnectionLost, line):
	default:
	}
}

// Config assembles the session's collaborators and bring-up parameters.
type Config struct {
	Logger *slog.Logger
	Modem  Executor
	Cloud  Cloud
	// Power cycles the modem before bring-up. Optional.
	Power     Power
	Restarter Restarter
	// Ready is set while the cloud session is connected.
	Ready *ready.Flag
	// Store receives the signal quality. Optional.
	Store *telemetry.Store

	APN      APN
	PIN      string
	Broker   modem.Broker
	ClientID string
	Topics   urc.Topics
	QoS      int

	Handshake    Poll
	SIM          Poll
	Signal       Poll
	Registration Poll
	Bearer       Poll

	// Setup overrides the network setup commands built from APN.
	Setup []Command

	// PowerCycleDelay is the off time between PowerOff and PowerOn.
	PowerCycleDelay time.Duration
	// StepDelay separates the cloud setup steps. Zero runs them back to back.
	StepDelay      time.Duration
	CommandTimeout time.Duration
	// RefreshInterval between signal quality reads once connected.
	RefreshInterval time.Duration
	// LostPrefixes are notifications meaning the broker connection dropped.
	// Defaults to at.DefaultMarkers().ConnectionLost.
	LostPrefixes []string
}

// APN is the packet data access point.
type APN struct {
	Name     string `yaml:"name"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// Poll bounds a stage's retries.
type Poll struct {
	Attempts int           `yaml:"attempts"`
	Interval time.Duration `yaml:"interval"`
}

// Command is one network setup command.
type Command struct {
	Text    string
	Timeout time.Duration
}

// DefaultSetup returns the LTE network setup sequence for apn.
func DefaultSetup(apn APN) []Command {
	cmds := []Command{
		{"AT+CNMP=38", 2 * time.Second},
		{"AT+CMNB=3", 2 * time.Second},
		{at.CmdVerboseErrors, 2 * time.Second},
		{at.CmdAttach, 20 * time.Second},
		{fmt.Sprintf(`AT+CGDCONT=1,"IP","%s"`, apn.Name), 5 * time.Second},
	}
	if apn.Username != "" {
		cmds = append(cmds, Command{fmt.Sprintf(`AT+CGAUTH=1,1,"%s","%s"`, apn.Username, apn.Password), 5 * time.Second})
	}
	return append(cmds, Command{"AT+CGACT=1,1", 30 * time.Second})
}

func (c *Config) setDefaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Topics == (urc.Topics{}) {
		c.Topics = urc.DefaultTopics()
	}
	if c.QoS == 0 {
		c.QoS = 1
	}
	c.Handshake = c.Handshake.orDefault(10, time.Second)
	c.SIM = c.SIM.orDefault(500, 3*time.Second)
	c.Signal = c.Signal.orDefault(500, 3*time.Second)
	c.Registration = c.Registration.orDefault(80, 2*time.Second)
	c.Bearer = c.Bearer.orDefault(30, 2*time.Second)
	if c.Setup == nil {
		c.Setup = DefaultSetup(c.APN)
	}
	if c.PowerCycleDelay <= 0 {
		c.PowerCycleDelay = time.Second
	}
	if c.CommandTimeout <= 0 {
		c.CommandTimeout = 5 * time.Second
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = 180 * time.Second
	}
	if c.LostPrefixes == nil {
		c.LostPrefixes = at.DefaultMarkers().ConnectionLost
	}
	if c.ClientID == "" {
		c.ClientID = "telemetrygw"
	}
}

func (p Poll) orDefault(attempts int, interval time.Duration) Poll {
	if p.Attempts <= 0 {
		p.Attempts = attempts
	}
	if p.Interval <= 0 {
		p.Interval = interval
	}
	return p
}
