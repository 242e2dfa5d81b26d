package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"i4.energy/across/telemetrygw/at"
	"i4.energy/across/telemetrygw/cloud"
	"i4.energy/across/telemetrygw/modem"
	"i4.energy/across/telemetrygw/telemetry"
)

var errNotYet = errors.New("not yet")

// poll runs check until it reports done, sleeping Interval between
// attempts. A nil error with done false retries quietly.
func (s *Session) poll(ctx context.Context, stage string, p Poll, check func(context.Context) (bool, error)) error {
	for attempt := 1; attempt <= p.Attempts; attempt++ {
		done, err := check(ctx)
		if done {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			s.logger.Debug("stage attempt failed", "stage", stage, "attempt", attempt, "error", err)
		}
		if attempt < p.Attempts {
			if err := sleep(ctx, p.Interval); err != nil {
				return err
			}
		}
	}
	return fmt.Errorf("%s: %w after %d attempts", stage, ErrAttemptsExhausted, p.Attempts)
}

func (s *Session) exec(ctx context.Context, cmd string) (modem.Response, error) {
	return s.config.Modem.Exec(ctx, cmd, s.config.CommandTimeout)
}

func (s *Session) powerUp(ctx context.Context) error {
	if p := s.config.Power; p != nil {
		if err := p.PowerOff(ctx); err != nil {
			return fmt.Errorf("power off: %w", err)
		}
		if err := sleep(ctx, s.config.PowerCycleDelay); err != nil {
			return err
		}
		if err := p.PowerOn(ctx); err != nil {
			return fmt.Errorf("power on: %w", err)
		}
	}

	err := s.poll(ctx, "handshake", s.config.Handshake, func(ctx context.Context) (bool, error) {
		resp, err := s.exec(ctx, at.CmdAt)
		return err == nil && resp.OK(), err
	})
	if err != nil {
		return err
	}
	if resp, err := s.exec(ctx, at.CmdEchoOff); err != nil || !resp.OK() {
		return fmt.Errorf("echo off: %w", errOr(err, resp))
	}
	return nil
}

func (s *Session) awaitSIM(ctx context.Context) error {
	pinSent := false
	return s.poll(ctx, "sim", s.config.SIM, func(ctx context.Context) (bool, error) {
		resp, err := s.exec(ctx, at.CmdSimStatus)
		if err != nil {
			return false, err
		}
		if resp.Contains(at.SimReady) {
			return true, nil
		}
		if resp.Contains(at.SimPin) && s.config.PIN != "" && !pinSent {
			pinSent = true
			s.logger.Info("entering sim pin")
			if _, err := s.exec(ctx, fmt.Sprintf(`AT+CPIN="%s"`, s.config.PIN)); err != nil {
				return false, err
			}
		}
		s.logger.Warn("sim not ready", "response", resp.Text())
		return false, errNotYet
	})
}

func (s *Session) awaitSignal(ctx context.Context) error {
	return s.poll(ctx, "signal", s.config.Signal, func(ctx context.Context) (bool, error) {
		resp, err := s.exec(ctx, at.CmdSignal)
		if err != nil {
			return false, err
		}
		rssi, _, err := s.signal(resp)
		if err != nil {
			return false, err
		}
		if rssi == rssiUnknown {
			s.logger.Info("no signal yet")
			return false, errNotYet
		}
		s.logger.Info("signal acquired", "rssi", rssi)
		return true, nil
	})
}

// signal parses a CSQ reply and stores the rssi.
func (s *Session) signal(resp modem.Response) (int, int, error) {
	line, ok := resp.Find(at.SignalPrefix)
	if !ok {
		return 0, 0, fmt.Errorf("%w: no %s line", modem.ErrUnexpectedResponse, at.SignalPrefix)
	}
	rssi, ber, err := parseCSQ(line)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %w", modem.ErrUnexpectedResponse, err)
	}
	if s.config.Store != nil {
		s.config.Store.Update(func(snap *telemetry.Snapshot) { snap.CSQ = rssi })
	}
	return rssi, ber, nil
}

func (s *Session) awaitRegistration(ctx context.Context) error {
	return s.poll(ctx, "registration", s.config.Registration, func(ctx context.Context) (bool, error) {
		resp, err := s.exec(ctx, at.CmdRegistration)
		if err != nil {
			return false, err
		}
		line, ok := resp.Find(at.RegPrefix)
		if !ok {
			return false, fmt.Errorf("%w: no %s line", modem.ErrUnexpectedResponse, at.RegPrefix)
		}
		stat, err := parseCREG(line)
		if err != nil {
			return false, err
		}
		s.logger.Info("registration", "stat", stat)
		return registered(stat), nil
	})
}

// awaitBearer runs the network setup commands, then waits for an address.
// Setup command failures are logged; the address poll decides.
func (s *Session) awaitBearer(ctx context.Context) error {
	for _, c := range s.config.Setup {
		resp, err := s.config.Modem.Exec(ctx, c.Text, c.Timeout)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil || !resp.OK() {
			s.logger.Warn("network setup command failed", "command", c.Text, "error", errOr(err, resp))
		}
	}

	return s.poll(ctx, "bearer", s.config.Bearer, func(ctx context.Context) (bool, error) {
		resp, err := s.exec(ctx, at.CmdBearerAddress)
		if err != nil {
			return false, err
		}
		line, ok := resp.Find(at.AddressPrefix)
		if !ok {
			return false, fmt.Errorf("%w: no %s line", modem.ErrUnexpectedResponse, at.AddressPrefix)
		}
		addr, err := parseAddress(line)
		if err != nil {
			return false, err
		}
		if !assigned(addr) {
			s.logger.Info("no address yet", "address", addr)
			return false, errNotYet
		}
		s.logger.Info("bearer up", "address", addr)
		return true, nil
	})
}

// connectCloud starts the modem MQTT client, connects, subscribes the cloud
// topics and requests the shared attributes. Every step must succeed.
func (s *Session) connectCloud(ctx context.Context) error {
	c := s.config.Cloud
	steps := []step{
		{"start", func() error { return c.Start(ctx) }},
		{"acquire", func() error { return c.AcquireClient(ctx, s.config.ClientID) }},
		{"connect", func() error { return c.Connect(ctx, s.config.Broker) }},
	}
	for _, topic := range s.config.Topics.Subscriptions() {
		topic := topic
		steps = append(steps, step{"subscribe " + topic, func() error { return c.Subscribe(ctx, topic, s.config.QoS) }})
	}
	steps = append(steps, step{"attribute request", func() error {
		return c.Publish(ctx, cloud.AttributeRequestTopic, cloud.AttributeRequest())
	}})

	for i, st := range steps {
		if i > 0 {
			if err := sleep(ctx, s.config.StepDelay); err != nil {
				return err
			}
		}
		if err := st.run(); err != nil {
			return fmt.Errorf("%s: %w", st.name, err)
		}
		s.logger.Info("cloud step done", "step", st.name)
	}
	return nil
}

type step struct {
	name string
	run  func() error
}

func errOr(err error, resp modem.Response) error {
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: %s", modem.ErrUnexpectedResponse, resp.Final)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
