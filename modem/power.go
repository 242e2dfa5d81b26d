package modem

import (
	"context"
	"fmt"
	"time"
)

// LinePower drives the modem supply rail and PWRKEY through the serial
// control lines: DTR switches the rail, RTS is the (active low) power key.
type LinePower struct {
	Lines ControlLines

	// KeyPulse is how long PWRKEY is held low. Defaults to 200ms.
	KeyPulse time.Duration
	// BootDelay is the wait after releasing PWRKEY. Defaults to 5s.
	BootDelay time.Duration
	// OffDelay is the wait after cutting the rail. Defaults to 1s.
	OffDelay time.Duration
}

func (p *LinePower) PowerOn(ctx context.Context) error {
	pulse := orDefault(p.KeyPulse, 200*time.Millisecond)

	if err := p.Lines.SetDTR(true); err != nil {
		return fmt.Errorf("enable rail: %w", err)
	}
	if err := sleep(ctx, pulse); err != nil {
		return err
	}
	if err := p.Lines.SetRTS(false); err != nil {
		return fmt.Errorf("press power key: %w", err)
	}
	if err := sleep(ctx, pulse); err != nil {
		return err
	}
	if err := p.Lines.SetRTS(true); err != nil {
		return fmt.Errorf("release power key: %w", err)
	}
	return sleep(ctx, orDefault(p.BootDelay, 5*time.Second))
}

func (p *LinePower) PowerOff(ctx context.Context) error {
	if err := p.Lines.SetDTR(false); err != nil {
		return fmt.Errorf("disable rail: %w", err)
	}
	return sleep(ctx, orDefault(p.OffDelay, time.Second))
}

func orDefault(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
