// Package gnss polls the modem's GNSS receiver and feeds the position into
// the telemetry store.
package gnss

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"i4.energy/across/telemetrygw/modem"
	"i4.energy/across/telemetrygw/ready"
	"i4.energy/across/telemetrygw/telemetry"
)

const (
	CmdPowerOn  = "AT+CGPS=1,1"
	CmdPowerOff = "AT+CGPS=0"
	CmdInfo     = "AT+CGPSINFO"
	InfoPrefix  = "+CGPSINFO:"
)

var (
	ErrNoFix     = errors.New("no gnss fix")
	ErrMalformed = errors.New("malformed gnss info")
)

// Executor runs one AT command. *modem.Modem implements it.
type Executor interface {
	Exec(ctx context.Context, cmd string, timeout time.Duration) (modem.Response, error)
}

// Fix is a decoded position.
type Fix struct {
	Lat  float64
	Lon  float64
	Alt  float64
	Time time.Time
}

// ParseInfo decodes a CGPSINFO line:
//
//	+CGPSINFO: 3113.343286,N,12121.234064,E,250311,072809.3,44.1,0.0,0
//
// Latitude and longitude are degrees and minutes (ddmm.mmmm). A line with
// empty fields means the receiver has no fix yet.
func ParseInfo(line string) (Fix, error) {
	body, ok := strings.CutPrefix(strings.TrimSpace(line), InfoPrefix)
	if !ok {
		return Fix{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	fields := strings.Split(strings.TrimSpace(body), ",")
	if len(fields) < 7 {
		return Fix{}, fmt.Errorf("%w: %q", ErrMalformed, line)
	}
	if fields[0] == "" || fields[2] == "" {
		return Fix{}, ErrNoFix
	}

	lat, err := degrees(fields[0], fields[1], "S")
	if err != nil {
		return Fix{}, err
	}
	lon, err := degrees(fields[2], fields[3], "W")
	if err != nil {
		return Fix{}, err
	}
	alt, err := strconv.ParseFloat(fields[6], 64)
	if err != nil {
		return Fix{}, fmt.Errorf("%w: altitude %q", ErrMalformed, fields[6])
	}

	fix := Fix{Lat: lat, Lon: lon, Alt: alt}
	if ts, err := time.Parse("020106150405", fields[4]+strings.SplitN(fields[5], ".", 2)[0]); err == nil {
		fix.Time = ts.UTC()
	}
	return fix, nil
}

func degrees(value, hemisphere, negative string) (float64, error) {
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: coordinate %q", ErrMalformed, value)
	}
	deg := float64(int(v / 100))
	d := deg + (v-deg*100)/60
	if hemisphere == negative {
		d = -d
	}
	return d, nil
}

type Config struct {
	Logger *slog.Logger
	Modem  Executor
	Store  *telemetry.Store
	// Ready gates the first command. Nil starts immediately.
	Ready *ready.Flag
	// StartDelay follows readiness. Defaults to 5s.
	StartDelay time.Duration
	// WarmUp is the wait after powering the receiver. Defaults to 30s.
	WarmUp time.Duration
	// Interval between polls. Defaults to one minute.
	Interval time.Duration
	// Timeout per command. Defaults to 2s.
	Timeout time.Duration
}

// Poller powers the receiver once the cloud session is up, then polls it.
type Poller struct {
	config Config
	logger *slog.Logger
}

func NewPoller(config Config) *Poller {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.StartDelay <= 0 {
		config.StartDelay = 5 * time.Second
	}
	if config.WarmUp <= 0 {
		config.WarmUp = 30 * time.Second
	}
	if config.Interval <= 0 {
		config.Interval = time.Minute
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Second
	}
	return &Poller{
		config: config,
		logger: config.Logger.With("component", "gnss"),
	}
}

// Run powers the receiver and polls until ctx is done. Failing to power the
// receiver ends Run with an error; failed polls are logged.
func (p *Poller) Run(ctx context.Context) error {
	if p.config.Ready != nil {
		if err := p.config.Ready.Wait(ctx); err != nil {
			return err
		}
	}
	if err := sleep(ctx, p.config.StartDelay); err != nil {
		return err
	}

	resp, err := p.config.Modem.Exec(ctx, CmdPowerOn, p.config.Timeout)
	if err != nil {
		return fmt.Errorf("power on gnss: %w", err)
	}
	if resp.Failed() {
		// Already running answers ERROR on most firmware.
		p.logger.Warn("gnss power on refused", "response", resp.Final)
	}
	p.logger.Info("gnss receiver on, waiting for first fix", "warm_up", p.config.WarmUp)
	if err := sleep(ctx, p.config.WarmUp); err != nil {
		return err
	}

	for {
		fix, err := p.Poll(ctx)
		switch {
		case err == nil:
			p.logger.Debug("gnss fix", "lat", fix.Lat, "lon", fix.Lon, "alt", fix.Alt)
		case errors.Is(err, ErrNoFix):
			p.logger.Info("gnss has no fix")
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			p.logger.Warn("gnss poll failed", "error", err)
		}

		if err := sleep(ctx, p.config.Interval); err != nil {
			return err
		}
	}
}

// Poll queries the receiver once and stores a valid fix.
func (p *Poller) Poll(ctx context.Context) (Fix, error) {
	resp, err := p.config.Modem.Exec(ctx, CmdInfo, p.config.Timeout)
	if err != nil {
		return Fix{}, err
	}
	line, ok := resp.Find(InfoPrefix)
	if !ok {
		return Fix{}, fmt.Errorf("%w: no %s line", ErrMalformed, InfoPrefix)
	}
	fix, err := ParseInfo(InfoPrefix + " " + line)
	if err != nil {
		return Fix{}, err
	}

	if p.config.Store != nil {
		p.config.Store.Update(func(s *telemetry.Snapshot) {
			s.Lat, s.Lon, s.Alt = fix.Lat, fix.Lon, fix.Alt
			if !fix.Time.IsZero() {
				s.Timestamp = fix.Time.Format(time.RFC3339)
			}
		})
	}
	return fix, nil
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
