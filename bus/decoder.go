package bus

import (
	"context"
	"log/slog"

	"i4.energy/across/telemetrygw/telemetry"
)

// Communication states reported in IDComms frames.
const (
	canInit  uint16 = 1
	canError uint16 = 2
	canData  uint16 = 3
)

const batteryInvalid uint16 = 0xFFFF

const pumpError uint16 = 8

var pumpStatus = map[uint16]string{
	1: "Pump Running",
	2: "Pump Purging",
	3: "Pump Stopped",
	4: "Pump Waiting",
	5: "Auto: Running",
	6: "Auto: Filling",
	7: "Auto: Purging",
}

var faultStatus = map[uint16]string{
	1: "Fill Error",
	2: "Comm Error",
}

type DecoderConfig struct {
	Logger *slog.Logger
	Store  *telemetry.Store
	// Trigger requests an immediate publish. Optional.
	Trigger func()
	// Sleep is called when the controller asks the gateway to sleep.
	// Optional.
	Sleep func()
}

// Decoder applies controller frames to the telemetry store.
type Decoder struct {
	config DecoderConfig
	logger *slog.Logger
}

func NewDecoder(config DecoderConfig) *Decoder {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Store == nil {
		config.Store = telemetry.NewStore()
	}
	return &Decoder{
		config: config,
		logger: config.Logger.With("component", "decoder"),
	}
}

var _ FrameHandler = (*Decoder)(nil)

func (d *Decoder) HandleFrame(_ context.Context, f Frame) {
	switch f.ID {
	case IDHeartbeat:
	case IDBME280:
		d.update(func(s *telemetry.Snapshot) {
			s.Temperature = float64(f.Data[0]) / 100
			s.Pressure = float64(f.Data[1]) / 100
			s.Humidity = float64(f.Data[2]) / 100
		})
	case IDTankLevel:
		d.update(func(s *telemetry.Snapshot) {
			s.InternalTank = int(int16(f.Data[0]))
			s.AuxTank = int(f.Data[1])
			s.ExternalTank = int(f.Data[2])
		})
	case IDMode:
		mode := "Manual"
		if f.Data[0] == 1 {
			mode = "Auto"
		}
		d.update(func(s *telemetry.Snapshot) { s.Mode = mode })
		d.trigger()
	case IDComms:
		d.comms(f.Data[0])
	case IDBattery:
		if f.Data[0] == batteryInvalid {
			d.logger.Debug("battery reading invalid")
			return
		}
		d.update(func(s *telemetry.Snapshot) { s.BatteryVolts = float64(f.Data[0]) / 1000 })
	case IDOutputs:
		d.update(func(s *telemetry.Snapshot) {
			s.OUT1 = f.Data[0] != 0
			s.OUT2 = f.Data[1] != 0
			s.NPN1 = f.Data[2] != 0
			s.NPN2 = f.Data[3] != 0
		})
	case IDPT1000:
		raw := int16(f.Data[0])
		d.update(func(s *telemetry.Snapshot) {
			if raw == -1 {
				s.PT1000 = -1
				return
			}
			s.PT1000 = float64(raw)/10 - 50
		})
	case IDStatus:
		d.status(f.Data[0], f.Data[1])
	case IDSystem:
		if f.Data[0] != SystemSleep {
			d.logger.Debug("system frame ignored", "data", f.Data)
			return
		}
		d.logger.Info("controller requested sleep")
		if d.config.Sleep != nil {
			d.config.Sleep()
		}
	default:
		d.logger.Debug("unhandled frame", "id", f.ID, "data", f.Data)
	}
}

func (d *Decoder) comms(state uint16) {
	switch state {
	case canInit:
		d.update(func(s *telemetry.Snapshot) { s.CANStatus = false })
		d.trigger()
	case canData:
		d.update(func(s *telemetry.Snapshot) { s.CANStatus = true })
		d.trigger()
	case canError:
		d.logger.Warn("controller reports CAN error")
	}
}

func (d *Decoder) status(pump, fault uint16) {
	text, known := pumpStatus[pump]
	fText, faulted := faultStatus[fault]
	if faulted {
		text, known = fText, true
	}
	if known {
		d.update(func(s *telemetry.Snapshot) { s.Status = text })
	}
	if known || pump == pumpError {
		d.trigger()
	}
}

func (d *Decoder) update(fn func(*telemetry.Snapshot)) {
	d.config.Store.Update(fn)
}

func (d *Decoder) trigger() {
	if d.config.Trigger != nil {
		d.config.Trigger()
	}
}
