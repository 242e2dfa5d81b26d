// Package telemetry holds the gateway's shared sensor state and publishes
// it to the cloud.
package telemetry

import (
	"sync"

	"go.uber.org/atomic"
)

// Snapshot is one consistent view of the gateway state. The JSON field
// names are the cloud dashboard's telemetry keys.
type Snapshot struct {
	// InternalTank is the internal tank level in percent, -1 when unknown.
	InternalTank int `json:"Internal_Tank"`
	// ExternalTank and AuxTank are the raw level sensor readings as sent by
	// the controller.
	ExternalTank int `json:"External_Tank"`
	AuxTank      int `json:"Aux_Tank"`

	PT1000       float64 `json:"PT1000"`
	BatteryVolts float64 `json:"Battery_volts"`
	Temperature  float64 `json:"Temperature"`
	Pressure     float64 `json:"Pressure"`
	Humidity     float64 `json:"Humidity"`

	Status    string `json:"Status"`
	Mode      string `json:"Mode"`
	CSQ       int    `json:"CSQ"`
	CANStatus bool   `json:"CAN_Status"`

	OUT1 bool `json:"OUT1"`
	OUT2 bool `json:"OUT2"`
	NPN1 bool `json:"NPN1"`
	NPN2 bool `json:"NPN2"`

	Lat       float64 `json:"Lat"`
	Lon       float64 `json:"Lon"`
	Alt       float64 `json:"Alt"`
	Timestamp string  `json:"Timestamp"`
}

// Store guards the shared Snapshot. Decoders write through Update, the
// publisher and the status server read copies.
type Store struct {
	mu   sync.RWMutex
	snap Snapshot

	version atomic.Uint64

	listenersMu sync.Mutex
	listeners   []func(Snapshot)
}

func NewStore() *Store {
	return &Store{
		snap: Snapshot{InternalTank: -1, ExternalTank: -1, AuxTank: -1},
	}
}

// Update applies fn to the snapshot under the write lock, then notifies
// listeners with the new copy outside the lock.
func (s *Store) Update(fn func(*Snapshot)) {
	s.mu.Lock()
	fn(&s.snap)
	snap := s.snap
	s.mu.Unlock()

	s.version.Inc()

	s.listenersMu.Lock()
	listeners := append([](func(Snapshot))(nil), s.listeners...)
	s.listenersMu.Unlock()
	for _, l := range listeners {
		l(snap)
	}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Version increases with every Update.
func (s *Store) Version() uint64 {
	return s.version.Load()
}

// OnUpdate registers fn to be called after every Update. fn must not call
// Update.
func (s *Store) OnUpdate(fn func(Snapshot)) {
	s.listenersMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenersMu.Unlock()
}
