// Package cloud implements the device side of the ThingsBoard protocol:
// shared attribute updates, RPC commands and the attribute request.
package cloud

//go:generate go tool mockgen -source=cloud.go -destination=mock_cloud_test.go -package=cloud_test

import (
	"context"
	"encoding/json"
	"strings"

	"i4.energy/across/telemetrygw/settings"
)

const (
	AttributeRequestTopic = "v1/devices/me/attributes/request/1"
	RPCResponsePrefix     = "v1/devices/me/rpc/response/"
)

// Publisher sends one message to the broker. *modem.MQTT and *DirectClient
// implement it.
type Publisher interface {
	Publish(ctx context.Context, topic, payload string) error
}

// SettingsStore stages and persists shared attribute values.
type SettingsStore interface {
	SetFloat(key string, v float64)
	SetInt(key string, v int)
	Commit() error
	// Ints returns the integer settings in settings.IntKeys order.
	Ints() [4]int
}

// SettingsListener is told about committed settings.
type SettingsListener interface {
	SettingsChanged(ctx context.Context, ints [4]int) error
}

// SettingsListenerFunc adapts a function to SettingsListener.
type SettingsListenerFunc func(ctx context.Context, ints [4]int) error

func (f SettingsListenerFunc) SettingsChanged(ctx context.Context, ints [4]int) error {
	return f(ctx, ints)
}

// Commander drives the pump controller.
type Commander interface {
	StartCycle(ctx context.Context) error
	StopCycle(ctx context.Context) error
	ResetController(ctx context.Context) error
}

// Restarter restarts the gateway process.
type Restarter interface {
	Restart(reason string)
}

// AttributeRequest returns the payload asking the server for every shared
// key the device keeps.
func AttributeRequest() string {
	keys := append(append([]string(nil), settings.FloatKeys...), settings.IntKeys...)
	b, _ := json.Marshal(struct {
		SharedKeys string `json:"sharedKeys"`
	}{strings.Join(keys, ",")})
	return string(b)
}
