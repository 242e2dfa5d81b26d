package modem

import (
	"log/slog"
	"time"

	"i4.energy/across/telemetrygw/at"
)

func (c *Config) validate() error {
	if c.Dialer == nil {
		return ErrNoDialer
	}
	return nil
}

type Config struct {
	Dialer Dialer
	Logger *slog.Logger
	// Markers identify unsolicited output. Vendor specific.
	Markers at.Markers
	// LineCapacity bounds a single framed line.
	LineCapacity int
	// LockTimeout bounds Acquire.
	LockTimeout time.Duration
	// ATTimeout is the default timeout for Exec when the caller passes none.
	ATTimeout time.Duration
	// ResponseQueueLen is the capacity of the pending command's line queue.
	ResponseQueueLen int
	// URCQueueLen is the capacity of the unsolicited event channel.
	URCQueueLen int
	// FailPartial makes Execute return ErrPartialResponse when lines arrived
	// without a terminal marker. By default the partial text is a success.
	FailPartial bool
	// DataSettle is how long a raw data write is watched for the modem's
	// reaction. Silence within the window counts as accepted.
	DataSettle time.Duration
}

func (c *Config) setDefaults() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Markers.BlockStart == "" && c.Markers.BlockEnd == "" && len(c.Markers.Notifications) == 0 {
		c.Markers = at.DefaultMarkers()
	}
	if c.LineCapacity == 0 {
		c.LineCapacity = at.DefaultLineCapacity
	}
	if c.LockTimeout == 0 {
		c.LockTimeout = 10 * time.Second
	}
	if c.ATTimeout == 0 {
		c.ATTimeout = 5 * time.Second
	}
	if c.ResponseQueueLen == 0 {
		c.ResponseQueueLen = 32
	}
	if c.URCQueueLen == 0 {
		c.URCQueueLen = 100
	}
	if c.DataSettle == 0 {
		c.DataSettle = 100 * time.Millisecond
	}
}

// ConfigBuilder assembles a Config step by step.
type ConfigBuilder struct {
	config Config
}

func NewConfigBuilder() *ConfigBuilder {
	return &ConfigBuilder{}
}

func (b *ConfigBuilder) WithDialer(d Dialer) *ConfigBuilder {
	b.config.Dialer = d
	return b
}

func (b *ConfigBuilder) WithLogger(l *slog.Logger) *ConfigBuilder {
	b.config.Logger = l
	return b
}

func (b *ConfigBuilder) WithMarkers(m at.Markers) *ConfigBuilder {
	b.config.Markers = m
	return b
}

func (b *ConfigBuilder) WithLineCapacity(n int) *ConfigBuilder {
	b.config.LineCapacity = n
	return b
}

func (b *ConfigBuilder) WithLockTimeout(d time.Duration) *ConfigBuilder {
	b.config.LockTimeout = d
	return b
}

func (b *ConfigBuilder) WithATTimeout(d time.Duration) *ConfigBuilder {
	b.config.ATTimeout = d
	return b
}

func (b *ConfigBuilder) WithResponseQueueLen(n int) *ConfigBuilder {
	b.config.ResponseQueueLen = n
	return b
}

func (b *ConfigBuilder) WithURCQueueLen(n int) *ConfigBuilder {
	b.config.URCQueueLen = n
	return b
}

func (b *ConfigBuilder) WithFailPartial(fail bool) *ConfigBuilder {
	b.config.FailPartial = fail
	return b
}

func (b *ConfigBuilder) WithDataSettle(d time.Duration) *ConfigBuilder {
	b.config.DataSettle = d
	return b
}

// Build validates the configuration and fills in defaults.
func (b *ConfigBuilder) Build() (Config, error) {
	c := b.config
	if err := c.validate(); err != nil {
		return Config{}, err
	}
	c.setDefaults()
	return c, nil
}
