package modem

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"i4.energy/across/telemetrygw/at"
)

// MQTTConfig selects the modem's MQTT client slot and publish options.
type MQTTConfig struct {
	// ClientIndex is the modem client slot, 0 or 1.
	ClientIndex int
	// QoS used for publishing.
	QoS int
	// PublishTimeout is the modem side publish timeout in seconds.
	PublishTimeout int
	// KeepAlive in seconds.
	KeepAlive int
	// CleanSession requests a clean broker session.
	CleanSession bool
	// StepTimeout bounds each command of a sequence.
	StepTimeout time.Duration
	// ConnectTimeout bounds the broker connect command.
	ConnectTimeout time.Duration
}

func (c *MQTTConfig) setDefaults() {
	if c.QoS == 0 {
		c.QoS = 1
	}
	if c.PublishTimeout == 0 {
		c.PublishTimeout = 60
	}
	if c.KeepAlive == 0 {
		c.KeepAlive = 60
	}
	if c.StepTimeout == 0 {
		c.StepTimeout = 10 * time.Second
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = 30 * time.Second
	}
}

// Broker is the MQTT endpoint the modem connects to.
type Broker struct {
	Host     string
	Port     int
	Username string
	Password string
}

// MQTT is the modem's embedded MQTT client, driven by CMQTT commands.
// Every operation holds the command channel for its whole sequence.
type MQTT struct {
	m      *Modem
	config MQTTConfig
	logger *slog.Logger
}

func NewMQTT(m *Modem, config MQTTConfig) *MQTT {
	config.setDefaults()
	return &MQTT{
		m:      m,
		config: config,
		logger: m.logger.With("component", "mqtt"),
	}
}

// Start starts the modem's MQTT service.
func (c *MQTT) Start(ctx context.Context) error {
	return c.expectOK(ctx, "AT+CMQTTSTART", c.config.StepTimeout)
}

// AcquireClient binds clientID to the configured client slot.
func (c *MQTT) AcquireClient(ctx context.Context, clientID string) error {
	return c.expectOK(ctx, fmt.Sprintf(`AT+CMQTTACCQ=%d,"%s"`, c.config.ClientIndex, clientID), c.config.StepTimeout)
}

// Connect connects the client slot to the broker.
func (c *MQTT) Connect(ctx context.Context, b Broker) error {
	clean := 0
	if c.config.CleanSession {
		clean = 1
	}
	cmd := fmt.Sprintf(`AT+CMQTTCONNECT=%d,"tcp://%s:%d",%d,%d`,
		c.config.ClientIndex, b.Host, b.Port, c.config.KeepAlive, clean)
	if b.Username != "" {
		cmd += fmt.Sprintf(`,"%s","%s"`, b.Username, b.Password)
	}
	c.logger.Info("connecting to broker", "host", b.Host, "port", b.Port)
	return c.expectOK(ctx, cmd, c.config.ConnectTimeout)
}

// Subscribe subscribes the client slot to topic. Firmware that answers the
// topic command with OK instead of a prompt skips the topic data step.
func (c *MQTT) Subscribe(ctx context.Context, topic string, qos int) error {
	ch, err := c.m.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, topic, err)
	}
	defer ch.Release()

	resp, err := ch.Execute(ctx, fmt.Sprintf("AT+CMQTTSUBTOPIC=%d,%d,%d", c.config.ClientIndex, len(topic), qos), c.config.StepTimeout)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, topic, err)
	}
	switch {
	case resp.Prompt():
		if err := c.sendData(ctx, ch, topic); err != nil {
			return fmt.Errorf("%w: %s: topic data: %w", ErrSubscribeFailed, topic, err)
		}
	case resp.OK():
	default:
		return fmt.Errorf("%w: %s: topic command returned %q", ErrSubscribeFailed, topic, resp.Final)
	}

	if _, err := ch.Expect(ctx, fmt.Sprintf("AT+CMQTTSUB=%d", c.config.ClientIndex), at.OK, c.config.StepTimeout); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrSubscribeFailed, topic, err)
	}

	c.logger.Info("subscribed", "topic", topic, "qos", qos)
	return nil
}

// Publish sends payload to topic in three steps: set the topic, set the
// payload, publish. The topic and payload commands must end in a ">"
// prompt, after which the data is written; a data write only fails when the
// modem answers it with an error. The publish step must end in OK.
//
// Any failing step aborts the sequence with ErrPublishFailed. Whatever the
// modem accepted before the failure is not rolled back, so after repeated
// failures the session should be considered unknown.
func (c *MQTT) Publish(ctx context.Context, topic, payload string) error {
	ch, err := c.m.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrPublishFailed, err)
	}
	defer ch.Release()

	if err := ch.FlushInput(ctx); err != nil {
		c.logger.Warn("failed to flush modem input", "error", err)
	}

	idx := c.config.ClientIndex
	if err := c.load(ctx, ch, fmt.Sprintf("AT+CMQTTTOPIC=%d,%d", idx, len(topic)), topic); err != nil {
		return fmt.Errorf("%w: set topic: %w", ErrPublishFailed, err)
	}
	if err := c.load(ctx, ch, fmt.Sprintf("AT+CMQTTPAYLOAD=%d,%d", idx, len(payload)), payload); err != nil {
		return fmt.Errorf("%w: set payload: %w", ErrPublishFailed, err)
	}

	cmd := fmt.Sprintf("AT+CMQTTPUB=%d,%d,%d", idx, c.config.QoS, c.config.PublishTimeout)
	if _, err := ch.Expect(ctx, cmd, at.OK, c.config.StepTimeout); err != nil {
		return fmt.Errorf("%w: publish: %w", ErrPublishFailed, err)
	}

	c.logger.Debug("published", "topic", topic, "bytes", len(payload))
	return nil
}

// Disconnect disconnects from the broker, releases the client slot and stops
// the MQTT service. All three steps are attempted; the first error wins.
func (c *MQTT) Disconnect(ctx context.Context) error {
	idx := c.config.ClientIndex
	var first error
	for _, cmd := range []string{
		fmt.Sprintf("AT+CMQTTDISC=%d,60", idx),
		fmt.Sprintf("AT+CMQTTREL=%d", idx),
		"AT+CMQTTSTOP",
	} {
		if err := c.expectOK(ctx, cmd, c.config.StepTimeout); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// load issues a length announcing command, waits for the prompt and writes
// data.
func (c *MQTT) load(ctx context.Context, ch *Channel, cmd, data string) error {
	if _, err := ch.Expect(ctx, cmd, at.Prompt, c.config.StepTimeout); err != nil {
		return err
	}
	return c.sendData(ctx, ch, data)
}

func (c *MQTT) sendData(ctx context.Context, ch *Channel, data string) error {
	resp, err := ch.SendData(ctx, data)
	if err != nil {
		return err
	}
	if resp.Failed() {
		return fmt.Errorf("%w: data returned %q", ErrUnexpectedResponse, resp.Final)
	}
	return nil
}

func (c *MQTT) expectOK(ctx context.Context, cmd string, timeout time.Duration) error {
	ch, err := c.m.Acquire(ctx)
	if err != nil {
		return err
	}
	defer ch.Release()
	_, err = ch.Expect(ctx, cmd, at.OK, timeout)
	return err
}
