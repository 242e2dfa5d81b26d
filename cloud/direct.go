package cloud

//go:generate go tool mockgen -source=direct.go -destination=mock_direct_test.go -package=cloud

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"i4.energy/across/telemetrygw/modem"
	"i4.energy/across/telemetrygw/ready"
	"i4.energy/across/telemetrygw/urc"
)

// brokerClient is the part of mqtt.Client the direct client uses.
type brokerClient interface {
	Connect() mqtt.Token
	Disconnect(quiesce uint)
	IsConnected() bool
	Publish(topic string, qos byte, retained bool, payload any) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
}

type DirectConfig struct {
	Logger   *slog.Logger
	Broker   modem.Broker
	ClientID string
	Topics   urc.Topics
	// Handler receives every inbound message.
	Handler urc.MessageHandler
	// Ready is set while connected. Optional.
	Ready *ready.Flag
	QoS   byte
	// KeepAlive defaults to 60s, ConnectTimeout and Timeout to 10s.
	KeepAlive      time.Duration
	ConnectTimeout time.Duration
	Timeout        time.Duration
}

// DirectClient talks to the broker over IP with paho instead of through the
// modem. It is used on a bench without cellular hardware.
type DirectClient struct {
	config DirectConfig
	logger *slog.Logger
	client brokerClient
	ctx    context.Context
}

func NewDirectClient(config DirectConfig) (*DirectClient, error) {
	if config.Broker.Host == "" {
		return nil, ErrNoBroker
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Broker.Port == 0 {
		config.Broker.Port = 1883
	}
	if config.KeepAlive <= 0 {
		config.KeepAlive = time.Minute
	}
	if config.ConnectTimeout <= 0 {
		config.ConnectTimeout = 10 * time.Second
	}
	if config.Timeout <= 0 {
		config.Timeout = 10 * time.Second
	}

	c := &DirectClient{
		config: config,
		logger: config.Logger.With("component", "direct"),
		ctx:    context.Background(),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", config.Broker.Host, config.Broker.Port))
	opts.SetClientID(config.ClientID)
	opts.SetUsername(config.Broker.Username)
	opts.SetPassword(config.Broker.Password)
	opts.SetConnectTimeout(config.ConnectTimeout)
	opts.SetKeepAlive(config.KeepAlive)
	opts.SetAutoReconnect(true)
	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)
	c.client = mqtt.NewClient(opts)
	return c, nil
}

// Run connects and stays connected until ctx is done. Reconnects are left
// to paho.
func (c *DirectClient) Run(ctx context.Context) error {
	c.ctx = ctx
	c.logger.Info("connecting to broker", "host", c.config.Broker.Host, "port", c.config.Broker.Port)
	if err := c.wait(ctx, c.client.Connect()); err != nil && ctx.Err() == nil {
		return fmt.Errorf("connect broker: %w", err)
	}

	<-ctx.Done()
	if c.config.Ready != nil {
		c.config.Ready.Clear()
	}
	c.client.Disconnect(250)
	return ctx.Err()
}

var _ Publisher = (*DirectClient)(nil)

func (c *DirectClient) Publish(ctx context.Context, topic, payload string) error {
	if !c.client.IsConnected() {
		return fmt.Errorf("publish %s: %w", topic, modem.ErrPublishFailed)
	}
	if err := c.wait(ctx, c.client.Publish(topic, c.config.QoS, false, payload)); err != nil {
		return fmt.Errorf("publish %s: %w: %w", topic, modem.ErrPublishFailed, err)
	}
	return nil
}

// onConnect subscribes the cloud topics and requests the shared attributes
// on every (re)connect.
func (c *DirectClient) onConnect(mqtt.Client) {
	ctx := c.ctx
	for _, topic := range c.config.Topics.Subscriptions() {
		if err := c.wait(ctx, c.client.Subscribe(topic, c.config.QoS, c.onMessage)); err != nil {
			c.logger.Error("subscribe failed", "topic", topic, "error", err)
			return
		}
		c.logger.Info("subscribed", "topic", topic)
	}
	if err := c.Publish(ctx, AttributeRequestTopic, AttributeRequest()); err != nil {
		c.logger.Warn("attribute request failed", "error", err)
	}
	if c.config.Ready != nil {
		c.config.Ready.Set()
	}
}

func (c *DirectClient) onConnectionLost(_ mqtt.Client, err error) {
	c.logger.Warn("broker connection lost", "error", err)
	if c.config.Ready != nil {
		c.config.Ready.Clear()
	}
}

func (c *DirectClient) onMessage(_ mqtt.Client, msg mqtt.Message) {
	if c.config.Handler == nil {
		return
	}
	if err := c.config.Handler.HandleMessage(c.ctx, msg.Topic(), string(msg.Payload())); err != nil {
		c.logger.Warn("message not handled", "topic", msg.Topic(), "error", err)
	}
}

func (c *DirectClient) wait(ctx context.Context, token mqtt.Token) error {
	t := time.NewTimer(c.config.Timeout)
	defer t.Stop()
	select {
	case <-token.Done():
		return token.Error()
	case <-t.C:
		return modem.ErrTimeout
	case <-ctx.Done():
		return ctx.Err()
	}
}
