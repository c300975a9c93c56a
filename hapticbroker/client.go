package hapticbroker

import (
	"context"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/haptic-sync/beatctl/hapticlog"
)

const defaultConnectTimeout = 5 * time.Second

// MessageHandler receives a decoded topic/payload pair off the broker.
type MessageHandler func(topic, payload string)

// Client wraps a paho.mqtt.golang client, normalizing its connect/
// subscribe/publish surface to plain Go errors and strings.
type Client struct {
	cfg    Config
	client mqtt.Client
	logger *zerolog.Logger
}

// NewClient builds a Client from cfg. onConnectionLost is invoked on the
// paho connection-lost callback (spec section 4.9: "broker disconnect:
// logged; subscriber is expected to reconnect via broker-client retry").
func NewClient(cfg Config, logger *zerolog.Logger, onConnectionLost func(err error)) *Client {
	if logger == nil {
		logger = hapticlog.NewNoOp()
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.TCPURL()).
		SetClientID(cfg.ClientID).
		SetKeepAlive(time.Duration(cfg.Keepalive) * time.Second).
		SetConnectTimeout(defaultConnectTimeout).
		SetAutoReconnect(true)

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		logger.Warn().Err(err).Msg("broker connection lost")

		if onConnectionLost != nil {
			onConnectionLost(err)
		}
	})

	return &Client{
		cfg:    cfg,
		client: mqtt.NewClient(opts),
		logger: logger,
	}
}

// Connect dials the broker and waits up to ctx's deadline (or
// defaultConnectTimeout if ctx carries none) for the handshake to
// complete, returning a normalized ConnectResult instead of paho's
// reason-code duck typing (spec section 9).
func (c *Client) Connect(ctx context.Context) ConnectResult {
	token := c.client.Connect()

	timeout := defaultConnectTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	if !token.WaitTimeout(timeout) {
		return ConnectResult{Success: false, Message: "broker connect timed out"}
	}

	if err := token.Error(); err != nil {
		return ConnectResult{Success: false, Message: err.Error()}
	}

	return ConnectResult{Success: true}
}

// Subscribe registers handler for topic at the given QoS.
func (c *Client) Subscribe(topic string, qos byte, handler MessageHandler) error {
	token := c.client.Subscribe(topic, qos, func(_ mqtt.Client, msg mqtt.Message) {
		handler(msg.Topic(), string(msg.Payload()))
	})

	if !token.WaitTimeout(defaultConnectTimeout) {
		return errors.Errorf("subscribe to %q timed out", topic)
	}

	return token.Error()
}

// Publish sends payload to topic at the given QoS/retain settings.
func (c *Client) Publish(topic, payload string, qos byte, retain bool) error {
	token := c.client.Publish(topic, qos, retain, payload)

	if !token.WaitTimeout(defaultConnectTimeout) {
		return errors.Errorf("publish to %q timed out", topic)
	}

	return token.Error()
}

// Disconnect closes the connection, waiting up to quiesceMS for
// in-flight messages to complete.
func (c *Client) Disconnect(quiesceMS uint) {
	c.client.Disconnect(quiesceMS)
}
