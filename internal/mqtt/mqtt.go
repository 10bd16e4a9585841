package mqtt

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/Alkran93/Project-BICPV-sub001/internal/config"
)

// Client wraps a paho connection for the sensor stream. The alert
// monitor subscribes with it; the simulator publishes with it.
type Client struct {
	client mqtt.Client
	cfg    config.MQTT
	logger *slog.Logger

	mu        sync.RWMutex
	connected bool

	// MessageHandler is called for every message on the subscribed topic.
	// Set it before Connect: the broker may deliver queued messages right
	// after CONNACK and the OnConnect subscription must already have a
	// handler to feed.
	MessageHandler func(topic string, payload []byte)
}

func NewClient(cfg config.MQTT, logger *slog.Logger) *Client {
	c := &Client{cfg: cfg, logger: logger}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Broker, cfg.Port))
	opts.SetClientID(cfg.ClientID)

	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)

	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(pc mqtt.Client) {
		c.setConnected(true)
		logger.Info("mqtt connected", "broker", cfg.Broker, "port", cfg.Port)
		if c.MessageHandler != nil {
			c.subscribe(pc)
		}
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.setConnected(false)
		logger.Warn("mqtt connection lost", "error", err)
	})

	c.client = mqtt.NewClient(opts)
	return c
}

// Connect dials the broker and waits for the connection or ctx expiry.
func (c *Client) Connect(ctx context.Context) error {
	token := c.client.Connect()

	select {
	case <-token.Done():
		if err := token.Error(); err != nil {
			return fmt.Errorf("mqtt connect: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("mqtt connect: %w", ctx.Err())
	}
}

// Publish sends one message on the given topic at QoS 1.
func (c *Client) Publish(topic string, payload []byte) error {
	token := c.client.Publish(topic, 1, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", topic, err)
	}
	return nil
}

func (c *Client) Disconnect() {
	c.client.Disconnect(250)
	c.setConnected(false)
}

func (c *Client) Connected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *Client) setConnected(v bool) {
	c.mu.Lock()
	c.connected = v
	c.mu.Unlock()
}

func (c *Client) subscribe(pc mqtt.Client) {
	token := pc.Subscribe(c.cfg.Topic, 1, func(_ mqtt.Client, msg mqtt.Message) {
		c.MessageHandler(msg.Topic(), msg.Payload())
	})
	token.Wait()
	if err := token.Error(); err != nil {
		c.logger.Error("mqtt subscribe failed", "topic", c.cfg.Topic, "error", err)
		return
	}
	c.logger.Info("mqtt subscribed", "topic", c.cfg.Topic)
}
