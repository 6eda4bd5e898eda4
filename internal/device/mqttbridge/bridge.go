// Package mqttbridge implements device sessions on top of a local
// Tuya-to-MQTT gateway. The gateway holds the encrypted LAN session with the
// bulb; this package only exchanges data point JSON with it.
package mqttbridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/tuyactl/internal/device"
	"github.com/dokzlo13/tuyactl/internal/dps"
)

const (
	qosAtLeastOnce = 1

	getStatesCommand    = "get-states"
	disconnectQuiesceMs = 250
)

// ErrNoState is returned when the gateway does not answer a status request
// within the configured timeout.
var ErrNoState = errors.New("no state received from gateway")

// Options configure the gateway connection.
type Options struct {
	Broker      string
	Username    string
	Password    string
	TopicPrefix string
	ClientID    string
	Timeout     time.Duration
}

// broker is the part of mqtt.Client used by sessions.
type broker interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Unsubscribe(topics ...string) mqtt.Token
	Disconnect(quiesce uint)
}

// Dialer connects to the gateway and opens a Session per target.
type Dialer struct {
	opts Options
}

// NewDialer creates a new gateway dialer.
func NewDialer(opts Options) *Dialer {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.TopicPrefix == "" {
		opts.TopicPrefix = "tuya"
	}
	if opts.ClientID == "" {
		opts.ClientID = "tuyactl"
	}
	return &Dialer{opts: opts}
}

// Dial connects to the broker, subscribes to the device state topic and
// registers the device with the gateway.
func (d *Dialer) Dial(ctx context.Context, target device.Target) (device.Session, error) {
	clientOpts := mqtt.NewClientOptions().
		AddBroker(d.opts.Broker).
		SetClientID(d.opts.ClientID + "-" + uuid.NewString()).
		SetUsername(d.opts.Username).
		SetPassword(d.opts.Password).
		SetConnectTimeout(d.opts.Timeout).
		SetAutoReconnect(false).
		SetCleanSession(true)

	client := mqtt.NewClient(clientOpts)

	if plaintextBroker(d.opts.Broker) {
		log.Warn().
			Str("broker", d.opts.Broker).
			Msg("Broker connection is not encrypted; the device local key is sent in the register message, use ssl:// outside a trusted network")
	}

	log.Debug().
		Str("broker", d.opts.Broker).
		Str("device", target.DeviceID).
		Msg("Connecting to MQTT gateway")

	if err := wait(ctx, client.Connect(), d.opts.Timeout); err != nil {
		return nil, device.Wrap(device.OpConnect, fmt.Errorf("failed to connect to broker %s: %w", d.opts.Broker, err))
	}

	s, err := open(ctx, client, target, d.opts)
	if err != nil {
		client.Disconnect(disconnectQuiesceMs)
		return nil, err
	}

	log.Info().
		Str("broker", d.opts.Broker).
		Str("device", target.DeviceID).
		Str("address", target.Address).
		Str("version", target.Version).
		Msg("Connected to bulb through MQTT gateway")
	return s, nil
}

// plaintextBroker reports whether a broker URI is dialed without TLS.
// A URI without a scheme is dialed as tcp://.
func plaintextBroker(uri string) bool {
	scheme, _, found := strings.Cut(uri, "://")
	if !found {
		return true
	}
	switch strings.ToLower(scheme) {
	case "ssl", "tls", "mqtts", "wss", "unix":
		return false
	}
	return true
}

// Session is a device session routed through the gateway.
type Session struct {
	client  broker
	topics  topics
	timeout time.Duration
	states  chan device.Status
}

func open(ctx context.Context, client broker, target device.Target, opts Options) (*Session, error) {
	s := &Session{
		client:  client,
		topics:  newTopics(opts.TopicPrefix, target.DeviceID),
		timeout: opts.Timeout,
		states:  make(chan device.Status, 1),
	}

	token := client.Subscribe(s.topics.state, qosAtLeastOnce, func(_ mqtt.Client, msg mqtt.Message) {
		s.handleState(msg.Payload())
	})
	if err := wait(ctx, token, s.timeout); err != nil {
		return nil, device.Wrap(device.OpConnect, fmt.Errorf("failed to subscribe to %s: %w", s.topics.state, err))
	}

	payload, err := encodeRegistration(target)
	if err != nil {
		return nil, device.Wrap(device.OpConnect, err)
	}
	if err := wait(ctx, client.Publish(s.topics.register, qosAtLeastOnce, false, payload), s.timeout); err != nil {
		return nil, device.Wrap(device.OpConnect, fmt.Errorf("failed to register device: %w", err))
	}

	return s, nil
}

// Status asks the gateway for fresh state and waits for the next report.
func (s *Session) Status(ctx context.Context) (device.Status, error) {
	// discard reports that arrived before this request
	select {
	case <-s.states:
	default:
	}

	token := s.client.Publish(s.topics.command, qosAtLeastOnce, false, getStatesCommand)
	if err := wait(ctx, token, s.timeout); err != nil {
		return nil, device.Wrap(device.OpRead, fmt.Errorf("failed to request state: %w", err))
	}

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()

	select {
	case status := <-s.states:
		return status, nil
	case <-timer.C:
		return nil, device.Wrap(device.OpRead, ErrNoState)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Set publishes one data point write and waits for the broker ack.
func (s *Session) Set(ctx context.Context, set dps.Set) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return device.Wrap(device.OpWrite, fmt.Errorf("failed to marshal data points: %w", err))
	}

	log.Debug().Str("topic", s.topics.dpsCommand).RawJSON("dps", payload).Msg("Publishing data points")

	if err := wait(ctx, s.client.Publish(s.topics.dpsCommand, qosAtLeastOnce, false, payload), s.timeout); err != nil {
		return device.Wrap(device.OpWrite, err)
	}
	return nil
}

// Close unsubscribes and disconnects from the broker.
func (s *Session) Close() error {
	token := s.client.Unsubscribe(s.topics.state)
	token.WaitTimeout(s.timeout)
	s.client.Disconnect(disconnectQuiesceMs)
	return token.Error()
}

func (s *Session) handleState(payload []byte) {
	status, err := decodeState(payload)
	if err != nil {
		log.Warn().Err(err).Str("topic", s.topics.state).Msg("Ignoring malformed state report")
		return
	}

	// keep only the newest report
	for {
		select {
		case s.states <- status:
			return
		default:
		}
		select {
		case <-s.states:
		default:
		}
	}
}

// wait blocks until the token completes, the timeout elapses or ctx is done.
func wait(ctx context.Context, token mqtt.Token, timeout time.Duration) error {
	done := make(chan bool, 1)
	go func() {
		done <- token.WaitTimeout(timeout)
	}()

	select {
	case ok := <-done:
		if !ok {
			return fmt.Errorf("timed out after %s", timeout)
		}
		return token.Error()
	case <-ctx.Done():
		return ctx.Err()
	}
}
