package geolocation

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog/log"
)

const subscribeTimeout = 10 * time.Second

// Subscriber is the part of mqtt.Client the geolocator uses.
type Subscriber interface {
	Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token
	Unsubscribe(topics ...string) mqtt.Token
	IsConnectionOpen() bool
}

// ConnectMQTT connects to broker with automatic reconnects.
func ConnectMQTT(broker, clientID string) (mqtt.Client, error) {
	opts := mqtt.NewClientOptions().
		AddBroker(broker).
		SetClientID(clientID).
		SetAutoReconnect(true).
		SetConnectTimeout(subscribeTimeout)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(subscribeTimeout) {
		return nil, fmt.Errorf("geolocation: timed out connecting to %s", broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("geolocation: failed to connect to %s: %w", broker, err)
	}
	return client, nil
}

// fixMessage is the payload devices publish: a fix, or an error such as
// {"error":"permission_denied"} when the user refused location sharing.
type fixMessage struct {
	Position
	Error string `json:"error,omitempty"`
}

// MQTTGeolocator reads device fixes published on an MQTT topic.
// A high-accuracy request only accepts fixes whose accuracy radius is at most
// highAccuracyMeters.
type MQTTGeolocator struct {
	client             Subscriber
	topic              string
	highAccuracyMeters float64
	now                func() time.Time

	mu      sync.Mutex
	last    *Position
	waiters map[chan fixMessage]struct{}
}

// NewMQTTGeolocator creates a geolocator; call Start before requesting positions.
func NewMQTTGeolocator(client Subscriber, topic string, highAccuracyMeters float64) *MQTTGeolocator {
	return &MQTTGeolocator{
		client:             client,
		topic:              topic,
		highAccuracyMeters: highAccuracyMeters,
		now:                time.Now,
		waiters:            make(map[chan fixMessage]struct{}),
	}
}

// Start subscribes to the position topic.
func (g *MQTTGeolocator) Start() error {
	token := g.client.Subscribe(g.topic, 1, g.handle)
	if !token.WaitTimeout(subscribeTimeout) {
		return fmt.Errorf("geolocation: timed out subscribing to %s", g.topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("geolocation: failed to subscribe to %s: %w", g.topic, err)
	}
	return nil
}

// Stop unsubscribes from the position topic.
func (g *MQTTGeolocator) Stop() {
	g.client.Unsubscribe(g.topic).WaitTimeout(subscribeTimeout)
}

func (g *MQTTGeolocator) handle(_ mqtt.Client, msg mqtt.Message) {
	var fix fixMessage
	if err := json.Unmarshal(msg.Payload(), &fix); err != nil {
		log.Warn().Err(err).Str("topic", msg.Topic()).Msg("geolocation: dropping malformed fix")
		return
	}
	if fix.Error == "" && fix.Timestamp.IsZero() {
		fix.Timestamp = g.now()
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if fix.Error == "" {
		pos := fix.Position
		g.last = &pos
	}
	for ch := range g.waiters {
		select {
		case ch <- fix:
		default:
		}
	}
}

func (g *MQTTGeolocator) acceptable(pos Position, opts PositionOptions) bool {
	return !opts.HighAccuracy || pos.Accuracy <= g.highAccuracyMeters
}

// CurrentPosition waits for the next acceptable fix, or serves a cached one when
// opts.MaximumAge allows it.
func (g *MQTTGeolocator) CurrentPosition(ctx context.Context, opts PositionOptions) (Position, error) {
	if !g.client.IsConnectionOpen() {
		return Position{}, &PositionError{Code: PositionUnavailable, Message: "position source is not connected"}
	}

	ch := make(chan fixMessage, 1)
	g.mu.Lock()
	if opts.MaximumAge > 0 && g.last != nil &&
		g.now().Sub(g.last.Timestamp) <= opts.MaximumAge && g.acceptable(*g.last, opts) {
		pos := *g.last
		g.mu.Unlock()
		return pos, nil
	}
	g.waiters[ch] = struct{}{}
	g.mu.Unlock()

	defer func() {
		g.mu.Lock()
		delete(g.waiters, ch)
		g.mu.Unlock()
	}()

	var timeout <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		timeout = timer.C
	}

	for {
		select {
		case fix := <-ch:
			switch fix.Error {
			case "":
				if g.acceptable(fix.Position, opts) {
					return fix.Position, nil
				}
			case "permission_denied":
				return Position{}, &PositionError{Code: PermissionDenied, Message: "device denied location access"}
			default:
				return Position{}, &PositionError{Code: PositionUnavailable, Message: fix.Error}
			}
		case <-timeout:
			return Position{}, &PositionError{Code: Timeout, Message: "timed out waiting for a position fix"}
		case <-ctx.Done():
			return Position{}, ctx.Err()
		}
	}
}
