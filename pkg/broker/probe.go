package broker

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	pahomqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/eclipse/paho.mqtt.golang/packets"
)

const (
	defaultTimeout = 5 * time.Second

	// disconnectQuiesce is in milliseconds
	disconnectQuiesce = 250

	tlsMinVersion = tls.VersionTLS12
)

var (
	// ErrUnreachable is returned when the broker can't be reached in time
	ErrUnreachable = errors.New("broker unreachable")

	// ErrRejected is returned when the broker refuses the probe credential
	ErrRejected = errors.New("broker rejected probe credential")
)

// Status is the outcome of a probe
type Status struct {
	URL     string        `json:"url"`
	Latency time.Duration `json:"latency_ns"`
}

// Probe connects to the broker with a throwaway MQTT session
type Probe struct {
	URL      string
	Username string
	Password string
	Timeout  time.Duration
}

var probeSeq atomic.Uint64

// newClientID is unique per connection so concurrent checks never take over
// each other's session.
func newClientID() string {
	return fmt.Sprintf("iot-auth-probe-%d-%d", time.Now().UnixNano(), probeSeq.Add(1))
}

// NewProbe creates a Probe. A zero timeout uses a five second default.
func NewProbe(brokerURL, username, password string, timeout time.Duration) *Probe {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Probe{
		URL:      brokerURL,
		Username: username,
		Password: password,
		Timeout:  timeout,
	}
}

func (p *Probe) options(clientID string, timeout time.Duration) (*pahomqtt.ClientOptions, error) {
	u, err := url.Parse(p.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid broker url %q: %w", p.URL, err)
	}
	switch u.Scheme {
	case "tcp", "mqtt", "ssl", "tls", "mqtts", "ws", "wss":
	default:
		return nil, fmt.Errorf("invalid broker url %q: unsupported scheme %q", p.URL, u.Scheme)
	}

	opts := pahomqtt.NewClientOptions()
	opts.AddBroker(p.URL)
	opts.SetClientID(clientID)
	if p.Username != "" {
		opts.SetUsername(p.Username)
		opts.SetPassword(p.Password)
	}
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(false)
	opts.SetConnectRetry(false)
	opts.SetConnectTimeout(timeout)

	switch u.Scheme {
	case "ssl", "tls", "mqtts", "wss":
		opts.SetTLSConfig(&tls.Config{MinVersion: tlsMinVersion})
	}
	return opts, nil
}

// Check connects, then disconnects immediately. It returns ErrUnreachable
// on timeout or network failure and ErrRejected when the broker refuses the
// credential. The attempt is bounded by the shorter of p.Timeout and the ctx
// deadline; an abandoned attempt is disconnected once it settles.
func (p *Probe) Check(ctx context.Context) (*Status, error) {
	deadline := p.Timeout
	if d, ok := ctx.Deadline(); ok {
		if remaining := time.Until(d); remaining < deadline {
			deadline = remaining
		}
	}
	if deadline <= 0 {
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, context.DeadlineExceeded)
	}

	opts, err := p.options(newClientID(), deadline)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	client := pahomqtt.NewClient(opts)
	token := client.Connect()

	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case <-token.Done():
	case <-timer.C:
		abandon(client, token)
		return nil, fmt.Errorf("%w: timeout after %v", ErrUnreachable, deadline)
	case <-ctx.Done():
		abandon(client, token)
		return nil, fmt.Errorf("%w: %w", ErrUnreachable, ctx.Err())
	}
	if err := token.Error(); err != nil {
		return nil, classify(err)
	}

	latency := time.Since(start)
	client.Disconnect(disconnectQuiesce)

	return &Status{URL: p.URL, Latency: latency}, nil
}

// abandon waits for a connect the caller gave up on and closes the session
// if the broker accepted it late.
func abandon(client pahomqtt.Client, token pahomqtt.Token) {
	go func() {
		token.Wait()
		if client.IsConnected() {
			client.Disconnect(0)
		}
	}()
}

// classify maps paho connect errors to the probe's sentinels
func classify(err error) error {
	switch {
	case errors.Is(err, packets.ErrorRefusedNotAuthorised),
		errors.Is(err, packets.ErrorRefusedBadUsernameOrPassword):
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return fmt.Errorf("%w: %w", ErrUnreachable, err)
}
