package stream

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"wardwatch/internal/alerts"
	"wardwatch/internal/logging"
)

// State is the connection state surfaced for display.
type State string

const (
	StateConnecting   State = "Connecting"
	StateConnected    State = "Connected"
	StateDisconnected State = "Disconnected"
	StateError        State = "Error"
)

// DefaultReconnectDelay matches the reference console behavior.
const DefaultReconnectDelay = 3 * time.Second

// Conn is the subset of a websocket connection the client reads from.
type Conn interface {
	ReadMessage() (messageType int, data []byte, err error)
	Close() error
}

// DialFunc establishes one push-channel session.
type DialFunc func(ctx context.Context, url string) (Conn, error)

// Options describes client construction parameters.
type Options struct {
	// URL is the push-channel endpoint (ws:// or wss://).
	URL string
	// ReconnectDelay is the fixed wait between a close and the next
	// connection attempt. Defaults to DefaultReconnectDelay.
	ReconnectDelay time.Duration
	// OnAlert receives each parsed alert, synchronously with receipt and in
	// channel order.
	OnAlert func(alerts.Alert)
	// OnStateChange receives every connection-state transition.
	OnStateChange func(State)
	Logger        *slog.Logger
	// Dial overrides the websocket dialer. Used by tests.
	Dial DialFunc
}

// Client maintains one logical push-channel session across any number of
// physical connections.
type Client struct {
	url     string
	delay   time.Duration
	onAlert func(alerts.Alert)
	onState func(State)
	logger  *slog.Logger
	dial    DialFunc

	mu      sync.Mutex
	conn    Conn
	state   State
	started bool
}

// New validates options and builds a client. Start must be called to begin
// receiving.
func New(opts Options) (*Client, error) {
	url := strings.TrimSpace(opts.URL)
	if url == "" {
		return nil, errors.New("stream: url required")
	}
	delay := opts.ReconnectDelay
	if delay <= 0 {
		delay = DefaultReconnectDelay
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	dial := opts.Dial
	if dial == nil {
		dial = websocketDial
	}
	return &Client{
		url:     url,
		delay:   delay,
		onAlert: opts.OnAlert,
		onState: opts.OnStateChange,
		logger:  logger,
		dial:    dial,
		state:   StateConnecting,
	}, nil
}

// Subscription is the handle for one running session loop.
type Subscription struct {
	client *Client
	cancel context.CancelFunc
	done   chan struct{}
}

// Stop tears the session down: it cancels any pending reconnect, closes an
// open connection, and returns once no further callbacks can fire.
func (s *Subscription) Stop() {
	s.cancel()
	s.client.closeConn()
	<-s.done
}

// Done is closed when the session loop has exited.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Start launches the session loop. Each client supports one subscription at
// a time.
func (c *Client) Start(ctx context.Context) (*Subscription, error) {
	c.mu.Lock()
	if c.started {
		c.mu.Unlock()
		return nil, errors.New("stream: already started")
	}
	c.started = true
	c.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	sub := &Subscription{client: c, cancel: cancel, done: make(chan struct{})}
	go c.run(ctx, sub.done)
	return sub, nil
}

// State returns the most recent connection state.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Client) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	defer func() {
		c.mu.Lock()
		c.started = false
		c.mu.Unlock()
	}()

	for {
		c.setState(ctx, StateConnecting)

		conn, err := c.dial(ctx, c.url)
		if ctx.Err() != nil {
			if err == nil && conn != nil {
				_ = conn.Close()
			}
			return
		}
		if err != nil {
			// Construction failure behaves like a transport closure.
			c.logger.Warn("push channel dial failed", slog.String("url", c.url), slog.Any("error", err))
			c.setState(ctx, StateError)
			c.setState(ctx, StateDisconnected)
			if !c.waitReconnect(ctx) {
				return
			}
			continue
		}

		c.setConn(conn)
		c.setState(ctx, StateConnected)
		c.logger.Info("push channel connected", slog.String("url", c.url))

		c.receive(ctx, conn)

		c.setConn(nil)
		_ = conn.Close()
		if ctx.Err() != nil {
			return
		}

		c.setState(ctx, StateDisconnected)
		c.logger.Info("push channel disconnected", slog.Duration("reconnect_in", c.delay))
		if !c.waitReconnect(ctx) {
			return
		}
	}
}

// receive reads until the connection fails or the context is canceled.
func (c *Client) receive(ctx context.Context, conn Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !isClosure(err) {
				c.logger.Warn("push channel read error", slog.Any("error", err))
				c.setState(ctx, StateError)
			}
			return
		}

		alert, err := alerts.Decode(data)
		if err != nil {
			// Malformed payloads fail the message, never the connection.
			c.logger.Warn("dropping malformed alert payload", slog.Any("error", err))
			continue
		}
		if c.onAlert != nil {
			c.onAlert(alert)
		}
	}
}

// waitReconnect arms exactly one reconnect timer. It reports false when the
// context was canceled before the delay elapsed.
func (c *Client) waitReconnect(ctx context.Context) bool {
	timer := time.NewTimer(c.delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func (c *Client) setState(ctx context.Context, state State) {
	if ctx.Err() != nil {
		return
	}
	c.mu.Lock()
	c.state = state
	c.mu.Unlock()
	if c.onState != nil {
		c.onState(state)
	}
}

func (c *Client) setConn(conn Conn) {
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
}

func (c *Client) closeConn() {
	c.mu.Lock()
	conn := c.conn
	c.conn = nil
	c.mu.Unlock()
	if conn != nil {
		_ = conn.Close()
	}
}

// isClosure reports whether err represents an orderly shutdown rather than
// a protocol or transport error.
func isClosure(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	return errors.Is(err, io.EOF) || errors.Is(err, net.ErrClosed)
}

func websocketDial(ctx context.Context, url string) (Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, err
	}
	return conn, nil
}
