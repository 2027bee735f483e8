package streamdeck

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/fkcurrie/streamdeck-helloworld/internal/logging"
	"github.com/fkcurrie/streamdeck-helloworld/internal/types"
)

var (
	// ErrNotConnected is returned when a directive is sent before Connect
	ErrNotConnected = errors.New("not connected to Stream Deck")
	// ErrClosed is returned when a directive is sent after Close
	ErrClosed = errors.New("connection closed")
)

const (
	maxMessageSize = 1 << 20
	sendQueueSize  = 64
)

// Client represents a Stream Deck WebSocket client
type Client struct {
	config types.HostConfig
	dialer *websocket.Dialer

	mu   sync.Mutex
	conn *websocket.Conn

	events    chan types.Event
	send      chan Directive
	done      chan struct{}
	closeOnce sync.Once
}

// NewClient creates a new Stream Deck WebSocket client
func NewClient(config types.HostConfig) *Client {
	if config.Address == "" {
		config.Address = "127.0.0.1"
	}
	if config.PongWait <= 0 {
		config.PongWait = 60 * time.Second
	}
	if config.PingInterval <= 0 || config.PingInterval >= config.PongWait {
		config.PingInterval = config.PongWait * 9 / 10
	}
	if config.WriteTimeout <= 0 {
		config.WriteTimeout = 10 * time.Second
	}

	return &Client{
		config: config,
		dialer: websocket.DefaultDialer,
		events: make(chan types.Event, 16),
		send:   make(chan Directive, sendQueueSize),
		done:   make(chan struct{}),
	}
}

// Connect dials the application, registers the plugin and starts the pumps
func (c *Client) Connect(ctx context.Context) error {
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(c.config.Address, strconv.Itoa(c.config.Port)),
		Path:   "/",
	}

	conn, _, err := c.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to connect to Stream Deck: %w", err)
	}

	reg := Registration{Event: c.config.RegisterEvent, UUID: c.config.PluginUUID}
	conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	if err := conn.WriteJSON(reg); err != nil {
		conn.Close()
		return fmt.Errorf("failed to register plugin: %w", err)
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()

	logging.Infof("connected to %s as %s", u.String(), c.config.PluginUUID)

	go c.readPump(conn)
	go c.writePump(conn)
	go func() {
		select {
		case <-ctx.Done():
			c.Close()
		case <-c.done:
		}
	}()

	return nil
}

// Events returns the channel of decoded events. It is closed when the
// connection ends.
func (c *Client) Events() <-chan types.Event {
	return c.events
}

// Done is closed once the client has shut down
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Close closes the client. It is safe to call more than once.
func (c *Client) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.mu.Lock()
		conn := c.conn
		c.mu.Unlock()
		if conn == nil {
			return
		}

		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		err = conn.Close()
	})
	return err
}

// SetTitle asks the application to show title on the key identified by keyContext
func (c *Client) SetTitle(keyContext, title string) error {
	return c.enqueue(setTitle(keyContext, title))
}

// SetSettings asks the application to persist settings for keyContext
func (c *Client) SetSettings(keyContext string, settings types.Settings) error {
	return c.enqueue(setSettings(keyContext, settings))
}

// SetImage asks the application to show image (a data URI) on keyContext
func (c *Client) SetImage(keyContext, image string) error {
	return c.enqueue(setImage(keyContext, image))
}

// LogMessage writes message to the application's plugin log
func (c *Client) LogMessage(message string) error {
	return c.enqueue(logMessage(message))
}

func (c *Client) enqueue(d Directive) error {
	c.mu.Lock()
	connected := c.conn != nil
	c.mu.Unlock()
	if !connected {
		return ErrNotConnected
	}

	select {
	case <-c.done:
		return ErrClosed
	default:
	}

	select {
	case c.send <- d:
		return nil
	case <-c.done:
		return ErrClosed
	}
}

// readPump pumps messages from the WebSocket connection to the events channel
func (c *Client) readPump(conn *websocket.Conn) {
	defer func() {
		close(c.events)
		c.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Errorf("read error: %v", err)
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(c.config.PongWait))

		evt, err := DecodeEvent(message)
		if err != nil {
			logging.Warnf("error decoding event: %v", err)
			continue
		}
		logging.Debugf("received %s for %s", evt.Name, evt.Context)

		// Key events must not be dropped, so wait for the consumer.
		select {
		case c.events <- evt:
		case <-c.done:
			return
		}
	}
}

// writePump pumps directives from the send queue to the WebSocket connection
func (c *Client) writePump(conn *websocket.Conn) {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logging.Errorf("ping failed: %v", err)
				return
			}
		case d := <-c.send:
			conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := conn.WriteJSON(d); err != nil {
				logging.Errorf("failed to send %s: %v", d.Event, err)
				return
			}
		}
	}
}
