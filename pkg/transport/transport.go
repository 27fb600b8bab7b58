// Package transport talks to the chat backend: session management over
// REST and the live chat stream over a websocket. A Client owns at most
// one websocket connection at a time, keyed by session id, and applies
// every inbound frame to the shared store.
package transport

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/chatterm/chatterm/pkg/store"
)

// ErrNotConnected is returned by SendMessage when no websocket
// connection is open.
var ErrNotConnected = errors.New("not connected")

// DefaultMaxReconnects caps automatic reconnection attempts after an
// unexpected close.
const DefaultMaxReconnects = 5

// EventType classifies transport events surfaced to the UI.
type EventType int

const (
	// EventConnectionLost fires when reconnection attempts are
	// exhausted and the client stays offline.
	EventConnectionLost EventType = iota
	// EventServerError fires when the server reports an error frame.
	EventServerError
)

// Event is a transport-level notification for the UI.
type Event struct {
	Type    EventType
	Message string
}

type connState int

const (
	stateDisconnected connState = iota
	stateConnecting
	stateOpen
)

// Client is safe for concurrent use.
type Client struct {
	baseURL       *url.URL
	httpc         *http.Client
	dialer        *websocket.Dialer
	store         *store.Store
	notify        func(Event)
	maxReconnects int

	mu        sync.Mutex
	conn      *websocket.Conn
	sessionID string
	state     connState
	attempts  int
	reconnect *time.Timer
	closing   bool
	// gen invalidates callbacks from a previous connection after a
	// disconnect or a new Connect.
	gen int

	// writeMu serializes websocket writes; gorilla/websocket allows
	// only one concurrent writer.
	writeMu sync.Mutex

	// Overridable in tests.
	afterFunc func(d time.Duration, fn func()) *time.Timer
}

type Option func(*Client)

// WithHTTPClient replaces the default HTTP client for REST calls.
func WithHTTPClient(httpc *http.Client) Option {
	return func(c *Client) {
		c.httpc = httpc
	}
}

// WithNotify registers a hook for transport events. The hook may be
// called from transport goroutines.
func WithNotify(fn func(Event)) Option {
	return func(c *Client) {
		c.notify = fn
	}
}

// WithMaxReconnects overrides DefaultMaxReconnects. Zero or negative
// values keep the default.
func WithMaxReconnects(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxReconnects = n
		}
	}
}

// New creates a client for the backend at baseURL, e.g.
// "http://localhost:8000".
func New(baseURL string, st *store.Store, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}

	c := &Client{
		baseURL:       u,
		httpc:         &http.Client{Timeout: 30 * time.Second},
		dialer:        websocket.DefaultDialer,
		store:         st,
		maxReconnects: DefaultMaxReconnects,
		afterFunc:     time.AfterFunc,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Client) emit(ev Event) {
	if c.notify != nil {
		c.notify(ev)
	}
}
