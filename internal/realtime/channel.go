// Package realtime maintains the websocket channel for project update
// rooms. The channel carries no payload truth: inbound events are pure
// cache-invalidation signals that trigger store refetches for the
// currently joined project.
package realtime

import (
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Client-emitted event names.
const (
	eventJoinProject  = "join-project"
	eventLeaveProject = "leave-project"
)

// Server-emitted invalidation event names.
const (
	EventTeamUpdated  = "team-updated"
	EventTasksUpdated = "tasks-updated"
	EventRiskResolved = "risk-resolved"
)

// ErrClosed indicates the channel was shut down by Close.
var ErrClosed = errors.New("channel closed")

// Handlers receive invalidation signals for the joined project. Each
// handler fires after the event's project id matched the current room;
// nil handlers are skipped.
type Handlers struct {
	TeamUpdated  func()
	TasksUpdated func()
	RiskResolved func()
	// StateChanged observes connection state flips for a UI indicator.
	StateChanged func(connected bool)
}

// Options configures a Channel.
type Options struct {
	URL              string
	Handlers         Handlers
	Logger           *log.Logger
	HandshakeTimeout time.Duration // defaults to 10s
	ReconnectBackoff time.Duration // fixed delay between attempts, defaults to 2s
	MaxReconnects    int           // bounded attempts per disconnect, defaults to 5
}

type frame struct {
	Event string `json:"event"`
	Data  struct {
		ProjectID string `json:"projectId"`
	} `json:"data"`
}

// Channel is a persistent websocket connection to the backend's update
// stream. It tracks the joined room across reconnects: a connection
// drop never silently leaves the client permanently stale.
type Channel struct {
	opts Options
	log  *log.Logger

	mu        sync.Mutex
	conn      *websocket.Conn
	room      string // currently joined project id, empty when none
	connected bool
	closed    bool
}

// New creates a channel. Call Connect to dial.
func New(opts Options) *Channel {
	if opts.HandshakeTimeout <= 0 {
		opts.HandshakeTimeout = 10 * time.Second
	}
	if opts.ReconnectBackoff <= 0 {
		opts.ReconnectBackoff = 2 * time.Second
	}
	if opts.MaxReconnects <= 0 {
		opts.MaxReconnects = 5
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}
	return &Channel{opts: opts, log: opts.Logger}
}

// SetHandlers installs the invalidation handlers, replacing any set at
// construction. Call before Connect.
func (c *Channel) SetHandlers(h Handlers) {
	c.mu.Lock()
	c.opts.Handlers = h
	c.mu.Unlock()
}

// Connect dials the backend and starts the read loop. If a room was
// already set (a project is loaded), it is joined immediately.
func (c *Channel) Connect() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return ErrClosed
	}
	c.mu.Unlock()

	dialer := websocket.Dialer{HandshakeTimeout: c.opts.HandshakeTimeout}
	conn, _, err := dialer.Dial(c.opts.URL, nil)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.connected = true
	room := c.room
	c.mu.Unlock()

	c.stateChanged(true)
	if room != "" {
		c.emit(eventJoinProject, room)
	}

	go c.readLoop(conn)
	return nil
}

// JoinProject joins a project's update room, leaving any previous room
// first.
func (c *Channel) JoinProject(projectID string) {
	c.mu.Lock()
	old := c.room
	c.room = projectID
	connected := c.connected
	c.mu.Unlock()

	if !connected || projectID == old {
		return
	}
	if old != "" {
		c.emit(eventLeaveProject, old)
	}
	c.emit(eventJoinProject, projectID)
}

// LeaveProject leaves the project's room if it is the current one.
func (c *Channel) LeaveProject(projectID string) {
	c.mu.Lock()
	if c.room != projectID {
		c.mu.Unlock()
		return
	}
	c.room = ""
	connected := c.connected
	c.mu.Unlock()

	if connected {
		c.emit(eventLeaveProject, projectID)
	}
}

// Connected reports the current connection state.
func (c *Channel) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.connected
}

// Close shuts the channel down. Idempotent.
func (c *Channel) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	conn := c.conn
	c.conn = nil
	c.connected = false
	c.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
}

func (c *Channel) emit(event, projectID string) {
	c.mu.Lock()
	conn := c.conn
	c.mu.Unlock()
	if conn == nil {
		return
	}

	var f frame
	f.Event = event
	f.Data.ProjectID = projectID
	if err := conn.WriteJSON(f); err != nil {
		c.log.Error("emit failed", "event", event, "projectId", projectID, "err", err)
	}
}

func (c *Channel) readLoop(conn *websocket.Conn) {
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			stale := c.conn != conn
			c.connected = false
			c.mu.Unlock()

			if closed || stale {
				return
			}
			c.stateChanged(false)
			c.reconnect()
			return
		}

		var f frame
		if err := json.Unmarshal(data, &f); err != nil {
			c.log.Warn("malformed frame", "err", err)
			continue
		}
		c.dispatch(f)
	}
}

// dispatch routes an invalidation event to its handler, ignoring events
// for rooms the client has since left.
func (c *Channel) dispatch(f frame) {
	c.mu.Lock()
	room := c.room
	h := c.opts.Handlers
	c.mu.Unlock()
	if room == "" || f.Data.ProjectID != room {
		return
	}
	switch f.Event {
	case EventTeamUpdated:
		if h.TeamUpdated != nil {
			h.TeamUpdated()
		}
	case EventTasksUpdated:
		if h.TasksUpdated != nil {
			h.TasksUpdated()
		}
	case EventRiskResolved:
		if h.RiskResolved != nil {
			h.RiskResolved()
		}
	default:
		c.log.Debug("unrecognized event", "event", f.Event)
	}
}

// reconnect retries the connection a bounded number of times with fixed
// backoff, re-joining the current room on success.
func (c *Channel) reconnect() {
	for attempt := 1; attempt <= c.opts.MaxReconnects; attempt++ {
		time.Sleep(c.opts.ReconnectBackoff)

		c.mu.Lock()
		if c.closed {
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()

		if err := c.Connect(); err != nil {
			c.log.Warn("reconnect failed", "attempt", attempt, "err", err)
			continue
		}
		c.log.Info("reconnected", "attempt", attempt)
		return
	}
	c.log.Error("gave up reconnecting", "attempts", c.opts.MaxReconnects)
}

func (c *Channel) stateChanged(connected bool) {
	c.mu.Lock()
	h := c.opts.Handlers.StateChanged
	c.mu.Unlock()
	if h != nil {
		h(connected)
	}
}
