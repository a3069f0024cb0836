// Package hub fans committed snapshots out to WebSocket clients and turns
// their messages into service commands.
package hub

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"stardust/internal/commands"
	"stardust/internal/domain"
	"stardust/internal/events"
	"stardust/internal/log"
	"stardust/internal/savegame"
)

const (
	writeWait      = 5 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	sendBufferSize = 16
	maxMessageSize = 4096
)

// Executor is the subset of the game service the hub drives.
type Executor interface {
	Execute(commands.Command) ([]events.Event, error)
	GetState() domain.Snapshot
}

// Inbound is a client request.
type Inbound struct {
	Type    string  `json:"type"`
	ID      string  `json:"id,omitempty"`
	Target  *string `json:"target,omitempty"`
	Enabled bool    `json:"enabled,omitempty"`
}

// Outbound is a server push: a snapshot, the events of a client's command,
// or an error for that command.
type Outbound struct {
	Type   string          `json:"type"`
	State  json.RawMessage `json:"state,omitempty"`
	Events []events.Event  `json:"events,omitempty"`
	Error  string          `json:"error,omitempty"`
}

type Hub struct {
	exec     Executor
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	seq     atomic.Uint64
}

type client struct {
	conn *websocket.Conn
	send chan []byte
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

func New(exec Executor) *Hub {
	return &Hub{
		exec:    exec,
		clients: map[*client]struct{}{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Publish queues snap for every client. Clients with a full buffer skip
// this snapshot; the next one supersedes it.
func (h *Hub) Publish(snap domain.Snapshot) {
	msg, err := snapshotMessage(snap)
	if err != nil {
		log.Warn("hub: encode snapshot", "error", err)
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- msg:
		default:
			log.Debug("hub: dropped snapshot for slow client", "remote", c.conn.RemoteAddr().String())
		}
	}
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("hub: upgrade failed", "error", err)
		return
	}
	c := &client{conn: conn, send: make(chan []byte, sendBufferSize)}

	if msg, err := snapshotMessage(h.exec.GetState()); err == nil {
		c.send <- msg
	}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	log.Info("hub: client connected", "remote", conn.RemoteAddr().String())

	go h.writePump(c)
	h.readPump(c)
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		c.close()
		delete(h.clients, c)
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
	c.close()
}

func (h *Hub) readPump(c *client) {
	defer func() {
		h.remove(c)
		c.conn.Close()
		log.Info("hub: client disconnected", "remote", c.conn.RemoteAddr().String())
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		var in Inbound
		if err := c.conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("hub: read failed", "error", err)
			}
			return
		}
		out := h.handle(in)
		if out == nil {
			continue
		}
		data, err := json.Marshal(out)
		if err != nil {
			log.Warn("hub: encode reply", "error", err)
			continue
		}
		h.deliver(c, data)
	}
}

// deliver queues a reply unless the client has been removed.
func (h *Hub) deliver(c *client, data []byte) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Hub) handle(in Inbound) *Outbound {
	if in.Type == "sync" {
		state, err := savegame.Encode(h.exec.GetState())
		if err != nil {
			return &Outbound{Type: "error", Error: err.Error()}
		}
		return &Outbound{Type: "snapshot", State: state}
	}
	cmd, err := h.command(in)
	if err != nil {
		return &Outbound{Type: "error", Error: err.Error()}
	}
	evs, err := h.exec.Execute(cmd)
	if err != nil {
		return &Outbound{Type: "error", Error: err.Error()}
	}
	if len(evs) == 0 {
		return nil
	}
	return &Outbound{Type: "events", Events: evs}
}

func (h *Hub) command(in Inbound) (commands.Command, error) {
	id := fmt.Sprintf("ws-%d", h.seq.Add(1))
	switch in.Type {
	case "attack":
		return &commands.Attack{ID: id, TargetGeneratorID: in.Target}, nil
	case "buy_upgrade":
		return &commands.BuyUpgrade{ID: id, UpgradeID: in.ID}, nil
	case "buy_artifact":
		return &commands.BuyArtifact{ID: id, ArtifactID: in.ID}, nil
	case "activate_skill":
		return &commands.ActivateSkill{ID: id, SkillID: in.ID}, nil
	case "auto_buy":
		return commands.ToggleAutoBuy{ID: id, Enabled: in.Enabled}, nil
	case "prestige":
		return &commands.Prestige{ID: id}, nil
	}
	return nil, fmt.Errorf("unknown message type %q", in.Type)
}

func snapshotMessage(snap domain.Snapshot) ([]byte, error) {
	state, err := savegame.Encode(snap)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Outbound{Type: "snapshot", State: state})
}
