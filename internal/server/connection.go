package server

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tablestakes/holdem/internal/table"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var ErrConnectionClosed = websocket.ErrCloseSent

// Connection wraps one websocket client. A connection holds at most
// one seat at one table.
type Connection struct {
	conn   *websocket.Conn
	server *Server
	send   chan *Message
	logger *log.Logger

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once

	mu         sync.RWMutex
	playerName string
	tableName  string
	seatID     int
}

// NewConnection creates a connection wrapper
func NewConnection(ws *websocket.Conn, server *Server, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(context.Background())
	return &Connection{
		conn:   ws,
		server: server,
		send:   make(chan *Message, 256),
		logger: logger.WithPrefix("conn"),
		ctx:    ctx,
		cancel: cancel,
		seatID: -1,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage queues a message for the client without blocking. A
// client that cannot keep up is dropped.
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Send channel closed during shutdown
			c.logger.Debug("send on closed connection", "err", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("send buffer full, closing connection", "player", c.Player())
		_ = c.Close()
		return ErrConnectionClosed
	}
}

// Player returns the authenticated player name
func (c *Connection) Player() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerName
}

// Table returns the joined table's config name
func (c *Connection) Table() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tableName
}

// SeatID returns the held seat, -1 when observing
func (c *Connection) SeatID() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seatID
}

func (c *Connection) setPlayer(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerName = name
}

func (c *Connection) setSeat(tableName string, seatID int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tableName = tableName
	c.seatID = seatID
}

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("websocket error", "err", err)
			}
			return
		}
		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages and keepalive pings
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Error("failed to write message", "err", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage dispatches one inbound message
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("received message", "type", msg.Type, "player", c.Player())

	switch msg.Type {
	case MessageTypeAuth:
		var data AuthData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse auth data")
			return
		}
		c.handleAuth(data)

	case MessageTypeListTables:
		c.handleListTables()

	case MessageTypeJoinTable:
		var data JoinTableData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse join table data")
			return
		}
		c.handleJoinTable(data)

	case MessageTypeWatchTable:
		var data JoinTableData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse watch table data")
			return
		}
		c.handleWatchTable(data)

	case MessageTypeLeaveTable:
		c.handleLeaveTable()

	case MessageTypeAction:
		var data ActionData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "failed to parse action data")
			return
		}
		c.handleAction(data)

	case MessageTypeDeal:
		c.handleDeal()

	case MessageTypeGetState:
		c.handleGetState()

	default:
		c.sendError("unknown_message_type", "unknown message type: "+string(msg.Type))
	}
}

func (c *Connection) sendError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message})
	if err != nil {
		c.logger.Error("failed to create error message", "err", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) reply(messageType MessageType, data any) {
	msg, err := NewMessage(messageType, data)
	if err != nil {
		c.logger.Error("failed to create message", "type", messageType, "err", err)
		return
	}
	_ = c.SendMessage(msg)
}

func (c *Connection) handleAuth(data AuthData) {
	if data.PlayerName == "" {
		c.reply(MessageTypeAuthResponse, AuthResponseData{Success: false, Error: "player name required"})
		return
	}
	c.setPlayer(data.PlayerName)
	c.logger.Info("player authenticated", "player", data.PlayerName)
	c.reply(MessageTypeAuthResponse, AuthResponseData{Success: true, PlayerName: data.PlayerName})
}

func (c *Connection) handleListTables() {
	c.reply(MessageTypeTableList, TableListData{Tables: c.server.listTables()})
}

func (c *Connection) handleJoinTable(data JoinTableData) {
	player := c.Player()
	if player == "" {
		c.sendError("not_authenticated", "must authenticate first")
		return
	}
	if c.Table() != "" {
		c.sendError("already_seated", "leave the current table first")
		return
	}

	id, ok := c.server.tableID(data.Table)
	if !ok {
		c.sendError("unknown_table", "no table named "+data.Table)
		return
	}

	seatID, err := c.server.engine.Join(id, player, table.Human)
	if err != nil {
		c.sendError("join_failed", err.Error())
		return
	}
	c.setSeat(data.Table, seatID)

	snap, err := c.server.engine.Snapshot(id)
	if err != nil {
		c.sendError("join_failed", err.Error())
		return
	}

	c.logger.Info("player joined table", "player", player, "table", data.Table, "seat", seatID)
	c.reply(MessageTypeTableJoined, TableJoinedData{
		Table:  data.Table,
		SeatID: seatID,
		State:  snap.Redacted(seatID),
	})
}

// handleWatchTable attaches the connection to a table's broadcast
// stream without taking a seat. Observers receive the redacted view.
func (c *Connection) handleWatchTable(data JoinTableData) {
	if c.Table() != "" {
		c.sendError("already_seated", "leave the current table first")
		return
	}

	id, ok := c.server.tableID(data.Table)
	if !ok {
		c.sendError("unknown_table", "no table named "+data.Table)
		return
	}

	snap, err := c.server.engine.Snapshot(id)
	if err != nil {
		c.sendError("watch_failed", err.Error())
		return
	}
	c.setSeat(data.Table, -1)

	c.logger.Info("observer watching table", "table", data.Table)
	c.reply(MessageTypeGameState, GameStateData{
		Table:    data.Table,
		YourSeat: -1,
		State:    snap.Redacted(-1),
	})
}

func (c *Connection) handleLeaveTable() {
	name, seat := c.Table(), c.SeatID()
	if name == "" || seat < 0 {
		c.sendError("not_seated", "not at a table")
		return
	}

	if id, ok := c.server.tableID(name); ok {
		if err := c.server.engine.Leave(id, seat); err != nil {
			c.sendError("leave_failed", err.Error())
			return
		}
	}
	c.setSeat("", -1)
	c.reply(MessageTypeTableLeft, TableLeftData{Table: name})
}

func (c *Connection) handleAction(data ActionData) {
	name, seat := c.Table(), c.SeatID()
	if name == "" || seat < 0 {
		c.sendError("not_seated", "not at a table")
		return
	}

	action, ok := table.ParseAction(data.Action)
	if !ok {
		c.sendError("invalid_action", "unknown action: "+data.Action)
		return
	}

	id, _ := c.server.tableID(name)
	if err := c.server.engine.Apply(id, seat, action, data.Amount); err != nil {
		c.sendError("action_rejected", err.Error())
		return
	}
	// No direct reply; the table broadcasts the applied action
}

func (c *Connection) handleDeal() {
	name := c.Table()
	if name == "" {
		c.sendError("not_seated", "not at a table")
		return
	}

	id, _ := c.server.tableID(name)
	if err := c.server.engine.DealNext(id); err != nil {
		c.sendError("deal_rejected", err.Error())
		return
	}
}

func (c *Connection) handleGetState() {
	name := c.Table()
	if name == "" {
		c.sendError("not_seated", "not at a table")
		return
	}

	id, _ := c.server.tableID(name)
	snap, err := c.server.engine.Snapshot(id)
	if err != nil {
		c.sendError("state_failed", err.Error())
		return
	}

	seat := c.SeatID()
	c.reply(MessageTypeGameState, GameStateData{
		Table:    name,
		YourSeat: seat,
		State:    snap.Redacted(seat),
	})
}
