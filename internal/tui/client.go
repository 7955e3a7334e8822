package tui

import (
	"encoding/json"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"github.com/tablestakes/holdem/internal/server"
	"github.com/tablestakes/holdem/internal/table"
)

// Messages pumped into the bubbletea program by the client

// stateMsg carries a full table snapshot (watch acknowledgement or
// get_state reply)
type stateMsg struct {
	state table.Snapshot
}

// eventMsg carries one broadcast table event
type eventMsg struct {
	data server.GameEventData
}

// errMsg carries a server error payload
type errMsg struct {
	err error
}

// disconnectedMsg signals the websocket closed
type disconnectedMsg struct{}

// Client is a read-only websocket subscriber for one table
type Client struct {
	conn   *websocket.Conn
	logger *log.Logger
}

// Dial connects to a server's /ws endpoint
func Dial(url string, logger *log.Logger) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dialing %s: %w", url, err)
	}
	return &Client{conn: conn, logger: logger.WithPrefix("watch")}, nil
}

// Watch subscribes to a table's broadcast stream as an observer
func (c *Client) Watch(tableName string) error {
	msg, err := server.NewMessage(server.MessageTypeWatchTable, server.JoinTableData{Table: tableName})
	if err != nil {
		return err
	}
	return c.conn.WriteJSON(msg)
}

// Close closes the websocket
func (c *Client) Close() error {
	return c.conn.Close()
}

// Pump reads server messages and forwards them to the program until
// the connection drops
func (c *Client) Pump(p *tea.Program) {
	for {
		var msg server.Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			c.logger.Debug("connection closed", "err", err)
			p.Send(disconnectedMsg{})
			return
		}

		switch msg.Type {
		case server.MessageTypeGameState:
			var data server.GameStateData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.logger.Warn("bad game state payload", "err", err)
				continue
			}
			p.Send(stateMsg{state: data.State})

		case server.MessageTypeGameEvent:
			var data server.GameEventData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				c.logger.Warn("bad game event payload", "err", err)
				continue
			}
			p.Send(eventMsg{data: data})

		case server.MessageTypeError:
			var data server.ErrorData
			if err := json.Unmarshal(msg.Data, &data); err != nil {
				continue
			}
			p.Send(errMsg{err: fmt.Errorf("%s: %s", data.Code, data.Message)})
		}
	}
}
