package server

import (
	"encoding/json"
	"time"

	"github.com/tablestakes/holdem/internal/table"
)

// MessageType identifies the kind of a websocket message
type MessageType string

// Client to server
const (
	MessageTypeAuth       MessageType = "auth"
	MessageTypeListTables MessageType = "list_tables"
	MessageTypeJoinTable  MessageType = "join_table"
	MessageTypeWatchTable MessageType = "watch_table"
	MessageTypeLeaveTable MessageType = "leave_table"
	MessageTypeAction     MessageType = "action"
	MessageTypeDeal       MessageType = "deal"
	MessageTypeGetState   MessageType = "get_state"
)

// Server to client
const (
	MessageTypeAuthResponse MessageType = "auth_response"
	MessageTypeTableList    MessageType = "table_list"
	MessageTypeTableJoined  MessageType = "table_joined"
	MessageTypeTableLeft    MessageType = "table_left"
	MessageTypeGameState    MessageType = "game_state"
	MessageTypeGameEvent    MessageType = "game_event"
	MessageTypeError        MessageType = "error"
)

// Message is the websocket envelope
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewMessage creates a message with the current timestamp
func NewMessage(messageType MessageType, data any) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client to server payloads

type AuthData struct {
	PlayerName string `json:"player_name"`
}

type JoinTableData struct {
	Table string `json:"table"`
}

type LeaveTableData struct {
	Table string `json:"table"`
}

type ActionData struct {
	Action string `json:"action"`
	Amount int    `json:"amount,omitempty"`
}

// Server to client payloads

type AuthResponseData struct {
	Success    bool   `json:"success"`
	PlayerName string `json:"player_name,omitempty"`
	Error      string `json:"error,omitempty"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type TableInfo struct {
	Name        string `json:"name"`
	PlayerCount int    `json:"player_count"`
	MaxPlayers  int    `json:"max_players"`
	SmallBlind  int    `json:"small_blind"`
	BigBlind    int    `json:"big_blind"`
	Stage       string `json:"stage"`
}

type TableListData struct {
	Tables []TableInfo `json:"tables"`
}

type TableJoinedData struct {
	Table  string         `json:"table"`
	SeatID int            `json:"seat_id"`
	State  table.Snapshot `json:"state"`
}

type TableLeftData struct {
	Table string `json:"table"`
}

// GameStateData carries the viewer's redacted table state
type GameStateData struct {
	Table    string         `json:"table"`
	YourSeat int            `json:"your_seat"`
	State    table.Snapshot `json:"state"`
}

// GameEventData wraps a table event for broadcast. State is redacted
// per recipient; winners are only present on hand completion.
type GameEventData struct {
	Table    string         `json:"table"`
	Event    string         `json:"event"`
	YourSeat int            `json:"your_seat"`
	State    table.Snapshot `json:"state"`
	SeatID   *int           `json:"seat_id,omitempty"`
	Action   string         `json:"action,omitempty"`
	Amount   int            `json:"amount,omitempty"`
	Stage    string         `json:"stage,omitempty"`
	Winners  []table.Winner `json:"winners,omitempty"`
	Pot      int            `json:"pot,omitempty"`
}
