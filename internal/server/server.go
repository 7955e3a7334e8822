// Package server exposes tables over websockets. Clients authenticate
// with a name, join a table by its configured name, and then receive
// every table event with a view redacted to their seat.
package server

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/gorilla/websocket"

	"github.com/tablestakes/holdem/internal/advisor"
	"github.com/tablestakes/holdem/internal/engine"
	"github.com/tablestakes/holdem/internal/table"
)

// Server is the websocket front end for the engine
type Server struct {
	cfg      *Config
	logger   *log.Logger
	engine   *engine.Engine
	upgrader websocket.Upgrader

	listener net.Listener
	ctx      context.Context
	cancel   context.CancelFunc

	mu          sync.RWMutex
	connections map[*Connection]bool
	tableIDs    map[string]string // config name -> table id
	tableNames  map[string]string // table id -> config name
}

// New creates a server, its engine and the configured tables. Bot
// seats from the config are filled immediately.
func New(cfg *Config, clock quartz.Clock, logger *log.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		cfg:    cfg,
		logger: logger.WithPrefix("server"),
		upgrader: websocket.Upgrader{
			// The TUI client connects from arbitrary hosts
			CheckOrigin:     func(r *http.Request) bool { return true },
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		ctx:         ctx,
		cancel:      cancel,
		connections: make(map[*Connection]bool),
		tableIDs:    make(map[string]string),
		tableNames:  make(map[string]string),
	}

	var adv advisor.Advisor
	if cfg.Advisor != nil {
		adv = advisor.NewOllama(advisor.Config{
			BaseURL: cfg.Advisor.BaseURL,
			Model:   cfg.Advisor.Model,
			Timeout: cfg.Advisor.AdvisorTimeout(),
		}, logger)
	}

	engCfg := engine.Config{}
	if cfg.Engine != nil {
		engCfg.BotDelay = time.Duration(cfg.Engine.BotDelayMs) * time.Millisecond
		engCfg.AutoDealDelay = time.Duration(cfg.Engine.AutoDealSeconds) * time.Second
		engCfg.Seed = cfg.Engine.Seed
	}
	s.engine = engine.New(engCfg, clock, adv, s, logger)

	for _, tc := range cfg.Tables {
		id := s.engine.CreateTable(tc.TableConfig(), nil)
		s.tableIDs[tc.Name] = id
		s.tableNames[id] = tc.Name
	}
	for _, bc := range cfg.Bots {
		kind, _ := parseBotKind(bc.Kind)
		if _, err := s.engine.Join(s.tableIDs[bc.Table], bc.Name, kind); err != nil {
			s.logger.Error("failed to seat bot", "bot", bc.Name, "table", bc.Table, "err", err)
		}
	}

	return s
}

// Start binds the listener and serves in the background
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.cfg.ListenAddress())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.ListenAddress(), err)
	}
	s.listener = ln

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.HandleFunc("/health", s.handleHealth)

	s.logger.Info("listening", "addr", ln.Addr().String())
	go func() {
		if err := http.Serve(ln, mux); err != nil && s.ctx.Err() == nil {
			s.logger.Error("http server stopped", "err", err)
		}
	}()
	return nil
}

// Addr returns the bound listen address, valid after Start
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts down the listener, all connections and the engine timers
func (s *Server) Stop() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}

	s.mu.Lock()
	for conn := range s.connections {
		_ = conn.Close()
	}
	s.mu.Unlock()

	s.engine.Close()
}

// Publish implements table.Sink: every table event is fanned out to
// the table's connections, each with a view redacted to its seat.
func (s *Server) Publish(ev table.Event) {
	snap := ev.TableSnapshot()

	s.mu.RLock()
	name := s.tableNames[snap.TableID]
	conns := make([]*Connection, 0, len(s.connections))
	for conn := range s.connections {
		if conn.Table() == name {
			conns = append(conns, conn)
		}
	}
	s.mu.RUnlock()

	for _, conn := range conns {
		data := eventData(name, conn.SeatID(), ev)
		msg, err := NewMessage(MessageTypeGameEvent, data)
		if err != nil {
			s.logger.Error("failed to encode event", "event", ev.EventType(), "err", err)
			return
		}
		_ = conn.SendMessage(msg)
	}
}

// eventData builds the broadcast payload for one recipient
func eventData(tableName string, seatID int, ev table.Event) GameEventData {
	data := GameEventData{
		Table:    tableName,
		Event:    string(ev.EventType()),
		YourSeat: seatID,
		State:    ev.TableSnapshot().Redacted(seatID),
	}

	switch e := ev.(type) {
	case table.ActionAppliedEvent:
		id := e.SeatID
		data.SeatID = &id
		data.Action = e.Action.String()
		data.Amount = e.Amount
	case table.StageAdvancedEvent:
		data.Stage = e.Stage.String()
	case table.HandCompleteEvent:
		data.Winners = e.Winners
		data.Pot = e.Pot
	case table.SeatJoinedEvent:
		id := e.SeatID
		data.SeatID = &id
	}

	return data
}

// tableID resolves a config table name
func (s *Server) tableID(name string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tableIDs[name]
	return id, ok
}

// listTables summarizes every configured table
func (s *Server) listTables() []TableInfo {
	s.mu.RLock()
	names := make(map[string]string, len(s.tableIDs))
	for name, id := range s.tableIDs {
		names[name] = id
	}
	s.mu.RUnlock()

	infos := make([]TableInfo, 0, len(names))
	for name, id := range names {
		snap, err := s.engine.Snapshot(id)
		if err != nil {
			continue
		}
		count := 0
		for _, seat := range snap.Seats {
			if seat.Active || seat.PendingActive {
				count++
			}
		}
		infos = append(infos, TableInfo{
			Name:        name,
			PlayerCount: count,
			MaxPlayers:  snap.SeatCount,
			SmallBlind:  snap.SmallBlind,
			BigBlind:    snap.BigBlind,
			Stage:       snap.Stage.String(),
		})
	}
	return infos
}

// handleWebSocket upgrades a request and starts the connection pumps
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Error("failed to upgrade connection", "err", err)
		return
	}

	conn := NewConnection(ws, s, s.logger)

	s.mu.Lock()
	s.connections[conn] = true
	total := len(s.connections)
	s.mu.Unlock()
	s.logger.Info("client connected", "total", total)

	conn.Start()

	go func() {
		<-conn.ctx.Done()
		s.dropConnection(conn)
	}()
}

// dropConnection unregisters a closed connection and vacates its seat
func (s *Server) dropConnection(conn *Connection) {
	s.mu.Lock()
	if _, ok := s.connections[conn]; !ok {
		s.mu.Unlock()
		return
	}
	delete(s.connections, conn)
	total := len(s.connections)
	s.mu.Unlock()

	if name, seat := conn.Table(), conn.SeatID(); name != "" && seat >= 0 {
		if id, ok := s.tableID(name); ok {
			s.logger.Info("vacating seat of disconnected player", "table", name, "seat", seat)
			_ = s.engine.Leave(id, seat)
		}
	}
	_ = conn.Close()
	s.logger.Info("client disconnected", "total", total)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}
