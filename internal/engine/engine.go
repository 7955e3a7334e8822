// Package engine owns the set of running tables. It drives bot turns
// and hand pacing on timers and serializes all table access behind a
// per-table lock; the table itself is not concurrency safe.
package engine

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"

	"github.com/tablestakes/holdem/internal/advisor"
	"github.com/tablestakes/holdem/internal/bot"
	"github.com/tablestakes/holdem/internal/equity"
	"github.com/tablestakes/holdem/internal/ranker"
	"github.com/tablestakes/holdem/internal/table"
)

var (
	ErrUnknownTable     = errors.New("unknown table")
	ErrHandInProgress   = errors.New("hand already in progress")
	ErrNotEnoughPlayers = errors.New("not enough players to deal")
)

// Config holds engine pacing parameters
type Config struct {
	// BotDelay is the pause before a bot acts, so spectators can
	// follow the action
	BotDelay time.Duration

	// AutoDealDelay is how long a finished table waits before the
	// next hand is dealt automatically
	AutoDealDelay time.Duration

	Seed int64
}

// withDefaults fills unset pacing fields
func (c Config) withDefaults() Config {
	if c.BotDelay <= 0 {
		c.BotDelay = 600 * time.Millisecond
	}
	if c.AutoDealDelay <= 0 {
		c.AutoDealDelay = 10 * time.Second
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	return c
}

// Engine manages tables, their bot agents and their timers
type Engine struct {
	cfg       Config
	clock     quartz.Clock
	logger    *log.Logger
	ranker    ranker.HandRanker
	estimator *equity.Estimator
	advisor   advisor.Advisor
	sink      table.Sink

	mu      sync.Mutex
	seedRng *rand.Rand
	tables  map[string]*runner
}

// New creates an engine. The advisor may be nil; policy bot seats then
// play the heuristic strategy instead.
func New(cfg Config, clock quartz.Clock, adv advisor.Advisor, sink table.Sink, logger *log.Logger) *Engine {
	cfg = cfg.withDefaults()
	hr := ranker.NewStandardRanker()
	return &Engine{
		cfg:       cfg,
		clock:     clock,
		logger:    logger.WithPrefix("engine"),
		ranker:    hr,
		estimator: equity.New(hr),
		advisor:   adv,
		sink:      sink,
		seedRng:   rand.New(rand.NewSource(cfg.Seed)),
		tables:    make(map[string]*runner),
	}
}

// CreateTable registers a new table and returns its id. Bot seats get
// agents immediately; the first hand deals on the auto-deal timer.
func (e *Engine) CreateTable(cfg table.Config, specs []table.SeatSpec) string {
	t := table.New(cfg, specs, e.newRand(), e.ranker, e.logger, e.sink)

	r := &runner{eng: e, table: t, agents: make(map[int]bot.Agent)}
	for i, spec := range specs {
		if spec.Kind.IsBot() {
			r.agents[i] = e.newAgent(spec.Kind)
		}
	}

	e.mu.Lock()
	e.tables[t.ID()] = r
	e.mu.Unlock()

	e.logger.Info("table created", "table", t.ID(), "seats", len(specs))

	r.mu.Lock()
	r.scheduleLocked()
	r.mu.Unlock()
	return t.ID()
}

// Snapshot returns the current unredacted state of a table
func (e *Engine) Snapshot(id string) (table.Snapshot, error) {
	r, err := e.get(id)
	if err != nil {
		return table.Snapshot{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.Snapshot(), nil
}

// ActionInfo returns the legal action set for a seat
func (e *Engine) ActionInfo(id string, seatID int) (table.ActionInfo, error) {
	r, err := e.get(id)
	if err != nil {
		return table.ActionInfo{}, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	seat := r.table.Seat(seatID)
	if seat == nil {
		return table.ActionInfo{}, table.ErrInvalidSeat
	}
	return r.table.ValidActions(seat), nil
}

// Winners returns the result of the table's last completed hand
func (e *Engine) Winners(id string) ([]table.Winner, error) {
	r, err := e.get(id)
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.table.LastWinners(), nil
}

// Join seats a player and returns the assigned seat id
func (e *Engine) Join(id, name string, kind table.PlayerKind) (int, error) {
	r, err := e.get(id)
	if err != nil {
		return -1, err
	}

	// Build the agent before taking the runner lock: deriving its rng
	// takes e.mu, and Close acquires e.mu before runner locks
	var agent bot.Agent
	if kind.IsBot() {
		agent = e.newAgent(kind)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	seatID, err := r.table.Join(name, kind)
	if err != nil {
		return -1, err
	}
	if agent != nil {
		r.agents[seatID] = agent
	}
	r.scheduleLocked()
	return seatID, nil
}

// Leave vacates a seat
func (e *Engine) Leave(id string, seatID int) error {
	r, err := e.get(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.table.Leave(seatID); err != nil {
		return err
	}
	delete(r.agents, seatID)
	r.scheduleLocked()
	return nil
}

// Apply performs a player action and reschedules the table
func (e *Engine) Apply(id string, seatID int, action table.Action, amount int) error {
	r, err := e.get(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.table.Apply(seatID, action, amount); err != nil {
		return err
	}
	r.scheduleLocked()
	return nil
}

// DealNext starts the next hand immediately, short-circuiting the
// auto-deal timer
func (e *Engine) DealNext(id string) error {
	r, err := e.get(id)
	if err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.table.Stage().Betting() {
		return ErrHandInProgress
	}
	if !r.table.StartHand() {
		return ErrNotEnoughPlayers
	}
	r.scheduleLocked()
	return nil
}

// Close stops every table's timers
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, r := range e.tables {
		r.mu.Lock()
		r.stopTimersLocked()
		r.mu.Unlock()
	}
}

func (e *Engine) get(id string) (*runner, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	r, ok := e.tables[id]
	if !ok {
		return nil, ErrUnknownTable
	}
	return r, nil
}

// newRand derives an independent rng from the engine seed
func (e *Engine) newRand() *rand.Rand {
	e.mu.Lock()
	defer e.mu.Unlock()
	return rand.New(rand.NewSource(e.seedRng.Int63()))
}

// newAgent builds the decision maker for a bot seat
func (e *Engine) newAgent(kind table.PlayerKind) bot.Agent {
	if kind == table.PolicyBot {
		if e.advisor != nil {
			return bot.NewPolicy(e.advisor, e.logger)
		}
		e.logger.Warn("no advisor configured, policy seat plays heuristic")
	}
	return bot.NewHeuristic(e.newRand(), e.estimator, e.logger)
}

// runner pairs one table with its agents and pending timers. The mutex
// serializes every table touch, including timer callbacks.
type runner struct {
	eng *Engine

	mu        sync.Mutex
	table     *table.Table
	agents    map[int]bot.Agent
	botTimer  *quartz.Timer
	dealTimer *quartz.Timer
}

// scheduleLocked arms the timer the current state calls for. Callers
// hold r.mu. Stale timers are stopped first so at most one of each
// kind is pending.
func (r *runner) scheduleLocked() {
	r.stopTimersLocked()

	stage := r.table.Stage()
	switch {
	case stage.Betting():
		seat := r.table.CurrentSeat()
		if seat == nil {
			return
		}
		if _, ok := r.agents[seat.ID]; ok {
			seatID := seat.ID
			r.botTimer = r.eng.clock.AfterFunc(r.eng.cfg.BotDelay, func() {
				r.botTurn(seatID)
			})
		}

	default:
		// Between hands: deal again once enough seats are ready
		if r.readySeatsLocked() >= 2 {
			r.dealTimer = r.eng.clock.AfterFunc(r.eng.cfg.AutoDealDelay, r.autoDeal)
		}
	}
}

func (r *runner) stopTimersLocked() {
	if r.botTimer != nil {
		r.botTimer.Stop()
		r.botTimer = nil
	}
	if r.dealTimer != nil {
		r.dealTimer.Stop()
		r.dealTimer = nil
	}
}

// readySeatsLocked counts seats that would be dealt into the next hand
func (r *runner) readySeatsLocked() int {
	n := 0
	for _, s := range r.table.Snapshot().Seats {
		if s.Active || s.PendingActive {
			n++
		}
	}
	return n
}

// botTurn runs one bot decision. The decision itself happens outside
// the lock since a policy agent may block on its advisor; the table
// rejects the request if the turn moved on meanwhile.
func (r *runner) botTurn(seatID int) {
	r.mu.Lock()
	t := r.table
	seat := t.CurrentSeat()
	agent, ok := r.agents[seatID]
	if !ok || seat == nil || seat.ID != seatID || !t.Stage().Betting() {
		r.mu.Unlock()
		return
	}
	view := r.viewLocked(seat)
	r.mu.Unlock()

	req := agent.Decide(context.Background(), view)

	r.mu.Lock()
	defer r.mu.Unlock()
	if err := t.Apply(seatID, req.Action, req.Amount); err != nil {
		cur := t.CurrentSeat()
		if cur != nil && cur.ID == seatID && t.Stage().Betting() {
			// The agent still holds the turn but produced an illegal
			// action; fold rather than stall the hand
			r.eng.logger.Warn("illegal bot action, folding", "table", t.ID(), "seat", seatID, "action", req.Action, "err", err)
			if err := t.Apply(seatID, table.Fold, 0); err != nil {
				r.eng.logger.Error("forced fold rejected", "table", t.ID(), "seat", seatID, "err", err)
			}
		} else {
			// The turn moved on while the agent was thinking
			r.eng.logger.Debug("stale bot action dropped", "table", t.ID(), "seat", seatID, "err", err)
		}
	}
	r.scheduleLocked()
}

// autoDeal starts the next hand when the pause between hands elapses
func (r *runner) autoDeal() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.table.Stage().Betting() {
		return
	}
	if !r.table.StartHand() {
		return
	}
	r.eng.logger.Info("auto dealt next hand", "table", r.table.ID())
	r.scheduleLocked()
}

// viewLocked builds the seat's redacted view of the table
func (r *runner) viewLocked(seat *table.Seat) bot.View {
	snap := r.table.Snapshot()

	opponents := 0
	for _, s := range snap.Seats {
		if s.ID != seat.ID && s.Active && !s.Folded && !s.PendingActive {
			opponents++
		}
	}

	return bot.View{
		Hole:      seat.HoleCards,
		Board:     snap.Community,
		Stage:     snap.Stage,
		Pot:       snap.Pot,
		Bet:       snap.CurrentBet,
		ToCall:    snap.CurrentBet - seat.CurrentBet,
		Chips:     seat.Chips,
		BigBlind:  snap.BigBlind,
		Opponents: opponents,
		Info:      r.table.ValidActions(seat),
	}
}
