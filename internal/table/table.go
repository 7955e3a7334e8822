package table

import (
	"math/rand"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/ranker"
)

// Config describes a table's fixed parameters
type Config struct {
	SeatCount     int
	SmallBlind    int
	BigBlind      int
	StartingChips int
}

// withDefaults clamps the config into supported ranges
func (c Config) withDefaults() Config {
	if c.SeatCount < 2 {
		c.SeatCount = 2
	}
	if c.SeatCount > 9 {
		c.SeatCount = 9
	}
	if c.SmallBlind <= 0 {
		c.SmallBlind = 5
	}
	if c.BigBlind <= c.SmallBlind {
		c.BigBlind = c.SmallBlind * 2
	}
	if c.StartingChips <= 0 {
		c.StartingChips = 1000
	}
	return c
}

// SeatSpec seeds one seat at table creation
type SeatSpec struct {
	Name string
	Kind PlayerKind
}

// Table is a single hold'em table. Methods are not safe for
// concurrent use; callers must serialize access (the engine holds one
// lock per table).
type Table struct {
	id      string
	cfg     Config
	seats   []*Seat
	board   []deck.Card
	pot     int
	bet     int // current bet level to match
	current int // seat index due to act, -1 when none
	stage   Stage

	rng    *rand.Rand
	ranker ranker.HandRanker
	logger *log.Logger
	sink   Sink

	lastWinners []Winner
}

// New creates a table with the given seats. Unoccupied positions can
// be filled later via Join.
func New(cfg Config, specs []SeatSpec, rng *rand.Rand, hr ranker.HandRanker, logger *log.Logger, sink Sink) *Table {
	cfg = cfg.withDefaults()
	if sink == nil {
		sink = NopSink{}
	}

	t := &Table{
		id:      uuid.NewString(),
		cfg:     cfg,
		current: -1,
		stage:   StageWaiting,
		rng:     rng,
		ranker:  hr,
		logger:  logger.WithPrefix("table"),
		sink:    sink,
	}

	for i := 0; i < cfg.SeatCount; i++ {
		seat := &Seat{ID: i, Chips: cfg.StartingChips}
		if i < len(specs) {
			seat.Name = specs[i].Name
			seat.Kind = specs[i].Kind
			seat.Active = true
		}
		t.seats = append(t.seats, seat)
	}

	return t
}

// ID returns the table's unique id
func (t *Table) ID() string { return t.id }

// Stage returns the current stage
func (t *Table) Stage() Stage { return t.stage }

// CurrentSeat returns the seat due to act, or nil
func (t *Table) CurrentSeat() *Seat {
	if t.current < 0 || t.current >= len(t.seats) {
		return nil
	}
	return t.seats[t.current]
}

// Seat returns the seat with the given id, or nil
func (t *Table) Seat(id int) *Seat {
	if id < 0 || id >= len(t.seats) {
		return nil
	}
	return t.seats[id]
}

// Pot returns the chips contributed this hand
func (t *Table) Pot() int { return t.pot }

// activeSeats returns seats dealt into the current or next hand,
// in seat order
func (t *Table) activeSeats() []*Seat {
	var active []*Seat
	for _, s := range t.seats {
		if s.Active && !s.PendingActive {
			active = append(active, s)
		}
	}
	return active
}

// liveSeats returns active seats that have not folded
func (t *Table) liveSeats() []*Seat {
	var live []*Seat
	for _, s := range t.seats {
		if s.InHand() {
			live = append(live, s)
		}
	}
	return live
}

// Join seats a player at the first open position. Joining mid-hand
// leaves the seat pending until the next hand starts.
func (t *Table) Join(name string, kind PlayerKind) (int, error) {
	for _, s := range t.seats {
		if s.Active || s.PendingActive {
			continue
		}
		s.Name = name
		s.Kind = kind
		if t.stage == StageWaiting {
			s.Active = true
		} else {
			s.PendingActive = true
		}
		t.logger.Info("player joined", "table", t.id, "seat", s.ID, "name", name, "pending", s.PendingActive)
		t.publish(SeatJoinedEvent{Table: t.Snapshot(), SeatID: s.ID, Name: name})
		return s.ID, nil
	}
	return -1, ErrNoSeats
}

// Leave vacates a seat. A seat still in a hand is folded first so the
// hand can continue.
func (t *Table) Leave(seatID int) error {
	seat := t.Seat(seatID)
	if seat == nil {
		return ErrInvalidSeat
	}

	wasInHand := seat.InHand() && t.stage.Betting()
	seat.Active = false
	seat.PendingActive = false
	seat.Folded = true
	seat.HoleCards = nil

	t.logger.Info("player left", "table", t.id, "seat", seatID)

	if wasInHand {
		if t.current == seatID {
			t.advanceTurn()
		} else if len(t.liveSeats()) <= 1 {
			t.stage = StageShowdown
		}
		t.maybeFinishHand()
	}
	t.publish(StateChangedEvent{Table: t.Snapshot()})
	return nil
}

// publish sends an event to the sink. Delivery is best effort; the
// table never blocks on or checks the result.
func (t *Table) publish(ev Event) {
	t.sink.Publish(ev)
}
