package table

// EventType identifies a table event
type EventType string

const (
	EventHandStarted   EventType = "hand_started"
	EventActionApplied EventType = "action_applied"
	EventStageAdvanced EventType = "stage_advanced"
	EventHandComplete  EventType = "hand_complete"
	EventSeatJoined    EventType = "seat_joined"
	EventStateChanged  EventType = "state_changed"
)

// Event is a notification emitted by the table for the transport
// layer to fan out. The table does not depend on delivery.
type Event interface {
	EventType() EventType
	TableSnapshot() Snapshot
}

// Sink receives table events. Implementations must not block.
type Sink interface {
	Publish(Event)
}

// NopSink discards all events
type NopSink struct{}

// Publish implements Sink
func (NopSink) Publish(Event) {}

// HandStartedEvent is emitted when a new hand is dealt
type HandStartedEvent struct {
	Table Snapshot `json:"game_state"`
}

func (e HandStartedEvent) EventType() EventType    { return EventHandStarted }
func (e HandStartedEvent) TableSnapshot() Snapshot { return e.Table }

// ActionAppliedEvent is emitted after a seat's action is accepted
type ActionAppliedEvent struct {
	Table  Snapshot `json:"game_state"`
	SeatID int      `json:"seat_id"`
	Action Action   `json:"action"`
	Amount int      `json:"amount"`
}

func (e ActionAppliedEvent) EventType() EventType    { return EventActionApplied }
func (e ActionAppliedEvent) TableSnapshot() Snapshot { return e.Table }

// StageAdvancedEvent is emitted when community cards are dealt or the
// hand moves to showdown
type StageAdvancedEvent struct {
	Table Snapshot `json:"game_state"`
	Stage Stage    `json:"stage"`
}

func (e StageAdvancedEvent) EventType() EventType    { return EventStageAdvanced }
func (e StageAdvancedEvent) TableSnapshot() Snapshot { return e.Table }

// HandCompleteEvent is emitted once the pot has been awarded
type HandCompleteEvent struct {
	Table   Snapshot `json:"game_state"`
	Winners []Winner `json:"winners"`
	Pot     int      `json:"pot"`
}

func (e HandCompleteEvent) EventType() EventType    { return EventHandComplete }
func (e HandCompleteEvent) TableSnapshot() Snapshot { return e.Table }

// SeatJoinedEvent is emitted when a player takes a seat
type SeatJoinedEvent struct {
	Table  Snapshot `json:"game_state"`
	SeatID int      `json:"seat_id"`
	Name   string   `json:"name"`
}

func (e SeatJoinedEvent) EventType() EventType    { return EventSeatJoined }
func (e SeatJoinedEvent) TableSnapshot() Snapshot { return e.Table }

// StateChangedEvent is a catch-all for changes with no richer event
type StateChangedEvent struct {
	Table Snapshot `json:"game_state"`
}

func (e StateChangedEvent) EventType() EventType    { return EventStateChanged }
func (e StateChangedEvent) TableSnapshot() Snapshot { return e.Table }
