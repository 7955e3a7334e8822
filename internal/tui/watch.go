// Package tui renders a live read-only view of one table. It
// subscribes to the server's broadcast stream as an observer, so hole
// cards stay hidden until a showdown reveals them.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	btable "github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/tablestakes/holdem/internal/deck"
	"github.com/tablestakes/holdem/internal/server"
	"github.com/tablestakes/holdem/internal/table"
)

const maxEventLines = 8

// Model is the bubbletea model for the table watcher
type Model struct {
	tableName string
	state     *table.Snapshot
	seats     btable.Model
	events    []string
	err       error
	width     int
	height    int
}

// NewModel creates a watcher for the named table
func NewModel(tableName string) Model {
	columns := []btable.Column{
		{Title: "Seat", Width: 4},
		{Title: "Name", Width: 14},
		{Title: "Chips", Width: 8},
		{Title: "Bet", Width: 6},
		{Title: "Cards", Width: 8},
		{Title: "Pos", Width: 4},
		{Title: "Last", Width: 10},
	}

	seats := btable.New(
		btable.WithColumns(columns),
		btable.WithHeight(10),
	)
	styles := btable.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("#3C3C3C")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = lipgloss.NewStyle()
	seats.SetStyles(styles)

	return Model{tableName: tableName, seats: seats}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Sequence(tea.ClearScreen, tea.Quit)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case stateMsg:
		state := msg.state
		m.state = &state
		m.seats.SetRows(seatRows(state))

	case eventMsg:
		state := msg.data.State
		m.state = &state
		m.seats.SetRows(seatRows(state))
		m.events = appendEvent(m.events, describeEvent(msg.data))

	case errMsg:
		m.err = msg.err

	case disconnectedMsg:
		m.events = appendEvent(m.events, "connection closed")
	}

	return m, nil
}

// View implements tea.Model
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(HeaderStyle.Render("holdem watch · " + m.tableName))
	b.WriteString("\n\n")

	if m.state == nil {
		b.WriteString(InfoStyle.Render("waiting for table state..."))
		b.WriteString("\n")
	} else {
		b.WriteString(InfoStyle.Render(fmt.Sprintf(
			"stage %s · pot %d · blinds %d/%d",
			m.state.Stage, m.state.Pot, m.state.SmallBlind, m.state.BigBlind,
		)))
		b.WriteString("\n")
		b.WriteString(BoardStyle.Render(boardView(m.state.Community)))
		b.WriteString("\n")
		b.WriteString(SeatsStyle.Render(m.seats.View()))
		b.WriteString("\n")
	}

	for _, line := range m.events {
		b.WriteString(EventStyle.Render("• " + line))
		b.WriteString("\n")
	}

	if m.err != nil {
		b.WriteString(ErrorStyle.Render("error: " + m.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString(FooterStyle.Render("q to quit"))
	return b.String()
}

// boardView renders the community cards, padding out to five slots
func boardView(cards []deck.Card) string {
	parts := make([]string, 0, 5)
	for _, c := range cards {
		parts = append(parts, cardView(c))
	}
	for len(parts) < 5 {
		parts = append(parts, InfoStyle.Render("··"))
	}
	return strings.Join(parts, " ")
}

// cardView colors a card by suit
func cardView(c deck.Card) string {
	if c.Suit == deck.Hearts || c.Suit == deck.Diamonds {
		return RedCardStyle.Render(c.String())
	}
	return BlackCardStyle.Render(c.String())
}

// seatRows converts a snapshot into grid rows
func seatRows(state table.Snapshot) []btable.Row {
	rows := make([]btable.Row, 0, len(state.Seats))
	for _, seat := range state.Seats {
		rows = append(rows, btable.Row{
			seatMarker(state, seat),
			seat.Name,
			strconv.Itoa(seat.Chips),
			strconv.Itoa(seat.CurrentBet),
			holeCardText(seat),
			positionText(seat),
			lastActionText(seat),
		})
	}
	return rows
}

// seatMarker flags the seat due to act
func seatMarker(state table.Snapshot, seat table.SeatSnapshot) string {
	if state.Stage.Betting() && state.Current == seat.ID {
		return fmt.Sprintf("%d→", seat.ID)
	}
	return strconv.Itoa(seat.ID)
}

func holeCardText(seat table.SeatSnapshot) string {
	if len(seat.HoleCards) > 0 {
		parts := make([]string, 0, len(seat.HoleCards))
		for _, c := range seat.HoleCards {
			parts = append(parts, c.String())
		}
		return strings.Join(parts, " ")
	}
	if seat.Active && !seat.Folded {
		return "🂠 🂠"
	}
	return ""
}

func positionText(seat table.SeatSnapshot) string {
	switch {
	case seat.Dealer:
		return "D"
	case seat.SmallBlind:
		return "SB"
	case seat.BigBlind:
		return "BB"
	default:
		return ""
	}
}

func lastActionText(seat table.SeatSnapshot) string {
	switch {
	case seat.Folded:
		return "folded"
	case seat.PendingActive:
		return "waiting"
	default:
		return seat.LastAction
	}
}

// describeEvent turns a broadcast event into one log line
func describeEvent(data server.GameEventData) string {
	switch table.EventType(data.Event) {
	case table.EventHandStarted:
		return "new hand dealt"

	case table.EventActionApplied:
		name := "seat"
		if data.SeatID != nil && *data.SeatID < len(data.State.Seats) {
			name = data.State.Seats[*data.SeatID].Name
		}
		if data.Amount > 0 {
			return fmt.Sprintf("%s %ss %d", name, data.Action, data.Amount)
		}
		return fmt.Sprintf("%s %ss", name, data.Action)

	case table.EventStageAdvanced:
		return "stage: " + data.Stage

	case table.EventHandComplete:
		parts := make([]string, 0, len(data.Winners))
		for _, w := range data.Winners {
			part := fmt.Sprintf("%s wins %d", w.Name, w.Amount)
			if w.Hand != "" {
				part += " with " + w.Hand
			}
			parts = append(parts, part)
		}
		return strings.Join(parts, ", ")

	case table.EventSeatJoined:
		if data.SeatID != nil && *data.SeatID < len(data.State.Seats) {
			return data.State.Seats[*data.SeatID].Name + " joined"
		}
		return "player joined"

	default:
		return data.Event
	}
}

// appendEvent keeps the log bounded
func appendEvent(events []string, line string) []string {
	events = append(events, line)
	if len(events) > maxEventLines {
		events = events[len(events)-maxEventLines:]
	}
	return events
}

// Run connects to a server and watches one table until quit
func Run(url, tableName string, logger *log.Logger) error {
	client, err := Dial(url, logger)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	p := tea.NewProgram(NewModel(tableName), tea.WithAltScreen())
	go client.Pump(p)

	if err := client.Watch(tableName); err != nil {
		return fmt.Errorf("subscribing to %s: %w", tableName, err)
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running watcher: %w", err)
	}
	return nil
}
