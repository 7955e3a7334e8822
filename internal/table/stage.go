package table

import "fmt"

// Stage represents the phase a hand is in
type Stage int

const (
	StageWaiting Stage = iota
	StagePreFlop
	StageFlop
	StageTurn
	StageRiver
	StageShowdown
)

// String returns the wire name of the stage
func (s Stage) String() string {
	switch s {
	case StageWaiting:
		return "waiting"
	case StagePreFlop:
		return "pre_flop"
	case StageFlop:
		return "flop"
	case StageTurn:
		return "turn"
	case StageRiver:
		return "river"
	case StageShowdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so stages serialize
// as their wire names
func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (s *Stage) UnmarshalText(text []byte) error {
	for st := StageWaiting; st <= StageShowdown; st++ {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown stage %q", text)
}

// Betting reports whether actions are accepted at this stage
func (s Stage) Betting() bool {
	return s >= StagePreFlop && s <= StageRiver
}
