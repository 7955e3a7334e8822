package table

import (
	"fmt"

	"github.com/thoas/go-funk"
)

// Action represents a player action
type Action int

const (
	Fold Action = iota
	Check
	Call
	Raise
	actionCount
)

// String returns the wire name of the action
func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Raise:
		return "raise"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (a *Action) UnmarshalText(text []byte) error {
	parsed, ok := ParseAction(string(text))
	if !ok {
		return fmt.Errorf("unknown action %q", text)
	}
	*a = parsed
	return nil
}

// ParseAction converts a wire action name to an Action
func ParseAction(s string) (Action, bool) {
	switch s {
	case "fold":
		return Fold, true
	case "check":
		return Check, true
	case "call":
		return Call, true
	case "raise":
		return Raise, true
	default:
		return 0, false
	}
}

// valid reports whether a is one of the four known actions
func (a Action) valid() bool {
	return a >= Fold && a < actionCount
}

// ActionInfo describes what a seat may legally do right now
type ActionInfo struct {
	Valid    []Action `json:"valid_actions"`
	MinRaise int      `json:"min_raise"`
	MaxRaise int      `json:"max_raise"`
}

// Allows reports whether the action is in the valid set
func (ai ActionInfo) Allows(a Action) bool {
	return funk.Contains(ai.Valid, a)
}
