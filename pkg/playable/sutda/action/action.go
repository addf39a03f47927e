package action

import (
	"encoding/json"
	"fmt"
)

// Action represents a betting action a player can take
type Action string

// action constants
const (
	// Check passes when there is no outstanding bet
	Check Action = "check"
	// Pping is the first player's minimum opening bet
	Pping Action = "pping"
	// Half bets half the pot
	Half Action = "half"
	// Quarter bets a quarter of the pot
	Quarter Action = "quarter"
	// Call matches the outstanding bet
	Call Action = "call"
	// Ddadang calls the outstanding bet and raises it by double
	Ddadang Action = "ddadang"
	// Die folds the hand
	Die Action = "die"
)

var allowedActions = map[Action]bool{
	Check:   true,
	Pping:   true,
	Half:    true,
	Quarter: true,
	Call:    true,
	Ddadang: true,
	Die:     true,
}

// FromString returns an action for the given string
func FromString(s string) (Action, error) {
	if _, ok := allowedActions[Action(s)]; ok {
		return Action(s), nil
	}

	return "", fmt.Errorf("unknown action for identifier: %s", s)
}

func (a Action) String() string {
	switch a {
	case Check:
		return "Check"
	case Pping:
		return "Pping"
	case Half:
		return "Half"
	case Quarter:
		return "Quarter"
	case Call:
		return "Call"
	case Ddadang:
		return "Ddadang"
	case Die:
		return "Die"
	}

	panic("unknown action")
}

// MarshalJSON encodes the action into JSON
func (a Action) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}{
		ID:   string(a),
		Name: a.String(),
	})
}

// IsValid returns true if the action is permitted
func (a Action) IsValid() bool {
	_, ok := allowedActions[a]
	return ok
}

// IsRaise returns true for the raise-type actions that count against
// the bot's raise cap
func (a Action) IsRaise() bool {
	return a == Pping || a == Half || a == Ddadang
}

// LogMessage returns a message formatted for the log
func (a Action) LogMessage(amount int) string {
	switch a {
	case Check:
		return "checked"
	case Pping:
		return fmt.Sprintf("opened with a pping of ${%d}", amount)
	case Half:
		return fmt.Sprintf("bet half the pot (${%d})", amount)
	case Quarter:
		return fmt.Sprintf("bet a quarter of the pot (${%d})", amount)
	case Call:
		return fmt.Sprintf("called ${%d}", amount)
	case Ddadang:
		return fmt.Sprintf("raised ddadang to ${%d}", amount)
	case Die:
		return "died"
	}

	return ""
}
