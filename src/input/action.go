package input

import "strings"

// Action is a logical input. The first NumActions values are physical
// actions bound to keys; Forward and Back only appear in motion sequences
// and resolve to Left or Right from the player's facing.
type Action int

const (
	ActionUp Action = iota
	ActionDown
	ActionLeft
	ActionRight
	ActionPunch
	ActionKick
	ActionSpecial
	ActionSuper
	NumActions
)

const (
	ActionForward Action = NumActions + iota
	ActionBack
)

var actionNames = [...]string{
	ActionUp:      "up",
	ActionDown:    "down",
	ActionLeft:    "left",
	ActionRight:   "right",
	ActionPunch:   "punch",
	ActionKick:    "kick",
	ActionSpecial: "special",
	ActionSuper:   "super",
	ActionForward: "forward",
	ActionBack:    "back",
}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "unknown"
	}
	return actionNames[a]
}

// ParseAction accepts the names used in character files, case-insensitive.
func ParseAction(s string) (Action, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range actionNames {
		if n == s {
			return Action(i), true
		}
	}
	return 0, false
}

// ParseSequence converts a list of action names. ok is false if any name
// is unknown.
func ParseSequence(names []string) ([]Action, bool) {
	seq := make([]Action, 0, len(names))
	for _, n := range names {
		a, ok := ParseAction(n)
		if !ok {
			return nil, false
		}
		seq = append(seq, a)
	}
	return seq, true
}

// IsButton reports whether a fires once per physical press.
func (a Action) IsButton() bool {
	switch a {
	case ActionPunch, ActionKick, ActionSpecial, ActionSuper:
		return true
	}
	return false
}

// Key names a physical key, e.g. "KeyA" or "ArrowLeft". The recognizer does
// not care whether it came from a keyboard, a pad or a script.
type Key string

// Bindings maps every physical action of one player to a key.
type Bindings [NumActions]Key

var DefaultBindings = [2]Bindings{
	{
		ActionUp: "KeyW", ActionDown: "KeyS", ActionLeft: "KeyA", ActionRight: "KeyD",
		ActionPunch: "KeyF", ActionKick: "KeyG", ActionSpecial: "KeyH", ActionSuper: "KeyT",
	},
	{
		ActionUp: "ArrowUp", ActionDown: "ArrowDown", ActionLeft: "ArrowLeft", ActionRight: "ArrowRight",
		ActionPunch: "KeyK", ActionKick: "KeyL", ActionSpecial: "Semicolon", ActionSuper: "KeyP",
	},
}
