package core

import "strings"

// Action represents a semantic game command, abstracted from physical key presses
// and from web messages. Presentations translate their input into Actions.
type Action int

const (
	ActionNone       Action = iota
	ActionUp                // W, Up arrow
	ActionDown              // S, Down arrow
	ActionLeft              // A, Left arrow
	ActionRight             // D, Right arrow
	ActionPause             // P
	ActionResume            // R
	ActionNewGame           // N, or Enter after game over
	ActionConfirm           // Enter - confirm selection in menu
	ActionBack              // B, Escape - go back to menu
	ActionQuit              // Q, Ctrl+C - exit game/session
	ActionScreenshot        // Ctrl+S - export the board as PNG
)

var actionNames = map[Action]string{
	ActionNone:       "None",
	ActionUp:         "Up",
	ActionDown:       "Down",
	ActionLeft:       "Left",
	ActionRight:      "Right",
	ActionPause:      "Pause",
	ActionResume:     "Resume",
	ActionNewGame:    "NewGame",
	ActionConfirm:    "Confirm",
	ActionBack:       "Back",
	ActionQuit:       "Quit",
	ActionScreenshot: "Screenshot",
}

// String returns a human-readable name for the action.
func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return "Unknown"
}

// IsDirection reports whether the action steers the snake.
func (a Action) IsDirection() bool {
	return a == ActionUp || a == ActionDown || a == ActionLeft || a == ActionRight
}

// ParseAction maps a case-insensitive action name back to its Action.
// Unknown names yield ActionNone.
func ParseAction(name string) Action {
	for a, n := range actionNames {
		if strings.EqualFold(n, name) {
			return a
		}
	}
	// Accept the snake_case spelling used on the wire.
	if strings.EqualFold(name, "new_game") {
		return ActionNewGame
	}
	return ActionNone
}
