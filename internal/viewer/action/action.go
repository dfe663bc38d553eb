// Package action defines the discrete user commands understood by the viewer.
package action

import (
	"fmt"
	"strings"
)

// Action is a user command produced by the keymap.
type Action int

const (
	None Action = iota
	Quit
	View
	ScaleUniform
	Scale
	Rotate
	Translate
	PartyMode
	SpawnSecond
	ToggleBounds
	Screenshot
)

var names = map[Action]string{
	None:         "none",
	Quit:         "quit",
	View:         "view",
	ScaleUniform: "scale_uniform",
	Scale:        "scale",
	Rotate:       "rotate",
	Translate:    "translate",
	PartyMode:    "party",
	SpawnSecond:  "spawn_second",
	ToggleBounds: "bounds",
	Screenshot:   "screenshot",
}

// String returns the config name of the action.
func (a Action) String() string {
	if n, ok := names[a]; ok {
		return n
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Parse returns the action with the given config name (case-insensitive).
func Parse(name string) (Action, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for a, n := range names {
		if n == name && a != None {
			return a, nil
		}
	}
	return None, fmt.Errorf("unknown action %q", name)
}

// All returns every bindable action in declaration order.
func All() []Action {
	return []Action{Quit, View, ScaleUniform, Scale, Rotate, Translate, PartyMode, SpawnSecond, ToggleBounds, Screenshot}
}
