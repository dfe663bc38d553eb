package input

import (
	"errors"
	"fmt"
	"sort"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/objview/internal/viewer/action"
)

// Keymap resolves key presses to viewer actions.
type Keymap struct {
	bindings map[sdl.Keycode]action.Action
}

// NewKeymap builds a keymap from action name -> SDL key name pairs, as found
// in the controls.keys config section. An empty key name leaves the action
// unbound.
func NewKeymap(keys map[string]string) (*Keymap, error) {
	km := &Keymap{bindings: make(map[sdl.Keycode]action.Action, len(keys))}

	// Sorted so duplicate-binding errors are stable.
	names := make([]string, 0, len(keys))
	for name := range keys {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs []error
	for _, name := range names {
		a, err := action.Parse(name)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		keyName := keys[name]
		if keyName == "" {
			continue
		}
		key := sdl.GetKeyFromName(keyName)
		if key == sdl.K_UNKNOWN {
			errs = append(errs, fmt.Errorf("%s: unknown key %q", a, keyName))
			continue
		}
		if prev, ok := km.bindings[key]; ok {
			errs = append(errs, fmt.Errorf("%s: key %q already bound to %s", a, keyName, prev))
			continue
		}
		km.bindings[key] = a
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("building keymap: %w", err)
	}
	return km, nil
}

// Lookup returns the action bound to key, or action.None.
func (k *Keymap) Lookup(key sdl.Keycode) action.Action {
	return k.bindings[key]
}

// KeyFor returns the name of the key bound to a, or "" when unbound.
func (k *Keymap) KeyFor(a action.Action) string {
	for key, bound := range k.bindings {
		if bound == a {
			return sdl.GetKeyName(key)
		}
	}
	return ""
}
