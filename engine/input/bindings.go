package input

import (
	"fmt"
	"maps"
	"strings"

	"github.com/Carmen-Shannon/oxy-sdf/common"
)

// Layout selects a predefined keyboard binding set.
type Layout int

const (
	// LayoutQWERTY binds W/A/S/D for planar movement.
	LayoutQWERTY Layout = iota

	// LayoutAZERTY binds Z/Q/S/D for planar movement.
	LayoutAZERTY
)

func (l Layout) String() string {
	switch l {
	case LayoutQWERTY:
		return "qwerty"
	case LayoutAZERTY:
		return "azerty"
	default:
		return fmt.Sprintf("Layout(%d)", int(l))
	}
}

// ParseLayout converts a configuration string into a Layout. Matching is case-insensitive.
//
// Parameters:
//   - s: "qwerty" or "azerty"
//
// Returns:
//   - Layout: the parsed layout
//   - error: an error if the name is not recognized
func ParseLayout(s string) (Layout, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "qwerty", "":
		return LayoutQWERTY, nil
	case "azerty":
		return LayoutAZERTY, nil
	default:
		return LayoutQWERTY, fmt.Errorf("unknown keyboard layout %q (want qwerty or azerty)", s)
	}
}

// Bindings maps GLFW key codes to logical actions.
type Bindings map[int]Action

// DefaultBindings returns a fresh binding set for the given layout.
// Space ascends and left shift descends on every layout.
//
// Parameters:
//   - layout: the keyboard layout to bind
//
// Returns:
//   - Bindings: a new map the caller may modify
func DefaultBindings(layout Layout) Bindings {
	b := Bindings{
		common.KeySpace:     ActionAscend,
		common.KeyLeftShift: ActionDescend,
		common.KeyS:         ActionBackward,
		common.KeyD:         ActionStrafeRight,
	}
	switch layout {
	case LayoutAZERTY:
		b[common.KeyZ] = ActionForward
		b[common.KeyQ] = ActionStrafeLeft
	default:
		b[common.KeyW] = ActionForward
		b[common.KeyA] = ActionStrafeLeft
	}
	return b
}

// Clone returns an independent copy of the bindings.
func (b Bindings) Clone() Bindings {
	return maps.Clone(b)
}
