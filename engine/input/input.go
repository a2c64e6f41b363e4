package input

import "fmt"

// Action is a logical input the camera reacts to, decoupled from the physical key or
// button that triggers it.
type Action int

const (
	// ActionForward moves along the look direction.
	ActionForward Action = iota

	// ActionBackward moves against the look direction.
	ActionBackward

	// ActionStrafeLeft moves against the camera's right vector.
	ActionStrafeLeft

	// ActionStrafeRight moves along the camera's right vector.
	ActionStrafeRight

	// ActionAscend moves along the up vector.
	ActionAscend

	// ActionDescend moves against the up vector.
	ActionDescend

	// ActionLook gates mouse-look: pointer displacement rotates the camera only while held.
	ActionLook

	actionCount
)

var actionNames = [actionCount]string{
	ActionForward:     "forward",
	ActionBackward:    "backward",
	ActionStrafeLeft:  "strafe_left",
	ActionStrafeRight: "strafe_right",
	ActionAscend:      "ascend",
	ActionDescend:     "descend",
	ActionLook:        "look",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Input is the per-frame view of user input consumed by the camera.
// Implementations answer "is action X currently held" and report the pointer
// displacement accumulated since the previous frame.
type Input interface {
	// Held reports whether the given action is currently held.
	//
	// Parameters:
	//   - action: the logical action to query
	//
	// Returns:
	//   - bool: true while any binding for the action is pressed
	Held(action Action) bool

	// PointerDelta returns the pointer displacement since the last frame in pixels.
	//
	// Returns:
	//   - dx, dy: horizontal and vertical displacement (positive x right, positive y down)
	PointerDelta() (dx, dy float32)
}
