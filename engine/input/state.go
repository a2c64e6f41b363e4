package input

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-sdf/common"
)

type stateImpl struct {
	mu *sync.Mutex

	bindings   Bindings
	lookButton int

	held     map[Action]int
	keysDown map[int]struct{}
	lookDown bool

	cursorSeen bool
	lastX      float64
	lastY      float64
	dx         float32
	dy         float32
}

// State tracks raw window events and exposes them as an Input snapshot.
// Window callbacks feed key, button and cursor events in; the frame loop reads Held and
// PointerDelta during update and then calls EndFrame to clear the per-frame delta.
type State interface {
	Input

	// KeyDown records a key press. Keys without a binding are ignored, and pressing a key
	// that is already down (auto-repeat) has no effect.
	//
	// Parameters:
	//   - key: the GLFW key code
	KeyDown(key int)

	// KeyUp records a key release. Keys without a binding are ignored.
	//
	// Parameters:
	//   - key: the GLFW key code
	KeyUp(key int)

	// MouseButtonDown records a mouse button press. Only the look button has an effect.
	//
	// Parameters:
	//   - button: the GLFW mouse button code
	MouseButtonDown(button int)

	// MouseButtonUp records a mouse button release. Only the look button has an effect.
	//
	// Parameters:
	//   - button: the GLFW mouse button code
	MouseButtonUp(button int)

	// MouseMove records an absolute cursor position and accumulates the displacement
	// from the previous sample. The first sample only establishes the reference point.
	//
	// Parameters:
	//   - x, y: the cursor position in window pixels
	MouseMove(x, y float64)

	// EndFrame clears the accumulated pointer displacement. Held actions persist.
	EndFrame()

	// Reset releases every held action and forgets the cursor reference point.
	// Used when the window loses focus so no key stays stuck.
	Reset()
}

var _ State = &stateImpl{}

// NewState creates an input State bound to the QWERTY layout with the left mouse button as
// the look button unless overridden by options.
//
// Parameters:
//   - options: functional options to configure the state
//
// Returns:
//   - State: the newly created input state
func NewState(options ...StateBuilderOption) State {
	s := &stateImpl{
		mu:         &sync.Mutex{},
		bindings:   DefaultBindings(LayoutQWERTY),
		lookButton: common.MouseButtonLeft,
		held:       make(map[Action]int),
		keysDown:   make(map[int]struct{}),
	}
	for _, option := range options {
		option(s)
	}
	return s
}

func (s *stateImpl) Held(action Action) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.held[action] > 0
}

func (s *stateImpl) PointerDelta() (dx, dy float32) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dx, s.dy
}

func (s *stateImpl) KeyDown(key int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	action, ok := s.bindings[key]
	if !ok {
		return
	}
	if _, down := s.keysDown[key]; down {
		return
	}
	s.keysDown[key] = struct{}{}
	s.press(action)
}

func (s *stateImpl) KeyUp(key int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	action, ok := s.bindings[key]
	if !ok {
		return
	}
	if _, down := s.keysDown[key]; !down {
		return
	}
	delete(s.keysDown, key)
	s.release(action)
}

func (s *stateImpl) MouseButtonDown(button int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if button == s.lookButton && !s.lookDown {
		s.lookDown = true
		s.press(ActionLook)
	}
}

func (s *stateImpl) MouseButtonUp(button int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if button == s.lookButton && s.lookDown {
		s.lookDown = false
		s.release(ActionLook)
	}
}

func (s *stateImpl) MouseMove(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cursorSeen {
		s.dx += float32(x - s.lastX)
		s.dy += float32(y - s.lastY)
	}
	s.cursorSeen = true
	s.lastX = x
	s.lastY = y
}

func (s *stateImpl) EndFrame() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dx = 0
	s.dy = 0
}

func (s *stateImpl) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.held)
	clear(s.keysDown)
	s.lookDown = false
	s.cursorSeen = false
	s.dx = 0
	s.dy = 0
}

// press counts physical keys so two keys mapped to one action release cleanly. Callers
// only press a key that is not already down, so auto-repeat never inflates the count.
func (s *stateImpl) press(action Action) {
	s.held[action]++
}

func (s *stateImpl) release(action Action) {
	if s.held[action] <= 1 {
		delete(s.held, action)
		return
	}
	s.held[action]--
}
