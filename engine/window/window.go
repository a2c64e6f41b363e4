package window

import (
	"fmt"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"
)

// Window provides platform windowing and input event handling.
// Wraps platform-specific window implementations with a common interface.
// All methods must be called from the thread that created the window.
type Window interface {
	// SetUpdateCallback sets the function called each message loop iteration.
	//
	// Parameters:
	//   - callback: function to call (or nil to disable)
	SetUpdateCallback(callback func())

	// SetResizeCallback sets the function called when the window is resized.
	//
	// Parameters:
	//   - callback: function receiving new width and height in pixels
	SetResizeCallback(callback func(width, height int))

	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyDownCallback(callback func(keyCode int))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the GLFW key code
	SetKeyUpCallback(callback func(keyCode int))

	// SetMouseButtonDownCallback sets the callback for mouse button presses.
	//
	// Parameters:
	//   - callback: function receiving the GLFW mouse button index
	SetMouseButtonDownCallback(callback func(button int))

	// SetMouseButtonUpCallback sets the callback for mouse button releases.
	//
	// Parameters:
	//   - callback: function receiving the GLFW mouse button index
	SetMouseButtonUpCallback(callback func(button int))

	// SetMouseMoveCallback sets the callback for cursor movement.
	//
	// Parameters:
	//   - callback: function receiving the cursor position in screen coordinates
	SetMouseMoveCallback(callback func(x, y float64))

	// SetFocusCallback sets the callback for focus changes. Keys released while the window
	// is unfocused never reach the key callbacks, so input state should be reset on focus loss.
	//
	// Parameters:
	//   - callback: function receiving true when focus is gained
	SetFocusCallback(callback func(focused bool))

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	// The descriptor is platform-appropriate (Windows HWND, X11 Xlib, Wayland, macOS Metal, etc.)
	// and is created by the wgpuglfw bridge from the underlying GLFW window.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if window is not initialized
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// IsRunning returns true if the window is still active.
	//
	// Returns:
	//   - bool: true if window is running, false if closed
	IsRunning() bool

	// RequestClose asks the message loop to stop after the current iteration.
	// Unlike Close it is safe to call from inside a window callback.
	RequestClose()

	// Close closes the window and releases platform resources.
	//
	// Returns:
	//   - error: error if close operation fails
	Close() error

	// ProcessMessages runs the window message loop.
	// Blocks until the window is closed. Calls OnUpdate callback each iteration.
	ProcessMessages()

	// Width returns the current window client area width in pixels.
	//
	// Returns:
	//   - int: width in pixels
	Width() int

	// Height returns the current window client area height in pixels.
	//
	// Returns:
	//   - int: height in pixels
	Height() int

	// Aspect returns width / height, or 1 while the window is minimized.
	//
	// Returns:
	//   - float32: the framebuffer aspect ratio
	Aspect() float32
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, GLFW state, and event callbacks.
type engineWindow struct {
	// title is the window title displayed in the title bar.
	title string

	// Resize limits; non-positive values are unconstrained.
	minWidth, minHeight int
	maxWidth, maxHeight int

	// width is the current window client area width in pixels.
	width int

	// height is the current window client area height in pixels.
	height int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	// onUpdate is called each iteration of the message loop (if set).
	onUpdate func()

	// onResize is called when the window is resized.
	onResize func(width, height int)

	// onKeyDown is called once when a key is pressed; auto-repeat is not forwarded.
	onKeyDown func(keyCode int)

	// onKeyUp is called when a key is released.
	onKeyUp func(keyCode int)

	onMouseButtonDown func(button int)
	onMouseButtonUp   func(button int)

	// onMouseMove is called when the cursor moves within the window.
	onMouseMove func(x, y float64)

	// onFocus is called when the window gains or loses input focus.
	onFocus func(focused bool)
}

var _ Window = &engineWindow{}

// dontCare is GLFW_DONT_CARE, the size limit meaning "no constraint".
const dontCare = -1

// sizeLimits returns the resize limits in the order GLFW's SetSizeLimits takes them.
func (w *engineWindow) sizeLimits() (minWidth, minHeight, maxWidth, maxHeight int) {
	limit := func(v int) int {
		if v <= 0 {
			return dontCare
		}
		return v
	}
	return limit(w.minWidth), limit(w.minHeight), limit(w.maxWidth), limit(w.maxHeight)
}

// NewWindow creates a new Window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the configured, visible window
//   - error: an error if GLFW or the native window could not be initialized
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:     "oxy-sdf",
		minWidth:  320,
		minHeight: 240,
		width:     1280,
		height:    720,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, fmt.Errorf("failed to create platform window: %w", err)
	}
	return w, nil
}

func (w *engineWindow) SetUpdateCallback(callback func()) {
	w.onUpdate = callback
}

func (w *engineWindow) SetResizeCallback(callback func(width, height int)) {
	w.onResize = callback
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode int)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode int)) {
	w.onKeyUp = callback
}

func (w *engineWindow) SetMouseButtonDownCallback(callback func(button int)) {
	w.onMouseButtonDown = callback
}

func (w *engineWindow) SetMouseButtonUpCallback(callback func(button int)) {
	w.onMouseButtonUp = callback
}

func (w *engineWindow) SetMouseMoveCallback(callback func(x, y float64)) {
	w.onMouseMove = callback
}

func (w *engineWindow) SetFocusCallback(callback func(focused bool)) {
	w.onFocus = callback
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) IsRunning() bool {
	return platformIsRunningCheck(w)
}

func (w *engineWindow) RequestClose() {
	platformRequestClose(w)
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}

func (w *engineWindow) ProcessMessages() {
	for w.IsRunning() {
		if succ := platformProcessMessages(w); !succ {
			break
		}

		if w.onUpdate != nil {
			w.onUpdate()
		}

		runtime.Gosched()
	}
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) Aspect() float32 {
	if w.width <= 0 || w.height <= 0 {
		return 1
	}
	return float32(w.width) / float32(w.height)
}
