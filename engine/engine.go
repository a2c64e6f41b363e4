package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/input"
	"github.com/Carmen-Shannon/oxy-sdf/engine/profiler"
	"github.com/Carmen-Shannon/oxy-sdf/engine/scene"
	"github.com/Carmen-Shannon/oxy-sdf/engine/window"
)

// engine implements the Engine interface.
// Everything runs on the thread that owns the window: the message pump calls frame once
// per iteration.
type engine struct {
	quitOnce sync.Once

	window window.Window
	scene  scene.Scene
	input  input.State

	profiler         *profiler.Profiler
	profilingEnabled bool

	frameCallback func(deltaTime float32)

	renderFrameLimit time.Duration // minimum frame duration; 0 = uncapped
	lastFrame        time.Time
	frames           uint64

	now   func() time.Time
	sleep func(time.Duration)
}

// Engine drives the frame loop: it feeds window input to the scene's camera, records the
// frame with the scene's renderer and presents it.
type Engine interface {
	// Window returns the underlying window.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Scene returns the scene drawn each frame.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Input returns the input state fed by the window callbacks.
	//
	// Returns:
	//   - input.State: the input state
	Input() input.State

	// EnableProfiler enables performance profiling output to the log.
	EnableProfiler()

	// DisableProfiler disables performance profiling output.
	DisableProfiler()

	// SetFrameCallback registers a function called at the start of each frame, before the
	// camera update.
	//
	// Parameters:
	//   - callback: function receiving the delta time in seconds
	SetFrameCallback(callback func(deltaTime float32))

	// SetRenderFrameLimit sets an optional frame rate cap in frames per second.
	// Pass 0 to uncap the loop (default).
	//
	// Parameters:
	//   - fps: maximum frames per second (0 = uncapped)
	SetRenderFrameLimit(fps float64)

	// Frames returns the number of frames run so far.
	//
	// Returns:
	//   - uint64: the frame count
	Frames() uint64

	// Run installs the window callbacks and pumps window messages until the window closes.
	//
	// Returns:
	//   - error: an error if the engine has no window or scene
	Run() error

	// Quit asks the window to close; Run returns after the current frame.
	// Safe to call multiple times; subsequent calls are no-ops.
	Quit()
}

// NewEngine creates a new Engine instance with the provided options.
//
// Parameters:
//   - options: functional options for engine configuration (window, scene, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		profiler: profiler.NewProfiler(),
		now:      time.Now,
		sleep:    time.Sleep,
	}

	for _, opt := range options {
		opt(e)
	}
	if e.input == nil {
		e.input = input.NewState()
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Scene() scene.Scene {
	return e.scene
}

func (e *engine) Input() input.State {
	return e.input
}

func (e *engine) Run() error {
	if e.window == nil {
		return errors.New("engine: no window configured")
	}
	if e.scene == nil {
		return errors.New("engine: no scene configured")
	}

	e.bindWindow()
	e.lastFrame = e.now()
	e.window.ProcessMessages()
	return nil
}

// bindWindow routes window events into the input state and keeps the surface and the
// projection in sync with the framebuffer size.
func (e *engine) bindWindow() {
	e.window.SetKeyDownCallback(e.input.KeyDown)
	e.window.SetKeyUpCallback(e.input.KeyUp)
	e.window.SetMouseButtonDownCallback(e.input.MouseButtonDown)
	e.window.SetMouseButtonUpCallback(e.input.MouseButtonUp)
	e.window.SetMouseMoveCallback(e.input.MouseMove)
	e.window.SetFocusCallback(func(focused bool) {
		if !focused {
			e.input.Reset()
		}
	})
	e.window.SetResizeCallback(func(width, height int) {
		e.scene.Renderer().Resize(width, height)
		e.scene.SetAspect(e.window.Aspect())
	})
	e.window.SetUpdateCallback(e.frame)

	e.scene.SetAspect(e.window.Aspect())
}

// Quit asks the window to close.
// Safe to call multiple times; subsequent calls are no-ops due to sync.Once.
func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window != nil {
			e.window.RequestClose()
		}
	})
}

// frame runs one iteration: camera update, input reset, then a single render pass.
// A frame whose surface texture cannot be acquired is skipped.
func (e *engine) frame() {
	start := e.now()
	dt := float32(start.Sub(e.lastFrame).Seconds())
	e.lastFrame = start
	e.frames++

	if e.frameCallback != nil {
		e.frameCallback(dt)
	}

	e.scene.Update(e.input, dt)
	e.input.EndFrame()

	r := e.scene.Renderer()
	if err := r.BeginFrame(); err != nil {
		common.Logger().Debug("frame skipped", "error", err)
	} else {
		if err := e.scene.Draw(); err != nil {
			common.Logger().Warn("scene draw failed", "error", err)
		}
		r.EndFrame()
		r.Present()
	}

	if e.profilingEnabled && e.profiler != nil {
		e.profiler.Tick()
	}

	if e.renderFrameLimit > 0 {
		if remaining := e.renderFrameLimit - e.now().Sub(start); remaining > 0 {
			e.sleep(remaining)
		}
	}
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) SetFrameCallback(callback func(deltaTime float32)) {
	e.frameCallback = callback
}

func (e *engine) SetRenderFrameLimit(fps float64) {
	e.renderFrameLimit = frameDuration(fps)
}

func (e *engine) Frames() uint64 {
	return e.frames
}

// frameDuration converts a frame rate cap into a minimum frame duration; 0 means uncapped.
func frameDuration(fps float64) time.Duration {
	if fps <= 0 {
		return 0
	}
	return time.Duration(float64(time.Second) / fps)
}
