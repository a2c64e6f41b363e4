package window

import "testing"

func TestAspect(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		want          float32
	}{
		{"landscape", 1280, 720, 1280.0 / 720.0},
		{"square", 500, 500, 1},
		{"minimized", 0, 0, 1},
		{"zero height", 800, 0, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &engineWindow{width: tt.width, height: tt.height}
			if got := w.Aspect(); got != tt.want {
				t.Errorf("Aspect() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestBuilderOptions(t *testing.T) {
	w := &engineWindow{}
	for _, opt := range []WindowBuilderOption{
		WithTitle("sdf"),
		WithWidth(640),
		WithHeight(480),
		WithMinSize(100, 50),
		WithMaxSize(2000, 1000),
	} {
		opt(w)
	}
	if w.title != "sdf" || w.width != 640 || w.height != 480 {
		t.Errorf("title/size = %q %dx%d", w.title, w.width, w.height)
	}
	if w.minWidth != 100 || w.minHeight != 50 || w.maxWidth != 2000 || w.maxHeight != 1000 {
		t.Errorf("limits = %d %d %d %d", w.minWidth, w.minHeight, w.maxWidth, w.maxHeight)
	}
}

func TestSizeLimits(t *testing.T) {
	tests := []struct {
		name string
		opts []WindowBuilderOption
		want [4]int
	}{
		{"unset", nil, [4]int{dontCare, dontCare, dontCare, dontCare}},
		{"min only", []WindowBuilderOption{WithMinSize(320, 240)}, [4]int{320, 240, dontCare, dontCare}},
		{"both", []WindowBuilderOption{WithMinSize(320, 240), WithMaxSize(1920, 1080)}, [4]int{320, 240, 1920, 1080}},
		{"one axis", []WindowBuilderOption{WithMaxSize(0, 1080)}, [4]int{dontCare, dontCare, dontCare, 1080}},
		{"negative", []WindowBuilderOption{WithMinSize(-5, 10)}, [4]int{dontCare, 10, dontCare, dontCare}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := &engineWindow{}
			for _, opt := range tt.opts {
				opt(w)
			}
			minW, minH, maxW, maxH := w.sizeLimits()
			if got := [4]int{minW, minH, maxW, maxH}; got != tt.want {
				t.Errorf("sizeLimits() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCallbacksAreStored(t *testing.T) {
	w := &engineWindow{}
	var down, up, button int
	var focused bool
	w.SetKeyDownCallback(func(k int) { down = k })
	w.SetKeyUpCallback(func(k int) { up = k })
	w.SetMouseButtonDownCallback(func(b int) { button = b })
	w.SetFocusCallback(func(f bool) { focused = f })

	w.onKeyDown(87)
	w.onKeyUp(83)
	w.onMouseButtonDown(0)
	w.onFocus(true)
	if down != 87 || up != 83 || button != 0 || !focused {
		t.Errorf("callbacks recorded down=%d up=%d button=%d focused=%v", down, up, button, focused)
	}
}

func TestClosingUninitializedWindowFails(t *testing.T) {
	w := &engineWindow{}
	if w.IsRunning() {
		t.Error("uninitialized window reports running")
	}
	if err := w.Close(); err == nil {
		t.Error("Close on an uninitialized window returned nil")
	}
	if w.SurfaceDescriptor() != nil {
		t.Error("SurfaceDescriptor on an uninitialized window is not nil")
	}
}
