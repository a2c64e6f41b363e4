package input

import (
	"sync"
	"testing"

	"github.com/Carmen-Shannon/oxy-sdf/common"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState()
	for a := ActionForward; a < actionCount; a++ {
		if s.Held(a) {
			t.Errorf("Held(%v) = true on a fresh state", a)
		}
	}
	if dx, dy := s.PointerDelta(); dx != 0 || dy != 0 {
		t.Errorf("PointerDelta() = (%v, %v), want (0, 0)", dx, dy)
	}
}

func TestKeyBindings(t *testing.T) {
	tests := []struct {
		name   string
		layout Layout
		key    int
		want   Action
	}{
		{"qwerty forward", LayoutQWERTY, common.KeyW, ActionForward},
		{"qwerty left", LayoutQWERTY, common.KeyA, ActionStrafeLeft},
		{"qwerty back", LayoutQWERTY, common.KeyS, ActionBackward},
		{"qwerty right", LayoutQWERTY, common.KeyD, ActionStrafeRight},
		{"qwerty ascend", LayoutQWERTY, common.KeySpace, ActionAscend},
		{"qwerty descend", LayoutQWERTY, common.KeyLeftShift, ActionDescend},
		{"azerty forward", LayoutAZERTY, common.KeyZ, ActionForward},
		{"azerty left", LayoutAZERTY, common.KeyQ, ActionStrafeLeft},
		{"azerty back", LayoutAZERTY, common.KeyS, ActionBackward},
		{"azerty right", LayoutAZERTY, common.KeyD, ActionStrafeRight},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(WithLayout(tt.layout))
			s.KeyDown(tt.key)
			if !s.Held(tt.want) {
				t.Fatalf("Held(%v) = false after KeyDown(%d)", tt.want, tt.key)
			}
			s.KeyUp(tt.key)
			if s.Held(tt.want) {
				t.Fatalf("Held(%v) = true after KeyUp(%d)", tt.want, tt.key)
			}
		})
	}
}

func TestUnboundKeyIgnored(t *testing.T) {
	s := NewState(WithLayout(LayoutAZERTY))
	s.KeyDown(common.KeyW)
	if s.Held(ActionForward) {
		t.Error("W should not move forward on AZERTY")
	}
}

func TestSharedActionRelease(t *testing.T) {
	s := NewState(WithBindings(Bindings{
		common.KeyW: ActionForward,
		common.KeyE: ActionForward,
	}))
	s.KeyDown(common.KeyW)
	s.KeyDown(common.KeyE)
	s.KeyUp(common.KeyW)
	if !s.Held(ActionForward) {
		t.Fatal("forward released while E is still down")
	}
	s.KeyUp(common.KeyE)
	if s.Held(ActionForward) {
		t.Fatal("forward still held after both keys released")
	}
	s.KeyUp(common.KeyE)
	s.KeyDown(common.KeyW)
	if !s.Held(ActionForward) {
		t.Fatal("spurious release should not leave a negative count")
	}
}

func TestRepeatedKeyDownReleasesOnce(t *testing.T) {
	tests := []struct {
		name  string
		press func(s State)
		lift  func(s State)
		want  Action
	}{
		{"key", func(s State) { s.KeyDown(common.KeyW) }, func(s State) { s.KeyUp(common.KeyW) }, ActionForward},
		{"look button", func(s State) { s.MouseButtonDown(common.MouseButtonLeft) }, func(s State) { s.MouseButtonUp(common.MouseButtonLeft) }, ActionLook},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState()
			for range 3 {
				tt.press(s)
			}
			if !s.Held(tt.want) {
				t.Fatalf("%v not held after press", tt.want)
			}
			tt.lift(s)
			if s.Held(tt.want) {
				t.Fatalf("%v still held after a single release", tt.want)
			}
		})
	}
}

func TestRepeatedKeyDownKeepsSharedAction(t *testing.T) {
	s := NewState(WithBindings(Bindings{
		common.KeyW: ActionForward,
		common.KeyE: ActionForward,
	}))
	s.KeyDown(common.KeyW)
	s.KeyDown(common.KeyW)
	s.KeyDown(common.KeyE)
	s.KeyUp(common.KeyE)
	if !s.Held(ActionForward) {
		t.Fatal("forward released while W is still down")
	}
	s.KeyUp(common.KeyW)
	if s.Held(ActionForward) {
		t.Fatal("forward still held after both keys released")
	}
}

func TestWithBindingsCopies(t *testing.T) {
	b := Bindings{common.KeyR: ActionAscend}
	s := NewState(WithBindings(b))
	delete(b, common.KeyR)
	s.KeyDown(common.KeyR)
	if !s.Held(ActionAscend) {
		t.Error("bindings were not copied into the state")
	}
}

func TestLookButton(t *testing.T) {
	s := NewState()
	s.MouseButtonDown(common.MouseButtonRight)
	if s.Held(ActionLook) {
		t.Error("right button should not trigger look by default")
	}
	s.MouseButtonDown(common.MouseButtonLeft)
	if !s.Held(ActionLook) {
		t.Error("left button should trigger look by default")
	}
	s.MouseButtonUp(common.MouseButtonLeft)
	if s.Held(ActionLook) {
		t.Error("look still held after release")
	}

	s = NewState(WithLookButton(common.MouseButtonMiddle))
	s.MouseButtonDown(common.MouseButtonMiddle)
	if !s.Held(ActionLook) {
		t.Error("WithLookButton(middle) did not bind the middle button")
	}
}

func TestPointerDelta(t *testing.T) {
	s := NewState()
	s.MouseMove(100, 50)
	if dx, dy := s.PointerDelta(); dx != 0 || dy != 0 {
		t.Fatalf("first cursor sample produced delta (%v, %v)", dx, dy)
	}
	s.MouseMove(103, 48)
	s.MouseMove(110, 40)
	if dx, dy := s.PointerDelta(); dx != 10 || dy != -10 {
		t.Fatalf("PointerDelta() = (%v, %v), want (10, -10)", dx, dy)
	}
	s.EndFrame()
	if dx, dy := s.PointerDelta(); dx != 0 || dy != 0 {
		t.Fatalf("PointerDelta() after EndFrame = (%v, %v), want (0, 0)", dx, dy)
	}
	s.MouseMove(111, 40)
	if dx, _ := s.PointerDelta(); dx != 1 {
		t.Fatalf("PointerDelta() dx = %v, want 1", dx)
	}
}

func TestReset(t *testing.T) {
	s := NewState()
	s.KeyDown(common.KeyW)
	s.MouseButtonDown(common.MouseButtonLeft)
	s.MouseMove(0, 0)
	s.MouseMove(5, 5)
	s.Reset()
	if s.Held(ActionForward) || s.Held(ActionLook) {
		t.Error("Reset did not release held actions")
	}
	s.MouseMove(50, 50)
	if dx, dy := s.PointerDelta(); dx != 0 || dy != 0 {
		t.Errorf("cursor after Reset produced delta (%v, %v)", dx, dy)
	}
}

func TestStateConcurrent(t *testing.T) {
	s := NewState()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.KeyDown(common.KeyW)
			s.MouseMove(float64(i), float64(i))
			_ = s.Held(ActionForward)
			_, _ = s.PointerDelta()
			s.KeyUp(common.KeyW)
		}()
	}
	wg.Wait()
	if s.Held(ActionForward) {
		t.Error("forward held after balanced presses and releases")
	}
}
