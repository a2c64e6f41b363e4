package bind_group_provider

import "testing"

func TestNewBindGroupProvider(t *testing.T) {
	p := NewBindGroupProvider("camera")
	if p.Label() != "camera" || p.Group() != 0 {
		t.Errorf("Label/Group = %q/%d", p.Label(), p.Group())
	}
	if p.BindGroup() != nil || p.BindGroupLayout() != nil || p.Buffer(0) != nil {
		t.Error("new provider should hold no GPU resources")
	}
	if p.Buffers() == nil {
		t.Error("Buffers() should be an empty map, not nil")
	}

	p = NewBindGroupProvider("params", WithGroup(2))
	if p.Group() != 2 {
		t.Errorf("Group() = %d, want 2", p.Group())
	}
}

func TestReleaseUninitialized(t *testing.T) {
	p := NewBindGroupProvider("camera")
	p.SetBuffer(0, nil)
	p.Release()
	if len(p.Buffers()) != 0 {
		t.Errorf("Release left %d buffers", len(p.Buffers()))
	}
}
