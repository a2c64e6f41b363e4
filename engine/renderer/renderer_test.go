package renderer

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/device_error"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/pipeline"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestParsePresentMode(t *testing.T) {
	tests := []struct {
		in      string
		want    PresentMode
		wantErr bool
	}{
		{"vsync", PresentModeVSync, false},
		{"", PresentModeVSync, false},
		{" Uncapped ", PresentModeUncapped, false},
		{"immediate", PresentModeUncapped, false},
		{"mailbox", PresentModeVSync, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParsePresentMode(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePresentMode(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParsePresentMode(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPresentModeMapping(t *testing.T) {
	if got := PresentModeVSync.wgpu(); got != wgpu.PresentModeFifo {
		t.Errorf("vsync maps to %v, want Fifo", got)
	}
	if got := PresentModeUncapped.wgpu(); got != wgpu.PresentModeImmediate {
		t.Errorf("uncapped maps to %v, want Immediate", got)
	}
	if got := PresentMode(9).wgpu(); got != wgpu.PresentModeFifo {
		t.Errorf("unknown mode maps to %v, want Fifo", got)
	}
	if got := PresentMode(9).String(); got != "PresentMode(9)" {
		t.Errorf("String() = %q", got)
	}
}

func TestMergeBindGroupLayouts(t *testing.T) {
	uniform := func(binding uint32, stage wgpu.ShaderStage) wgpu.BindGroupLayoutEntry {
		return wgpu.BindGroupLayoutEntry{
			Binding:    binding,
			Visibility: stage,
			Buffer:     wgpu.BufferBindingLayout{Type: wgpu.BufferBindingTypeUniform, MinBindingSize: 64},
		}
	}

	vertex := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Entries: []wgpu.BindGroupLayoutEntry{uniform(0, wgpu.ShaderStageVertex)}},
		2: {Entries: []wgpu.BindGroupLayoutEntry{uniform(0, wgpu.ShaderStageVertex)}},
	}
	fragment := map[int]wgpu.BindGroupLayoutDescriptor{
		0: {Label: "frag", Entries: []wgpu.BindGroupLayoutEntry{
			uniform(1, wgpu.ShaderStageFragment),
			uniform(0, wgpu.ShaderStageFragment),
		}},
		1: {Entries: []wgpu.BindGroupLayoutEntry{uniform(0, wgpu.ShaderStageFragment)}},
	}

	merged := mergeBindGroupLayouts(vertex, fragment)
	if len(merged) != 3 {
		t.Fatalf("merged %d groups, want 3", len(merged))
	}

	g0 := merged[0]
	if len(g0.Entries) != 2 {
		t.Fatalf("group 0 has %d entries, want 2", len(g0.Entries))
	}
	if g0.Entries[0].Binding != 0 || g0.Entries[1].Binding != 1 {
		t.Errorf("group 0 bindings not sorted: %d, %d", g0.Entries[0].Binding, g0.Entries[1].Binding)
	}
	if want := wgpu.ShaderStageVertex | wgpu.ShaderStageFragment; g0.Entries[0].Visibility != want {
		t.Errorf("shared binding visibility = %v, want %v", g0.Entries[0].Visibility, want)
	}
	if g0.Entries[1].Visibility != wgpu.ShaderStageFragment {
		t.Errorf("fragment-only binding visibility = %v", g0.Entries[1].Visibility)
	}
	if merged[1].Entries[0].Visibility != wgpu.ShaderStageFragment {
		t.Errorf("group 1 should come from the fragment stage only")
	}
	if merged[2].Entries[0].Visibility != wgpu.ShaderStageVertex {
		t.Errorf("group 2 should come from the vertex stage only")
	}
}

func TestLogNativeMessageReportsErrors(t *testing.T) {
	tests := []struct {
		name      string
		level     wgpu.LogLevel
		wantError bool
	}{
		{"error", wgpu.LogLevelError, true},
		{"warn", wgpu.LogLevelWarn, false},
		{"info", wgpu.LogLevelInfo, false},
		{"trace", wgpu.LogLevelTrace, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := device_error.NewHolder()
			logNativeMessage(h, tt.level, "validation failed")
			err := h.Poll()
			if (err != nil) != tt.wantError {
				t.Fatalf("Poll() = %v, wantError %v", err, tt.wantError)
			}
			if err != nil && !strings.Contains(err.Error(), "validation failed") {
				t.Errorf("reported error %q lost the message", err)
			}
		})
	}

	// A nil holder only logs.
	logNativeMessage(nil, wgpu.LogLevelError, "ignored")
}

func TestBuilderOptions(t *testing.T) {
	h := device_error.NewHolder()
	p := pipeline.NewPipeline("sdf")
	r := &renderer{}
	for _, opt := range []RendererBuilderOption{
		WithPipeline(p),
		WithPipelines(pipeline.NewPipeline("a"), pipeline.NewPipeline("b")),
		WithPresentMode(PresentModeUncapped),
		WithForceSoftwareRenderer(true),
		WithDeviceErrorHolder(h),
	} {
		opt(r)
	}
	if len(r.pendingPipelines) != 3 || r.pendingPipelines[0] != p {
		t.Errorf("pending pipelines = %d", len(r.pendingPipelines))
	}
	if r.presentMode != PresentModeUncapped || !r.forceFallbackAdapter || r.deviceErrors != h {
		t.Errorf("options not applied: %+v", r)
	}
}
