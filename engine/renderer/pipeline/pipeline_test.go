package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("sdf")
	if p.PipelineKey() != "sdf" {
		t.Errorf("PipelineKey() = %q", p.PipelineKey())
	}
	if p.CullMode() != wgpu.CullModeNone {
		t.Errorf("CullMode() = %v, want none", p.CullMode())
	}
	if p.Topology() != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("Topology() = %v, want triangle list", p.Topology())
	}
	if p.FrontFace() != wgpu.FrontFaceCCW {
		t.Errorf("FrontFace() = %v, want CCW", p.FrontFace())
	}
	if p.WriteMask() != wgpu.ColorWriteMaskAll {
		t.Errorf("WriteMask() = %v, want all", p.WriteMask())
	}
	if p.SampleCount() != 1 {
		t.Errorf("SampleCount() = %d, want 1", p.SampleCount())
	}
	if !p.BlendEnabled() || p.BlendState() == nil || *p.BlendState() != BlendStateReplace {
		t.Errorf("BlendState() = %+v, want replace", p.BlendState())
	}
	if p.RenderPipeline() != nil {
		t.Error("RenderPipeline() should be nil before registration")
	}
	if p.Shader(0) != nil || p.Shader(1) != nil {
		t.Error("shaders should be unset")
	}
}

func TestBlendStateReplace(t *testing.T) {
	for _, c := range []wgpu.BlendComponent{BlendStateReplace.Color, BlendStateReplace.Alpha} {
		if c.SrcFactor != wgpu.BlendFactorOne || c.DstFactor != wgpu.BlendFactorZero || c.Operation != wgpu.BlendOperationAdd {
			t.Errorf("component = %+v, want One/Zero/Add", c)
		}
	}
}

func TestPipelineOptions(t *testing.T) {
	custom := wgpu.BlendState{Color: wgpu.BlendComponent{SrcFactor: wgpu.BlendFactorSrcAlpha}}
	p := NewPipeline("overlay",
		WithCullMode(wgpu.CullModeBack),
		WithTopology(wgpu.PrimitiveTopologyTriangleStrip),
		WithFrontFace(wgpu.FrontFaceCW),
		WithWriteMask(wgpu.ColorWriteMaskRed),
		WithBlendState(custom),
		WithSampleCount(0),
	)
	if p.CullMode() != wgpu.CullModeBack || p.Topology() != wgpu.PrimitiveTopologyTriangleStrip ||
		p.FrontFace() != wgpu.FrontFaceCW || p.WriteMask() != wgpu.ColorWriteMaskRed {
		t.Error("options were not applied")
	}
	if *p.BlendState() != custom {
		t.Errorf("BlendState() = %+v", p.BlendState())
	}
	if p.SampleCount() != 1 {
		t.Errorf("SampleCount() = %d, want clamp to 1", p.SampleCount())
	}

	if NewPipeline("opaque", WithBlendEnabled(false)).BlendState() != nil {
		t.Error("BlendState() should be nil with blending disabled")
	}
	if *NewPipeline("a").BlendState() != BlendStateReplace {
		t.Error("pipelines must not share a mutable blend state")
	}
}
