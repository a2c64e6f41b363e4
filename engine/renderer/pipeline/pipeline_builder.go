package pipeline

import (
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption is a functional option used to configure a Pipeline during construction.
type PipelineBuilderOption func(*pipeline)

// WithVertexShader sets the vertex shader for this pipeline.
//
// Parameters:
//   - s: the vertex shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets the vertex shader
func WithVertexShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.vertexShader = s
	}
}

// WithFragmentShader sets the fragment shader for this pipeline.
//
// Parameters:
//   - s: the fragment shader
//
// Returns:
//   - PipelineBuilderOption: a function that sets the fragment shader
func WithFragmentShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.fragmentShader = s
	}
}

// WithBlendEnabled sets whether the blend state is attached to the color target.
//
// Parameters:
//   - enabled: true to attach the blend state
//
// Returns:
//   - PipelineBuilderOption: a function that toggles blending
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithBlendState replaces the blend state.
//
// Parameters:
//   - state: the blend state to copy
//
// Returns:
//   - PipelineBuilderOption: a function that sets the blend state
func WithBlendState(state wgpu.BlendState) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendState = &state
	}
}

// WithCullMode sets the face culling mode.
//
// Parameters:
//   - mode: the cull mode
//
// Returns:
//   - PipelineBuilderOption: a function that sets the cull mode
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithTopology sets the primitive topology.
//
// Parameters:
//   - topology: the primitive topology
//
// Returns:
//   - PipelineBuilderOption: a function that sets the topology
func WithTopology(topology wgpu.PrimitiveTopology) PipelineBuilderOption {
	return func(p *pipeline) {
		p.topology = topology
	}
}

// WithFrontFace sets the front face winding order.
//
// Parameters:
//   - frontFace: the winding order
//
// Returns:
//   - PipelineBuilderOption: a function that sets the front face
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}

// WithWriteMask sets the color write mask.
//
// Parameters:
//   - mask: the color write mask
//
// Returns:
//   - PipelineBuilderOption: a function that sets the write mask
func WithWriteMask(mask wgpu.ColorWriteMask) PipelineBuilderOption {
	return func(p *pipeline) {
		p.writeMask = mask
	}
}

// WithSampleCount sets the multisample count. Values below 1 are clamped to 1.
//
// Parameters:
//   - count: the sample count
//
// Returns:
//   - PipelineBuilderOption: a function that sets the sample count
func WithSampleCount(count uint32) PipelineBuilderOption {
	return func(p *pipeline) {
		p.sampleCount = max(count, 1)
	}
}
