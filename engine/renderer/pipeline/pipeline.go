package pipeline

import (
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// BlendStateReplace writes the fragment color as-is: source factor One, destination factor Zero.
var BlendStateReplace = wgpu.BlendState{
	Color: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
	Alpha: wgpu.BlendComponent{
		SrcFactor: wgpu.BlendFactorOne,
		DstFactor: wgpu.BlendFactorZero,
		Operation: wgpu.BlendOperationAdd,
	},
}

type pipeline struct {
	pipelineKey string

	vertexShader, fragmentShader shader.Shader

	// renderPipeline is nil until the Renderer registers this pipeline.
	renderPipeline *wgpu.RenderPipeline

	blendEnabled bool
	cullMode     wgpu.CullMode
	topology     wgpu.PrimitiveTopology
	frontFace    wgpu.FrontFace
	writeMask    wgpu.ColorWriteMask
	blendState   *wgpu.BlendState
	sampleCount  uint32
}

// Pipeline describes a render pipeline: its vertex and fragment shaders plus the primitive
// and color target state used when the Renderer creates the GPU object. Pipelines render
// without a depth attachment.
type Pipeline interface {
	// PipelineKey returns the unique key associated with this pipeline.
	//
	// Returns:
	//   - string: the unique key for this pipeline
	PipelineKey() string

	// Shader retrieves the shader for a stage, or nil if not set.
	//
	// Parameters:
	//   - shaderType: the stage to retrieve
	//
	// Returns:
	//   - shader.Shader: the shader or nil
	Shader(shaderType shader.ShaderType) shader.Shader

	// RenderPipeline returns the GPU pipeline, or nil before registration.
	//
	// Returns:
	//   - *wgpu.RenderPipeline: the render pipeline
	RenderPipeline() *wgpu.RenderPipeline

	// BlendEnabled reports whether BlendState is attached to the color target.
	//
	// Returns:
	//   - bool: true if blending is enabled
	BlendEnabled() bool

	// CullMode returns the face culling mode.
	//
	// Returns:
	//   - wgpu.CullMode: the cull mode (default wgpu.CullModeNone)
	CullMode() wgpu.CullMode

	// Topology returns the primitive topology.
	//
	// Returns:
	//   - wgpu.PrimitiveTopology: the topology (default wgpu.PrimitiveTopologyTriangleList)
	Topology() wgpu.PrimitiveTopology

	// FrontFace returns the front face winding order.
	//
	// Returns:
	//   - wgpu.FrontFace: the winding order (default wgpu.FrontFaceCCW)
	FrontFace() wgpu.FrontFace

	// WriteMask returns the color write mask.
	//
	// Returns:
	//   - wgpu.ColorWriteMask: the write mask (default wgpu.ColorWriteMaskAll)
	WriteMask() wgpu.ColorWriteMask

	// BlendState returns the blend state, or nil when blending is disabled.
	//
	// Returns:
	//   - *wgpu.BlendState: the blend state (default BlendStateReplace)
	BlendState() *wgpu.BlendState

	// SampleCount returns the multisample count of the color target.
	//
	// Returns:
	//   - uint32: the sample count (default 1)
	SampleCount() uint32

	// SetRenderPipeline stores the GPU pipeline created by the Renderer.
	//
	// Parameters:
	//   - p: the WebGPU render pipeline
	SetRenderPipeline(p *wgpu.RenderPipeline)

	// Release releases the GPU pipeline if one was created.
	Release()
}

var _ Pipeline = &pipeline{}

// NewPipeline creates a render pipeline description. Defaults draw a full-screen triangle
// list with no culling, counter-clockwise front faces, all color channels written, replace
// blending and a single sample.
//
// Parameters:
//   - pipelineKey: the unique key for this pipeline
//   - opts: a variadic list of PipelineBuilderOption functions to configure the pipeline
//
// Returns:
//   - Pipeline: the configured pipeline
func NewPipeline(pipelineKey string, opts ...PipelineBuilderOption) Pipeline {
	blend := BlendStateReplace
	p := &pipeline{
		pipelineKey:  pipelineKey,
		blendEnabled: true,
		cullMode:     wgpu.CullModeNone,
		topology:     wgpu.PrimitiveTopologyTriangleList,
		frontFace:    wgpu.FrontFaceCCW,
		writeMask:    wgpu.ColorWriteMaskAll,
		blendState:   &blend,
		sampleCount:  1,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *pipeline) PipelineKey() string {
	return p.pipelineKey
}

func (p *pipeline) Shader(shaderType shader.ShaderType) shader.Shader {
	switch shaderType {
	case shader.ShaderTypeVertex:
		return p.vertexShader
	case shader.ShaderTypeFragment:
		return p.fragmentShader
	default:
		return nil
	}
}

func (p *pipeline) RenderPipeline() *wgpu.RenderPipeline {
	return p.renderPipeline
}

func (p *pipeline) BlendEnabled() bool {
	return p.blendEnabled
}

func (p *pipeline) CullMode() wgpu.CullMode {
	return p.cullMode
}

func (p *pipeline) Topology() wgpu.PrimitiveTopology {
	return p.topology
}

func (p *pipeline) FrontFace() wgpu.FrontFace {
	return p.frontFace
}

func (p *pipeline) WriteMask() wgpu.ColorWriteMask {
	return p.writeMask
}

func (p *pipeline) BlendState() *wgpu.BlendState {
	if !p.blendEnabled {
		return nil
	}
	return p.blendState
}

func (p *pipeline) SampleCount() uint32 {
	return p.sampleCount
}

func (p *pipeline) SetRenderPipeline(rp *wgpu.RenderPipeline) {
	p.renderPipeline = rp
}

func (p *pipeline) Release() {
	if p.renderPipeline != nil {
		p.renderPipeline.Release()
		p.renderPipeline = nil
	}
}
