package renderer

import (
	"fmt"
	"maps"
	"sync"

	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/device_error"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sdf/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

type renderer struct {
	mu            *sync.Mutex
	pipelineCache map[string]pipeline.Pipeline
	backendType   RendererBackendType
	backend       RendererBackend
	deviceErrors  device_error.Holder

	forceFallbackAdapter bool
	presentMode          PresentMode
	pendingPipelines     []pipeline.Pipeline
}

// Renderer owns the GPU device and the window surface, registers render pipelines and
// records one render pass per frame.
type Renderer interface {
	// Pipeline retrieves a registered pipeline by key.
	//
	// Parameters:
	//   - key: the unique identifier for the pipeline
	//
	// Returns:
	//   - pipeline.Pipeline: the pipeline, or nil if no pipeline is registered under key
	Pipeline(key string) pipeline.Pipeline

	// Pipelines returns a snapshot of all registered pipelines keyed by pipeline key.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a copy of the pipeline cache
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines creates the GPU objects for each pipeline and caches it by key.
	// Pipelines whose key is already registered are skipped. Failures are also reported
	// to DeviceErrors.
	//
	// Parameters:
	//   - pipelines: the pipelines to register
	//
	// Returns:
	//   - error: the first creation error, otherwise nil
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// Resize reconfigures the surface for new framebuffer dimensions.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use
	SetPresentMode(mode PresentMode)

	// SurfaceFormat returns the swapchain texture format.
	//
	// Returns:
	//   - wgpu.TextureFormat: the format every color target must match
	SurfaceFormat() wgpu.TextureFormat

	// InitBindGroup creates the buffers and bind group for provider from a layout descriptor,
	// usually one returned by shader.Shader.BindGroupLayoutDescriptor. Failures are also
	// reported to DeviceErrors.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to populate
	//   - descriptor: the layout of the bind group
	//
	// Returns:
	//   - error: an error if any GPU object could not be created
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error

	// WriteBuffers queues buffer uploads. Uploads are ordered before any draw submitted later
	// on the same queue.
	//
	// Parameters:
	//   - writes: the buffer writes to queue
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// BeginFrame acquires the next swapchain texture and begins the frame's render pass.
	// Must be paired with EndFrame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired; the frame should be skipped
	BeginFrame() error

	// Draw draws vertexCount vertices with the pipeline registered under pipelineKey and no
	// vertex buffers.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered pipeline
	//   - vertexCount: the number of vertices to draw
	//   - bindGroups: providers whose bind groups are set at their group index
	//
	// Returns:
	//   - error: an error if no pipeline is registered under pipelineKey
	Draw(pipelineKey string, vertexCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error

	// EndFrame ends the render pass and submits the frame's command buffer to the GPU.
	// Must be called after BeginFrame and all Draw invocations within a single frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// DeviceErrors returns the holder that collects asynchronous device errors.
	//
	// Returns:
	//   - device_error.Holder: the holder shared with the backend
	DeviceErrors() device_error.Holder

	// Release frees every registered pipeline and the GPU device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer on the given window's surface and configures the surface to
// the window's current framebuffer size. Pipelines passed through WithPipeline(s) are
// registered before returning.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface the renderer presents to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: the initialized renderer
//   - error: an error if the adapter, device or a pipeline could not be created
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) (Renderer, error) {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		presentMode:   PresentModeVSync,
	}

	// Options are applied before the backend exists so forceFallbackAdapter is known
	// when the adapter is requested.
	for _, opt := range options {
		opt(r)
	}
	if r.deviceErrors == nil {
		r.deviceErrors = device_error.NewHolder()
	}

	var err error
	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend, err = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, r.deviceErrors)
	}
	if err != nil {
		r.deviceErrors.Report(err)
		return nil, err
	}

	r.backend.SetPresentMode(r.presentMode)
	r.backend.ConfigureSurface(window.Width(), window.Height())

	if err := r.RegisterPipelines(r.pendingPipelines...); err != nil {
		r.Release()
		return nil, err
	}
	r.pendingPipelines = nil
	return r, nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) SurfaceFormat() wgpu.TextureFormat {
	return r.backend.SurfaceFormat()
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return maps.Clone(r.pipelineCache)
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		if err := r.backend.RegisterRenderPipeline(p); err != nil {
			err = fmt.Errorf("register pipeline %q: %w", key, err)
			r.deviceErrors.Report(err)
			return err
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	if err := r.backend.InitBindGroup(provider, descriptor); err != nil {
		err = fmt.Errorf("init bind group %q: %w", provider.Label(), err)
		r.deviceErrors.Report(err)
		return err
	}
	return nil
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.backend.WriteBuffers(writes)
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) Draw(pipelineKey string, vertexCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}

	r.backend.Draw(p, vertexCount, bindGroups)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) DeviceErrors() device_error.Holder {
	return r.deviceErrors
}

func (r *renderer) Release() {
	r.mu.Lock()
	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mu.Unlock()
	r.backend.Release()
}
