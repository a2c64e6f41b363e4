package renderer

import (
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/device_error"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/pipeline"
)

// RendererBuilderOption is a functional option for configuring a Renderer.
type RendererBuilderOption func(*renderer)

// WithPipeline queues a pipeline for registration during NewRenderer.
//
// Parameters:
//   - p: the pipeline to register
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline option to a renderer
func WithPipeline(p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPipelines = append(r.pendingPipelines, p)
	}
}

// WithPipelines queues several pipelines for registration during NewRenderer.
//
// Parameters:
//   - pipelines: the pipelines to register
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipelines option to a renderer
func WithPipelines(pipelines ...pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPipelines = append(r.pendingPipelines, pipelines...)
	}
}

// WithPresentMode sets the surface present mode used when the surface is first configured.
//
// Parameters:
//   - mode: the PresentMode (PresentModeVSync or PresentModeUncapped)
//
// Returns:
//   - RendererBuilderOption: a function that applies the present mode option to a renderer
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.presentMode = mode
	}
}

// WithForceSoftwareRenderer requests the fallback (software) adapter instead of a hardware GPU.
//
// Parameters:
//   - force: true to request the fallback adapter
//
// Returns:
//   - RendererBuilderOption: a function that applies the fallback adapter option to a renderer
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithDeviceErrorHolder shares an existing holder with the renderer instead of creating one.
//
// Parameters:
//   - h: the holder that receives device errors
//
// Returns:
//   - RendererBuilderOption: a function that applies the holder option to a renderer
func WithDeviceErrorHolder(h device_error.Holder) RendererBuilderOption {
	return func(r *renderer) {
		r.deviceErrors = h
	}
}
