package scene

import (
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/pipeline"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithExpression sets the WGSL that replaces the scene placeholder. It must define
// `fn sdf(p: vec3<f32>) -> f32`. An empty expression keeps sdf.DefaultExpression.
//
// Parameters:
//   - expression: the WGSL scene function
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithExpression(expression string) SceneBuilderOption {
	return func(s *scene) {
		if expression != "" {
			s.expression = expression
		}
	}
}

// WithValidation enables or disables the offline SPIR-V compile of both shaders before
// the pipeline is created. Enabled by default.
//
// Parameters:
//   - validate: true to compile the shaders with naga first
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithValidation(validate bool) SceneBuilderOption {
	return func(s *scene) {
		s.validate = validate
	}
}

// WithValidationWorkers sets the number of worker goroutines used to validate shaders.
// Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithValidationWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		s.validationWorkers = max(n, 1)
	}
}

// WithAspect sets the initial viewport aspect ratio. Non-positive values are ignored.
//
// Parameters:
//   - aspect: width / height
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithAspect(aspect float32) SceneBuilderOption {
	return func(s *scene) {
		if aspect > 0 {
			s.aspect = aspect
		}
	}
}

// WithPipelineOptions appends options applied to the raymarching pipeline after its shaders.
//
// Parameters:
//   - opts: pipeline options such as pipeline.WithWriteMask
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPipelineOptions(opts ...pipeline.PipelineBuilderOption) SceneBuilderOption {
	return func(s *scene) {
		s.pipelineOpts = append(s.pipelineOpts, opts...)
	}
}
