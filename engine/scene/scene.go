package scene

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-sdf/common"
	"github.com/Carmen-Shannon/oxy-sdf/engine/camera"
	"github.com/Carmen-Shannon/oxy-sdf/engine/input"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/pre_processor"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sdf/engine/sdf"
)

const (
	// PipelineKey is the key the raymarching pipeline is registered under.
	PipelineKey = "sdf"

	// VertexShaderKey and FragmentShaderKey label the two shader modules.
	VertexShaderKey   = "fullscreen"
	FragmentShaderKey = "sdf_raymarch"

	// fullScreenVertexCount is the vertex count of the full-screen triangle.
	fullScreenVertexCount = 3
)

// Scene couples the camera with the raymarching pipeline. It owns the camera uniform buffer
// and issues the single full-screen draw each frame.
type Scene interface {
	// Camera returns the scene's camera.
	Camera() camera.Camera

	// Renderer returns the renderer the scene draws with.
	Renderer() renderer.Renderer

	// Pipeline returns the registered raymarching pipeline.
	Pipeline() pipeline.Pipeline

	// FragmentSource returns the composed and pre-processed fragment shader source.
	//
	// Returns:
	//   - string: the WGSL handed to the GPU
	FragmentSource() string

	// Aspect returns the viewport aspect ratio used for the projection.
	Aspect() float32

	// SetAspect sets the viewport aspect ratio, typically after a resize.
	// Non-positive values are ignored.
	//
	// Parameters:
	//   - aspect: width / height
	SetAspect(aspect float32)

	// Update advances the camera by one frame of input.
	//
	// Parameters:
	//   - in: the input snapshot for this frame
	//   - deltaTime: elapsed seconds since the previous frame
	Update(in input.Input, deltaTime float32)

	// Draw uploads the camera uniform payload for the current aspect and draws the
	// full-screen triangle. Must be called between Renderer.BeginFrame and Renderer.EndFrame.
	//
	// Returns:
	//   - error: an error if the pipeline is not registered
	Draw() error

	// Release frees the camera uniform buffer and bind group.
	Release()
}

type scene struct {
	mu *sync.Mutex

	cam camera.Camera
	r   renderer.Renderer

	expression        string
	validate          bool
	validationWorkers int
	aspect            float32
	pipelineOpts      []pipeline.PipelineBuilderOption

	vertexShader   shader.Shader
	fragmentShader shader.Shader
	pipeline       pipeline.Pipeline

	cameraProvider bind_group_provider.BindGroupProvider
	cameraBinding  int

	// writes is reused every frame.
	writes []bind_group_provider.BufferWrite
}

var _ Scene = &scene{}

// NewScene composes the raymarching shader from the configured scene expression, builds the
// full-screen pipeline and the camera uniform bind group, and checks the renderer's
// device-error holder before returning. Any setup failure aborts construction.
//
// Parameters:
//   - r: the renderer to register the pipeline with (must not be nil)
//   - cam: the camera that drives the view (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the ready-to-draw scene
//   - error: a composition, compilation, pipeline or device error
func NewScene(r renderer.Renderer, cam camera.Camera, options ...SceneBuilderOption) (Scene, error) {
	if r == nil {
		return nil, errors.New("scene: NewScene requires a non-nil Renderer")
	}
	if cam == nil {
		return nil, errors.New("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:                &sync.Mutex{},
		cam:               cam,
		r:                 r,
		expression:        sdf.DefaultExpression,
		validate:          true,
		validationWorkers: max(runtime.NumCPU()-1, 1),
		aspect:            1,
	}
	for _, option := range options {
		option(s)
	}

	fragmentSource, err := sdf.Compose(s.expression)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	s.vertexShader, err = shader.NewShader(VertexShaderKey, shader.ShaderTypeVertex, sdf.VertexSource)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	s.fragmentShader, err = shader.NewShader(FragmentShaderKey, shader.ShaderTypeFragment, fragmentSource)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	if s.validate {
		if err := validateShaders(s.validationWorkers, s.vertexShader, s.fragmentShader); err != nil {
			return nil, fmt.Errorf("scene: %w", err)
		}
	}

	opts := append([]pipeline.PipelineBuilderOption{
		pipeline.WithVertexShader(s.vertexShader),
		pipeline.WithFragmentShader(s.fragmentShader),
	}, s.pipelineOpts...)
	s.pipeline = pipeline.NewPipeline(PipelineKey, opts...)
	if err := r.RegisterPipelines(s.pipeline); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}

	group, binding, ok := findDeclaration(s.fragmentShader.Declarations(), pre_processor.AnnotationArgCamera)
	if !ok {
		return nil, fmt.Errorf("scene: shader %s declares no %s binding", FragmentShaderKey, pre_processor.AnnotationArgCamera)
	}
	s.cameraBinding = binding
	s.cameraProvider = bind_group_provider.NewBindGroupProvider("Camera", bind_group_provider.WithGroup(group))
	if err := r.InitBindGroup(s.cameraProvider, s.fragmentShader.BindGroupLayoutDescriptor(group)); err != nil {
		s.cameraProvider.Release()
		return nil, fmt.Errorf("scene: %w", err)
	}

	if err := r.DeviceErrors().Poll(); err != nil {
		s.cameraProvider.Release()
		return nil, fmt.Errorf("scene: device reported an error during setup: %w", err)
	}

	s.writes = []bind_group_provider.BufferWrite{{Provider: s.cameraProvider, Binding: s.cameraBinding}}
	common.Logger().Info("scene ready",
		"pipeline", PipelineKey,
		"camera_group", group,
		"camera_binding", binding,
		"validated", s.validate,
	)
	return s, nil
}

// validateShaders compiles every shader to SPIR-V concurrently on a worker pool. Compiler
// limitations are logged and skipped; real diagnostics are joined into the returned error.
func validateShaders(workers int, shaders ...shader.Shader) error {
	pool := worker.NewDynamicWorkerPool(workers, len(shaders), time.Second)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)
	for i, shdr := range shaders {
		wg.Add(1)
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				err := sdf.Validate(shdr.Source())
				switch {
				case err == nil:
					common.Logger().Debug("shader validated", "shader", shdr.Key())
				case errors.Is(err, sdf.ErrUnsupported):
					common.Logger().Warn("shader validation skipped", "shader", shdr.Key(), "reason", err)
				default:
					mu.Lock()
					errs = append(errs, fmt.Errorf("shader %s: %w", shdr.Key(), err))
					mu.Unlock()
				}
				return nil, nil
			},
		})
	}
	wg.Wait()
	return errors.Join(errs...)
}

// findDeclaration returns the group and binding of the first group or provider annotation
// bound to identity.
func findDeclaration(decls []pre_processor.Annotation, identity pre_processor.AnnotationArg) (group, binding int, ok bool) {
	for _, decl := range decls {
		if decl.Group == nil || decl.Binding == nil {
			continue
		}
		var key pre_processor.AnnotationArg
		switch decl.Type {
		case pre_processor.AnnotationTypeBindingGroup:
			typeArg := string(decl.Args[2])
			if stripped, found := strings.CutPrefix(typeArg, "array<"); found {
				typeArg = strings.TrimSuffix(stripped, ">")
			}
			key = pre_processor.AnnotationArg(typeArg)
		case pre_processor.AnnotationTypeProvider:
			key = decl.Args[0]
		default:
			continue
		}
		if key == identity {
			return *decl.Group, *decl.Binding, true
		}
	}
	return 0, 0, false
}

func (s *scene) Camera() camera.Camera {
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	return s.r
}

func (s *scene) Pipeline() pipeline.Pipeline {
	return s.pipeline
}

func (s *scene) FragmentSource() string {
	return s.fragmentShader.Source()
}

func (s *scene) Aspect() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.aspect
}

func (s *scene) SetAspect(aspect float32) {
	if aspect <= 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.aspect = aspect
}

func (s *scene) Update(in input.Input, deltaTime float32) {
	s.cam.Update(in, deltaTime)
}

func (s *scene) Draw() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload := s.cam.UniformPayload(s.aspect)
	s.writes[0].Data = payload.Marshal()
	s.r.WriteBuffers(s.writes)

	return s.r.Draw(PipelineKey, fullScreenVertexCount, []bind_group_provider.BindGroupProvider{s.cameraProvider})
}

func (s *scene) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cameraProvider != nil {
		s.cameraProvider.Release()
	}
}
