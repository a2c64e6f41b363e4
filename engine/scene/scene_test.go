package scene

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-sdf/engine/camera"
	"github.com/Carmen-Shannon/oxy-sdf/engine/input"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/device_error"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/pre_processor"
	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-sdf/engine/sdf"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

type drawCall struct {
	key         string
	vertexCount uint32
	bindGroups  []bind_group_provider.BindGroupProvider
}

// fakeRenderer records calls instead of talking to a GPU.
type fakeRenderer struct {
	pipelines   map[string]pipeline.Pipeline
	registerErr error
	initErr     error
	holder      device_error.Holder

	bindGroupProviders []bind_group_provider.BindGroupProvider
	bindGroupLayouts   []wgpu.BindGroupLayoutDescriptor
	writes             [][]bind_group_provider.BufferWrite
	draws              []drawCall
}

var _ renderer.Renderer = &fakeRenderer{}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{
		pipelines: make(map[string]pipeline.Pipeline),
		holder:    device_error.NewHolder(),
	}
}

func (f *fakeRenderer) Pipeline(key string) pipeline.Pipeline { return f.pipelines[key] }

func (f *fakeRenderer) Pipelines() map[string]pipeline.Pipeline { return f.pipelines }

func (f *fakeRenderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	if f.registerErr != nil {
		return f.registerErr
	}
	for _, p := range pipelines {
		f.pipelines[p.PipelineKey()] = p
	}
	return nil
}

func (f *fakeRenderer) Resize(width, height int) {}

func (f *fakeRenderer) SetPresentMode(mode renderer.PresentMode) {}

func (f *fakeRenderer) SurfaceFormat() wgpu.TextureFormat { return wgpu.TextureFormatBGRA8Unorm }

func (f *fakeRenderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor) error {
	f.bindGroupProviders = append(f.bindGroupProviders, provider)
	f.bindGroupLayouts = append(f.bindGroupLayouts, descriptor)
	if f.initErr != nil {
		// The real backend may fail after the buffers exist.
		for _, entry := range descriptor.Entries {
			provider.SetBuffer(int(entry.Binding), nil)
		}
		return f.initErr
	}
	return nil
}

func (f *fakeRenderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	copied := make([]bind_group_provider.BufferWrite, len(writes))
	for i, w := range writes {
		w.Data = bytes.Clone(w.Data)
		copied[i] = w
	}
	f.writes = append(f.writes, copied)
}

func (f *fakeRenderer) BeginFrame() error { return nil }

func (f *fakeRenderer) Draw(key string, vertexCount uint32, bindGroups []bind_group_provider.BindGroupProvider) error {
	f.draws = append(f.draws, drawCall{key, vertexCount, bindGroups})
	return nil
}

func (f *fakeRenderer) EndFrame() {}

func (f *fakeRenderer) Present() {}

func (f *fakeRenderer) DeviceErrors() device_error.Holder { return f.holder }

func (f *fakeRenderer) Release() {}

type heldInput map[input.Action]bool

func (h heldInput) Held(a input.Action) bool         { return h[a] }
func (h heldInput) PointerDelta() (float32, float32) { return 0, 0 }

func TestNewSceneRequiresCollaborators(t *testing.T) {
	if _, err := NewScene(nil, camera.NewCamera()); err == nil {
		t.Error("NewScene with nil renderer returned nil error")
	}
	if _, err := NewScene(newFakeRenderer(), nil); err == nil {
		t.Error("NewScene with nil camera returned nil error")
	}
}

func TestNewSceneWiresPipelineAndCamera(t *testing.T) {
	r := newFakeRenderer()
	s, err := NewScene(r, camera.NewCamera(), WithValidation(false))
	if err != nil {
		t.Fatalf("NewScene() error = %v", err)
	}

	p := r.Pipeline(PipelineKey)
	if p == nil {
		t.Fatalf("pipeline %q was not registered", PipelineKey)
	}
	if p != s.Pipeline() {
		t.Error("Scene.Pipeline() is not the registered pipeline")
	}
	if vs := p.Shader(shader.ShaderTypeVertex); vs == nil || vs.EntryPoint() != "vs_main" {
		t.Errorf("vertex shader = %v", vs)
	}
	if fs := p.Shader(shader.ShaderTypeFragment); fs == nil || fs.EntryPoint() != "fs_main" {
		t.Errorf("fragment shader = %v", fs)
	}
	if p.CullMode() != wgpu.CullModeNone || p.Topology() != wgpu.PrimitiveTopologyTriangleList || p.SampleCount() != 1 {
		t.Errorf("pipeline state = cull %v topology %v samples %d", p.CullMode(), p.Topology(), p.SampleCount())
	}

	if len(r.bindGroupLayouts) != 1 {
		t.Fatalf("InitBindGroup called %d times, want 1", len(r.bindGroupLayouts))
	}
	entries := r.bindGroupLayouts[0].Entries
	if len(entries) != 1 {
		t.Fatalf("camera layout has %d entries, want 1", len(entries))
	}
	if entries[0].Binding != 0 || entries[0].Buffer.Type != wgpu.BufferBindingTypeUniform {
		t.Errorf("camera entry = binding %d type %v", entries[0].Binding, entries[0].Buffer.Type)
	}
	if entries[0].Buffer.MinBindingSize != 64 {
		t.Errorf("camera MinBindingSize = %d, want 64", entries[0].Buffer.MinBindingSize)
	}
	if g := r.bindGroupProviders[0].Group(); g != 0 {
		t.Errorf("camera provider group = %d, want 0", g)
	}

	src := s.FragmentSource()
	if strings.Contains(src, sdf.Placeholder) {
		t.Error("fragment source still contains the placeholder")
	}
	if !strings.Contains(src, "struct CameraUniform") {
		t.Error("fragment source is missing the included CameraUniform struct")
	}
	if !strings.Contains(src, "@group(0) @binding(0) var<uniform> camera: CameraUniform;") {
		t.Error("fragment source is missing the generated camera binding")
	}
}

func TestNewSceneUsesExpression(t *testing.T) {
	expr := "fn sdf(p: vec3<f32>) -> f32 { return torusSDF(p, vec2<f32>(2.0, 0.5)); }"
	s, err := NewScene(newFakeRenderer(), camera.NewCamera(), WithValidation(false), WithExpression(expr))
	if err != nil {
		t.Fatalf("NewScene() error = %v", err)
	}
	if !strings.Contains(s.FragmentSource(), expr) {
		t.Error("fragment source does not contain the configured expression")
	}

	s, err = NewScene(newFakeRenderer(), camera.NewCamera(), WithValidation(false), WithExpression(""))
	if err != nil {
		t.Fatalf("NewScene() error = %v", err)
	}
	if !strings.Contains(s.FragmentSource(), sdf.DefaultExpression) {
		t.Error("empty expression did not fall back to the default")
	}
}

func TestNewSceneSetupErrors(t *testing.T) {
	t.Run("pipeline registration", func(t *testing.T) {
		r := newFakeRenderer()
		r.registerErr = errors.New("boom")
		if _, err := NewScene(r, camera.NewCamera(), WithValidation(false)); err == nil {
			t.Fatal("NewScene returned nil error")
		}
	})

	t.Run("bind group init releases the provider", func(t *testing.T) {
		r := newFakeRenderer()
		r.initErr = errors.New("create buffer failed")
		_, err := NewScene(r, camera.NewCamera(), WithValidation(false))
		if !errors.Is(err, r.initErr) {
			t.Fatalf("NewScene error = %v, want wrapping %v", err, r.initErr)
		}
		if len(r.bindGroupProviders) != 1 {
			t.Fatalf("InitBindGroup called %d times, want 1", len(r.bindGroupProviders))
		}
		if n := len(r.bindGroupProviders[0].Buffers()); n != 0 {
			t.Errorf("camera provider still holds %d buffers after a failed setup", n)
		}
	})

	t.Run("pending device error", func(t *testing.T) {
		r := newFakeRenderer()
		deviceErr := errors.New("validation error in shader module")
		r.holder.Report(deviceErr)
		_, err := NewScene(r, camera.NewCamera(), WithValidation(false))
		if !errors.Is(err, deviceErr) {
			t.Fatalf("NewScene error = %v, want wrapping %v", err, deviceErr)
		}
	})
}

func TestDrawUploadsPayloadThenDraws(t *testing.T) {
	r := newFakeRenderer()
	cam := camera.NewCamera(camera.WithPosition(1, 0, 1))
	s, err := NewScene(r, cam, WithValidation(false), WithAspect(16.0/9.0))
	if err != nil {
		t.Fatalf("NewScene() error = %v", err)
	}

	if err := s.Draw(); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	if len(r.writes) != 1 || len(r.writes[0]) != 1 {
		t.Fatalf("writes = %v, want one batch of one write", r.writes)
	}
	w := r.writes[0][0]
	payload := cam.UniformPayload(16.0 / 9.0)
	if !bytes.Equal(w.Data, payload.Marshal()) {
		t.Error("uploaded bytes differ from the camera payload")
	}
	if len(w.Data) != 64 || w.Binding != 0 || w.Offset != 0 {
		t.Errorf("write = %d bytes at binding %d offset %d", len(w.Data), w.Binding, w.Offset)
	}

	if len(r.draws) != 1 {
		t.Fatalf("draws = %d, want 1", len(r.draws))
	}
	d := r.draws[0]
	if d.key != PipelineKey || d.vertexCount != 3 {
		t.Errorf("draw = %q x%d, want %q x3", d.key, d.vertexCount, PipelineKey)
	}
	if len(d.bindGroups) != 1 || d.bindGroups[0] != w.Provider {
		t.Error("draw does not bind the camera provider that was written")
	}
}

func TestSetAspect(t *testing.T) {
	r := newFakeRenderer()
	cam := camera.NewCamera()
	s, err := NewScene(r, cam, WithValidation(false))
	if err != nil {
		t.Fatalf("NewScene() error = %v", err)
	}
	if s.Aspect() != 1 {
		t.Errorf("default aspect = %v, want 1", s.Aspect())
	}

	s.SetAspect(2)
	s.SetAspect(0)
	s.SetAspect(-1)
	if s.Aspect() != 2 {
		t.Errorf("aspect = %v, want 2", s.Aspect())
	}

	if err := s.Draw(); err != nil {
		t.Fatalf("Draw() error = %v", err)
	}
	payload := cam.UniformPayload(2)
	if !bytes.Equal(r.writes[0][0].Data, payload.Marshal()) {
		t.Error("Draw did not use the updated aspect")
	}
}

func TestUpdateMovesCamera(t *testing.T) {
	cam := camera.NewCamera(camera.WithTranslationSpeed(2))
	s, err := NewScene(newFakeRenderer(), cam, WithValidation(false))
	if err != nil {
		t.Fatalf("NewScene() error = %v", err)
	}
	s.Update(heldInput{input.ActionForward: true}, 0.5)
	if got, want := cam.Position(), (mgl32.Vec3{0, 0, 1}); !got.ApproxEqual(want) {
		t.Errorf("position = %v, want %v", got, want)
	}
}

func TestValidationRejectsMalformedExpression(t *testing.T) {
	composed, err := sdf.Compose(sdf.DefaultExpression)
	if err != nil {
		t.Fatal(err)
	}
	fs, err := shader.NewShader(FragmentShaderKey, shader.ShaderTypeFragment, composed)
	if err != nil {
		t.Fatal(err)
	}
	if err := sdf.Validate(fs.Source()); errors.Is(err, sdf.ErrUnsupported) {
		t.Skipf("offline compiler cannot handle the template: %v", err)
	} else if err != nil {
		t.Fatalf("default scene failed validation: %v", err)
	}

	if _, err := NewScene(newFakeRenderer(), camera.NewCamera(), WithValidationWorkers(2)); err != nil {
		t.Fatalf("NewScene with validation error = %v", err)
	}

	r := newFakeRenderer()
	_, err = NewScene(r, camera.NewCamera(), WithExpression("fn sdf(p: vec3<f32>) -> f32 { return nope(p) }"))
	if err == nil {
		t.Fatal("malformed expression passed validation")
	}
	if !strings.Contains(err.Error(), FragmentShaderKey) {
		t.Errorf("error %q does not name the failing shader", err)
	}
	if len(r.pipelines) != 0 {
		t.Error("pipeline registered despite failed validation")
	}
}

func TestFindDeclaration(t *testing.T) {
	intp := func(v int) *int { return &v }
	decls := []pre_processor.Annotation{
		{Type: pre_processor.AnnotationTypeInclude, Args: []pre_processor.AnnotationArg{"camera"}},
		{Type: pre_processor.AnnotationTypeBindingGroup, Args: []pre_processor.AnnotationArg{"storage_read", "things", "array<other>"}, Group: intp(1), Binding: intp(0)},
		{Type: pre_processor.AnnotationTypeProvider, Args: []pre_processor.AnnotationArg{"camera"}, Group: intp(2), Binding: intp(3)},
	}

	group, binding, ok := findDeclaration(decls, pre_processor.AnnotationArgCamera)
	if !ok || group != 2 || binding != 3 {
		t.Errorf("findDeclaration(camera) = %d, %d, %v; want 2, 3, true", group, binding, ok)
	}
	group, binding, ok = findDeclaration(decls, "other")
	if !ok || group != 1 || binding != 0 {
		t.Errorf("findDeclaration(other) = %d, %d, %v; want 1, 0, true", group, binding, ok)
	}
	if _, _, ok := findDeclaration(decls, "missing"); ok {
		t.Error("findDeclaration(missing) reported a match")
	}
}
