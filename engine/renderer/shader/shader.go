package shader

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/pre_processor"
	"github.com/cogentcore/webgpu/wgpu"
)

// ShaderType identifies which pipeline stage a shader module provides.
type ShaderType int

const (
	// ShaderTypeVertex is the vertex stage of a render pipeline.
	ShaderTypeVertex ShaderType = iota

	// ShaderTypeFragment is the fragment stage, paired with a vertex shader.
	ShaderTypeFragment
)

func (t ShaderType) String() string {
	switch t {
	case ShaderTypeVertex:
		return "vertex"
	case ShaderTypeFragment:
		return "fragment"
	default:
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
}

// visibility returns the shader stage flag applied to bindings declared by this shader type.
func (t ShaderType) visibility() wgpu.ShaderStage {
	switch t {
	case ShaderTypeVertex:
		return wgpu.ShaderStageVertex
	case ShaderTypeFragment:
		return wgpu.ShaderStageFragment
	default:
		return wgpu.ShaderStageNone
	}
}

type shader struct {
	key                        string
	source                     string
	shaderType                 ShaderType
	entryPoint                 string
	bindGroupLayoutDescriptors map[int]wgpu.BindGroupLayoutDescriptor
	bindingVarNames            map[int]map[int]string
	declarations               []pre_processor.Annotation
	module                     *wgpu.ShaderModuleDescriptor
}

// Shader is a pre-processed WGSL module together with the metadata the renderer needs to
// build a pipeline for it: the entry point of its stage and the bind group layouts it declares.
type Shader interface {
	// Key retrieves the unique identifier for this shader, used as the module label.
	//
	// Returns:
	//   - string: the shader's unique key
	Key() string

	// Source retrieves the pre-processed WGSL source code.
	//
	// Returns:
	//   - string: the WGSL source with all @oxy annotations expanded
	Source() string

	// EntryPoint returns the name of the @vertex or @fragment function matching ShaderType.
	//
	// Returns:
	//   - string: the entry point name (e.g. "fs_main")
	EntryPoint() string

	// BindGroupLayoutDescriptor retrieves the layout descriptor for a single group index.
	//
	// Parameters:
	//   - group: the @group index
	//
	// Returns:
	//   - wgpu.BindGroupLayoutDescriptor: the descriptor, or an empty descriptor if the group is not declared
	BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor

	// BindGroupLayoutDescriptors retrieves all parsed bind group layout descriptors. Buffer
	// entries carry MinBindingSize computed from the bound struct's WGSL layout.
	//
	// Returns:
	//   - map[int]wgpu.BindGroupLayoutDescriptor: descriptors keyed by group index
	BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor

	// BindGroupVarName retrieves the variable name declared at a group and binding.
	//
	// Parameters:
	//   - group: the bind group index
	//   - binding: the binding index within the group
	//
	// Returns:
	//   - string: the variable name, or an empty string if not declared
	BindGroupVarName(group, binding int) string

	// BindGroupVarNames retrieves all variable names keyed by group and binding index.
	//
	// Returns:
	//   - map[int]map[int]string: variable names keyed by group and binding index
	BindGroupVarNames() map[int]map[int]string

	// Declarations returns the @oxy group and provider annotations recorded while pre-processing.
	//
	// Returns:
	//   - []pre_processor.Annotation: the declarations in source order
	Declarations() []pre_processor.Annotation

	// Module returns the descriptor used to create the GPU shader module.
	//
	// Returns:
	//   - *wgpu.ShaderModuleDescriptor: the descriptor labelled with Key
	Module() *wgpu.ShaderModuleDescriptor

	// ShaderType returns the pipeline stage this shader provides.
	//
	// Returns:
	//   - ShaderType: ShaderTypeVertex or ShaderTypeFragment
	ShaderType() ShaderType
}

var _ Shader = &shader{}

// NewShader pre-processes WGSL source and parses its entry point and bind group layouts.
//
// Parameters:
//   - key: a unique identifier for the shader
//   - shaderType: the pipeline stage the shader provides
//   - source: raw WGSL source, optionally containing @oxy annotations
//
// Returns:
//   - Shader: the parsed shader
//   - error: an error if pre-processing fails or no entry point for shaderType exists
func NewShader(key string, shaderType ShaderType, source string) (Shader, error) {
	pp := pre_processor.NewPreProcessor()
	processed, err := pp.Process(source)
	if err != nil {
		return nil, fmt.Errorf("shader %s: failed to pre-process source: %w", key, err)
	}

	entryPoint := parseEntryPoint(processed, shaderType)
	if entryPoint == "" {
		return nil, fmt.Errorf("shader %s: no @%s entry point found", key, shaderType)
	}

	s := &shader{
		key:          key,
		source:       processed,
		shaderType:   shaderType,
		entryPoint:   entryPoint,
		declarations: pp.Declarations(),
		module: &wgpu.ShaderModuleDescriptor{
			Label: key,
			WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
				Code: processed,
			},
		},
	}
	s.bindGroupLayoutDescriptors, s.bindingVarNames = parseBindGroupLayouts(processed, shaderType.visibility())
	return s, nil
}

func (s *shader) Key() string {
	return s.key
}

func (s *shader) Source() string {
	return s.source
}

func (s *shader) EntryPoint() string {
	return s.entryPoint
}

func (s *shader) BindGroupLayoutDescriptor(group int) wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors[group]
}

func (s *shader) BindGroupLayoutDescriptors() map[int]wgpu.BindGroupLayoutDescriptor {
	return s.bindGroupLayoutDescriptors
}

func (s *shader) BindGroupVarName(group, binding int) string {
	return s.bindingVarNames[group][binding]
}

func (s *shader) BindGroupVarNames() map[int]map[int]string {
	return s.bindingVarNames
}

func (s *shader) Declarations() []pre_processor.Annotation {
	return s.declarations
}

func (s *shader) Module() *wgpu.ShaderModuleDescriptor {
	return s.module
}

func (s *shader) ShaderType() ShaderType {
	return s.shaderType
}
