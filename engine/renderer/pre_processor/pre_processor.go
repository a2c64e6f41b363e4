// pre_processor.go scans shader source for @oxy: annotations, replaces them with injected
// struct sources or generated binding declarations, and collects the declarations the Scene
// uses to size and bind uniform buffers.
package pre_processor

import (
	"fmt"
	"slices"
	"strings"

	"github.com/Carmen-Shannon/oxy-sdf/engine/camera"
)

// registryEntry pairs an embedded WGSL struct source with the type name used in generated
// @group/@binding declarations.
type registryEntry struct {
	// Source is the raw WGSL struct definition text injected by @oxy:include.
	Source string

	// Type is the WGSL type name emitted in @oxy:group declarations (e.g. "CameraUniform").
	Type string
}

type preProcessor struct {
	structRegistry       map[AnnotationArg]registryEntry
	addressSpaceRegistry map[AnnotationArg]string

	// declarations is reset at the start of each Process call.
	declarations []Annotation
}

// PreProcessor rewrites raw WGSL containing @oxy: annotations into plain WGSL and records
// the binding declarations it encountered.
type PreProcessor interface {
	// Process replaces @oxy:include annotations with the registered struct source and
	// @oxy:group annotations with generated @group/@binding declarations. @oxy:provider
	// annotations are removed and only recorded. Lines without annotations pass through
	// untouched.
	//
	// Parameters:
	//   - source: the raw WGSL shader source code
	//
	// Returns:
	//   - string: the processed WGSL
	//   - error: an error naming the line if any annotation is malformed
	Process(source string) (string, error)

	// Declarations returns the group and provider annotations collected during the most
	// recent call to Process, in source order. Returns nil if Process has not been called.
	//
	// Returns:
	//   - []Annotation: a copy of the collected declarations
	Declarations() []Annotation
}

var _ PreProcessor = &preProcessor{}

// NewPreProcessor creates a PreProcessor with the camera uniform registered.
//
// Returns:
//   - PreProcessor: a ready-to-use pre-processor instance
func NewPreProcessor() PreProcessor {
	return &preProcessor{
		structRegistry: map[AnnotationArg]registryEntry{
			AnnotationArgCamera: {Source: camera.GPUCameraUniformSource, Type: "CameraUniform"},
		},
		addressSpaceRegistry: map[AnnotationArg]string{
			annotationArgStorageTypeUniform:   "var<uniform>",
			annotationArgStorageTypeRead:      "var<storage, read>",
			annotationArgStorageTypeReadWrite: "var<storage, read_write>",
		},
	}
}

func (p *preProcessor) Process(source string) (string, error) {
	p.declarations = nil

	lines := strings.Split(source, "\n")
	out := make([]string, 0, len(lines))
	var declarations []Annotation

	for i, line := range lines {
		a, err := parseAnnotation(line, i+1)
		if err != nil {
			return "", err
		}
		if a == nil {
			out = append(out, line)
			continue
		}

		switch a.Type {
		case AnnotationTypeInclude:
			entry, ok := p.structRegistry[a.Args[0]]
			if !ok {
				return "", fmt.Errorf("line %d: unregistered @oxy:include argument %q", a.Line, a.Args[0])
			}
			out = append(out, strings.TrimRight(entry.Source, "\n"))
		case AnnotationTypeBindingGroup:
			addrSpace := p.addressSpaceRegistry[a.Args[0]]
			varName := string(a.Args[1])
			wgslType := p.structRegistry[a.Args[2]].Type
			if inner, ok := strings.CutPrefix(string(a.Args[2]), "array<"); ok {
				wgslType = fmt.Sprintf("array<%s>", p.structRegistry[AnnotationArg(strings.TrimSuffix(inner, ">"))].Type)
			}
			out = append(out, fmt.Sprintf("@group(%d) @binding(%d) %s %s: %s;", *a.Group, *a.Binding, addrSpace, varName, wgslType))
			declarations = append(declarations, *a)
		case AnnotationTypeProvider:
			declarations = append(declarations, *a)
		}
	}
	p.declarations = declarations
	return strings.Join(out, "\n"), nil
}

func (p *preProcessor) Declarations() []Annotation {
	return slices.Clone(p.declarations)
}
