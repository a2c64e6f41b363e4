package sdf

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"
)

// Placeholder marks the line of the fragment template where the scene's distance function
// is inserted.
const Placeholder = "[SDF_FUNCTION]"

// DefaultExpression renders an infinite grid of unit spheres repeated every 10 units.
const DefaultExpression = "fn sdf(p: vec3<f32>) -> f32 { return sphereSDF(arrayOp(p, vec3<f32>(10.0)), 1.0); }"

// ErrPlaceholder is returned when a template does not contain Placeholder exactly once.
var ErrPlaceholder = errors.New("sdf: template must contain the scene placeholder exactly once")

// TemplateSource is the raymarching fragment shader template. It defines the primitive and
// operator helpers an expression may call and expects the expression to define
//
//	fn sdf(p: vec3<f32>) -> f32
//
//go:embed assets/raymarch.wgsl
var TemplateSource string

// VertexSource is the full-screen triangle vertex shader paired with the composed fragment
// shader. It takes no vertex buffers and is drawn with three vertices.
//
//go:embed assets/fullscreen.wgsl
var VertexSource string

// Compose inserts a WGSL distance function into the embedded raymarching template.
// The expression is inserted verbatim and is not validated; see Validate.
//
// Parameters:
//   - expression: WGSL source defining fn sdf(p: vec3<f32>) -> f32
//
// Returns:
//   - string: the complete fragment shader source
//   - error: an error wrapping ErrPlaceholder if the template is malformed
func Compose(expression string) (string, error) {
	return ComposeTemplate(TemplateSource, expression)
}

// ComposeTemplate inserts expression into an arbitrary template in place of Placeholder.
//
// Parameters:
//   - template: WGSL source containing Placeholder exactly once
//   - expression: WGSL source substituted for Placeholder
//
// Returns:
//   - string: the composed source
//   - error: an error wrapping ErrPlaceholder that names the actual occurrence count
func ComposeTemplate(template, expression string) (string, error) {
	if n := strings.Count(template, Placeholder); n != 1 {
		return "", fmt.Errorf("%w: found %d occurrences of %s", ErrPlaceholder, n, Placeholder)
	}
	return strings.Replace(template, Placeholder, expression, 1), nil
}

// MustCompose is like Compose but panics if the template is malformed.
//
// Parameters:
//   - expression: WGSL source defining fn sdf(p: vec3<f32>) -> f32
//
// Returns:
//   - string: the complete fragment shader source
func MustCompose(expression string) string {
	source, err := Compose(expression)
	if err != nil {
		panic(err)
	}
	return source
}
