package sdf

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-sdf/engine/renderer/pre_processor"
)

func preprocess(t *testing.T, source string) string {
	t.Helper()
	out, err := pre_processor.NewPreProcessor().Process(source)
	if err != nil {
		t.Fatalf("Process() error = %v", err)
	}
	return out
}

func TestValidateComposedShader(t *testing.T) {
	tests := []struct {
		name       string
		expression string
	}{
		{"default scene", DefaultExpression},
		{"smooth union", "fn sdf(p: vec3<f32>) -> f32 { return smoothUnionOp(sphereSDF(p, 1.0), torusSDF(p, 2.0, 0.3), 0.4); }"},
		{"carved box", "fn sdf(p: vec3<f32>) -> f32 { return subtractOp(boxSDF(p, vec3<f32>(1.0)), sphereSDF(p, 1.3)); }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(preprocess(t, MustCompose(tt.expression)))
			if errors.Is(err, ErrUnsupported) {
				t.Skipf("Skipping: compiler feature not yet implemented: %v", err)
			}
			if err != nil {
				t.Fatalf("Validate() error = %v", err)
			}
		})
	}
}

func TestValidateVertexShader(t *testing.T) {
	err := Validate(VertexSource)
	if errors.Is(err, ErrUnsupported) {
		t.Skipf("Skipping: compiler feature not yet implemented: %v", err)
	}
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
}

func TestValidateRejectsMalformedExpression(t *testing.T) {
	tests := []struct {
		name       string
		expression string
	}{
		{"unknown function", "fn sdf(p: vec3<f32>) -> f32 { return nope(p); }"},
		{"missing semicolon", "fn sdf(p: vec3<f32>) -> f32 { return length(p) - 1.0 }"},
		{"missing sdf", "fn other(p: vec3<f32>) -> f32 { return 0.0; }"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(preprocess(t, MustCompose(tt.expression))); err == nil {
				t.Fatalf("Validate() accepted %q", tt.expression)
			}
		})
	}
}

func TestCompileSPIRVHeader(t *testing.T) {
	spirv, err := Compile(VertexSource)
	if errors.Is(err, ErrUnsupported) {
		t.Skipf("Skipping: compiler feature not yet implemented: %v", err)
	}
	if err != nil {
		t.Fatalf("Compile() error = %v", err)
	}
	if len(spirv)%4 != 0 {
		t.Errorf("SPIR-V length %d is not a multiple of 4", len(spirv))
	}
	magic := uint32(spirv[0]) | uint32(spirv[1])<<8 | uint32(spirv[2])<<16 | uint32(spirv[3])<<24
	if magic != spirvMagic {
		t.Errorf("invalid SPIR-V magic: 0x%08X, want 0x%08X", magic, spirvMagic)
	}
}
