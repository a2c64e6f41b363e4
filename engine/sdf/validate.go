package sdf

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/gogpu/naga"
)

// spirvMagic is the first word of every SPIR-V module.
const spirvMagic = 0x07230203

// ErrUnsupported marks a compile failure caused by a WGSL feature the CPU compiler has not
// implemented yet, as opposed to a defect in the shader.
var ErrUnsupported = errors.New("sdf: shader feature not supported by the offline compiler")

var unsupportedMarkers = []string{"not yet implemented", "not supported", "unsupported"}

// Compile translates fully pre-processed WGSL into SPIR-V on the CPU.
//
// Parameters:
//   - source: WGSL source with no remaining @oxy annotations
//
// Returns:
//   - []byte: the SPIR-V module
//   - error: the compiler diagnostic, additionally wrapping ErrUnsupported for compiler limitations
func Compile(source string) ([]byte, error) {
	spirv, err := naga.Compile(source)
	if err != nil {
		msg := err.Error()
		for _, marker := range unsupportedMarkers {
			if strings.Contains(msg, marker) {
				return nil, fmt.Errorf("failed to compile shader: %w: %w", ErrUnsupported, err)
			}
		}
		return nil, fmt.Errorf("failed to compile shader: %w", err)
	}
	return spirv, nil
}

// Validate compiles source and checks that the result is a well-formed SPIR-V header.
// It is used at startup so a malformed scene expression fails with a readable diagnostic
// before the GPU device sees the shader.
// It catches syntax errors and unresolved identifiers, not every semantic error: the
// offline compiler accepts some sources the device rejects, e.g. a bare "return ;" in a
// function returning f32. The device rejects those when the pipeline is created.
//
// Parameters:
//   - source: WGSL source with no remaining @oxy annotations
//
// Returns:
//   - error: nil if the shader compiled
func Validate(source string) error {
	spirv, err := Compile(source)
	if err != nil {
		return err
	}
	if len(spirv) < 20 {
		return fmt.Errorf("failed to compile shader: SPIR-V output too short (%d bytes)", len(spirv))
	}
	if magic := binary.LittleEndian.Uint32(spirv); magic != spirvMagic {
		return fmt.Errorf("failed to compile shader: invalid SPIR-V magic 0x%08X", magic)
	}
	return nil
}
