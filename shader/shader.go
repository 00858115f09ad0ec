// Package shader holds the WGSL form of the rectangle and glyph pipeline for
// WebGPU and Vulkan hosts. The OpenGL backend carries an equivalent GLSL
// program.
//
// Bindings (group 0): 0 instance storage buffer, 1 image sampler, 2 image
// texture array, 3 atlas sampler, 4 atlas texture. The vertex stage reads a
// unit quad corner at location 0.
package shader

import (
	_ "embed"
	"encoding/binary"
	"fmt"

	"github.com/gogpu/naga"
)

// WGSL is the pipeline source.
//
//go:embed rect.wgsl
var WGSL string

// Entry points of WGSL.
const (
	VertexEntry   = "vs_main"
	FragmentEntry = "fs_main"
)

// SPIRVMagic is the first word of every SPIR-V module.
const SPIRVMagic = 0x07230203

// SPIRV compiles WGSL to SPIR-V words.
func SPIRV() ([]uint32, error) {
	b, err := naga.Compile(WGSL)
	if err != nil {
		return nil, fmt.Errorf("compile rect.wgsl: %w", err)
	}
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("compile rect.wgsl: output length %d is not a multiple of 4", len(b))
	}
	words := make([]uint32, len(b)/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	if len(words) == 0 || words[0] != SPIRVMagic {
		return nil, fmt.Errorf("compile rect.wgsl: missing SPIR-V header")
	}
	return words, nil
}
