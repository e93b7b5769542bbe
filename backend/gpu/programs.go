package gpu

import (
	_ "embed"
	"fmt"

	"github.com/gogpu/naga"
)

//go:embed shaders/quad.wgsl
var quadShaderWGSL string

//go:embed shaders/glyph.wgsl
var glyphShaderWGSL string

// program is a compiled shader pair ready for pipeline creation.
// Compiling to SPIR-V when the program is built lets callers surface
// ErrShaderCompileFailed immediately at backend construction instead of
// at first draw.
type program struct {
	name  string
	spirv []byte
}

func compileProgram(name, wgsl string) (*program, error) {
	spirv, err := naga.Compile(wgsl)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrShaderCompileFailed, name, err)
	}
	return &program{name: name, spirv: spirv}, nil
}

// programSet is the fixed pair of programs the draw pass needs: one for
// flat-colored quads (backgrounds and decorations), one for glyph
// sampling. There is no overlay program; the cursor overlay is not drawn
// by the GPU backend (see Draw).
type programSet struct {
	quad  *program
	glyph *program
}

func newProgramSet() (*programSet, error) {
	quad, err := compileProgram("quad", quadShaderWGSL)
	if err != nil {
		return nil, err
	}
	glyph, err := compileProgram("glyph", glyphShaderWGSL)
	if err != nil {
		return nil, err
	}
	return &programSet{quad: quad, glyph: glyph}, nil
}
