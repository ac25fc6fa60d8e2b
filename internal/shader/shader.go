// Package shader loads the compiled SPIR-V stages the pipeline is built from.
package shader

//go:generate glslc ../../shaders/triangle.vert -o ../../shaders/vert.spv
//go:generate glslc ../../shaders/triangle.frag -o ../../shaders/frag.spv

import (
	"encoding/binary"
	"io/fs"

	"github.com/cockroachdb/errors"
)

const (
	VertexFile   = "vert.spv"
	FragmentFile = "frag.spv"
)

// magic is the first word of every SPIR-V module.
const magic = 0x07230203

var ErrInvalidShader = errors.New("invalid SPIR-V module")

// Stages is the bytecode for the triangle pipeline.
type Stages struct {
	Vertex   []uint32
	Fragment []uint32
}

// LoadStages reads both stages from fsys.
func LoadStages(fsys fs.FS) (Stages, error) {
	vert, err := Load(fsys, VertexFile)
	if err != nil {
		return Stages{}, err
	}
	frag, err := Load(fsys, FragmentFile)
	if err != nil {
		return Stages{}, err
	}
	return Stages{Vertex: vert, Fragment: frag}, nil
}

func Load(fsys fs.FS, name string) ([]uint32, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "load shader %s", name)
	}
	code, err := Bytecode(b)
	if err != nil {
		return nil, errors.Wrapf(err, "load shader %s", name)
	}
	return code, nil
}

// Bytecode converts a little-endian SPIR-V binary to words.
func Bytecode(b []byte) ([]uint32, error) {
	if len(b) < 4*5 {
		return nil, errors.Wrapf(ErrInvalidShader, "%d bytes is shorter than the header", len(b))
	}
	if len(b)%4 != 0 {
		return nil, errors.Wrapf(ErrInvalidShader, "length %d is not a multiple of 4", len(b))
	}

	code := make([]uint32, len(b)/4)
	for i := range code {
		code[i] = binary.LittleEndian.Uint32(b[i*4:])
	}
	if code[0] != magic {
		return nil, errors.Wrapf(ErrInvalidShader, "bad magic %#08x", code[0])
	}
	return code, nil
}
