package shader

import (
	"encoding/binary"
	"testing"
	"testing/fstest"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func module(words ...uint32) []byte {
	header := []uint32{magic, 0x00010000, 0, 8, 0}
	b := make([]byte, 0, 4*(len(header)+len(words)))
	for _, w := range append(header, words...) {
		b = binary.LittleEndian.AppendUint32(b, w)
	}
	return b
}

func TestBytecode(t *testing.T) {
	code, err := Bytecode(module(0xdeadbeef))
	require.NoError(t, err)
	assert.Len(t, code, 6)
	assert.Equal(t, uint32(magic), code[0])
	assert.Equal(t, uint32(0xdeadbeef), code[5])
}

func TestBytecodeRejects(t *testing.T) {
	tests := map[string][]byte{
		"empty":     nil,
		"short":     module()[:12],
		"unaligned": append(module(), 1),
		"bad magic": append([]byte{0, 0, 0, 0}, module()[4:]...),
	}
	for name, b := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Bytecode(b)
			assert.True(t, errors.Is(err, ErrInvalidShader))
		})
	}
}

func TestLoadStages(t *testing.T) {
	fsys := fstest.MapFS{
		VertexFile:   {Data: module(1)},
		FragmentFile: {Data: module(2, 3)},
	}

	stages, err := LoadStages(fsys)
	require.NoError(t, err)
	assert.Len(t, stages.Vertex, 6)
	assert.Len(t, stages.Fragment, 7)
}

func TestLoadStagesMissing(t *testing.T) {
	_, err := LoadStages(fstest.MapFS{VertexFile: {Data: module()}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), FragmentFile)

	_, err = LoadStages(fstest.MapFS{
		VertexFile:   {Data: []byte("not spirv at all!!!!")},
		FragmentFile: {Data: module()},
	})
	assert.True(t, errors.Is(err, ErrInvalidShader))
}
