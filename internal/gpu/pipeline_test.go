package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/core1_0"
)

func TestViewportStateCoversExtent(t *testing.T) {
	extent := core1_0.Extent2D{Width: 1280, Height: 720}
	state := viewportState(extent)

	require.Len(t, state.Viewports, 1)
	viewport := state.Viewports[0]
	assert.Equal(t, float32(1280), viewport.Width)
	assert.Equal(t, float32(720), viewport.Height)
	assert.Zero(t, viewport.X)
	assert.Zero(t, viewport.Y)
	assert.Equal(t, float32(0), viewport.MinDepth)
	assert.Equal(t, float32(1), viewport.MaxDepth)

	require.Len(t, state.Scissors, 1)
	assert.Equal(t, extent, state.Scissors[0].Extent)
	assert.Equal(t, core1_0.Offset2D{}, state.Scissors[0].Offset)
}

func TestFixedFunctionState(t *testing.T) {
	raster := rasterizationState()
	assert.Equal(t, core1_0.PolygonModeFill, raster.PolygonMode)
	assert.Equal(t, core1_0.CullModeBack, raster.CullMode)
	assert.Equal(t, core1_0.FrontFaceCounterClockwise, raster.FrontFace)
	assert.Equal(t, float32(1), raster.LineWidth)

	blend := colorBlendState()
	require.Len(t, blend.Attachments, 1)
	assert.False(t, blend.Attachments[0].BlendEnabled)
	assert.Equal(t, writeRGBA, blend.Attachments[0].ColorWriteMask)
}
