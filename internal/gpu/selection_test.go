package gpu

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

func TestRequireNames(t *testing.T) {
	available := map[string]struct{}{
		"VK_KHR_surface":      {},
		"VK_KHR_xlib_surface": {},
	}

	names, err := requireNames(available, []string{"VK_KHR_surface", "VK_KHR_xlib_surface"}, ErrMissingExtension)
	require.NoError(t, err)
	assert.Equal(t, []string{"VK_KHR_surface", "VK_KHR_xlib_surface"}, names)

	_, err = requireNames(available, []string{"VK_KHR_surface", "VK_EXT_debug_utils"}, ErrMissingExtension)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMissingExtension))
	assert.Contains(t, err.Error(), "VK_EXT_debug_utils")

	_, err = requireNames(available, []string{"VK_LAYER_KHRONOS_validation"}, ErrMissingLayer)
	assert.True(t, errors.Is(err, ErrMissingLayer))

	assert.Equal(t, []string{"a", "b"}, missingNames(available, []string{"b", "VK_KHR_surface", "a"}))
	assert.Empty(t, missingNames(available, nil))
}

func presentOn(families ...int) func(int) (bool, error) {
	return func(family int) (bool, error) {
		for _, f := range families {
			if f == family {
				return true, nil
			}
		}
		return false, nil
	}
}

func TestFindQueueFamilies(t *testing.T) {
	t.Run("shared family preferred", func(t *testing.T) {
		flags := []core1_0.QueueFlags{core1_0.QueueGraphics, core1_0.QueueTransfer, core1_0.QueueGraphics | core1_0.QueueCompute}
		indices, err := findQueueFamilies(flags, presentOn(1, 2))
		require.NoError(t, err)
		require.True(t, indices.IsComplete())
		assert.Equal(t, 2, *indices.GraphicsFamily)
		assert.Equal(t, 2, *indices.PresentFamily)
		assert.Equal(t, []int{2}, indices.Unique())
	})

	t.Run("separate families", func(t *testing.T) {
		flags := []core1_0.QueueFlags{core1_0.QueueGraphics, core1_0.QueueTransfer}
		indices, err := findQueueFamilies(flags, presentOn(1))
		require.NoError(t, err)
		require.True(t, indices.IsComplete())
		assert.Equal(t, []int{0, 1}, indices.Unique())
	})

	t.Run("no present support", func(t *testing.T) {
		indices, err := findQueueFamilies([]core1_0.QueueFlags{core1_0.QueueGraphics}, presentOn())
		require.NoError(t, err)
		assert.False(t, indices.IsComplete())
	})

	t.Run("query error", func(t *testing.T) {
		boom := errors.New("surface lost")
		_, err := findQueueFamilies([]core1_0.QueueFlags{core1_0.QueueGraphics}, func(int) (bool, error) { return false, boom })
		assert.True(t, errors.Is(err, boom))
	})
}

func TestChooseSurfaceFormat(t *testing.T) {
	preferred := khr_surface.SurfaceFormat{Format: core1_0.FormatB8G8R8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}
	other := khr_surface.SurfaceFormat{Format: core1_0.FormatR8G8B8A8SRGB, ColorSpace: khr_surface.ColorSpaceSRGBNonlinear}

	assert.Equal(t, preferred, chooseSurfaceFormat([]khr_surface.SurfaceFormat{other, preferred}))
	assert.Equal(t, other, chooseSurfaceFormat([]khr_surface.SurfaceFormat{other}))
}

func TestChoosePresentMode(t *testing.T) {
	all := []khr_surface.PresentMode{khr_surface.PresentModeFIFO, khr_surface.PresentModeImmediate, khr_surface.PresentModeMailbox}
	fifoOnly := []khr_surface.PresentMode{khr_surface.PresentModeFIFO}

	assert.Equal(t, khr_surface.PresentModeMailbox, choosePresentMode(all, parsePresentMode("mailbox")))
	assert.Equal(t, khr_surface.PresentModeImmediate, choosePresentMode(all, parsePresentMode("Immediate")))
	assert.Equal(t, khr_surface.PresentModeFIFO, choosePresentMode(all, parsePresentMode("fifo")))
	assert.Equal(t, khr_surface.PresentModeFIFO, choosePresentMode(fifoOnly, parsePresentMode("mailbox")))
}

func TestChooseExtent(t *testing.T) {
	caps := &khr_surface.SurfaceCapabilities{
		CurrentExtent:  core1_0.Extent2D{Width: 800, Height: 600},
		MinImageExtent: core1_0.Extent2D{Width: 1, Height: 1},
		MaxImageExtent: core1_0.Extent2D{Width: 4096, Height: 4096},
	}
	assert.Equal(t, core1_0.Extent2D{Width: 800, Height: 600}, chooseExtent(caps, 1920, 1080))

	caps.CurrentExtent = core1_0.Extent2D{Width: -1, Height: -1}
	assert.Equal(t, core1_0.Extent2D{Width: 1920, Height: 1080}, chooseExtent(caps, 1920, 1080))
	assert.Equal(t, core1_0.Extent2D{Width: 4096, Height: 1}, chooseExtent(caps, 8000, 0))
}

func TestChooseImageCount(t *testing.T) {
	assert.Equal(t, 3, chooseImageCount(&khr_surface.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 0}))
	assert.Equal(t, 3, chooseImageCount(&khr_surface.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 8}))
	assert.Equal(t, 2, chooseImageCount(&khr_surface.SurfaceCapabilities{MinImageCount: 2, MaxImageCount: 2}))
}

func TestFindMemoryType(t *testing.T) {
	types := []core1_0.MemoryPropertyFlags{
		core1_0.MemoryPropertyDeviceLocal,
		core1_0.MemoryPropertyHostVisible,
		core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent,
	}
	hostCoherent := core1_0.MemoryPropertyHostVisible | core1_0.MemoryPropertyHostCoherent

	idx, err := findMemoryType(0b111, types, hostCoherent)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	idx, err = findMemoryType(0b111, types, core1_0.MemoryPropertyHostVisible)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	_, err = findMemoryType(0b011, types, hostCoherent)
	assert.True(t, errors.Is(err, ErrNoMemoryType))
}

func TestSwapchainSupportAdequate(t *testing.T) {
	assert.False(t, SwapchainSupport{}.Adequate())
	assert.True(t, SwapchainSupport{
		Capabilities: &khr_surface.SurfaceCapabilities{},
		Formats:      []khr_surface.SurfaceFormat{{}},
		PresentModes: []khr_surface.PresentMode{khr_surface.PresentModeFIFO},
	}.Adequate())
}
