package gpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"

	"github.com/vkngwrapper/hello-triangle/internal/frame"
)

func TestSwapchainStatus(t *testing.T) {
	assert.Equal(t, frame.StatusOK, swapchainStatus(core1_0.VKSuccess))
	assert.Equal(t, frame.StatusSuboptimal, swapchainStatus(khr_swapchain.VKSuboptimal))
	assert.Equal(t, frame.StatusOutOfDate, swapchainStatus(khr_swapchain.VKErrorOutOfDate))
}
