// Package gpu is the Vulkan side of the triangle renderer. Instance, device
// and static buffers are created once; everything that depends on the
// swapchain is torn down and rebuilt whenever the surface changes.
package gpu

import (
	"log/slog"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/vkngwrapper/core"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"

	"github.com/vkngwrapper/hello-triangle/internal/config"
	"github.com/vkngwrapper/hello-triangle/internal/frame"
	"github.com/vkngwrapper/hello-triangle/internal/logging"
	"github.com/vkngwrapper/hello-triangle/internal/shader"
)

// Surface is the window the renderer presents to.
type Surface interface {
	ProcAddr() unsafe.Pointer
	InstanceExtensions() []string
	DrawableSize() (width, height int)
	CreateSurface(instance core1_0.Instance) (khr_surface.Surface, error)
}

type Options struct {
	Config  config.RendererConfig
	Shaders shader.Stages
	Logger  *slog.Logger
}

// slot is everything owned by one frame in flight.
type slot struct {
	commandBuffer  core1_0.CommandBuffer
	imageAvailable core1_0.Semaphore
	inFlight       core1_0.Fence

	uniformBuffer core1_0.Buffer
	uniformMemory core1_0.DeviceMemory
	descriptorSet core1_0.DescriptorSet
}

type Renderer struct {
	window  Surface
	cfg     config.RendererConfig
	shaders shader.Stages
	logger  *slog.Logger
	start   float64

	loader core.Loader

	instance       core1_0.Instance
	debugMessenger ext_debug_utils.DebugUtilsMessenger
	surface        khr_surface.Surface

	physicalDevice core1_0.PhysicalDevice
	queueFamilies  QueueFamilyIndices
	device         core1_0.Device

	graphicsQueue core1_0.Queue
	presentQueue  core1_0.Queue

	swapchainExtension    khr_swapchain.Extension
	swapchain             khr_swapchain.Swapchain
	swapchainImages       []core1_0.Image
	swapchainImageFormat  core1_0.Format
	swapchainExtent       core1_0.Extent2D
	swapchainImageViews   []core1_0.ImageView
	swapchainFramebuffers []core1_0.Framebuffer
	// renderFinished is per swapchain image: presentation holds it until the
	// image comes back, which a frame slot can't track.
	renderFinished []core1_0.Semaphore

	renderPass          core1_0.RenderPass
	descriptorSetLayout core1_0.DescriptorSetLayout
	pipelineLayout      core1_0.PipelineLayout
	graphicsPipeline    core1_0.Pipeline

	descriptorPool core1_0.DescriptorPool
	commandPool    core1_0.CommandPool
	slots          []slot

	vertexBuffer       core1_0.Buffer
	vertexBufferMemory core1_0.DeviceMemory
	indexBuffer        core1_0.Buffer
	indexBufferMemory  core1_0.DeviceMemory
}

var _ frame.Target = (*Renderer)(nil)

// New brings up Vulkan against window. On error everything created so far
// is released.
func New(window Surface, opts Options) (*Renderer, error) {
	r := &Renderer{
		window:  window,
		cfg:     opts.Config,
		shaders: opts.Shaders,
		logger:  logging.OrNop(opts.Logger),
		start:   hrtime.Now().Seconds(),
	}

	if err := r.init(); err != nil {
		r.destroy()
		return nil, err
	}
	return r, nil
}

func (r *Renderer) init() error {
	var err error
	r.loader, err = core.CreateLoaderFromProcAddr(r.window.ProcAddr())
	if err != nil {
		return errors.Wrap(err, "create vulkan loader")
	}

	steps := []struct {
		name string
		fn   func() error
	}{
		{"create instance", r.createInstance},
		{"set up debug messenger", r.setupDebugMessenger},
		{"create surface", r.createSurface},
		{"pick physical device", r.pickPhysicalDevice},
		{"create logical device", r.createLogicalDevice},
		{"create descriptor set layout", r.createDescriptorSetLayout},
		{"create command pool", r.createCommandPool},
		{"create vertex buffer", r.createVertexBuffer},
		{"create index buffer", r.createIndexBuffer},
		{"create frame slots", r.createSlots},
		{"create swapchain", r.createSwapchainResources},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return errors.Wrap(err, step.name)
		}
	}
	return nil
}

// Slots is the number of frames in flight the renderer was built for.
func (r *Renderer) Slots() int {
	return len(r.slots)
}

func (r *Renderer) ImageCount() int {
	return len(r.swapchainImages)
}

// Idle blocks until the device has finished all submitted work.
func (r *Renderer) Idle() error {
	if r.device == nil {
		return nil
	}
	_, err := r.device.WaitIdle()
	return errors.Wrap(err, "wait for device idle")
}

// Close waits for the device and destroys every Vulkan object.
func (r *Renderer) Close() error {
	err := r.Idle()
	r.destroy()
	return err
}

func (r *Renderer) destroy() {
	r.cleanupSwapchain()

	for _, s := range r.slots {
		if s.inFlight != nil {
			s.inFlight.Destroy(nil)
		}
		if s.imageAvailable != nil {
			s.imageAvailable.Destroy(nil)
		}
		if s.uniformBuffer != nil {
			s.uniformBuffer.Destroy(nil)
		}
		if s.uniformMemory != nil {
			s.uniformMemory.Free(nil)
		}
	}
	r.slots = nil

	if r.descriptorPool != nil {
		r.descriptorPool.Destroy(nil)
		r.descriptorPool = nil
	}

	if r.indexBuffer != nil {
		r.indexBuffer.Destroy(nil)
		r.indexBuffer = nil
	}

	if r.indexBufferMemory != nil {
		r.indexBufferMemory.Free(nil)
		r.indexBufferMemory = nil
	}

	if r.vertexBuffer != nil {
		r.vertexBuffer.Destroy(nil)
		r.vertexBuffer = nil
	}

	if r.vertexBufferMemory != nil {
		r.vertexBufferMemory.Free(nil)
		r.vertexBufferMemory = nil
	}

	if r.commandPool != nil {
		r.commandPool.Destroy(nil)
		r.commandPool = nil
	}

	if r.descriptorSetLayout != nil {
		r.descriptorSetLayout.Destroy(nil)
		r.descriptorSetLayout = nil
	}

	if r.device != nil {
		r.device.Destroy(nil)
		r.device = nil
	}

	if r.surface != nil {
		r.surface.Destroy(nil)
		r.surface = nil
	}

	if r.debugMessenger != nil {
		r.debugMessenger.Destroy(nil)
		r.debugMessenger = nil
	}

	if r.instance != nil {
		r.instance.Destroy(nil)
		r.instance = nil
	}
}
