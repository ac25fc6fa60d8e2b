package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

// createSwapchainResources builds everything sized or formatted after the
// swapchain, in dependency order.
func (r *Renderer) createSwapchainResources() error {
	steps := []struct {
		name string
		fn   func() error
	}{
		{"swapchain", r.createSwapchain},
		{"image views", r.createImageViews},
		{"render pass", r.createRenderPass},
		{"graphics pipeline", r.createGraphicsPipeline},
		{"framebuffers", r.createFramebuffers},
		{"present semaphores", r.createPresentSemaphores},
	}
	for _, step := range steps {
		if err := step.fn(); err != nil {
			return errors.Wrapf(err, "create %s", step.name)
		}
	}

	r.logger.Info("built swapchain",
		"width", r.swapchainExtent.Width,
		"height", r.swapchainExtent.Height,
		"images", len(r.swapchainImages),
		"format", r.swapchainImageFormat)
	return nil
}

// cleanupSwapchain is safe to call on partially built state.
func (r *Renderer) cleanupSwapchain() {
	for _, semaphore := range r.renderFinished {
		semaphore.Destroy(nil)
	}
	r.renderFinished = nil

	for _, framebuffer := range r.swapchainFramebuffers {
		framebuffer.Destroy(nil)
	}
	r.swapchainFramebuffers = nil

	if r.graphicsPipeline != nil {
		r.graphicsPipeline.Destroy(nil)
		r.graphicsPipeline = nil
	}

	if r.pipelineLayout != nil {
		r.pipelineLayout.Destroy(nil)
		r.pipelineLayout = nil
	}

	if r.renderPass != nil {
		r.renderPass.Destroy(nil)
		r.renderPass = nil
	}

	for _, imageView := range r.swapchainImageViews {
		imageView.Destroy(nil)
	}
	r.swapchainImageViews = nil
	r.swapchainImages = nil

	if r.swapchain != nil {
		r.swapchain.Destroy(nil)
		r.swapchain = nil
	}
}

// Rebuild replaces the swapchain and everything derived from it. It does
// nothing and reports false while the window has no drawable area.
func (r *Renderer) Rebuild() (bool, error) {
	w, h := r.window.DrawableSize()
	if w == 0 || h == 0 {
		return false, nil
	}

	if err := r.Idle(); err != nil {
		return false, err
	}

	r.cleanupSwapchain()

	if err := r.createSwapchainResources(); err != nil {
		return false, err
	}
	return true, nil
}

func (r *Renderer) createSwapchain() error {
	swapchainSupport, err := r.querySwapchainSupport(r.physicalDevice)
	if err != nil {
		return err
	}

	surfaceFormat := chooseSurfaceFormat(swapchainSupport.Formats)
	presentMode := choosePresentMode(swapchainSupport.PresentModes, parsePresentMode(r.cfg.PresentMode))
	drawableWidth, drawableHeight := r.window.DrawableSize()
	extent := chooseExtent(swapchainSupport.Capabilities, drawableWidth, drawableHeight)
	imageCount := chooseImageCount(swapchainSupport.Capabilities)

	sharingMode := core1_0.SharingModeExclusive
	var queueFamilyIndices []int
	if families := r.queueFamilies.Unique(); len(families) > 1 {
		sharingMode = core1_0.SharingModeConcurrent
		queueFamilyIndices = families
	}

	swapchain, _, err := r.swapchainExtension.CreateSwapchain(r.device, nil, khr_swapchain.SwapchainCreateInfo{
		Surface: r.surface,

		MinImageCount:    imageCount,
		ImageFormat:      surfaceFormat.Format,
		ImageColorSpace:  surfaceFormat.ColorSpace,
		ImageExtent:      extent,
		ImageArrayLayers: 1,
		ImageUsage:       core1_0.ImageUsageColorAttachment,

		ImageSharingMode:   sharingMode,
		QueueFamilyIndices: queueFamilyIndices,

		PreTransform:   swapchainSupport.Capabilities.CurrentTransform,
		CompositeAlpha: khr_surface.CompositeAlphaOpaque,
		PresentMode:    presentMode,
		Clipped:        true,
	})
	if err != nil {
		return err
	}

	r.swapchainExtent = extent
	r.swapchain = swapchain
	r.swapchainImageFormat = surfaceFormat.Format
	return nil
}

func (r *Renderer) createImageViews() error {
	images, _, err := r.swapchain.SwapchainImages()
	if err != nil {
		return err
	}
	r.swapchainImages = images

	for _, image := range images {
		view, _, err := r.device.CreateImageView(nil, core1_0.ImageViewCreateInfo{
			Image:    image,
			ViewType: core1_0.ImageViewType2D,
			Format:   r.swapchainImageFormat,
			SubresourceRange: core1_0.ImageSubresourceRange{
				AspectMask:     core1_0.ImageAspectColor,
				BaseMipLevel:   0,
				LevelCount:     1,
				BaseArrayLayer: 0,
				LayerCount:     1,
			},
		})
		if err != nil {
			return err
		}
		r.swapchainImageViews = append(r.swapchainImageViews, view)
	}

	return nil
}

func (r *Renderer) createRenderPass() error {
	renderPass, _, err := r.device.CreateRenderPass(nil, core1_0.RenderPassCreateInfo{
		Attachments: []core1_0.AttachmentDescription{
			{
				Format:         r.swapchainImageFormat,
				Samples:        core1_0.Samples1,
				LoadOp:         core1_0.AttachmentLoadOpClear,
				StoreOp:        core1_0.AttachmentStoreOpStore,
				StencilLoadOp:  core1_0.AttachmentLoadOpDontCare,
				StencilStoreOp: core1_0.AttachmentStoreOpDontCare,
				InitialLayout:  core1_0.ImageLayoutUndefined,
				FinalLayout:    khr_swapchain.ImageLayoutPresentSrc,
			},
		},
		Subpasses: []core1_0.SubpassDescription{
			{
				PipelineBindPoint: core1_0.PipelineBindPointGraphics,
				ColorAttachments: []core1_0.AttachmentReference{
					{
						Attachment: 0,
						Layout:     core1_0.ImageLayoutColorAttachmentOptimal,
					},
				},
			},
		},
		// The layout transition must wait until the image-available
		// semaphore has been waited on at this stage.
		SubpassDependencies: []core1_0.SubpassDependency{
			{
				SrcSubpass: core1_0.SubpassExternal,
				DstSubpass: 0,

				SrcStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				SrcAccessMask: 0,

				DstStageMask:  core1_0.PipelineStageColorAttachmentOutput,
				DstAccessMask: core1_0.AccessColorAttachmentWrite,
			},
		},
	})
	if err != nil {
		return err
	}

	r.renderPass = renderPass
	return nil
}

func (r *Renderer) createFramebuffers() error {
	for _, imageView := range r.swapchainImageViews {
		framebuffer, _, err := r.device.CreateFramebuffer(nil, core1_0.FramebufferCreateInfo{
			RenderPass:  r.renderPass,
			Layers:      1,
			Attachments: []core1_0.ImageView{imageView},
			Width:       r.swapchainExtent.Width,
			Height:      r.swapchainExtent.Height,
		})
		if err != nil {
			return err
		}

		r.swapchainFramebuffers = append(r.swapchainFramebuffers, framebuffer)
	}

	return nil
}
