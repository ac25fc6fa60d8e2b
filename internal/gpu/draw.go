package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/loov/hrtime"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_swapchain"

	"github.com/vkngwrapper/hello-triangle/internal/frame"
	"github.com/vkngwrapper/hello-triangle/internal/geometry"
)

func swapchainStatus(res common.VkResult) frame.Status {
	switch res {
	case khr_swapchain.VKErrorOutOfDate:
		return frame.StatusOutOfDate
	case khr_swapchain.VKSuboptimal:
		return frame.StatusSuboptimal
	}
	return frame.StatusOK
}

func (r *Renderer) WaitSlot(slot int) error {
	_, err := r.device.WaitForFences(true, common.NoTimeout, []core1_0.Fence{r.slots[slot].inFlight})
	return err
}

func (r *Renderer) Acquire(slot int) (int, frame.Status, error) {
	imageIndex, res, err := r.swapchain.AcquireNextImage(common.NoTimeout, r.slots[slot].imageAvailable, nil)
	return imageIndex, swapchainStatus(res), err
}

func (r *Renderer) ResetSlot(slot int) error {
	_, err := r.device.ResetFences([]core1_0.Fence{r.slots[slot].inFlight})
	return err
}

// Record updates the slot's uniforms and re-records its command buffer to
// draw the triangle into image.
func (r *Renderer) Record(slot, image int) error {
	s := r.slots[slot]

	ubo := geometry.Uniform(hrtime.Now().Seconds()-r.start, geometry.Aspect(r.swapchainExtent.Width, r.swapchainExtent.Height))
	if err := writeData(s.uniformMemory, 0, &ubo); err != nil {
		return errors.Wrap(err, "write uniforms")
	}

	buffer := s.commandBuffer
	if _, err := buffer.Reset(0); err != nil {
		return err
	}

	if _, err := buffer.Begin(core1_0.CommandBufferBeginInfo{}); err != nil {
		return err
	}

	clear := r.cfg.ClearColor
	err := buffer.CmdBeginRenderPass(core1_0.SubpassContentsInline,
		core1_0.RenderPassBeginInfo{
			RenderPass:  r.renderPass,
			Framebuffer: r.swapchainFramebuffers[image],
			RenderArea: core1_0.Rect2D{
				Offset: core1_0.Offset2D{X: 0, Y: 0},
				Extent: r.swapchainExtent,
			},
			ClearValues: []core1_0.ClearValue{
				core1_0.ClearValueFloat{clear[0], clear[1], clear[2], clear[3]},
			},
		})
	if err != nil {
		return err
	}

	buffer.CmdBindPipeline(core1_0.PipelineBindPointGraphics, r.graphicsPipeline)
	buffer.CmdBindVertexBuffers(0, []core1_0.Buffer{r.vertexBuffer}, []int{0})
	buffer.CmdBindIndexBuffer(r.indexBuffer, 0, core1_0.IndexTypeUInt16)
	buffer.CmdBindDescriptorSets(core1_0.PipelineBindPointGraphics, r.pipelineLayout, []core1_0.DescriptorSet{
		s.descriptorSet,
	}, nil)
	buffer.CmdDrawIndexed(len(geometry.Indices), 1, 0, 0, 0)
	buffer.CmdEndRenderPass()

	_, err = buffer.End()
	return err
}

// Submit waits on the slot's image-available semaphore, signals the image's
// render-finished semaphore, and signals the slot's fence on completion.
func (r *Renderer) Submit(slot, image int) error {
	s := r.slots[slot]

	_, err := r.graphicsQueue.Submit(s.inFlight, []core1_0.SubmitInfo{
		{
			WaitSemaphores:   []core1_0.Semaphore{s.imageAvailable},
			WaitDstStageMask: []core1_0.PipelineStageFlags{core1_0.PipelineStageColorAttachmentOutput},
			CommandBuffers:   []core1_0.CommandBuffer{s.commandBuffer},
			SignalSemaphores: []core1_0.Semaphore{r.renderFinished[image]},
		},
	})
	return err
}

func (r *Renderer) Present(slot, image int) (frame.Status, error) {
	res, err := r.swapchainExtension.QueuePresent(r.presentQueue, khr_swapchain.PresentInfo{
		WaitSemaphores: []core1_0.Semaphore{r.renderFinished[image]},
		Swapchains:     []khr_swapchain.Swapchain{r.swapchain},
		ImageIndices:   []int{image},
	})
	return swapchainStatus(res), err
}
