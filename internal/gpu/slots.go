package gpu

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"

	"github.com/vkngwrapper/hello-triangle/internal/geometry"
)

// createSlots allocates the per-frame-in-flight resources. None of them
// depend on the swapchain, so they survive rebuilds.
func (r *Renderer) createSlots() error {
	count := r.cfg.FramesInFlight
	if count < 1 {
		return errors.Newf("need at least one frame in flight, got %d", count)
	}
	r.slots = make([]slot, count)

	uboSize := int(unsafe.Sizeof(geometry.UniformBufferObject{}))
	for i := range r.slots {
		buffer, memory, err := r.createBuffer(uboSize, core1_0.BufferUsageUniformBuffer, core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
		r.slots[i].uniformBuffer = buffer
		r.slots[i].uniformMemory = memory
		if err != nil {
			return err
		}
	}

	var err error
	r.descriptorPool, _, err = r.device.CreateDescriptorPool(nil, core1_0.DescriptorPoolCreateInfo{
		MaxSets: count,
		PoolSizes: []core1_0.DescriptorPoolSize{
			{
				Type:            core1_0.DescriptorTypeUniformBuffer,
				DescriptorCount: count,
			},
		},
	})
	if err != nil {
		return err
	}

	var allocLayouts []core1_0.DescriptorSetLayout
	for i := 0; i < count; i++ {
		allocLayouts = append(allocLayouts, r.descriptorSetLayout)
	}

	descriptorSets, _, err := r.device.AllocateDescriptorSets(core1_0.DescriptorSetAllocateInfo{
		DescriptorPool: r.descriptorPool,
		SetLayouts:     allocLayouts,
	})
	if err != nil {
		return err
	}

	for i := range r.slots {
		r.slots[i].descriptorSet = descriptorSets[i]

		err = r.device.UpdateDescriptorSets([]core1_0.WriteDescriptorSet{
			{
				DstSet:          descriptorSets[i],
				DstBinding:      0,
				DstArrayElement: 0,

				DescriptorType: core1_0.DescriptorTypeUniformBuffer,

				BufferInfo: []core1_0.DescriptorBufferInfo{
					{
						Buffer: r.slots[i].uniformBuffer,
						Offset: 0,
						Range:  uboSize,
					},
				},
			},
		}, nil)
		if err != nil {
			return err
		}
	}

	commandBuffers, _, err := r.device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        r.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: count,
	})
	if err != nil {
		return err
	}

	for i := range r.slots {
		r.slots[i].commandBuffer = commandBuffers[i]

		r.slots[i].imageAvailable, _, err = r.device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return err
		}

		// Signaled so the first wait on each slot returns immediately.
		r.slots[i].inFlight, _, err = r.device.CreateFence(nil, core1_0.FenceCreateInfo{
			Flags: core1_0.FenceCreateSignaled,
		})
		if err != nil {
			return err
		}
	}

	return nil
}

func (r *Renderer) createPresentSemaphores() error {
	for range r.swapchainImages {
		semaphore, _, err := r.device.CreateSemaphore(nil, core1_0.SemaphoreCreateInfo{})
		if err != nil {
			return err
		}
		r.renderFinished = append(r.renderFinished, semaphore)
	}
	return nil
}
