package gpu

import (
	"bytes"
	"encoding/binary"
	"unsafe"

	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"

	"github.com/vkngwrapper/hello-triangle/internal/geometry"
)

func (r *Renderer) createCommandPool() error {
	pool, _, err := r.device.CreateCommandPool(nil, core1_0.CommandPoolCreateInfo{
		// Each slot's command buffer is reset and re-recorded every frame.
		Flags:            core1_0.CommandPoolCreateResetBuffer,
		QueueFamilyIndex: *r.queueFamilies.GraphicsFamily,
	})
	if err != nil {
		return err
	}

	r.commandPool = pool
	return nil
}

func (r *Renderer) findMemoryType(typeFilter uint32, properties core1_0.MemoryPropertyFlags) (int, error) {
	memProperties := r.physicalDevice.MemoryProperties()

	var types []core1_0.MemoryPropertyFlags
	for _, memoryType := range memProperties.MemoryTypes {
		types = append(types, memoryType.PropertyFlags)
	}
	return findMemoryType(typeFilter, types, properties)
}

func (r *Renderer) createBuffer(size int, usage core1_0.BufferUsageFlags, properties core1_0.MemoryPropertyFlags) (core1_0.Buffer, core1_0.DeviceMemory, error) {
	buffer, _, err := r.device.CreateBuffer(nil, core1_0.BufferCreateInfo{
		Size:        size,
		Usage:       usage,
		SharingMode: core1_0.SharingModeExclusive,
	})
	if err != nil {
		return nil, nil, err
	}

	memRequirements := buffer.MemoryRequirements()
	memoryTypeIndex, err := r.findMemoryType(memRequirements.MemoryTypeBits, properties)
	if err != nil {
		return buffer, nil, err
	}

	memory, _, err := r.device.AllocateMemory(nil, core1_0.MemoryAllocateInfo{
		AllocationSize:  memRequirements.Size,
		MemoryTypeIndex: memoryTypeIndex,
	})
	if err != nil {
		return buffer, nil, err
	}

	_, err = buffer.BindBufferMemory(memory, 0)
	return buffer, memory, err
}

// writeData copies the binary encoding of data into host-visible memory.
func writeData(memory core1_0.DeviceMemory, offset int, data any) error {
	bufferSize := binary.Size(data)

	memoryPtr, _, err := memory.Map(offset, bufferSize, 0)
	if err != nil {
		return err
	}
	defer memory.Unmap()

	dataBuffer := unsafe.Slice((*byte)(memoryPtr), bufferSize)

	buf := &bytes.Buffer{}
	err = binary.Write(buf, common.ByteOrder, data)
	if err != nil {
		return err
	}

	copy(dataBuffer, buf.Bytes())
	return nil
}

// createDeviceLocalBuffer uploads data through a staging buffer into
// device-local memory.
func (r *Renderer) createDeviceLocalBuffer(data any, usage core1_0.BufferUsageFlags) (core1_0.Buffer, core1_0.DeviceMemory, error) {
	bufferSize := binary.Size(data)

	stagingBuffer, stagingBufferMemory, err := r.createBuffer(bufferSize, core1_0.BufferUsageTransferSrc, core1_0.MemoryPropertyHostVisible|core1_0.MemoryPropertyHostCoherent)
	if stagingBuffer != nil {
		defer stagingBuffer.Destroy(nil)
	}
	if stagingBufferMemory != nil {
		defer stagingBufferMemory.Free(nil)
	}
	if err != nil {
		return nil, nil, err
	}

	err = writeData(stagingBufferMemory, 0, data)
	if err != nil {
		return nil, nil, err
	}

	buffer, memory, err := r.createBuffer(bufferSize, core1_0.BufferUsageTransferDst|usage, core1_0.MemoryPropertyDeviceLocal)
	if err != nil {
		return buffer, memory, err
	}

	return buffer, memory, r.copyBuffer(stagingBuffer, buffer, bufferSize)
}

func (r *Renderer) createVertexBuffer() error {
	var err error
	r.vertexBuffer, r.vertexBufferMemory, err = r.createDeviceLocalBuffer(geometry.Vertices, core1_0.BufferUsageVertexBuffer)
	return err
}

func (r *Renderer) createIndexBuffer() error {
	var err error
	r.indexBuffer, r.indexBufferMemory, err = r.createDeviceLocalBuffer(geometry.Indices, core1_0.BufferUsageIndexBuffer)
	return err
}

func (r *Renderer) copyBuffer(srcBuffer core1_0.Buffer, dstBuffer core1_0.Buffer, size int) error {
	buffers, _, err := r.device.AllocateCommandBuffers(core1_0.CommandBufferAllocateInfo{
		CommandPool:        r.commandPool,
		Level:              core1_0.CommandBufferLevelPrimary,
		CommandBufferCount: 1,
	})
	if err != nil {
		return err
	}
	buffer := buffers[0]
	defer r.device.FreeCommandBuffers(buffers)

	_, err = buffer.Begin(core1_0.CommandBufferBeginInfo{
		Flags: core1_0.CommandBufferUsageOneTimeSubmit,
	})
	if err != nil {
		return err
	}

	err = buffer.CmdCopyBuffer(srcBuffer, dstBuffer, []core1_0.BufferCopy{
		{
			SrcOffset: 0,
			DstOffset: 0,
			Size:      size,
		},
	})
	if err != nil {
		return err
	}

	_, err = buffer.End()
	if err != nil {
		return err
	}

	_, err = r.graphicsQueue.Submit(nil, []core1_0.SubmitInfo{
		{
			CommandBuffers: []core1_0.CommandBuffer{buffer},
		},
	})
	if err != nil {
		return err
	}

	_, err = r.graphicsQueue.WaitIdle()
	return err
}
