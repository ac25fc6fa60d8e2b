package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"

	"github.com/vkngwrapper/hello-triangle/internal/geometry"
)

const shaderEntryPoint = "main"

// writeRGBA enables writes to every channel of the color attachment.
const writeRGBA = core1_0.ColorComponentRed | core1_0.ColorComponentGreen | core1_0.ColorComponentBlue | core1_0.ColorComponentAlpha

func (r *Renderer) createDescriptorSetLayout() error {
	var err error
	r.descriptorSetLayout, _, err = r.device.CreateDescriptorSetLayout(nil, core1_0.DescriptorSetLayoutCreateInfo{
		Bindings: []core1_0.DescriptorSetLayoutBinding{
			{
				Binding:         0,
				DescriptorType:  core1_0.DescriptorTypeUniformBuffer,
				DescriptorCount: 1,

				StageFlags: core1_0.StageVertex,
			},
		},
	})
	return err
}

// shaderStages builds one module per stage. The modules are only needed
// while the pipeline is created, so the caller destroys them right after.
func (r *Renderer) shaderStages() ([]core1_0.PipelineShaderStageCreateInfo, func(), error) {
	sources := []struct {
		stage core1_0.ShaderStageFlags
		code  []uint32
	}{
		{core1_0.StageVertex, r.shaders.Vertex},
		{core1_0.StageFragment, r.shaders.Fragment},
	}

	var modules []core1_0.ShaderModule
	release := func() {
		for _, module := range modules {
			module.Destroy(nil)
		}
	}

	stages := make([]core1_0.PipelineShaderStageCreateInfo, 0, len(sources))
	for _, source := range sources {
		module, _, err := r.device.CreateShaderModule(nil, core1_0.ShaderModuleCreateInfo{Code: source.code})
		if err != nil {
			release()
			return nil, nil, errors.Wrapf(err, "shader module for stage %s", source.stage)
		}
		modules = append(modules, module)
		stages = append(stages, core1_0.PipelineShaderStageCreateInfo{
			Stage:  source.stage,
			Module: module,
			Name:   shaderEntryPoint,
		})
	}
	return stages, release, nil
}

// viewportState covers the whole swapchain image. It is baked into the
// pipeline, which is rebuilt along with the swapchain.
func viewportState(extent core1_0.Extent2D) *core1_0.PipelineViewportStateCreateInfo {
	return &core1_0.PipelineViewportStateCreateInfo{
		Viewports: []core1_0.Viewport{{
			Width:    float32(extent.Width),
			Height:   float32(extent.Height),
			MaxDepth: 1,
		}},
		Scissors: []core1_0.Rect2D{{Extent: extent}},
	}
}

// rasterizationState fills front faces only. The triangle is wound
// counter-clockwise as seen after the projection's Y flip.
func rasterizationState() *core1_0.PipelineRasterizationStateCreateInfo {
	return &core1_0.PipelineRasterizationStateCreateInfo{
		PolygonMode: core1_0.PolygonModeFill,
		CullMode:    core1_0.CullModeBack,
		FrontFace:   core1_0.FrontFaceCounterClockwise,
		LineWidth:   1,
	}
}

// colorBlendState overwrites the single color attachment. There is no depth
// attachment, so no depth/stencil state either.
func colorBlendState() *core1_0.PipelineColorBlendStateCreateInfo {
	return &core1_0.PipelineColorBlendStateCreateInfo{
		Attachments: []core1_0.PipelineColorBlendAttachmentState{
			{ColorWriteMask: writeRGBA},
		},
	}
}

func (r *Renderer) createPipelineLayout() error {
	var err error
	r.pipelineLayout, _, err = r.device.CreatePipelineLayout(nil, core1_0.PipelineLayoutCreateInfo{
		SetLayouts: []core1_0.DescriptorSetLayout{r.descriptorSetLayout},
	})
	return err
}

func (r *Renderer) createGraphicsPipeline() error {
	stages, release, err := r.shaderStages()
	if err != nil {
		return err
	}
	defer release()

	if err := r.createPipelineLayout(); err != nil {
		return err
	}

	pipelines, _, err := r.device.CreateGraphicsPipelines(nil, nil, []core1_0.GraphicsPipelineCreateInfo{
		{
			Stages: stages,
			VertexInputState: &core1_0.PipelineVertexInputStateCreateInfo{
				VertexBindingDescriptions:   geometry.VertexBindingDescriptions(),
				VertexAttributeDescriptions: geometry.VertexAttributeDescriptions(),
			},
			InputAssemblyState: &core1_0.PipelineInputAssemblyStateCreateInfo{
				Topology: core1_0.PrimitiveTopologyTriangleList,
			},
			ViewportState:      viewportState(r.swapchainExtent),
			RasterizationState: rasterizationState(),
			MultisampleState: &core1_0.PipelineMultisampleStateCreateInfo{
				RasterizationSamples: core1_0.Samples1,
			},
			ColorBlendState:   colorBlendState(),
			Layout:            r.pipelineLayout,
			RenderPass:        r.renderPass,
			BasePipelineIndex: -1,
		},
	})
	if err != nil {
		return err
	}

	r.graphicsPipeline = pipelines[0]
	return nil
}
