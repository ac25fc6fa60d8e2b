package gpu

import (
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
)

var (
	ErrNoSuitableDevice = errors.New("failed to find a suitable GPU")
	ErrMissingExtension = errors.New("missing vulkan extension")
	ErrMissingLayer     = errors.New("missing vulkan layer")
	ErrNoMemoryType     = errors.New("failed to find a suitable memory type")
)

type QueueFamilyIndices struct {
	GraphicsFamily *int
	PresentFamily  *int
}

func (i *QueueFamilyIndices) IsComplete() bool {
	return i.GraphicsFamily != nil && i.PresentFamily != nil
}

// Unique returns the distinct families, graphics first.
func (i *QueueFamilyIndices) Unique() []int {
	families := []int{*i.GraphicsFamily}
	if *i.PresentFamily != *i.GraphicsFamily {
		families = append(families, *i.PresentFamily)
	}
	return families
}

type SwapchainSupport struct {
	Capabilities *khr_surface.SurfaceCapabilities
	Formats      []khr_surface.SurfaceFormat
	PresentModes []khr_surface.PresentMode
}

func (s SwapchainSupport) Adequate() bool {
	return s.Capabilities != nil && len(s.Formats) > 0 && len(s.PresentModes) > 0
}

// requireNames checks that every required name is present in available and
// returns them in order. sentinel is wrapped into the error for the first
// missing name.
func requireNames[T any](available map[string]T, required []string, sentinel error) ([]string, error) {
	names := make([]string, 0, len(required))
	for _, name := range required {
		if _, ok := available[name]; !ok {
			return nil, errors.Wrapf(sentinel, "%s", name)
		}
		names = append(names, name)
	}
	return names, nil
}

func missingNames[T any](available map[string]T, required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := available[name]; !ok {
			missing = append(missing, name)
		}
	}
	sort.Strings(missing)
	return missing
}

// findQueueFamilies picks the first family with graphics support and the
// first that can present, preferring one family that does both.
func findQueueFamilies(flags []core1_0.QueueFlags, presentSupport func(family int) (bool, error)) (QueueFamilyIndices, error) {
	indices := QueueFamilyIndices{}

	for family, queueFlags := range flags {
		graphics := queueFlags&core1_0.QueueGraphics != 0
		present, err := presentSupport(family)
		if err != nil {
			return indices, err
		}

		if graphics && present {
			f := family
			return QueueFamilyIndices{GraphicsFamily: &f, PresentFamily: &f}, nil
		}
		if graphics && indices.GraphicsFamily == nil {
			indices.GraphicsFamily = new(int)
			*indices.GraphicsFamily = family
		}
		if present && indices.PresentFamily == nil {
			indices.PresentFamily = new(int)
			*indices.PresentFamily = family
		}
	}

	return indices, nil
}

func chooseSurfaceFormat(available []khr_surface.SurfaceFormat) khr_surface.SurfaceFormat {
	for _, format := range available {
		if format.Format == core1_0.FormatB8G8R8A8SRGB && format.ColorSpace == khr_surface.ColorSpaceSRGBNonlinear {
			return format
		}
	}

	return available[0]
}

func parsePresentMode(name string) khr_surface.PresentMode {
	switch strings.ToLower(name) {
	case "mailbox":
		return khr_surface.PresentModeMailbox
	case "immediate":
		return khr_surface.PresentModeImmediate
	}
	return khr_surface.PresentModeFIFO
}

// choosePresentMode returns preferred when the surface offers it. FIFO is
// the only mode every implementation must support.
func choosePresentMode(available []khr_surface.PresentMode, preferred khr_surface.PresentMode) khr_surface.PresentMode {
	for _, presentMode := range available {
		if presentMode == preferred {
			return presentMode
		}
	}

	return khr_surface.PresentModeFIFO
}

// chooseExtent uses the surface's current extent unless the platform leaves
// it to the swapchain (width -1), in which case the drawable size is clamped
// to the allowed range.
func chooseExtent(capabilities *khr_surface.SurfaceCapabilities, drawableWidth, drawableHeight int) core1_0.Extent2D {
	if capabilities.CurrentExtent.Width != -1 {
		return capabilities.CurrentExtent
	}

	return core1_0.Extent2D{
		Width:  clamp(drawableWidth, capabilities.MinImageExtent.Width, capabilities.MaxImageExtent.Width),
		Height: clamp(drawableHeight, capabilities.MinImageExtent.Height, capabilities.MaxImageExtent.Height),
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// chooseImageCount asks for one more than the minimum so acquire doesn't
// wait on the driver. A MaxImageCount of 0 means no limit.
func chooseImageCount(capabilities *khr_surface.SurfaceCapabilities) int {
	imageCount := capabilities.MinImageCount + 1
	if capabilities.MaxImageCount > 0 && capabilities.MaxImageCount < imageCount {
		imageCount = capabilities.MaxImageCount
	}
	return imageCount
}

func findMemoryType(typeFilter uint32, types []core1_0.MemoryPropertyFlags, properties core1_0.MemoryPropertyFlags) (int, error) {
	for i, flags := range types {
		typeBit := uint32(1 << i)
		if (typeFilter&typeBit) != 0 && (flags&properties) == properties {
			return i, nil
		}
	}

	return 0, errors.Wrapf(ErrNoMemoryType, "filter %#x, properties %s", typeFilter, properties)
}
