package gpu

import (
	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_portability_subset"
	"github.com/vkngwrapper/extensions/khr_swapchain"
)

var deviceExtensions = []string{khr_swapchain.ExtensionName}

func (r *Renderer) pickPhysicalDevice() error {
	physicalDevices, _, err := r.instance.EnumeratePhysicalDevices()
	if err != nil {
		return err
	}

	for _, device := range physicalDevices {
		indices, ok, err := r.isDeviceSuitable(device)
		if err != nil {
			return err
		}
		if ok {
			r.physicalDevice = device
			r.queueFamilies = indices
			break
		}
	}

	if r.physicalDevice == nil {
		return errors.Wrapf(ErrNoSuitableDevice, "checked %d devices", len(physicalDevices))
	}

	properties, err := r.physicalDevice.Properties()
	if err != nil {
		return err
	}
	r.logger.Info("picked physical device",
		"name", properties.DriverName,
		"graphics_family", *r.queueFamilies.GraphicsFamily,
		"present_family", *r.queueFamilies.PresentFamily)
	return nil
}

func (r *Renderer) isDeviceSuitable(device core1_0.PhysicalDevice) (QueueFamilyIndices, bool, error) {
	indices, err := r.findQueueFamilies(device)
	if err != nil {
		return indices, false, err
	}
	if !indices.IsComplete() {
		return indices, false, nil
	}

	extensions, _, err := device.EnumerateDeviceExtensionProperties()
	if err != nil {
		return indices, false, err
	}
	if missing := missingNames(extensions, deviceExtensions); len(missing) > 0 {
		r.logger.Debug("skipping physical device", "missing_extensions", missing)
		return indices, false, nil
	}

	support, err := r.querySwapchainSupport(device)
	if err != nil {
		return indices, false, err
	}
	return indices, support.Adequate(), nil
}

func (r *Renderer) findQueueFamilies(device core1_0.PhysicalDevice) (QueueFamilyIndices, error) {
	var flags []core1_0.QueueFlags
	for _, queueFamily := range device.QueueFamilyProperties() {
		flags = append(flags, queueFamily.QueueFlags)
	}

	return findQueueFamilies(flags, func(family int) (bool, error) {
		supported, _, err := r.surface.PhysicalDeviceSurfaceSupport(device, family)
		return supported, err
	})
}

func (r *Renderer) querySwapchainSupport(device core1_0.PhysicalDevice) (SwapchainSupport, error) {
	var details SwapchainSupport
	var err error

	details.Capabilities, _, err = r.surface.PhysicalDeviceSurfaceCapabilities(device)
	if err != nil {
		return details, err
	}

	details.Formats, _, err = r.surface.PhysicalDeviceSurfaceFormats(device)
	if err != nil {
		return details, err
	}

	details.PresentModes, _, err = r.surface.PhysicalDeviceSurfacePresentModes(device)
	return details, err
}

func (r *Renderer) createLogicalDevice() error {
	var queueFamilyOptions []core1_0.DeviceQueueCreateInfo
	queuePriority := float32(1.0)
	for _, queueFamily := range r.queueFamilies.Unique() {
		queueFamilyOptions = append(queueFamilyOptions, core1_0.DeviceQueueCreateInfo{
			QueueFamilyIndex: queueFamily,
			QueuePriorities:  []float32{queuePriority},
		})
	}

	var extensionNames []string
	extensionNames = append(extensionNames, deviceExtensions...)

	// Must be enabled whenever the device exposes it (MoltenVK).
	extensions, _, err := r.physicalDevice.EnumerateDeviceExtensionProperties()
	if err != nil {
		return err
	}
	if _, supported := extensions[khr_portability_subset.ExtensionName]; supported {
		extensionNames = append(extensionNames, khr_portability_subset.ExtensionName)
	}

	r.device, _, err = r.physicalDevice.CreateDevice(nil, core1_0.DeviceCreateInfo{
		QueueCreateInfos:      queueFamilyOptions,
		EnabledFeatures:       &core1_0.PhysicalDeviceFeatures{},
		EnabledExtensionNames: extensionNames,
	})
	if err != nil {
		return err
	}

	r.graphicsQueue = r.device.GetQueue(*r.queueFamilies.GraphicsFamily, 0)
	r.presentQueue = r.device.GetQueue(*r.queueFamilies.PresentFamily, 0)
	r.swapchainExtension = khr_swapchain.CreateExtensionFromDevice(r.device)
	return nil
}
