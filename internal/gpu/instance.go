package gpu

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/core/common"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/ext_debug_utils"
)

var validationLayers = []string{"VK_LAYER_KHRONOS_validation"}

// VK_KHR_portability_enumeration has no wrapper package in extensions v1.
const (
	portabilityEnumerationExtension                                = "VK_KHR_portability_enumeration"
	instanceCreateEnumeratePortability core1_0.InstanceCreateFlags = 0x00000001
)

func (r *Renderer) createInstance() error {
	instanceOptions := core1_0.InstanceCreateInfo{
		ApplicationName:    "Hello Triangle",
		ApplicationVersion: common.CreateVersion(1, 0, 0),
		EngineName:         "No Engine",
		EngineVersion:      common.CreateVersion(1, 0, 0),
		APIVersion:         common.Vulkan1_2,
	}

	extensions, _, err := r.loader.AvailableExtensions()
	if err != nil {
		return err
	}

	required := r.window.InstanceExtensions()
	if r.cfg.Validation {
		required = append(required, ext_debug_utils.ExtensionName)
	}
	instanceOptions.EnabledExtensionNames, err = requireNames(extensions, required, ErrMissingExtension)
	if err != nil {
		return err
	}

	// Needed to see MoltenVK devices on macOS.
	if _, ok := extensions[portabilityEnumerationExtension]; ok {
		instanceOptions.EnabledExtensionNames = append(instanceOptions.EnabledExtensionNames, portabilityEnumerationExtension)
		instanceOptions.Flags |= instanceCreateEnumeratePortability
	}

	if r.cfg.Validation {
		layers, _, err := r.loader.AvailableLayers()
		if err != nil {
			return err
		}

		instanceOptions.EnabledLayerNames, err = requireNames(layers, validationLayers, ErrMissingLayer)
		if err != nil {
			return errors.WithHint(err, "install the LunarG Vulkan SDK or disable renderer.validation")
		}

		// Covers vkCreateInstance and vkDestroyInstance themselves.
		instanceOptions.Next = r.debugMessengerOptions()
	}

	r.instance, _, err = r.loader.CreateInstance(nil, instanceOptions)
	if err != nil {
		return err
	}

	r.logger.Debug("created instance",
		"extensions", instanceOptions.EnabledExtensionNames,
		"layers", instanceOptions.EnabledLayerNames)
	return nil
}

func (r *Renderer) debugMessengerOptions() ext_debug_utils.DebugUtilsMessengerCreateInfo {
	return ext_debug_utils.DebugUtilsMessengerCreateInfo{
		MessageSeverity: ext_debug_utils.SeverityError | ext_debug_utils.SeverityWarning | ext_debug_utils.SeverityInfo | ext_debug_utils.SeverityVerbose,
		MessageType:     ext_debug_utils.TypeGeneral | ext_debug_utils.TypeValidation | ext_debug_utils.TypePerformance,
		UserCallback:    r.logDebug,
	}
}

func (r *Renderer) setupDebugMessenger() error {
	if !r.cfg.Validation {
		return nil
	}

	var err error
	debugLoader := ext_debug_utils.CreateExtensionFromInstance(r.instance)
	r.debugMessenger, _, err = debugLoader.CreateDebugUtilsMessenger(r.instance, nil, r.debugMessengerOptions())
	return err
}

// ignoredMessages are validation message IDs that fire on correct use of
// this renderer and only add noise.
var ignoredMessages = map[uint32]struct{}{
	0x822806fa: {},
	0xe8d1a9fe: {},
}

func debugLevel(severity ext_debug_utils.DebugUtilsMessageSeverityFlags) slog.Level {
	switch {
	case severity&ext_debug_utils.SeverityError != 0:
		return slog.LevelError
	case severity&ext_debug_utils.SeverityWarning != 0:
		return slog.LevelWarn
	}
	// Info from the loader and layers is chatty enough to count as debug.
	return slog.LevelDebug
}

func (r *Renderer) logDebug(msgType ext_debug_utils.DebugUtilsMessageTypeFlags, severity ext_debug_utils.DebugUtilsMessageSeverityFlags, data *ext_debug_utils.DebugUtilsMessengerCallbackData) bool {
	if _, ok := ignoredMessages[uint32(data.MessageIDNumber)]; ok {
		return false
	}

	ctx := context.Background()
	level := debugLevel(severity)
	if !r.logger.Enabled(ctx, level) {
		return false
	}

	attrs := []any{
		"type", msgType.String(),
		"id_name", data.MessageIDName,
		"id", fmt.Sprintf("%#x", uint32(data.MessageIDNumber)),
		"message", data.Message,
	}
	if len(data.QueueLabels) > 0 {
		attrs = append(attrs, "queue_labels", labelNames(data.QueueLabels))
	}
	if len(data.CmdBufLabels) > 0 {
		attrs = append(attrs, "command_buffer_labels", labelNames(data.CmdBufLabels))
	}
	if len(data.Objects) > 0 {
		objects := make([]string, 0, len(data.Objects))
		for _, object := range data.Objects {
			desc := fmt.Sprintf("%s %#x", object.ObjectType, uintptr(object.ObjectHandle))
			if object.ObjectName != "" {
				desc += " " + strconv.Quote(object.ObjectName)
			}
			objects = append(objects, desc)
		}
		attrs = append(attrs, "objects", objects)
	}

	r.logger.Log(ctx, level, "vulkan", attrs...)
	return false
}

func labelNames(labels []ext_debug_utils.DebugUtilsLabel) []string {
	names := make([]string, len(labels))
	for i, label := range labels {
		names[i] = label.LabelName
	}
	return names
}

func (r *Renderer) createSurface() error {
	surface, err := r.window.CreateSurface(r.instance)
	if err != nil {
		return err
	}

	r.surface = surface
	return nil
}
