// Package window owns the SDL window the renderer presents to.
package window

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/veandco/go-sdl2/sdl"
	"github.com/vkngwrapper/core/core1_0"
	"github.com/vkngwrapper/extensions/khr_surface"
	vkng_sdl2 "github.com/vkngwrapper/integrations/sdl2"

	"github.com/vkngwrapper/hello-triangle/internal/config"
)

type Window struct {
	window *sdl.Window
}

// Open initializes SDL video and creates a Vulkan-capable window. SDL must
// be driven from the main OS thread.
func Open(cfg config.WindowConfig) (*Window, error) {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return nil, errors.Wrap(err, "init sdl")
	}

	flags := uint32(sdl.WINDOW_SHOWN | sdl.WINDOW_VULKAN)
	if cfg.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}

	window, err := sdl.CreateWindow(cfg.Title, sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		sdl.Quit()
		return nil, errors.Wrap(err, "create window")
	}

	return &Window{window: window}, nil
}

// ProcAddr is the address of vkGetInstanceProcAddr from SDL's Vulkan loader.
func (w *Window) ProcAddr() unsafe.Pointer {
	return sdl.VulkanGetVkGetInstanceProcAddr()
}

// InstanceExtensions lists the instance extensions SDL needs to create a
// surface for this window.
func (w *Window) InstanceExtensions() []string {
	return w.window.VulkanGetInstanceExtensions()
}

// DrawableSize is the window's size in pixels, which can differ from its
// size in screen coordinates on high-DPI displays.
func (w *Window) DrawableSize() (width, height int) {
	dw, dh := w.window.VulkanGetDrawableSize()
	return int(dw), int(dh)
}

// Minimized reports whether the window is currently iconified.
func (w *Window) Minimized() bool {
	return w.window.GetFlags()&sdl.WINDOW_MINIMIZED != 0
}

func (w *Window) CreateSurface(instance core1_0.Instance) (khr_surface.Surface, error) {
	surfaceLoader := khr_surface.CreateExtensionFromInstance(instance)

	surface, err := vkng_sdl2.CreateSurface(instance, surfaceLoader, w.window)
	if err != nil {
		return nil, errors.Wrap(err, "create window surface")
	}
	return surface, nil
}

// Poll drains SDL's event queue.
func (w *Window) Poll() []Event {
	var events []Event
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := Translate(event); ok {
			events = append(events, e)
		}
	}
	return events
}

func (w *Window) Close() {
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
	}
	sdl.Quit()
}
