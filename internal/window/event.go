package window

import "github.com/veandco/go-sdl2/sdl"

type Event int

const (
	Quit Event = iota + 1
	// Resized is raised whenever the drawable area may have changed size.
	Resized
	Minimized
	Restored
)

func (e Event) String() string {
	switch e {
	case Quit:
		return "quit"
	case Resized:
		return "resized"
	case Minimized:
		return "minimized"
	case Restored:
		return "restored"
	}
	return "unknown"
}

// Translate maps an SDL event to the renderer's view of it. Events the
// renderer doesn't care about return false.
func Translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Quit, true
	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_CLOSE:
			return Quit, true
		case sdl.WINDOWEVENT_MINIMIZED:
			return Minimized, true
		case sdl.WINDOWEVENT_RESTORED, sdl.WINDOWEVENT_MAXIMIZED:
			return Restored, true
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			return Resized, true
		}
	}
	return 0, false
}
