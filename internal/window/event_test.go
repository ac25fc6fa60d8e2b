package window

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name  string
		event sdl.Event
		want  Event
		ok    bool
	}{
		{name: "quit", event: &sdl.QuitEvent{Type: sdl.QUIT}, want: Quit, ok: true},
		{name: "close", event: &sdl.WindowEvent{Event: sdl.WINDOWEVENT_CLOSE}, want: Quit, ok: true},
		{name: "minimized", event: &sdl.WindowEvent{Event: sdl.WINDOWEVENT_MINIMIZED}, want: Minimized, ok: true},
		{name: "restored", event: &sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESTORED}, want: Restored, ok: true},
		{name: "maximized", event: &sdl.WindowEvent{Event: sdl.WINDOWEVENT_MAXIMIZED}, want: Restored, ok: true},
		{name: "resized", event: &sdl.WindowEvent{Event: sdl.WINDOWEVENT_RESIZED, Data1: 1024, Data2: 768}, want: Resized, ok: true},
		{name: "size changed", event: &sdl.WindowEvent{Event: sdl.WINDOWEVENT_SIZE_CHANGED}, want: Resized, ok: true},
		{name: "focus", event: &sdl.WindowEvent{Event: sdl.WINDOWEVENT_FOCUS_GAINED}},
		{name: "key", event: &sdl.KeyboardEvent{Type: sdl.KEYDOWN}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.event)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEventString(t *testing.T) {
	assert.Equal(t, "resized", Resized.String())
	assert.Equal(t, "unknown", Event(0).String())
}
