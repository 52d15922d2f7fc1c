package input

import (
	"testing"

	"github.com/veandco/go-sdl2/sdl"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name string
		in   sdl.Event
		want Event
		ok   bool
	}{
		{"quit", &sdl.QuitEvent{Type: sdl.QUIT}, Event{Type: EventQuit}, true},
		{
			"resize",
			&sdl.WindowEvent{Type: sdl.WINDOWEVENT, Event: sdl.WINDOWEVENT_SIZE_CHANGED, Data1: 800, Data2: 600},
			Event{Type: EventWindowResize, Width: 800, Height: 600},
			true,
		},
		{
			"key down",
			&sdl.KeyboardEvent{Type: sdl.KEYDOWN, Keysym: sdl.Keysym{Scancode: sdl.SCANCODE_W}},
			Event{Type: EventKeyDown, Key: sdl.SCANCODE_W},
			true,
		},
		{
			"motion",
			&sdl.MouseMotionEvent{Type: sdl.MOUSEMOTION, X: 10, Y: 20, XRel: 3, YRel: -4},
			Event{Type: EventMouseMove, MouseX: 10, MouseY: 20, DeltaX: 3, DeltaY: -4},
			true,
		},
		{
			"right button",
			&sdl.MouseButtonEvent{Type: sdl.MOUSEBUTTONDOWN, Button: sdl.BUTTON_RIGHT, X: 5, Y: 6},
			Event{Type: EventMouseDown, Button: sdl.BUTTON_RIGHT, MouseX: 5, MouseY: 6},
			true,
		},
		{
			"flipped wheel",
			&sdl.MouseWheelEvent{Type: sdl.MOUSEWHEEL, Y: 2, Direction: sdl.MOUSEWHEEL_FLIPPED},
			Event{Type: EventMouseWheel, Wheel: -2},
			true,
		},
		{"ignored", &sdl.TextInputEvent{Type: sdl.TEXTINPUT}, Event{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Translate(tt.in)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestIsKeyPressedIgnoresRepeat(t *testing.T) {
	in := New()
	in.events = append(in.events,
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_L, Repeat: true},
		Event{Type: EventKeyDown, Key: sdl.SCANCODE_J},
	)
	if in.IsKeyPressed(sdl.SCANCODE_L) {
		t.Error("repeat should not count as a press")
	}
	if !in.IsKeyPressed(sdl.SCANCODE_J) {
		t.Error("expected J pressed")
	}
	if in.IsKeyDown(sdl.SCANCODE_J) {
		t.Error("no keyboard state captured yet")
	}
}
