// Package input handles SDL2 input events.
package input

import (
	"github.com/veandco/go-sdl2/sdl"
)

// EventType is the kind of a processed event.
type EventType int

const (
	EventNone EventType = iota
	EventQuit
	EventWindowResize
	EventKeyDown
	EventKeyUp
)

// Event represents a processed input event.
type Event struct {
	Type   EventType
	Key    sdl.Scancode
	Width  int
	Height int
}

// Actions is what the app loop reacts to after one Update.
type Actions struct {
	Quit        bool
	Screenshot  bool
	PickDiffuse bool
	PickNormal  bool
	Resized     bool
	Width       int
	Height      int
}

// Input handles all input processing.
type Input struct {
	events []Event
}

// New creates a new input handler.
func New() *Input {
	return &Input{
		events: make([]Event, 0, 16),
	}
}

// Update drains the SDL event queue and returns the resulting actions.
// Escape and window close both quit; F12 takes a screenshot; F2 and F3
// pick a new diffuse texture or normal map.
func (i *Input) Update() Actions {
	i.events = i.events[:0]

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		if e, ok := translate(event); ok {
			i.events = append(i.events, e)
		}
	}
	return Collect(i.events)
}

// Events returns the events from the last Update.
func (i *Input) Events() []Event {
	return i.events
}

// IsKeyPressed checks if a specific key was pressed this frame.
func (i *Input) IsKeyPressed(scancode sdl.Scancode) bool {
	for _, e := range i.events {
		if e.Type == EventKeyDown && e.Key == scancode {
			return true
		}
	}
	return false
}

func translate(event sdl.Event) (Event, bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return Event{Type: EventQuit}, true

	case *sdl.WindowEvent:
		switch e.Event {
		case sdl.WINDOWEVENT_RESIZED, sdl.WINDOWEVENT_SIZE_CHANGED:
			return Event{
				Type:   EventWindowResize,
				Width:  int(e.Data1),
				Height: int(e.Data2),
			}, true
		case sdl.WINDOWEVENT_CLOSE:
			return Event{Type: EventQuit}, true
		}

	case *sdl.KeyboardEvent:
		if e.Repeat != 0 {
			return Event{}, false
		}
		if e.Type == sdl.KEYDOWN {
			return Event{Type: EventKeyDown, Key: e.Keysym.Scancode}, true
		} else if e.Type == sdl.KEYUP {
			return Event{Type: EventKeyUp, Key: e.Keysym.Scancode}, true
		}
	}
	return Event{}, false
}

// Collect folds events into actions. The last resize wins.
func Collect(events []Event) Actions {
	var a Actions
	for _, e := range events {
		switch e.Type {
		case EventQuit:
			a.Quit = true
		case EventWindowResize:
			a.Resized = true
			a.Width, a.Height = e.Width, e.Height
		case EventKeyDown:
			switch e.Key {
			case sdl.SCANCODE_ESCAPE:
				a.Quit = true
			case sdl.SCANCODE_F12:
				a.Screenshot = true
			case sdl.SCANCODE_F2:
				a.PickDiffuse = true
			case sdl.SCANCODE_F3:
				a.PickNormal = true
			}
		}
	}
	return a
}
