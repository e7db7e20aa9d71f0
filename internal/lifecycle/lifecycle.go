package lifecycle

import (
	"errors"
	"fmt"
)

// State is the observable state of the main window
type State int

const (
	StateVisible State = iota
	StateHidden
	StateTerminated
)

func (s State) String() string {
	switch s {
	case StateVisible:
		return "visible"
	case StateHidden:
		return "hidden"
	case StateTerminated:
		return "terminated"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Event is a user action delivered by the windowing system
type Event string

const (
	// EventCloseRequested is the OS close box, never the explicit quit path
	EventCloseRequested  Event = "close_requested"
	EventMenuShow        Event = "menu_show"
	EventMenuQuit        Event = "menu_quit"
	EventTrayClick       Event = "tray_click"
	EventTrayDoubleClick Event = "tray_double_click"
)

// ErrUnknownEvent is returned by ParseEvent for unrecognised names
var ErrUnknownEvent = errors.New("unknown lifecycle event")

// ParseEvent converts a wire name into an Event
func ParseEvent(name string) (Event, error) {
	switch ev := Event(name); ev {
	case EventCloseRequested, EventMenuShow, EventMenuQuit, EventTrayClick, EventTrayDoubleClick:
		return ev, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
}

// Effect is a side effect on the window or process
type Effect int

const (
	EffectShow Effect = iota
	EffectFocus
	EffectHide
	EffectExit
)

func (e Effect) String() string {
	switch e {
	case EffectShow:
		return "show"
	case EffectFocus:
		return "focus"
	case EffectHide:
		return "hide"
	case EffectExit:
		return "exit"
	default:
		return fmt.Sprintf("Effect(%d)", int(e))
	}
}

// Transition is the decision for one event: the next state, the effects to
// run in order, and whether the default close action must be cancelled.
type Transition struct {
	From         State
	To           State
	Effects      []Effect
	PreventClose bool
}

// Decide computes the transition for event in state. It has no side effects.
func Decide(state State, event Event) Transition {
	t := Transition{From: state, To: state}
	if state == StateTerminated {
		return t
	}

	switch event {
	case EventCloseRequested:
		t.To = StateHidden
		t.Effects = []Effect{EffectHide}
		t.PreventClose = true
	case EventMenuShow, EventTrayClick, EventTrayDoubleClick:
		t.To = StateVisible
		t.Effects = []Effect{EffectShow, EffectFocus}
	case EventMenuQuit:
		t.To = StateTerminated
		t.Effects = []Effect{EffectExit}
	}
	return t
}
