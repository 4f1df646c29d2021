// Package gesture tells a click on the sprite apart from a press-and-drag.
package gesture

import "math"

// DefaultDeadZone is the pointer travel, in pixels, before a press turns
// into a drag.
const DefaultDeadZone = 4.0

// Phase represents where the pointer is in a press gesture
type Phase int

const (
	// PhaseIdle means no button is held over the sprite
	PhaseIdle Phase = iota
	// PhasePressed means the button is down but has not moved past the dead zone
	PhasePressed
	// PhaseDragging means the press has been confirmed as a drag
	PhaseDragging
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhasePressed:
		return "pressed"
	case PhaseDragging:
		return "dragging"
	default:
		return "unknown"
	}
}

// Event is emitted on phase transitions that matter to callers.
type Event int

const (
	EventNone Event = iota
	EventClick
	EventDragStart
	EventDragEnd
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventClick:
		return "click"
	case EventDragStart:
		return "drag-start"
	case EventDragEnd:
		return "drag-end"
	default:
		return "unknown"
	}
}

// Machine tracks a single pointer. With a zero DeadZone any movement while
// pressed starts a drag.
type Machine struct {
	DeadZone float64

	phase  Phase
	startX float64
	startY float64
}

// NewMachine creates a machine with the given dead zone. A negative value
// selects DefaultDeadZone.
func NewMachine(deadZone float64) *Machine {
	if deadZone < 0 {
		deadZone = DefaultDeadZone
	}
	return &Machine{DeadZone: deadZone}
}

// Phase returns the current phase.
func (m *Machine) Phase() Phase {
	return m.phase
}

// Origin returns where the current gesture was pressed.
func (m *Machine) Origin() (x, y float64) {
	return m.startX, m.startY
}

// Press starts a gesture at (x, y). A press while already pressed restarts
// the gesture from the new origin.
func (m *Machine) Press(x, y float64) {
	if m.phase == PhaseDragging {
		return
	}
	m.phase = PhasePressed
	m.startX = x
	m.startY = y
}

// Move reports pointer motion. It returns EventDragStart exactly once per
// gesture, when the pointer leaves the dead zone.
func (m *Machine) Move(x, y float64) Event {
	if m.phase != PhasePressed {
		return EventNone
	}
	if math.Hypot(x-m.startX, y-m.startY) <= m.DeadZone {
		return EventNone
	}
	m.phase = PhaseDragging
	return EventDragStart
}

// Release ends the gesture. A press that never left the dead zone is a click,
// including one whose "drag" moved zero pixels.
func (m *Machine) Release(x, y float64) Event {
	switch m.phase {
	case PhasePressed:
		m.phase = PhaseIdle
		return EventClick
	case PhaseDragging:
		m.phase = PhaseIdle
		return EventDragEnd
	default:
		return EventNone
	}
}

// Cancel abandons the gesture without emitting anything.
func (m *Machine) Cancel() {
	m.phase = PhaseIdle
}
