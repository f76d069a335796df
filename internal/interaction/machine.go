// Package interaction tracks the in-progress pointer gesture over the
// label: which span is pressed, highlight transitions, and the touch
// results emitted to the caller.
package interaction

import (
	"github.com/google/uuid"

	"linklabel/internal/layout"
	"linklabel/internal/log"
	"linklabel/internal/span"
)

// PointerPhase is the phase of an incoming pointer event.
type PointerPhase int

const (
	PhasePress PointerPhase = iota
	PhaseMove
	PhaseRelease
	PhaseCancel
)

func (p PointerPhase) String() string {
	switch p {
	case PhasePress:
		return "press"
	case PhaseMove:
		return "move"
	case PhaseRelease:
		return "release"
	case PhaseCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// PointerEvent is a platform-neutral pointer/touch event. Multi-touch
// identities ride along in PointerIDs but do not fan out into parallel
// gesture sessions; one session is tracked at a time.
type PointerEvent struct {
	Phase      PointerPhase
	Point      layout.Point
	PointerIDs []int

	// Raw carries the originating platform event, opaque to the engine.
	Raw any
}

// ResultPhase is the phase reported on an emitted TouchResult.
type ResultPhase int

const (
	Began ResultPhase = iota
	Changed
	Ended
	Cancelled
)

func (p ResultPhase) String() string {
	switch p {
	case Began:
		return "began"
	case Changed:
		return "changed"
	case Ended:
		return "ended"
	case Cancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

// TouchResult reports one interaction callback: the span involved, the
// gesture phase, and the pointers and raw event that drove it.
type TouchResult struct {
	Span       span.Span
	Phase      ResultPhase
	PointerIDs []int
	Raw        any

	// Session identifies the gesture: every result between one press
	// and its release/cancel carries the same id.
	Session uuid.UUID
}

// Callbacks connect the machine to the document: span resolution at a
// point, and the highlight overlays.
type Callbacks struct {
	Resolve     func(layout.Point) (span.Span, bool)
	Highlight   func(span.Span)
	Unhighlight func(span.Span)
}

// Machine is the interaction state machine: idle, or pressing one span.
type Machine struct {
	cb       Callbacks
	pressing *span.Span
	session  uuid.UUID
}

// NewMachine creates an idle machine.
func NewMachine(cb Callbacks) *Machine {
	return &Machine{cb: cb}
}

// Pressing returns the currently pressed span, if any.
func (m *Machine) Pressing() (span.Span, bool) {
	if m.pressing == nil {
		return span.Span{}, false
	}
	return *m.pressing, true
}

// Reset drops any in-progress gesture without emitting a result,
// restoring the pressed span's style. Used when the document is rebuilt
// mid-gesture.
func (m *Machine) Reset() {
	if m.pressing != nil {
		m.cb.Unhighlight(*m.pressing)
	}
	m.pressing = nil
}

// Handle advances the state machine with one pointer event. The
// returned TouchResult is valid only when ok is true; explicit-link
// actions fire on Ended, after all state transitions complete.
func (m *Machine) Handle(ev PointerEvent) (TouchResult, bool) {
	switch ev.Phase {
	case PhasePress:
		return m.press(ev)
	case PhaseMove:
		return m.move(ev)
	case PhaseRelease:
		return m.release(ev)
	case PhaseCancel:
		return m.cancel(ev)
	}
	return TouchResult{}, false
}

func (m *Machine) press(ev PointerEvent) (TouchResult, bool) {
	// A stray press during an active gesture restarts tracking.
	if m.pressing != nil {
		m.cb.Unhighlight(*m.pressing)
		m.pressing = nil
	}

	s, ok := m.cb.Resolve(ev.Point)
	if !ok {
		return TouchResult{}, false
	}

	m.pressing = &s
	m.session = uuid.New()
	m.cb.Highlight(s)
	log.Debug(log.CatInteract, "gesture began", "kind", s.Kind, "text", s.Text)
	return m.result(s, Began, ev), true
}

func (m *Machine) move(ev PointerEvent) (TouchResult, bool) {
	if m.pressing == nil {
		return TouchResult{}, false
	}

	s, ok := m.cb.Resolve(ev.Point)
	if !ok {
		// Pointer left all spans: restore and go idle.
		m.cb.Unhighlight(*m.pressing)
		m.pressing = nil
		return TouchResult{}, false
	}
	if s.SameRegion(*m.pressing) {
		return TouchResult{}, false
	}

	m.cb.Unhighlight(*m.pressing)
	m.pressing = &s
	m.cb.Highlight(s)
	return m.result(s, Changed, ev), true
}

func (m *Machine) release(ev PointerEvent) (TouchResult, bool) {
	// Restore styling on whatever span sits under the final point.
	if under, ok := m.cb.Resolve(ev.Point); ok {
		m.cb.Unhighlight(under)
	}

	if m.pressing == nil {
		return TouchResult{}, false
	}
	s := *m.pressing
	m.cb.Unhighlight(s)
	m.pressing = nil

	res := m.result(s, Ended, ev)
	log.Debug(log.CatInteract, "gesture ended", "kind", s.Kind, "text", s.Text)

	// Action last: the gesture is fully settled before caller code runs,
	// so an action that re-sets text observes a consistent machine.
	if action := s.Action(); action != nil {
		action()
	}
	return res, true
}

func (m *Machine) cancel(ev PointerEvent) (TouchResult, bool) {
	if under, ok := m.cb.Resolve(ev.Point); ok {
		m.cb.Unhighlight(under)
	}

	if m.pressing == nil {
		return TouchResult{}, false
	}
	s := *m.pressing
	m.cb.Unhighlight(s)
	m.pressing = nil
	return m.result(s, Cancelled, ev), true
}

func (m *Machine) result(s span.Span, phase ResultPhase, ev PointerEvent) TouchResult {
	return TouchResult{
		Span:       s,
		Phase:      phase,
		PointerIDs: ev.PointerIDs,
		Raw:        ev.Raw,
		Session:    m.session,
	}
}
