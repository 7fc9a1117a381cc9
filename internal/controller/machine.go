package controller

// State is the phase of an asynchronous operation
type State int

const (
	StateIdle State = iota
	StateLoading
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Machine is an Idle | Loading | Succeeded(T) | Failed(message) state machine.
// The payload is only readable in Succeeded and the message only in Failed,
// so a Loading machine never exposes a stale error.
type Machine[T any] struct {
	state   State
	value   T
	message string
}

// State returns the current phase
func (m *Machine[T]) State() State {
	return m.state
}

// Loading reports whether an operation is in flight
func (m *Machine[T]) Loading() bool {
	return m.state == StateLoading
}

// Value returns the payload of a Succeeded machine
func (m *Machine[T]) Value() (T, bool) {
	if m.state != StateSucceeded {
		var zero T
		return zero, false
	}
	return m.value, true
}

// Message returns the failure message of a Failed machine
func (m *Machine[T]) Message() (string, bool) {
	if m.state != StateFailed {
		return "", false
	}
	return m.message, true
}

func (m *Machine[T]) begin() {
	var zero T
	m.state = StateLoading
	m.value = zero
	m.message = ""
}

func (m *Machine[T]) succeed(value T) {
	m.state = StateSucceeded
	m.value = value
	m.message = ""
}

func (m *Machine[T]) fail(message string) {
	var zero T
	m.state = StateFailed
	m.value = zero
	m.message = message
}

func (m *Machine[T]) reset() {
	var zero T
	m.state = StateIdle
	m.value = zero
	m.message = ""
}
