// Package status provides guarded state machines for document lifecycles.
//
// Each document type declares its closed set of states, its named actions
// and the source states each action is allowed from. Applying an action
// from a state outside the allowed set fails with INVALID_TRANSITION.
package status

import (
	"orderflow/internal/core/apperror"
)

// State is a document lifecycle state (e.g. "Draft", "Submitted").
type State string

// Action is a named operation on a document (e.g. "submit", "cancel").
type Action string

// KeepCurrent is the target for actions that are valid only from certain
// states but do not move the document (e.g. spawning a converted document).
const KeepCurrent State = ""

type transition struct {
	to   State
	from map[State]struct{}
}

// Machine is a guarded state machine for one document type.
// Build it once at package init; Apply is safe for concurrent use.
type Machine struct {
	docType     string
	initial     State
	terminal    map[State]struct{}
	transitions map[Action]transition
}

// NewMachine creates a machine for the given document type with its
// initial state.
func NewMachine(docType string, initial State) *Machine {
	return &Machine{
		docType:     docType,
		initial:     initial,
		terminal:    make(map[State]struct{}),
		transitions: make(map[Action]transition),
	}
}

// Allow registers an action moving the document to the target state.
// The action is permitted only from the listed source states.
func (m *Machine) Allow(action Action, to State, from ...State) *Machine {
	t := transition{to: to, from: make(map[State]struct{}, len(from))}
	for _, f := range from {
		t.from[f] = struct{}{}
	}
	m.transitions[action] = t
	return m
}

// MarkTerminal declares states that accept no further actions.
func (m *Machine) MarkTerminal(states ...State) *Machine {
	for _, s := range states {
		m.terminal[s] = struct{}{}
	}
	return m
}

// Initial returns the initial state for new documents.
func (m *Machine) Initial() State {
	return m.initial
}

// IsTerminal reports whether the state accepts no further actions.
func (m *Machine) IsTerminal(s State) bool {
	_, ok := m.terminal[s]
	return ok
}

// Knows reports whether the action is declared on this machine.
func (m *Machine) Knows(action Action) bool {
	_, ok := m.transitions[action]
	return ok
}

// Apply validates the action against the current state and returns the
// resulting state. For KeepCurrent actions the current state is returned.
func (m *Machine) Apply(current State, action Action) (State, error) {
	t, ok := m.transitions[action]
	if !ok {
		return current, apperror.NewValidation("unknown action").
			WithDetail("document_type", m.docType).
			WithDetail("action", string(action))
	}

	if m.IsTerminal(current) {
		return current, apperror.NewInvalidTransition(m.docType, string(current), string(action))
	}

	if _, allowed := t.from[current]; !allowed {
		return current, apperror.NewInvalidTransition(m.docType, string(current), string(action))
	}

	if t.to == KeepCurrent {
		return current, nil
	}
	return t.to, nil
}
