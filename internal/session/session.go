// Package session models the operator login lifecycle as a small explicit
// state machine instead of implicit UI branching: a fresh install starts in
// Registering until the first account exists, after that the machine moves
// between Unauthenticated and Authenticated on discrete events.
package session

import (
	"errors"
	"fmt"
	"sync"
)

// State is the operator session state.
type State int

const (
	Unauthenticated State = iota
	Registering
	Authenticated
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Registering:
		return "registering"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrInvalidTransition is returned for an event that is illegal in the
// current state.
var ErrInvalidTransition = errors.New("invalid session transition")

// Machine tracks the single operator session. The tool is single-user, but
// the HTTP adapter may touch it from concurrent requests, so transitions
// are guarded by a mutex.
type Machine struct {
	mu    sync.Mutex
	state State
}

// New starts in Registering when no operator account exists yet, otherwise
// in Unauthenticated.
func New(firstRun bool) *Machine {
	if firstRun {
		return &Machine{state: Registering}
	}
	return &Machine{state: Unauthenticated}
}

func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LoginOK moves Unauthenticated -> Authenticated.
func (m *Machine) LoginOK() error {
	return m.transition(Unauthenticated, Authenticated)
}

// LoginFailed keeps the machine in Unauthenticated; failing a login from
// any other state is a programming error.
func (m *Machine) LoginFailed() error {
	return m.transition(Unauthenticated, Unauthenticated)
}

// RegisterOK moves Registering -> Unauthenticated: the first account now
// exists and the operator must log in with it.
func (m *Machine) RegisterOK() error {
	return m.transition(Registering, Unauthenticated)
}

// Logout moves Authenticated -> Unauthenticated.
func (m *Machine) Logout() error {
	return m.transition(Authenticated, Unauthenticated)
}

func (m *Machine) transition(from, to State) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != from {
		return fmt.Errorf("%w: %s -> %s while %s", ErrInvalidTransition, from, to, m.state)
	}
	m.state = to
	return nil
}
