package game

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoSession is returned when live state is used before CreateGameObjects.
var ErrNoSession = errors.New("game: game objects not created")

// Pending is a load that completes later. Await blocks until the load
// settles and reports whether it succeeded.
type Pending interface {
	Await(ctx context.Context) (bool, error)
}

// PendingFunc adapts a function to Pending.
type PendingFunc func(ctx context.Context) (bool, error)

// Await implements Pending.
func (f PendingFunc) Await(ctx context.Context) (bool, error) {
	if f == nil {
		return false, nil
	}
	return f(ctx)
}

// Resolved returns a Pending that is already settled.
func Resolved(ok bool, err error) Pending {
	return PendingFunc(func(context.Context) (bool, error) {
		return ok, err
	})
}

type slot struct {
	variables map[int]float64
	switches  map[int]bool
}

// Session is a minimal host: it creates fresh containers on
// CreateGameObjects, saves their contents into numbered slots, and restores
// them on LoadGame. Observers registered on the session survive container
// replacement.
type Session struct {
	variables *Variables
	switches  *Switches

	variableObservers []VariableObserver
	switchObservers   []SwitchObserver

	slots map[int]slot
}

// NewSession returns a session with no game objects yet.
func NewSession() *Session {
	return &Session{slots: map[int]slot{}}
}

// ObserveVariables registers observer on the current and every future
// variable container.
func (s *Session) ObserveVariables(observer VariableObserver) {
	if observer == nil {
		return
	}
	s.variableObservers = append(s.variableObservers, observer)
	if s.variables != nil {
		s.variables.Observe(observer)
	}
}

// ObserveSwitches registers observer on the current and every future switch
// container.
func (s *Session) ObserveSwitches(observer SwitchObserver) {
	if observer == nil {
		return
	}
	s.switchObservers = append(s.switchObservers, observer)
	if s.switches != nil {
		s.switches.Observe(observer)
	}
}

// CreateGameObjects replaces the live containers with empty ones.
func (s *Session) CreateGameObjects(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.reset(nil, nil)
	return nil
}

// SaveGame copies the live containers into slotID.
func (s *Session) SaveGame(ctx context.Context, slotID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.variables == nil || s.switches == nil {
		return ErrNoSession
	}
	if s.slots == nil {
		s.slots = map[int]slot{}
	}
	s.slots[slotID] = slot{
		variables: s.variables.Values(),
		switches:  s.switches.Values(),
	}
	return nil
}

// LoadGame restores slotID into fresh containers. It reports false when the
// slot holds no save, leaving the live containers untouched.
func (s *Session) LoadGame(ctx context.Context, slotID int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	saved, ok := s.slots[slotID]
	if !ok {
		return false, nil
	}
	s.reset(saved.variables, saved.switches)
	return true, nil
}

// LoadGameAsync defers LoadGame until the returned Pending is awaited.
func (s *Session) LoadGameAsync(_ context.Context, slotID int) Pending {
	return PendingFunc(func(ctx context.Context) (bool, error) {
		return s.LoadGame(ctx, slotID)
	})
}

// HasSave reports whether slotID holds a save.
func (s *Session) HasSave(slotID int) bool {
	_, ok := s.slots[slotID]
	return ok
}

// Variables returns the live variable container, nil before
// CreateGameObjects.
func (s *Session) Variables() *Variables {
	return s.variables
}

// Switches returns the live switch container, nil before CreateGameObjects.
func (s *Session) Switches() *Switches {
	return s.switches
}

// Variable reads id from the live variables.
func (s *Session) Variable(id int) float64 {
	return s.variables.Value(id)
}

// SetVariable writes id through the live container so observers fire.
func (s *Session) SetVariable(id int, value float64) error {
	if s.variables == nil {
		return fmt.Errorf("%w: set variable %d", ErrNoSession, id)
	}
	return s.variables.SetValue(id, value)
}

// Switch reads id from the live switches.
func (s *Session) Switch(id int) bool {
	return s.switches.Value(id)
}

// SetSwitch writes id through the live container so observers fire.
func (s *Session) SetSwitch(id int, value bool) error {
	if s.switches == nil {
		return fmt.Errorf("%w: set switch %d", ErrNoSession, id)
	}
	return s.switches.SetValue(id, value)
}

func (s *Session) reset(variables map[int]float64, switches map[int]bool) {
	s.variables = NewVariables()
	s.variables.restore(variables)
	for _, observer := range s.variableObservers {
		s.variables.Observe(observer)
	}
	s.switches = NewSwitches()
	s.switches.restore(switches)
	for _, observer := range s.switchObservers {
		s.switches.Observe(observer)
	}
}
