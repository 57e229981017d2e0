package game_test

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-globals/pkg/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type variableWrite struct {
	id         int
	old, value float64
}

func TestVariablesNotifyObserversAfterWrite(t *testing.T) {
	vars := game.NewVariables()
	var seen []variableWrite
	vars.Observe(game.VariableObserverFunc(func(id int, old, value float64) error {
		// the write is visible to observers
		assert.Equal(t, value, vars.Value(id))
		seen = append(seen, variableWrite{id, old, value})
		return nil
	}))

	require.NoError(t, vars.SetValue(3, 10))
	require.NoError(t, vars.SetValue(3, 10))
	require.NoError(t, vars.SetValue(3, -2.5))

	assert.Equal(t, []variableWrite{{3, 0, 10}, {3, 10, 10}, {3, 10, -2.5}}, seen)
	assert.Equal(t, 0.0, vars.Value(99))
}

func TestVariablesJoinObserverErrorsAndKeepWrite(t *testing.T) {
	vars := game.NewVariables()
	errA := errors.New("a")
	errB := errors.New("b")
	calls := 0
	vars.Observe(game.VariableObserverFunc(func(int, float64, float64) error { calls++; return errA }))
	vars.Observe(game.VariableObserverFunc(func(int, float64, float64) error { calls++; return nil }))
	vars.Observe(game.VariableObserverFunc(func(int, float64, float64) error { calls++; return errB }))

	err := vars.SetValue(1, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, errA)
	assert.ErrorIs(t, err, errB)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 5.0, vars.Value(1))
}

func TestSwitchesNotifyObservers(t *testing.T) {
	switches := game.NewSwitches()
	var olds, values []bool
	switches.Observe(game.SwitchObserverFunc(func(id int, old, value bool) error {
		assert.Equal(t, 4, id)
		olds = append(olds, old)
		values = append(values, value)
		return nil
	}))

	require.NoError(t, switches.SetValue(4, true))
	require.NoError(t, switches.SetValue(4, false))

	assert.Equal(t, []bool{false, true}, olds)
	assert.Equal(t, []bool{true, false}, values)
	assert.False(t, switches.Value(4))
}

func TestValuesReturnsCopy(t *testing.T) {
	vars := game.NewVariables()
	require.NoError(t, vars.SetValue(1, 1))
	values := vars.Values()
	values[1] = 100
	assert.Equal(t, 1.0, vars.Value(1))
}

func TestSessionRequiresGameObjects(t *testing.T) {
	session := game.NewSession()
	assert.ErrorIs(t, session.SetVariable(1, 1), game.ErrNoSession)
	assert.ErrorIs(t, session.SetSwitch(1, true), game.ErrNoSession)
	assert.ErrorIs(t, session.SaveGame(context.Background(), 1), game.ErrNoSession)
	assert.Equal(t, 0.0, session.Variable(1))
	assert.False(t, session.Switch(1))
}

func TestSessionObserversSurviveContainerReplacement(t *testing.T) {
	ctx := context.Background()
	session := game.NewSession()
	writes := 0
	session.ObserveVariables(game.VariableObserverFunc(func(int, float64, float64) error {
		writes++
		return nil
	}))

	require.NoError(t, session.CreateGameObjects(ctx))
	require.NoError(t, session.SetVariable(1, 1))
	require.NoError(t, session.SaveGame(ctx, 1))

	require.NoError(t, session.CreateGameObjects(ctx))
	require.NoError(t, session.SetVariable(1, 2))

	ok, err := session.LoadGame(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, session.SetVariable(2, 3))

	// restoring a slot does not notify
	assert.Equal(t, 3, writes)
	assert.Equal(t, 1.0, session.Variable(1))
}

func TestSessionSaveAndLoadSlots(t *testing.T) {
	ctx := context.Background()
	session := game.NewSession()
	require.NoError(t, session.CreateGameObjects(ctx))
	require.NoError(t, session.SetVariable(7, 70))
	require.NoError(t, session.SetSwitch(2, true))
	require.NoError(t, session.SaveGame(ctx, 3))
	assert.True(t, session.HasSave(3))

	require.NoError(t, session.SetVariable(7, 0))
	require.NoError(t, session.SetSwitch(2, false))

	ok, err := session.LoadGame(ctx, 3)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 70.0, session.Variable(7))
	assert.True(t, session.Switch(2))
}

func TestSessionLoadMissingSlotKeepsState(t *testing.T) {
	ctx := context.Background()
	session := game.NewSession()
	require.NoError(t, session.CreateGameObjects(ctx))
	require.NoError(t, session.SetVariable(1, 9))

	ok, err := session.LoadGame(ctx, 42)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 9.0, session.Variable(1))
}

func TestSessionLoadGameAsyncDefersUntilAwait(t *testing.T) {
	ctx := context.Background()
	session := game.NewSession()
	require.NoError(t, session.CreateGameObjects(ctx))
	require.NoError(t, session.SetVariable(1, 1))
	require.NoError(t, session.SaveGame(ctx, 1))
	require.NoError(t, session.SetVariable(1, 2))

	pending := session.LoadGameAsync(ctx, 1)
	assert.Equal(t, 2.0, session.Variable(1))

	ok, err := pending.Await(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, 1.0, session.Variable(1))
}

func TestSessionHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	session := game.NewSession()
	assert.ErrorIs(t, session.CreateGameObjects(ctx), context.Canceled)
	_, err := session.LoadGame(ctx, 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolvedPending(t *testing.T) {
	boom := errors.New("boom")
	ok, err := game.Resolved(false, boom).Await(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, err, boom)

	var nilPending game.PendingFunc
	ok, err = nilPending.Await(context.Background())
	assert.False(t, ok)
	assert.NoError(t, err)
}
