package globals_test

import (
	"context"
	"testing"

	globals "github.com/goliatone/go-globals"
	"github.com/goliatone/go-globals/pkg/activity"
	"github.com/goliatone/go-globals/pkg/game"
	"github.com/goliatone/go-globals/pkg/state"
)

func TestWithActivityHooksClonesAndFiltersNil(t *testing.T) {
	hook := activity.HookFunc(func(context.Context, activity.Event) error { return nil })

	syncer, err := globals.NewSyncer(state.NewMemoryStore(), nil, game.NewSession(),
		globals.WithActivityHooks(activity.Hooks{nil, hook}))
	if err != nil {
		t.Fatalf("syncer: %v", err)
	}
	hooks := syncer.ActivityHooks()
	if len(hooks) != 1 {
		t.Fatalf("expected 1 hook, got %d", len(hooks))
	}

	hooks[0] = nil
	again := syncer.ActivityHooks()
	if len(again) != 1 || again[0] == nil {
		t.Fatalf("expected cloned hooks unaffected by mutation, got %+v", again)
	}
}

func TestActivityHooksDefaultNil(t *testing.T) {
	syncer, err := globals.NewSyncer(state.NewMemoryStore(), nil, game.NewSession())
	if err != nil {
		t.Fatalf("syncer: %v", err)
	}
	if hooks := syncer.ActivityHooks(); hooks != nil {
		t.Fatalf("expected nil hooks by default, got %+v", hooks)
	}
}

func TestActivityChannelApplied(t *testing.T) {
	capture := &activity.CaptureHook{}
	session := game.NewSession()
	syncer, err := globals.NewSyncer(state.NewMemoryStore(), globals.NewRegistry([]int{1}, nil), session,
		globals.WithActivityHooks(activity.Hooks{capture}),
		globals.WithActivityChannel("audit"),
	)
	if err != nil {
		t.Fatalf("syncer: %v", err)
	}
	syncer.Attach(session)
	if err := session.CreateGameObjects(context.Background()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := session.SetVariable(1, 2); err != nil {
		t.Fatalf("set: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(capture.Events))
	}
	if got := capture.Events[0].Channel; got != "audit" {
		t.Fatalf("expected channel audit, got %q", got)
	}
}
