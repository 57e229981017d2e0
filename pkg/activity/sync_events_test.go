package activity

import (
	"context"
	"testing"
)

func TestBuildPersistedEventCarriesSyncMetadata(t *testing.T) {
	meta := map[string]any{"custom": "value"}
	input := SyncEventInput{
		ActorID:        " actor ",
		SnapshotID:     "snap-1",
		Key:            "globals.rmmzsave",
		Backend:        "desktop",
		Codec:          "deflate",
		Variables:      2,
		Switches:       1,
		Trigger:        "variable:5",
		Metadata:       meta,
		DefinitionCode: "globals:persist",
		Recipients:     []string{"ops@example.com"},
	}

	event := BuildPersistedEvent(input)

	if event.Verb != VerbPersisted {
		t.Fatalf("expected verb %s got %s", VerbPersisted, event.Verb)
	}
	if event.ObjectType != "globals.snapshot" || event.ObjectID != "snap-1" {
		t.Fatalf("unexpected object fields: %+v", event)
	}
	if event.ActorID != "actor" {
		t.Fatalf("expected trimmed actor, got %q", event.ActorID)
	}
	if event.Metadata["key"] != "globals.rmmzsave" || event.Metadata["backend"] != "desktop" || event.Metadata["codec"] != "deflate" {
		t.Fatalf("unexpected location metadata: %+v", event.Metadata)
	}
	if event.Metadata["variables"] != 2 || event.Metadata["switches"] != 1 {
		t.Fatalf("unexpected counts: %+v", event.Metadata)
	}
	if event.Metadata["trigger"] != "variable:5" || event.Metadata["custom"] != "value" {
		t.Fatalf("unexpected metadata: %+v", event.Metadata)
	}
	if _, leaked := meta["key"]; leaked {
		t.Fatalf("expected input metadata untouched")
	}
	event.Recipients[0] = "changed"
	if input.Recipients[0] != "ops@example.com" {
		t.Fatalf("expected input recipients untouched, got %v", input.Recipients)
	}
}

func TestBuildHydratedEventFallsBackToKey(t *testing.T) {
	event := BuildHydratedEvent(SyncEventInput{Key: "RPG Globals"})
	if event.Verb != VerbHydrated {
		t.Fatalf("expected verb %s got %s", VerbHydrated, event.Verb)
	}
	if event.ObjectID != "RPG Globals" {
		t.Fatalf("expected key as object id, got %q", event.ObjectID)
	}

	event = BuildHydratedEvent(SyncEventInput{})
	if event.ObjectID != "globals.snapshot" {
		t.Fatalf("expected fallback object id, got %q", event.ObjectID)
	}
	if event.Metadata["variables"] != 0 {
		t.Fatalf("expected zero counts recorded, got %+v", event.Metadata)
	}
}

func TestSyncEventsWorkWithEmitter(t *testing.T) {
	capture := &CaptureHook{}
	emitter := NewEmitter(Hooks{capture}, Config{Enabled: true})

	if err := emitter.Emit(context.Background(), BuildPersistedEvent(SyncEventInput{SnapshotID: "s"})); err != nil {
		t.Fatalf("emit: %v", err)
	}
	if len(capture.Events) != 1 {
		t.Fatalf("expected one event, got %d", len(capture.Events))
	}
	if capture.Events[0].Channel != "globals" {
		t.Fatalf("expected default channel globals, got %q", capture.Events[0].Channel)
	}
}
