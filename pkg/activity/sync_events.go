package activity

import (
	"strings"
	"time"
)

const (
	// VerbPersisted is emitted after a snapshot was written to the store.
	VerbPersisted = "globals.persisted"
	// VerbHydrated is emitted after a stored snapshot was applied to live state.
	VerbHydrated = "globals.hydrated"

	objectType = "globals.snapshot"
)

// SyncEventInput describes the common fields for snapshot sync events.
type SyncEventInput struct {
	ActorID        string
	UserID         string
	TenantID       string
	SnapshotID     string
	Channel        string
	DefinitionCode string
	Recipients     []string
	Metadata       map[string]any
	// Key is the store key or file name the snapshot lives under.
	Key       string
	Backend   string
	Codec     string
	Variables int
	Switches  int
	// Trigger names the write or lifecycle step that caused the sync, for
	// example "variable:5" or "load".
	Trigger    string
	OccurredAt time.Time
}

// BuildPersistedEvent constructs an activity event for a snapshot write.
func BuildPersistedEvent(input SyncEventInput) Event {
	return buildSyncEvent(VerbPersisted, input)
}

// BuildHydratedEvent constructs an activity event for a snapshot hydration.
func BuildHydratedEvent(input SyncEventInput) Event {
	return buildSyncEvent(VerbHydrated, input)
}

func buildSyncEvent(verb string, input SyncEventInput) Event {
	metadata := cloneMap(input.Metadata)
	set := func(key string, value any) {
		if metadata == nil {
			metadata = map[string]any{}
		}
		metadata[key] = value
	}
	if input.Key != "" {
		set("key", input.Key)
	}
	if input.Backend != "" {
		set("backend", input.Backend)
	}
	if input.Codec != "" {
		set("codec", input.Codec)
	}
	if input.Trigger != "" {
		set("trigger", input.Trigger)
	}
	set("variables", input.Variables)
	set("switches", input.Switches)

	recipients := input.Recipients
	if len(recipients) > 0 {
		recipients = append([]string{}, input.Recipients...)
	}

	objectID := strings.TrimSpace(input.SnapshotID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Key)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:           verb,
		ActorID:        strings.TrimSpace(input.ActorID),
		UserID:         strings.TrimSpace(input.UserID),
		TenantID:       strings.TrimSpace(input.TenantID),
		ObjectType:     objectType,
		ObjectID:       objectID,
		Channel:        strings.TrimSpace(input.Channel),
		DefinitionCode: strings.TrimSpace(input.DefinitionCode),
		Recipients:     recipients,
		Metadata:       metadata,
		OccurredAt:     input.OccurredAt,
	}
}
