// Package globals keeps a chosen set of numbered variables and switches in
// sync across every save slot of a game session.
//
// A Registry names the global cells. A Syncer observes the live containers
// and writes a full snapshot of the global cells to a state.Store after
// every write to one of them. A Lifecycle wraps the host's bootstrap and
// load-game steps and hydrates the live containers from the stored snapshot
// once the host is done, so values set in one save show up in every other.
//
//	registry := globals.NewRegistry([]int{1, 2}, []int{3})
//	syncer, err := globals.NewSyncer(store, registry, session)
//	if err != nil {
//		return err
//	}
//	syncer.Attach(session)
//	lifecycle := globals.NewLifecycle(session, syncer)
//	if err := lifecycle.CreateGameObjects(ctx); err != nil {
//		return err
//	}
package globals
