// Package state defines the persistence-facing contract for the encoded
// global snapshot blob, plus the concrete media it can live on.
//
// Responsibilities:
//   - Store only reads/writes a single opaque blob under a single key. It
//     knows nothing about snapshots or codecs.
//   - FileStore keeps one file per key inside a save directory and replaces
//     it atomically (temp file + rename).
//   - MemoryStore is a process-local key-value store for tests and for hosts
//     without durable storage.
//   - badgerstore.Store (sub-package) is the durable key-value medium.
//
// Backend selection:
//
//	Detect(Environment) -> Environment (runtime resolved once)
//	Open(Environment)   -> Store + key
//
// The resolved Environment is immutable; callers keep the Store it produced
// for the lifetime of the process so reads and writes of one artifact always
// go through the same medium and the same codec variant.
package state
