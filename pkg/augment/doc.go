// Package augment implements the durable augmentation store: an append-only
// update file that accumulates per-case field updates as they are captured,
// and a compact file that holds the committed, deduplicated result.
//
// The store moves through three states. It is at Base when the update file is
// empty or absent and the compact file holds everything committed so far.
// Appending an entry makes it Dirty. Commit merges the pending entries into
// the compact file under an advisory lock, rewrites the compact file
// atomically, and truncates the update file, returning the store to Base. A
// failed commit leaves both files untouched, so the commit can simply be
// retried.
package augment
