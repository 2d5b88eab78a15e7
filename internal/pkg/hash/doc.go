// Package hash provides helpers for hashing and verifying passwords.
//
// Store only the artifact produced by Hash, then verify user input by passing
// the plaintext and the stored artifact to Verify. Artifacts are
// self-describing: Parse turns one into an Artifact tagged with the Scheme that
// produced it, so verification keeps working for hashes written by older
// schemes while new hashes always use the configured adaptive scheme.
package hash
