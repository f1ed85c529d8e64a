// Package password abstracts password hashing behind a small capability
// interface so services never depend on a concrete algorithm.
package password

// Hasher computes and verifies password hashes. Implementations must be
// safe for concurrent use.
type Hasher interface {
	// Hash derives a self-describing encoded hash from the plaintext.
	Hash(plaintext string) (string, error)

	// Verify reports whether plaintext matches the stored encoded hash.
	Verify(plaintext, encoded string) bool
}
