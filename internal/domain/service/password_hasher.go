// Package service defines interfaces for core, stateless domain logic.
// These services encapsulate business rules that don't naturally fit within a single entity.
package service

// PasswordHasher defines the interface for password hashing and verification.
// This abstracts the underlying hashing algorithm (e.g., bcrypt), keeping the domain pure.
type PasswordHasher interface {
	// Hash generates a salted hash from a plaintext password.
	Hash(password string) (string, error)

	// Check compares a plaintext password with a hash to see if they match.
	// Implementations must compare in constant time.
	Check(password, hash string) bool

	// DummyCheck burns the same work as a failed Check against a fixed hash.
	// The authentication gate calls it when no account exists for the supplied
	// email so an attacker cannot distinguish the two cases by timing.
	DummyCheck(password string)
}
