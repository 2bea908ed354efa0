// Package auth validates control-channel login credentials.
package auth

import (
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// Validator decides whether a username/password pair may log in.
type Validator interface {
	Authenticate(username, password string) bool
}

// Single accepts exactly one plaintext identity. It is the base-system
// credential check, suitable for anonymous-style setups.
type Single struct {
	Username string
	Password string
}

// Authenticate implements Validator.
func (s Single) Authenticate(username, password string) bool {
	return username == s.Username && password == s.Password
}

// Store validates against bcrypt password hashes, keyed by username.
type Store struct {
	mu     sync.RWMutex
	hashes map[string]string
}

// NewStore returns an empty credential store.
func NewStore() *Store {
	return &Store{hashes: make(map[string]string)}
}

// Add registers username with a bcrypt hash of password, replacing any
// previous entry for that username.
func (s *Store) Add(username, password string) error {
	hash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password for %q: %w", username, err)
	}
	s.AddHash(username, hash)
	return nil
}

// AddHash registers username with a precomputed bcrypt hash.
func (s *Store) AddHash(username, hash string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hashes[username] = hash
}

// Authenticate implements Validator. Unknown usernames and mismatched
// passwords are indistinguishable to the caller.
func (s *Store) Authenticate(username, password string) bool {
	s.mu.RLock()
	hash, ok := s.hashes[username]
	s.mu.RUnlock()
	if !ok {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// HashPassword creates a bcrypt hash of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
