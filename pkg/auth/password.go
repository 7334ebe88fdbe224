package auth

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

// Hasher turns a password into its stored form and checks candidates
// against it.
type Hasher interface {
	Name() string
	Hash(plain string) (string, error)
	Verify(stored, plain string) bool
}

// NewHasher returns the hasher named by PASSWORD_HASHER: "bcrypt" or
// "plain".
func NewHasher(name string) Hasher {
	if name == "bcrypt" {
		return Bcrypt{Cost: bcrypt.DefaultCost}
	}
	return Plain{}
}

// Plain stores passwords verbatim. It exists for databases written by the
// legacy server; new deployments should select bcrypt.
type Plain struct{}

func (Plain) Name() string                      { return "plain" }
func (Plain) Hash(plain string) (string, error) { return plain, nil }

func (Plain) Verify(stored, plain string) bool {
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
}

// Bcrypt stores bcrypt hashes.
type Bcrypt struct {
	Cost int
}

func (Bcrypt) Name() string { return "bcrypt" }

func (b Bcrypt) Hash(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	out, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	return string(out), err
}

func (Bcrypt) Verify(stored, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
}
