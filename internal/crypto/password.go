// Package crypto wraps bcrypt credential hashing. A wrong password is
// a boolean mismatch, never an error; ErrMalformedHash is reserved for
// corrupt stored data.
package crypto

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMalformedHash indicates the stored credential data is corrupt and
// cannot be compared against. This is fatal for the affected account
// and should be logged, not shown to the caller.
var ErrMalformedHash = errors.New("crypto: malformed password hash")

// bcrypt prefix length covering version, cost and the embedded salt.
const saltPrefixLen = 29

// Hasher hashes and verifies passwords at a configured work factor.
type Hasher struct {
	cost int
}

// NewHasher returns a Hasher. Costs outside bcrypt's supported range
// fall back to the library default.
func NewHasher(cost int) Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return Hasher{cost: cost}
}

// Hash derives a salted hash from the plaintext. The returned salt is
// the bcrypt prefix (version, cost, salt) kept for compatibility with
// the users table layout; verification only needs the full hash.
func (h Hasher) Hash(password string) (hash, salt string, err error) {
	raw, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", "", err
	}
	hash = string(raw)
	if len(hash) >= saltPrefixLen {
		salt = hash[:saltPrefixLen]
	}
	return hash, salt, nil
}

// Verify reports whether the plaintext matches the stored hash. A
// mismatch returns (false, nil); only undecodable stored data yields
// ErrMalformedHash.
func (h Hasher) Verify(password, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, errors.Join(ErrMalformedHash, err)
	}
}
