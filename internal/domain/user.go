package domain

import "time"

// User represents an account. A fully registered user carries at least
// one authentication method: a bcrypt password hash or a linked Google
// identity.
type User struct {
	ID           int64
	Email        string
	PasswordHash *string
	Salt         *string
	GoogleID     *string
	FullName     string
	Username     *string
	Avatar       *string
	CreatedAt    time.Time
}

// HasPassword reports whether the account can authenticate locally.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}

// Profile is the normalized identity returned by the federated
// provider after the redirect flow. It contains facts only.
type Profile struct {
	GoogleID string
	Email    string
	FullName string
}
