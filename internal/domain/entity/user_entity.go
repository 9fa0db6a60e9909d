package entity

import (
	"time"
)

// User is the aggregate root for user domain
// Passwords are stored as bcrypt hashes in PasswordHash; plaintext only lives
// in memory between SetPassword and the next save.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	pendingPassword string
	passwordChanged bool
}

// NewUser builds an unsaved user with a pending password.
func NewUser(email, password string) *User {
	u := &User{Email: email}
	u.SetPassword(password)
	return u
}

// SetPassword marks the password as modified. The hash is recomputed on save.
func (u *User) SetPassword(plain string) {
	u.pendingPassword = plain
	u.passwordChanged = true
}

// PasswordChanged reports whether a new password is waiting to be hashed.
func (u *User) PasswordChanged() bool { return u.passwordChanged }

// HashPendingPassword replaces PasswordHash with hash(plain) when the password
// was modified since the last save. Untouched users keep their stored hash.
func (u *User) HashPendingPassword(hash func(string) (string, error)) error {
	if !u.passwordChanged {
		return nil
	}
	h, err := hash(u.pendingPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = h
	u.pendingPassword = ""
	u.passwordChanged = false
	return nil
}
