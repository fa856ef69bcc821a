package model

import "time"

// User is a registered player account.
type User struct {
	ID             string    `json:"id"`
	Username       string    `json:"username"`
	Password       string    `json:"password,omitempty"` // bcrypt hash
	Email          string    `json:"email,omitempty"`
	XP             int       `json:"xp"`
	Level          int       `json:"level"`
	SolvedPuzzles  int       `json:"solvedPuzzles"`
	ProfileColor   string    `json:"profileColor"`
	ProfilePicture string    `json:"profilePicture,omitempty"`
	Friends        []string  `json:"friends"`
	CreatedAt      time.Time `json:"createdAt"`
}

// Clone returns a deep copy.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	cp := *u
	cp.Friends = append([]string(nil), u.Friends...)
	return &cp
}

// Sanitized returns a copy safe to send over the wire.
func (u *User) Sanitized() *User {
	cp := u.Clone()
	cp.Password = ""
	return cp
}

// UserPatch carries optional profile updates. Nil fields are left untouched.
type UserPatch struct {
	Username       *string `json:"username,omitempty"`
	Email          *string `json:"email,omitempty"`
	XP             *int    `json:"xp,omitempty"`
	Level          *int    `json:"level,omitempty"`
	SolvedPuzzles  *int    `json:"solvedPuzzles,omitempty"`
	ProfileColor   *string `json:"profileColor,omitempty"`
	ProfilePicture *string `json:"profilePicture,omitempty"`
}
