package models

import "time"

// User captures a registered account. Profile fields stay nil until the
// owner first updates them.
type User struct {
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    *string    `json:"firstName"`
	LastName     *string    `json:"lastName"`
	DOB          *time.Time `json:"-"`
	Address      *string    `json:"address"`
	CreatedAt    time.Time  `json:"-"`
}

// Profile is a validated profile update, persisted verbatim.
type Profile struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	DOB       string `json:"dob"`
	Address   string `json:"address"`
}

// DateLayout is the wire and storage format of a date of birth.
const DateLayout = "2006-01-02"
