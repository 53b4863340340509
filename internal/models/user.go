package models

import "time"

// User is a registered person owning a ledger. PasswordHash never leaves the
// process: it is excluded from JSON so backups do not carry credentials.
type User struct {
	ID              string    `db:"id" json:"id"`
	Username        string    `db:"username" json:"username"`
	Email           string    `db:"email" json:"email"`
	PasswordHash    string    `db:"password_hash" json:"-"`
	DisplayName     string    `db:"display_name" json:"displayName"`
	DefaultCurrency string    `db:"default_currency" json:"defaultCurrency"`
	Settings        JSONMap   `db:"settings" json:"settings"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}

// NewUser carries registration input.
type NewUser struct {
	Username        string
	Email           string
	Password        []byte
	DisplayName     string
	DefaultCurrency string
}

// UserPatch holds the fields of a partial user update. Nil fields are left
// untouched; a non-nil Settings replaces the whole settings object.
type UserPatch struct {
	Username        *string
	Email           *string
	DisplayName     *string
	DefaultCurrency *string
	Settings        JSONMap
}

func (p UserPatch) Apply(u *User) {
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.DisplayName != nil {
		u.DisplayName = *p.DisplayName
	}
	if p.DefaultCurrency != nil {
		u.DefaultCurrency = *p.DefaultCurrency
	}
	if p.Settings != nil {
		u.Settings = p.Settings
	}
}

// ResetFailure names a user whose password could not be reset.
type ResetFailure struct {
	UserID string `json:"userId"`
	Error  string `json:"error"`
}

// ResetResult reports a bulk password reset. Updated plus len(Failed)
// equals Total.
type ResetResult struct {
	Total   int            `json:"total"`
	Updated int            `json:"updated"`
	Failed  []ResetFailure `json:"failed"`
}
