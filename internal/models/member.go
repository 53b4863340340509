package models

import "time"

// AccountUser is a household member that transactions and assets can be
// attributed to. It is visible only to its owner.
type AccountUser struct {
	ID           string    `db:"id" json:"id"`
	OwnerID      string    `db:"owner_id" json:"ownerId"`
	Name         string    `db:"name" json:"name"`
	Relationship string    `db:"relationship" json:"relationship"`
	BirthDate    string    `db:"birth_date" json:"birthDate"`
	Gender       string    `db:"gender" json:"gender"`
	Occupation   string    `db:"occupation" json:"occupation"`
	Phone        string    `db:"phone" json:"phone"`
	Notes        string    `db:"notes" json:"notes"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

type AccountUserPatch struct {
	Name         *string
	Relationship *string
	BirthDate    *string
	Gender       *string
	Occupation   *string
	Phone        *string
	Notes        *string
}

func (p AccountUserPatch) Apply(m *AccountUser) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&m.Name, p.Name)
	set(&m.Relationship, p.Relationship)
	set(&m.BirthDate, p.BirthDate)
	set(&m.Gender, p.Gender)
	set(&m.Occupation, p.Occupation)
	set(&m.Phone, p.Phone)
	set(&m.Notes, p.Notes)
}

// MemberDeletePolicy decides what happens to transactions and assets that
// reference a household member being deleted.
type MemberDeletePolicy string

const (
	// MemberDeleteCascade deletes the member's transactions and deactivates
	// the member's assets.
	MemberDeleteCascade MemberDeletePolicy = "cascade"
	// MemberDeleteNullify detaches dependents from the member.
	MemberDeleteNullify MemberDeletePolicy = "nullify"
	// MemberDeleteReject refuses to delete a member that still has
	// dependents.
	MemberDeleteReject MemberDeletePolicy = "reject"
)

func (p MemberDeletePolicy) Valid() bool {
	switch p {
	case MemberDeleteCascade, MemberDeleteNullify, MemberDeleteReject:
		return true
	}
	return false
}
