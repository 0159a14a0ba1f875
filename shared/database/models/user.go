package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	FirstName string    `json:"first_name" gorm:"size:100"`
	LastName  string    `json:"last_name" gorm:"size:100"`
	Role      Role      `json:"role" gorm:"size:32;not null;default:'user-independent'"`

	// Set for user-ngo accounts; grants upload access to that NGO's documents.
	AffiliatedNGOID *uuid.UUID `json:"affiliated_ngo_id" gorm:"type:uuid"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsAffiliatedWith reports whether the user belongs to the given NGO.
func (u *User) IsAffiliatedWith(ngoID uuid.UUID) bool {
	return u.AffiliatedNGOID != nil && *u.AffiliatedNGOID == ngoID
}
