package users

import (
	"time"

	"github.com/google/uuid"
)

// User is the single account entity. Staff roles are a tag plus an
// optional theatre assignment rather than a subtype.
type User struct {
	ID        uuid.UUID  `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string     `json:"first_name" gorm:"not null"`
	LastName  string     `json:"last_name" gorm:"not null"`
	Password  string     `json:"-" gorm:"not null"` // hide in json
	Role      Role       `json:"role" gorm:"type:varchar(20);not null;default:'CUSTOMER'"`
	Email     string     `json:"email" gorm:"uniqueIndex;not null"`
	Birthdate *time.Time `json:"birthdate,omitempty"`
	TheatreID *uuid.UUID `json:"theatre_id,omitempty" gorm:"type:uuid"` // staff only
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// TableName sets the table name for User
func (User) TableName() string {
	return "users"
}

// IsStaff reports whether the user holds a theatre-side role
func (u *User) IsStaff() bool {
	return u.Role == RoleManager || u.Role == RoleCashier
}
