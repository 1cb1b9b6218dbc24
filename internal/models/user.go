package models

import "time"

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User is the identity record. Password holds the bcrypt hash and is never serialized.
type User struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:varchar(10);not null;default:'USER'" json:"role"`
	Avatar    *string   `json:"avatar"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (User) TableName() string { return "blog.users" }

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }

// Sanitized returns a copy with the password hash cleared.
func (u User) Sanitized() User {
	u.Password = ""
	return u
}

// NewUser carries the fields needed to create a user. PasswordHash must already be hashed.
type NewUser struct {
	Email        string
	Username     string
	PasswordHash string
	Role         Role
}

// UserChanges is an in-place update. A nil PasswordHash keeps the current password.
type UserChanges struct {
	Email        string
	Username     string
	Role         Role
	PasswordHash *string
}
