package models

import "time"

type Role string

const (
	RoleUser   Role = "user"
	RoleEditor Role = "editor"
	RoleAdmin  Role = "admin"
)

// Roles lists every role from least to most privileged.
var Roles = []Role{RoleUser, RoleEditor, RoleAdmin}

func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleEditor, RoleAdmin:
		return true
	}
	return false
}

// Author is the identity record. Every authenticated caller is an Author.
type Author struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	Name         string    `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Bio          string    `json:"bio" gorm:"type:text"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"size:20;not null"`
	IsActive     bool      `json:"is_active" gorm:"not null"`
	CreatedByID  *uint     `json:"created_by,omitempty" gorm:"index"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
