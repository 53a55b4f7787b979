package model

import (
	"time"
)

// Account is an administrative principal of the site's content surface.
type Account struct {
	ID           string     `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	Name         *string    `db:"name" json:"name,omitempty"`
	PasswordHash string     `db:"password_hash" json:"-"`
	Role         Role       `db:"role" json:"role"`
	IsActive     bool       `db:"is_active" json:"isActive"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"lastLoginAt,omitempty"`
}

type CreateAccountParams struct {
	Email        string
	Name         *string
	PasswordHash string
	Role         Role
}

// UpdateAccountParams holds a partial update; nil fields are left unchanged.
type UpdateAccountParams struct {
	Name     *string
	Role     *Role
	IsActive *bool
}
